package contract

// Intent is the closed-set classification of what the user wants.
type Intent string

const (
	IntentOrderStatus         Intent = "order_status"
	IntentRefundStatus        Intent = "refund_status"
	IntentProductAvailability Intent = "product_availability"
	IntentInventoryCheck      Intent = "inventory_check"
	IntentDeliveryDelay       Intent = "delivery_delay"
	IntentChargesQuery        Intent = "charges_query"
	IntentReturnPolicy        Intent = "return_policy"
	IntentCancellationPolicy  Intent = "cancellation_policy"
	IntentPolicyQuery         Intent = "policy_query"
)

// Slot names used across extraction, fill checks, and session memory.
const (
	SlotOrderID   = "order_id"
	SlotProductID = "product_id"
)

// OrderIntents require an order_id before any backend dispatch.
func (i Intent) NeedsOrderID() bool {
	switch i {
	case IntentOrderStatus, IntentRefundStatus, IntentDeliveryDelay:
		return true
	}
	return false
}

// ProductIntents require a product_id before any backend dispatch.
func (i Intent) NeedsProductID() bool {
	switch i {
	case IntentProductAvailability, IntentInventoryCheck:
		return true
	}
	return false
}

// PolicyOriented reports whether the intent always triggers policy retrieval.
func (i Intent) PolicyOriented() bool {
	switch i {
	case IntentChargesQuery, IntentReturnPolicy, IntentDeliveryDelay,
		IntentPolicyQuery, IntentCancellationPolicy:
		return true
	}
	return false
}

// Record is a flat backend response: string keys to string values.
type Record map[string]string

// BackendResult carries either a record or a user-facing not-found marker.
type BackendResult struct {
	Record   Record `json:"record,omitempty"`
	NotFound bool   `json:"not_found,omitempty"`
	// MissingID is the identifier the backend could not resolve.
	MissingID string `json:"missing_id,omitempty"`
}

// Provenance identifies where a retrieved passage came from.
type Provenance struct {
	DocID   string `json:"doc_id"`
	ChunkID string `json:"chunk_id"`
}

// ScoredPassage is one re-ranked retrieval result. Immutable once produced.
type ScoredPassage struct {
	Text          string     `json:"text"`
	Provenance    Provenance `json:"provenance"`
	SemanticScore float64    `json:"semantic_score"`
	LexicalScore  float64    `json:"lexical_score"`
	CombinedScore float64    `json:"combined_score"`
}

// RetrievalResult is the ranked output of the hybrid retriever.
type RetrievalResult struct {
	Passages   []ScoredPassage `json:"passages"`
	Confidence float64         `json:"confidence"`
}

// Candidate is a raw nearest-neighbor hit before re-ranking. The index's own
// distance units are never trusted for the final ranking.
type Candidate struct {
	Text       string
	Provenance Provenance
	Distance   float64
}

// TurnResult is what RunTurn reports back to the caller.
type TurnResult struct {
	FinalAnswer string            `json:"final_answer"`
	Intent      Intent            `json:"intent"`
	Slots       map[string]string `json:"slots"`
	Errors      []string          `json:"errors,omitempty"`
}
