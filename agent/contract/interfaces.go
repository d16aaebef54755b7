package contract

import "context"

// Embedder converts text into a fixed-length float vector, deterministic for a
// fixed model identity.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// VectorIndex serves nearest-neighbor candidates for a query vector. The index
// is pre-populated outside a turn.
type VectorIndex interface {
	Nearest(ctx context.Context, vector []float64, k int) ([]Candidate, error)
}

// Gateway is the backend lookup boundary. Lookups are pure reads; every method
// returns ErrNotFound when the identifier resolves to nothing.
type Gateway interface {
	LookupOrder(ctx context.Context, orderID string) (Record, error)
	LookupRefund(ctx context.Context, orderID string) (Record, error)
	LookupInventory(ctx context.Context, productID string) (Record, error)
}

// Retriever returns ranked supporting passages for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, fetchK, topK int, alpha float64) (RetrievalResult, error)
}
