package state

import (
	contractx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/contract"
)

// TraceStep is one reasoning-loop entry: what was considered, what was done,
// and what came back.
type TraceStep struct {
	Thought     string `json:"thought,omitempty"`
	Action      string `json:"action"`
	Observation string `json:"observation,omitempty"`
}

// TurnState is the mutable record threaded through one orchestration pass.
// Query is immutable once set; FinalAnswer is set at most once and its
// presence is the turn-completion signal. Mutation goes through the narrow
// API below; orchestration steps never write foreign fields directly.
type TurnState struct {
	Query string

	Intent contractx.Intent
	Slots  map[string]string

	Backend  *contractx.BackendResult
	Passages []contractx.ScoredPassage

	finalAnswer string

	Trace      []TraceStep
	Iterations int
	Errors     []string

	traceCap int
}

// NewTurnState seeds a turn with the user query and any slots carried over
// from session memory. traceCap bounds the reasoning trace.
func NewTurnState(query string, seedSlots map[string]string, traceCap int) *TurnState {
	slots := make(map[string]string, len(seedSlots)+2)
	for k, v := range seedSlots {
		if v != "" {
			slots[k] = v
		}
	}
	if traceCap <= 0 {
		traceCap = 5
	}
	return &TurnState{
		Query:    query,
		Slots:    slots,
		traceCap: traceCap,
	}
}

// SetSlot records a slot value. Empty values never overwrite an existing one.
func (t *TurnState) SetSlot(name, value string) {
	if value == "" {
		return
	}
	if t.Slots == nil {
		t.Slots = make(map[string]string, 2)
	}
	t.Slots[name] = value
}

// Slot returns the slot value or "".
func (t *TurnState) Slot(name string) string {
	if t == nil || t.Slots == nil {
		return ""
	}
	return t.Slots[name]
}

// SetFinalAnswer completes the turn. The first writer wins; later calls are
// ignored so exactly one of the clarification short-circuit and the compose
// step produces the answer.
func (t *TurnState) SetFinalAnswer(answer string) {
	if t.finalAnswer != "" || answer == "" {
		return
	}
	t.finalAnswer = answer
}

// FinalAnswer returns the answer, or "" while the turn is still routing.
func (t *TurnState) FinalAnswer() string {
	return t.finalAnswer
}

// Done reports whether the turn has produced its answer.
func (t *TurnState) Done() bool {
	return t.finalAnswer != ""
}

// AppendError records a non-fatal, observational error description.
func (t *TurnState) AppendError(desc string) {
	if desc == "" {
		return
	}
	t.Errors = append(t.Errors, desc)
}

// AppendTrace appends a reasoning step, dropping entries past the trace cap.
func (t *TurnState) AppendTrace(step TraceStep) {
	if len(t.Trace) >= t.traceCap {
		return
	}
	t.Trace = append(t.Trace, step)
}

// NextIteration bumps the iteration counter and reports whether the cap has
// been exceeded, in which case the caller must force composition.
func (t *TurnState) NextIteration(cap int) bool {
	t.Iterations++
	return t.Iterations > cap
}

// Result converts the completed turn into the caller-facing shape.
func (t *TurnState) Result() contractx.TurnResult {
	slots := make(map[string]string, len(t.Slots))
	for k, v := range t.Slots {
		slots[k] = v
	}
	return contractx.TurnResult{
		FinalAnswer: t.finalAnswer,
		Intent:      t.Intent,
		Slots:       slots,
		Errors:      append([]string(nil), t.Errors...),
	}
}
