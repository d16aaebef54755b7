package state

import (
	"fmt"
	"testing"
	"time"

	contractx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/contract"
)

func TestSeedSlots(t *testing.T) {
	t.Parallel()

	mem := NewSessionMemory("s1", time.Now())
	if got := mem.SeedSlots(); len(got) != 0 {
		t.Fatalf("SeedSlots() on fresh memory = %#v, want empty", got)
	}

	mem.LastOrderID = "98762"
	mem.LastProductID = "P123"
	got := mem.SeedSlots()
	if got[contractx.SlotOrderID] != "98762" || got[contractx.SlotProductID] != "P123" {
		t.Fatalf("SeedSlots() = %#v", got)
	}
}

func TestReconcileOverwritesIdentifiers(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	mem := NewSessionMemory("s1", now)
	mem.LastOrderID = "11111"
	mem.LastIntent = contractx.IntentRefundStatus

	turn := NewTurnState("where is my order 98762", nil, 5)
	turn.Intent = contractx.IntentOrderStatus
	turn.SetSlot(contractx.SlotOrderID, "98762")
	turn.SetFinalAnswer("Order 98762 is currently: shipped.")

	mem.Reconcile(turn, now)

	if mem.LastOrderID != "98762" {
		t.Fatalf("LastOrderID = %q, want 98762", mem.LastOrderID)
	}
	if mem.LastIntent != contractx.IntentOrderStatus {
		t.Fatalf("LastIntent = %q, want order_status", mem.LastIntent)
	}
	if len(mem.Transcript) != 1 {
		t.Fatalf("len(Transcript) = %d, want 1", len(mem.Transcript))
	}
	if mem.Transcript[0].User != "where is my order 98762" {
		t.Fatalf("Transcript[0].User = %q", mem.Transcript[0].User)
	}
	if !mem.UpdatedAt.Equal(now) {
		t.Fatalf("UpdatedAt = %v, want %v", mem.UpdatedAt, now)
	}
}

func TestReconcileKeepsIdentifiersOnEmptyTurn(t *testing.T) {
	t.Parallel()

	mem := NewSessionMemory("s1", time.Now())
	mem.LastOrderID = "11111"
	mem.LastIntent = contractx.IntentRefundStatus

	turn := NewTurnState("what is your return policy", nil, 5)
	turn.Intent = contractx.IntentReturnPolicy
	turn.SetFinalAnswer("Returns are accepted within 30 days.")

	mem.Reconcile(turn, time.Now())

	if mem.LastOrderID != "11111" {
		t.Fatalf("LastOrderID = %q, want carried over 11111", mem.LastOrderID)
	}
	if mem.LastIntent != contractx.IntentReturnPolicy {
		t.Fatalf("LastIntent = %q, want return_policy", mem.LastIntent)
	}
}

func TestReconcileTranscriptCap(t *testing.T) {
	t.Parallel()

	mem := NewSessionMemory("s1", time.Now())
	for i := 0; i < TranscriptCap+5; i++ {
		turn := NewTurnState(fmt.Sprintf("question %d", i), nil, 5)
		turn.SetFinalAnswer(fmt.Sprintf("answer %d", i))
		mem.Reconcile(turn, time.Now())
	}

	if len(mem.Transcript) != TranscriptCap {
		t.Fatalf("len(Transcript) = %d, want %d", len(mem.Transcript), TranscriptCap)
	}
	// Oldest entries dropped, newest kept.
	if mem.Transcript[0].User != "question 5" {
		t.Fatalf("Transcript[0].User = %q, want question 5", mem.Transcript[0].User)
	}
	last := mem.Transcript[len(mem.Transcript)-1]
	if last.User != fmt.Sprintf("question %d", TranscriptCap+4) {
		t.Fatalf("last transcript entry = %q", last.User)
	}
}

func TestTurnStateFinalAnswerFirstWriterWins(t *testing.T) {
	t.Parallel()

	turn := NewTurnState("q", nil, 5)
	if turn.Done() {
		t.Fatalf("fresh turn should not be done")
	}
	turn.SetFinalAnswer("first")
	turn.SetFinalAnswer("second")
	if turn.FinalAnswer() != "first" {
		t.Fatalf("FinalAnswer() = %q, want first", turn.FinalAnswer())
	}
}

func TestTurnStateTraceCap(t *testing.T) {
	t.Parallel()

	turn := NewTurnState("q", nil, 2)
	for i := 0; i < 5; i++ {
		turn.AppendTrace(TraceStep{Action: fmt.Sprintf("step %d", i)})
	}
	if len(turn.Trace) != 2 {
		t.Fatalf("len(Trace) = %d, want 2", len(turn.Trace))
	}
}

func TestTurnStateSeedSlotsCopied(t *testing.T) {
	t.Parallel()

	seed := map[string]string{contractx.SlotOrderID: "98762", "blank": ""}
	turn := NewTurnState("q", seed, 5)
	if turn.Slot(contractx.SlotOrderID) != "98762" {
		t.Fatalf("seed slot not copied")
	}
	if turn.Slot("blank") != "" {
		t.Fatalf("empty seed value should be dropped")
	}

	seed[contractx.SlotOrderID] = "mutated"
	if turn.Slot(contractx.SlotOrderID) != "98762" {
		t.Fatalf("turn slots share backing map with seed")
	}
}
