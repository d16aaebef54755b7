package composer

import (
	"strings"
	"testing"

	contractx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/contract"
	promptx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/prompt"
	statex "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/state"
)

func newTurn(t *testing.T, intent contractx.Intent, slots map[string]string) *statex.TurnState {
	t.Helper()
	turn := statex.NewTurnState("query", slots, 5)
	turn.Intent = intent
	return turn
}

func TestComposeClarificationPassesThrough(t *testing.T) {
	t.Parallel()

	prompts := promptx.LoadPromptSet()
	turn := newTurn(t, contractx.IntentOrderStatus, nil)
	turn.SetFinalAnswer(prompts.ClarifyOrderID)

	got, err := Compose(turn, prompts)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if got != prompts.ClarifyOrderID {
		t.Fatalf("Compose() = %q, want clarification unchanged", got)
	}
}

func TestComposeOrderStatus(t *testing.T) {
	t.Parallel()

	turn := newTurn(t, contractx.IntentOrderStatus, map[string]string{contractx.SlotOrderID: "98762"})
	turn.Backend = &contractx.BackendResult{Record: contractx.Record{
		"order_id":          "98762",
		"status":            "shipped",
		"expected_delivery": "2026-09-02",
	}}

	got, err := Compose(turn, promptx.LoadPromptSet())
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	want := "Order 98762 is currently: shipped. Expected delivery: 2026-09-02."
	if got != want {
		t.Fatalf("Compose() = %q, want %q", got, want)
	}
}

func TestComposeOrderNotFound(t *testing.T) {
	t.Parallel()

	turn := newTurn(t, contractx.IntentOrderStatus, map[string]string{contractx.SlotOrderID: "00000"})
	turn.Backend = &contractx.BackendResult{NotFound: true, MissingID: "00000"}

	got, err := Compose(turn, promptx.LoadPromptSet())
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	want := "I couldn't find the order 00000. Please check the order ID."
	if got != want {
		t.Fatalf("Compose() = %q, want %q", got, want)
	}
}

func TestComposeAvailability(t *testing.T) {
	t.Parallel()

	turn := newTurn(t, contractx.IntentProductAvailability, map[string]string{contractx.SlotProductID: "P123"})
	turn.Backend = &contractx.BackendResult{Record: contractx.Record{
		"product_id": "P123",
		"in_stock":   "true",
		"quantity":   "7",
	}}

	got, err := Compose(turn, promptx.LoadPromptSet())
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	want := "Product P123: In stock. Quantity available: 7."
	if got != want {
		t.Fatalf("Compose() = %q, want %q", got, want)
	}
}

func TestComposePolicyPassagesWithFooter(t *testing.T) {
	t.Parallel()

	turn := newTurn(t, contractx.IntentReturnPolicy, nil)
	turn.Passages = []contractx.ScoredPassage{
		{Text: "Returns are accepted within 30 days.", Provenance: contractx.Provenance{DocID: "returns"}},
		{Text: "Refunds post within 5 business days.", Provenance: contractx.Provenance{DocID: "refunds"}},
		{Text: "A third passage beyond the snippet limit.", Provenance: contractx.Provenance{DocID: "returns"}},
	}

	got, err := Compose(turn, promptx.LoadPromptSet())
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if !strings.Contains(got, "Returns are accepted within 30 days.") {
		t.Fatalf("missing first snippet: %q", got)
	}
	if !strings.Contains(got, "Refunds post within 5 business days.") {
		t.Fatalf("missing second snippet: %q", got)
	}
	if strings.Contains(got, "third passage") {
		t.Fatalf("snippet limit not applied: %q", got)
	}
	if !strings.HasSuffix(got, "_Policy reference: returns, refunds_") {
		t.Fatalf("footer missing or wrong: %q", got)
	}
}

func TestComposeBackendSuppressesPassageBody(t *testing.T) {
	t.Parallel()

	// Supplemental passages attach only their provenance when a backend
	// answer is present.
	turn := newTurn(t, contractx.IntentOrderStatus, map[string]string{contractx.SlotOrderID: "98762"})
	turn.Backend = &contractx.BackendResult{Record: contractx.Record{
		"order_id": "98762",
		"status":   "delayed",
	}}
	turn.Passages = []contractx.ScoredPassage{
		{Text: "Delivery delays are refunded per policy.", Provenance: contractx.Provenance{DocID: "delays"}},
	}

	got, err := Compose(turn, promptx.LoadPromptSet())
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if strings.Contains(got, "Delivery delays are refunded per policy.") {
		t.Fatalf("passage body should be suppressed: %q", got)
	}
	if !strings.Contains(got, "_Policy reference: delays_") {
		t.Fatalf("provenance footer missing: %q", got)
	}
}

func TestComposeNoInformation(t *testing.T) {
	t.Parallel()

	prompts := promptx.LoadPromptSet()
	turn := newTurn(t, contractx.IntentPolicyQuery, nil)

	got, err := Compose(turn, prompts)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if got != prompts.NoInfo {
		t.Fatalf("Compose() = %q, want no-info prompt", got)
	}
}

func TestComposeNilTurn(t *testing.T) {
	t.Parallel()

	if _, err := Compose(nil, promptx.LoadPromptSet()); err == nil {
		t.Fatalf("Compose(nil) should fail")
	}
}

func TestTruncateLongPassage(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("policy text ", 60)
	got := truncate(long, 300)
	if len(got) > 300+len(passageEllipsis) {
		t.Fatalf("len = %d, want <= %d", len(got), 300+len(passageEllipsis))
	}
	if !strings.HasSuffix(got, passageEllipsis) {
		t.Fatalf("truncated text missing ellipsis: %q", got[len(got)-10:])
	}
}
