package nlu

import (
	"testing"

	contractx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/contract"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want contractx.Intent
	}{
		{name: "tracking phrase", text: "Where is my order 98762?", want: contractx.IntentOrderStatus},
		{name: "track keyword", text: "please track my package", want: contractx.IntentOrderStatus},
		{name: "refund status", text: "what is the status of my refund", want: contractx.IntentRefundStatus},
		{name: "bare refund", text: "my refund for order 55555", want: contractx.IntentRefundStatus},
		{name: "refund timing beats refund status", text: "how long does a refund take", want: contractx.IntentReturnPolicy},
		{name: "return window", text: "what is your return window", want: contractx.IntentReturnPolicy},
		{name: "delivery delay without id", text: "my delivery is late", want: contractx.IntentDeliveryDelay},
		{name: "delivery delay with id becomes lookup", text: "delivery of order 98762 is delayed", want: contractx.IntentOrderStatus},
		{name: "charges", text: "why was I charged a convenience fee", want: contractx.IntentChargesQuery},
		{name: "availability by product id", text: "is P123 in stock", want: contractx.IntentProductAvailability},
		{name: "availability by keyword", text: "do you have this available", want: contractx.IntentProductAvailability},
		{name: "fallback", text: "tell me about your company", want: contractx.IntentPolicyQuery},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Classify(tt.text, ExtractSlots(tt.text))
			if got != tt.want {
				t.Fatalf("Classify(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestClassifyOrderMentionRequiresExtractedID(t *testing.T) {
	t.Parallel()

	// "order" alone is not enough to claim order_status; without an id the
	// utterance falls through to later rules.
	got := Classify("I placed an order yesterday", Slots{})
	if got != contractx.IntentPolicyQuery {
		t.Fatalf("Classify() = %q, want %q", got, contractx.IntentPolicyQuery)
	}

	got = Classify("my order 98762 arrived damaged", Slots{OrderID: "98762"})
	if got != contractx.IntentOrderStatus {
		t.Fatalf("Classify() = %q, want %q", got, contractx.IntentOrderStatus)
	}
}

func TestIsDigitsOnly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want bool
	}{
		{"98762", true},
		{"  98762  ", true},
		{"98762?", false},
		{"P123", false},
		{"", false},
		{"   ", false},
	}

	for _, tt := range tests {
		if got := IsDigitsOnly(tt.text); got != tt.want {
			t.Fatalf("IsDigitsOnly(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
