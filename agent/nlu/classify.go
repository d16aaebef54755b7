package nlu

import (
	"strings"

	contractx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/contract"
)

// Classify resolves an utterance to one intent label. Rules are evaluated in
// fixed priority order; the first match wins. The ordering is a deliberate
// tie-break policy: refund timing beats refund status, tracking phrases beat
// bare order-id mentions, and so on.
func Classify(text string, slots Slots) contractx.Intent {
	lower := strings.ToLower(text)

	// 1. Return/refund timing phrases.
	if containsAny(lower, "how long", "how many days") &&
		containsAny(lower, "refund", "return") {
		return contractx.IntentReturnPolicy
	}

	// 2. Refund-focused.
	if strings.Contains(lower, "refund") {
		if containsAny(lower, "status", "check", "what is") {
			return contractx.IntentRefundStatus
		}
		if containsAny(lower, "how long", "policy", "take") {
			return contractx.IntentReturnPolicy
		}
		return contractx.IntentRefundStatus
	}

	// 3. Tracking phrases.
	if strings.Contains(lower, "where is my order") ||
		strings.Contains(lower, "track") ||
		(strings.Contains(lower, "where") && strings.Contains(lower, "order")) {
		return contractx.IntentOrderStatus
	}

	// 4. "order" plus an extracted order id.
	if strings.Contains(lower, "order") && slots.OrderID != "" {
		return contractx.IntentOrderStatus
	}

	// 5. Delivery lateness.
	if strings.Contains(lower, "out for delivery") ||
		(strings.Contains(lower, "delivery") && containsAny(lower, "late", "delay")) {
		if slots.OrderID != "" {
			return contractx.IntentOrderStatus
		}
		return contractx.IntentDeliveryDelay
	}

	// 6. Billing / charges.
	if containsAny(lower, "charged", "charge", "extra charge", "why was i charged", "fees", "convenience fee") {
		return contractx.IntentChargesQuery
	}

	// 7. Return policy keywords.
	if containsAny(lower, "return", "return window", "refund policy", "how long do refunds take") {
		return contractx.IntentReturnPolicy
	}

	// 8. Product availability.
	if slots.ProductID != "" || containsAny(lower, "in stock", "stock", "available") {
		return contractx.IntentProductAvailability
	}

	// 9. Fallback.
	return contractx.IntentPolicyQuery
}

// Classification resolves both slots and intent for one utterance.
func Classification(text string) (contractx.Intent, Slots) {
	slots := ExtractSlots(text)
	return Classify(text, slots), slots
}

// IsDigitsOnly reports whether the trimmed input is composed entirely of
// digits. A pure digit string is never itself an intent signal; the
// orchestrator treats it as a bare slot-fill reply.
func IsDigitsOnly(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func containsAny(lower string, phrases ...string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
