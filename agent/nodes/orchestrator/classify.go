package orchestratornode

import (
	"fmt"

	contractx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/contract"
	nlux "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/nlu"
)

// Classify resolves the turn's intent and merges extracted slots. A pure
// digit reply is a bare slot-fill, not an intent signal: it fills order_id
// and inherits the remembered intent when that intent is order-related. A
// correction re-run's seed intent wins over everything.
func Classify(in *GraphState) (*GraphState, error) {
	if in == nil || in.Turn == nil || in.Memory == nil {
		return nil, fmt.Errorf("%w: graph state is incomplete", contractx.ErrValidation)
	}
	turn := in.Turn

	if nlux.IsDigitsOnly(in.Text) {
		turn.SetSlot(contractx.SlotOrderID, in.Text)

		switch {
		case in.SeedIntent != "":
			turn.Intent = in.SeedIntent
		case in.Memory.LastIntent.NeedsOrderID():
			turn.Intent = in.Memory.LastIntent
		default:
			turn.Intent = contractx.IntentOrderStatus
		}
		return in, nil
	}

	intent, slots := nlux.Classification(in.Text)
	slots.Merge(turn.Slots)

	if in.SeedIntent != "" {
		intent = in.SeedIntent
	}
	turn.Intent = intent
	return in, nil
}
