package orchestratornode

import (
	"fmt"

	contractx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/contract"
	promptx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/prompt"
)

// FillCheck enforces the slot precondition: intents that need an identifier
// short-circuit to a clarification prompt when it is missing. The backend is
// never called with a missing required identifier.
func FillCheck(in *GraphState, prompts promptx.PromptSet) (*GraphState, error) {
	if in == nil || in.Turn == nil {
		return nil, fmt.Errorf("%w: graph state is incomplete", contractx.ErrValidation)
	}
	turn := in.Turn

	if turn.Intent.NeedsOrderID() && turn.Slot(contractx.SlotOrderID) == "" {
		turn.SetFinalAnswer(prompts.ClarifyOrderID)
		return in, nil
	}
	if turn.Intent.NeedsProductID() && turn.Slot(contractx.SlotProductID) == "" {
		turn.SetFinalAnswer(prompts.ClarifyProductID)
	}
	return in, nil
}
