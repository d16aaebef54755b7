package orchestratornode

import (
	"fmt"

	composerx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/composer"
	contractx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/contract"
	promptx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/prompt"
)

// Compose delegates to the answer composer. A composer failure is replaced by
// the generic apology and recorded; the turn always ends with an answer.
func Compose(in *GraphState, prompts promptx.PromptSet) (*GraphState, error) {
	if in == nil || in.Turn == nil {
		return nil, fmt.Errorf("%w: graph state is incomplete", contractx.ErrValidation)
	}
	turn := in.Turn

	answer, err := composerx.Compose(turn, prompts)
	if err != nil {
		turn.AppendError(fmt.Sprintf("compose failed: %v", err))
		answer = prompts.Apology
	}
	turn.SetFinalAnswer(answer)
	return in, nil
}
