package orchestratornode

import (
	"fmt"

	contractx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/contract"
)

// Finalize hands the pass back to the service layer. The turn must carry an
// answer by now; FillCheck or Compose always sets one.
func Finalize(in *GraphState) (GraphOutput, error) {
	if in == nil || in.Turn == nil || in.Memory == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is incomplete", contractx.ErrValidation)
	}
	if !in.Turn.Done() {
		return GraphOutput{}, fmt.Errorf("%w: turn ended without an answer", contractx.ErrValidation)
	}
	return GraphOutput{
		Turn:   in.Turn,
		Memory: in.Memory,
	}, nil
}
