package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/contract"
	statex "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/state"
)

// RetrieveParams tunes the two retrieval shapes: the full fetch for
// policy-oriented intents and the smaller supplementary fetch that grounds a
// backend result.
type RetrieveParams struct {
	FetchK           int
	TopK             int
	SupplementFetchK int
	SupplementTopK   int
	Alpha            float64
}

// Retrieve fetches supporting policy passages. Policy-oriented intents always
// retrieve; other intents retrieve only to supplement an obtained backend
// result. Retrieval failures degrade to an empty passage list.
func Retrieve(ctx context.Context, in *GraphState, retriever contractx.Retriever, params RetrieveParams) (*GraphState, error) {
	if in == nil || in.Turn == nil {
		return nil, fmt.Errorf("%w: graph state is incomplete", contractx.ErrValidation)
	}
	turn := in.Turn
	if turn.Done() {
		return in, nil
	}

	fetchK, topK := 0, 0
	switch {
	case turn.Intent.PolicyOriented():
		fetchK, topK = params.FetchK, params.TopK
	case turn.Backend != nil:
		fetchK, topK = params.SupplementFetchK, params.SupplementTopK
	default:
		return in, nil
	}

	result, err := retriever.Retrieve(ctx, turn.Query, fetchK, topK, params.Alpha)
	if err != nil {
		turn.AppendError(fmt.Sprintf("retrieval failed: %v", err))
		turn.AppendTrace(statex.TraceStep{
			Action:      "retrieve policy passages",
			Observation: "retrieval unavailable",
		})
		return in, nil
	}

	turn.Passages = result.Passages
	turn.AppendTrace(statex.TraceStep{
		Action:      "retrieve policy passages",
		Observation: fmt.Sprintf("%d passages, confidence=%.3f", len(result.Passages), result.Confidence),
	})
	return in, nil
}
