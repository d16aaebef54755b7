package orchestratornode

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/contract"
	statex "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/state"
)

// CallBackend dispatches the lookup matching the intent. Backend failures are
// recorded and the turn continues; not-found is a recoverable marker, not an
// error. Intents without a lookup pass through untouched.
func CallBackend(ctx context.Context, in *GraphState, gateway contractx.Gateway) (*GraphState, error) {
	if in == nil || in.Turn == nil {
		return nil, fmt.Errorf("%w: graph state is incomplete", contractx.ErrValidation)
	}
	turn := in.Turn
	if turn.Done() {
		return in, nil
	}

	var (
		id     string
		lookup func(context.Context, string) (contractx.Record, error)
	)
	switch turn.Intent {
	case contractx.IntentOrderStatus, contractx.IntentDeliveryDelay:
		id = turn.Slot(contractx.SlotOrderID)
		lookup = gateway.LookupOrder
	case contractx.IntentRefundStatus:
		id = turn.Slot(contractx.SlotOrderID)
		lookup = gateway.LookupRefund
	case contractx.IntentProductAvailability, contractx.IntentInventoryCheck:
		id = turn.Slot(contractx.SlotProductID)
		lookup = gateway.LookupInventory
	default:
		return in, nil
	}
	if id == "" {
		// FillCheck guarantees this does not happen for required slots.
		return in, nil
	}

	rec, err := lookup(ctx, id)
	switch {
	case err == nil:
		turn.Backend = &contractx.BackendResult{Record: rec}
		turn.AppendTrace(statex.TraceStep{
			Action:      fmt.Sprintf("lookup intent=%s id=%s", turn.Intent, id),
			Observation: "record found",
		})
	case errors.Is(err, contractx.ErrNotFound):
		turn.Backend = &contractx.BackendResult{NotFound: true, MissingID: id}
		turn.AppendTrace(statex.TraceStep{
			Action:      fmt.Sprintf("lookup intent=%s id=%s", turn.Intent, id),
			Observation: "not found",
		})
	default:
		turn.AppendError(fmt.Sprintf("backend lookup failed: %v", err))
		turn.AppendTrace(statex.TraceStep{
			Action:      fmt.Sprintf("lookup intent=%s id=%s", turn.Intent, id),
			Observation: "backend unavailable",
		})
	}
	return in, nil
}
