package orchestratornode

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/contract"
	statex "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/state"
)

// LoadMemory fetches the session memory (empty defaults on first reference)
// and seeds the turn with the last-known identifiers.
func LoadMemory(
	ctx context.Context,
	in *GraphState,
	store statex.Store,
	traceCap int,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	mem, err := store.Load(ctx, in.SessionID)
	if err != nil {
		if !errors.Is(err, statex.ErrStateNotFound) {
			return nil, err
		}
		mem = statex.NewSessionMemory(in.SessionID, in.Now)
	}

	in.Memory = mem
	in.Turn = statex.NewTurnState(in.Text, mem.SeedSlots(), traceCap)
	return in, nil
}
