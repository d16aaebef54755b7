package orchestratornode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/contract"
	statex "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/state"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidSession = errors.New("session id is empty")
)

// GraphInput starts one orchestration pass. SeedIntent is set only on the
// memory-correction re-run and wins over the classifier.
type GraphInput struct {
	SessionID  string
	Text       string
	SeedIntent contractx.Intent
}

// GraphOutput hands the completed pass back to the service layer, which owns
// the correction decision and the single end-of-turn memory write.
type GraphOutput struct {
	Turn   *statex.TurnState
	Memory *statex.SessionMemory
}

// GraphState is threaded through the pipeline nodes. Nodes mutate only their
// own outputs through the TurnState API.
type GraphState struct {
	SessionID  string
	Text       string
	Now        time.Time
	SeedIntent contractx.Intent

	Memory *statex.SessionMemory
	Turn   *statex.TurnState
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		SessionID:  sessionID,
		Text:       text,
		Now:        nowFn().UTC(),
		SeedIntent: in.SeedIntent,
	}, nil
}
