package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	contractx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/contract"
	nodex "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/nodes/orchestrator"
	promptx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/prompt"
	statex "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/state"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidSession = nodex.ErrInvalidSession
)

// Config tunes one orchestrator instance. MaxIterations bounds graph passes
// per turn (the memory-correction re-run counts as a pass); the cap is a
// safety valve, not a tuned production setting.
type Config struct {
	MaxIterations    int     `envconfig:"MAX_ITERATIONS" split_words:"true" default:"5"`
	FetchK           int     `envconfig:"FETCH_K" split_words:"true" default:"10"`
	TopK             int     `envconfig:"TOP_K" split_words:"true" default:"3"`
	SupplementFetchK int     `envconfig:"SUPPLEMENT_FETCH_K" split_words:"true" default:"6"`
	SupplementTopK   int     `envconfig:"SUPPLEMENT_TOP_K" split_words:"true" default:"2"`
	Alpha            float64 `envconfig:"ALPHA" split_words:"true" default:"0.85"`
}

func (c *Config) applyDefaults() {
	if c.MaxIterations <= 0 {
		c.MaxIterations = 5
	}
	if c.FetchK <= 0 {
		c.FetchK = 10
	}
	if c.TopK <= 0 {
		c.TopK = 3
	}
	if c.SupplementFetchK <= 0 {
		c.SupplementFetchK = 6
	}
	if c.SupplementTopK <= 0 {
		c.SupplementTopK = 2
	}
	if c.Alpha <= 0 || c.Alpha > 1 {
		c.Alpha = 0.85
	}
}

// Orchestrator sequences one turn: classify, fill-or-ask, act, retrieve,
// compose, then reconcile session memory. All collaborators are injected;
// the orchestrator owns no global state. Turns for distinct sessions may run
// concurrently; the design assumes a single writer per session.
type Orchestrator struct {
	store     statex.Store
	gateway   contractx.Gateway
	retriever contractx.Retriever
	prompts   promptx.PromptSet

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	cfg Config
	now func() time.Time
}

func New(
	store statex.Store,
	gateway contractx.Gateway,
	retriever contractx.Retriever,
	cfg Config,
) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	if gateway == nil {
		return nil, errors.New("backend gateway is required")
	}
	if retriever == nil {
		return nil, errors.New("retriever is required")
	}
	cfg.applyDefaults()

	o := &Orchestrator{
		store:     store,
		gateway:   gateway,
		retriever: retriever,
		prompts:   promptx.LoadPromptSet(),
		cfg:       cfg,
		now:       time.Now,
	}

	graphRunner, err := o.compileTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// RunTurn processes one user utterance for a session and returns the final
// answer with the resolved intent, slots, and any non-fatal errors.
func (o *Orchestrator) RunTurn(ctx context.Context, sessionID string, text string) (contractx.TurnResult, error) {
	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID: sessionID,
		Text:      text,
	})
	if err != nil {
		return contractx.TurnResult{}, err
	}

	iterations := 1
	// A bare identifier follow-up frequently misclassifies to the generic
	// fallback; when the session remembers a matching intent, re-run the turn
	// with that intent seeded. Backend lookups are pure reads, which keeps
	// the re-run safe.
	if seed := correctionIntent(out); seed != "" && iterations < o.cfg.MaxIterations {
		iterations++
		corrected, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
			SessionID:  sessionID,
			Text:       text,
			SeedIntent: seed,
		})
		if err != nil {
			out.Turn.AppendError(fmt.Sprintf("intent correction re-run failed: %v", err))
		} else {
			out = corrected
		}
	}

	turn, mem := out.Turn, out.Memory
	turn.Iterations = iterations

	mem.Reconcile(turn, o.now())
	if err := o.store.Save(ctx, mem); err != nil {
		turn.AppendError(fmt.Sprintf("session memory save failed: %v", err))
		log.Warn().Err(err).Str("session_id", sessionID).Msg("session memory save failed")
	}

	return turn.Result(), nil
}

func correctionIntent(out nodex.GraphOutput) contractx.Intent {
	turn, mem := out.Turn, out.Memory
	if turn == nil || mem == nil || turn.Intent != contractx.IntentPolicyQuery {
		return ""
	}
	if mem.LastIntent.NeedsOrderID() && turn.Slot(contractx.SlotOrderID) != "" {
		return mem.LastIntent
	}
	if mem.LastIntent.NeedsProductID() && turn.Slot(contractx.SlotProductID) != "" {
		return mem.LastIntent
	}
	return ""
}
