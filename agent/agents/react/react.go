// Package react implements an LLM-driven agent over the same support tools
// the orchestrator uses deterministically. The model decides which tool to
// call each iteration; the loop is bounded and forces a final answer at the
// cap.
package react

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/contract"
	promptx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/prompt"
	statex "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/state"
	toolx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/tool"
	"github.com/SidharthaIITKGP/agentic-chatbot-support/pkg/openrouter"
)

type Config struct {
	MaxIterations int `envconfig:"MAX_ITERATIONS" split_words:"true" default:"5"`
}

// Agent runs a bounded tool-calling loop for one turn at a time. Unlike the
// orchestrator it keeps no routing rules; intent and tool choice are the
// model's job. Session memory is still reconciled the same way.
type Agent struct {
	chatModel model.ToolCallingChatModel
	exec      toolx.Executor
	store     statex.Store
	prompts   promptx.PromptSet

	maxIterations int
	now           func() time.Time
}

func New(
	ctx context.Context,
	builder openrouter.LLMBuilder,
	gateway contractx.Gateway,
	retriever contractx.Retriever,
	store statex.Store,
	cfg Config,
) (*Agent, error) {
	if builder == nil {
		return nil, errors.New("llm builder is required")
	}
	if gateway == nil {
		return nil, errors.New("backend gateway is required")
	}
	if retriever == nil {
		return nil, errors.New("retriever is required")
	}
	if store == nil {
		return nil, errors.New("session store is required")
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 5
	}

	base, err := builder.New(ctx)
	if err != nil {
		return nil, err
	}
	chatModel, err := base.WithTools(toolx.Catalog())
	if err != nil {
		return nil, fmt.Errorf("%w: bind support tools: %v", contractx.ErrModelInvoke, err)
	}

	return &Agent{
		chatModel:     chatModel,
		exec:          toolx.NewExecutor(gateway, retriever),
		store:         store,
		prompts:       promptx.LoadPromptSet(),
		maxIterations: cfg.MaxIterations,
		now:           time.Now,
	}, nil
}

// RunTurn answers one utterance. The loop ends when the model replies without
// tool calls or the iteration cap forces a final answer.
func (a *Agent) RunTurn(ctx context.Context, sessionID string, text string) (contractx.TurnResult, error) {
	if strings.TrimSpace(sessionID) == "" {
		return contractx.TurnResult{}, fmt.Errorf("%w: session id is empty", contractx.ErrValidation)
	}
	if strings.TrimSpace(text) == "" {
		return contractx.TurnResult{}, fmt.Errorf("%w: message text is empty", contractx.ErrValidation)
	}

	mem, err := a.store.Load(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, statex.ErrStateNotFound) {
			return contractx.TurnResult{}, err
		}
		mem = statex.NewSessionMemory(sessionID, a.now())
	}

	turn := statex.NewTurnState(text, mem.SeedSlots(), a.maxIterations)

	msgs := []*schema.Message{
		schema.SystemMessage(a.prompts.ReactSystem),
		schema.UserMessage(a.userPrompt(mem, text)),
	}

	for turn.Iterations < a.maxIterations && !turn.Done() {
		turn.Iterations++

		resp, err := a.chatModel.Generate(ctx, msgs)
		if err != nil {
			turn.AppendError(fmt.Sprintf("model invoke failed: %v", err))
			turn.SetFinalAnswer(a.prompts.Apology)
			break
		}

		if len(resp.ToolCalls) == 0 {
			answer := strings.TrimSpace(resp.Content)
			if answer == "" {
				answer = a.prompts.NoInfo
			}
			turn.SetFinalAnswer(answer)
			break
		}

		msgs = append(msgs, resp)
		for _, call := range resp.ToolCalls {
			obs := a.invokeTool(ctx, turn, call)
			msgs = append(msgs, schema.ToolMessage(obs, call.ID))
		}
	}

	if !turn.Done() {
		msgs = append(msgs, schema.UserMessage(
			"Stop calling tools. Give your best final answer now from the observations above.",
		))
		resp, err := a.chatModel.Generate(ctx, msgs)
		if err != nil || strings.TrimSpace(resp.Content) == "" {
			turn.AppendError("forced final answer unavailable")
			turn.SetFinalAnswer(a.prompts.Apology)
		} else {
			turn.SetFinalAnswer(strings.TrimSpace(resp.Content))
		}
	}

	mem.Reconcile(turn, a.now())
	if err := a.store.Save(ctx, mem); err != nil {
		turn.AppendError(fmt.Sprintf("session memory save failed: %v", err))
		log.Warn().Err(err).Str("session_id", sessionID).Msg("session memory save failed")
	}

	return turn.Result(), nil
}

func (a *Agent) invokeTool(ctx context.Context, turn *statex.TurnState, call schema.ToolCall) string {
	args := map[string]any{}
	if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			obs := fmt.Sprintf("invalid arguments for tool %s: %v", call.Function.Name, err)
			turn.AppendError(obs)
			return obs
		}
	}

	a.recordSlots(turn, args)

	obs, err := a.exec(ctx, call.Function.Name, args)
	if err != nil {
		obs = fmt.Sprintf("tool %s failed: %v", call.Function.Name, err)
		turn.AppendError(obs)
	}
	turn.AppendTrace(statex.TraceStep{
		Action:      call.Function.Name,
		Observation: obs,
	})
	return obs
}

func (a *Agent) recordSlots(turn *statex.TurnState, args map[string]any) {
	if v, ok := args["order_id"].(string); ok {
		turn.SetSlot(contractx.SlotOrderID, v)
	}
	if v, ok := args["product_id"].(string); ok {
		turn.SetSlot(contractx.SlotProductID, strings.ToUpper(v))
	}
}

func (a *Agent) userPrompt(mem *statex.SessionMemory, text string) string {
	var b strings.Builder
	if mem.LastOrderID != "" {
		fmt.Fprintf(&b, "Known order ID from earlier in the conversation: %s\n", mem.LastOrderID)
	}
	if mem.LastProductID != "" {
		fmt.Fprintf(&b, "Known product ID from earlier in the conversation: %s\n", mem.LastProductID)
	}
	b.WriteString(text)
	return b.String()
}
