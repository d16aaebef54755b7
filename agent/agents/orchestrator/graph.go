package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	nodex "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/nodes/orchestrator"
)

func (o *Orchestrator) compileTurnGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, o.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("load_memory",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.LoadMemory(ctx, in, o.store, o.cfg.MaxIterations)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node load_memory: %w", err)
	}

	if err := graph.AddLambdaNode("classify",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.Classify(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node classify: %w", err)
	}

	if err := graph.AddLambdaNode("fill_check",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.FillCheck(in, o.prompts)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node fill_check: %w", err)
	}

	if err := graph.AddLambdaNode("call_backend",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.CallBackend(ctx, in, o.gateway)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node call_backend: %w", err)
	}

	if err := graph.AddLambdaNode("retrieve",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.Retrieve(ctx, in, o.retriever, nodex.RetrieveParams{
				FetchK:           o.cfg.FetchK,
				TopK:             o.cfg.TopK,
				SupplementFetchK: o.cfg.SupplementFetchK,
				SupplementTopK:   o.cfg.SupplementTopK,
				Alpha:            o.cfg.Alpha,
			})
		}),
	); err != nil {
		return nil, fmt.Errorf("add node retrieve: %w", err)
	}

	if err := graph.AddLambdaNode("compose_answer",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.Compose(in, o.prompts)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node compose_answer: %w", err)
	}

	if err := graph.AddLambdaNode("finalize",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.Finalize(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "load_memory"},
		{"load_memory", "classify"},
		{"classify", "fill_check"},
		{"fill_check", "call_backend"},
		{"call_backend", "retrieve"},
		{"retrieve", "compose_answer"},
		{"compose_answer", "finalize"},
		{"finalize", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.run_turn"))
	if err != nil {
		return nil, fmt.Errorf("compile orchestrator graph: %w", err)
	}
	return runner, nil
}
