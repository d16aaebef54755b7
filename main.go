package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	orchestratorx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/agents/orchestrator"
	reactx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/agents/react"
	contractx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/contract"
	"github.com/SidharthaIITKGP/agentic-chatbot-support/agent/rag"
	"github.com/SidharthaIITKGP/agentic-chatbot-support/agent/rag/embedding"
	"github.com/SidharthaIITKGP/agentic-chatbot-support/agent/rag/index"
	statex "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/state"
	toolx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/tool"
	configx "github.com/SidharthaIITKGP/agentic-chatbot-support/pkg/config"
	_ "github.com/SidharthaIITKGP/agentic-chatbot-support/pkg/logger/autoload"
	openrouterx "github.com/SidharthaIITKGP/agentic-chatbot-support/pkg/openrouter"
	qdrantx "github.com/SidharthaIITKGP/agentic-chatbot-support/pkg/qdrant"
)

type AppConfig struct {
	PolicyDir string `envconfig:"POLICY_DIR" split_words:"true" default:"./policies"`
	SessionID string `envconfig:"SESSION_ID" split_words:"true" default:"local"`

	// Component selectors; each selected backend reads its own env prefix.
	AgentMode string `envconfig:"AGENT_MODE" split_words:"true" default:"orchestrator"`
	Embedding string `envconfig:"EMBEDDING_BACKEND" split_words:"true" default:"tfidf"`
	Index     string `envconfig:"INDEX_BACKEND" split_words:"true" default:"memory"`
	Store     string `envconfig:"SESSION_BACKEND" split_words:"true" default:"file"`
	Gateway   string `envconfig:"GATEWAY_BACKEND" split_words:"true" default:"file"`
}

type turnRunner interface {
	RunTurn(ctx context.Context, sessionID string, text string) (contractx.TurnResult, error)
}

func main() {
	ctx := context.Background()
	appCfg := configx.MustNew[AppConfig]("")

	embedder, err := buildEmbedder(ctx, appCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("embedder init failed")
	}

	vectorIndex, writer, err := buildIndex(ctx, appCfg, embedder)
	if err != nil {
		log.Fatal().Err(err).Msg("vector index init failed")
	}

	if _, err := rag.IngestDir(ctx, appCfg.PolicyDir, embedder, writer); err != nil {
		log.Fatal().Err(err).Str("dir", appCfg.PolicyDir).Msg("policy ingestion failed")
	}

	retriever, err := rag.NewRetriever(embedder, vectorIndex)
	if err != nil {
		log.Fatal().Err(err).Msg("retriever init failed")
	}

	store, err := buildStore(appCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("session store init failed")
	}

	gateway, err := buildGateway(appCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("backend gateway init failed")
	}

	runner, err := buildAgent(ctx, appCfg, store, gateway, retriever)
	if err != nil {
		log.Fatal().Err(err).Str("mode", appCfg.AgentMode).Msg("agent init failed")
	}

	chatLoop(ctx, runner, appCfg.SessionID)
}

func buildEmbedder(ctx context.Context, cfg *AppConfig) (contractx.Embedder, error) {
	switch cfg.Embedding {
	case "openai":
		return embedding.NewOpenAI(*configx.MustNew[embedding.OpenAIConfig]("EMBEDDING"))
	case "tfidf":
		chunks, err := rag.ChunkDir(cfg.PolicyDir)
		if err != nil {
			return nil, err
		}
		tfidf := embedding.NewTFIDF()
		if len(chunks) == 0 {
			log.Warn().Str("dir", cfg.PolicyDir).Msg("no policy documents found, policy retrieval will be unavailable")
			return tfidf, nil
		}
		corpus := make([]string, len(chunks))
		for i, c := range chunks {
			corpus[i] = c.Text
		}
		if err := tfidf.Prepare(corpus); err != nil {
			return nil, err
		}
		return tfidf, nil
	default:
		return nil, fmt.Errorf("unknown embedding backend %q", cfg.Embedding)
	}
}

func buildIndex(ctx context.Context, cfg *AppConfig, embedder contractx.Embedder) (contractx.VectorIndex, rag.IndexWriter, error) {
	switch cfg.Index {
	case "memory":
		mem := index.NewMemory()
		return mem, mem, nil
	case "qdrant":
		client, err := qdrantx.NewClient(*configx.MustNew[qdrantx.Config]("QDRANT"))
		if err != nil {
			return nil, nil, err
		}
		probe, err := embedder.Embed(ctx, "dimension probe")
		if err != nil {
			return nil, nil, err
		}
		if err := client.EnsureCollection(ctx, len(probe)); err != nil {
			return nil, nil, err
		}
		qd, err := index.NewQdrant(client)
		if err != nil {
			return nil, nil, err
		}
		return qd, qd, nil
	default:
		return nil, nil, fmt.Errorf("unknown index backend %q", cfg.Index)
	}
}

func buildStore(cfg *AppConfig) (statex.Store, error) {
	switch cfg.Store {
	case "file":
		return statex.NewFileStore(*configx.MustNew[statex.FileStoreConfig]("SESSION"))
	case "upstash":
		return statex.NewUpstashRedisStore(*configx.MustNew[statex.UpstashRedisConfig]("UPSTASH_REDIS"))
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Store)
	}
}

func buildGateway(cfg *AppConfig) (contractx.Gateway, error) {
	switch cfg.Gateway {
	case "file":
		return toolx.NewFileGateway(*configx.MustNew[toolx.FileGatewayConfig]("GATEWAY"))
	case "postgres":
		return toolx.NewPostgresGateway(*configx.MustNew[toolx.PostgresConfig]("POSTGRES"))
	default:
		return nil, fmt.Errorf("unknown gateway backend %q", cfg.Gateway)
	}
}

func buildAgent(
	ctx context.Context,
	cfg *AppConfig,
	store statex.Store,
	gateway contractx.Gateway,
	retriever contractx.Retriever,
) (turnRunner, error) {
	switch cfg.AgentMode {
	case "orchestrator":
		return orchestratorx.New(store, gateway, retriever, *configx.MustNew[orchestratorx.Config]("ORCHESTRATOR"))
	case "react":
		builder := configx.MustNew[openrouterx.Config]("OPENROUTER")
		return reactx.New(ctx, builder, gateway, retriever, store, *configx.MustNew[reactx.Config]("REACT"))
	default:
		return nil, fmt.Errorf("unknown agent mode %q", cfg.AgentMode)
	}
}

func chatLoop(ctx context.Context, runner turnRunner, sessionID string) {
	fmt.Println("Support agent ready. Type a message, or 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "exit" || text == "quit" {
			break
		}

		result, err := runner.RunTurn(ctx, sessionID, text)
		if err != nil {
			log.Error().Err(err).Msg("turn failed")
			continue
		}
		for _, e := range result.Errors {
			log.Warn().Str("detail", e).Msg("turn degraded")
		}
		fmt.Println(result.FinalAnswer)
	}
}
