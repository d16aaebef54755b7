package embedding

import (
	"context"
	"fmt"
	"strings"
	"time"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	contractx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/contract"
)

// OpenAIConfig configures the remote embedding client.
type OpenAIConfig struct {
	BaseURL string        `envconfig:"BASE_URL" split_words:"true"`
	APIKey  string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model   string        `envconfig:"MODEL" split_words:"true" default:"text-embedding-3-small"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
}

// OpenAI embeds text through the OpenAI embeddings API. Deterministic for a
// fixed model identity.
type OpenAI struct {
	client *openaisdk.Client
	model  string
}

var _ contractx.Embedder = (*OpenAI)(nil)

func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: embedding api key is required", contractx.ErrValidation)
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, fmt.Errorf("%w: embedding model is required", contractx.ErrValidation)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if trimmed := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	client := openaisdk.NewClient(opts...)
	return &OpenAI{
		client: &client,
		model:  model,
	}, nil
}

func (e *OpenAI) Embed(ctx context.Context, text string) ([]float64, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (e *OpenAI) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := e.client.Embeddings.New(ctx, openaisdk.EmbeddingNewParams{
		Input: openaisdk.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
		Model: openaisdk.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("embeddings request: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings response has %d vectors, want %d", len(resp.Data), len(texts))
	}

	out := make([][]float64, len(resp.Data))
	for _, d := range resp.Data {
		idx := int(d.Index)
		if idx < 0 || idx >= len(out) {
			return nil, fmt.Errorf("embeddings response index %d out of range", idx)
		}
		out[idx] = d.Embedding
	}
	return out, nil
}
