package index

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	contractx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/contract"
	ragx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/rag"
	qdrantx "github.com/SidharthaIITKGP/agentic-chatbot-support/pkg/qdrant"
)

// Qdrant accepts only UUIDs or unsigned integers as point ids; chunk ids are
// mapped to stable SHA1-derived UUIDs so re-ingesting the same corpus
// overwrites instead of duplicating. The original chunk id travels in the
// payload.
var pointIDNamespace = uuid.MustParse("8c2d0f7e-5b1a-4d3c-9e6f-2a7b4c8d1e0f")

func pointID(chunkID string) string {
	return uuid.NewSHA1(pointIDNamespace, []byte(chunkID)).String()
}

// Qdrant adapts the Qdrant REST client to the vector index contract. Chunk
// text and provenance travel in the point payload.
type Qdrant struct {
	client *qdrantx.Client
}

var (
	_ contractx.VectorIndex = (*Qdrant)(nil)
	_ ragx.IndexWriter      = (*Qdrant)(nil)
)

func NewQdrant(client *qdrantx.Client) (*Qdrant, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: qdrant client is required", contractx.ErrValidation)
	}
	return &Qdrant{client: client}, nil
}

func (q *Qdrant) Upsert(ctx context.Context, chunks []ragx.Chunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: chunks and vectors length mismatch", contractx.ErrValidation)
	}
	if len(chunks) == 0 {
		return nil
	}
	if err := q.client.EnsureCollection(ctx, len(vectors[0])); err != nil {
		return err
	}

	points := make([]qdrantx.Point, len(chunks))
	for i, c := range chunks {
		points[i] = qdrantx.Point{
			ID:     pointID(c.ChunkID),
			Vector: vectors[i],
			Payload: map[string]any{
				"text":     c.Text,
				"doc_id":   c.DocID,
				"chunk_id": c.ChunkID,
			},
		}
	}
	return q.client.UpsertPoints(ctx, points)
}

func (q *Qdrant) Nearest(ctx context.Context, vector []float64, k int) ([]contractx.Candidate, error) {
	if k <= 0 {
		return nil, nil
	}
	hits, err := q.client.SearchPoints(ctx, vector, k)
	if err != nil {
		return nil, err
	}

	out := make([]contractx.Candidate, 0, len(hits))
	for _, hit := range hits {
		out = append(out, contractx.Candidate{
			Text: payloadString(hit.Payload, "text"),
			Provenance: contractx.Provenance{
				DocID:   payloadString(hit.Payload, "doc_id"),
				ChunkID: payloadString(hit.Payload, "chunk_id"),
			},
			Distance: 1 - hit.Score,
		})
	}
	return out, nil
}

func payloadString(payload map[string]any, key string) string {
	if payload == nil {
		return ""
	}
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}
