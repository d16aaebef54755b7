package index

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	contractx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/contract"
	ragx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/rag"
)

// Memory is a brute-force cosine vector index. It serves as the default
// index for small policy corpora and for tests.
type Memory struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float64
	chunks    []ragx.Chunk
}

var (
	_ contractx.VectorIndex = (*Memory)(nil)
	_ ragx.IndexWriter      = (*Memory)(nil)
)

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Upsert(_ context.Context, chunks []ragx.Chunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dimension == 0 && len(vectors) > 0 {
		m.dimension = len(vectors[0])
	}
	for _, v := range vectors {
		if len(v) != m.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	m.chunks = append(m.chunks, chunks...)
	m.vectors = append(m.vectors, vectors...)
	return nil
}

func (m *Memory) Nearest(_ context.Context, vector []float64, k int) ([]contractx.Candidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if k <= 0 || len(m.vectors) == 0 {
		return nil, nil
	}

	type scored struct {
		idx int
		sim float64
	}
	hits := make([]scored, len(m.vectors))
	for i, v := range m.vectors {
		hits[i] = scored{idx: i, sim: cosine(v, vector)}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].sim > hits[j].sim })

	if k > len(hits) {
		k = len(hits)
	}
	out := make([]contractx.Candidate, 0, k)
	for _, h := range hits[:k] {
		c := m.chunks[h.idx]
		out = append(out, contractx.Candidate{
			Text: c.Text,
			Provenance: contractx.Provenance{
				DocID:   c.DocID,
				ChunkID: c.ChunkID,
			},
			Distance: 1 - h.sim,
		})
	}
	return out, nil
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.chunks)
}

func cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
