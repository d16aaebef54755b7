package index

import (
	"context"
	"testing"

	ragx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/rag"
)

func seedChunks() ([]ragx.Chunk, [][]float64) {
	chunks := []ragx.Chunk{
		{DocID: "returns", ChunkID: "policy_chunk_returns_0", Text: "return window is 30 days"},
		{DocID: "shipping", ChunkID: "policy_chunk_shipping_0", Text: "standard shipping takes 5 days"},
		{DocID: "charges", ChunkID: "policy_chunk_charges_0", Text: "convenience fees are non-refundable"},
	}
	vectors := [][]float64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
	return chunks, vectors
}

func TestMemoryNearestOrdersBySimilarity(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	chunks, vectors := seedChunks()
	if err := m.Upsert(context.Background(), chunks, vectors); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got, err := m.Nearest(context.Background(), []float64{0.9, 0.4, 0}, 2)
	if err != nil {
		t.Fatalf("Nearest() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(candidates) = %d, want 2", len(got))
	}
	if got[0].Provenance.DocID != "returns" || got[1].Provenance.DocID != "shipping" {
		t.Fatalf("candidate order = %s, %s; want returns, shipping",
			got[0].Provenance.DocID, got[1].Provenance.DocID)
	}
	if got[0].Distance >= got[1].Distance {
		t.Fatalf("distances not increasing: %v, %v", got[0].Distance, got[1].Distance)
	}
}

func TestMemoryNearestKLargerThanPool(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	chunks, vectors := seedChunks()
	if err := m.Upsert(context.Background(), chunks, vectors); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got, err := m.Nearest(context.Background(), []float64{1, 0, 0}, 10)
	if err != nil {
		t.Fatalf("Nearest() error = %v", err)
	}
	if len(got) != len(chunks) {
		t.Fatalf("len(candidates) = %d, want %d", len(got), len(chunks))
	}
}

func TestMemoryNearestEmptyIndex(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	got, err := m.Nearest(context.Background(), []float64{1, 0}, 5)
	if err != nil {
		t.Fatalf("Nearest() error = %v", err)
	}
	if got != nil {
		t.Fatalf("Nearest() on empty index = %#v, want nil", got)
	}
}

func TestMemoryUpsertRejectsMismatch(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	chunks, vectors := seedChunks()
	if err := m.Upsert(context.Background(), chunks, vectors[:2]); err == nil {
		t.Fatalf("Upsert() with length mismatch should fail")
	}

	if err := m.Upsert(context.Background(), chunks, vectors); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := m.Upsert(context.Background(), chunks[:1], [][]float64{{1, 0}}); err == nil {
		t.Fatalf("Upsert() with dimension mismatch should fail")
	}
	if m.Len() != len(chunks) {
		t.Fatalf("Len() = %d, want %d", m.Len(), len(chunks))
	}
}
