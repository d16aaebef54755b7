package rag

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

type captureIndex struct {
	chunks  []Chunk
	vectors [][]float64
	calls   int
}

func (c *captureIndex) Upsert(_ context.Context, chunks []Chunk, vectors [][]float64) error {
	c.calls++
	c.chunks = chunks
	c.vectors = vectors
	return nil
}

func TestChunkDirMissingDirIsEmptyCorpus(t *testing.T) {
	t.Parallel()

	chunks, err := ChunkDir(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("ChunkDir on missing dir: unexpected error %v", err)
	}
	if len(chunks) != 0 {
		t.Fatalf("got %d chunks, want 0", len(chunks))
	}
}

func TestIngestDirMissingDirSkipsEmbedding(t *testing.T) {
	t.Parallel()

	emb := &stubEmbedder{vecs: map[string][]float64{}}
	idx := &captureIndex{}
	n, err := IngestDir(context.Background(), filepath.Join(t.TempDir(), "nope"), emb, idx)
	if err != nil {
		t.Fatalf("IngestDir on missing dir: unexpected error %v", err)
	}
	if n != 0 {
		t.Fatalf("got %d chunks ingested, want 0", n)
	}
	if idx.calls != 0 {
		t.Fatalf("index Upsert called %d times, want 0", idx.calls)
	}
}

func TestChunkDirSkipsNonPolicyFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "returns.md", "Items can be returned within 30 days.")
	writeFile(t, dir, "shipping.txt", "Standard shipping takes 3 to 5 business days.")
	writeFile(t, dir, "notes.json", `{"ignored": true}`)

	chunks, err := ChunkDir(dir)
	if err != nil {
		t.Fatalf("ChunkDir: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	docs := map[string]bool{}
	for _, c := range chunks {
		docs[c.DocID] = true
		if c.ChunkID == "" {
			t.Fatalf("chunk for doc %s has empty chunk id", c.DocID)
		}
	}
	if !docs["returns"] || !docs["shipping"] {
		t.Fatalf("got doc ids %v, want returns and shipping", docs)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
