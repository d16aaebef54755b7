package rag

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/contract"
)

const (
	chunkSize    = 1000
	chunkOverlap = 200
)

// Chunk is one indexed slice of a policy document.
type Chunk struct {
	DocID   string
	ChunkID string
	Text    string
}

// IndexWriter is the write side of a vector index, used only at ingestion
// time.
type IndexWriter interface {
	Upsert(ctx context.Context, chunks []Chunk, vectors [][]float64) error
}

// ChunkDir chunks every .txt/.md file under dir. Document provenance is the
// filename stem. A missing dir is an empty corpus, not an error, so a fresh
// checkout starts without policy documents instead of refusing to boot.
func ChunkDir(dir string) ([]Chunk, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warn().Str("dir", dir).Msg("policy dir missing, starting with an empty corpus")
			return nil, nil
		}
		return nil, fmt.Errorf("read policy dir: %w", err)
	}

	var chunks []Chunk
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".txt" && ext != ".md" {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read policy file %s: %w", entry.Name(), err)
		}
		docID := strings.TrimSuffix(entry.Name(), ext)
		for i, piece := range SplitText(string(raw), chunkSize, chunkOverlap) {
			chunks = append(chunks, Chunk{
				DocID:   docID,
				ChunkID: fmt.Sprintf("policy_chunk_%s_%d", docID, i),
				Text:    piece,
			})
		}
	}
	return chunks, nil
}

// IngestDir chunks every .txt/.md file under dir, embeds the chunks, and
// writes them into the index.
func IngestDir(ctx context.Context, dir string, embedder contractx.Embedder, index IndexWriter) (int, error) {
	chunks, err := ChunkDir(dir)
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed policy chunks: %w", err)
	}
	if err := index.Upsert(ctx, chunks, vectors); err != nil {
		return 0, fmt.Errorf("upsert policy chunks: %w", err)
	}

	log.Info().Str("dir", dir).Int("chunks", len(chunks)).Msg("policy ingestion complete")
	return len(chunks), nil
}

// SplitText recursively splits text into overlapping chunks of at most size
// characters, preferring paragraph, then line, then word boundaries.
func SplitText(text string, size, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if size <= 0 {
		size = chunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	if len(text) <= size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + size
		if end >= len(text) {
			chunks = append(chunks, strings.TrimSpace(text[start:]))
			break
		}
		cut := findSplit(text[start:end])
		chunk := strings.TrimSpace(text[start : start+cut])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		next := start + cut - overlap
		if next <= start {
			next = start + cut
		}
		start = next
	}
	return chunks
}

// findSplit returns the cut position within window, trying separators from
// coarsest to finest.
func findSplit(window string) int {
	for _, sep := range []string{"\n\n", "\n", " "} {
		if idx := strings.LastIndex(window, sep); idx > 0 {
			return idx + len(sep)
		}
	}
	return len(window)
}
