package embedding

import (
	"context"
	"math"
	"testing"
)

var tfidfCorpus = []string{
	"returns are accepted within 30 days of delivery",
	"refunds are processed within 5 business days",
	"standard delivery takes 5 days",
}

func TestTFIDFRequiresPrepare(t *testing.T) {
	t.Parallel()

	e := NewTFIDF()
	if _, err := e.Embed(context.Background(), "refund"); err == nil {
		t.Fatalf("Embed() before Prepare should fail")
	}
	if err := e.Prepare(nil); err == nil {
		t.Fatalf("Prepare() with empty corpus should fail")
	}
}

func TestTFIDFEmbedIsUnitLength(t *testing.T) {
	t.Parallel()

	e := NewTFIDF()
	if err := e.Prepare(tfidfCorpus); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	vec, err := e.Embed(context.Background(), "refunds within 5 days")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vec) != e.Dimension() {
		t.Fatalf("len(vec) = %d, want %d", len(vec), e.Dimension())
	}

	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	if math.Abs(math.Sqrt(norm)-1.0) > 1e-9 {
		t.Fatalf("||vec|| = %v, want 1.0", math.Sqrt(norm))
	}
}

func TestTFIDFEmbedDeterministic(t *testing.T) {
	t.Parallel()

	e := NewTFIDF()
	if err := e.Prepare(tfidfCorpus); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	a, err := e.Embed(context.Background(), "delivery days")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	b, err := e.Embed(context.Background(), "delivery days")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("vectors differ at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestTFIDFOutOfVocabularyIsZeroVector(t *testing.T) {
	t.Parallel()

	e := NewTFIDF()
	if err := e.Prepare(tfidfCorpus); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	vec, err := e.Embed(context.Background(), "zebra xylophone")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	for i, v := range vec {
		if v != 0 {
			t.Fatalf("vec[%d] = %v, want 0 for out-of-vocabulary text", i, v)
		}
	}
}

func TestTFIDFSimilarTextsCloser(t *testing.T) {
	t.Parallel()

	e := NewTFIDF()
	if err := e.Prepare(tfidfCorpus); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	ctx := context.Background()
	query, _ := e.Embed(ctx, "how long do refunds take in business days")
	refund, _ := e.Embed(ctx, tfidfCorpus[1])
	delivery, _ := e.Embed(ctx, tfidfCorpus[2])

	if dot(query, refund) <= dot(query, delivery) {
		t.Fatalf("refund passage should be closer to refund query: %v vs %v",
			dot(query, refund), dot(query, delivery))
	}
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
