package rag

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/contract"
)

// minMaxEpsilon is the range below which a candidate pool is considered
// degenerate: every member then scores 1.0 instead of dividing by ~zero or
// arbitrarily penalizing a uniform pool.
const minMaxEpsilon = 1e-12

// Retriever re-ranks nearest-neighbor candidates by a normalized blend of
// semantic similarity and lexical overlap. The index's own distance units are
// only used to form the candidate pool, never for the final ranking.
type Retriever struct {
	embedder contractx.Embedder
	index    contractx.VectorIndex
}

var _ contractx.Retriever = (*Retriever)(nil)

func NewRetriever(embedder contractx.Embedder, index contractx.VectorIndex) (*Retriever, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", contractx.ErrValidation)
	}
	if index == nil {
		return nil, fmt.Errorf("%w: vector index is required", contractx.ErrValidation)
	}
	return &Retriever{embedder: embedder, index: index}, nil
}

// Retrieve fetches fetchK candidates, re-embeds query and candidates with the
// same embedding function, blends min-max-normalized semantic and lexical
// scores with weight alpha, and returns the topK passages plus the top
// combined score as confidence. An empty pool yields ([], 0, nil); an
// unreachable index is fatal to this call only.
func (r *Retriever) Retrieve(ctx context.Context, query string, fetchK, topK int, alpha float64) (contractx.RetrievalResult, error) {
	queryVec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return contractx.RetrievalResult{}, fmt.Errorf("%w: embed query: %v", contractx.ErrRetrievalUnavailable, err)
	}

	candidates, err := r.index.Nearest(ctx, queryVec, fetchK)
	if err != nil {
		return contractx.RetrievalResult{}, fmt.Errorf("%w: nearest neighbors: %v", contractx.ErrRetrievalUnavailable, err)
	}
	if len(candidates) == 0 {
		return contractx.RetrievalResult{}, nil
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Text
	}
	candidateVecs, err := r.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return contractx.RetrievalResult{}, fmt.Errorf("%w: embed candidates: %v", contractx.ErrRetrievalUnavailable, err)
	}
	if len(candidateVecs) != len(candidates) {
		return contractx.RetrievalResult{}, fmt.Errorf("%w: embedder returned %d vectors for %d candidates",
			contractx.ErrRetrievalUnavailable, len(candidateVecs), len(candidates))
	}

	semantic := make([]float64, len(candidates))
	lexical := make([]float64, len(candidates))
	for i := range candidates {
		// Cosine lives in [-1,1]; map to [0,1] and clamp the negative tail.
		semantic[i] = math.Max(0, (cosineSimilarity(queryVec, candidateVecs[i])+1)/2)
		lexical[i] = lexicalOverlap(query, candidates[i].Text)
	}

	semNorm := minMaxNormalize(semantic)
	lexNorm := minMaxNormalize(lexical)

	passages := make([]contractx.ScoredPassage, len(candidates))
	for i, c := range candidates {
		passages[i] = contractx.ScoredPassage{
			Text:          c.Text,
			Provenance:    c.Provenance,
			SemanticScore: semNorm[i],
			LexicalScore:  lexNorm[i],
			CombinedScore: alpha*semNorm[i] + (1-alpha)*lexNorm[i],
		}
	}

	// Stable: ties keep original candidate order.
	sort.SliceStable(passages, func(i, j int) bool {
		return passages[i].CombinedScore > passages[j].CombinedScore
	})

	if topK > 0 && topK < len(passages) {
		passages = passages[:topK]
	}
	confidence := 0.0
	if len(passages) > 0 {
		confidence = passages[0].CombinedScore
	}

	docIDs := make([]string, 0, len(passages))
	for _, p := range passages {
		docIDs = append(docIDs, p.Provenance.DocID)
	}
	log.Info().
		Str("retrieval_id", uuid.NewString()).
		Str("query", query).
		Int("fetch_k", fetchK).
		Int("top_k", topK).
		Float64("alpha", alpha).
		Strs("doc_ids", docIDs).
		Float64("confidence", confidence).
		Msg("policy retrieval")

	return contractx.RetrievalResult{Passages: passages, Confidence: confidence}, nil
}

func cosineSimilarity(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// lexicalOverlap is |query tokens ∩ doc tokens| / |query tokens| over
// lowercased, punctuation-stripped token sets. 0 when the query has no tokens.
func lexicalOverlap(query, docText string) float64 {
	qTokens := tokenSet(query)
	if len(qTokens) == 0 {
		return 0
	}
	dTokens := tokenSet(docText)
	overlap := 0
	for tok := range qTokens {
		if _, ok := dTokens[tok]; ok {
			overlap++
		}
	}
	return float64(overlap) / float64(len(qTokens))
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, field := range strings.Fields(text) {
		tok := strings.Trim(strings.ToLower(field), ".,;:!?\"'()[]")
		if tok != "" {
			set[tok] = struct{}{}
		}
	}
	return set
}

func minMaxNormalize(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	mn, mx := values[0], values[0]
	for _, v := range values[1:] {
		if v < mn {
			mn = v
		}
		if v > mx {
			mx = v
		}
	}
	out := make([]float64, len(values))
	if mx-mn < minMaxEpsilon {
		for i := range out {
			out[i] = 1.0
		}
		return out
	}
	for i, v := range values {
		out[i] = (v - mn) / (mx - mn)
	}
	return out
}
