package semantic

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/vitalsign/healthqa/ai"
	"github.com/vitalsign/healthqa/core"
)

// Retriever scores queries against a loaded index.
type Retriever struct {
	index    *Index
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRetriever creates a retriever over the given index.
func NewRetriever(index *Index, embedder ai.Embedder, opts ...Option) (*Retriever, error) {
	if index == nil {
		return nil, ErrArtifactMissing
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	r := &Retriever{
		index:    index,
		embedder: embedder,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Fingerprint returns the corpus fingerprint of the underlying index.
func (r *Retriever) Fingerprint() string { return r.index.Fingerprint() }

// Search embeds the query and returns up to topK candidates ranked by
// cosine similarity. When label is non-empty, candidates carrying that
// label are promoted ahead of the rest of the cut; the label never
// excludes anything, it only reorders.
func (r *Retriever) Search(ctx context.Context, query, label string, topK int) ([]core.Candidate, error) {
	if topK < 1 {
		topK = 1
	}

	vec, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		r.logger.Error("error embedding query", "query", query, "err", err)
		return nil, err
	}
	if len(vec) != r.index.Dim() {
		return nil, fmt.Errorf("%w: query dim %d, index dim %d", ErrArtifactMismatch, len(vec), r.index.Dim())
	}
	if err := normalize(vec); err != nil {
		return nil, err
	}

	candidates := make([]core.Candidate, r.index.Len())
	for i := range candidates {
		candidates[i] = core.Candidate{
			Entry: r.index.Entry(i),
			Score: dot(vec, r.index.vectors[i]),
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	if label != "" {
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Entry.Label == label && candidates[j].Entry.Label != label
		})
	}

	r.logger.Debug("semantic search complete",
		"query", query, "label", label, "hits", len(candidates))
	return candidates, nil
}
