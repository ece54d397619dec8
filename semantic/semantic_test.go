package semantic

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalsign/healthqa/ai/mock"
	"github.com/vitalsign/healthqa/core"
)

func testEntries() []core.Entry {
	return []core.Entry{
		{Question: "what are the symptoms of malaria?", Label: "symptom", Answer: "Fever, chills and sweating are common."},
		{Question: "what causes malaria?", Label: "cause", Answer: "Malaria is caused by Plasmodium parasites."},
		{Question: "what are the treatments for asthma?", Label: "treatment", Answer: "Inhaled bronchodilators and corticosteroids."},
		{Question: "how to prevent cholera?", Label: "prevention", Answer: "Drink safe water and wash hands."},
	}
}

func buildTestIndex(t *testing.T, entries []core.Entry) *Index {
	t.Helper()

	builder, err := NewBuilder(mock.NewMockProvider().Embedder(), WithBatchSize(2))
	require.NoError(t, err)
	defer builder.Release()

	index, err := builder.Build(context.Background(), "fp-test", entries)
	require.NoError(t, err)
	return index
}

func TestNewBuilder(t *testing.T) {
	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewBuilder(nil)
		assert.Equal(t, ErrEmbedderRequired, err)
	})

	t.Run("pool size floor", func(t *testing.T) {
		builder, err := NewBuilder(mock.NewMockProvider().Embedder(), WithPoolSize(0))
		require.NoError(t, err)
		builder.Release()
	})
}

func TestBuild(t *testing.T) {
	entries := testEntries()
	index := buildTestIndex(t, entries)

	assert.Equal(t, len(entries), index.Len())
	assert.Equal(t, "fp-test", index.Fingerprint())
	assert.Equal(t, mock.DefaultDimension, index.Dim())

	t.Run("vectors are unit length", func(t *testing.T) {
		for i := 0; i < index.Len(); i++ {
			assert.InDelta(t, 1.0, dot(index.vectors[i], index.vectors[i]), 1e-3)
		}
	})

	t.Run("empty corpus", func(t *testing.T) {
		builder, err := NewBuilder(mock.NewMockProvider().Embedder())
		require.NoError(t, err)
		defer builder.Release()

		_, err = builder.Build(context.Background(), "fp-empty", nil)
		assert.Equal(t, ErrNoEntries, err)
	})

	t.Run("deterministic across builds", func(t *testing.T) {
		other := buildTestIndex(t, entries)
		for i := 0; i < index.Len(); i++ {
			assert.Equal(t, index.vectors[i], other.vectors[i])
		}
	})
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	vectorPath := filepath.Join(dir, "vectors.bin")
	metaPath := filepath.Join(dir, "meta.bin")

	index := buildTestIndex(t, testEntries())
	require.NoError(t, index.Save(vectorPath, metaPath))

	loaded, err := LoadIndex(vectorPath, metaPath)
	require.NoError(t, err)
	assert.Equal(t, index.Fingerprint(), loaded.Fingerprint())
	assert.Equal(t, index.Len(), loaded.Len())
	assert.Equal(t, index.Dim(), loaded.Dim())
	for i := 0; i < index.Len(); i++ {
		assert.Equal(t, index.Entry(i), loaded.Entry(i))
		assert.Equal(t, index.vectors[i], loaded.vectors[i])
	}

	t.Run("missing artifact", func(t *testing.T) {
		_, err := LoadIndex(filepath.Join(dir, "absent.bin"), metaPath)
		assert.ErrorIs(t, err, ErrArtifactMissing)
	})

	t.Run("corrupt artifact", func(t *testing.T) {
		badPath := filepath.Join(dir, "bad.bin")
		require.NoError(t, os.WriteFile(badPath, []byte{0xff, 0xff, 0xff, 0xff, 0xff}, 0o644))
		_, err := LoadIndex(badPath, metaPath)
		assert.Error(t, err)
	})
}

func TestSearch(t *testing.T) {
	entries := testEntries()
	index := buildTestIndex(t, entries)

	retriever, err := NewRetriever(index, mock.NewMockProvider().Embedder())
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("identical question scores highest", func(t *testing.T) {
		hits, err := retriever.Search(ctx, entries[1].Question, "", 3)
		require.NoError(t, err)
		require.NotEmpty(t, hits)
		assert.Equal(t, entries[1].Question, hits[0].Entry.Question)
		assert.InDelta(t, 1.0, float64(hits[0].Score), 1e-3)
	})

	t.Run("topK caps results", func(t *testing.T) {
		hits, err := retriever.Search(ctx, "malaria", "", 2)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(hits), 2)
	})

	t.Run("label promotes but never filters", func(t *testing.T) {
		hits, err := retriever.Search(ctx, entries[0].Question, "treatment", 4)
		require.NoError(t, err)
		require.Len(t, hits, 4)
		assert.Equal(t, "treatment", hits[0].Entry.Label)
		// All entries are still present; the label only reorders.
		labels := make(map[string]bool)
		for _, hit := range hits {
			labels[hit.Entry.Label] = true
		}
		assert.Len(t, labels, 4)
	})

	t.Run("unknown label leaves ranking intact", func(t *testing.T) {
		hits, err := retriever.Search(ctx, entries[2].Question, "nosuchlabel", 3)
		require.NoError(t, err)
		require.NotEmpty(t, hits)
		assert.Equal(t, entries[2].Question, hits[0].Entry.Question)
	})

	t.Run("nil index", func(t *testing.T) {
		_, err := NewRetriever(nil, mock.NewMockProvider().Embedder())
		assert.Equal(t, ErrArtifactMissing, err)
	})

	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewRetriever(index, nil)
		assert.Equal(t, ErrEmbedderRequired, err)
	})
}
