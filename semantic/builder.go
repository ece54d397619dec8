package semantic

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/vitalsign/healthqa/ai"
	"github.com/vitalsign/healthqa/core"
)

// DefaultBatchSize is the number of questions embedded per request.
const DefaultBatchSize = 32

// Builder embeds a corpus offline and produces a retrieval index.
// Batches are embedded concurrently through a worker pool.
type Builder struct {
	embedder  ai.Embedder
	pool      *ants.Pool
	batchSize int
	logger    *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) BuilderOption {
	return func(b *Builder) error {
		if size < 1 {
			size = 1
		}
		if b.pool != nil {
			b.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		b.pool = pool
		return nil
	}
}

// WithBatchSize sets how many questions are embedded per request.
func WithBatchSize(size int) BuilderOption {
	return func(b *Builder) error {
		if size < 1 {
			size = 1
		}
		b.batchSize = size
		return nil
	}
}

// WithBuilderLogger sets a custom logger.
// Default is slog.Default().
func WithBuilderLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBuilder creates an index builder.
func NewBuilder(embedder ai.Embedder, opts ...BuilderOption) (*Builder, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	b := &Builder{
		embedder:  embedder,
		pool:      pool,
		batchSize: DefaultBatchSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(b); optErr != nil {
			b.Release()
			return nil, optErr
		}
	}
	return b, nil
}

// Build embeds every entry's question and assembles the index. The
// fingerprint identifies the corpus snapshot the entries came from.
// Vectors are L2-normalized before they enter the table.
func (b *Builder) Build(ctx context.Context, fingerprint string, entries []core.Entry) (*Index, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	vectors := make([][]float32, len(entries))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for start := 0; start < len(entries); start += b.batchSize {
		end := start + b.batchSize
		if end > len(entries) {
			end = len(entries)
		}
		batch := entries[start:end]
		offset := start

		wg.Add(1)
		task := func() {
			defer wg.Done()

			texts := make([]string, len(batch))
			for i, entry := range batch {
				texts[i] = entry.Question
			}
			embedded, err := b.embedder.EmbedTexts(ctx, texts)
			if err != nil {
				b.logger.Error("error embedding batch", "offset", offset, "err", err)
				fail(err)
				return
			}
			if len(embedded) != len(batch) {
				fail(ErrArtifactMismatch)
				return
			}
			for i, vec := range embedded {
				if err := normalize(vec); err != nil {
					fail(err)
					return
				}
				vectors[offset+i] = vec
			}
		}
		if err := b.pool.Submit(task); err != nil {
			wg.Done()
			fail(err)
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	b.logger.Info("index build complete", "entries", len(entries), "dim", len(vectors[0]))
	return NewIndex(fingerprint, vectors, entries)
}

// Release releases the worker pool.
// The builder should not be used after calling Release.
func (b *Builder) Release() {
	if b.pool != nil {
		b.pool.Release()
	}
}
