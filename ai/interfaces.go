package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch, in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Classifier maps a free-text query to a corpus label.
// Implementations must be thread-safe for concurrent use.
//
// The classifier is an external, versioned artifact: for a fixed model
// version it is deterministic, but it may be wrong, and it may propose a
// label for which the corpus has no entries. Callers must tolerate both.
type Classifier interface {
	// Classify returns the predicted label for a normalized query.
	Classify(ctx context.Context, query string) (string, error)
}

// Provider aggregates the model services for convenient initialization and
// lifecycle management.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Classifier returns the label classification service.
	// The returned Classifier is safe for concurrent use.
	Classifier() Classifier

	// Close releases resources held by the provider and its services.
	Close() error
}
