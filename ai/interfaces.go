package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Failures are wrapped with ErrEmbedding.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// CompletionParams tunes a single completion request.
type CompletionParams struct {
	Temperature float64
	MaxTokens   int
}

// Completer produces a text completion for a single prompt.
// Implementations must be thread-safe for concurrent use.
type Completer interface {
	// Complete sends prompt as a single user message and returns the
	// model's text. Failures are wrapped with ErrCompletion.
	Complete(ctx context.Context, prompt string, params CompletionParams) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Completer returns the text completion service.
	Completer() Completer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
