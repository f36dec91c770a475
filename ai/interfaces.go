package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails; callers treat
	// that as a hard failure of the retrieval operation.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Completer generates a grounded answer from assembled context and
// conversation history. Implementations must be thread-safe.
type Completer interface {
	// Complete produces an answer to query using the provided context
	// block. The refusal text is echoed verbatim by the model when the
	// question falls outside the context.
	Complete(ctx context.Context, query, contextText string, history []Message, refusal string) (string, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management, and exposes diagnostics about the backing model
// runtime.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Completer returns the answer generation service.
	Completer() Completer

	// CheckHealth reports whether the backing model runtime is reachable.
	// It never returns an error; unreachable means false.
	CheckHealth(ctx context.Context) bool

	// ListModels returns the models available on the backing runtime.
	// Best-effort: returns an empty slice on any failure. Used only for
	// diagnostics, never for control flow.
	ListModels(ctx context.Context) []string

	// Close releases resources held by the provider and its services.
	Close() error
}
