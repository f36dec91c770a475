package retrieval

import "errors"

var (
	// ErrEmbedderRequired is returned when no embedder is provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrIndexRequired is returned when no similarity index is provided.
	ErrIndexRequired = errors.New("similarity index is required")

	// ErrRouterRequired is returned when no relevance router is provided.
	ErrRouterRequired = errors.New("relevance router is required")

	// ErrDocumentSourceRequired is returned when no document metadata
	// source is provided.
	ErrDocumentSourceRequired = errors.New("document source is required")

	// ErrInvalidTopK is returned for a non-positive topK.
	ErrInvalidTopK = errors.New("topK must be positive")
)
