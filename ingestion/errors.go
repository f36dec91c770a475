package ingestion

import "errors"

var (
	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrInvalidChunkSize is returned for a non-positive chunk target size.
	ErrInvalidChunkSize = errors.New("chunk target size must be positive")

	// ErrInvalidOverlap is returned when overlap is negative or not
	// smaller than the chunk target size.
	ErrInvalidOverlap = errors.New("overlap must be non-negative and smaller than target size")

	// ErrLoaderReleased is returned when initialization is requested
	// after the loader was released.
	ErrLoaderReleased = errors.New("loader released")
)
