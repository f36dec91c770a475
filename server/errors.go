package server

import "errors"

var (
	// ErrRetrieverRequired is returned when no retriever is provided.
	ErrRetrieverRequired = errors.New("retriever is required")

	// ErrProviderRequired is returned when no AI provider is provided.
	ErrProviderRequired = errors.New("ai provider is required")

	// ErrProcessorRequired is returned when no document processor is provided.
	ErrProcessorRequired = errors.New("document processor is required")

	// ErrIndexRequired is returned when no similarity index is provided.
	ErrIndexRequired = errors.New("similarity index is required")

	// ErrLoaderRequired is returned when no ingestion loader is provided.
	ErrLoaderRequired = errors.New("ingestion loader is required")
)
