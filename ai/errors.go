package ai

import "errors"

var (
	// ErrEmbeddingUnavailable indicates the embedding capability is
	// unreachable or returned a malformed response. It is fatal to the
	// current request and propagates to the caller as a retrieval
	// failure; there is no silent fallback.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrCompletionFailed indicates the completion capability could not
	// generate a response.
	ErrCompletionFailed = errors.New("failed to generate response from LLM")
)
