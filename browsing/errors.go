package browsing

import "errors"

var (
	// ErrAPIKeyRequired is returned by NewAgent when no API key is given.
	ErrAPIKeyRequired = errors.New("search api key is required")

	// ErrSearchFailed wraps upstream search provider failures.
	ErrSearchFailed = errors.New("web search failed")
)
