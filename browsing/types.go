package browsing

import "context"

// Result is a single web search hit.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
}

// Searcher is the web augmentation capability. Implementations must treat
// failures as ordinary errors; callers decide whether a failed search is
// fatal. The production implementation is Agent.
type Searcher interface {
	// Search returns up to maxResults hits for query.
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)

	// Enhance replaces the snippets of the first maxEnhanced results with
	// text extracted from the linked pages. Fetch failures leave the
	// original snippet in place; Enhance never fails as a whole.
	Enhance(ctx context.Context, results []Result, maxEnhanced int) []Result
}
