package routing

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/docuforge/docchat/browsing"
	"github.com/docuforge/docchat/core"
)

const (
	// DefaultLowThreshold is the similarity below which a query is out of
	// scope for the document.
	DefaultLowThreshold = 0.1
	// DefaultHighThreshold is the similarity at or above which document
	// context alone is considered sufficient.
	DefaultHighThreshold = 0.5

	// webSearchResults is how many hits are requested for marginal queries.
	webSearchResults = 3
	// enhanceTop is how many of those hits get page-content enhancement.
	enhanceTop = 2

	// maxContentPreview caps the full-content field of a citation.
	maxContentPreview = 300
)

// Router assigns a confidence tier to each query from its best similarity
// score and assembles the answer context for that tier. Web search is only
// consulted in the marginal band between the two thresholds, and a web
// failure silently degrades the decision to document-only context.
type Router struct {
	searcher browsing.Searcher
	low      float64
	high     float64
	logger   *slog.Logger
}

// RouterOption configures a Router.
type RouterOption func(*Router) error

// WithSearcher enables web augmentation for marginal-confidence queries.
// Without a searcher the marginal tier degrades to document-only context.
func WithSearcher(searcher browsing.Searcher) RouterOption {
	return func(r *Router) error {
		r.searcher = searcher
		return nil
	}
}

// WithThresholds overrides the tier boundaries.
func WithThresholds(low, high float64) RouterOption {
	return func(r *Router) error {
		if low < 0 || low >= high || high > 1 {
			return ErrInvalidThresholds
		}
		r.low = low
		r.high = high
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) RouterOption {
	return func(r *Router) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRouter creates a relevance router.
func NewRouter(opts ...RouterOption) (*Router, error) {
	r := &Router{
		low:    DefaultLowThreshold,
		high:   DefaultHighThreshold,
		logger: slog.Default().With("component", "routing"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Route classifies a query by its best similarity score and assembles the
// context and citations for the resulting tier. An empty match list scores
// zero and routes out of scope. Route never fails: web search errors are
// absorbed into a document-only decision with WebSearchUsed left false.
func (r *Router) Route(ctx context.Context, query string, matches []core.ScoredMatch, doc core.DocumentInfo) core.RoutingDecision {
	best := 0.0
	if len(matches) > 0 {
		best = matches[0].Similarity
	}

	r.logger.Debug("routing query", "query", query, "best_similarity", best, "matches", len(matches))

	if best < r.low {
		return core.RoutingDecision{
			Tier:           core.TierOutOfScope,
			ContextText:    doc.RefusalMessage(),
			BestSimilarity: best,
		}
	}

	documentContext := joinChunkContents(matches)
	sources := documentSources(query, matches)

	if best >= r.high {
		return core.RoutingDecision{
			Tier:           core.TierDocumentOnly,
			ContextText:    documentContext,
			Sources:        sources,
			BestSimilarity: best,
		}
	}

	webResults, ok := r.searchWeb(ctx, query)
	if !ok {
		// Degraded decision is indistinguishable from a confident
		// document-only one apart from the flag staying false.
		return core.RoutingDecision{
			Tier:           core.TierDocumentOnly,
			ContextText:    documentContext,
			Sources:        sources,
			BestSimilarity: best,
		}
	}

	contextText := "DOCUMENT CONTEXT:\n" + documentContext + "\n\n" + browsing.FormatForLLM(webResults)

	return core.RoutingDecision{
		Tier:           core.TierDocumentPlusWeb,
		ContextText:    contextText,
		Sources:        append(sources, webSources(webResults)...),
		BestSimilarity: best,
		WebSearchUsed:  true,
	}
}

// searchWeb runs the marginal-tier search and enhancement. It reports false
// whenever the results cannot contribute context, whatever the cause.
func (r *Router) searchWeb(ctx context.Context, query string) ([]browsing.Result, bool) {
	if r.searcher == nil {
		return nil, false
	}

	results, err := r.searcher.Search(ctx, query, webSearchResults)
	if err != nil {
		r.logger.Warn("web search failed, using document context only", "query", query, "err", err)
		return nil, false
	}
	if len(results) == 0 {
		return nil, false
	}

	return r.searcher.Enhance(ctx, results, enhanceTop), true
}

func joinChunkContents(matches []core.ScoredMatch) string {
	contents := make([]string, 0, len(matches))
	for _, match := range matches {
		contents = append(contents, match.Chunk.Content)
	}
	return strings.Join(contents, "\n\n")
}

func documentSources(query string, matches []core.ScoredMatch) []core.SourceCitation {
	sources := make([]core.SourceCitation, 0, len(matches))
	for _, match := range matches {
		chunk := match.Chunk
		title := chunk.Section
		if title == "" {
			title = fmt.Sprintf("Section %d", chunk.SequenceIndex)
		}

		content := chunk.Content
		if len(content) > maxContentPreview {
			content = content[:maxContentPreview] + "..."
		}

		sources = append(sources, core.SourceCitation{
			Id:         strconv.FormatUint(uint64(chunk.Id), 10),
			Kind:       core.SourceDocument,
			Title:      title,
			Snippet:    Snippet(query, chunk.Content),
			Content:    content,
			Source:     chunk.SourceLabel,
			Section:    chunk.Section,
			Confidence: fmt.Sprintf("%.1f%%", match.Similarity*100),
			ChunkIndex: chunk.SequenceIndex,
		})
	}
	return sources
}

func webSources(results []browsing.Result) []core.SourceCitation {
	sources := make([]core.SourceCitation, 0, len(results))
	for i, result := range results {
		snippet := result.Snippet
		if len(snippet) > maxSnippetLength {
			snippet = snippet[:maxSnippetLength] + "..."
		}
		sources = append(sources, core.SourceCitation{
			Id:      fmt.Sprintf("web-%d", i+1),
			Kind:    core.SourceWeb,
			Title:   result.Title,
			Snippet: snippet,
			Source:  result.Source,
			Link:    result.Link,
		})
	}
	return sources
}
