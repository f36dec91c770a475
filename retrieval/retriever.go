package retrieval

import (
	"context"
	"log/slog"

	"github.com/docuforge/docchat/ai"
	"github.com/docuforge/docchat/core"
	"github.com/docuforge/docchat/routing"
	"github.com/docuforge/docchat/vectorstore"
)

// DefaultTopK is how many chunks are retrieved per query.
const DefaultTopK = 4

// DocumentSource exposes the active document metadata. The ingestion
// processor satisfies it.
type DocumentSource interface {
	Document() core.DocumentInfo
}

// Retriever is the query-side pipeline: embed the query, search the index,
// and route the matches into a tiered decision. It holds no per-query
// state and is safe for concurrent use once ingestion has completed.
type Retriever struct {
	embedder ai.Embedder
	index    *vectorstore.Index
	router   *routing.Router
	docs     DocumentSource
	topK     int
	logger   *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithTopK overrides how many chunks are retrieved per query.
// Default is DefaultTopK.
func WithTopK(topK int) Option {
	return func(r *Retriever) error {
		if topK <= 0 {
			return ErrInvalidTopK
		}
		r.topK = topK
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRetriever creates a retriever over the given capabilities.
func NewRetriever(embedder ai.Embedder, index *vectorstore.Index, router *routing.Router, docs DocumentSource, opts ...Option) (*Retriever, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if index == nil {
		return nil, ErrIndexRequired
	}
	if router == nil {
		return nil, ErrRouterRequired
	}
	if docs == nil {
		return nil, ErrDocumentSourceRequired
	}

	r := &Retriever{
		embedder: embedder,
		index:    index,
		router:   router,
		docs:     docs,
		topK:     DefaultTopK,
		logger:   slog.Default().With("component", "retrieval"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Retrieve answers a query with a routing decision. Embedding failures and
// dimension mismatches propagate; everything downstream of a successful
// search is infallible. An empty index yields an out-of-scope decision,
// not an error.
func (r *Retriever) Retrieve(ctx context.Context, query string) (core.RoutingDecision, error) {
	vector, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		return core.RoutingDecision{}, err
	}

	matches, err := r.index.SimilaritySearch(vector, r.topK)
	if err != nil {
		return core.RoutingDecision{}, err
	}

	decision := r.router.Route(ctx, query, matches, r.docs.Document())

	r.logger.Info("query routed",
		"tier", decision.Tier.String(),
		"best_similarity", decision.BestSimilarity,
		"sources", len(decision.Sources),
		"web_search_used", decision.WebSearchUsed)

	return decision, nil
}
