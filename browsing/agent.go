package browsing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/panjf2000/ants/v2"
)

const (
	serpAPIBaseURL = "https://serpapi.com/search.json"

	// DefaultMaxResults is the number of hits requested when the caller
	// passes a non-positive limit.
	DefaultMaxResults = 5

	// DefaultFetchTimeout bounds each page fetch during Enhance.
	DefaultFetchTimeout = 5 * time.Second
)

// Agent searches the web through SerpAPI and optionally enriches hits with
// page content. Responses are memoized for DefaultCacheTTL per
// (query, maxResults) pair.
type Agent struct {
	apiKey       string
	baseURL      string
	http         *http.Client
	cache        *resultCache
	pool         *ants.Pool
	fetchTimeout time.Duration
	logger       *slog.Logger
}

// AgentOption configures an Agent.
type AgentOption func(*Agent) error

// WithBaseURL overrides the search endpoint.
func WithBaseURL(baseURL string) AgentOption {
	return func(a *Agent) error {
		a.baseURL = strings.TrimSuffix(baseURL, "/")
		return nil
	}
}

// WithHTTPClient sets the client used for both search and page fetches.
func WithHTTPClient(client *http.Client) AgentOption {
	return func(a *Agent) error {
		if client != nil {
			a.http = client
		}
		return nil
	}
}

// WithCacheTTL overrides the search response cache TTL.
func WithCacheTTL(ttl time.Duration) AgentOption {
	return func(a *Agent) error {
		a.cache = newResultCache(ttl)
		return nil
	}
}

// WithFetchTimeout bounds each page fetch during Enhance.
func WithFetchTimeout(timeout time.Duration) AgentOption {
	return func(a *Agent) error {
		if timeout > 0 {
			a.fetchTimeout = timeout
		}
		return nil
	}
}

// WithAgentLogger sets a custom logger.
// Default is slog.Default().
func WithAgentLogger(logger *slog.Logger) AgentOption {
	return func(a *Agent) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// NewAgent creates a web search agent. The API key is required; components
// that can run without web augmentation should skip constructing an Agent
// instead of passing a placeholder key.
func NewAgent(apiKey string, opts ...AgentOption) (*Agent, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrAPIKeyRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	a := &Agent{
		apiKey:       apiKey,
		baseURL:      serpAPIBaseURL,
		http:         &http.Client{Timeout: 10 * time.Second},
		cache:        newResultCache(DefaultCacheTTL),
		pool:         pool,
		fetchTimeout: DefaultFetchTimeout,
		logger:       slog.Default().With("component", "browsing"),
	}

	for _, opt := range opts {
		if optErr := opt(a); optErr != nil {
			a.Release()
			return nil, optErr
		}
	}

	return a, nil
}

type serpResponse struct {
	Error          string `json:"error"`
	OrganicResults []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
	AnswerBox *struct {
		Answer string `json:"answer"`
		Link   string `json:"link"`
	} `json:"answer_box"`
}

// Search returns up to maxResults hits for query. A featured answer, when
// present, is prepended ahead of the organic results. Successful responses
// are cached.
func (a *Agent) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	if cached, ok := a.cache.get(query, maxResults); ok {
		a.logger.Debug("using cached web search results", "query", query)
		return cached, nil
	}

	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("api_key", a.apiKey)
	params.Set("num", strconv.Itoa(maxResults))
	params.Set("hl", "en")
	params.Set("gl", "us")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrSearchFailed, resp.StatusCode)
	}

	var data serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	if data.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrSearchFailed, data.Error)
	}

	results := make([]Result, 0, maxResults+1)
	for _, organic := range data.OrganicResults {
		if len(results) >= maxResults {
			break
		}
		title := organic.Title
		if title == "" {
			title = "No title"
		}
		snippet := organic.Snippet
		if snippet == "" {
			snippet = "No snippet available"
		}
		results = append(results, Result{
			Title:   title,
			Link:    organic.Link,
			Snippet: snippet,
			Source:  extractDomain(organic.Link),
		})
	}

	if data.AnswerBox != nil && data.AnswerBox.Answer != "" {
		featured := Result{
			Title:   "Featured Answer",
			Link:    data.AnswerBox.Link,
			Snippet: data.AnswerBox.Answer,
			Source:  extractDomain(data.AnswerBox.Link),
		}
		results = append([]Result{featured}, results...)
	}

	a.cache.put(query, maxResults, results)
	a.logger.Info("web search completed", "query", query, "results", len(results))
	return results, nil
}

// ClearCache drops all memoized search responses.
func (a *Agent) ClearCache() {
	a.cache.clear()
}

// CacheSize reports the number of memoized search responses.
func (a *Agent) CacheSize() int {
	return a.cache.size()
}

// Release releases the worker pool.
// The agent should not be used after calling Release.
func (a *Agent) Release() {
	if a.pool != nil {
		a.pool.Release()
	}
}

// extractDomain returns the hostname of a URL without a leading "www.".
func extractDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return "Unknown source"
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}
