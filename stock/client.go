package stock

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const alphaVantageBaseURL = "https://www.alphavantage.co/query"

// GlobalQuote is Alpha Vantage's GLOBAL_QUOTE payload. Field names mirror
// the provider's numbered JSON keys; all values arrive as strings.
type GlobalQuote struct {
	Symbol           string `json:"01. symbol"`
	Open             string `json:"02. open"`
	High             string `json:"03. high"`
	Low              string `json:"04. low"`
	Price            string `json:"05. price"`
	Volume           string `json:"06. volume"`
	LatestTradingDay string `json:"07. latest trading day"`
	PreviousClose    string `json:"08. previous close"`
	Change           string `json:"09. change"`
	ChangePercent    string `json:"10. change percent"`
}

// QuoteResponse is the full GLOBAL_QUOTE response. Exactly one of the
// fields is normally populated: Quote on success, Note when rate limited,
// Information when the API key is restricted.
type QuoteResponse struct {
	Quote       *GlobalQuote `json:"Global Quote,omitempty"`
	Note        string       `json:"Note,omitempty"`
	Information string       `json:"Information,omitempty"`
}

// RateLimited reports whether the provider declined the request because of
// its daily request quota.
func (r QuoteResponse) RateLimited() bool { return r.Note != "" }

// Restricted reports whether the provider answered with an API key
// limitation notice instead of data.
func (r QuoteResponse) Restricted() bool { return r.Information != "" }

// Client fetches market data from Alpha Vantage. The zero API key falls
// back to the provider's heavily limited "demo" key.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// NewClient creates an Alpha Vantage client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	if strings.TrimSpace(apiKey) == "" {
		apiKey = "demo"
	}

	c := &Client{
		apiKey:  apiKey,
		baseURL: alphaVantageBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  slog.Default().With("component", "stock"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Quote fetches the latest GLOBAL_QUOTE for a symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (QuoteResponse, error) {
	var quote QuoteResponse
	err := c.query(ctx, url.Values{
		"function": {"GLOBAL_QUOTE"},
		"symbol":   {strings.ToUpper(symbol)},
	}, &quote)
	return quote, err
}

// Intraday fetches TIME_SERIES_INTRADAY data for a symbol. The payload
// shape varies by interval, so it is returned as-is for passthrough.
func (c *Client) Intraday(ctx context.Context, symbol, interval string) (map[string]any, error) {
	if interval == "" {
		interval = "5min"
	}
	var data map[string]any
	err := c.query(ctx, url.Values{
		"function": {"TIME_SERIES_INTRADAY"},
		"symbol":   {strings.ToUpper(symbol)},
		"interval": {interval},
	}, &data)
	return data, err
}

// Overview fetches the company OVERVIEW for a symbol, returned as-is.
func (c *Client) Overview(ctx context.Context, symbol string) (map[string]any, error) {
	var data map[string]any
	err := c.query(ctx, url.Values{
		"function": {"OVERVIEW"},
		"symbol":   {strings.ToUpper(symbol)},
	}, &data)
	return data, err
}

func (c *Client) query(ctx context.Context, params url.Values, out any) error {
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", ErrRequestFailed, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	return nil
}
