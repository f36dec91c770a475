package stock

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quotePayload = `{
	"Global Quote": {
		"01. symbol": "AMD",
		"02. open": "161.50",
		"03. high": "164.21",
		"04. low": "160.88",
		"05. price": "163.44",
		"06. volume": "48123456",
		"07. latest trading day": "2026-08-28",
		"08. previous close": "161.02",
		"09. change": "2.42",
		"10. change percent": "1.5030%"
	}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient("test-key", WithBaseURL(server.URL))
}

func TestQuote(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GLOBAL_QUOTE", r.URL.Query().Get("function"))
		assert.Equal(t, "AMD", r.URL.Query().Get("symbol"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		w.Write([]byte(quotePayload))
	})

	quote, err := client.Quote(context.Background(), "amd")
	require.NoError(t, err)

	require.NotNil(t, quote.Quote)
	assert.Equal(t, "AMD", quote.Quote.Symbol)
	assert.Equal(t, "163.44", quote.Quote.Price)
	assert.Equal(t, "1.5030%", quote.Quote.ChangePercent)
	assert.False(t, quote.RateLimited())
	assert.False(t, quote.Restricted())
}

func TestQuote_RateLimited(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage!"}`))
	})

	quote, err := client.Quote(context.Background(), "AMD")
	require.NoError(t, err)

	assert.True(t, quote.RateLimited())
	assert.Nil(t, quote.Quote)
}

func TestQuote_Restricted(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Information": "The demo API key is for demonstration only."}`))
	})

	quote, err := client.Quote(context.Background(), "AMD")
	require.NoError(t, err)

	assert.True(t, quote.Restricted())
	assert.Nil(t, quote.Quote)
}

func TestQuote_HTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.Quote(context.Background(), "AMD")
	assert.ErrorIs(t, err, ErrRequestFailed)
}

func TestIntraday(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TIME_SERIES_INTRADAY", r.URL.Query().Get("function"))
		assert.Equal(t, "5min", r.URL.Query().Get("interval"))
		w.Write([]byte(`{"Meta Data": {"2. Symbol": "AMD"}}`))
	})

	data, err := client.Intraday(context.Background(), "AMD", "")
	require.NoError(t, err)
	assert.Contains(t, data, "Meta Data")
}

func TestOverview(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "OVERVIEW", r.URL.Query().Get("function"))
		w.Write([]byte(`{"Name": "Advanced Micro Devices"}`))
	})

	data, err := client.Overview(context.Background(), "AMD")
	require.NoError(t, err)
	assert.Equal(t, "Advanced Micro Devices", data["Name"])
}

func TestNewClient_EmptyKeyFallsBackToDemo(t *testing.T) {
	client := NewClient("")
	assert.Equal(t, "demo", client.apiKey)
}

func TestFormatQuoteMarkdown(t *testing.T) {
	out := FormatQuoteMarkdown(&GlobalQuote{
		Symbol:           "AMD",
		Price:            "163.44",
		Change:           "2.42",
		ChangePercent:    "1.5030%",
		PreviousClose:    "161.02",
		High:             "164.21",
		Low:              "160.88",
		Volume:           "48123456",
		LatestTradingDay: "2026-08-28",
	})

	assert.Contains(t, out, "**AMD Stock Information**")
	assert.Contains(t, out, "**Current Price:** $163.44")
	assert.Contains(t, out, "**Change:** 2.42 (1.5030%)")
	assert.Contains(t, out, "**Day Range:** $160.88 - $164.21")
	assert.Contains(t, out, "**Volume:** 48,123,456")
}

func TestFormatQuoteLine(t *testing.T) {
	out := FormatQuoteLine(&GlobalQuote{Symbol: "AMD", Price: "163.44", Change: "2.42", ChangePercent: "1.5030%"})
	assert.Equal(t, "Symbol: AMD, Price: $163.44, Change: 2.42 (1.5030%)", out)
}

func TestGroupDigits(t *testing.T) {
	assert.Equal(t, "48,123,456", groupDigits("48123456"))
	assert.Equal(t, "1,000", groupDigits("1000"))
	assert.Equal(t, "999", groupDigits("999"))
	assert.Equal(t, "", groupDigits(""))
	assert.Equal(t, "n/a", groupDigits("n/a"))
}
