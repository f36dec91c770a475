package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/docuforge/docchat/ai"
	"github.com/docuforge/docchat/ai/mock"
	"github.com/docuforge/docchat/core"
	"github.com/docuforge/docchat/ingestion"
	"github.com/docuforge/docchat/retrieval"
	"github.com/docuforge/docchat/routing"
	"github.com/docuforge/docchat/stock"
	"github.com/docuforge/docchat/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stockQuotePayload = `{
	"Global Quote": {
		"01. symbol": "AMD",
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

// marginalVector scores 0.3 against the document vector {1,0,0}.
var marginalVector = []float32{0.3, 0.9539392, 0}

type fixture struct {
	server   *Server
	handler  http.Handler
	provider *mock.MockProvider
}

// newFixture builds a server over two pre-embedded policy chunks. Query
// vectors are keyed by content: policy vocabulary scores 1.0, "marginal"
// scores 0.3, everything else is orthogonal.
func newFixture(t *testing.T, configure func(*Deps)) *fixture {
	t.Helper()

	provider := mock.NewMockProvider().(*mock.MockProvider)
	embedder := provider.GetMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		lower := strings.ToLower(text)
		switch {
		case strings.Contains(lower, "remote") || strings.Contains(lower, "vacation") || strings.Contains(lower, "policy"):
			return []float32{1, 0, 0}, nil
		case strings.Contains(lower, "marginal"):
			return marginalVector, nil
		default:
			return []float32{0, 0, 1}, nil
		}
	}

	processor, err := ingestion.NewProcessor(embedder)
	require.NoError(t, err)
	t.Cleanup(processor.Release)
	processor.ProcessText("", "company-policy-manual", &core.DocumentInfo{
		Title:       "Company Policy Manual",
		Description: "company policies, procedures, and employee benefits information",
	})

	index := vectorstore.NewIndex()
	loader := ingestion.NewLoader(func(ctx context.Context) error {
		index.AddChunks([]core.IndexedChunk{
			{
				Chunk:  core.NewChunk("Employees may work remotely up to 3 days per week with manager approval.", "company-policy-manual", "Remote Work Policy", 1),
				Vector: []float32{1, 0, 0},
			},
			{
				Chunk:  core.NewChunk("Employees receive 15 days paid vacation each year.", "company-policy-manual", "Benefits Package", 2),
				Vector: []float32{1, 0, 0},
			},
		})
		return nil
	})

	router, err := routing.NewRouter()
	require.NoError(t, err)
	retriever, err := retrieval.NewRetriever(embedder, index, router, processor)
	require.NoError(t, err)

	deps := Deps{
		Retriever: retriever,
		Provider:  provider,
		Processor: processor,
		Index:     index,
		Loader:    loader,
		// Unreachable by default so stock questions fall back to the
		// document pipeline unless a test wires a fake provider.
		Stocks:   stock.NewClient("test", stock.WithBaseURL("http://127.0.0.1:1")),
		AIConfig: ai.Config{Host: "http://localhost:11434", EmbeddingModel: "nomic-embed-text", CompletionModel: "llama3"},
	}
	if configure != nil {
		configure(&deps)
	}

	srv, err := NewServer(Config{Host: "127.0.0.1", Port: 0}, deps)
	require.NoError(t, err)

	return &fixture{server: srv, handler: srv.routes(), provider: provider}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func jsonDecode(rec *httptest.ResponseRecorder, out any) error {
	return json.Unmarshal(rec.Body.Bytes(), out)
}

func decodeChat(t *testing.T, rec *httptest.ResponseRecorder) chatResponse {
	t.Helper()
	var resp chatResponse
	require.NoError(t, jsonDecode(rec, &resp))
	return resp
}

func TestNewServer_Validation(t *testing.T) {
	f := newFixture(t, nil)
	base := Deps{
		Retriever: f.server.retriever,
		Provider:  f.server.provider,
		Processor: f.server.processor,
		Index:     f.server.index,
		Loader:    f.server.loader,
	}

	for _, tt := range []struct {
		name   string
		mutate func(*Deps)
		want   error
	}{
		{"no retriever", func(d *Deps) { d.Retriever = nil }, ErrRetrieverRequired},
		{"no provider", func(d *Deps) { d.Provider = nil }, ErrProviderRequired},
		{"no processor", func(d *Deps) { d.Processor = nil }, ErrProcessorRequired},
		{"no index", func(d *Deps) { d.Index = nil }, ErrIndexRequired},
		{"no loader", func(d *Deps) { d.Loader = nil }, ErrLoaderRequired},
	} {
		t.Run(tt.name, func(t *testing.T) {
			deps := base
			tt.mutate(&deps)
			_, err := NewServer(Config{}, deps)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestHandleChat_DocumentAnswer(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/api/chat", `{"message": "What is the remote work policy?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeChat(t, rec)
	assert.Contains(t, resp.Response, "Answer to")
	assert.Equal(t, "document-only", resp.Tier)
	assert.Equal(t, 2, resp.ChunksFound)
	assert.Len(t, resp.Sources, 2)
	assert.False(t, resp.WebSearchUsed)
	assert.False(t, resp.ConversationContext)
	assert.Equal(t, "1.000", resp.BestSimilarity)
	assert.Equal(t, 1, f.provider.GetMockCompleter().CallCount())
}

func TestHandleChat_OutOfScope(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/api/chat", `{"message": "how do I bake sourdough bread"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeChat(t, rec)
	assert.Contains(t, resp.Response, "Company Policy Manual")
	assert.True(t, resp.LowRelevance)
	assert.Empty(t, resp.Sources)
	assert.Zero(t, resp.ChunksFound)
	assert.Zero(t, f.provider.GetMockCompleter().CallCount(), "refusals must not call the model")
}

func TestHandleChat_BadRequests(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/api/chat", `{"message": "   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/chat", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleChat_DemoMode(t *testing.T) {
	f := newFixture(t, nil)
	f.provider.Healthy = false

	rec := f.do(t, http.MethodPost, "/api/chat", `{"message": "What is the remote work policy?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeChat(t, rec)
	assert.True(t, resp.DemoMode)
	assert.Contains(t, resp.Response, "[DEMO MODE")
	assert.Contains(t, resp.Response, "Company Policy Manual")
	assert.NotEmpty(t, resp.Note)
	assert.Len(t, resp.Sources, 2)
	assert.Zero(t, f.provider.GetMockCompleter().CallCount())
}

func TestHandleChat_DemoModeFollowUp(t *testing.T) {
	f := newFixture(t, nil)
	f.provider.Healthy = false

	rec := f.do(t, http.MethodPost, "/api/chat", `{
		"message": "tell me more about that",
		"conversationHistory": [
			{"role": "user", "content": "What is the vacation policy?"},
			{"role": "assistant", "content": "You get 15 days of paid vacation per year."}
		]
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeChat(t, rec)
	assert.True(t, resp.DemoMode)
	assert.True(t, resp.ConversationContext)
	assert.Contains(t, resp.Response, "follow-up question")
	assert.Contains(t, resp.Response, "15 days of paid vacation")
}

func TestHandleChat_StockShortCircuit(t *testing.T) {
	quotes := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(stockQuotePayload))
	}))
	defer quotes.Close()

	f := newFixture(t, func(d *Deps) {
		d.Stocks = stock.NewClient("test", stock.WithBaseURL(quotes.URL))
	})

	rec := f.do(t, http.MethodPost, "/api/chat", `{"message": "What is the current price of AMD?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeChat(t, rec)
	assert.True(t, resp.StockData)
	assert.Equal(t, "AMD", resp.Symbol)
	assert.Contains(t, resp.Response, "AMD Stock Information")
	assert.Contains(t, resp.Response, "$163.44")
	assert.Zero(t, f.provider.GetMockCompleter().CallCount(), "stock answers bypass the pipeline")
}

func TestHandleChat_StockRateLimited(t *testing.T) {
	quotes := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Note": "25 requests per day reached"}`))
	}))
	defer quotes.Close()

	f := newFixture(t, func(d *Deps) {
		d.Stocks = stock.NewClient("test", stock.WithBaseURL(quotes.URL))
	})

	rec := f.do(t, http.MethodPost, "/api/chat", `{"message": "AAPL stock quote"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeChat(t, rec)
	assert.True(t, resp.StockData)
	assert.True(t, resp.RateLimited)
	assert.Contains(t, resp.Response, "Rate Limit")
}

func TestHandleChat_StockWithoutSymbol(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/api/chat", `{"message": "what is the stock price today"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeChat(t, rec)
	assert.True(t, resp.StockData)
	assert.Empty(t, resp.Symbol)
	assert.Contains(t, resp.Response, "specify a stock symbol")
}

func TestHandleChat_StockAPIDownFallsBack(t *testing.T) {
	// Default fixture stock client points at an unreachable address.
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/api/chat", `{"message": "What is the current price of AMD?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeChat(t, rec)
	assert.False(t, resp.StockData, "failed stock lookups fall back to the documents")
	assert.True(t, resp.LowRelevance)
}

func TestHandleChat_IngestionFailure(t *testing.T) {
	f := newFixture(t, func(d *Deps) {
		d.Loader = ingestion.NewLoader(func(ctx context.Context) error {
			return assert.AnError
		})
	})

	rec := f.do(t, http.MethodPost, "/api/chat", `{"message": "What is the remote work policy?"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestHandleRoot(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"docchat"`)
	assert.Contains(t, rec.Body.String(), "POST /api/chat")
}

func TestHandleStatus(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp statusResponse
	require.NoError(t, jsonDecode(rec, &resp))
	assert.Equal(t, "running", resp.Status)
	assert.True(t, resp.Model.Healthy)
	assert.Equal(t, []string{"mock-model"}, resp.Model.Models)
	assert.Equal(t, "http://localhost:11434", resp.Model.BaseURL)
	assert.Equal(t, "uninitialized", resp.Index.State)
}

func TestHandleDocuments(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/api/documents", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp documentsResponse
	require.NoError(t, jsonDecode(rec, &resp))
	assert.Equal(t, 2, resp.TotalChunks)
	require.Len(t, resp.Chunks, 2)
	for _, chunk := range resp.Chunks {
		assert.NotEmpty(t, chunk.Id)
		assert.NotEmpty(t, chunk.Preview)
		assert.Equal(t, "company-policy-manual", chunk.Source)
		assert.True(t, chunk.HasEmbedding)
	}
}

func TestHandleStockQuote(t *testing.T) {
	quotes := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(stockQuotePayload))
	}))
	defer quotes.Close()

	f := newFixture(t, func(d *Deps) {
		d.Stocks = stock.NewClient("test", stock.WithBaseURL(quotes.URL))
	})

	rec := f.do(t, http.MethodGet, "/api/stock/quote/amd", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"symbol":"AMD"`)
	assert.Contains(t, rec.Body.String(), "Symbol: AMD, Price: $163.44")
}

func TestHandleStockIntraday(t *testing.T) {
	quotes := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TIME_SERIES_INTRADAY", r.URL.Query().Get("function"))
		w.Write([]byte(`{"Meta Data": {"2. Symbol": "AMD"}}`))
	}))
	defer quotes.Close()

	f := newFixture(t, func(d *Deps) {
		d.Stocks = stock.NewClient("test", stock.WithBaseURL(quotes.URL))
	})

	rec := f.do(t, http.MethodGet, "/api/stock/intraday/amd", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"interval":"5min"`)
}

func TestHandleStockQuote_Error(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/api/stock/quote/amd", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
