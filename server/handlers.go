package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/docuforge/docchat/ai"
	"github.com/docuforge/docchat/core"
	"github.com/docuforge/docchat/intent"
	"github.com/docuforge/docchat/stock"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"name":    "docchat",
		"version": "1.0.0",
		"status":  "running",
		"endpoints": map[string]string{
			"health":        "/health",
			"status":        "/api/status",
			"chat":          "POST /api/chat",
			"documents":     "/api/documents",
			"stockQuote":    "GET /api/stock/quote/{symbol}",
			"stockIntraday": "GET /api/stock/intraday/{symbol}",
			"stockOverview": "GET /api/stock/overview/{symbol}",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "chatbot backend is running",
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	ctx := r.Context()

	if c := s.classifier.Classify(req.Message, len(req.ConversationHistory)); c.Kind == intent.KindStock {
		if resp, ok := s.stockAnswer(ctx, c.Symbol); ok {
			s.respondJSON(w, http.StatusOK, resp)
			return
		}
		// Market data unavailable; fall through to the document pipeline.
	}

	if err := s.loader.Ensure(ctx); err != nil {
		s.logger.Error("document ingestion failed", "err", err)
		s.respondError(w, http.StatusServiceUnavailable, "document ingestion failed")
		return
	}

	if !s.provider.CheckHealth(ctx) {
		s.respondJSON(w, http.StatusOK, s.demoResponse(req))
		return
	}

	decision, err := s.retriever.Retrieve(ctx, req.Message)
	if err != nil {
		s.logger.Error("retrieval failed", "query", req.Message, "err", err)
		s.respondError(w, http.StatusInternalServerError, "failed to process chat message")
		return
	}

	if decision.Tier == core.TierOutOfScope {
		s.respondJSON(w, http.StatusOK, chatResponse{
			Response:       decision.ContextText,
			Sources:        []core.SourceCitation{},
			Timestamp:      timestamp(),
			Tier:           decision.Tier.String(),
			BestSimilarity: fmt.Sprintf("%.3f", decision.BestSimilarity),
			LowRelevance:   true,
		})
		return
	}

	answer, err := s.provider.Completer().Complete(ctx, req.Message, decision.ContextText,
		req.ConversationHistory, s.processor.OutOfScopeResponse())
	if err != nil {
		s.logger.Error("completion failed", "query", req.Message, "err", err)
		s.respondError(w, http.StatusInternalServerError, "failed to generate response")
		return
	}

	chunksFound := 0
	for _, src := range decision.Sources {
		if src.Kind == core.SourceDocument {
			chunksFound++
		}
	}

	s.respondJSON(w, http.StatusOK, chatResponse{
		Response:            answer,
		Sources:             decision.Sources,
		Timestamp:           timestamp(),
		ChunksFound:         chunksFound,
		Tier:                decision.Tier.String(),
		BestSimilarity:      fmt.Sprintf("%.3f", decision.BestSimilarity),
		WebSearchUsed:       decision.WebSearchUsed,
		ConversationContext: len(req.ConversationHistory) > 0,
	})
}

// stockAnswer builds the chat response for a stock question. It reports
// false when market data is unavailable and the caller should answer from
// the document pipeline instead.
func (s *Server) stockAnswer(ctx context.Context, symbol string) (chatResponse, bool) {
	if symbol == "" {
		return chatResponse{
			Response:  stock.NoSymbolMessage(),
			Sources:   []core.SourceCitation{},
			Timestamp: timestamp(),
			StockData: true,
		}, true
	}

	s.logger.Info("stock query detected", "symbol", symbol)

	quote, err := s.stocks.Quote(ctx, symbol)
	if err != nil {
		s.logger.Warn("stock quote failed, falling back to documents", "symbol", symbol, "err", err)
		return chatResponse{}, false
	}

	base := chatResponse{
		Sources:   []core.SourceCitation{},
		Timestamp: timestamp(),
		StockData: true,
		Symbol:    symbol,
	}

	switch {
	case quote.RateLimited():
		base.Response = stock.RateLimitMessage(quote.Note)
		base.RateLimited = true
		return base, true
	case quote.Quote != nil:
		base.Response = stock.FormatQuoteMarkdown(quote.Quote)
		return base, true
	case quote.Restricted():
		base.Response = stock.RestrictedMessage(symbol, quote.Information)
		base.APILimited = true
		return base, true
	default:
		return chatResponse{}, false
	}
}

// demoResponse answers without the model: the first chunks of the document
// stand in for retrieval and a canned preamble acknowledges follow-ups.
func (s *Server) demoResponse(req chatRequest) chatResponse {
	chunks := s.index.AllChunks()
	if len(chunks) > 2 {
		chunks = chunks[:2]
	}

	var b strings.Builder
	b.WriteString("[DEMO MODE - model host not available] ")

	if intent.IsFollowUp(req.Message, len(req.ConversationHistory)) {
		b.WriteString("I understand you're asking a follow-up question about our previous discussion. ")
		if last := lastAssistantMessage(req.ConversationHistory); last != "" {
			fmt.Fprintf(&b, "Earlier we discussed: %q ", truncate(last, 100))
		}
	}

	previews := make([]string, 0, len(chunks))
	sources := make([]core.SourceCitation, 0, len(chunks))
	for _, ic := range chunks {
		previews = append(previews, truncate(ic.Chunk.Content, 150))
		sources = append(sources, core.SourceCitation{
			Id:      strconv.FormatUint(uint64(ic.Chunk.Id), 10),
			Kind:    core.SourceDocument,
			Title:   ic.Chunk.Label(),
			Snippet: truncate(ic.Chunk.Content, 200),
			Source:  ic.Chunk.SourceLabel,
			Section: ic.Chunk.Section,
		})
	}
	fmt.Fprintf(&b, "Based on the %s, here's what I found related to %q: %s",
		documentName(s.processor.Document()), req.Message, strings.Join(previews, " ... "))

	return chatResponse{
		Response:            b.String(),
		Sources:             sources,
		Timestamp:           timestamp(),
		ChunksFound:         len(chunks),
		DemoMode:            true,
		Note:                "Start the model host for full AI functionality",
		ConversationContext: len(req.ConversationHistory) > 0,
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	models := s.provider.ListModels(ctx)
	if models == nil {
		models = []string{}
	}

	s.respondJSON(w, http.StatusOK, statusResponse{
		Status:  "running",
		Uptime:  time.Since(s.startedAt).Round(time.Second).String(),
		Version: "1.0.0",
		Model: modelStatus{
			Healthy:         s.provider.CheckHealth(ctx),
			Models:          models,
			BaseURL:         s.aiConfig.Host,
			EmbeddingModel:  s.aiConfig.EmbeddingModel,
			CompletionModel: s.aiConfig.CompletionModel,
		},
		Index: indexStatus{
			State:      s.loader.State().String(),
			ChunkCount: s.index.Count(),
		},
	})
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	if err := s.loader.Ensure(r.Context()); err != nil {
		s.logger.Error("document ingestion failed", "err", err)
		s.respondError(w, http.StatusServiceUnavailable, "document ingestion failed")
		return
	}

	chunks := s.index.AllChunks()
	summaries := make([]chunkSummary, 0, len(chunks))
	for _, ic := range chunks {
		summaries = append(summaries, chunkSummary{
			Id:           strconv.FormatUint(uint64(ic.Chunk.Id), 10),
			Preview:      truncate(ic.Chunk.Content, 100),
			Source:       ic.Chunk.SourceLabel,
			Section:      ic.Chunk.Section,
			HasEmbedding: ic.HasVector(),
		})
	}

	s.respondJSON(w, http.StatusOK, documentsResponse{
		TotalChunks: len(chunks),
		Chunks:      summaries,
	})
}

func (s *Server) handleStockQuote(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))

	quote, err := s.stocks.Quote(r.Context(), symbol)
	if err != nil {
		s.logger.Error("stock quote failed", "symbol", symbol, "err", err)
		s.respondError(w, http.StatusInternalServerError, "failed to fetch stock quote")
		return
	}

	resp := map[string]any{
		"symbol":    symbol,
		"data":      quote,
		"timestamp": timestamp(),
	}
	if quote.Quote != nil {
		resp["formatted"] = stock.FormatQuoteLine(quote.Quote)
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStockIntraday(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))
	interval := r.URL.Query().Get("interval")
	if interval == "" {
		interval = "5min"
	}

	data, err := s.stocks.Intraday(r.Context(), symbol, interval)
	if err != nil {
		s.logger.Error("intraday fetch failed", "symbol", symbol, "err", err)
		s.respondError(w, http.StatusInternalServerError, "failed to fetch intraday stock data")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"symbol":    symbol,
		"interval":  interval,
		"data":      data,
		"timestamp": timestamp(),
	})
}

func (s *Server) handleStockOverview(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))

	data, err := s.stocks.Overview(r.Context(), symbol)
	if err != nil {
		s.logger.Error("overview fetch failed", "symbol", symbol, "err", err)
		s.respondError(w, http.StatusInternalServerError, "failed to fetch company overview")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"symbol":    symbol,
		"data":      data,
		"timestamp": timestamp(),
	})
}

// lastAssistantMessage returns the content of the most recent assistant
// turn, or "" when the history has none.
func lastAssistantMessage(history []ai.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == ai.RoleAssistant {
			return history[i].Content
		}
	}
	return ""
}

// documentName names the active document for the demo-mode preamble.
func documentName(info core.DocumentInfo) string {
	if info.Title == "" {
		return "loaded document"
	}
	return info.Title
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
