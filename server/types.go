package server

import (
	"time"

	"github.com/docuforge/docchat/ai"
	"github.com/docuforge/docchat/core"
)

type chatRequest struct {
	Message             string       `json:"message"`
	ConversationHistory []ai.Message `json:"conversationHistory"`
}

type chatResponse struct {
	Response            string                `json:"response"`
	Sources             []core.SourceCitation `json:"sources"`
	Timestamp           string                `json:"timestamp"`
	ChunksFound         int                   `json:"chunksFound"`
	Tier                string                `json:"tier,omitempty"`
	BestSimilarity      string                `json:"bestSimilarity,omitempty"`
	WebSearchUsed       bool                  `json:"webSearchUsed,omitempty"`
	ConversationContext bool                  `json:"conversationContext,omitempty"`
	LowRelevance        bool                  `json:"lowRelevance,omitempty"`
	DemoMode            bool                  `json:"demoMode,omitempty"`
	Note                string                `json:"note,omitempty"`
	StockData           bool                  `json:"stockData,omitempty"`
	Symbol              string                `json:"symbol,omitempty"`
	RateLimited         bool                  `json:"rateLimited,omitempty"`
	APILimited          bool                  `json:"apiLimited,omitempty"`
}

type statusResponse struct {
	Status  string      `json:"status"`
	Uptime  string      `json:"uptime"`
	Version string      `json:"version"`
	Model   modelStatus `json:"model"`
	Index   indexStatus `json:"index"`
}

type modelStatus struct {
	Healthy         bool     `json:"healthy"`
	Models          []string `json:"models"`
	BaseURL         string   `json:"baseUrl"`
	EmbeddingModel  string   `json:"embeddingModel"`
	CompletionModel string   `json:"completionModel"`
}

type indexStatus struct {
	State      string `json:"state"`
	ChunkCount int    `json:"chunkCount"`
}

type documentsResponse struct {
	TotalChunks int            `json:"totalChunks"`
	Chunks      []chunkSummary `json:"chunks"`
}

type chunkSummary struct {
	Id           string `json:"id"`
	Preview      string `json:"preview"`
	Source       string `json:"source"`
	Section      string `json:"section,omitempty"`
	HasEmbedding bool   `json:"hasEmbedding"`
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
