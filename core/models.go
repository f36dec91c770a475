package core

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Chunk is an immutable unit of retrievable document text.
// Chunks are created once at ingestion and held for the lifetime of the
// index that owns them; there is no update or delete.
type Chunk struct {
	Id            ID
	Content       string // trimmed, never empty for a valid chunk
	SourceLabel   string // identifies the originating document
	Section       string // optional heading derived at creation time
	SequenceIndex int    // 1-based position among chunks from the same source
}

// NewChunk creates a chunk with a deterministic ID derived from its source,
// position and content. Including the position in the hash keeps IDs unique
// even when overlapping chunks carry identical text.
func NewChunk(content, sourceLabel, section string, sequenceIndex int) Chunk {
	return Chunk{
		Id:            IDFromContent(fmt.Sprintf("%s#%d:%s", sourceLabel, sequenceIndex, content)),
		Content:       strings.TrimSpace(content),
		SourceLabel:   sourceLabel,
		Section:       section,
		SequenceIndex: sequenceIndex,
	}
}

// Label returns the chunk's section heading, or a synthesized
// "chunk-{sequenceIndex}" label when no heading was detected.
func (c Chunk) Label() string {
	if c.Section != "" {
		return c.Section
	}
	return fmt.Sprintf("chunk-%d", c.SequenceIndex)
}

// IndexedChunk pairs a Chunk with its embedding vector. A chunk whose
// embedding generation failed has a nil Vector; it is retained for
// enumeration but excluded from similarity search.
type IndexedChunk struct {
	Chunk  Chunk
	Vector []float32
}

// HasVector reports whether the chunk can participate in similarity search.
func (ic IndexedChunk) HasVector() bool {
	return len(ic.Vector) > 0
}

// ScoredMatch is a similarity-search result: a chunk and its cosine
// similarity to the query vector, in [-1, 1].
type ScoredMatch struct {
	Chunk      Chunk
	Similarity float64
}

// Tier classifies a query by retrieval confidence.
type Tier int

const (
	// TierOutOfScope means the best match fell below the low threshold;
	// no context is assembled.
	TierOutOfScope Tier = iota + 1
	// TierDocumentOnly means local retrieval confidence is high enough
	// that no web augmentation is attempted.
	TierDocumentOnly
	// TierDocumentPlusWeb means local confidence is marginal and web
	// results supplement the document context.
	TierDocumentPlusWeb
)

// String returns the tier name used in logs and API responses.
func (t Tier) String() string {
	switch t {
	case TierOutOfScope:
		return "out-of-scope"
	case TierDocumentOnly:
		return "document-only"
	case TierDocumentPlusWeb:
		return "document-plus-web"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// SourceKind tags where a citation came from.
type SourceKind string

const (
	// SourceDocument marks a citation drawn from the indexed document.
	SourceDocument SourceKind = "document"
	// SourceWeb marks a citation drawn from a web search result.
	SourceWeb SourceKind = "web"
)

// SourceCitation is a display/citation record attached to a routing
// decision. The snippet is selected for display only and is never part of
// the context sent to the model.
type SourceCitation struct {
	Id         string     `json:"id"`
	Kind       SourceKind `json:"kind"`
	Title      string     `json:"title"`
	Snippet    string     `json:"snippet"`
	Content    string     `json:"content,omitempty"`
	Source     string     `json:"source"`
	Section    string     `json:"section,omitempty"`
	Link       string     `json:"link,omitempty"`
	Confidence string     `json:"confidence,omitempty"`
	ChunkIndex int        `json:"chunkIndex,omitempty"`
}

// RoutingDecision is the outcome of relevance routing for one query.
type RoutingDecision struct {
	Tier           Tier
	ContextText    string
	Sources        []SourceCitation
	BestSimilarity float64
	// WebSearchUsed is false when the tier did not call web search, or
	// when the call failed and the router degraded to document-only
	// context. Degradation is otherwise silent to the caller.
	WebSearchUsed bool
}

// DocumentInfo describes the active document set, used to parameterize the
// out-of-scope refusal message.
type DocumentInfo struct {
	Title       string
	Description string
	Type        string
}

// RefusalMessage returns the fixed out-of-scope response for this document.
func (d DocumentInfo) RefusalMessage() string {
	if d.Title == "" {
		return "I can only answer questions based on the loaded document. Please ask something related to the document content."
	}
	return fmt.Sprintf("I can only answer questions about the %s. Please ask something related to %s.", d.Title, d.Description)
}
