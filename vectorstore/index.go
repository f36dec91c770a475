package vectorstore

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/docuforge/docchat/core"
)

// Index is an in-memory similarity index over document chunks.
//
// The collection is small by design, so search is brute-force cosine
// similarity over every embedded chunk. AddChunks appends and never
// deduplicates or reorders; chunks live for the process lifetime. The read
// path mutates no shared state, so any number of concurrent searches may
// run; the RWMutex only guards against an ingest racing a read.
type Index struct {
	mu     sync.RWMutex
	chunks []core.IndexedChunk
	logger *slog.Logger
}

// Option configures an Index.
type Option func(*Index)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(idx *Index) {
		if logger == nil {
			logger = slog.Default()
		}
		idx.logger = logger
	}
}

// NewIndex creates an empty similarity index.
func NewIndex(opts ...Option) *Index {
	idx := &Index{
		logger: slog.Default().With("component", "vectorstore"),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// AddChunks appends chunks to the index. Entries are never deduplicated or
// reordered; re-ingestion appends. Chunks without vectors are retained for
// enumeration but excluded from search.
func (idx *Index) AddChunks(chunks []core.IndexedChunk) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.chunks = append(idx.chunks, chunks...)
	idx.logger.Debug("chunks added", "added", len(chunks), "total", len(idx.chunks))
}

// SimilaritySearch returns up to topK chunks ranked by cosine similarity to
// the query vector, descending. The result length is min(topK, number of
// chunks with a vector); an index with no embedded chunks yields an empty
// slice. Ties keep insertion order (stable sort).
func (idx *Index) SimilaritySearch(query []float32, topK int) ([]core.ScoredMatch, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if topK < 0 {
		topK = 0
	}

	matches := make([]core.ScoredMatch, 0, len(idx.chunks))
	for _, ic := range idx.chunks {
		if !ic.HasVector() {
			continue
		}
		similarity, err := CosineSimilarity(query, ic.Vector)
		if err != nil {
			return nil, err
		}
		matches = append(matches, core.ScoredMatch{Chunk: ic.Chunk, Similarity: similarity})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if topK < len(matches) {
		matches = matches[:topK]
	}
	return matches, nil
}

// Count returns the number of chunks held, embedded or not.
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.chunks)
}

// AllChunks returns a snapshot copy of every chunk in insertion order.
// Caller mutation of the returned slice does not affect the index.
func (idx *Index) AllChunks() []core.IndexedChunk {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	snapshot := make([]core.IndexedChunk, len(idx.chunks))
	copy(snapshot, idx.chunks)
	return snapshot
}

// CosineSimilarity computes dot(a,b) / (|a|*|b|).
//
// Vectors of differing length indicate an embedding-model mismatch between
// ingestion and query time; that is a configuration bug and surfaces as
// ErrDimensionMismatch. A zero-norm vector is deliberately "maximally
// dissimilar": the result is 0, never an error, so a degenerate embedding
// cannot crash ranking.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	normA = math.Sqrt(normA)
	normB = math.Sqrt(normB)

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (normA * normB), nil
}
