package ingestion

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/docuforge/docchat/ai"
	"github.com/docuforge/docchat/core"
	"github.com/panjf2000/ants/v2"
)

// Processor turns raw document text into embedded chunks ready for
// indexing. Embedding generation runs on a bounded worker pool; a chunk
// whose embedding fails is kept without a vector rather than dropped, so it
// stays enumerable even though it cannot be searched.
type Processor struct {
	embedder   ai.Embedder
	pool       *ants.Pool
	targetSize int
	overlap    int
	logger     *slog.Logger

	mu       sync.RWMutex
	document core.DocumentInfo
}

// Option configures a Processor.
type Option func(*Processor) error

// WithChunkSize overrides the default chunk target size and overlap.
func WithChunkSize(targetSize, overlap int) Option {
	return func(p *Processor) error {
		if targetSize <= 0 {
			return ErrInvalidChunkSize
		}
		if overlap < 0 || overlap >= targetSize {
			return ErrInvalidOverlap
		}
		p.targetSize = targetSize
		p.overlap = overlap
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Processor) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewProcessor creates a document processor.
func NewProcessor(embedder ai.Embedder, opts ...Option) (*Processor, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Processor{
		embedder:   embedder,
		pool:       pool,
		targetSize: DefaultTargetSize,
		overlap:    DefaultOverlap,
		logger:     slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// ProcessText chunks raw text into labeled chunks. When info is non-nil it
// becomes the active document metadata used for refusal messages.
func (p *Processor) ProcessText(text, sourceLabel string, info *core.DocumentInfo) []core.Chunk {
	if info != nil {
		p.mu.Lock()
		p.document = *info
		p.mu.Unlock()
	}

	pieces := Split(text, p.targetSize, p.overlap)
	chunks := make([]core.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		section := ExtractSection(piece)
		chunks = append(chunks, core.NewChunk(piece, sourceLabel, section, i+1))
	}

	p.logger.Info("document chunked", "source", sourceLabel, "chunks", len(chunks))
	return chunks
}

// GenerateEmbeddings embeds each chunk on the worker pool. Per-chunk
// failures are logged and the chunk retained without a vector; the caller
// decides whether a vector-less corpus is acceptable.
func (p *Processor) GenerateEmbeddings(ctx context.Context, chunks []core.Chunk) []core.IndexedChunk {
	indexed := make([]core.IndexedChunk, len(chunks))
	var wg sync.WaitGroup

	for i, chunk := range chunks {
		i, chunk := i, chunk
		indexed[i] = core.IndexedChunk{Chunk: chunk}

		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			vector, err := p.embedder.EmbedText(ctx, chunk.Content)
			if err != nil {
				p.logger.Error("failed to generate embedding for chunk", "chunk", chunk.Id, "err", err)
				return
			}
			indexed[i].Vector = vector
		})
		if err != nil {
			// Pool rejected the task; the chunk simply stays vector-less.
			p.logger.Error("failed to submit embedding task", "chunk", chunk.Id, "err", err)
			wg.Done()
		}
	}

	wg.Wait()
	return indexed
}

// Document returns the active document metadata.
func (p *Processor) Document() core.DocumentInfo {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.document
}

// OutOfScopeResponse returns the refusal message for the active document.
func (p *Processor) OutOfScopeResponse() string {
	return p.Document().RefusalMessage()
}

// Release releases the worker pool.
// The processor should not be used after calling Release.
func (p *Processor) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
