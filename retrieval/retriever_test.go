package retrieval

import (
	"context"
	"testing"

	"github.com/docuforge/docchat/ai"
	"github.com/docuforge/docchat/ai/mock"
	"github.com/docuforge/docchat/core"
	"github.com/docuforge/docchat/ingestion"
	"github.com/docuforge/docchat/routing"
	"github.com/docuforge/docchat/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedDocs struct {
	info core.DocumentInfo
}

func (f fixedDocs) Document() core.DocumentInfo { return f.info }

var policyDocs = fixedDocs{info: core.DocumentInfo{
	Title:       "Company Policy Manual",
	Description: "company policies and benefits",
}}

// vectorEmbedder maps known texts to fixed vectors, with a fallback for
// everything else.
func vectorEmbedder(vectors map[string][]float32, fallback []float32) *mock.MockEmbedder {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		if v, ok := vectors[text]; ok {
			return v, nil
		}
		return fallback, nil
	}
	return embedder
}

func indexed(content string, seq int, vector []float32) core.IndexedChunk {
	return core.IndexedChunk{
		Chunk:  core.NewChunk(content, "policy", "", seq),
		Vector: vector,
	}
}

func newTestRetriever(t *testing.T, embedder ai.Embedder, index *vectorstore.Index, opts ...Option) *Retriever {
	t.Helper()
	router, err := routing.NewRouter()
	require.NoError(t, err)
	r, err := NewRetriever(embedder, index, router, policyDocs, opts...)
	require.NoError(t, err)
	return r
}

func TestNewRetriever_Validation(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	index := vectorstore.NewIndex()
	router, err := routing.NewRouter()
	require.NoError(t, err)

	_, err = NewRetriever(nil, index, router, policyDocs)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewRetriever(embedder, nil, router, policyDocs)
	assert.ErrorIs(t, err, ErrIndexRequired)

	_, err = NewRetriever(embedder, index, nil, policyDocs)
	assert.ErrorIs(t, err, ErrRouterRequired)

	_, err = NewRetriever(embedder, index, router, nil)
	assert.ErrorIs(t, err, ErrDocumentSourceRequired)

	_, err = NewRetriever(embedder, index, router, policyDocs, WithTopK(0))
	assert.ErrorIs(t, err, ErrInvalidTopK)
}

func TestRetrieve_DocumentOnly(t *testing.T) {
	index := vectorstore.NewIndex()
	index.AddChunks([]core.IndexedChunk{
		indexed("Remote work is allowed three days a week.", 1, []float32{1, 0, 0}),
		indexed("Benefits include health insurance.", 2, []float32{0, 1, 0}),
	})

	embedder := vectorEmbedder(nil, []float32{1, 0, 0})
	r := newTestRetriever(t, embedder, index)

	decision, err := r.Retrieve(context.Background(), "remote work")
	require.NoError(t, err)

	assert.Equal(t, core.TierDocumentOnly, decision.Tier)
	assert.InDelta(t, 1.0, decision.BestSimilarity, 1e-9)
	require.NotEmpty(t, decision.Sources)
	assert.Contains(t, decision.ContextText, "Remote work is allowed")
}

func TestRetrieve_OutOfScope(t *testing.T) {
	index := vectorstore.NewIndex()
	index.AddChunks([]core.IndexedChunk{
		indexed("Remote work is allowed three days a week.", 1, []float32{1, 0, 0}),
	})

	// Orthogonal query vector: similarity exactly zero.
	embedder := vectorEmbedder(nil, []float32{0, 0, 1})
	r := newTestRetriever(t, embedder, index)

	decision, err := r.Retrieve(context.Background(), "how do I bake bread")
	require.NoError(t, err)

	assert.Equal(t, core.TierOutOfScope, decision.Tier)
	assert.Zero(t, decision.BestSimilarity)
	assert.Empty(t, decision.Sources)
	assert.Contains(t, decision.ContextText, "Company Policy Manual")
}

func TestRetrieve_EmptyIndex(t *testing.T) {
	embedder := vectorEmbedder(nil, []float32{1, 0, 0})
	r := newTestRetriever(t, embedder, vectorstore.NewIndex())

	decision, err := r.Retrieve(context.Background(), "anything")
	require.NoError(t, err)

	assert.Equal(t, core.TierOutOfScope, decision.Tier)
	assert.Zero(t, decision.BestSimilarity)
}

func TestRetrieve_EmbeddingErrorPropagates(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, ai.ErrEmbeddingUnavailable
	}

	r := newTestRetriever(t, embedder, vectorstore.NewIndex())

	_, err := r.Retrieve(context.Background(), "anything")
	assert.ErrorIs(t, err, ai.ErrEmbeddingUnavailable)
}

func TestRetrieve_DimensionMismatchPropagates(t *testing.T) {
	index := vectorstore.NewIndex()
	index.AddChunks([]core.IndexedChunk{
		indexed("Remote work is allowed three days a week.", 1, []float32{1, 0, 0}),
	})

	embedder := vectorEmbedder(nil, []float32{1, 0})
	r := newTestRetriever(t, embedder, index)

	_, err := r.Retrieve(context.Background(), "anything")
	assert.ErrorIs(t, err, vectorstore.ErrDimensionMismatch)
}

func TestRetrieve_TopKLimit(t *testing.T) {
	index := vectorstore.NewIndex()
	for i := 1; i <= 6; i++ {
		index.AddChunks([]core.IndexedChunk{
			indexed("Policy clause repeated for coverage.", i, []float32{1, 0, 0}),
		})
	}

	embedder := vectorEmbedder(nil, []float32{1, 0, 0})
	r := newTestRetriever(t, embedder, index, WithTopK(2))

	decision, err := r.Retrieve(context.Background(), "policy clause")
	require.NoError(t, err)
	assert.Len(t, decision.Sources, 2)
}

// Full pipeline: chunk a tiny document, embed it with the deterministic
// mock, index it, and query with the exact text of one chunk. The top match
// must score 1.0.
func TestRetrieve_EndToEndIdenticalText(t *testing.T) {
	embedder := mock.NewMockEmbedder()

	processor, err := ingestion.NewProcessor(embedder, ingestion.WithChunkSize(4, 1))
	require.NoError(t, err)
	defer processor.Release()

	chunks := processor.ProcessText("A. B? C!", "tiny", nil)
	require.NotEmpty(t, chunks)

	index := vectorstore.NewIndex()
	index.AddChunks(processor.GenerateEmbeddings(context.Background(), chunks))

	r := newTestRetriever(t, embedder, index)

	decision, err := r.Retrieve(context.Background(), chunks[0].Content)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, decision.BestSimilarity, 1e-6)
	assert.Equal(t, core.TierDocumentOnly, decision.Tier)
	require.NotEmpty(t, decision.Sources)
	assert.Equal(t, chunks[0].Content, decision.Sources[0].Content)
}