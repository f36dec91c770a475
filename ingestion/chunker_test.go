package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reconstruct glues chunks back together, dropping each chunk's leading
// overlap region, and must reproduce the original text when no chunk was
// discarded as whitespace.
func reconstruct(chunks []string, overlap int) string {
	if len(chunks) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(chunks[0])
	for _, chunk := range chunks[1:] {
		if len(chunk) > overlap {
			b.WriteString(chunk[overlap:])
		}
	}
	return b.String()
}

func TestSplit_Reconstruction(t *testing.T) {
	texts := []string{
		"Our company supports flexible work arrangements including remote work. Employees may work from home up to 3 days per week with manager approval. Remote workers must maintain regular communication with their team.",
		"Full-time employees are eligible for comprehensive health insurance, including medical, dental, and vision coverage. The company covers 80% of premium costs for employees and 60% for dependents.",
		"One short sentence.",
	}

	for _, text := range texts {
		for _, overlap := range []int{0, 10, 25} {
			chunks := Split(text, 80, overlap)
			require.NotEmpty(t, chunks)
			assert.Equal(t, text, reconstruct(chunks, overlap),
				"overlap=%d text=%q", overlap, text)
		}
	}
}

func TestSplit_MaxSize(t *testing.T) {
	text := strings.Repeat("Performance reviews are conducted annually in January. ", 20)
	chunks := Split(text, 100, 20)
	require.NotEmpty(t, chunks)

	for i, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 100, "chunk %d exceeds target size", i)
	}
}

func TestSplit_SentenceBoundaryPreferred(t *testing.T) {
	// Terminator at position 11, window [0,20), midpoint 10: the chunk
	// must end right after the period, never mid-sentence.
	text := "Hello world. Goodbye cruel world entirely."
	chunks := Split(text, 20, 0)

	require.NotEmpty(t, chunks)
	assert.Equal(t, "Hello world.", chunks[0])
}

func TestSplit_WordBoundaryFallback(t *testing.T) {
	// No sentence terminator in the first window; the nearest space at or
	// after the midpoint wins over a mid-word cut.
	text := "alpha beta gamma delta epsilon"
	chunks := Split(text, 12, 0)

	require.NotEmpty(t, chunks)
	assert.Equal(t, "alpha beta", chunks[0])
}

func TestSplit_HardCutLastResort(t *testing.T) {
	text := strings.Repeat("x", 25)
	chunks := Split(text, 10, 0)

	require.Len(t, chunks, 3)
	assert.Equal(t, strings.Repeat("x", 10), chunks[0])
	assert.Equal(t, strings.Repeat("x", 10), chunks[1])
	assert.Equal(t, strings.Repeat("x", 5), chunks[2])
}

func TestSplit_ShortBoundaryRejected(t *testing.T) {
	// Terminator before the midpoint must not end the chunk: that would
	// produce a pathologically short piece.
	text := "Hi. aaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	chunks := Split(text, 20, 0)

	require.NotEmpty(t, chunks)
	assert.Greater(t, len(chunks[0]), 10)
}

func TestSplit_TinyDocument(t *testing.T) {
	// End-to-end example from the retrieval pipeline: must not crash and
	// must produce readable overlapping segments.
	chunks := Split("A. B? C!", 4, 1)

	require.NotEmpty(t, chunks)
	assert.Equal(t, "A. B? C!", reconstruct(chunks, 1))
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 4)
		assert.NotEmpty(t, strings.TrimSpace(chunk))
	}
}

func TestSplit_Empty(t *testing.T) {
	assert.Nil(t, Split("", 100, 10))
	assert.Nil(t, Split("text", 0, 0))
	assert.Empty(t, Split("   \n\t  ", 100, 10))
}

func TestSplit_Deterministic(t *testing.T) {
	text := "Employees receive performance ratings on a scale of 1-5. Salary adjustments are determined based on ratings."
	first := Split(text, 40, 8)
	second := Split(text, 40, 8)
	assert.Equal(t, first, second)
}

func TestExtractSection(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "markdown heading",
			content: "## Remote Work Policy\n\nEmployees may work from home.",
			want:    "Remote Work Policy",
		},
		{
			name:    "top-level heading",
			content: "# Company Policy Manual\n\nIntroduction text.",
			want:    "Company Policy Manual",
		},
		{
			name:    "policy vocabulary",
			content: "Vacation Policy: employees accrue 15 days per year.",
			want:    "Vacation Policy",
		},
		{
			name:    "package vocabulary",
			content: "Benefits Package: health, dental and vision.",
			want:    "Benefits Package",
		},
		{
			name:    "process vocabulary",
			content: "Review Process: conducted annually in January.",
			want:    "Review Process",
		},
		{
			name:    "no heading",
			content: "Just ordinary body text without any heading at all.",
			want:    "",
		},
		{
			name:    "first match wins",
			content: "## Benefits Package\nRetirement Policy: 401(k) with match.",
			want:    "Benefits Package",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSection(tt.content))
		})
	}
}
