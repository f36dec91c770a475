package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateChunk(t *testing.T) {
	valid := NewChunk("Employees may work from home.", "policy-manual", "Remote Work Policy", 1)

	t.Run("valid chunk", func(t *testing.T) {
		require.NoError(t, ValidateChunk(&valid))
	})

	t.Run("nil chunk", func(t *testing.T) {
		err := ValidateChunk(nil)
		assert.ErrorIs(t, err, ErrInvalidChunk)
	})

	t.Run("empty content", func(t *testing.T) {
		chunk := valid
		chunk.Content = "   \n\t"
		err := ValidateChunk(&chunk)
		assert.ErrorIs(t, err, ErrInvalidChunk)
		assert.ErrorIs(t, err, ErrEmptyContent)
	})

	t.Run("empty source label", func(t *testing.T) {
		chunk := valid
		chunk.SourceLabel = ""
		err := ValidateChunk(&chunk)
		assert.ErrorIs(t, err, ErrEmptySourceLabel)
	})

	t.Run("zero sequence index", func(t *testing.T) {
		chunk := valid
		chunk.SequenceIndex = 0
		err := ValidateChunk(&chunk)
		assert.ErrorIs(t, err, ErrInvalidSequenceIndex)
	})

	t.Run("negative sequence index", func(t *testing.T) {
		chunk := valid
		chunk.SequenceIndex = -4
		err := ValidateChunk(&chunk)
		assert.True(t, errors.Is(err, ErrInvalidSequenceIndex))
	})
}
