// Copyright 2025 Docuforge
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strings"
)

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Content must not be empty after trimming
//   - SourceLabel must not be empty
//   - SequenceIndex must be positive (1-based)
//
// NOT validated:
//   - Section (optional, empty means no heading was detected)
//   - ID (deterministic, derived at construction)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if strings.TrimSpace(chunk.Content) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyContent)
	}

	if chunk.SourceLabel == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptySourceLabel)
	}

	if chunk.SequenceIndex < 1 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrInvalidSequenceIndex)
	}

	return nil
}
