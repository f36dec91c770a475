package ingestion

import "strings"

const (
	// DefaultTargetSize is the default chunk size in characters.
	DefaultTargetSize = 500
	// DefaultOverlap is the default overlap between consecutive chunks.
	DefaultOverlap = 50
)

const sentenceTerminators = ".?!"

// Split breaks text into overlapping, boundary-aware segments.
//
// targetSize and overlap are character counts; overlap must be smaller than
// targetSize. The scan is left to right: each window of targetSize
// characters is cut back to the nearest sentence terminator at or after the
// window midpoint, then to the nearest word boundary under the same
// constraint, and only as a last resort exactly at targetSize (mid-word).
// The midpoint constraint prevents pathologically short chunks. The next
// window starts overlap characters before the previous cut so consecutive
// chunks share context across the boundary. Chunks that trim to empty are
// discarded. No chunk exceeds targetSize characters.
//
// Split is a pure function: deterministic, no side effects.
func Split(text string, targetSize, overlap int) []string {
	if targetSize <= 0 || len(text) == 0 {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}

	var chunks []string
	start := 0

	for start < len(text) {
		end := start + targetSize

		if end >= len(text) {
			if tail := text[start:]; strings.TrimSpace(tail) != "" {
				chunks = append(chunks, tail)
			}
			break
		}

		midpoint := start + targetSize/2

		// Prefer ending on a complete sentence; fall back to a word
		// boundary, then to a hard cut mid-word.
		if boundary := strings.LastIndexAny(text[:end], sentenceTerminators); boundary >= midpoint {
			end = boundary + 1
		} else if boundary := strings.LastIndex(text[:end], " "); boundary >= midpoint && boundary > start {
			end = boundary
		}

		if chunk := text[start:end]; strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}

		next := end - overlap
		if next <= start {
			// Degenerate overlap/targetSize combinations must still advance.
			next = end
		}
		start = next
	}

	return chunks
}
