package ingestion

import (
	"regexp"
	"strings"
)

// Heading conventions checked in order; the first match wins.
var sectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^##\s+(.+)$`),
	regexp.MustCompile(`(?m)^([A-Z][A-Za-z\s]+Policy):`),
	regexp.MustCompile(`(?m)^([A-Z][A-Za-z\s]+Package):`),
	regexp.MustCompile(`(?m)^([A-Z][A-Za-z\s]+Process):`),
	regexp.MustCompile(`(?m)^##\s*(.+)$`),
	regexp.MustCompile(`(?m)^#\s*(.+)$`),
}

// ExtractSection derives a human-readable section label from a chunk's
// content by matching its lines against heading conventions: markdown
// headings, or a capitalized phrase ending in a fixed vocabulary such as
// "Policy:", "Package:" or "Process:". Returns the empty string when no
// convention matches; callers fall back to a synthesized chunk label.
func ExtractSection(content string) string {
	for _, pattern := range sectionPatterns {
		if match := pattern.FindStringSubmatch(content); match != nil {
			return strings.TrimSpace(match[1])
		}
	}
	return ""
}
