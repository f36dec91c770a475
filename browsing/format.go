package browsing

import (
	"fmt"
	"strings"
)

// FormatForLLM renders search results as a numbered context block suitable
// for inclusion in a completion prompt. An empty result set renders as an
// empty string.
func FormatForLLM(results []Result) string {
	if len(results) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("WEB SEARCH RESULTS:\n\n")
	for i, result := range results {
		fmt.Fprintf(&b, "%d. **%s** (%s)\n", i+1, result.Title, result.Source)
		fmt.Fprintf(&b, "   %s\n", result.Snippet)
		fmt.Fprintf(&b, "   Source: %s\n\n", result.Link)
	}
	return b.String()
}
