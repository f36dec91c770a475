package routing

import (
	"regexp"
	"strings"
)

// maxSnippetLength caps citation snippets for display.
const maxSnippetLength = 200

var sentenceSplitter = regexp.MustCompile(`[.!?]+`)

// Snippet selects the most relevant excerpt of content for a query, for
// display alongside a citation. Sentences are scored by how many distinct
// query words (lowercased, longer than 3 characters) they contain; with no
// scoring sentence, an information-dense line (bullets, colons, digits, the
// word "employee") is preferred over the leading sentence. Snippets longer
// than maxSnippetLength are truncated with an ellipsis.
func Snippet(query, content string) string {
	queryWords := significantWords(query)

	var sentences []string
	for _, s := range sentenceSplitter.Split(content, -1) {
		if len(strings.TrimSpace(s)) > 10 {
			sentences = append(sentences, s)
		}
	}

	best := leadingExcerpt(content)
	if len(sentences) > 0 {
		best = sentences[0]
	}

	maxMatches := 0
	for _, sentence := range sentences {
		lower := strings.ToLower(sentence)
		matches := 0
		for _, word := range queryWords {
			if strings.Contains(lower, word) {
				matches++
			}
		}
		if matches > maxMatches {
			maxMatches = matches
			best = sentence
		}
	}

	snippet := strings.TrimSpace(best)
	if maxMatches == 0 {
		if line := meaningfulLine(content); line != "" {
			snippet = line
		}
	}

	if len(snippet) > maxSnippetLength {
		snippet = snippet[:maxSnippetLength] + "..."
	}
	return snippet
}

func significantWords(query string) []string {
	var words []string
	for _, word := range strings.Fields(strings.ToLower(query)) {
		if len(word) > 3 {
			words = append(words, word)
		}
	}
	return words
}

func leadingExcerpt(content string) string {
	if len(content) > 150 {
		return content[:150]
	}
	return content
}

var digitPattern = regexp.MustCompile(`\d`)

// meaningfulLine returns the first line that looks like a fact: a bullet, a
// key-value pair, a number, or a mention of employees.
func meaningfulLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if len(strings.TrimSpace(line)) <= 10 {
			continue
		}
		if strings.Contains(line, "-") ||
			strings.Contains(line, "•") ||
			strings.Contains(line, ":") ||
			digitPattern.MatchString(line) ||
			strings.Contains(strings.ToLower(line), "employee") {
			return strings.TrimSpace(line)
		}
	}
	return ""
}
