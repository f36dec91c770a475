package browsing

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/net/html"
)

const (
	// maxSnippetLength caps extracted page text used as a snippet.
	maxSnippetLength = 500

	pageUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// skippedTags never contribute page text.
var skippedTags = map[string]bool{
	"script": true,
	"style":  true,
	"nav":    true,
	"header": true,
	"footer": true,
}

// contentClasses mark likely main-content containers.
var contentClasses = map[string]bool{
	"content":       true,
	"main-content":  true,
	"post-content":  true,
	"entry-content": true,
}

// Enhance replaces the snippets of the first maxEnhanced results with text
// extracted from the linked pages. Fetches run on the worker pool, each
// bounded by the agent's fetch timeout. A failed fetch keeps the original
// snippet; remaining results pass through untouched.
func (a *Agent) Enhance(ctx context.Context, results []Result, maxEnhanced int) []Result {
	enhanced := make([]Result, len(results))
	copy(enhanced, results)

	n := maxEnhanced
	if n > len(results) {
		n = len(results)
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		err := a.pool.Submit(func() {
			defer wg.Done()
			text, err := a.fetchPageText(ctx, enhanced[i].Link)
			if err != nil {
				a.logger.Warn("failed to enhance result", "link", enhanced[i].Link, "err", err)
				return
			}
			if text != "" {
				enhanced[i].Snippet = text
			}
		})
		if err != nil {
			a.logger.Warn("failed to submit enhance task", "link", enhanced[i].Link, "err", err)
			wg.Done()
		}
	}
	wg.Wait()

	return enhanced
}

// fetchPageText downloads a page and extracts its readable text.
func (a *Agent) fetchPageText(ctx context.Context, pageURL string) (string, error) {
	if pageURL == "" {
		return "", nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, a.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", pageUserAgent)

	resp, err := a.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	root, err := html.Parse(resp.Body)
	if err != nil {
		return "", err
	}

	return extractPageText(root), nil
}

// extractPageText pulls readable text from a parsed page, preferring a
// main-content container over the whole body, and truncates the result to
// maxSnippetLength characters.
func extractPageText(root *html.Node) string {
	region := findNode(root, isContentContainer)
	if region == nil {
		region = findNode(root, func(n *html.Node) bool {
			return n.Type == html.ElementNode && n.Data == "body"
		})
	}
	if region == nil {
		region = root
	}

	var b strings.Builder
	collectText(region, &b)

	text := strings.Join(strings.Fields(b.String()), " ")
	if len(text) > maxSnippetLength {
		text = text[:maxSnippetLength] + "..."
	}
	return text
}

func isContentContainer(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if n.Data == "main" || n.Data == "article" {
		return true
	}
	for _, attr := range n.Attr {
		switch attr.Key {
		case "id":
			if attr.Val == "content" {
				return true
			}
		case "class":
			for _, class := range strings.Fields(attr.Val) {
				if contentClasses[class] {
					return true
				}
			}
		}
	}
	return false
}

func hasAdClass(n *html.Node) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, class := range strings.Fields(attr.Val) {
			if class == "advertisement" || class == "ads" {
				return true
			}
		}
	}
	return false
}

func findNode(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findNode(child, match); found != nil {
			return found
		}
	}
	return nil
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode && (skippedTags[n.Data] || hasAdClass(n)) {
		return
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte(' ')
		return
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, b)
	}
}
