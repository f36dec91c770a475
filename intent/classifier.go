package intent

import (
	"regexp"
	"strings"
)

// Kind is a coarse query category decided before retrieval runs.
type Kind int

const (
	// KindGeneral is the default: answer from the document pipeline.
	KindGeneral Kind = iota
	// KindStock short-circuits retrieval and answers from market data.
	KindStock
	// KindFollowUp marks a query that leans on conversation history.
	KindFollowUp
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindStock:
		return "stock"
	case KindFollowUp:
		return "follow-up"
	default:
		return "general"
	}
}

// Classification is the outcome of classifying one query.
type Classification struct {
	Kind Kind
	// Symbol is the uppercased ticker for stock queries, empty when the
	// query asks about stocks without naming one.
	Symbol string
}

// Classifier decides how a query should be handled before retrieval.
type Classifier interface {
	Classify(message string, historyLen int) Classification
}

// symbolPattern captures an uppercase ticker adjacent to price vocabulary,
// in either order ("price of AMD" or "AMD stock").
var symbolPattern = regexp.MustCompile(`(?i:price|quote|cost|value|trading|current|stock)\s+(?i:of\s+)?([A-Z]{2,5})\b|\b([A-Z]{2,5})\s+(?i:price|quote|stock|shares?)`)

// commonSymbols are scanned as a fallback when the pattern finds nothing.
var commonSymbols = []string{"AMD", "AAPL", "TSLA", "IBM", "NVDA", "MSFT", "GOOGL", "META", "AMZN"}

// pricedSymbols trigger stock detection when they appear next to the word
// "price" without the more explicit cues.
var pricedSymbols = []string{"amd", "aapl", "tsla", "ibm", "nvda", "msft"}

var followUpCues = []string{"tell me more", "what about", "that", "it", "this"}

// Heuristic is a keyword classifier. It has no state and the zero value is
// ready to use.
type Heuristic struct{}

// NewHeuristic creates the default keyword-based classifier.
func NewHeuristic() Classifier {
	return Heuristic{}
}

// Classify categorizes a message. Stock detection wins over follow-up
// detection: a stock question inside a conversation is still a stock
// question.
func (Heuristic) Classify(message string, historyLen int) Classification {
	if IsStockQuery(message) {
		return Classification{Kind: KindStock, Symbol: ExtractSymbol(message)}
	}
	if IsFollowUp(message, historyLen) {
		return Classification{Kind: KindFollowUp}
	}
	return Classification{Kind: KindGeneral}
}

// IsStockQuery reports whether a message asks for stock price information.
func IsStockQuery(message string) bool {
	lower := strings.ToLower(message)

	if strings.Contains(lower, "stock price") ||
		strings.Contains(lower, "current price") ||
		strings.Contains(lower, "quote") ||
		strings.Contains(lower, "trading at") {
		return true
	}

	if !strings.Contains(lower, "price") {
		return false
	}
	for _, symbol := range pricedSymbols {
		if strings.Contains(lower, symbol) {
			return true
		}
	}
	return false
}

// ExtractSymbol pulls an uppercased ticker out of a message, preferring one
// adjacent to price vocabulary, then scanning for well-known symbols.
// Returns "" when no candidate is found.
func ExtractSymbol(message string) string {
	if groups := symbolPattern.FindStringSubmatch(message); groups != nil {
		symbol := groups[1]
		if symbol == "" {
			symbol = groups[2]
		}
		return strings.ToUpper(symbol)
	}

	upper := strings.ToUpper(message)
	for _, symbol := range commonSymbols {
		if strings.Contains(upper, symbol) {
			return symbol
		}
	}
	return ""
}

// IsFollowUp reports whether a message in an ongoing conversation refers
// back to earlier turns.
func IsFollowUp(message string, historyLen int) bool {
	if historyLen == 0 {
		return false
	}
	lower := strings.ToLower(message)
	for _, cue := range followUpCues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return false
}
