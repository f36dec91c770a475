package stock

import (
	"fmt"
	"strings"
)

// FormatQuoteMarkdown renders a quote as the markdown card shown in chat.
func FormatQuoteMarkdown(q *GlobalQuote) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📈 **%s Stock Information**\n\n", q.Symbol)
	fmt.Fprintf(&b, "**Current Price:** $%s\n", q.Price)
	fmt.Fprintf(&b, "**Change:** %s (%s)\n", q.Change, q.ChangePercent)
	fmt.Fprintf(&b, "**Previous Close:** $%s\n", q.PreviousClose)
	fmt.Fprintf(&b, "**Day Range:** $%s - $%s\n", q.Low, q.High)
	fmt.Fprintf(&b, "**Volume:** %s\n", groupDigits(q.Volume))
	fmt.Fprintf(&b, "**Latest Trading Day:** %s\n\n", q.LatestTradingDay)
	b.WriteString("💡 *This is real-time stock data from Alpha Vantage API*")
	return b.String()
}

// FormatQuoteLine renders a quote as a single summary line for API
// responses.
func FormatQuoteLine(q *GlobalQuote) string {
	return fmt.Sprintf("Symbol: %s, Price: $%s, Change: %s (%s)",
		q.Symbol, q.Price, q.Change, q.ChangePercent)
}

// RateLimitMessage is the chat response when the provider's daily request
// quota has been exhausted.
func RateLimitMessage(note string) string {
	return fmt.Sprintf(`📊 **API Rate Limit Reached**

The Alpha Vantage API has a rate limit of 25 requests per day for free accounts. It looks like we've reached this limit.

%s

Please try again later, or I can help you with general stock market information and investment strategies from our knowledge base in the meantime!`, note)
}

// RestrictedMessage is the chat response when the API key cannot access
// the requested data.
func RestrictedMessage(symbol, information string) string {
	return fmt.Sprintf(`📊 I found your request for %s stock information. However, the demo API key has limitations. %s

In the meantime, I can help you with general stock market information and investment strategies from our knowledge base.`, symbol, information)
}

// NoSymbolMessage is the chat response when a stock question names no
// recognizable ticker.
func NoSymbolMessage() string {
	return `📊 I detected you're asking about stock prices. Please specify a stock symbol (like AMD, AAPL, TSLA, IBM, etc.) and I can get you the current price information.

For example, you can ask:
- "What's the current price of AMD?"
- "AAPL stock quote"
- "How much is Tesla trading at?"

I can also help you with general stock market information and investment strategies!`
}

// groupDigits inserts thousands separators into a decimal integer string.
// Non-numeric input passes through unchanged.
func groupDigits(s string) string {
	if s == "" {
		return s
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return s
		}
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
