// Package routing implements relevance routing: each query's best
// similarity score places it in one of three confidence tiers, which decide
// whether the answer context comes from the document alone, the document
// plus web search results, or a refusal message.
package routing
