// Package browsing provides web search augmentation for marginal-relevance
// queries.
//
// Agent talks to SerpAPI, memoizes responses per (query, maxResults) pair
// for a fixed TTL, and can enhance top hits by fetching the linked pages
// and extracting their readable text. The Searcher interface decouples
// consumers from the concrete provider.
package browsing
