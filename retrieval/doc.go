// Package retrieval wires the query-side pipeline together: query
// embedding, similarity search, and relevance routing behind a single
// Retrieve operation.
package retrieval
