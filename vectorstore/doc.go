// Package vectorstore holds chunk and embedding pairs in memory and answers
// top-K nearest-neighbor queries by brute-force cosine similarity.
//
// Approximate or indexed nearest-neighbor search is intentionally absent:
// the document collections served here are small enough that a linear scan
// is both simpler and fast enough. Nothing is persisted; re-ingestion after
// a restart rebuilds the index.
package vectorstore
