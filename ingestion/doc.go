// Package ingestion turns raw document text into embedded, indexable
// chunks.
//
// Split implements boundary-aware chunking: fixed-size windows cut back to
// sentence or word boundaries with a trailing overlap for context
// continuity. Processor pairs the chunker with an embedding capability and
// a worker pool. Loader wraps one-time startup ingestion in an explicit
// lifecycle state machine so concurrent first requests share a single
// initialization.
package ingestion
