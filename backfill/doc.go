// Package backfill computes embeddings for catalog books that lack one.
//
// Books are read from the catalog in batches, embedded through the composite
// book text with exponential-backoff retry, normalized to unit length and
// written back. Progress is reported to a writer. With Force set every book
// is re-embedded, which is how a catalog moves to a new embedding model.
package backfill
