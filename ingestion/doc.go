// Package ingestion loads books into the catalog.
//
// The Merger inserts books idempotently, skipping entries that are already
// cataloged. The Pipeline merges books and embeds the newly inserted ones
// asynchronously on a worker pool. Errors during async processing are logged
// but do not fail the ingestion operation.
package ingestion
