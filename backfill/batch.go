package backfill

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/libris/core"
	"github.com/poiesic/libris/semantic"
	"github.com/poiesic/libris/storage"
)

// BatchProcessor embeds batches of books and stores the vectors.
type BatchProcessor struct {
	catalog        storage.CatalogRepository
	embedder       *semantic.BookEmbedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of attempts for each embedding call
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(catalog storage.CatalogRepository, embedder *semantic.BookEmbedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		catalog:        catalog,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process embeds books and writes normalized vectors back to the catalog.
func (bp *BatchProcessor) Process(ctx context.Context, books []*core.Book) error {
	if len(books) == 0 {
		return nil
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		vectors, err = bp.embedder.EmbedBooks(ctx, books)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("failed to embed books after %d attempts: %w", bp.maxRetries, err)
	}

	for i, book := range books {
		vec := NormalizeVector(vectors[i])
		if err := bp.catalog.UpdateEmbedding(ctx, book.ID, vec); err != nil {
			return fmt.Errorf("failed to store embedding for %s: %w", book.ID, err)
		}
		book.Embedding = vec
	}
	return nil
}
