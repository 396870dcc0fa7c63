package backfill

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/libris/ai"
	"github.com/poiesic/libris/core"
	"github.com/poiesic/libris/semantic"
	"github.com/poiesic/libris/storage"
)

// Config holds configuration for a backfill run.
type Config struct {
	// BatchSize is the number of books embedded per request
	BatchSize int

	// ReportInterval is how often to report progress (number of books)
	ReportInterval int

	// MaxRetries is the maximum number of attempts for each embedding request
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// Force re-embeds books that already have an embedding
	Force bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      DefaultBatchSize,
		ReportInterval: DefaultBatchSize,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Backfiller embeds every catalog book that needs an embedding.
type Backfiller struct {
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *BookIterator
	logger    *slog.Logger
}

// NewBackfiller creates a new backfiller.
// progress: where to write progress output (typically os.Stderr)
func NewBackfiller(catalog storage.CatalogRepository, embedder ai.Embedder, config *Config, progress io.Writer) (*Backfiller, error) {
	if catalog == nil {
		return nil, ErrCatalogRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	logger := slog.Default().With("component", "backfill")
	bookEmbedder, err := semantic.NewBookEmbedder(embedder, semantic.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	return &Backfiller{
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(catalog, bookEmbedder, config.MaxRetries, config.RetryDelay),
		iterator:  NewBookIterator(catalog, config.BatchSize, config.Force),
		logger:    logger,
	}, nil
}

// Run embeds all pending books and returns how many were embedded.
func (b *Backfiller) Run(ctx context.Context) (int, error) {
	total, err := b.iterator.Pending(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}
	if total == 0 {
		fmt.Fprintf(b.progress, "No books need embedding\n")
		return 0, nil
	}

	fmt.Fprintf(b.progress, "Embedding %d books (batch size: %d)\n", total, b.config.BatchSize)

	tracker := NewProgressTracker(b.progress, total, b.config.ReportInterval)
	tracker.Start()

	err = b.iterator.ForEach(ctx, func(books []*core.Book) error {
		if err := b.processor.Process(ctx, books); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}
		tracker.Increment(len(books))
		return nil
	})
	if err != nil {
		b.logger.Error("backfill stopped", "embedded", tracker.Current(), "err", err)
		return tracker.Current(), err
	}

	tracker.Finish()
	elapsed := tracker.Elapsed()
	fmt.Fprintf(b.progress, "Backfill complete. Embedded %d books in %v\n", tracker.Current(), elapsed.Round(time.Millisecond))
	return tracker.Current(), nil
}
