package ingestion

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/libris/ai"
	"github.com/poiesic/libris/core"
	"github.com/poiesic/libris/semantic"
	"github.com/poiesic/libris/storage"
)

// DefaultBatchSize is the number of books embedded per request.
const DefaultBatchSize = 16

// Pipeline merges books into the catalog and embeds the new ones.
type Pipeline struct {
	merger        *Merger
	embeddingPool *ants.Pool
	embeddingProc processor
	batchSize     int
	pending       sync.WaitGroup
	logger        *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.embeddingPool != nil {
			p.embeddingPool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.embeddingPool = pool
		return nil
	}
}

// WithBatchSize sets how many books are embedded per request.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(catalog storage.CatalogRepository, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if catalog == nil {
		return nil, ErrCatalogRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		embeddingPool: pool,
		batchSize:     DefaultBatchSize,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	p.logger = p.logger.With("component", "ingestion")

	merger, err := NewMerger(catalog, p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}
	bookEmbedder, err := semantic.NewBookEmbedder(embedder, semantic.WithLogger(p.logger))
	if err != nil {
		p.Release()
		return nil, err
	}

	p.merger = merger
	p.embeddingProc = newEmbeddingProcessor(catalog, bookEmbedder, p.logger)
	return p, nil
}

// Ingest merges books into the catalog and schedules embedding of the newly
// inserted ones. It returns the number of books inserted. Embedding errors are
// logged and leave the affected books without an embedding.
func (p *Pipeline) Ingest(ctx context.Context, books []core.Book) (int, error) {
	inserted, err := p.merger.Merge(ctx, books)
	if err != nil {
		return len(inserted), err
	}

	for start := 0; start < len(inserted); start += p.batchSize {
		batch := inserted[start:min(start+p.batchSize, len(inserted))]
		p.pending.Add(1)
		err := p.embeddingPool.Submit(func() {
			defer p.pending.Done()
			if err := p.embeddingProc.process(context.WithoutCancel(ctx), batch); err != nil {
				p.logger.Error("error processing embeddings", "err", err)
			}
		})
		if err != nil {
			p.pending.Done()
			return len(inserted), err
		}
	}

	return len(inserted), nil
}

// Wait blocks until all scheduled embedding work has finished.
func (p *Pipeline) Wait() {
	p.pending.Wait()
}

// Release releases resources including worker pools.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.embeddingPool != nil {
		p.embeddingPool.Release()
	}
}
