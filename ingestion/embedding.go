package ingestion

import (
	"context"
	"log/slog"

	"github.com/poiesic/libris/core"
	"github.com/poiesic/libris/semantic"
	"github.com/poiesic/libris/storage"
)

// embeddingProcessor generates and stores embeddings for books.
type embeddingProcessor struct {
	catalog  storage.CatalogRepository
	embedder *semantic.BookEmbedder
	logger   *slog.Logger
}

var _ processor = (*embeddingProcessor)(nil)

func newEmbeddingProcessor(catalog storage.CatalogRepository, embedder *semantic.BookEmbedder, logger *slog.Logger) *embeddingProcessor {
	return &embeddingProcessor{
		catalog:  catalog,
		embedder: embedder,
		logger:   logger.With("processor", "embeddings"),
	}
}

// process embeds books in one batch and stores each vector.
func (ep *embeddingProcessor) process(ctx context.Context, books []*core.Book) error {
	ep.logger.Info("processing books for embeddings", "books", len(books))

	vectors, err := ep.embedder.EmbedBooks(ctx, books)
	if err != nil {
		ep.logger.Error("error generating embeddings", "err", err)
		return err
	}

	for i, book := range books {
		if err := ep.catalog.UpdateEmbedding(ctx, book.ID, vectors[i]); err != nil {
			return err
		}
		book.Embedding = vectors[i]
	}
	return nil
}
