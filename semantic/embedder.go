package semantic

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/libris/ai"
	"github.com/poiesic/libris/core"
)

// BookEmbedder embeds catalog books through BookText.
type BookEmbedder struct {
	embedder ai.Embedder
	logger   *slog.Logger
}

// NewBookEmbedder creates a book embedder.
func NewBookEmbedder(embedder ai.Embedder, opts ...Option) (*BookEmbedder, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	return &BookEmbedder{
		embedder: embedder,
		logger:   cfg.logger.With("component", "book-embedder"),
	}, nil
}

// EmbedBook embeds a single book. It makes one call and does not retry.
func (b *BookEmbedder) EmbedBook(ctx context.Context, book *core.Book) ([]float32, error) {
	vec, err := b.embedder.EmbedText(ctx, BookText(book))
	if err != nil {
		return nil, fmt.Errorf("embedding book %s: %w", book.ID, err)
	}
	return vec, nil
}

// EmbedBooks embeds books in one batch call. Results are in input order.
func (b *BookEmbedder) EmbedBooks(ctx context.Context, books []*core.Book) ([][]float32, error) {
	if len(books) == 0 {
		return nil, nil
	}

	texts := make([]string, len(books))
	for i, book := range books {
		texts[i] = BookText(book)
	}

	b.logger.Debug("embedding books", "count", len(books))
	vecs, err := b.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding %d books: %w", len(books), err)
	}
	if len(vecs) != len(books) {
		return nil, fmt.Errorf("%w: got %d vectors for %d books", ai.ErrEmbedding, len(vecs), len(books))
	}
	return vecs, nil
}
