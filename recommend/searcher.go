package recommend

import (
	"context"

	"github.com/poiesic/libris/core"
)

// BookSearcher finds books outside the catalog. It is consulted when the
// catalog is too small to recommend from.
type BookSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]core.Book, error)
}
