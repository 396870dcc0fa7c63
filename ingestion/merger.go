// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingestion

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/libris/core"
	"github.com/poiesic/libris/storage"
)

// Merger inserts books into the catalog, skipping ones already present.
type Merger struct {
	catalog storage.CatalogRepository
	logger  *slog.Logger
}

// NewMerger creates a merger. A nil logger uses slog.Default().
func NewMerger(catalog storage.CatalogRepository, logger *slog.Logger) (*Merger, error) {
	if catalog == nil {
		return nil, ErrCatalogRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{
		catalog: catalog,
		logger:  logger.With("component", "merger"),
	}, nil
}

// Merge inserts books and returns the ones that were newly cataloged, in input
// order. Books already in the catalog and books failing validation are logged
// and skipped. Merging the same books twice inserts nothing the second time.
func (m *Merger) Merge(ctx context.Context, books []core.Book) ([]*core.Book, error) {
	inserted := make([]*core.Book, 0, len(books))
	for i := range books {
		if err := ctx.Err(); err != nil {
			return inserted, err
		}

		book := books[i]
		err := m.catalog.Insert(ctx, &book)
		switch {
		case err == nil:
			inserted = append(inserted, &book)
		case errors.Is(err, storage.ErrDuplicateKey):
			m.logger.Debug("book already cataloged", "id", book.ID)
		case errors.Is(err, core.ErrValidation):
			m.logger.Warn("skipping invalid book", "id", book.ID, "title", book.Title, "err", err)
		default:
			return inserted, err
		}
	}

	m.logger.Info("merged books", "offered", len(books), "inserted", len(inserted))
	return inserted, nil
}
