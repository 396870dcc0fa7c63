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


package backfill

import (
	"context"

	"github.com/poiesic/libris/core"
	"github.com/poiesic/libris/storage"
)

const (
	// DefaultBatchSize is the default number of books embedded per request.
	DefaultBatchSize = 32
)

// BookIterator walks the catalog in batches, yielding the books that need an
// embedding.
type BookIterator struct {
	catalog   storage.CatalogRepository
	batchSize int
	force     bool
}

// NewBookIterator creates a new book iterator. With force set every book is
// yielded, otherwise only books without an embedding.
func NewBookIterator(catalog storage.CatalogRepository, batchSize int, force bool) *BookIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &BookIterator{
		catalog:   catalog,
		batchSize: batchSize,
		force:     force,
	}
}

// ForEach calls fn for each non-empty batch of pending books.
// Iteration stops on first error from fn or when the catalog is exhausted.
func (it *BookIterator) ForEach(ctx context.Context, fn func([]*core.Book) error) error {
	return it.catalog.ForEach(ctx, it.batchSize, func(batch []*core.Book) error {
		pending := batch
		if !it.force {
			pending = make([]*core.Book, 0, len(batch))
			for _, book := range batch {
				if !book.HasEmbedding() {
					pending = append(pending, book)
				}
			}
		}
		if len(pending) == 0 {
			return nil
		}
		return fn(pending)
	})
}

// Pending counts the books ForEach would yield.
func (it *BookIterator) Pending(ctx context.Context) (int, error) {
	if it.force {
		return it.catalog.CountAll(ctx)
	}
	missing, err := it.catalog.FindMany(ctx, storage.CatalogFilter{MissingEmbedding: true})
	if err != nil {
		return 0, err
	}
	return len(missing), nil
}
