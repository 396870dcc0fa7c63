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


package badger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/libris/core"
	"github.com/poiesic/libris/storage"
)

// CatalogRepository implements storage.CatalogRepository for BadgerDB.
type CatalogRepository struct {
	backend *Backend
}

var _ storage.CatalogRepository = (*CatalogRepository)(nil)

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(backend *Backend) *CatalogRepository {
	return &CatalogRepository{
		backend: backend,
	}
}

// Close is a no-op; the shared backend is closed by its owner.
func (r *CatalogRepository) Close() error {
	return nil
}

// Insert stores a new book.
func (r *CatalogRepository) Insert(ctx context.Context, book *core.Book) error {
	if err := core.ValidateBook(book); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeBookKey(book.ID)
		found, err := exists(tx, key)
		if err != nil {
			return err
		}
		if found {
			return fmt.Errorf("%w: book %s", storage.ErrDuplicateKey, book.ID)
		}

		now := time.Now().UTC()
		if book.InsertedAt.IsZero() {
			book.InsertedAt = now
		}
		book.UpdatedAt = now

		value, err := storage.MarshalBook(book)
		if err != nil {
			return err
		}
		if err := tx.Set(key, value); err != nil {
			return err
		}
		if book.HasEmbedding() {
			if err := tx.Set(makeBookVectorKey(book.ID), storage.MarshalVector(book.Embedding)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// FindOne retrieves a single book by ID.
func (r *CatalogRepository) FindOne(ctx context.Context, id string) (*core.Book, error) {
	var result *core.Book
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readBook(tx, id)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// FindMany returns books matching filter.
func (r *CatalogRepository) FindMany(ctx context.Context, filter storage.CatalogFilter) ([]*core.Book, error) {
	var results []*core.Book
	err := r.scan(ctx, func(book *core.Book) (bool, error) {
		if !matches(book, filter) {
			return true, nil
		}
		results = append(results, book)
		return filter.Limit <= 0 || len(results) < filter.Limit, nil
	})
	return results, err
}

// CountAll returns the number of books in the catalog.
func (r *CatalogRepository) CountAll(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(bookPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			count++
		}
		return nil
	}, false)
	return count, err
}

// UpdateEmbedding replaces the stored embedding for a book.
func (r *CatalogRepository) UpdateEmbedding(ctx context.Context, id string, vector []float32) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		found, err := exists(tx, makeBookKey(id))
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: book %s", storage.ErrNotFound, id)
		}
		if err := tx.Set(makeBookVectorKey(id), storage.MarshalVector(vector)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// ForEach calls fn with batches of books in id order.
func (r *CatalogRepository) ForEach(ctx context.Context, batchSize int, fn func(batch []*core.Book) error) error {
	if batchSize <= 0 {
		batchSize = 1
	}

	// Batches are collected inside a read transaction and handed to fn
	// outside it, so fn may write to the catalog.
	var after string
	for {
		batch := make([]*core.Book, 0, batchSize)
		err := r.backend.WithTx(func(tx *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(bookPrefix + ":")
			iter := tx.NewIterator(opts)
			defer iter.Close()

			start := opts.Prefix
			if after != "" {
				start = append(makeBookKey(after), 0)
			}
			for iter.Seek(start); iter.Valid() && len(batch) < batchSize; iter.Next() {
				book, err := readBookItem(tx, iter.Item())
				if err != nil {
					return err
				}
				batch = append(batch, book)
			}
			return nil
		}, false)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(batch); err != nil {
			return err
		}
		if len(batch) < batchSize {
			return nil
		}
		after = batch[len(batch)-1].ID
	}
}

// scan visits every book in id order until visit returns false.
func (r *CatalogRepository) scan(ctx context.Context, visit func(book *core.Book) (bool, error)) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(bookPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			book, err := readBookItem(tx, iter.Item())
			if err != nil {
				return err
			}
			more, err := visit(book)
			if err != nil {
				return err
			}
			if !more {
				return nil
			}
		}
		return nil
	}, false)
}

func matches(book *core.Book, filter storage.CatalogFilter) bool {
	if filter.MissingEmbedding && book.HasEmbedding() {
		return false
	}
	if filter.Genre != "" {
		found := false
		for _, g := range book.Genres {
			if strings.EqualFold(g, filter.Genre) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// readBook reads a book and its embedding. Returns nil if the book doesn't exist.
func readBook(tx *badger.Txn, id string) (*core.Book, error) {
	data, err := getValue(tx, makeBookKey(id))
	if err != nil || data == nil {
		return nil, err
	}
	book, err := storage.UnmarshalBook(data)
	if err != nil {
		return nil, err
	}
	return book, attachVector(tx, book)
}

func readBookItem(tx *badger.Txn, item *badger.Item) (*core.Book, error) {
	var book *core.Book
	err := item.Value(func(val []byte) error {
		var err error
		book, err = storage.UnmarshalBook(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	if book.ID == "" {
		book.ID = bookIDFromKey(item.KeyCopy(nil))
	}
	return book, attachVector(tx, book)
}

func attachVector(tx *badger.Txn, book *core.Book) error {
	data, err := getValue(tx, makeBookVectorKey(book.ID))
	if err != nil || data == nil {
		return err
	}
	book.Embedding, err = storage.UnmarshalVector(data)
	return err
}
