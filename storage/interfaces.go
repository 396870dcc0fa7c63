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


package storage

import (
	"context"

	"github.com/poiesic/libris/core"
)

// Repository provides operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// Close releases resources held by the repository. It does not close
	// a backend shared with other repositories.
	Close() error
}

// CatalogFilter narrows FindMany. The zero value matches every book.
type CatalogFilter struct {
	// Limit caps the number of books returned. Zero means no limit.
	Limit int

	// Genre keeps books with a genre equal to it, ignoring case.
	Genre string

	// MissingEmbedding keeps only books without a stored embedding.
	MissingEmbedding bool
}

// CatalogRepository stores catalog books. Books are immutable once
// inserted except for their embedding.
type CatalogRepository interface {
	Repository

	// FindMany returns books matching filter in id order, embeddings included.
	FindMany(ctx context.Context, filter CatalogFilter) ([]*core.Book, error)

	// FindOne retrieves a single book by ID.
	// Returns ErrNotFound if the book doesn't exist.
	FindOne(ctx context.Context, id string) (*core.Book, error)

	// Insert stores a new book and sets its timestamps.
	// Returns ErrDuplicateKey if a book with the same ID exists.
	Insert(ctx context.Context, book *core.Book) error

	// CountAll returns the number of books in the catalog.
	CountAll(ctx context.Context) (int, error)

	// UpdateEmbedding replaces the stored embedding for a book.
	// Returns ErrNotFound if the book doesn't exist.
	UpdateEmbedding(ctx context.Context, id string, vector []float32) error

	// ForEach calls fn with successive batches of at most batchSize books
	// in id order. Iteration stops at the first error fn returns.
	ForEach(ctx context.Context, batchSize int, fn func(batch []*core.Book) error) error
}

// ProfileRepository stores per-user reading state.
type ProfileRepository interface {
	Repository

	// GetShelves returns the user's shelves; empty shelves when unset.
	GetShelves(ctx context.Context, userID string) (*core.Shelves, error)

	// PutShelves replaces the user's shelves.
	PutShelves(ctx context.Context, userID string, shelves *core.Shelves) error

	// GetPreferences returns the user's preferences, or nil when unset.
	GetPreferences(ctx context.Context, userID string) (*core.Preferences, error)

	// PutPreferences replaces the user's preferences.
	PutPreferences(ctx context.Context, userID string, prefs *core.Preferences) error

	// GetRatings returns every rating the user has given, ordered by book ID.
	GetRatings(ctx context.Context, userID string) ([]core.Rating, error)

	// SetRating creates or replaces the user's rating for rating.BookID.
	SetRating(ctx context.Context, userID string, rating core.Rating) error

	// AddFeedback appends a record to the user's feedback log, assigning
	// its ID and CreatedAt when unset.
	AddFeedback(ctx context.Context, userID string, record *core.FeedbackRecord) error

	// GetRecentFeedback returns up to limit records, newest first.
	GetRecentFeedback(ctx context.Context, userID string, limit int) ([]core.FeedbackRecord, error)
}
