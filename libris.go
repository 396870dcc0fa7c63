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


package libris

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/libris/ai"
	"github.com/poiesic/libris/ai/openai"
	"github.com/poiesic/libris/api"
	"github.com/poiesic/libris/backfill"
	"github.com/poiesic/libris/core"
	"github.com/poiesic/libris/ingestion"
	"github.com/poiesic/libris/recommend"
	"github.com/poiesic/libris/storage"
	"github.com/poiesic/libris/storage/badger"
)

// Library ties the catalog and profile stores to an AI provider.
type Library struct {
	backend  *badger.Backend
	catalog  *badger.CatalogRepository
	profiles *badger.ProfileRepository
	provider ai.AIProvider
	logger   *slog.Logger
}

// LibraryOption configures a Library.
type LibraryOption func(*libraryOptions)

type libraryOptions struct {
	aiConfig *ai.Config
	provider ai.AIProvider
	inMemory bool
	logger   *slog.Logger
}

// WithAIConfig sets the configuration for the OpenAI-compatible provider.
func WithAIConfig(config *ai.Config) LibraryOption {
	return func(o *libraryOptions) {
		o.aiConfig = config
	}
}

// WithAIProvider uses provider instead of building one from the AI config.
func WithAIProvider(provider ai.AIProvider) LibraryOption {
	return func(o *libraryOptions) {
		o.provider = provider
	}
}

// WithInMemory keeps all data in memory; the path is ignored.
func WithInMemory() LibraryOption {
	return func(o *libraryOptions) {
		o.inMemory = true
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) LibraryOption {
	return func(o *libraryOptions) {
		o.logger = logger
	}
}

// OpenLibrary opens (or creates) the library stored at filePath.
func OpenLibrary(filePath string, opts ...LibraryOption) (*Library, error) {
	options := &libraryOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	return &Library{
		backend:  backend,
		catalog:  badger.NewCatalogRepository(backend),
		profiles: badger.NewProfileRepository(backend),
		provider: provider,
		logger:   options.logger,
	}, nil
}

// Close releases the provider and the store.
func (l *Library) Close() error {
	if err := l.provider.Close(); err != nil {
		l.logger.Error("error closing AI provider", "err", err)
	}
	if err := l.profiles.Close(); err != nil {
		l.logger.Error("error closing profile repository", "err", err)
		return err
	}
	if err := l.catalog.Close(); err != nil {
		l.logger.Error("error closing catalog repository", "err", err)
		return err
	}
	if err := l.backend.Close(); err != nil {
		l.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (l *Library) Catalog() storage.CatalogRepository {
	return l.catalog
}

func (l *Library) Profiles() storage.ProfileRepository {
	return l.profiles
}

func (l *Library) Provider() ai.AIProvider {
	return l.provider
}

func (l *Library) NewRecommender(opts ...recommend.Option) (*recommend.Recommender, error) {
	opts = append([]recommend.Option{recommend.WithLogger(l.logger)}, opts...)
	return recommend.NewRecommender(l.catalog, l.profiles, l.provider, opts...)
}

func (l *Library) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	opts = append([]ingestion.Option{ingestion.WithLogger(l.logger)}, opts...)
	return ingestion.NewPipeline(l.catalog, l.provider.Embedder(), opts...)
}

func (l *Library) NewBackfiller(config *backfill.Config, progress io.Writer) (*backfill.Backfiller, error) {
	return backfill.NewBackfiller(l.catalog, l.provider.Embedder(), config, progress)
}

func (l *Library) NewAPIServer(recommender api.Recommender) *api.Server {
	return api.NewServer(recommender, l.profiles, l.logger)
}

// ShelveBook places a cataloged book on one of the user's shelves.
func (l *Library) ShelveBook(ctx context.Context, userID, bookID string, shelf core.Shelf) error {
	if _, err := l.catalog.FindOne(ctx, bookID); err != nil {
		return fmt.Errorf("shelving %s: %w", bookID, err)
	}
	shelves, err := l.profiles.GetShelves(ctx, userID)
	if err != nil {
		return err
	}
	shelves.Place(bookID, shelf)
	return l.profiles.PutShelves(ctx, userID, shelves)
}

// UnshelveBook takes a book off the read, to-read and reading shelves.
func (l *Library) UnshelveBook(ctx context.Context, userID, bookID string) error {
	shelves, err := l.profiles.GetShelves(ctx, userID)
	if err != nil {
		return err
	}
	shelves.Remove(bookID)
	return l.profiles.PutShelves(ctx, userID, shelves)
}

// RateBook records a 1-5 star rating for a cataloged book.
func (l *Library) RateBook(ctx context.Context, userID, bookID string, stars int) error {
	if _, err := l.catalog.FindOne(ctx, bookID); err != nil {
		return fmt.Errorf("rating %s: %w", bookID, err)
	}
	return l.profiles.SetRating(ctx, userID, core.Rating{BookID: bookID, Value: stars})
}

// SetPreferences replaces the user's declared reading preferences.
func (l *Library) SetPreferences(ctx context.Context, userID string, prefs *core.Preferences) error {
	return l.profiles.PutPreferences(ctx, userID, prefs)
}

// RecordFeedback appends a feedback record to the user's log.
func (l *Library) RecordFeedback(ctx context.Context, userID string, record *core.FeedbackRecord) error {
	return l.profiles.AddFeedback(ctx, userID, record)
}
