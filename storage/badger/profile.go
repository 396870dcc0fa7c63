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
	"bytes"
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/poiesic/libris/core"
	"github.com/poiesic/libris/storage"
)

// ProfileRepository implements storage.ProfileRepository for BadgerDB.
type ProfileRepository struct {
	backend *Backend
}

var _ storage.ProfileRepository = (*ProfileRepository)(nil)

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(backend *Backend) *ProfileRepository {
	return &ProfileRepository{
		backend: backend,
	}
}

// Close is a no-op; the shared backend is closed by its owner.
func (r *ProfileRepository) Close() error {
	return nil
}

// GetShelves returns the user's shelves, empty when none were stored.
func (r *ProfileRepository) GetShelves(ctx context.Context, userID string) (*core.Shelves, error) {
	shelves, err := getDocument[core.Shelves](r.backend, makeShelvesKey(userID))
	if err != nil {
		return nil, err
	}
	if shelves == nil {
		shelves = &core.Shelves{}
	}
	return shelves, nil
}

// PutShelves replaces the user's shelves.
func (r *ProfileRepository) PutShelves(ctx context.Context, userID string, shelves *core.Shelves) error {
	return putDocument(r.backend, makeShelvesKey(userID), shelves)
}

// GetPreferences returns the user's preferences, or nil when unset.
func (r *ProfileRepository) GetPreferences(ctx context.Context, userID string) (*core.Preferences, error) {
	return getDocument[core.Preferences](r.backend, makePreferencesKey(userID))
}

// PutPreferences validates and replaces the user's preferences.
func (r *ProfileRepository) PutPreferences(ctx context.Context, userID string, prefs *core.Preferences) error {
	if err := core.ValidatePreferences(prefs); err != nil {
		return err
	}
	return putDocument(r.backend, makePreferencesKey(userID), prefs)
}

// GetRatings returns the user's ratings ordered by book ID.
func (r *ProfileRepository) GetRatings(ctx context.Context, userID string) ([]core.Rating, error) {
	var results []core.Rating
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeRatingPrefix(userID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				rating, err := storage.Unmarshal[core.Rating](val)
				if err != nil {
					return err
				}
				results = append(results, *rating)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	return results, err
}

// SetRating creates or replaces the user's rating for a book.
func (r *ProfileRepository) SetRating(ctx context.Context, userID string, rating core.Rating) error {
	if err := core.ValidateRating(&rating); err != nil {
		return err
	}
	rating.UpdatedAt = time.Now().UTC()
	return putDocument(r.backend, makeRatingKey(userID, rating.BookID), &rating)
}

// AddFeedback appends a validated record to the user's feedback log.
func (r *ProfileRepository) AddFeedback(ctx context.Context, userID string, record *core.FeedbackRecord) error {
	if err := core.ValidateFeedback(record); err != nil {
		return err
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	return putDocument(r.backend, makeFeedbackKey(userID, record.CreatedAt, record.ID), record)
}

// GetRecentFeedback returns up to limit feedback records, newest first.
func (r *ProfileRepository) GetRecentFeedback(ctx context.Context, userID string, limit int) ([]core.FeedbackRecord, error) {
	var results []core.FeedbackRecord
	if limit <= 0 {
		return results, nil
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Use reverse iterator to get most recent records first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := makeFeedbackPrefix(userID)
		for iter.Seek(makeFeedbackSeekKey(userID)); iter.Valid() && len(results) < limit; iter.Next() {
			if !bytes.HasPrefix(iter.Item().Key(), prefix) {
				break
			}
			err := iter.Item().Value(func(val []byte) error {
				record, err := storage.Unmarshal[core.FeedbackRecord](val)
				if err != nil {
					return err
				}
				results = append(results, *record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	return results, err
}

func getDocument[T any](backend *Backend, key []byte) (*T, error) {
	var result *T
	err := backend.WithTx(func(tx *badger.Txn) error {
		data, err := getValue(tx, key)
		if err != nil || data == nil {
			return err
		}
		result, err = storage.Unmarshal[T](data)
		return err
	}, false)
	return result, err
}

func putDocument[T any](backend *Backend, key []byte, doc *T) error {
	value, err := storage.Marshal(doc)
	if err != nil {
		return err
	}
	return backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
