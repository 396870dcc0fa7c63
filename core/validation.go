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


package core

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateQuery validates a free-text recommendation query.
func ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyQuery)
	}
	return nil
}

// ValidateBook validates a Book according to catalog rules.
//
// Validation rules:
//   - ID, Title and Author must not be empty
//
// NOT validated (populated lazily):
//   - Embedding (backfilled on the first recommendation pass)
//   - CoverURL, Genres, Description (quality is scored, not enforced)
func ValidateBook(book *Book) error {
	if book == nil {
		return fmt.Errorf("%w: %w: book is nil", ErrValidation, ErrInvalidBook)
	}
	switch {
	case strings.TrimSpace(book.ID) == "":
		return fmt.Errorf("%w: %w: id is required", ErrValidation, ErrInvalidBook)
	case strings.TrimSpace(book.Title) == "":
		return fmt.Errorf("%w: %w: title is required", ErrValidation, ErrInvalidBook)
	case strings.TrimSpace(book.Author) == "":
		return fmt.Errorf("%w: %w: author is required", ErrValidation, ErrInvalidBook)
	}
	return nil
}

// ValidateRating validates that a rating references a book and is within 1..5.
func ValidateRating(rating *Rating) error {
	if rating == nil {
		return fmt.Errorf("%w: %w: rating is nil", ErrValidation, ErrInvalidRating)
	}
	if err := validate.Struct(rating); err != nil {
		return fmt.Errorf("%w: %w: %w", ErrValidation, ErrInvalidRating, err)
	}
	return nil
}

// ValidatePreferences validates the preferred length enum and reading goal.
func ValidatePreferences(prefs *Preferences) error {
	if prefs == nil {
		return fmt.Errorf("%w: %w: preferences are nil", ErrValidation, ErrInvalidPreferences)
	}
	if err := validate.Struct(prefs); err != nil {
		return fmt.Errorf("%w: %w: %w", ErrValidation, ErrInvalidPreferences, err)
	}
	return nil
}

// ValidateFeedback validates a recommendation feedback record.
//
// Validation rules:
//   - Query must not be empty
//   - Sentiment must be liked or disliked
//   - RecommendedBooks must list at least one book
func ValidateFeedback(record *FeedbackRecord) error {
	if record == nil {
		return fmt.Errorf("%w: %w: record is nil", ErrValidation, ErrInvalidFeedback)
	}
	if err := validate.Struct(record); err != nil {
		return fmt.Errorf("%w: %w: %w", ErrValidation, ErrInvalidFeedback, err)
	}
	return nil
}

// ParseShelf converts a shelf name into a Shelf.
func ParseShelf(name string) (Shelf, error) {
	switch Shelf(name) {
	case ShelfRead, ShelfToRead, ShelfReading, ShelfFavorites:
		return Shelf(name), nil
	}
	return "", fmt.Errorf("%w: %w: %q", ErrValidation, ErrInvalidShelf, name)
}
