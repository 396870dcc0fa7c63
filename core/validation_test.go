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
	"errors"
	"testing"
)

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
	}{
		{"valid query", "something cozy for a rainy day", false},
		{"empty query", "", true},
		{"whitespace query", "   \t\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuery(tt.query)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateQuery() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrValidation) || !errors.Is(err, ErrEmptyQuery) {
					t.Errorf("ValidateQuery() error = %v, want ErrValidation and ErrEmptyQuery", err)
				}
			}
		})
	}
}

func TestValidateBook(t *testing.T) {
	tests := []struct {
		name    string
		book    *Book
		wantErr error
	}{
		{
			name:    "valid book",
			book:    &Book{ID: "b1", Title: "Title", Author: "Author"},
			wantErr: nil,
		},
		{
			name:    "valid book without embedding or cover",
			book:    &Book{ID: "b1", Title: "Title", Author: "Author", Embedding: nil},
			wantErr: nil,
		},
		{
			name:    "nil book",
			book:    nil,
			wantErr: ErrInvalidBook,
		},
		{
			name:    "empty id",
			book:    &Book{Title: "Title", Author: "Author"},
			wantErr: ErrInvalidBook,
		},
		{
			name:    "empty title",
			book:    &Book{ID: "b1", Author: "Author"},
			wantErr: ErrInvalidBook,
		},
		{
			name:    "empty author",
			book:    &Book{ID: "b1", Title: "Title"},
			wantErr: ErrInvalidBook,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBook(tt.book)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateBook() error = %v, want nil", err)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateBook() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("ValidateBook() error = %v, want it to wrap ErrValidation", err)
			}
		})
	}
}

func TestValidateRating(t *testing.T) {
	tests := []struct {
		name    string
		rating  *Rating
		wantErr bool
	}{
		{"valid low", &Rating{BookID: "b1", Value: 1}, false},
		{"valid high", &Rating{BookID: "b1", Value: 5}, false},
		{"zero stars", &Rating{BookID: "b1", Value: 0}, true},
		{"six stars", &Rating{BookID: "b1", Value: 6}, true},
		{"missing book", &Rating{Value: 3}, true},
		{"nil rating", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRating(tt.rating)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateRating() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidRating) {
				t.Errorf("ValidateRating() error = %v, want ErrInvalidRating", err)
			}
		})
	}
}

func TestValidatePreferences(t *testing.T) {
	tests := []struct {
		name    string
		prefs   *Preferences
		wantErr bool
	}{
		{"empty preferences", &Preferences{}, false},
		{"full preferences", &Preferences{
			FavoriteGenres:  []string{"Fantasy"},
			PreferredLength: LengthMedium,
			ContentWarnings: []string{"violence"},
			Language:        "en",
			ReadingGoal:     24,
		}, false},
		{"unknown length", &Preferences{PreferredLength: "epic"}, true},
		{"negative goal", &Preferences{ReadingGoal: -1}, true},
		{"nil preferences", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePreferences(tt.prefs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidatePreferences() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidPreferences) {
				t.Errorf("ValidatePreferences() error = %v, want ErrInvalidPreferences", err)
			}
		})
	}
}

func TestValidateFeedback(t *testing.T) {
	valid := func() *FeedbackRecord {
		return &FeedbackRecord{
			Query:            "cozy mysteries",
			Sentiment:        SentimentDisliked,
			Reasons:          []string{"too dark"},
			RecommendedBooks: []string{"b1", "b2"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(r *FeedbackRecord)
		wantErr bool
	}{
		{"valid record", func(r *FeedbackRecord) {}, false},
		{"missing query", func(r *FeedbackRecord) { r.Query = "" }, true},
		{"bad sentiment", func(r *FeedbackRecord) { r.Sentiment = "meh" }, true},
		{"no books", func(r *FeedbackRecord) { r.RecommendedBooks = nil }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := valid()
			tt.mutate(record)
			err := ValidateFeedback(record)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateFeedback() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidFeedback) {
				t.Errorf("ValidateFeedback() error = %v, want ErrInvalidFeedback", err)
			}
		})
	}

	if err := ValidateFeedback(nil); !errors.Is(err, ErrInvalidFeedback) {
		t.Errorf("ValidateFeedback(nil) error = %v, want ErrInvalidFeedback", err)
	}
}

func TestParseShelf(t *testing.T) {
	for _, name := range []string{"read", "toRead", "reading", "favorites"} {
		if _, err := ParseShelf(name); err != nil {
			t.Errorf("ParseShelf(%q) error = %v", name, err)
		}
	}
	if _, err := ParseShelf("wishlist"); !errors.Is(err, ErrInvalidShelf) {
		t.Errorf("ParseShelf(wishlist) error = %v, want ErrInvalidShelf", err)
	}
}
