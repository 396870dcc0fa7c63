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


package similarity

import (
	"strings"
	"unicode/utf8"

	"github.com/poiesic/libris/core"
)

// MaxBoost caps SemanticBoost.
const MaxBoost = 0.8

// MinDescriptionLength is the shortest description that passes the quality gate.
const MinDescriptionLength = 50

var positiveKeywords = []string{
	"joy",
	"love",
	"inspire",
	"hope",
	"success",
	"overcome",
	"achieve",
	"dream",
	"positive",
	"uplifting",
	"heartwarming",
	"feel-good",
	"triumph",
	"healing",
	"growth",
	"transform",
}

var mainstreamGenres = []string{
	"fiction",
	"romance",
	"mystery",
	"thriller",
	"fantasy",
	"science fiction",
	"self-help",
	"biography",
	"memoir",
	"history",
	"contemporary fiction",
	"literary fiction",
	"young adult",
	"adventure",
	"humor",
	"comedy",
}

var genericPhrases = []string{
	"a book about",
	"this story",
	"this book tells",
	"in this book",
}

var prestigeMarkers = []string{
	"bestseller",
	"award",
	"acclaimed",
	"international",
}

// MeetsQualityThreshold reports whether book has a cover, a description of
// at least MinDescriptionLength characters and at least one genre, and
// neither its title nor author mentions "unknown".
func MeetsQualityThreshold(book *core.Book) bool {
	if book == nil || !book.HasCover() {
		return false
	}
	if utf8.RuneCountInString(book.Description) < MinDescriptionLength {
		return false
	}
	if len(book.Genres) == 0 {
		return false
	}
	if strings.Contains(strings.ToLower(book.Title), "unknown") ||
		strings.Contains(strings.ToLower(book.Author), "unknown") {
		return false
	}
	return true
}

// SemanticBoost returns the additive score adjustment for book, capped at
// MaxBoost. The floor is not clamped.
func SemanticBoost(book *core.Book) float64 {
	if book == nil {
		return 0
	}

	var boost float64

	if book.HasCover() {
		boost += 0.4
	} else {
		boost -= 0.2
	}

	switch n := utf8.RuneCountInString(book.Description); {
	case n > 200:
		boost += 0.3
	case n > 100:
		boost += 0.15
	case n < MinDescriptionLength:
		boost -= 0.25
	}

	switch {
	case len(book.Genres) >= 3:
		boost += 0.2
	case len(book.Genres) == 0:
		boost -= 0.2
	}

	description := strings.ToLower(book.Description)
	genres := strings.ToLower(strings.Join(book.Genres, " "))
	title := strings.ToLower(book.Title)

	for _, keyword := range positiveKeywords {
		inBody := strings.Contains(description, keyword) || strings.Contains(genres, keyword)
		if inBody {
			boost += 0.05
		} else if strings.Contains(title, keyword) {
			// Title-only matches are too literal.
			boost -= 0.1
		}
	}

	for _, genre := range book.Genres {
		if isMainstream(genre) {
			boost += 0.15
		}
	}

	if containsAny(description, genericPhrases) {
		boost -= 0.1
	}
	if containsAny(description, prestigeMarkers) {
		boost += 0.25
	}

	return min(boost, MaxBoost)
}

func isMainstream(genre string) bool {
	return containsAny(strings.ToLower(genre), mainstreamGenres)
}

func containsAny(s string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
