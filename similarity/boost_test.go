package similarity

import (
	"strings"
	"testing"

	"github.com/poiesic/libris/core"
	"github.com/stretchr/testify/assert"
)

const cover = "https://covers.openlibrary.org/b/id/1-L.jpg"

func TestMeetsQualityThreshold(t *testing.T) {
	good := func() *core.Book {
		return &core.Book{
			ID:          "b1",
			Title:       "The Left Hand of Darkness",
			Author:      "Ursula K. Le Guin",
			Genres:      []string{"Science Fiction"},
			Description: strings.Repeat("d", MinDescriptionLength),
			CoverURL:    cover,
		}
	}

	tests := []struct {
		name   string
		mutate func(b *core.Book)
		want   bool
	}{
		{"complete book", func(b *core.Book) {}, true},
		{"no cover", func(b *core.Book) { b.CoverURL = "" }, false},
		{"short description", func(b *core.Book) { b.Description = "too short" }, false},
		{"no genres", func(b *core.Book) { b.Genres = nil }, false},
		{"unknown title", func(b *core.Book) { b.Title = "Unknown Title" }, false},
		{"unknown author", func(b *core.Book) { b.Author = "UNKNOWN" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book := good()
			tt.mutate(book)
			assert.Equal(t, tt.want, MeetsQualityThreshold(book))
		})
	}

	assert.False(t, MeetsQualityThreshold(nil))
}

func TestSemanticBoost(t *testing.T) {
	tests := []struct {
		name string
		book *core.Book
		want float64
	}{
		{
			name: "bare entry",
			book: &core.Book{Title: "Notes", Author: "A"},
			want: -0.2 - 0.25 - 0.2,
		},
		{
			name: "positive word only in title",
			book: &core.Book{Title: "Joy", Author: "A"},
			want: -0.2 - 0.25 - 0.2 - 0.1,
		},
		{
			name: "cover and mid-length description",
			book: &core.Book{
				Title:       "Notes",
				CoverURL:    cover,
				Description: strings.Repeat("x", 120),
				Genres:      []string{"Poetry"},
			},
			want: 0.4 + 0.15,
		},
		{
			name: "mainstream genres counted per genre",
			book: &core.Book{
				Title:       "Notes",
				Description: strings.Repeat("x", 60),
				Genres:      []string{"Mystery", "Historical Fiction"},
			},
			want: -0.2 + 0.15 + 0.15,
		},
		{
			name: "generic phrasing penalized",
			book: &core.Book{
				Title:       "Notes",
				CoverURL:    cover,
				Description: "This story " + strings.Repeat("x", 60),
				Genres:      []string{"Poetry"},
			},
			want: 0.4 - 0.1,
		},
		{
			name: "keywords in genres count",
			book: &core.Book{
				Title:       "Notes",
				CoverURL:    cover,
				Description: strings.Repeat("x", 60),
				Genres:      []string{"Personal Growth"},
			},
			want: 0.4 + 0.05,
		},
		{
			name: "capped at max",
			book: &core.Book{
				Title:       "Notes",
				CoverURL:    cover,
				Description: "An award-winning tale of hope. " + strings.Repeat("x", 200),
				Genres:      []string{"Fiction", "Fantasy", "Adventure"},
			},
			want: MaxBoost,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SemanticBoost(tt.book), 1e-9)
		})
	}
}

func TestSemanticBoost_NeverExceedsCap(t *testing.T) {
	book := &core.Book{
		Title:       "Triumph",
		CoverURL:    cover,
		Description: strings.Join(positiveKeywords, " ") + " bestseller " + strings.Repeat("x", 300),
		Genres:      mainstreamGenres,
	}
	assert.LessOrEqual(t, SemanticBoost(book), MaxBoost)
}
