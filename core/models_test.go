package core

import (
	"testing"
)

func TestBookID(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		author   string
		wantSame bool
	}{
		{
			name:     "same title and author produce same ID",
			title:    "Norwegian Wood",
			author:   "Haruki Murakami",
			wantSame: true,
		},
		{
			name:     "empty fields",
			title:    "",
			author:   "",
			wantSame: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := BookID(tt.title, tt.author)
			id2 := BookID(tt.title, tt.author)

			if tt.wantSame && id1 != id2 {
				t.Errorf("BookID() produced different IDs for same content: %s vs %s", id1, id2)
			}
			if len(id1) != 16 {
				t.Errorf("BookID() = %q, want 16 hex characters", id1)
			}
		})
	}
}

func TestBookID_CaseAndWhitespaceInsensitive(t *testing.T) {
	if BookID("Dune", "Frank Herbert") != BookID("  dune ", "FRANK HERBERT") {
		t.Errorf("BookID() should ignore case and surrounding whitespace")
	}
}

func TestBookID_Different(t *testing.T) {
	if BookID("Dune", "Frank Herbert") == BookID("Dune Messiah", "Frank Herbert") {
		t.Errorf("BookID() produced same ID for different titles")
	}
	// The separator keeps "ab"+"c" distinct from "a"+"bc".
	if BookID("ab", "c") == BookID("a", "bc") {
		t.Errorf("BookID() should not collide across the title/author boundary")
	}
}

func TestBook_View(t *testing.T) {
	book := &Book{
		ID:          "b1",
		Title:       "Title",
		Author:      "Author",
		Genres:      []string{"Fiction"},
		Description: "desc",
		CoverURL:    "https://example.com/c.jpg",
		Embedding:   []float32{0.1, 0.2},
	}

	view := book.View()
	if view.ID != "b1" || view.Title != "Title" || view.CoverURL != book.CoverURL {
		t.Errorf("View() = %+v, missing projected fields", view)
	}

	// Genres must be copied so the projection cannot mutate the catalog entry.
	view.Genres[0] = "changed"
	if book.Genres[0] != "Fiction" {
		t.Errorf("View() shares the genres slice with the book")
	}
}

func TestShelves_Contains(t *testing.T) {
	shelves := &Shelves{
		Read:      []string{"r1"},
		ToRead:    []string{"t1"},
		Reading:   []string{"c1"},
		Favorites: []string{"f1"},
	}

	tests := []struct {
		id   string
		want bool
	}{
		{"r1", true},
		{"t1", true},
		{"c1", true},
		{"f1", false},
		{"missing", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := shelves.Contains(tt.id); got != tt.want {
				t.Errorf("Contains(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestShelves_Place(t *testing.T) {
	shelves := &Shelves{}

	shelves.Place("b1", ShelfToRead)
	shelves.Place("b1", ShelfReading)
	shelves.Place("b1", ShelfRead)
	shelves.Place("b1", ShelfFavorites)
	shelves.Place("b1", ShelfFavorites)

	if len(shelves.ToRead) != 0 || len(shelves.Reading) != 0 {
		t.Errorf("Place() left book on previous shelves: %+v", shelves)
	}
	if len(shelves.Read) != 1 || shelves.Read[0] != "b1" {
		t.Errorf("Place() Read = %v, want [b1]", shelves.Read)
	}
	if len(shelves.Favorites) != 1 {
		t.Errorf("Place() Favorites = %v, want a single entry", shelves.Favorites)
	}

	shelves.Remove("b1")
	if shelves.Contains("b1") {
		t.Errorf("Remove() left b1 on a shelf")
	}
	if len(shelves.Favorites) != 1 {
		t.Errorf("Remove() should not touch favorites")
	}
}
