package ingestion

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/poiesic/libris/core"
)

//go:embed sample_books.json
var sampleBooks []byte

// seedBook is the on-disk seed format.
type seedBook struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Genres      []string `json:"genres"`
	Description string   `json:"description"`
	CoverURL    string   `json:"coverUrl"`
}

// LoadSeed decodes a JSON array of books. Entries without an id get one
// derived from title and author.
func LoadSeed(r io.Reader) ([]core.Book, error) {
	var entries []seedBook
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}

	books := make([]core.Book, len(entries))
	for i, e := range entries {
		id := e.ID
		if id == "" {
			id = core.BookID(e.Title, e.Author)
		}
		books[i] = core.Book{
			ID:          id,
			Title:       e.Title,
			Author:      e.Author,
			Genres:      e.Genres,
			Description: e.Description,
			CoverURL:    e.CoverURL,
		}
	}
	return books, nil
}

// LoadSeedFile reads seed books from a JSON file.
func LoadSeedFile(path string) ([]core.Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadSeed(f)
}

// SampleBooks returns the built-in sample catalog.
func SampleBooks() []core.Book {
	books, err := LoadSeed(bytes.NewReader(sampleBooks))
	if err != nil {
		panic(fmt.Sprintf("built-in sample catalog is invalid: %v", err))
	}
	return books
}
