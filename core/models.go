package core

import (
	"encoding/hex"
	"slices"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// DefaultUserID identifies the implicit single user when no identity is supplied.
const DefaultUserID = "default"

// BookID derives a deterministic catalog ID from a title and author using BLAKE2b hashing.
// Used for seed entries that arrive without a stable identifier.
func BookID(title, author string) string {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(strings.ToLower(strings.TrimSpace(title))))
	h.Write([]byte{0})
	h.Write([]byte(strings.ToLower(strings.TrimSpace(author))))
	return hex.EncodeToString(h.Sum(nil))
}

// Book is a catalog entry. Entries are immutable once stored except for
// embedding backfill.
type Book struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Genres        []string  `json:"genres"`
	Description   string    `json:"description"`
	CoverURL      string    `json:"coverUrl,omitempty"`
	OpenLibraryID string    `json:"openLibraryId,omitempty"`
	Embedding     []float32 `json:"embedding,omitempty"`
	InsertedAt    time.Time `json:"insertedAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// HasCover reports whether the book has a cover image.
func (b *Book) HasCover() bool {
	return b.CoverURL != ""
}

// HasEmbedding reports whether an embedding has been stored for the book.
func (b *Book) HasEmbedding() bool {
	return len(b.Embedding) > 0
}

// View projects the book into its presentation form (no embedding, no timestamps).
func (b *Book) View() BookView {
	return BookView{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Genres:      slices.Clone(b.Genres),
		Description: b.Description,
		CoverURL:    b.CoverURL,
	}
}

// BookView is the projection of a Book handed to the presentation layer.
type BookView struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Genres      []string `json:"genres"`
	Description string   `json:"description"`
	CoverURL    string   `json:"coverUrl,omitempty"`
}

// Shelves holds the book IDs a user has placed on each shelf.
type Shelves struct {
	Read      []string `json:"read"`
	ToRead    []string `json:"toRead"`
	Reading   []string `json:"reading"`
	Favorites []string `json:"favorites"`
}

// Contains reports whether id is on the read, to-read or reading shelf.
// Favorites are not considered.
func (s *Shelves) Contains(id string) bool {
	return slices.Contains(s.Read, id) ||
		slices.Contains(s.ToRead, id) ||
		slices.Contains(s.Reading, id)
}

// Shelf names a user shelf.
type Shelf string

const (
	ShelfRead      Shelf = "read"
	ShelfToRead    Shelf = "toRead"
	ShelfReading   Shelf = "reading"
	ShelfFavorites Shelf = "favorites"
)

// Place moves id onto shelf. Read, ToRead and Reading are kept disjoint;
// Favorites is independent of the other three.
func (s *Shelves) Place(id string, shelf Shelf) {
	if shelf == ShelfFavorites {
		if !slices.Contains(s.Favorites, id) {
			s.Favorites = append(s.Favorites, id)
		}
		return
	}
	s.Remove(id)
	switch shelf {
	case ShelfRead:
		s.Read = append(s.Read, id)
	case ShelfToRead:
		s.ToRead = append(s.ToRead, id)
	case ShelfReading:
		s.Reading = append(s.Reading, id)
	}
}

// Remove takes id off the read, to-read and reading shelves.
func (s *Shelves) Remove(id string) {
	del := func(ids []string) []string {
		return slices.DeleteFunc(ids, func(v string) bool { return v == id })
	}
	s.Read = del(s.Read)
	s.ToRead = del(s.ToRead)
	s.Reading = del(s.Reading)
}

// Rating is a user's 1-5 star rating of a book.
type Rating struct {
	BookID    string    `json:"bookId" validate:"required"`
	Value     int       `json:"rating" validate:"min=1,max=5"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Length is a preferred book length.
type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
	LengthAny    Length = "any"
)

// Preferences are the reading preferences a user has declared.
type Preferences struct {
	FavoriteGenres  []string `json:"favoriteGenres"`
	PreferredLength Length   `json:"preferredLength" validate:"omitempty,oneof=short medium long any"`
	ContentWarnings []string `json:"contentWarnings"`
	Language        string   `json:"languagePreference"`
	ReadingGoal     int      `json:"readingGoal" validate:"min=0"`
}

// Sentiment is the user's overall reaction to a recommendation set.
type Sentiment string

const (
	SentimentLiked    Sentiment = "liked"
	SentimentDisliked Sentiment = "disliked"
)

// FeedbackRecord is an entry in a user's append-only recommendation feedback log.
type FeedbackRecord struct {
	ID               string    `json:"id"`
	Query            string    `json:"query" validate:"required"`
	Sentiment        Sentiment `json:"feedback" validate:"oneof=liked disliked"`
	Reasons          []string  `json:"reasons"`
	CustomFeedback   string    `json:"customFeedback"`
	RecommendedBooks []string  `json:"recommendedBooks" validate:"required,min=1"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Recommendation is a single recommended book with its explanation.
type Recommendation struct {
	Book        BookView `json:"book"`
	Explanation string   `json:"explanation"`
	// Similarity is the cosine similarity between the query and the book.
	// When Placeholder is true it is a cosmetic value, not a computed score.
	Similarity  float64 `json:"similarity"`
	Placeholder bool    `json:"placeholder,omitempty"`
}

// Result is the response to a recommendation request.
type Result struct {
	Recommendations []Recommendation `json:"recommendations"`
	Total           int              `json:"total"`
	Strategy        string           `json:"strategy,omitempty"`
	Fallback        bool             `json:"fallback,omitempty"`
}

// SessionFeedback is structured dissatisfaction with the current session's
// recommendations, supplied alongside a follow-up query.
type SessionFeedback struct {
	Reasons         []string `json:"reasons"`
	CustomFeedback  string   `json:"customFeedback"`
	RejectedBookIDs []string `json:"rejectedBooks"`
}
