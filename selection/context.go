package selection

import (
	"slices"

	"github.com/poiesic/libris/core"
)

// MaxHistory caps the reading history included in a prompt.
const MaxHistory = 20

// Profile is the raw reader state a prompt context is gathered from.
type Profile struct {
	Shelves        *core.Shelves
	Preferences    *core.Preferences
	Ratings        []core.Rating
	RecentFeedback []core.FeedbackRecord
	Session        *core.SessionFeedback
}

// BookLookup resolves a catalog id, returning nil when it is unknown.
type BookLookup func(id string) *core.Book

// HistoryEntry is a book the reader has read or is reading.
type HistoryEntry struct {
	Title  string
	Author string
	Shelf  core.Shelf
	// Rating is 0 when the reader has not rated the book.
	Rating int
}

// RatingSummary aggregates the reader's ratings.
type RatingSummary struct {
	Count   int
	Average float64
	// Loved holds titles rated 4 or 5 stars.
	Loved []string
	// Disliked holds titles rated 1 or 2 stars.
	Disliked []string
}

// FeedbackNote is a past session the reader was unhappy with.
type FeedbackNote struct {
	Query   string
	Reasons []string
	Comment string
}

// SessionNote is dissatisfaction with the current session.
type SessionNote struct {
	Reasons  []string
	Comment  string
	Rejected []string
}

// PromptContext is everything known about the reader that a selection
// prompt may use.
type PromptContext struct {
	Query        string
	Preferences  *core.Preferences
	History      []HistoryEntry
	Ratings      RatingSummary
	PastFeedback []FeedbackNote
	Session      *SessionNote
}

// BuildPromptContext gathers a PromptContext for query from profile.
// Books lookup cannot resolve are left out of the history and named by id
// elsewhere.
func BuildPromptContext(query string, profile Profile, lookup BookLookup) PromptContext {
	if lookup == nil {
		lookup = func(string) *core.Book { return nil }
	}

	pc := PromptContext{
		Query:       query,
		Preferences: profile.Preferences,
	}

	stars := make(map[string]int, len(profile.Ratings))
	for _, r := range profile.Ratings {
		stars[r.BookID] = r.Value
	}

	shelved := make(map[string]bool)
	addHistory := func(id string, shelf core.Shelf) {
		if shelved[id] || len(pc.History) >= MaxHistory {
			return
		}
		book := lookup(id)
		if book == nil {
			return
		}
		shelved[id] = true
		pc.History = append(pc.History, HistoryEntry{
			Title:  book.Title,
			Author: book.Author,
			Shelf:  shelf,
			Rating: stars[id],
		})
	}
	if s := profile.Shelves; s != nil {
		for _, id := range s.Reading {
			addHistory(id, core.ShelfReading)
		}
		for _, id := range s.Read {
			addHistory(id, core.ShelfRead)
		}
	}
	// Rated books that were never shelved still count as history.
	for _, r := range profile.Ratings {
		addHistory(r.BookID, core.ShelfRead)
	}

	pc.Ratings = summarizeRatings(profile.Ratings, lookup)

	for _, fb := range profile.RecentFeedback {
		if fb.Sentiment != core.SentimentDisliked {
			continue
		}
		pc.PastFeedback = append(pc.PastFeedback, FeedbackNote{
			Query:   fb.Query,
			Reasons: slices.Clone(fb.Reasons),
			Comment: fb.CustomFeedback,
		})
	}

	if s := profile.Session; s != nil {
		note := &SessionNote{
			Reasons: slices.Clone(s.Reasons),
			Comment: s.CustomFeedback,
		}
		for _, id := range s.RejectedBookIDs {
			note.Rejected = append(note.Rejected, titleOrID(id, lookup))
		}
		pc.Session = note
	}

	return pc
}

func summarizeRatings(ratings []core.Rating, lookup BookLookup) RatingSummary {
	var summary RatingSummary
	if len(ratings) == 0 {
		return summary
	}

	total := 0
	for _, r := range ratings {
		total += r.Value
		switch {
		case r.Value >= 4:
			summary.Loved = append(summary.Loved, titleOrID(r.BookID, lookup))
		case r.Value <= 2:
			summary.Disliked = append(summary.Disliked, titleOrID(r.BookID, lookup))
		}
	}
	summary.Count = len(ratings)
	summary.Average = float64(total) / float64(len(ratings))
	return summary
}

func titleOrID(id string, lookup BookLookup) string {
	if book := lookup(id); book != nil {
		return book.Title
	}
	return id
}
