package selection

import (
	"testing"

	"github.com/poiesic/libris/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogLookup(books ...*core.Book) BookLookup {
	byID := make(map[string]*core.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}
	return func(id string) *core.Book { return byID[id] }
}

func TestBuildPromptContext(t *testing.T) {
	dune := &core.Book{ID: "dune", Title: "Dune", Author: "Frank Herbert"}
	emma := &core.Book{ID: "emma", Title: "Emma", Author: "Jane Austen"}
	it := &core.Book{ID: "it", Title: "It", Author: "Stephen King"}
	lookup := catalogLookup(dune, emma, it)

	profile := Profile{
		Shelves: &core.Shelves{
			Read:    []string{"dune", "missing"},
			Reading: []string{"emma"},
			ToRead:  []string{"it"},
		},
		Preferences: &core.Preferences{FavoriteGenres: []string{"Science Fiction"}},
		Ratings: []core.Rating{
			{BookID: "dune", Value: 5},
			{BookID: "it", Value: 1},
			{BookID: "emma", Value: 3},
		},
		RecentFeedback: []core.FeedbackRecord{
			{Query: "scary", Sentiment: core.SentimentDisliked, Reasons: []string{"too dark"}},
			{Query: "fun", Sentiment: core.SentimentLiked},
		},
		Session: &core.SessionFeedback{
			Reasons:         []string{"already read"},
			CustomFeedback:  "more hopeful please",
			RejectedBookIDs: []string{"it", "gone"},
		},
	}

	pc := BuildPromptContext("hopeful sci-fi", profile, lookup)

	assert.Equal(t, "hopeful sci-fi", pc.Query)
	assert.Same(t, profile.Preferences, pc.Preferences)

	require.Len(t, pc.History, 3)
	assert.Equal(t, HistoryEntry{Title: "Emma", Author: "Jane Austen", Shelf: core.ShelfReading, Rating: 3}, pc.History[0])
	assert.Equal(t, HistoryEntry{Title: "Dune", Author: "Frank Herbert", Shelf: core.ShelfRead, Rating: 5}, pc.History[1])
	// Rated but only on the to-read shelf.
	assert.Equal(t, "It", pc.History[2].Title)

	assert.Equal(t, 3, pc.Ratings.Count)
	assert.InDelta(t, 3.0, pc.Ratings.Average, 1e-9)
	assert.Equal(t, []string{"Dune"}, pc.Ratings.Loved)
	assert.Equal(t, []string{"It"}, pc.Ratings.Disliked)

	require.Len(t, pc.PastFeedback, 1)
	assert.Equal(t, "scary", pc.PastFeedback[0].Query)

	require.NotNil(t, pc.Session)
	assert.Equal(t, []string{"It", "gone"}, pc.Session.Rejected)
	assert.Equal(t, "more hopeful please", pc.Session.Comment)
}

func TestBuildPromptContext_EmptyProfile(t *testing.T) {
	pc := BuildPromptContext("anything", Profile{}, nil)

	assert.Equal(t, "anything", pc.Query)
	assert.Nil(t, pc.Preferences)
	assert.Empty(t, pc.History)
	assert.Zero(t, pc.Ratings.Count)
	assert.Empty(t, pc.PastFeedback)
	assert.Nil(t, pc.Session)
}

func TestBuildPromptContext_CapsHistory(t *testing.T) {
	var books []*core.Book
	shelves := &core.Shelves{}
	for i := 0; i < MaxHistory+5; i++ {
		b := &core.Book{ID: string(rune('a' + i)), Title: "T", Author: "A"}
		books = append(books, b)
		shelves.Read = append(shelves.Read, b.ID)
	}

	pc := BuildPromptContext("q", Profile{Shelves: shelves}, catalogLookup(books...))

	assert.Len(t, pc.History, MaxHistory)
}
