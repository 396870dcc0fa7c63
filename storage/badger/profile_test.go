package badger

import (
	"context"
	"fmt"
	"testing"

	"github.com/poiesic/libris/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProfiles(t *testing.T) *ProfileRepository {
	t.Helper()
	catalog, profiles, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		catalog.Close()
		profiles.Close()
		backend.Close()
	})
	return profiles
}

func TestProfile_Shelves(t *testing.T) {
	profiles := setupProfiles(t)
	ctx := context.Background()

	shelves, err := profiles.GetShelves(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, shelves)
	assert.Empty(t, shelves.Read)

	shelves.Place("b1", core.ShelfToRead)
	shelves.Place("b2", core.ShelfRead)
	require.NoError(t, profiles.PutShelves(ctx, "alice", shelves))

	loaded, err := profiles.GetShelves(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"b1"}, loaded.ToRead)
	assert.Equal(t, []string{"b2"}, loaded.Read)

	other, err := profiles.GetShelves(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, other.Contains("b1"))
}

func TestProfile_Preferences(t *testing.T) {
	profiles := setupProfiles(t)
	ctx := context.Background()

	prefs, err := profiles.GetPreferences(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, prefs)

	require.NoError(t, profiles.PutPreferences(ctx, "alice", &core.Preferences{
		FavoriteGenres:  []string{"Fantasy"},
		PreferredLength: core.LengthShort,
	}))

	prefs, err = profiles.GetPreferences(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, prefs)
	assert.Equal(t, []string{"Fantasy"}, prefs.FavoriteGenres)
	assert.Equal(t, core.LengthShort, prefs.PreferredLength)

	err = profiles.PutPreferences(ctx, "alice", &core.Preferences{PreferredLength: "epic"})
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestProfile_Ratings(t *testing.T) {
	profiles := setupProfiles(t)
	ctx := context.Background()

	require.NoError(t, profiles.SetRating(ctx, "alice", core.Rating{BookID: "b2", Value: 4}))
	require.NoError(t, profiles.SetRating(ctx, "alice", core.Rating{BookID: "b1", Value: 2}))
	require.NoError(t, profiles.SetRating(ctx, "alice", core.Rating{BookID: "b2", Value: 5}))

	ratings, err := profiles.GetRatings(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, ratings, 2)
	assert.Equal(t, "b1", ratings[0].BookID)
	assert.Equal(t, 2, ratings[0].Value)
	assert.Equal(t, "b2", ratings[1].BookID)
	assert.Equal(t, 5, ratings[1].Value)
	assert.False(t, ratings[1].UpdatedAt.IsZero())

	err = profiles.SetRating(ctx, "alice", core.Rating{BookID: "b3", Value: 6})
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestProfile_Feedback(t *testing.T) {
	profiles := setupProfiles(t)
	ctx := context.Background()

	for i := range 5 {
		record := &core.FeedbackRecord{
			Query:            fmt.Sprintf("query %d", i),
			Sentiment:        core.SentimentDisliked,
			RecommendedBooks: []string{"b1"},
			CreatedAt:        fixedTime(i),
		}
		require.NoError(t, profiles.AddFeedback(ctx, "alice", record))
		assert.NotEmpty(t, record.ID)
	}
	require.NoError(t, profiles.AddFeedback(ctx, "bob", &core.FeedbackRecord{
		Query:            "other",
		Sentiment:        core.SentimentLiked,
		RecommendedBooks: []string{"b2"},
	}))

	recent, err := profiles.GetRecentFeedback(ctx, "alice", 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "query 4", recent[0].Query)
	assert.Equal(t, "query 3", recent[1].Query)
	assert.Equal(t, "query 2", recent[2].Query)

	all, err := profiles.GetRecentFeedback(ctx, "alice", 100)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	none, err := profiles.GetRecentFeedback(ctx, "carol", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestProfile_FeedbackInvalid(t *testing.T) {
	profiles := setupProfiles(t)

	err := profiles.AddFeedback(context.Background(), "alice", &core.FeedbackRecord{
		Query:     "q",
		Sentiment: "meh",
	})
	assert.ErrorIs(t, err, core.ErrValidation)
}
