package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/poiesic/libris/ai"
	"github.com/poiesic/libris/ai/mock"
	"github.com/poiesic/libris/core"
	"github.com/poiesic/libris/selection"
	"github.com/poiesic/libris/semantic"
	"github.com/poiesic/libris/similarity"
	"github.com/poiesic/libris/storage"
	"github.com/poiesic/libris/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	catalog   storage.CatalogRepository
	profiles  storage.ProfileRepository
	embedder  *mock.MockEmbedder
	completer *mock.MockCompleter
	provider  ai.AIProvider
}

func newFixture(t *testing.T, books int) *fixture {
	t.Helper()
	catalog, profiles, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		catalog.Close()
		profiles.Close()
		backend.Close()
	})

	for i := range books {
		require.NoError(t, catalog.Insert(context.Background(), testBook(i)))
	}

	embedder := mock.NewMockEmbedder()
	completer := mock.NewMockCompleter()
	return &fixture{
		catalog:   catalog,
		profiles:  profiles,
		embedder:  embedder,
		completer: completer,
		provider:  mock.NewMockProviderWithServices(embedder, completer),
	}
}

func (f *fixture) recommender(t *testing.T, opts ...Option) *Recommender {
	t.Helper()
	r, err := NewRecommender(f.catalog, f.profiles, f.provider, opts...)
	require.NoError(t, err)
	t.Cleanup(r.Release)
	return r
}

func testBook(i int) *core.Book {
	genres := []string{"Fantasy", "Adventure"}
	if i%2 == 1 {
		genres = []string{"Romance"}
	}
	return &core.Book{
		ID:          fmt.Sprintf("b%d", i),
		Title:       fmt.Sprintf("Title %d", i),
		Author:      fmt.Sprintf("Author %d", i),
		Genres:      genres,
		Description: fmt.Sprintf("Book %d is a heartwarming story of friendship, courage and an unforgettable journey.", i),
		CoverURL:    fmt.Sprintf("https://covers.example/%d.jpg", i),
	}
}

func ids(recs []core.Recommendation) []string {
	out := make([]string, len(recs))
	for i, rec := range recs {
		out[i] = rec.Book.ID
	}
	return out
}

func TestRecommend_RejectsBlankQuery(t *testing.T) {
	f := newFixture(t, 3)
	r := f.recommender(t)

	for _, query := range []string{"", "   "} {
		_, err := r.Recommend(context.Background(), Request{Query: query})
		assert.ErrorIs(t, err, core.ErrValidation)
		assert.ErrorIs(t, err, core.ErrEmptyQuery)
	}
	assert.Zero(t, f.completer.CallCount())
}

func TestRecommend_NeverReturnsShelvedBooks(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	require.NoError(t, f.profiles.PutShelves(ctx, core.DefaultUserID, &core.Shelves{ToRead: []string{"b1"}}))

	for _, strategy := range []Strategy{StrategyEmbedding, StrategyLLMSelection} {
		r := f.recommender(t, WithStrategy(strategy))
		for range 5 {
			result, err := r.Recommend(ctx, Request{Query: "anything"})
			require.NoError(t, err)
			assert.NotContains(t, ids(result.Recommendations), "b1", strategy)
			assert.NotEmpty(t, result.Recommendations)
		}
	}
}

func TestRecommend_EmbeddingStrategy(t *testing.T) {
	f := newFixture(t, 10)
	r := f.recommender(t)
	ctx := context.Background()

	result, err := r.Recommend(ctx, Request{Query: "something cozy"})
	require.NoError(t, err)
	assert.False(t, result.Fallback)
	assert.Equal(t, string(StrategyEmbedding), result.Strategy)
	require.Len(t, result.Recommendations, DefaultLimit)
	assert.Equal(t, DefaultLimit, result.Total)

	got := ids(result.Recommendations)
	assert.ElementsMatch(t, got, uniq(got), "no duplicates")
	for _, rec := range result.Recommendations {
		assert.Equal(t, mock.DefaultCompletion, rec.Explanation)
		assert.False(t, rec.Placeholder)
		assert.GreaterOrEqual(t, rec.Similarity, -1.0)
		assert.LessOrEqual(t, rec.Similarity, 1.0)
	}

	// Missing embeddings were computed and stored.
	missing, err := f.catalog.FindMany(ctx, storage.CatalogFilter{MissingEmbedding: true})
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestRecommend_EmbeddingStrategyKeepsRankOrder(t *testing.T) {
	f := newFixture(t, 10)
	r := f.recommender(t, WithoutShuffle(), WithLimit(4))

	var monitor recordingMonitor
	result, err := r.RecommendWithMonitor(context.Background(), Request{Query: "quest"}, &monitor)
	require.NoError(t, err)
	require.Len(t, monitor.ranked, 4)

	for i, scored := range monitor.ranked {
		assert.Equal(t, scored.Book.ID, result.Recommendations[i].Book.ID)
		assert.InDelta(t, scored.Similarity, result.Recommendations[i].Similarity, 1e-9)
	}
}

func TestRecommend_CompletionFailureDegrades(t *testing.T) {
	f := newFixture(t, 8)
	f.completer.CompleteFunc = func(ctx context.Context, prompt string, params ai.CompletionParams) (string, error) {
		return "", errors.New("completion service down")
	}
	r := f.recommender(t)

	result, err := r.Recommend(context.Background(), Request{Query: "I want to be happy"})
	require.NoError(t, err)
	assert.False(t, result.Fallback)
	require.Len(t, result.Recommendations, DefaultLimit)
	for _, rec := range result.Recommendations {
		assert.Equal(t, semantic.ErrorExplanation, rec.Explanation)
	}
}

func TestRecommend_EmbeddingFailureFallsBack(t *testing.T) {
	f := newFixture(t, 8)
	f.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("embedding service down")
	}
	r := f.recommender(t)

	var monitor recordingMonitor
	result, err := r.RecommendWithMonitor(context.Background(), Request{Query: "mystery"}, &monitor)
	require.NoError(t, err)
	assert.True(t, result.Fallback)
	assert.True(t, monitor.fallback)
	assertRandomSelection(t, result, DefaultLimit, nil)
}

func TestRecommend_LLMSelection(t *testing.T) {
	f := newFixture(t, 6)
	f.completer.CompleteFunc = func(ctx context.Context, prompt string, params ai.CompletionParams) (string, error) {
		return "BOOK: 2\nREASON: Great adventure.\n\nBOOK: 5\nREASON: Emotional depth.", nil
	}
	r := f.recommender(t, WithStrategy(StrategyLLMSelection))

	result, err := r.Recommend(context.Background(), Request{Query: "an epic"})
	require.NoError(t, err)
	assert.False(t, result.Fallback)
	assert.Equal(t, string(StrategyLLMSelection), result.Strategy)
	require.Len(t, result.Recommendations, 2)

	assert.Equal(t, "b1", result.Recommendations[0].Book.ID)
	assert.Equal(t, "Great adventure.", result.Recommendations[0].Explanation)
	assert.Equal(t, "b4", result.Recommendations[1].Book.ID)
	assert.Equal(t, "Emotional depth.", result.Recommendations[1].Explanation)
	for _, rec := range result.Recommendations {
		assert.True(t, rec.Placeholder)
	}
	assert.Zero(t, f.embedder.CallCount(), "selection does not embed")
}

func TestRecommend_LLMSelectionUnparseableFallsBack(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	require.NoError(t, f.profiles.PutShelves(ctx, core.DefaultUserID, &core.Shelves{Read: []string{"b0"}, Reading: []string{"b9"}}))
	f.completer.CompleteFunc = func(ctx context.Context, prompt string, params ai.CompletionParams) (string, error) {
		return "I don't know", nil
	}
	r := f.recommender(t, WithStrategy(StrategyLLMSelection))

	result, err := r.Recommend(ctx, Request{Query: "surprise me"})
	require.NoError(t, err)
	assert.True(t, result.Fallback)
	assertRandomSelection(t, result, DefaultLimit, []string{"b0", "b9"})
}

func TestRecommend_LLMSelectionPromptCarriesContext(t *testing.T) {
	f := newFixture(t, 6)
	ctx := context.Background()
	require.NoError(t, f.profiles.PutShelves(ctx, "alice", &core.Shelves{Read: []string{"b0"}}))
	require.NoError(t, f.profiles.SetRating(ctx, "alice", core.Rating{BookID: "b0", Value: 5}))
	require.NoError(t, f.profiles.PutPreferences(ctx, "alice", &core.Preferences{FavoriteGenres: []string{"Gothic Horror"}}))
	require.NoError(t, f.profiles.AddFeedback(ctx, "alice", &core.FeedbackRecord{
		Query:            "old query",
		Sentiment:        core.SentimentDisliked,
		Reasons:          []string{"too slow"},
		RecommendedBooks: []string{"b3"},
	}))
	f.completer.CompleteFunc = func(ctx context.Context, prompt string, params ai.CompletionParams) (string, error) {
		return "BOOK: 1\nREASON: Fits.", nil
	}
	r := f.recommender(t, WithStrategy(StrategyLLMSelection))

	result, err := r.Recommend(ctx, Request{
		UserID:   "alice",
		Query:    "something dark",
		Feedback: &core.SessionFeedback{Reasons: []string{"too long"}, RejectedBookIDs: []string{"b2"}},
	})
	require.NoError(t, err)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, "b1", result.Recommendations[0].Book.ID)

	prompts := f.completer.Prompts()
	require.Len(t, prompts, 1)
	prompt := prompts[0]
	assert.Contains(t, prompt, "something dark")
	assert.Contains(t, prompt, "Gothic Horror")
	assert.Contains(t, prompt, `"Title 0" by Author 0 (read, rated 5/5)`)
	assert.Contains(t, prompt, "too slow")
	assert.Contains(t, prompt, "too long")
	assert.NotContains(t, prompt, `"Title 2"`, "rejected books are not listed")
}

func TestRecommend_EmptyPool(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	require.NoError(t, f.profiles.PutShelves(ctx, core.DefaultUserID, &core.Shelves{Read: []string{"b0", "b1"}}))
	r := f.recommender(t)

	result, err := r.Recommend(ctx, Request{Query: "anything"})
	require.NoError(t, err)
	assert.Empty(t, result.Recommendations)
	assert.Zero(t, result.Total)
	assert.False(t, result.Fallback)
}

func TestRecommend_SearchesWhenCatalogIsSmall(t *testing.T) {
	f := newFixture(t, 2)
	searcher := &fakeSearcher{books: []core.Book{*testBook(1), *testBook(50), *testBook(51)}}
	r := f.recommender(t, WithSearcher(searcher))
	ctx := context.Background()

	result, err := r.Recommend(ctx, Request{Query: "dragons"})
	require.NoError(t, err)
	assert.Len(t, result.Recommendations, 4)
	assert.Equal(t, []string{"dragons"}, searcher.queries)

	count, err := f.catalog.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestRecommend_SkipsSearchForLargeCatalog(t *testing.T) {
	f := newFixture(t, MinCatalogSize)
	searcher := &fakeSearcher{}
	r := f.recommender(t, WithSearcher(searcher))

	_, err := r.Recommend(context.Background(), Request{Query: "dragons"})
	require.NoError(t, err)
	assert.Empty(t, searcher.queries)
}

func TestRecommend_SearchFailureUsesCatalog(t *testing.T) {
	f := newFixture(t, 3)
	searcher := &fakeSearcher{err: errors.New("upstream down")}
	r := f.recommender(t, WithSearcher(searcher))

	result, err := r.Recommend(context.Background(), Request{Query: "dragons"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b0", "b1", "b2"}, ids(result.Recommendations))
}

func TestRecommend_MonitorStages(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	require.NoError(t, f.profiles.PutShelves(ctx, core.DefaultUserID, &core.Shelves{ToRead: []string{"b2"}}))
	r := f.recommender(t)

	var monitor recordingMonitor
	result, err := r.RecommendWithMonitor(ctx, Request{Query: "  padded  "}, &monitor)
	require.NoError(t, err)

	assert.Equal(t, "padded", monitor.query)
	assert.Equal(t, 5, monitor.pool)
	assert.Equal(t, 4, monitor.filtered)
	assert.Len(t, monitor.ranked, 4)
	assert.False(t, monitor.fallback)
	assert.Same(t, result, monitor.result)
}

func TestNewRecommender_Validation(t *testing.T) {
	f := newFixture(t, 0)

	_, err := NewRecommender(nil, f.profiles, f.provider)
	assert.ErrorIs(t, err, ErrCatalogRequired)

	_, err = NewRecommender(f.catalog, nil, f.provider)
	assert.ErrorIs(t, err, ErrProfilesRequired)

	_, err = NewRecommender(f.catalog, f.profiles, nil)
	assert.ErrorIs(t, err, ErrAIProviderRequired)

	_, err = NewRecommender(f.catalog, f.profiles, f.provider, WithLimit(0))
	assert.ErrorIs(t, err, ErrInvalidLimit)

	_, err = NewRecommender(f.catalog, f.profiles, f.provider, WithStrategy("magic"))
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{"", StrategyEmbedding, false},
		{"embedding", StrategyEmbedding, false},
		{"LLM-Selection", StrategyLLMSelection, false},
		{"llm", StrategyLLMSelection, false},
		{"random", "", true},
	}
	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnknownStrategy, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func assertRandomSelection(t *testing.T, result *core.Result, want int, excluded []string) {
	t.Helper()
	require.Len(t, result.Recommendations, want)
	got := ids(result.Recommendations)
	assert.Len(t, uniq(got), want, "distinct books")
	for _, rec := range result.Recommendations {
		assert.NotContains(t, excluded, rec.Book.ID)
		assert.True(t, rec.Placeholder)
		assert.GreaterOrEqual(t, rec.Similarity, 0.7)
		assert.Less(t, rec.Similarity, 1.0)
		assert.NotEmpty(t, rec.Explanation)
	}
}

func uniq(values []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

type fakeSearcher struct {
	books   []core.Book
	err     error
	mu      sync.Mutex
	queries []string
}

func (s *fakeSearcher) Search(ctx context.Context, query string, limit int) ([]core.Book, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.books, nil
}

type recordingMonitor struct {
	noopMonitor
	query    string
	pool     int
	filtered int
	ranked   []similarity.Scored
	picks    []selection.Pick
	fallback bool
	result   *core.Result
}

func (m *recordingMonitor) Start(query string)                  { m.query = query }
func (m *recordingMonitor) AfterCandidatePool(pool []*core.Book) { m.pool = len(pool) }
func (m *recordingMonitor) AfterExclusion(pool []*core.Book)     { m.filtered = len(pool) }
func (m *recordingMonitor) AfterRanking(r []similarity.Scored)   { m.ranked = r }
func (m *recordingMonitor) AfterSelection(p []selection.Pick)    { m.picks = p }
func (m *recordingMonitor) FallbackUsed(err error)               { m.fallback = true }
func (m *recordingMonitor) Finish(result *core.Result)           { m.result = result }
