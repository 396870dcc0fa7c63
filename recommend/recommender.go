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


package recommend

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/libris/ai"
	"github.com/poiesic/libris/core"
	"github.com/poiesic/libris/ingestion"
	"github.com/poiesic/libris/selection"
	"github.com/poiesic/libris/semantic"
	"github.com/poiesic/libris/storage"
)

const (
	// DefaultLimit is the number of books a request returns.
	DefaultLimit = 6

	// DefaultConcurrency caps concurrent per-book provider calls.
	DefaultConcurrency = 4

	// MinCatalogSize is the catalog size below which a BookSearcher is consulted.
	MinCatalogSize = 20

	// CatalogFetchLimit caps the candidate pool read from the catalog.
	CatalogFetchLimit = 100

	// SearchLimit is the number of books requested from a BookSearcher.
	SearchLimit = 20

	// FeedbackHistory is the number of past feedback records loaded per request.
	FeedbackHistory = 10
)

// Request is a recommendation request.
type Request struct {
	// UserID defaults to core.DefaultUserID.
	UserID string
	Query  string
	// Feedback is optional dissatisfaction with the previous results of
	// this session.
	Feedback *core.SessionFeedback
}

// Recommender produces book recommendations.
type Recommender struct {
	catalog     storage.CatalogRepository
	profiles    storage.ProfileRepository
	searcher    BookSearcher
	merger      *ingestion.Merger
	expander    *semantic.Expander
	explainer   *semantic.Explainer
	embedder    *semantic.BookEmbedder
	completer   ai.Completer
	parser      *selection.Parser
	pool        *ants.Pool
	strategy    Strategy
	limit       int
	concurrency int
	shuffle     bool
	logger      *slog.Logger
}

// NewRecommender creates a new recommender.
func NewRecommender(
	catalog storage.CatalogRepository,
	profiles storage.ProfileRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Recommender, error) {
	if catalog == nil {
		return nil, ErrCatalogRequired
	}
	if profiles == nil {
		return nil, ErrProfilesRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	r := &Recommender{
		catalog:     catalog,
		profiles:    profiles,
		completer:   provider.Completer(),
		strategy:    StrategyEmbedding,
		limit:       DefaultLimit,
		concurrency: DefaultConcurrency,
		shuffle:     true,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.logger = r.logger.With("component", "recommender")

	var err error
	if r.merger, err = ingestion.NewMerger(catalog, r.logger); err != nil {
		return nil, err
	}
	semanticOpts := []semantic.Option{semantic.WithLogger(r.logger)}
	if r.expander, err = semantic.NewExpander(provider.Completer(), provider.Embedder(), semanticOpts...); err != nil {
		return nil, err
	}
	if r.explainer, err = semantic.NewExplainer(provider.Completer(), semanticOpts...); err != nil {
		return nil, err
	}
	if r.embedder, err = semantic.NewBookEmbedder(provider.Embedder(), semanticOpts...); err != nil {
		return nil, err
	}
	r.parser = selection.NewParser(r.logger)

	if r.pool, err = ants.NewPool(r.concurrency); err != nil {
		return nil, err
	}
	return r, nil
}

// Strategy returns the configured strategy.
func (r *Recommender) Strategy() Strategy {
	return r.strategy
}

// Release releases the worker pool.
// The recommender should not be used after calling Release.
func (r *Recommender) Release() {
	r.pool.Release()
}

// Recommend returns recommendations for req. Only an invalid request is
// reported as an error; every other failure degrades to a fallback.
func (r *Recommender) Recommend(ctx context.Context, req Request) (*core.Result, error) {
	return r.RecommendWithMonitor(ctx, req, nil)
}

// RecommendWithMonitor is Recommend with monitoring.
// The monitor receives callbacks at each stage of the request.
func (r *Recommender) RecommendWithMonitor(ctx context.Context, req Request, monitor Monitor) (*core.Result, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if err := core.ValidateQuery(req.Query); err != nil {
		return nil, err
	}

	userID := req.UserID
	if userID == "" {
		userID = core.DefaultUserID
	}
	query := strings.TrimSpace(req.Query)
	logger := r.logger.With("user", userID)
	monitor.Start(query)

	profile := r.loadProfile(ctx, userID, req.Feedback)
	monitor.AfterContextLoad(profile)

	pool := r.candidatePool(ctx, query)
	monitor.AfterCandidatePool(pool)

	candidates := exclude(pool, profile)
	monitor.AfterExclusion(candidates)

	result := &core.Result{
		Recommendations: []core.Recommendation{},
		Strategy:        string(r.strategy),
	}
	if len(candidates) == 0 {
		logger.Info("no candidates left after exclusion", "pool", len(pool))
		monitor.Finish(result)
		return result, nil
	}

	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))

	var recs []core.Recommendation
	var err error
	switch r.strategy {
	case StrategyLLMSelection:
		recs, err = r.recommendBySelection(ctx, query, profile, pool, candidates, rng, monitor)
	default:
		recs, err = r.recommendByEmbedding(ctx, query, candidates, rng, monitor)
	}

	if err != nil || len(recs) == 0 {
		logger.Warn("strategy produced no recommendations, using random selection",
			"strategy", r.strategy, "err", err)
		monitor.FallbackUsed(err)
		recs = randomSelection(candidates, r.limit, rng)
		result.Fallback = true
	}

	result.Recommendations = recs
	result.Total = len(recs)
	logger.Info("recommendations ready", "query", query, "total", result.Total, "fallback", result.Fallback)
	monitor.Finish(result)
	return result, nil
}

// loadProfile reads the reader's context. Read failures are logged and the
// affected part is left empty.
func (r *Recommender) loadProfile(ctx context.Context, userID string, session *core.SessionFeedback) selection.Profile {
	profile := selection.Profile{Session: session}

	shelves, err := r.profiles.GetShelves(ctx, userID)
	if err != nil {
		r.logger.Warn("could not load shelves", "user", userID, "err", err)
		shelves = &core.Shelves{}
	}
	profile.Shelves = shelves

	if profile.Preferences, err = r.profiles.GetPreferences(ctx, userID); err != nil {
		r.logger.Warn("could not load preferences", "user", userID, "err", err)
	}
	if profile.Ratings, err = r.profiles.GetRatings(ctx, userID); err != nil {
		r.logger.Warn("could not load ratings", "user", userID, "err", err)
	}
	if profile.RecentFeedback, err = r.profiles.GetRecentFeedback(ctx, userID, FeedbackHistory); err != nil {
		r.logger.Warn("could not load feedback", "user", userID, "err", err)
	}
	return profile
}

// candidatePool reads the catalog and, when it is small, enlarges it with
// search results.
func (r *Recommender) candidatePool(ctx context.Context, query string) []*core.Book {
	pool, err := r.catalog.FindMany(ctx, storage.CatalogFilter{Limit: CatalogFetchLimit})
	if err != nil {
		r.logger.Error("could not read catalog", "err", err)
		pool = nil
	}

	if r.searcher == nil {
		return pool
	}

	count, err := r.catalog.CountAll(ctx)
	if err != nil {
		r.logger.Error("could not count catalog", "err", err)
		return pool
	}
	if count >= MinCatalogSize {
		return pool
	}

	r.logger.Info("catalog is small, searching for more books", "count", count)
	found, err := r.searcher.Search(ctx, query, SearchLimit)
	if err != nil {
		r.logger.Warn("book search failed", "err", err)
		return pool
	}
	inserted, err := r.merger.Merge(ctx, found)
	if err != nil {
		r.logger.Warn("could not merge search results", "err", err)
	}
	return append(pool, inserted...)
}

// exclude drops shelved books and books rejected in this session.
func exclude(pool []*core.Book, profile selection.Profile) []*core.Book {
	var rejected []string
	if profile.Session != nil {
		rejected = profile.Session.RejectedBookIDs
	}

	out := make([]*core.Book, 0, len(pool))
	for _, book := range pool {
		if profile.Shelves != nil && profile.Shelves.Contains(book.ID) {
			continue
		}
		if slices.Contains(rejected, book.ID) {
			continue
		}
		out = append(out, book)
	}
	return out
}
