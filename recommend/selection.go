package recommend

import (
	"context"
	"math/rand/v2"
	"strings"

	"github.com/poiesic/libris/ai"
	"github.com/poiesic/libris/core"
	"github.com/poiesic/libris/selection"
	"github.com/poiesic/libris/semantic"
)

// MaxPromptCandidates caps the books listed in a selection prompt.
const MaxPromptCandidates = 50

var selectionParams = ai.CompletionParams{Temperature: 0.7, MaxTokens: 800}

// recommendBySelection asks the completion model to pick from a numbered list
// of candidates. pool is the unfiltered pool, used to name shelved books.
func (r *Recommender) recommendBySelection(
	ctx context.Context,
	query string,
	profile selection.Profile,
	pool, candidates []*core.Book,
	rng *rand.Rand,
	monitor Monitor,
) ([]core.Recommendation, error) {
	listed := candidates
	if len(listed) > MaxPromptCandidates {
		listed = make([]*core.Book, len(candidates))
		copy(listed, candidates)
		rng.Shuffle(len(listed), func(i, j int) {
			listed[i], listed[j] = listed[j], listed[i]
		})
		listed = listed[:MaxPromptCandidates]
	}

	pc := selection.BuildPromptContext(query, profile, r.lookup(ctx, pool))
	prompt, err := selection.RenderPrompt(pc, listed)
	if err != nil {
		return nil, err
	}

	text, err := r.completer.Complete(ctx, prompt, selectionParams)
	if err != nil {
		return nil, err
	}

	picks, err := r.parser.Parse(text, listed)
	if err != nil {
		return nil, err
	}
	monitor.AfterSelection(picks)

	if len(picks) > r.limit {
		picks = picks[:r.limit]
	}
	recs := make([]core.Recommendation, len(picks))
	for i, pick := range picks {
		reason := strings.TrimSpace(pick.Reason)
		if reason == "" {
			reason = semantic.EmptyExplanation
		}
		recs[i] = core.Recommendation{
			Book:        pick.Book.View(),
			Explanation: reason,
			Similarity:  placeholderSimilarity(rng),
			Placeholder: true,
		}
	}
	return recs, nil
}

// lookup resolves ids from pool, falling back to the catalog.
func (r *Recommender) lookup(ctx context.Context, pool []*core.Book) selection.BookLookup {
	byID := make(map[string]*core.Book, len(pool))
	for _, book := range pool {
		byID[book.ID] = book
	}
	return func(id string) *core.Book {
		if book, ok := byID[id]; ok {
			return book
		}
		book, err := r.catalog.FindOne(ctx, id)
		if err != nil {
			return nil
		}
		byID[id] = book
		return book
	}
}
