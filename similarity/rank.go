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


package similarity

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/poiesic/libris/core"
)

// ShortlistFactor sizes the shortlist relative to the requested limit.
const ShortlistFactor = 3

// Candidate pairs a catalog book with the embedding to score.
type Candidate struct {
	Book      *core.Book
	Embedding []float32
}

// Scored is a ranked candidate.
type Scored struct {
	Book *core.Book
	// Similarity is the raw cosine similarity to the query.
	Similarity float64
	// Boost is the SemanticBoost applied to the book.
	Boost float64
	// Score is Similarity * (1 + Boost), the value used for ordering.
	Score float64
}

// Ranking is the outcome of Rank.
type Ranking struct {
	Results []Scored
	// Skipped lists the ids of candidates whose embedding could not be
	// compared with the query.
	Skipped []string
}

type rankOptions struct {
	rng     *rand.Rand
	shuffle bool
}

// Option configures Rank.
type Option func(*rankOptions)

// WithRand makes the final shuffle use r.
func WithRand(r *rand.Rand) Option {
	return func(o *rankOptions) {
		o.rng = r
	}
}

// WithoutShuffle returns the selection in score order.
func WithoutShuffle() Option {
	return func(o *rankOptions) {
		o.shuffle = false
	}
}

// Rank selects at most limit candidates for query. It never returns a
// book twice and never returns a book outside candidates.
func Rank(query []float32, candidates []Candidate, limit int, opts ...Option) Ranking {
	options := rankOptions{shuffle: true}
	for _, opt := range opts {
		opt(&options)
	}

	var ranking Ranking
	if limit <= 0 || len(candidates) == 0 {
		return ranking
	}

	pool := preferQuality(candidates, limit)

	scored := make([]Scored, 0, len(pool))
	seen := make(map[string]bool, len(pool))
	for _, c := range pool {
		if c.Book == nil || seen[c.Book.ID] {
			continue
		}
		sim, err := CosineSimilarity(query, c.Embedding)
		if err != nil || math.IsNaN(sim) {
			ranking.Skipped = append(ranking.Skipped, c.Book.ID)
			continue
		}
		seen[c.Book.ID] = true
		boost := SemanticBoost(c.Book)
		scored = append(scored, Scored{
			Book:       c.Book,
			Similarity: sim,
			Boost:      boost,
			Score:      sim * (1 + boost),
		})
	}

	slices.SortStableFunc(scored, func(a, b Scored) int {
		return cmp.Compare(b.Score, a.Score)
	})

	shortlist := scored[:min(ShortlistFactor*limit, len(scored))]
	ranking.Results = diversify(shortlist, limit)

	if options.shuffle {
		shuffle(ranking.Results, options.rng)
	}
	return ranking
}

// preferQuality narrows candidates to those passing the quality gate when
// there are enough of them to fill limit.
func preferQuality(candidates []Candidate, limit int) []Candidate {
	quality := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if MeetsQualityThreshold(c.Book) {
			quality = append(quality, c)
		}
	}
	if len(quality) >= limit {
		return quality
	}
	return candidates
}

// diversify picks one book per author in shortlist order, then fills the
// remaining slots from the shortlist regardless of author.
func diversify(shortlist []Scored, limit int) []Scored {
	selected := make([]Scored, 0, min(limit, len(shortlist)))
	picked := make(map[string]bool, len(shortlist))
	authors := make(map[string]bool, len(shortlist))

	for _, s := range shortlist {
		if len(selected) >= limit {
			break
		}
		author := authorKey(s.Book.Author)
		if authors[author] {
			continue
		}
		authors[author] = true
		picked[s.Book.ID] = true
		selected = append(selected, s)
	}

	for _, s := range shortlist {
		if len(selected) >= limit {
			break
		}
		if picked[s.Book.ID] {
			continue
		}
		picked[s.Book.ID] = true
		selected = append(selected, s)
	}

	return selected
}

func authorKey(author string) string {
	return strings.ToLower(strings.TrimSpace(author))
}

func shuffle(results []Scored, rng *rand.Rand) {
	swap := func(i, j int) { results[i], results[j] = results[j], results[i] }
	if rng != nil {
		rng.Shuffle(len(results), swap)
		return
	}
	rand.Shuffle(len(results), swap)
}
