package recommend

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/poiesic/libris/core"
)

const (
	placeholderMin   = 0.7
	placeholderRange = 0.3
)

// randomSelection picks min(limit, len(pool)) distinct books uniformly at
// random. Similarity values are placeholders, not computed scores.
func randomSelection(pool []*core.Book, limit int, rng *rand.Rand) []core.Recommendation {
	n := min(limit, len(pool))
	order := rng.Perm(len(pool))[:n]

	recs := make([]core.Recommendation, n)
	for i, idx := range order {
		book := pool[idx]
		recs[i] = core.Recommendation{
			Book:        book.View(),
			Explanation: fallbackExplanation(book),
			Similarity:  placeholderSimilarity(rng),
			Placeholder: true,
		}
	}
	return recs
}

// placeholderSimilarity draws a cosmetic similarity in [0.7, 1.0).
func placeholderSimilarity(rng *rand.Rand) float64 {
	return placeholderMin + rng.Float64()*placeholderRange
}

func fallbackExplanation(book *core.Book) string {
	if len(book.Genres) == 0 {
		return "We recommended this because it is a well-loved read worth discovering."
	}
	genres := book.Genres[:min(2, len(book.Genres))]
	return fmt.Sprintf("We recommended this because it is a popular %s pick that readers enjoy.",
		strings.ToLower(strings.Join(genres, " and ")))
}
