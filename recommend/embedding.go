package recommend

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/poiesic/libris/core"
	"github.com/poiesic/libris/similarity"
)

// recommendByEmbedding ranks candidates against the expanded query and
// explains each selected book. Output order is rank order.
func (r *Recommender) recommendByEmbedding(ctx context.Context, query string, books []*core.Book, rng *rand.Rand, monitor Monitor) ([]core.Recommendation, error) {
	candidates := r.ensureEmbeddings(ctx, books)
	if len(candidates) == 0 {
		return nil, nil
	}

	queryVec, err := r.expander.QueryEmbedding(ctx, query)
	if err != nil {
		return nil, err
	}

	rankOpts := []similarity.Option{similarity.WithRand(rng)}
	if !r.shuffle {
		rankOpts = append(rankOpts, similarity.WithoutShuffle())
	}
	ranking := similarity.Rank(queryVec, candidates, r.limit, rankOpts...)
	for _, id := range ranking.Skipped {
		r.logger.Warn("skipping candidate with incompatible embedding", "book", id)
	}
	monitor.AfterRanking(ranking.Results)

	explanations := make([]string, len(ranking.Results))
	err = r.forEach(len(ranking.Results), func(i int) {
		explanations[i] = r.explainer.Explain(ctx, query, ranking.Results[i].Book)
	})
	if err != nil {
		return nil, err
	}

	recs := make([]core.Recommendation, len(ranking.Results))
	for i, scored := range ranking.Results {
		recs[i] = core.Recommendation{
			Book:        scored.Book.View(),
			Explanation: explanations[i],
			Similarity:  scored.Similarity,
		}
	}
	return recs, nil
}

// ensureEmbeddings pairs books with their embeddings, computing and storing
// missing ones. Books whose embedding cannot be computed are left out.
func (r *Recommender) ensureEmbeddings(ctx context.Context, books []*core.Book) []similarity.Candidate {
	vectors := make([][]float32, len(books))
	var missing []int
	for i, book := range books {
		if book.HasEmbedding() {
			vectors[i] = book.Embedding
		} else {
			missing = append(missing, i)
		}
	}

	if len(missing) > 0 {
		r.logger.Debug("embedding candidates", "count", len(missing))
		err := r.forEach(len(missing), func(j int) {
			book := books[missing[j]]
			vec, err := r.embedder.EmbedBook(ctx, book)
			if err != nil {
				r.logger.Warn("could not embed candidate", "book", book.ID, "err", err)
				return
			}
			if err := r.catalog.UpdateEmbedding(ctx, book.ID, vec); err != nil {
				r.logger.Warn("could not store embedding", "book", book.ID, "err", err)
			}
			vectors[missing[j]] = vec
		})
		if err != nil {
			r.logger.Error("could not schedule embeddings", "err", err)
		}
	}

	candidates := make([]similarity.Candidate, 0, len(books))
	for i, book := range books {
		if vectors[i] != nil {
			candidates = append(candidates, similarity.Candidate{Book: book, Embedding: vectors[i]})
		}
	}
	return candidates
}

// forEach runs fn(0..n-1) on the worker pool and waits for all of them.
func (r *Recommender) forEach(n int, fn func(i int)) error {
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		if err := r.pool.Submit(func() {
			defer wg.Done()
			fn(i)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return err
		}
	}
	wg.Wait()
	return nil
}
