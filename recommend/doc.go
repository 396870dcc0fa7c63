// Package recommend turns a free-text request into a curated list of book
// recommendations.
//
// A Recommender gathers the reader's shelves, ratings, preferences and
// feedback, builds a candidate pool from the catalog (enlarging a small
// catalog through a BookSearcher), removes every shelved book and then runs
// one of two strategies:
//
//   - StrategyEmbedding embeds the expanded query, ranks candidates by boosted
//     cosine similarity with author diversity, and explains each pick.
//   - StrategyLLMSelection lists the candidates in a prompt together with the
//     reader's context and parses the model's BOOK/REASON picks.
//
// When a strategy fails or selects nothing, a random selection from the
// candidate pool is returned instead, with placeholder similarity values.
// Only validation errors are returned to the caller.
package recommend
