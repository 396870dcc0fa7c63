package recommend

import (
	"log/slog"
)

// Option configures a Recommender.
type Option func(*Recommender) error

// WithStrategy selects the recommendation strategy.
// Default is StrategyEmbedding.
func WithStrategy(strategy Strategy) Option {
	return func(r *Recommender) error {
		s, err := ParseStrategy(string(strategy))
		if err != nil {
			return err
		}
		r.strategy = s
		return nil
	}
}

// WithLimit sets how many books a request returns.
// Default is DefaultLimit.
func WithLimit(limit int) Option {
	return func(r *Recommender) error {
		if limit <= 0 {
			return ErrInvalidLimit
		}
		r.limit = limit
		return nil
	}
}

// WithConcurrency caps concurrent embedding and explanation calls.
// Default is DefaultConcurrency.
func WithConcurrency(n int) Option {
	return func(r *Recommender) error {
		if n < 1 {
			n = 1
		}
		r.concurrency = n
		return nil
	}
}

// WithSearcher enables catalog enlargement through searcher.
func WithSearcher(searcher BookSearcher) Option {
	return func(r *Recommender) error {
		r.searcher = searcher
		return nil
	}
}

// WithoutShuffle keeps ranked recommendations in score order.
func WithoutShuffle() Option {
	return func(r *Recommender) error {
		r.shuffle = false
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recommender) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}
