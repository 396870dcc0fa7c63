package semantic

import "log/slog"

type config struct {
	logger *slog.Logger
}

// Option configures the types in this package.
type Option func(*config) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

func applyOptions(opts []Option) (*config, error) {
	c := &config{logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}
