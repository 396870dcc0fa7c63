package ingestion

import "errors"

var (
	// ErrCatalogRequired is returned when a catalog repository is not provided.
	ErrCatalogRequired = errors.New("catalog repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrInvalidSeed is returned when seed data cannot be decoded.
	ErrInvalidSeed = errors.New("invalid seed data")
)
