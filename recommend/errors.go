package recommend

import "errors"

var (
	// ErrCatalogRequired is returned when a catalog repository is not provided.
	ErrCatalogRequired = errors.New("catalog repository required")

	// ErrProfilesRequired is returned when a profile repository is not provided.
	ErrProfilesRequired = errors.New("profile repository required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrUnknownStrategy is returned for an unrecognized strategy name.
	ErrUnknownStrategy = errors.New("unknown recommendation strategy")

	// ErrInvalidLimit is returned when the result limit is not positive.
	ErrInvalidLimit = errors.New("limit must be greater than 0")
)
