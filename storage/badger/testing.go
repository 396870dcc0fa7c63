package badger

// NewMemoryRepositories creates in-memory catalog and profile repositories for testing.
// Returns catalog, profiles, backend, and error.
// Caller must close the backend when done.
func NewMemoryRepositories() (*CatalogRepository, *ProfileRepository, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, nil, err
	}

	return NewCatalogRepository(backend), NewProfileRepository(backend), backend, nil
}
