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


// Package storage defines the persistence interfaces for Libris.
//
// Two repositories cover the stored state:
//
//   - CatalogRepository: catalog books and their embeddings
//   - ProfileRepository: per-user shelves, preferences, ratings and the
//     append-only recommendation feedback log
//
// Documents are serialized as JSON; embeddings are stored as packed
// little-endian float32 values next to the book they belong to.
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	catalog := badger.NewCatalogRepository(backend)
//	profiles := badger.NewProfileRepository(backend)
//
// Use in tests with in-memory storage:
//
//	catalog, profiles, backend, err := badger.NewMemoryRepositories()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
