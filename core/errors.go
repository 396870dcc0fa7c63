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


package core

import "errors"

// Domain validation errors
var (
	// ErrValidation is the root of every input validation failure.
	// Callers surface it as a client error.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyQuery indicates a recommendation query was blank.
	ErrEmptyQuery = errors.New("query is required")

	// ErrInvalidBook indicates a Book failed validation.
	ErrInvalidBook = errors.New("invalid book")

	// ErrInvalidRating indicates a Rating failed validation.
	ErrInvalidRating = errors.New("invalid rating")

	// ErrInvalidPreferences indicates Preferences failed validation.
	ErrInvalidPreferences = errors.New("invalid preferences")

	// ErrInvalidFeedback indicates a FeedbackRecord failed validation.
	ErrInvalidFeedback = errors.New("invalid feedback")

	// ErrInvalidShelf indicates an unknown shelf name.
	ErrInvalidShelf = errors.New("invalid shelf")
)

// ErrDimensionMismatch indicates two embedding vectors of different lengths were compared.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")
