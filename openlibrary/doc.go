// Package openlibrary searches the Open Library catalog for books and
// converts the results into catalog entries.
//
// Requests are spaced by a rate limiter and guarded by a circuit breaker so a
// failing upstream is not hammered while the recommendation path falls back
// to the local catalog.
package openlibrary
