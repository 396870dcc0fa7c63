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


package openlibrary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/poiesic/libris/core"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public Open Library API.
	DefaultBaseURL = "https://openlibrary.org"

	// DefaultCoversURL serves cover images by cover id.
	DefaultCoversURL = "https://covers.openlibrary.org"

	// DefaultInterval is the minimum spacing between requests.
	DefaultInterval = 100 * time.Millisecond

	// MaxGenres caps the subjects copied onto a book.
	MaxGenres = 5
)

// Client searches Open Library.
type Client struct {
	baseURL    string
	coversURL  string
	interval   time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[[]byte]
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client) error

// WithBaseURL points the client at a different API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) error {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
		return nil
	}
}

// WithCoversURL points cover URLs at a different image host.
func WithCoversURL(coversURL string) Option {
	return func(c *Client) error {
		c.coversURL = strings.TrimSuffix(coversURL, "/")
		return nil
	}
}

// WithInterval sets the minimum spacing between requests. Zero disables throttling.
func WithInterval(interval time.Duration) Option {
	return func(c *Client) error {
		if interval < 0 {
			return ErrInvalidInterval
		}
		c.interval = interval
		return nil
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) error {
		c.httpClient = httpClient
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewClient creates a new Open Library client.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:   DefaultBaseURL,
		coversURL: DefaultCoversURL,
		interval:  DefaultInterval,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	c.logger = c.logger.With("component", "openlibrary")

	limit := rate.Inf
	if c.interval > 0 {
		limit = rate.Every(c.interval)
	}
	c.limiter = rate.NewLimiter(limit, 1)

	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "openlibrary",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state changed", "from", from.String(), "to", to.String())
		},
	})
	return c, nil
}

// Search finds popular books matching query and converts them into catalog
// entries. Only works with a cover, a title, an author and more than one
// edition are kept, most editions first. A work whose details cannot be
// fetched is still returned with a generated description.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]core.Book, error) {
	docs, err := c.search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	books := make([]core.Book, 0, len(docs))
	for i := range docs {
		if err := ctx.Err(); err != nil {
			return books, err
		}
		books = append(books, c.convert(ctx, &docs[i]))
	}

	c.logger.Debug("search complete", "query", query, "books", len(books))
	return books, nil
}

// CoverURL returns the large cover image URL for a cover id.
func (c *Client) CoverURL(coverID int64) string {
	return fmt.Sprintf("%s/b/id/%d-L.jpg", c.coversURL, coverID)
}

func (c *Client) search(ctx context.Context, query string, limit int) ([]searchDoc, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("sort", "edition_count")

	body, err := c.get(ctx, c.baseURL+"/search.json?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}

	docs := slices.DeleteFunc(resp.Docs, func(d searchDoc) bool {
		return d.CoverID == 0 || d.Title == "" || len(d.AuthorName) == 0 || d.EditionCount <= 1
	})
	slices.SortStableFunc(docs, func(a, b searchDoc) int {
		return b.EditionCount - a.EditionCount
	})
	return docs, nil
}

func (c *Client) work(ctx context.Context, key string) (*work, error) {
	body, err := c.get(ctx, c.baseURL+key+".json")
	if err != nil {
		return nil, err
	}
	var w work
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("parse work %s: %w", key, err)
	}
	return &w, nil
}

func (c *Client) convert(ctx context.Context, doc *searchDoc) core.Book {
	details, err := c.work(ctx, doc.Key)
	if err != nil {
		c.logger.Warn("could not fetch work details", "key", doc.Key, "error", err)
	}

	title := doc.Title
	author := doc.AuthorName[0]

	var genres []string
	switch {
	case len(doc.Subject) > 0:
		genres = doc.Subject[:min(MaxGenres, len(doc.Subject))]
	case details != nil && len(details.Subjects) > 0:
		genres = details.Subjects[:min(MaxGenres, len(details.Subjects))]
	}

	description := "A book by " + author
	if details != nil {
		description = details.description()
	}
	if description == "" {
		description = fmt.Sprintf("A book titled %q by %s", title, author)
	}

	return core.Book{
		ID:            strings.TrimPrefix(doc.Key, "/works/"),
		Title:         title,
		Author:        author,
		Genres:        slices.Clone(genres),
		Description:   description,
		CoverURL:      c.CoverURL(doc.CoverID),
		OpenLibraryID: doc.Key,
	}
}

// get performs a throttled GET through the circuit breaker.
func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	return c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
		}

		var raw json.RawMessage
		if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		return raw, nil
	})
}
