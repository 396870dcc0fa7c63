package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/poiesic/libris"
	"github.com/poiesic/libris/backfill"
	"github.com/poiesic/libris/core"
	"github.com/poiesic/libris/ingestion"
	"github.com/poiesic/libris/openlibrary"
	"github.com/poiesic/libris/recommend"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 10 * time.Second

// openLibrary is swapped out in tests.
var openLibrary = func(c *cli.Context) (*libris.Library, error) {
	lib, err := libris.OpenLibrary(c.String("db"), libris.WithAIConfig(aiConfig(c)))
	if err != nil {
		return nil, fmt.Errorf("failed to open library: %w", err)
	}
	return lib, nil
}

func recommenderOptions(c *cli.Context) ([]recommend.Option, error) {
	strategy, err := recommend.ParseStrategy(c.String("strategy"))
	if err != nil {
		return nil, err
	}
	opts := []recommend.Option{recommend.WithStrategy(strategy)}
	if c.IsSet("limit") {
		opts = append(opts, recommend.WithLimit(c.Int("limit")))
	}
	if c.Bool("search") {
		client, err := openlibrary.NewClient()
		if err != nil {
			return nil, err
		}
		opts = append(opts, recommend.WithSearcher(client))
	}
	return opts, nil
}

func recommendCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("a query is required")
	}
	opts, err := recommenderOptions(c)
	if err != nil {
		return err
	}

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	r, err := lib.NewRecommender(opts...)
	if err != nil {
		return err
	}
	defer r.Release()

	result, err := r.Recommend(c.Context, recommend.Request{UserID: c.String("user"), Query: query})
	if err != nil {
		return fmt.Errorf("recommendation failed: %w", err)
	}

	out := c.App.Writer
	if c.Bool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	if result.Total == 0 {
		fmt.Fprintln(out, "No recommendations. Seed the catalog first.")
		return nil
	}
	for i, rec := range result.Recommendations {
		fmt.Fprintf(out, "%d. %s by %s (%.2f)\n", i+1, rec.Book.Title, rec.Book.Author, rec.Similarity)
		fmt.Fprintf(out, "   [%s] %s\n", rec.Book.ID, rec.Explanation)
	}
	if result.Fallback {
		fmt.Fprintln(out, "(random fallback selection)")
	}
	return nil
}

func seedCommand(c *cli.Context) error {
	books := ingestion.SampleBooks()
	if path := c.Args().First(); path != "" {
		var err error
		books, err = ingestion.LoadSeedFile(path)
		if err != nil {
			return err
		}
	}

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	pipeline, err := lib.NewIngestionPipeline(
		ingestion.WithBatchSize(c.Int("batch-size")),
		ingestion.WithPoolSize(c.Int("workers")),
	)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	inserted, err := pipeline.Ingest(c.Context, books)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	pipeline.Wait()

	fmt.Fprintf(c.App.Writer, "Inserted %d of %d books\n", inserted, len(books))
	return nil
}

func backfillCommand(c *cli.Context) error {
	config := &backfill.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
		Force:          c.Bool("force"),
	}
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	b, err := lib.NewBackfiller(config, c.App.ErrWriter)
	if err != nil {
		return err
	}
	if _, err := b.Run(c.Context); err != nil {
		return fmt.Errorf("backfill failed: %w", err)
	}
	return nil
}

func parseShelf(name string) (core.Shelf, error) {
	switch strings.ToLower(name) {
	case "read":
		return core.ShelfRead, nil
	case "toread", "to-read":
		return core.ShelfToRead, nil
	case "reading":
		return core.ShelfReading, nil
	case "favorites", "favorite":
		return core.ShelfFavorites, nil
	}
	return "", fmt.Errorf("unknown shelf %q: must be one of read, toRead, reading, favorites", name)
}

func shelveCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: shelve <book-id> <shelf>")
	}
	shelf, err := parseShelf(c.Args().Get(1))
	if err != nil {
		return err
	}

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	return lib.ShelveBook(c.Context, c.String("user"), c.Args().Get(0), shelf)
}

func unshelveCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: unshelve <book-id>")
	}

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	return lib.UnshelveBook(c.Context, c.String("user"), c.Args().First())
}

func rateCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: rate <book-id> <stars>")
	}
	stars, err := strconv.Atoi(c.Args().Get(1))
	if err != nil {
		return fmt.Errorf("invalid rating %q: %w", c.Args().Get(1), err)
	}

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	return lib.RateBook(c.Context, c.String("user"), c.Args().First(), stars)
}

func addFeedbackCommand(c *cli.Context) error {
	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	record := &core.FeedbackRecord{
		Query:            c.String("query"),
		Sentiment:        core.Sentiment(strings.ToLower(c.String("sentiment"))),
		Reasons:          c.StringSlice("reason"),
		CustomFeedback:   c.String("comment"),
		RecommendedBooks: c.StringSlice("book"),
	}
	if err := lib.RecordFeedback(c.Context, c.String("user"), record); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, record.ID)
	return nil
}

func listFeedbackCommand(c *cli.Context) error {
	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	records, err := lib.Profiles().GetRecentFeedback(c.Context, c.String("user"), c.Int("limit"))
	if err != nil {
		return err
	}
	for _, r := range records {
		fmt.Fprintf(c.App.Writer, "%s  %-8s  %s  [%s]\n",
			r.CreatedAt.Local().Format(time.DateTime), r.Sentiment, r.Query, strings.Join(r.Reasons, ", "))
	}
	return nil
}

func prefsCommand(c *cli.Context) error {
	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	user := c.String("user")
	prefs, err := lib.Profiles().GetPreferences(c.Context, user)
	if err != nil {
		return err
	}
	if prefs == nil {
		prefs = &core.Preferences{}
	}

	changed := false
	if c.IsSet("genre") {
		prefs.FavoriteGenres = c.StringSlice("genre")
		changed = true
	}
	if c.IsSet("length") {
		prefs.PreferredLength = core.Length(strings.ToLower(c.String("length")))
		changed = true
	}
	if c.IsSet("warning") {
		prefs.ContentWarnings = c.StringSlice("warning")
		changed = true
	}
	if c.IsSet("language") {
		prefs.Language = c.String("language")
		changed = true
	}
	if c.IsSet("goal") {
		prefs.ReadingGoal = c.Int("goal")
		changed = true
	}
	if changed {
		if err := lib.SetPreferences(c.Context, user, prefs); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(prefs)
}

func serveCommand(c *cli.Context) error {
	opts, err := recommenderOptions(c)
	if err != nil {
		return err
	}

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	r, err := lib.NewRecommender(opts...)
	if err != nil {
		return err
	}
	defer r.Release()

	srv := &http.Server{
		Addr:              c.String("addr"),
		Handler:           lib.NewAPIServer(r).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(c.App.ErrWriter, "Listening on %s (strategy %s)\n", srv.Addr, r.Strategy())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
