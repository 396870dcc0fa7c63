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


package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/libris/ai"
	"github.com/poiesic/libris/recommend"
	"github.com/urfave/cli/v2"
)

func main() {
	// A missing .env is fine; flags and the environment still apply.
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "libris",
		Usage: "Semantic book recommendations from a local catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory",
				Value:   "libris.db",
				EnvVars: []string{"LIBRIS_DB"},
			},
			&cli.StringFlag{
				Name:    "host",
				Usage:   "OpenAI-compatible host for both embeddings and completions",
				EnvVars: []string{"LIBRIS_HOST"},
			},
			&cli.StringFlag{
				Name:    "embedding-host",
				Usage:   "Embedding service host URL (overrides --host)",
				EnvVars: []string{"LIBRIS_EMBEDDING_HOST"},
			},
			&cli.StringFlag{
				Name:    "completion-host",
				Usage:   "Completion service host URL (overrides --host)",
				EnvVars: []string{"LIBRIS_COMPLETION_HOST"},
			},
			&cli.StringFlag{
				Name:    "embedding-model",
				Usage:   "Embedding model name",
				EnvVars: []string{"LIBRIS_EMBEDDING_MODEL"},
			},
			&cli.StringFlag{
				Name:    "completion-model",
				Usage:   "Completion model name",
				EnvVars: []string{"LIBRIS_COMPLETION_MODEL"},
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "API key for the AI services",
				EnvVars: []string{"LIBRIS_API_KEY", "OPENAI_API_KEY"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "recommend",
				Usage:     "Recommend books for a free-text query",
				ArgsUsage: "<query>",
				Action:    recommendCommand,
				Flags: []cli.Flag{
					strategyFlag(),
					userFlag(),
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Number of recommendations",
						Value:   recommend.DefaultLimit,
					},
					searchFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the result as JSON",
					},
				},
			},
			{
				Name:      "seed",
				Usage:     "Import books from a JSON file (or the built-in sample set) and embed them",
				ArgsUsage: "[file]",
				Action:    seedCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of books embedded per request",
						Value: 16,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent embedding batches",
						Value: 4,
					},
				},
			},
			{
				Name:   "backfill",
				Usage:  "Embed catalog books that have no embedding",
				Action: backfillCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Re-embed every book, including those already embedded",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of books to process in each batch",
						Value: 32,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N books",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
			{
				Name:      "shelve",
				Usage:     "Place a book on a shelf (read, toRead, reading, favorites)",
				ArgsUsage: "<book-id> <shelf>",
				Action:    shelveCommand,
				Flags:     []cli.Flag{userFlag()},
			},
			{
				Name:      "unshelve",
				Usage:     "Remove a book from the read, toRead and reading shelves",
				ArgsUsage: "<book-id>",
				Action:    unshelveCommand,
				Flags:     []cli.Flag{userFlag()},
			},
			{
				Name:      "rate",
				Usage:     "Rate a book from 1 to 5 stars",
				ArgsUsage: "<book-id> <stars>",
				Action:    rateCommand,
				Flags:     []cli.Flag{userFlag()},
			},
			{
				Name:  "feedback",
				Usage: "Record or list recommendation feedback",
				Subcommands: []*cli.Command{
					{
						Name:   "add",
						Usage:  "Record feedback on a set of recommendations",
						Action: addFeedbackCommand,
						Flags: []cli.Flag{
							userFlag(),
							&cli.StringFlag{
								Name:     "query",
								Usage:    "Query the recommendations answered",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "sentiment",
								Usage: "liked or disliked",
								Value: "liked",
							},
							&cli.StringSliceFlag{
								Name:     "book",
								Usage:    "Recommended book id (repeatable)",
								Required: true,
							},
							&cli.StringSliceFlag{
								Name:  "reason",
								Usage: "Reason for the feedback (repeatable)",
							},
							&cli.StringFlag{
								Name:  "comment",
								Usage: "Free-form feedback",
							},
						},
					},
					{
						Name:   "list",
						Usage:  "List recent feedback, newest first",
						Action: listFeedbackCommand,
						Flags: []cli.Flag{
							userFlag(),
							&cli.IntFlag{
								Name:  "limit",
								Usage: "Maximum number of records",
								Value: 20,
							},
						},
					},
				},
			},
			{
				Name:   "prefs",
				Usage:  "Show or set reading preferences",
				Action: prefsCommand,
				Flags: []cli.Flag{
					userFlag(),
					&cli.StringSliceFlag{
						Name:  "genre",
						Usage: "Favorite genre (repeatable)",
					},
					&cli.StringFlag{
						Name:  "length",
						Usage: "Preferred length (short, medium, long, any)",
					},
					&cli.StringSliceFlag{
						Name:  "warning",
						Usage: "Content warning to avoid (repeatable)",
					},
					&cli.StringFlag{
						Name:  "language",
						Usage: "Preferred language",
					},
					&cli.IntFlag{
						Name:  "goal",
						Usage: "Yearly reading goal",
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Serve the HTTP API",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "addr",
						Usage:   "Listen address",
						Value:   ":8080",
						EnvVars: []string{"LIBRIS_ADDR"},
					},
					strategyFlag(),
					searchFlag(),
				},
			},
		},
	}
}

func strategyFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "strategy",
		Aliases: []string{"s"},
		Usage:   "Recommendation strategy (embedding, llm-selection)",
		Value:   string(recommend.StrategyEmbedding),
		EnvVars: []string{"LIBRIS_STRATEGY"},
	}
}

func userFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "user",
		Aliases: []string{"u"},
		Usage:   "User id",
		Value:   "default",
		EnvVars: []string{"LIBRIS_USER"},
	}
}

func searchFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "search",
		Usage: "Top up a small catalog from Open Library",
	}
}

// aiConfig maps the global flags onto an ai.Config. Unset flags keep the defaults.
func aiConfig(c *cli.Context) *ai.Config {
	var opts []ai.ConfigOption
	if host := c.String("host"); host != "" {
		opts = append(opts, ai.WithHost(host))
	}
	if host := c.String("embedding-host"); host != "" {
		opts = append(opts, ai.WithEmbeddingHost(host))
	}
	if host := c.String("completion-host"); host != "" {
		opts = append(opts, ai.WithCompletionHost(host))
	}
	if model := c.String("embedding-model"); model != "" {
		opts = append(opts, ai.WithEmbeddingModel(model))
	}
	if model := c.String("completion-model"); model != "" {
		opts = append(opts, ai.WithCompletionModel(model))
	}
	if key := c.String("api-key"); key != "" {
		opts = append(opts, ai.WithAPIKey(key))
	}
	return ai.NewConfig(opts...)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
