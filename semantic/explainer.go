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


package semantic

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/libris/ai"
	"github.com/poiesic/libris/core"
)

const (
	// ErrorExplanation is used when the completion call fails.
	ErrorExplanation = "This book was recommended based on its similarity to your preferences."

	// EmptyExplanation is used when the completion call returns no text.
	EmptyExplanation = "This book matches your interests based on similar themes and style."
)

var explanationParams = ai.CompletionParams{Temperature: 0.7, MaxTokens: 150}

// Explainer writes short explanations of why a book fits a request.
type Explainer struct {
	completer ai.Completer
	logger    *slog.Logger
}

// NewExplainer creates an explainer.
func NewExplainer(completer ai.Completer, opts ...Option) (*Explainer, error) {
	if completer == nil {
		return nil, ErrCompleterRequired
	}

	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	return &Explainer{
		completer: completer,
		logger:    cfg.logger.With("component", "explainer"),
	}, nil
}

// Explain returns a 2-3 sentence explanation starting with
// "We recommended this because". It never fails: a completion error yields
// ErrorExplanation and an empty answer yields EmptyExplanation.
func (e *Explainer) Explain(ctx context.Context, query string, book *core.Book) string {
	prompt := fmt.Sprintf(explanationPromptTemplate,
		query,
		book.Title,
		book.Author,
		book.Description,
		strings.Join(book.Genres, ", "),
	)

	text, err := e.completer.Complete(ctx, prompt, explanationParams)
	if err != nil {
		e.logger.Warn("explanation failed", "book", book.ID, "err", err)
		return ErrorExplanation
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return EmptyExplanation
	}
	return text
}
