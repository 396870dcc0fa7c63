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
)

// QueryPrefix is prepended to the expanded themes before embedding.
const QueryPrefix = "Themes and concepts: "

// Expansion sampling parameters.
var expansionParams = ai.CompletionParams{Temperature: 0.8, MaxTokens: 150}

// Expander restates reader requests as abstract themes and embeds them.
type Expander struct {
	completer ai.Completer
	embedder  ai.Embedder
	logger    *slog.Logger
}

// NewExpander creates an expander.
func NewExpander(completer ai.Completer, embedder ai.Embedder, opts ...Option) (*Expander, error) {
	if completer == nil {
		return nil, ErrCompleterRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	return &Expander{
		completer: completer,
		embedder:  embedder,
		logger:    cfg.logger.With("component", "query-expander"),
	}, nil
}

// Expand asks the completion model for the themes, emotional needs and
// genres behind query. Any failure or blank answer yields DefaultThemes(query).
func (e *Expander) Expand(ctx context.Context, query string) string {
	prompt := fmt.Sprintf(expansionPromptTemplate, query)

	text, err := e.completer.Complete(ctx, prompt, expansionParams)
	if err != nil {
		e.logger.Warn("query expansion failed, using default themes", "err", err)
		return DefaultThemes(query)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		e.logger.Warn("query expansion returned nothing, using default themes")
		return DefaultThemes(query)
	}

	e.logger.Debug("expanded query", "query", query, "themes", text)
	return text
}

// QueryEmbedding embeds the expanded themes for query. The raw query text
// is never embedded.
func (e *Expander) QueryEmbedding(ctx context.Context, query string) ([]float32, error) {
	themes := e.Expand(ctx, query)

	vec, err := e.embedder.EmbedText(ctx, QueryPrefix+themes)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return vec, nil
}
