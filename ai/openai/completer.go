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


package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/libris/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Completer implements ai.Completer using OpenAI-compatible chat APIs.
type Completer struct {
	client llms.Model
	logger *slog.Logger
}

// newCompleter is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newCompleter(config *ai.Config) (*Completer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.CompletionHost),
		openai.WithToken(config.Token()),
		openai.WithModel(config.CompletionModel),
	)
	if err != nil {
		return nil, err
	}

	return newCompleterFromModel(client), nil
}

// newCompleterFromModel wraps any langchaingo model.
func newCompleterFromModel(model llms.Model) *Completer {
	return &Completer{
		client: model,
		logger: slog.Default().With("component", "openai-completer"),
	}
}

// NewCompleter creates a new completer using the provided configuration.
//
// Returns ai.Completer interface to enforce abstraction.
func NewCompleter(config *ai.Config) (ai.Completer, error) {
	return newCompleter(config)
}

// Complete sends prompt as a single user message. The response is trimmed
// and stripped of markdown code fences; it may be empty.
func (c *Completer) Complete(ctx context.Context, prompt string, params ai.CompletionParams) (string, error) {
	opts := []llms.CallOption{llms.WithTemperature(params.Temperature)}
	if params.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(params.MaxTokens))
	}

	c.logger.Debug("requesting completion",
		"prompt_length", len(prompt),
		"temperature", params.Temperature,
		"max_tokens", params.MaxTokens)

	text, err := llms.GenerateFromSinglePrompt(ctx, c.client, prompt, opts...)
	if err != nil {
		c.logger.Error("failed to generate completion", "err", err)
		return "", fmt.Errorf("%w: %w", ai.ErrCompletion, err)
	}

	return cleanCompletion(text), nil
}
