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


// Package ai provides abstractions for the AI services used by Libris.
//
// The package defines three interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - Completer: Produces free-text completions for a prompt
//   - AIProvider: Aggregates both for convenient initialization
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors in ai/openai return interface types. Constructors in
// ai/mock return concrete types so tests can inject behavior and inspect
// call counts.
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithAPIKey(os.Getenv("OPENAI_API_KEY")))
//	provider, err := openai.NewProvider(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vec, err := provider.Embedder().EmbedText(ctx, "Themes and concepts: hope, renewal")
//	text, err := provider.Completer().Complete(ctx, prompt, ai.CompletionParams{Temperature: 0.7, MaxTokens: 150})
package ai
