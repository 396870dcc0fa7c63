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


// Package semantic turns free-text reader requests and catalog books into
// text suitable for embedding, and produces natural-language explanations
// for recommendations.
//
// Queries are never embedded verbatim. The Expander first asks a
// completion model to restate the request as abstract themes, falling back
// to a fixed keyword table when the model is unavailable, and embeds only
// that restatement. Books are embedded through BookText, which enriches the
// catalog fields with themes, mood and reader intent derived from genres
// and description keywords.
package semantic
