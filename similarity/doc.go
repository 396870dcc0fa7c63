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


// Package similarity scores catalog books against a query embedding.
//
// Scoring multiplies the cosine similarity between the query and a book's
// embedding by (1 + SemanticBoost), where the boost is a bounded heuristic
// over catalog quality signals: cover art, description richness, genre
// coverage and a handful of vocabulary cues.
//
// Rank turns scores into a recommendation set:
//
//  1. Candidates passing MeetsQualityThreshold are preferred when there are
//     at least limit of them.
//  2. Candidates are sorted by boosted score and the top 3×limit kept.
//  3. A greedy pass picks at most one book per author, then a fill pass
//     tops the set up from the shortlist.
//  4. The selection is shuffled so near-ties do not always surface in the
//     same order. Use WithoutShuffle to keep rank order.
//
// Callers must not depend on the order of Ranking.Results unless shuffling
// is disabled.
package similarity
