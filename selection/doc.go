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


// Package selection lets a completion model choose books from a numbered
// candidate list.
//
// The model is shown the candidates numbered from 1 together with a
// personalization block built from the reader's profile, and must answer
// with pairs of lines:
//
//	BOOK: 2
//	REASON: Great adventure.
//
// Parse maps the answer back onto the candidate list. PromptContext holds
// what was gathered about the reader; RenderPrompt decides how it is
// phrased.
package selection
