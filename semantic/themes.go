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

import "strings"

// Theme strings returned by DefaultThemes.
const (
	UpliftingThemes = "uplifting fiction, feel-good stories, positive psychology, inspirational content, heartwarming narratives, comedy, romance with happy endings, personal growth, motivational literature"
	RomanceThemes   = "romantic fiction, love stories, relationship narratives, emotional connection, heartwarming romance, contemporary romance, romantic comedy"
	AdventureThemes = "adventure fiction, thrilling narratives, exploration stories, quest narratives, action-packed novels, heroic journeys"
	GrowthThemes    = "personal development, self-improvement, educational content, skill building, motivational literature, inspirational biographies"
	GenericThemes   = "engaging narratives, meaningful stories, character development, emotional depth, thought-provoking content, well-crafted fiction"
)

type themeRule struct {
	triggers []string
	themes   string
}

// Checked in order; the first rule with a matching trigger wins.
var themeRules = []themeRule{
	{[]string{"happy", "joy", "good"}, UpliftingThemes},
	{[]string{"love", "romance"}, RomanceThemes},
	{[]string{"adventure", "exciting"}, AdventureThemes},
	{[]string{"learn", "grow"}, GrowthThemes},
}

// DefaultThemes maps a query to a fixed theme string by substring match on
// the lowercased query. It is used when query expansion is unavailable.
func DefaultThemes(query string) string {
	q := strings.ToLower(query)
	for _, rule := range themeRules {
		for _, trigger := range rule.triggers {
			if strings.Contains(q, trigger) {
				return rule.themes
			}
		}
	}
	return GenericThemes
}
