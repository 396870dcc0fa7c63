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


package selection

import (
	"fmt"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/poiesic/libris/core"
)

// SnippetLength is the number of description characters shown per candidate.
const SnippetLength = 80

const promptText = `You are an expert librarian choosing books for a reader.

Reader request: "{{.Query}}"
{{with .Preferences}}
Reader preferences:
{{- if .FavoriteGenres}}
- Favorite genres: {{join .FavoriteGenres ", "}}{{end}}
{{- if .PreferredLength}}
- Preferred length: {{.PreferredLength}}{{end}}
{{- if .ContentWarnings}}
- Avoid content involving: {{join .ContentWarnings ", "}}{{end}}
{{- if .Language}}
- Language: {{.Language}}{{end}}
{{- if gt .ReadingGoal 0}}
- Reading goal: {{.ReadingGoal}} books this year{{end}}
{{end}}
{{- if .History}}
Reading history:
{{- range .History}}
- "{{.Title}}" by {{.Author}} ({{.Shelf}}{{if gt .Rating 0}}, rated {{.Rating}}/5{{end}}){{end}}
{{end}}
{{- with .Ratings}}{{if gt .Count 0}}
Ratings: {{.Count}} books rated, average {{printf "%.1f" .Average}}/5
{{- if .Loved}}
- Loved: {{join .Loved ", "}}{{end}}
{{- if .Disliked}}
- Disliked: {{join .Disliked ", "}}{{end}}
{{end}}{{end}}
{{- if .PastFeedback}}
Earlier recommendations the reader was unhappy with:
{{- range .PastFeedback}}
- For "{{.Query}}"{{if .Reasons}}: {{join .Reasons ", "}}{{end}}{{if .Comment}} ({{.Comment}}){{end}}{{end}}
{{end}}
{{- with .Session}}
The reader rejected the last suggestions in this session.
{{- if .Reasons}}
- Reasons: {{join .Reasons ", "}}{{end}}
{{- if .Comment}}
- Comment: {{.Comment}}{{end}}
{{- if .Rejected}}
- Rejected books: {{join .Rejected ", "}}{{end}}
{{end}}
Available books:
{{- range $i, $b := .Candidates}}
{{inc $i}}. "{{$b.Title}}" by {{$b.Author}}{{if $b.Genres}} [{{join $b.Genres ", "}}]{{end}} - {{snippet $b.Description}}{{end}}

Choose exactly {{.Picks}} books from the list that best fit the request and the reader's history. Do not choose books the reader has already read or rejected. Answer with {{.Picks}} pairs of lines in this exact format and nothing else:

BOOK: <number from the list>
REASON: <one sentence explaining the fit>
`

var promptTemplate = template.Must(template.New("selection").Funcs(template.FuncMap{
	"join":    strings.Join,
	"inc":     func(i int) int { return i + 1 },
	"snippet": snippet,
}).Parse(promptText))

type promptData struct {
	PromptContext
	Candidates []*core.Book
	Picks      int
}

// RenderPrompt phrases pc and the numbered candidates as a selection prompt.
// Candidates are numbered from 1 in slice order, matching Parse.
func RenderPrompt(pc PromptContext, candidates []*core.Book) (string, error) {
	var sb strings.Builder
	err := promptTemplate.Execute(&sb, promptData{
		PromptContext: pc,
		Candidates:    candidates,
		Picks:         MaxPicks,
	})
	if err != nil {
		return "", fmt.Errorf("rendering selection prompt: %w", err)
	}
	return sb.String(), nil
}

func snippet(description string) string {
	description = strings.Join(strings.Fields(description), " ")
	if utf8.RuneCountInString(description) <= SnippetLength {
		return description
	}
	runes := []rune(description)
	return string(runes[:SnippetLength]) + "..."
}
