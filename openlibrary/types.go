package openlibrary

import (
	"github.com/goccy/go-json"
)

// searchResponse is the body of /search.json.
type searchResponse struct {
	NumFound int         `json:"numFound"`
	Docs     []searchDoc `json:"docs"`
}

// searchDoc is a single work returned by /search.json.
type searchDoc struct {
	Key          string   `json:"key"`
	Title        string   `json:"title"`
	AuthorName   []string `json:"author_name"`
	Subject      []string `json:"subject"`
	CoverID      int64    `json:"cover_i"`
	EditionCount int      `json:"edition_count"`
}

// work is the body of /works/<id>.json.
type work struct {
	Title       string          `json:"title"`
	Description json.RawMessage `json:"description"`
	Subjects    []string        `json:"subjects"`
}

// description extracts the work description, which Open Library serves
// either as a plain string or as {"type": ..., "value": ...}.
func (w *work) description() string {
	if len(w.Description) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(w.Description, &text); err == nil {
		return text
	}
	var typed struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(w.Description, &typed); err == nil {
		return typed.Value
	}
	return ""
}
