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
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/poiesic/libris/core"
)

// MaxPicks is the number of selections requested from the model and the
// most Parse will return.
const MaxPicks = 6

var pickPattern = regexp.MustCompile(`(?i)BOOK:\s*#?(\d+)[^\n]*?\s*REASON:[ \t]*([^\r\n]*)`)

// Pick is a candidate chosen by the model.
type Pick struct {
	// Index is the 0-based position of Book in the candidate list.
	Index  int
	Book   *core.Book
	Reason string
}

// Parser extracts picks from model responses.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a parser that logs dropped selections to logger.
// A nil logger uses slog.Default().
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger.With("component", "selection-parser")}
}

// Parse is shorthand for NewParser(nil).Parse.
func Parse(text string, candidates []*core.Book) ([]Pick, error) {
	return NewParser(nil).Parse(text, candidates)
}

// Parse extracts BOOK/REASON pairs from text in order, keeping the first
// MaxPicks. Book numbers are 1-indexed into candidates; zero, out-of-range
// and repeated numbers are dropped. ErrNoSelections is returned when no
// pick survives.
func (p *Parser) Parse(text string, candidates []*core.Book) ([]Pick, error) {
	matches := pickPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil, ErrNoSelections
	}
	if len(matches) > MaxPicks {
		matches = matches[:MaxPicks]
	}

	picks := make([]Pick, 0, len(matches))
	chosen := make(map[int]bool, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 || n > len(candidates) {
			p.logger.Warn("dropping selection outside candidate list", "book", m[1], "candidates", len(candidates))
			continue
		}
		if chosen[n] {
			p.logger.Warn("dropping repeated selection", "book", n)
			continue
		}
		chosen[n] = true
		picks = append(picks, Pick{
			Index:  n - 1,
			Book:   candidates[n-1],
			Reason: strings.TrimSpace(m[2]),
		})
	}

	if len(picks) == 0 {
		return nil, fmt.Errorf("%w: all %d selections were invalid", ErrNoSelections, len(matches))
	}
	return picks, nil
}
