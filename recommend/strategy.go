package recommend

import (
	"fmt"
	"strings"
)

// Strategy selects how candidates are chosen.
type Strategy string

const (
	// StrategyEmbedding ranks candidates by semantic similarity.
	StrategyEmbedding Strategy = "embedding"

	// StrategyLLMSelection lets the completion model pick from a numbered list.
	StrategyLLMSelection Strategy = "llm-selection"
)

// ParseStrategy resolves a strategy name. The empty string selects
// StrategyEmbedding.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(name))) {
	case "", StrategyEmbedding:
		return StrategyEmbedding, nil
	case StrategyLLMSelection, "llm":
		return StrategyLLMSelection, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}
