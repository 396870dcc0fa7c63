package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultThemes(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"I want to be happy", UpliftingThemes},
		{"something GOOD", UpliftingThemes},
		{"a love story", RomanceThemes},
		{"ROMANCE please", RomanceThemes},
		{"an exciting ride", AdventureThemes},
		{"help me grow", GrowthThemes},
		{"I want to learn", GrowthThemes},
		{"a rainy afternoon", GenericThemes},
		{"", GenericThemes},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultThemes(tt.query))
		})
	}
}

func TestDefaultThemes_FirstRuleWins(t *testing.T) {
	// Matches both the happy and love rules; happy is checked first.
	assert.Equal(t, UpliftingThemes, DefaultThemes("love stories with happy endings"))
	// Matches adventure and learn rules.
	assert.Equal(t, AdventureThemes, DefaultThemes("learn through adventure"))
}
