package semantic

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/libris/ai"
	"github.com/poiesic/libris/ai/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExpander_RequiresServices(t *testing.T) {
	_, err := NewExpander(nil, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrCompleterRequired)

	_, err = NewExpander(mock.NewMockCompleter(), nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestExpander_Expand(t *testing.T) {
	completer := mock.NewMockCompleter()
	completer.CompleteFunc = func(ctx context.Context, prompt string, params ai.CompletionParams) (string, error) {
		return "  cozy whodunits, small-town warmth  ", nil
	}

	e, err := NewExpander(completer, mock.NewMockEmbedder())
	require.NoError(t, err)

	got := e.Expand(context.Background(), "a gentle mystery")
	assert.Equal(t, "cozy whodunits, small-town warmth", got)

	require.Equal(t, 1, completer.CallCount())
	prompt := completer.Prompts()[0]
	assert.Contains(t, prompt, "DO NOT repeat the user's exact words")
	assert.Contains(t, prompt, `User request: "a gentle mystery"`)

	params := completer.Params()[0]
	assert.Equal(t, 0.8, params.Temperature)
	assert.Equal(t, 150, params.MaxTokens)
}

func TestExpander_FallsBackOnFailure(t *testing.T) {
	completer := mock.NewMockCompleter()
	completer.CompleteFunc = func(ctx context.Context, prompt string, params ai.CompletionParams) (string, error) {
		return "", errors.New("provider unavailable")
	}

	e, err := NewExpander(completer, mock.NewMockEmbedder())
	require.NoError(t, err)

	assert.Equal(t,
		"uplifting fiction, feel-good stories, positive psychology, inspirational content, heartwarming narratives, comedy, romance with happy endings, personal growth, motivational literature",
		e.Expand(context.Background(), "I want to be happy"))
}

func TestExpander_FallsBackOnBlankResponse(t *testing.T) {
	completer := mock.NewMockCompleter()
	completer.CompleteFunc = func(ctx context.Context, prompt string, params ai.CompletionParams) (string, error) {
		return " \n ", nil
	}

	e, err := NewExpander(completer, mock.NewMockEmbedder())
	require.NoError(t, err)

	assert.Equal(t, AdventureThemes, e.Expand(context.Background(), "something exciting"))
}

func TestExpander_QueryEmbedding(t *testing.T) {
	completer := mock.NewMockCompleter()
	completer.CompleteFunc = func(ctx context.Context, prompt string, params ai.CompletionParams) (string, error) {
		return "resilience, found family", nil
	}

	var embedded []string
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		embedded = append(embedded, text)
		return []float32{1, 2, 3}, nil
	}

	e, err := NewExpander(completer, embedder)
	require.NoError(t, err)

	vec, err := e.QueryEmbedding(context.Background(), "books like my childhood")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3}, vec)

	require.Len(t, embedded, 1)
	assert.Equal(t, "Themes and concepts: resilience, found family", embedded[0])
	assert.NotContains(t, embedded[0], "childhood")
}

func TestExpander_QueryEmbeddingError(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, ai.ErrEmbedding
	}

	e, err := NewExpander(mock.NewMockCompleter(), embedder)
	require.NoError(t, err)

	_, err = e.QueryEmbedding(context.Background(), "anything")
	assert.ErrorIs(t, err, ai.ErrEmbedding)
}
