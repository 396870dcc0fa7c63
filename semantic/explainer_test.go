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

func TestExplainer_Explain(t *testing.T) {
	completer := mock.NewMockCompleter()
	completer.CompleteFunc = func(ctx context.Context, prompt string, params ai.CompletionParams) (string, error) {
		return "We recommended this because it is a cozy quest.\n", nil
	}

	e, err := NewExplainer(completer)
	require.NoError(t, err)

	got := e.Explain(context.Background(), "a cozy quest", sampleBook())
	assert.Equal(t, "We recommended this because it is a cozy quest.", got)

	prompt := completer.Prompts()[0]
	assert.Contains(t, prompt, `User query: "a cozy quest"`)
	assert.Contains(t, prompt, "Title: The Hobbit")
	assert.Contains(t, prompt, "Genres: Fantasy, Adventure, Classics")
	assert.Contains(t, prompt, `Start with "We recommended this because..."`)

	params := completer.Params()[0]
	assert.Equal(t, 0.7, params.Temperature)
	assert.Equal(t, 150, params.MaxTokens)
}

func TestExplainer_Fallbacks(t *testing.T) {
	t.Run("completion error", func(t *testing.T) {
		completer := mock.NewMockCompleter()
		completer.CompleteFunc = func(ctx context.Context, prompt string, params ai.CompletionParams) (string, error) {
			return "", errors.New("rate limited")
		}
		e, err := NewExplainer(completer)
		require.NoError(t, err)

		assert.Equal(t, ErrorExplanation, e.Explain(context.Background(), "q", sampleBook()))
		assert.Contains(t, ErrorExplanation, "preferences")
	})

	t.Run("empty completion", func(t *testing.T) {
		completer := mock.NewMockCompleter()
		completer.CompleteFunc = func(ctx context.Context, prompt string, params ai.CompletionParams) (string, error) {
			return "", nil
		}
		e, err := NewExplainer(completer)
		require.NoError(t, err)

		assert.Equal(t, EmptyExplanation, e.Explain(context.Background(), "q", sampleBook()))
		assert.Contains(t, EmptyExplanation, "interests")
	})

	t.Run("requires completer", func(t *testing.T) {
		_, err := NewExplainer(nil)
		assert.ErrorIs(t, err, ErrCompleterRequired)
	})
}
