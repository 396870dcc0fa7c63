package mock

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/poiesic/libris/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	m := NewMockEmbedder()
	ctx := context.Background()

	a, err := m.EmbedText(ctx, "same text")
	require.NoError(t, err)
	b, err := m.EmbedText(ctx, "same text")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, DefaultDimension)
	assert.Equal(t, 2, m.CallCount())

	var sum float64
	for _, v := range a {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-4)
}

func TestMockEmbedder_ConcurrentCalls(t *testing.T) {
	m := NewMockEmbedder()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.EmbedText(context.Background(), "text")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, m.CallCount())
	m.Reset()
	assert.Equal(t, 0, m.CallCount())
}

func TestMockCompleter(t *testing.T) {
	m := NewMockCompleter()

	text, err := m.Complete(context.Background(), "first", ai.CompletionParams{Temperature: 0.7})
	require.NoError(t, err)
	assert.Equal(t, DefaultCompletion, text)

	m.CompleteFunc = func(ctx context.Context, prompt string, params ai.CompletionParams) (string, error) {
		return "custom", nil
	}
	text, err = m.Complete(context.Background(), "second", ai.CompletionParams{MaxTokens: 10})
	require.NoError(t, err)
	assert.Equal(t, "custom", text)

	assert.Equal(t, []string{"first", "second"}, m.Prompts())
	assert.Equal(t, 10, m.Params()[1].MaxTokens)
}

func TestMockProvider(t *testing.T) {
	p := NewMockProvider().(*MockProvider)

	assert.Same(t, p.GetMockEmbedder(), p.Embedder())
	assert.Same(t, p.GetMockCompleter(), p.Completer())
	assert.NoError(t, p.Close())
}
