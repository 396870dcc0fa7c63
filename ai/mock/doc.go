// Package mock provides test doubles for the ai package interfaces.
//
// The mocks accept behavior through exported function fields and count
// their calls so tests can assert on how services were used:
//
//	mockEmbedder := mock.NewMockEmbedder()
//	mockEmbedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return []float32{0.1, 0.2, 0.3}, nil
//	}
//
//	count := mockEmbedder.CallCount()
//
// # Default Behavior
//
//   - MockEmbedder: Returns deterministic unit vectors based on text hash
//   - MockCompleter: Returns DefaultCompletion and records prompts
//   - MockProvider: Aggregates mock embedder and completer
package mock
