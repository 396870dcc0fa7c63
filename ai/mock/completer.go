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


package mock

import (
	"context"
	"sync"

	"github.com/poiesic/libris/ai"
)

// DefaultCompletion is returned by MockCompleter when no behavior is injected.
const DefaultCompletion = "We recommended this because it matches the mood you described."

// MockCompleter is a test double for ai.Completer. It records every prompt
// it receives.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	// If nil, returns DefaultCompletion.
	CompleteFunc func(ctx context.Context, prompt string, params ai.CompletionParams) (string, error)

	mu      sync.Mutex
	prompts []string
	params  []ai.CompletionParams
}

// NewMockCompleter creates a mock completer with default behavior.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{}
}

// Complete records the call and delegates to CompleteFunc.
func (m *MockCompleter) Complete(ctx context.Context, prompt string, params ai.CompletionParams) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.params = append(m.params, params)
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt, params)
	}
	return DefaultCompletion, nil
}

// CallCount returns the number of Complete calls.
func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// Prompts returns a copy of every prompt received, in call order.
func (m *MockCompleter) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// Params returns a copy of the parameters of every call, in call order.
func (m *MockCompleter) Params() []ai.CompletionParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ai.CompletionParams(nil), m.params...)
}

// Reset clears recorded calls and injected behavior.
func (m *MockCompleter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = nil
	m.params = nil
	m.CompleteFunc = nil
}
