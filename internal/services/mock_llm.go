package services

import (
	"context"
	"sync"

	"github.com/jwebster45206/crawl-engine/pkg/prompts"
)

// MockLLM is a mock implementation of LLMService for testing
type MockLLM struct {
	InitModelFunc    func(ctx context.Context, modelName string) error
	GenerateTextFunc func(ctx context.Context, prompt prompts.Prompt) (string, error)

	// Track calls for testing
	InitModelCalls    []string
	GenerateTextCalls []prompts.Prompt

	// Queued responses returned in order when GenerateTextFunc is unset.
	responses []string

	mu sync.Mutex // protects all fields above
}

// NewMockLLM creates a new mock LLM service
func NewMockLLM() *MockLLM {
	return &MockLLM{
		InitModelCalls:    make([]string, 0),
		GenerateTextCalls: make([]prompts.Prompt, 0),
	}
}

// InitModel mocks model initialization
func (m *MockLLM) InitModel(ctx context.Context, modelName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InitModelCalls = append(m.InitModelCalls, modelName)

	if m.InitModelFunc != nil {
		return m.InitModelFunc(ctx, modelName)
	}
	return nil
}

// GenerateText mocks text generation. Responses queued with SetResponses
// are returned in order; once exhausted, the last response repeats.
func (m *MockLLM) GenerateText(ctx context.Context, prompt prompts.Prompt) (string, error) {
	m.mu.Lock()
	m.GenerateTextCalls = append(m.GenerateTextCalls, prompt)
	fn := m.GenerateTextFunc
	var response string
	if fn == nil && len(m.responses) > 0 {
		response = m.responses[0]
		if len(m.responses) > 1 {
			m.responses = m.responses[1:]
		}
	}
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, prompt)
	}
	return response, nil
}

// SetResponses queues raw responses to return from successive calls.
func (m *MockLLM) SetResponses(responses ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = responses
}

// SetGenerateTextError sets up the mock to return an error on GenerateText
func (m *MockLLM) SetGenerateTextError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateTextFunc = func(ctx context.Context, prompt prompts.Prompt) (string, error) {
		return "", err
	}
}

// CallCount returns the number of GenerateText calls made so far.
func (m *MockLLM) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.GenerateTextCalls)
}

// Calls returns a copy of the recorded GenerateText prompts.
func (m *MockLLM) Calls() []prompts.Prompt {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]prompts.Prompt, len(m.GenerateTextCalls))
	copy(calls, m.GenerateTextCalls)
	return calls
}

// Reset clears all call tracking
func (m *MockLLM) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InitModelCalls = make([]string, 0)
	m.GenerateTextCalls = make([]prompts.Prompt, 0)
	m.responses = nil
	m.GenerateTextFunc = nil
	m.InitModelFunc = nil
}
