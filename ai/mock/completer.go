package mock

import (
	"context"
	"fmt"

	"github.com/docuforge/docchat/ai"
)

// MockCompleter is a test double for ai.Completer.
// It allows custom behavior injection via a function field.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	// If nil, uses default canned behavior.
	CompleteFunc func(ctx context.Context, query, contextText string, history []ai.Message, refusal string) (string, error)

	callCount int
}

// NewMockCompleter creates a mock completer with default canned behavior.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{}
}

// Complete returns a deterministic response echoing the query.
func (m *MockCompleter) Complete(ctx context.Context, query, contextText string, history []ai.Message, refusal string) (string, error) {
	m.callCount++

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, query, contextText, history, refusal)
	}

	if contextText == "" {
		return refusal, nil
	}
	return fmt.Sprintf("Answer to %q based on provided context.", query), nil
}

// CallCount returns the number of times Complete was called.
func (m *MockCompleter) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockCompleter) Reset() {
	m.callCount = 0
	m.CompleteFunc = nil
}
