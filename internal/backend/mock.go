package backend

import (
	"context"
	"fmt"

	"github.com/ssmithers/aidebate/internal/core"
)

// MockBackend is a completion backend that returns canned responses, for
// tests and offline demos.
type MockBackend struct {
	Responses []string
	Err       error
	Calls     int
}

// Complete returns the next canned response, or a generic echo when none are
// configured.
func (m *MockBackend) Complete(ctx context.Context, model string, messages []core.Message, temperature float64, maxTokens int) (Result, error) {
	m.Calls++
	if m.Err != nil {
		return Result{}, m.Err
	}

	content := fmt.Sprintf("Mock response from %s", model)
	if len(m.Responses) > 0 {
		content = m.Responses[(m.Calls-1)%len(m.Responses)]
	}

	return Result{
		Content:      content,
		LatencyMS:    1,
		InputTokens:  len(messages),
		OutputTokens: 1,
	}, nil
}
