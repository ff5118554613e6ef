// Package backend contains model completion backends and the alias catalog
// that routes debate models to them.
package backend

import (
	"context"
	"time"

	"github.com/ssmithers/aidebate/internal/core"
)

// DefaultTimeout bounds a single completion call. A stalled backend fails
// with a timeout error rather than hanging the turn.
const DefaultTimeout = 2 * time.Minute

// Result is the outcome of a successful completion call.
type Result struct {
	Content      string
	LatencyMS    int64
	InputTokens  int
	OutputTokens int
}

// Completer is the interface every completion backend implements.
type Completer interface {
	// Complete sends a role-tagged message list to the given model and
	// returns the generated text with latency and token usage.
	Complete(ctx context.Context, model string, messages []core.Message, temperature float64, maxTokens int) (Result, error)
}
