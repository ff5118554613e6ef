package debate

import (
	"fmt"

	"github.com/ssmithers/aidebate/internal/core"
)

// API rates in dollars per million tokens, used for cost estimation of
// hosted calls. Local model calls are free.
var costRates = map[string]struct{ Input, Output float64 }{
	"claude-opus-4-6":   {Input: 15.00, Output: 75.00},
	"claude-sonnet-4-5": {Input: 3.00, Output: 15.00},
	"claude-haiku-4-5":  {Input: 0.25, Output: 1.25},
}

// ModelUsage aggregates usage for one model and purpose.
type ModelUsage struct {
	Model         string            `json:"model"`
	Class         core.ModelClass   `json:"model_class"`
	Purpose       core.UsagePurpose `json:"purpose"`
	Speeches      []string          `json:"speeches"`
	InputTokens   int               `json:"total_input_tokens"`
	OutputTokens  int               `json:"total_output_tokens"`
	Calls         int               `json:"total_calls"`
	EstimatedCost float64           `json:"estimated_cost"`
}

// UsageTotals summarizes usage across the whole session.
type UsageTotals struct {
	HostedInputTokens  int     `json:"hosted_input_tokens"`
	HostedOutputTokens int     `json:"hosted_output_tokens"`
	LocalCalls         int     `json:"local_model_calls"`
	EstimatedCost      float64 `json:"estimated_cost"`
}

// UsageReport is a per-session usage and cost breakdown.
type UsageReport struct {
	SessionID     string        `json:"session_id"`
	Topic         string        `json:"topic"`
	TotalSpeeches int           `json:"total_speeches"`
	Breakdown     []*ModelUsage `json:"usage_breakdown"`
	Totals        UsageTotals   `json:"totals"`
}

// UsageReport aggregates the session's usage log by model and purpose and
// estimates hosted API cost from the rate table.
func (o *Orchestrator) UsageReport(sessionID string) (*UsageReport, error) {
	session, err := o.store.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]*ModelUsage)
	var order []string
	var totals UsageTotals

	for _, usage := range session.UsageLog {
		key := fmt.Sprintf("%s_%s", usage.Model, usage.Purpose)

		entry, ok := byKey[key]
		if !ok {
			entry = &ModelUsage{
				Model:   usage.Model,
				Class:   usage.Class,
				Purpose: usage.Purpose,
			}
			byKey[key] = entry
			order = append(order, key)
		}

		entry.Speeches = append(entry.Speeches, usage.SpeechLabel)
		entry.InputTokens += usage.InputTokens
		entry.OutputTokens += usage.OutputTokens
		entry.Calls++

		switch usage.Class {
		case core.ClassHosted:
			totals.HostedInputTokens += usage.InputTokens
			totals.HostedOutputTokens += usage.OutputTokens
		case core.ClassLocal:
			totals.LocalCalls++
		}
	}

	breakdown := make([]*ModelUsage, 0, len(order))
	for _, key := range order {
		entry := byKey[key]
		if entry.Class == core.ClassHosted {
			if rates, ok := costRates[entry.Model]; ok {
				inputCost := float64(entry.InputTokens) / 1_000_000 * rates.Input
				outputCost := float64(entry.OutputTokens) / 1_000_000 * rates.Output
				entry.EstimatedCost = inputCost + outputCost
				totals.EstimatedCost += entry.EstimatedCost
			}
		}
		breakdown = append(breakdown, entry)
	}

	return &UsageReport{
		SessionID:     session.ID,
		Topic:         session.Topic,
		TotalSpeeches: len(session.Turns),
		Breakdown:     breakdown,
		Totals:        totals,
	}, nil
}
