// Package judge provides objective AI evaluation of completed debates.
package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ssmithers/aidebate/internal/backend"
	"github.com/ssmithers/aidebate/internal/core"
)

// Judge scores a completed debate with a separate judge model.
type Judge struct {
	client *backend.Client
	model  string
}

// New creates a judge that evaluates with the given model alias.
func New(client *backend.Client, model string) *Judge {
	return &Judge{
		client: client,
		model:  model,
	}
}

// Evaluate sends the session transcript to the judge model and parses its
// structured verdict.
func (j *Judge) Evaluate(ctx context.Context, session *core.Session) (*core.Judgment, error) {
	transcript := Transcript(session)

	messages := []core.Message{{
		Role:    core.RoleUser,
		Content: judgePrompt(transcript),
	}}

	// Low temperature for objective evaluation.
	result, err := j.client.Complete(ctx, j.model, messages, 0.3, 4096)
	if err != nil {
		return nil, fmt.Errorf("judge call failed: %w", err)
	}

	judgment, err := parseJudgment(result.Content)
	if err != nil {
		return nil, err
	}

	judgment.JudgeModel = j.model
	if cfg, ok := j.client.Lookup(j.model); ok {
		judgment.JudgeModel = cfg.ID
	}
	judgment.JudgedAt = time.Now()

	return judgment, nil
}

// Transcript builds a plain transcript of the debate for evaluation.
func Transcript(session *core.Session) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "TOPIC: %s\n\n", session.Topic)
	fmt.Fprintf(&sb, "AFFIRMATIVE: %s\n", session.Models[core.SideAffirmative])
	fmt.Fprintf(&sb, "NEGATIVE: %s\n\n", session.Models[core.SideNegative])
	sb.WriteString(strings.Repeat("=", 60) + "\n\n")

	for _, turn := range session.Turns {
		fmt.Fprintf(&sb, "[%s - %s]\n", turn.Slot.Label, strings.ToUpper(string(turn.Response.Side)))
		sb.WriteString(turn.Response.Content + "\n\n")
		sb.WriteString(strings.Repeat("-", 60) + "\n\n")
	}

	return sb.String()
}

// judgePrompt constructs the evaluation instruction for the judge model.
func judgePrompt(transcript string) string {
	return fmt.Sprintf(`You are an expert debate judge evaluating a policy debate. Your role is to objectively assess which side presented the stronger overall case.

DEBATE TRANSCRIPT:
%s

EVALUATION CRITERIA (score each 0-10):
1. **Argument Quality**: Clarity, logical structure, coherence
2. **Evidence Usage**: Citations, factual support, credibility
3. **Rebuttal Effectiveness**: Addressing opponent's points, defensive strength
4. **Cross-Examination**: Strategic questioning, handling of CX
5. **Closing Impact**: Persuasiveness of final arguments, summary strength

INSTRUCTIONS:
- Be completely objective - judge arguments, not topics
- Consider both sides fairly
- Base judgment on debate performance, not external beliefs
- A "tie" is acceptable if truly evenly matched

Respond with ONLY valid JSON in this exact format:
{
    "winner": "aff" | "neg" | "tie",
    "confidence": 0.85,
    "reasoning": "Detailed explanation of your decision (2-3 paragraphs)",
    "criteria_scores": {
        "argument_quality": {"aff": 8, "neg": 7},
        "evidence_usage": {"aff": 7, "neg": 8},
        "rebuttal_effectiveness": {"aff": 9, "neg": 6},
        "cross_examination": {"aff": 7, "neg": 7},
        "closing_impact": {"aff": 8, "neg": 7}
    },
    "total_scores": {"aff": 39, "neg": 35}
}`, transcript)
}

// parseJudgment decodes the judge's JSON verdict, tolerating code fencing
// around the payload.
func parseJudgment(content string) (*core.Judgment, error) {
	content = strings.TrimSpace(content)

	if idx := strings.Index(content, "```json"); idx >= 0 {
		content = content[idx+len("```json"):]
		if end := strings.Index(content, "```"); end >= 0 {
			content = content[:end]
		}
	} else if idx := strings.Index(content, "```"); idx >= 0 {
		content = content[idx+len("```"):]
		if end := strings.Index(content, "```"); end >= 0 {
			content = content[:end]
		}
	}

	var judgment core.Judgment
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &judgment); err != nil {
		return nil, fmt.Errorf("judge returned invalid JSON: %w", err)
	}

	switch judgment.Winner {
	case "aff", "neg", "tie":
	default:
		return nil, fmt.Errorf("judge returned unknown winner: %q", judgment.Winner)
	}

	return &judgment, nil
}
