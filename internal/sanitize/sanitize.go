// Package sanitize removes model reasoning artifacts from raw completions.
package sanitize

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/ssmithers/aidebate/internal/backend"
	"github.com/ssmithers/aidebate/internal/core"
)

var (
	thinkBlockPattern     = regexp.MustCompile(`(?s)<think>.*?</think>`)
	orphanClosePattern    = regexp.MustCompile(`(?s)^.*?</think>\s*`)
	thinkingHeaderPattern = regexp.MustCompile(`^\s*\d+\.\s*\*\*[^*]+\*\*`)
	numberedLinePattern   = regexp.MustCompile(`^\d+\.`)
	leadingNoisePattern   = regexp.MustCompile(`(?m)^[\s*-]+`)
)

// A line longer than this after the last analysis header is taken to be the
// start of the actual argument.
const minArgumentLine = 40

// Content shorter than this after pre-cleaning is likely all thinking blocks;
// not worth a formatting call.
const minPolishLength = 50

// StripThinking removes reasoning artifacts from model output. Local models
// emit heavy thinking blocks; this locates the actual debate content. The
// transform is lossy and best-effort: it never fails, only degrades to a
// shorter or unchanged string.
func StripThinking(text string) string {
	cleaned := thinkBlockPattern.ReplaceAllString(text, "")
	// Orphaned close tag from a truncated block: drop everything before it.
	cleaned = orphanClosePattern.ReplaceAllString(cleaned, "")

	lines := strings.Split(cleaned, "\n")

	// Find the last numbered analysis header, e.g. `5. **Final Output:**`.
	lastHeader := -1
	for i, line := range lines {
		if thinkingHeaderPattern.MatchString(strings.TrimSpace(line)) {
			lastHeader = i
		}
	}

	if lastHeader >= 0 {
		found := false
		for i := lastHeader + 1; i < len(lines); i++ {
			line := strings.TrimSpace(lines[i])
			if line == "" || strings.HasPrefix(line, "*") || strings.HasPrefix(line, "-") || numberedLinePattern.MatchString(line) {
				continue
			}
			if len(line) > minArgumentLine {
				cleaned = strings.Join(lines[i:], "\n")
				found = true
				break
			}
		}
		if !found {
			cleaned = strings.Join(lines[lastHeader+1:], "\n")
		}
	}

	cleaned = leadingNoisePattern.ReplaceAllString(cleaned, "")

	return strings.TrimSpace(cleaned)
}

// Sanitizer cleans raw completions through an ordered strategy chain:
// model-assisted re-polish first, heuristic strip as the fallback.
type Sanitizer struct {
	client          *backend.Client
	formattingModel string
}

// New creates a sanitizer. A nil client or empty formatting model alias
// disables the re-polish step, leaving only the heuristic strip.
func New(client *backend.Client, formattingModel string) *Sanitizer {
	return &Sanitizer{
		client:          client,
		formattingModel: formattingModel,
	}
}

// Sanitize cleans raw model output for the given slot. It never fails; when
// the re-polish call errors for any reason the heuristic result is returned
// with no usage record.
func (s *Sanitizer) Sanitize(ctx context.Context, raw string, slot core.SpeechSlot) (string, *core.UsageRecord) {
	preCleaned := StripThinking(raw)

	if len(strings.TrimSpace(preCleaned)) < minPolishLength {
		slog.Debug("Pre-cleaned content too short for re-polish", "speech", slot.Label, "length", len(preCleaned))
		return preCleaned, nil
	}

	if s.client == nil || s.formattingModel == "" {
		return preCleaned, nil
	}

	polished, usage, err := s.polish(ctx, preCleaned, slot)
	if err != nil {
		slog.Warn("Formatting model failed, falling back to heuristic strip", "speech", slot.Label, "error", err)
		return StripThinking(raw), nil
	}

	return polished, usage
}

// polish dispatches a second, cheaper completion call that extracts and
// formats the actual argument from the pre-cleaned text.
func (s *Sanitizer) polish(ctx context.Context, content string, slot core.SpeechSlot) (string, *core.UsageRecord, error) {
	instruction := formattingInstruction(slot.Kind)

	messages := []core.Message{{
		Role:    core.RoleUser,
		Content: fmt.Sprintf("%s\n\nContent to format:\n\n%s", instruction, content),
	}}

	result, err := s.client.Complete(ctx, s.formattingModel, messages, 0.3, 1000)
	if err != nil {
		return "", nil, err
	}

	cfg, _ := s.client.Lookup(s.formattingModel)
	usage := &core.UsageRecord{
		Model:        cfg.ID,
		Class:        cfg.Class,
		Purpose:      core.PurposeFormatting,
		SpeechLabel:  slot.Label,
		InputTokens:  result.InputTokens,
		OutputTokens: result.OutputTokens,
		LatencyMS:    result.LatencyMS,
	}

	return strings.TrimSpace(result.Content), usage, nil
}

// formattingInstruction returns the re-polish instruction for a speech kind.
func formattingInstruction(kind core.SpeechKind) string {
	switch kind {
	case core.KindConstructive:
		return "Extract only the actual debate argument from this raw output, ignoring any reasoning or planning content. " +
			"Format it as clear paragraphs with proper structure. " +
			"Keep all [Source: ...] citations exactly as written."
	case core.KindCXQuestion:
		return "Extract only the actual cross-examination question from this raw output, ignoring any reasoning content. " +
			"Format it as 1-2 direct sentences."
	case core.KindCXAnswer:
		return "Extract only the actual cross-examination answer from this raw output, ignoring any reasoning content. " +
			"Format it as 1-2 clear, concise paragraphs."
	case core.KindRebuttal:
		return "Extract only the actual rebuttal from this raw output, ignoring any reasoning or planning content. " +
			"Format it as clear paragraphs with proper structure. " +
			"Keep all [Source: ...] citations exactly as written."
	case core.KindClosing:
		return "Extract only the actual closing argument from this raw output, ignoring any reasoning content. " +
			"Format it as clear, powerful paragraphs. " +
			"Keep all [Source: ...] citations exactly as written."
	default:
		return "Extract only the actual debate content from this raw output, ignoring any reasoning content. " +
			"Format it as clear paragraphs with proper structure."
	}
}
