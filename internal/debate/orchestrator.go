// Package debate orchestrates scripted policy debates between two models.
package debate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ssmithers/aidebate/internal/backend"
	"github.com/ssmithers/aidebate/internal/citation"
	"github.com/ssmithers/aidebate/internal/core"
	"github.com/ssmithers/aidebate/internal/sanitize"
	"github.com/ssmithers/aidebate/internal/schedule"
	"github.com/ssmithers/aidebate/internal/storage"
)

var (
	// ErrInvalidRequest indicates bad input to Start.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrDebateComplete indicates the speech schedule is exhausted.
	ErrDebateComplete = errors.New("debate is complete, no more speeches")
)

// Orchestrator owns the debate session lifecycle: start, execute-next-speech,
// end. Turns for one session must be executed one at a time; the caller is
// responsible for serializing ExecuteTurn calls per session id.
type Orchestrator struct {
	store     storage.Store
	client    *backend.Client
	sanitizer *sanitize.Sanitizer
	flow      []core.SpeechSlot
}

// New creates a debate orchestrator.
func New(store storage.Store, client *backend.Client, sanitizer *sanitize.Sanitizer) *Orchestrator {
	return &Orchestrator{
		store:     store,
		client:    client,
		sanitizer: sanitizer,
		flow:      schedule.PolicyFlow(),
	}
}

// Start creates a new policy debate session. The position argument decides
// which speaker roles model1 fills: "2A/1N" puts model1 on the affirmative,
// "2N/1A" swaps the two.
func (o *Orchestrator) Start(ctx context.Context, topic, model1, model2 string, position core.Position) (*core.Session, error) {
	slog.Debug("Starting debate", "topic", topic, "model1", model1, "model2", model2, "position", position)

	if topic == "" {
		return nil, fmt.Errorf("%w: topic is required", ErrInvalidRequest)
	}
	if model1 == "" || model2 == "" {
		return nil, fmt.Errorf("%w: both model aliases are required", ErrInvalidRequest)
	}
	if _, ok := o.client.Lookup(model1); !ok {
		return nil, fmt.Errorf("%w: unknown model alias %s", ErrInvalidRequest, model1)
	}
	if _, ok := o.client.Lookup(model2); !ok {
		return nil, fmt.Errorf("%w: unknown model alias %s", ErrInvalidRequest, model2)
	}

	var models map[core.Side]string
	var positions map[string]core.Position
	if position == core.PositionSecondNegFirstAff {
		models = map[core.Side]string{core.SideAffirmative: model2, core.SideNegative: model1}
		positions = map[string]core.Position{"model1": core.PositionSecondNegFirstAff, "model2": core.PositionSecondAffFirstNeg}
	} else {
		models = map[core.Side]string{core.SideAffirmative: model1, core.SideNegative: model2}
		positions = map[string]core.Position{"model1": core.PositionSecondAffFirstNeg, "model2": core.PositionSecondNegFirstAff}
	}

	now := time.Now()
	session := &core.Session{
		ID:                 core.NewSessionID(),
		Topic:              topic,
		Format:             "policy",
		Models:             models,
		SpeakerPositions:   positions,
		CurrentSpeechIndex: 0,
		// Snapshot the schedule so a running debate is immune to flow changes.
		DebateFlow: schedule.PolicyFlow(),
		Turns:      []core.Turn{},
		Settings:   core.Settings{Temperature: 0.3, MaxTokens: 2048},
		Status:     core.StatusActive,
		UsageLog:   []core.UsageRecord{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := o.store.CreateSession(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// ExecuteTurn executes one speech in the debate flow. A moderator note is
// folded into the speaker's instructions and recorded on the turn. When
// isInterjection is true the turn is recorded without consuming a schedule
// slot, so the same slot is re-executed on the next call.
//
// Backend failures are absorbed: the turn is still appended with an error
// marker body so the schedule can continue. Store failures propagate.
func (o *Orchestrator) ExecuteTurn(ctx context.Context, sessionID, moderatorNote string, isInterjection bool) (*core.Turn, error) {
	session, err := o.store.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	slot, ok := session.CurrentSlot()
	if !ok {
		return nil, ErrDebateComplete
	}

	modelAlias := session.Models[slot.Side]
	messages := buildContext(session, slot.Side, slot, moderatorNote)

	result, genErr := o.client.Complete(ctx, modelAlias, messages, session.Settings.Temperature, session.Settings.MaxTokens)

	// Log content generation usage whether or not the call succeeded.
	modelID := modelAlias
	class := core.ClassLocal
	if cfg, ok := o.client.Lookup(modelAlias); ok {
		modelID = cfg.ID
		class = cfg.Class
	}
	session.UsageLog = append(session.UsageLog, core.UsageRecord{
		Model:        modelID,
		Class:        class,
		Purpose:      core.PurposeContent,
		SpeechLabel:  slot.Label,
		InputTokens:  result.InputTokens,
		OutputTokens: result.OutputTokens,
		LatencyMS:    result.LatencyMS,
	})

	var content string
	var citations []core.Citation
	if genErr != nil {
		slog.Warn("Completion backend failed", "session_id", sessionID, "speech", slot.Label, "error", genErr)
		content = fmt.Sprintf("[ERROR: %s]", genErr.Error())
	} else {
		clean, formatUsage := o.sanitizer.Sanitize(ctx, result.Content, slot)
		if formatUsage != nil {
			session.UsageLog = append(session.UsageLog, *formatUsage)
		}
		content, citations = citation.Extract(clean)
	}

	turn := core.Turn{
		Number:        len(session.Turns) + 1,
		Slot:          slot,
		ModeratorNote: moderatorNote,
		Response: core.Response{
			ModelAlias: modelAlias,
			Side:       slot.Side,
			Speaker:    slot.Speaker,
			Content:    content,
			Citations:  citations,
			LatencyMS:  result.LatencyMS,
		},
		CreatedAt: time.Now(),
	}

	session.Turns = append(session.Turns, turn)

	// Interjections re-run the same slot next call.
	if !isInterjection {
		session.CurrentSpeechIndex++
	}
	session.UpdatedAt = time.Now()

	if err := o.store.SaveSession(session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	slog.Debug("Turn executed", "session_id", sessionID, "speech", slot.Label, "turn", turn.Number, "cursor", session.CurrentSpeechIndex)
	return &turn, nil
}

// End marks a session as completed. Calling it twice is a no-op on state.
func (o *Orchestrator) End(ctx context.Context, sessionID string) (*core.Session, error) {
	session, err := o.store.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	if session.Status != core.StatusCompleted {
		session.Status = core.StatusCompleted
		session.UpdatedAt = time.Now()
		if err := o.store.SaveSession(session); err != nil {
			return nil, fmt.Errorf("failed to save session: %w", err)
		}
	}

	return session, nil
}

// RecordJudgment appends a judge verdict to the session.
func (o *Orchestrator) RecordJudgment(sessionID string, judgment *core.Judgment) error {
	session, err := o.store.GetSession(sessionID)
	if err != nil {
		return err
	}

	session.Judgments = append(session.Judgments, *judgment)
	session.UpdatedAt = time.Now()

	if err := o.store.SaveSession(session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// GetSession loads a session by ID.
func (o *Orchestrator) GetSession(sessionID string) (*core.Session, error) {
	return o.store.GetSession(sessionID)
}

// ListSessions returns session summaries.
func (o *Orchestrator) ListSessions(limit, offset int) ([]*storage.SessionSummary, error) {
	return o.store.ListSessions(limit, offset)
}
