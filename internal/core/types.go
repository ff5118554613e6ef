// Package core contains the core domain types for aidebate.
package core

import (
	"time"
)

// Side identifies one of the two opposing debate positions.
type Side string

const (
	SideAffirmative Side = "aff"
	SideNegative    Side = "neg"
)

// Label returns the display label for a side.
func (s Side) Label() string {
	if s == SideAffirmative {
		return "Affirmative"
	}
	return "Negative"
}

// Opponent returns the opposing side.
func (s Side) Opponent() Side {
	if s == SideAffirmative {
		return SideNegative
	}
	return SideAffirmative
}

// SpeechKind classifies a slot in the debate flow.
type SpeechKind string

const (
	KindConstructive SpeechKind = "constructive"
	KindCXQuestion   SpeechKind = "cx_question"
	KindCXAnswer     SpeechKind = "cx_answer"
	KindRebuttal     SpeechKind = "rebuttal"
	KindClosing      SpeechKind = "closing"
)

// IsCrossExam reports whether the kind is part of a cross-examination exchange.
func (k SpeechKind) IsCrossExam() bool {
	return k == KindCXQuestion || k == KindCXAnswer
}

// SpeechSlot is one scheduled entry in the fixed debate order.
type SpeechSlot struct {
	Label           string     `json:"speech"`
	Kind            SpeechKind `json:"type"`
	Side            Side       `json:"side"`
	Speaker         string     `json:"speaker"` // "1A", "2A", "1N", "2N"
	DurationSeconds int        `json:"duration"`
}

// Position encodes which speaker roles a participant fills on each side.
// "2A/1N" means: speaks 2nd for the affirmative, 1st for the negative.
type Position string

const (
	PositionSecondAffFirstNeg Position = "2A/1N"
	PositionSecondNegFirstAff Position = "2N/1A"
)

// SessionStatus represents the lifecycle state of a debate session.
type SessionStatus string

const (
	StatusActive    SessionStatus = "active"
	StatusCompleted SessionStatus = "completed"
)

// Settings holds the generation settings for a session.
type Settings struct {
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// Citation is one extracted source reference.
type Citation struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// Response is the realized output of one side for one turn.
type Response struct {
	ModelAlias string     `json:"model_alias"`
	Side       Side       `json:"stance"`
	Speaker    string     `json:"speaker_position"`
	Content    string     `json:"content"`
	Citations  []Citation `json:"citations"`
	LatencyMS  int64      `json:"latency_ms"`
}

// Turn is one realized speech event. Immutable once appended to a session.
type Turn struct {
	Number        int        `json:"turn_id"`
	Slot          SpeechSlot `json:"slot"`
	ModeratorNote string     `json:"moderator_note,omitempty"`
	Response      Response   `json:"response"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ModelClass distinguishes local from hosted models for usage accounting.
type ModelClass string

const (
	ClassLocal  ModelClass = "local"
	ClassHosted ModelClass = "hosted"
)

// UsagePurpose identifies why a completion call was made.
type UsagePurpose string

const (
	PurposeContent    UsagePurpose = "content_generation"
	PurposeFormatting UsagePurpose = "formatting"
)

// UsageRecord is one append-only accounting entry for a completion call.
type UsageRecord struct {
	Model        string       `json:"model"`
	Class        ModelClass   `json:"model_class"`
	Purpose      UsagePurpose `json:"purpose"`
	SpeechLabel  string       `json:"speech_name"`
	InputTokens  int          `json:"input_tokens"`
	OutputTokens int          `json:"output_tokens"`
	LatencyMS    int64        `json:"latency_ms"`
}

// SideScores holds one per-side score pair from a judge.
type SideScores struct {
	Aff int `json:"aff"`
	Neg int `json:"neg"`
}

// Judgment is an AI judge's verdict on a completed debate.
type Judgment struct {
	JudgeModel     string                `json:"judge_model"`
	Winner         string                `json:"winner"` // "aff", "neg", or "tie"
	Confidence     float64               `json:"confidence"`
	Reasoning      string                `json:"reasoning"`
	CriteriaScores map[string]SideScores `json:"criteria_scores"`
	TotalScores    SideScores            `json:"total_scores"`
	JudgedAt       time.Time             `json:"judged_at"`
}

// Session is the aggregate root for one debate.
type Session struct {
	ID                 string              `json:"session_id"`
	Topic              string              `json:"topic"`
	Format             string              `json:"debate_format"`
	Models             map[Side]string     `json:"models"`
	SpeakerPositions   map[string]Position `json:"speaker_positions"`
	CurrentSpeechIndex int                 `json:"current_speech_index"`
	DebateFlow         []SpeechSlot        `json:"debate_flow"`
	Turns              []Turn              `json:"turns"`
	Settings           Settings            `json:"settings"`
	Status             SessionStatus       `json:"status"`
	UsageLog           []UsageRecord       `json:"usage_log"`
	Judgments          []Judgment          `json:"judgments,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// CurrentSlot returns the slot at the cursor, or false if the flow is exhausted.
func (s *Session) CurrentSlot() (SpeechSlot, bool) {
	if s.CurrentSpeechIndex >= len(s.DebateFlow) {
		return SpeechSlot{}, false
	}
	return s.DebateFlow[s.CurrentSpeechIndex], true
}

// FlowExhausted reports whether every scheduled speech has been delivered.
func (s *Session) FlowExhausted() bool {
	return s.CurrentSpeechIndex >= len(s.DebateFlow)
}

// Message is one role-tagged entry in a model conversation context.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
