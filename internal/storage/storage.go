// Package storage provides persistence for debate sessions.
package storage

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/ssmithers/aidebate/internal/core"
)

// ErrNotFound is returned when no session exists for an identifier.
var ErrNotFound = errors.New("session not found")

// Store defines the interface for session persistence. Sessions are stored
// as whole documents keyed by identifier, last writer wins. Callers that
// mutate the same session concurrently must serialize their writes.
type Store interface {
	// Initialize sets up the storage (creates tables, etc.)
	Initialize() error

	// Close closes the storage connection.
	Close() error

	// CreateSession inserts a new session document.
	CreateSession(session *core.Session) error

	// GetSession loads a session document. Returns ErrNotFound if absent.
	GetSession(id string) (*core.Session, error)

	// SaveSession overwrites an existing session document.
	SaveSession(session *core.Session) error

	// ListSessions returns lightweight summaries, newest first.
	ListSessions(limit, offset int) ([]*SessionSummary, error)

	// DeleteSession removes a session document.
	DeleteSession(id string) error
}

// SessionSummary is a lightweight representation for listing sessions.
type SessionSummary struct {
	ID        string             `json:"session_id"`
	Topic     string             `json:"topic"`
	Status    core.SessionStatus `json:"status"`
	TurnCount int                `json:"turn_count"`
	CreatedAt time.Time          `json:"created_at"`
}

// DefaultDBPath returns the default database file path.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "aidebate.db"
	}
	return filepath.Join(home, ".aidebate", "aidebate.db")
}
