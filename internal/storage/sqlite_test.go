package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ssmithers/aidebate/internal/core"
)

func newTestSession(id, topic string) *core.Session {
	now := time.Now()
	return &core.Session{
		ID:     id,
		Topic:  topic,
		Format: "policy",
		Models: map[core.Side]string{
			core.SideAffirmative: "glm-flash",
			core.SideNegative:    "claude-sonnet",
		},
		Settings:  core.Settings{Temperature: 0.3, MaxTokens: 2048},
		Status:    core.StatusActive,
		Turns:     []core.Turn{},
		UsageLog:  []core.UsageRecord{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestSQLiteStore(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "aidebate-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	store, err := NewSQLiteStore(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer store.Close()

	if err := store.Initialize(); err != nil {
		t.Fatalf("failed to initialize: %v", err)
	}

	t.Run("CreateAndGetSession", func(t *testing.T) {
		session := newTestSession("session-1", "Renewable energy mandates")

		if err := store.CreateSession(session); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		got, err := store.GetSession("session-1")
		if err != nil {
			t.Fatalf("failed to get session: %v", err)
		}

		if got.ID != session.ID {
			t.Errorf("ID mismatch: got %s, want %s", got.ID, session.ID)
		}
		if got.Topic != session.Topic {
			t.Errorf("Topic mismatch: got %s, want %s", got.Topic, session.Topic)
		}
		if got.Models[core.SideAffirmative] != "glm-flash" {
			t.Errorf("aff model: got %s, want glm-flash", got.Models[core.SideAffirmative])
		}
		if got.Status != core.StatusActive {
			t.Errorf("status: got %s, want active", got.Status)
		}
	})

	t.Run("GetMissingSession", func(t *testing.T) {
		_, err := store.GetSession("no-such-id")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("got %v, want ErrNotFound", err)
		}
	})

	t.Run("SaveSession", func(t *testing.T) {
		session, _ := store.GetSession("session-1")
		session.Status = core.StatusCompleted
		session.Turns = append(session.Turns, core.Turn{
			Number: 1,
			Slot:   core.SpeechSlot{Label: "1AC", Kind: core.KindConstructive, Side: core.SideAffirmative, Speaker: "1A"},
			Response: core.Response{
				ModelAlias: "glm-flash",
				Side:       core.SideAffirmative,
				Content:    "Opening contention.",
			},
			CreatedAt: time.Now(),
		})
		session.UpdatedAt = time.Now()

		if err := store.SaveSession(session); err != nil {
			t.Fatalf("failed to save session: %v", err)
		}

		got, _ := store.GetSession("session-1")
		if got.Status != core.StatusCompleted {
			t.Errorf("status not saved: got %s", got.Status)
		}
		if len(got.Turns) != 1 {
			t.Fatalf("turns: got %d, want 1", len(got.Turns))
		}
		if got.Turns[0].Response.Content != "Opening contention." {
			t.Errorf("turn content: got %q", got.Turns[0].Response.Content)
		}
	})

	t.Run("SaveMissingSession", func(t *testing.T) {
		phantom := newTestSession("phantom", "never created")
		if err := store.SaveSession(phantom); !errors.Is(err, ErrNotFound) {
			t.Errorf("got %v, want ErrNotFound", err)
		}
	})

	t.Run("ListSessions", func(t *testing.T) {
		second := newTestSession("session-2", "Carbon tax")
		second.CreatedAt = time.Now().Add(time.Second)
		second.UpdatedAt = second.CreatedAt
		if err := store.CreateSession(second); err != nil {
			t.Fatalf("failed to create second session: %v", err)
		}

		summaries, err := store.ListSessions(10, 0)
		if err != nil {
			t.Fatalf("failed to list sessions: %v", err)
		}
		if len(summaries) != 2 {
			t.Fatalf("summaries: got %d, want 2", len(summaries))
		}
		// Newest first.
		if summaries[0].ID != "session-2" {
			t.Errorf("first summary: got %s, want session-2", summaries[0].ID)
		}
		if summaries[1].TurnCount != 1 {
			t.Errorf("session-1 turn count: got %d, want 1", summaries[1].TurnCount)
		}
	})

	t.Run("ListLimit", func(t *testing.T) {
		summaries, err := store.ListSessions(1, 0)
		if err != nil {
			t.Fatalf("failed to list sessions: %v", err)
		}
		if len(summaries) != 1 {
			t.Errorf("summaries: got %d, want 1", len(summaries))
		}
	})

	t.Run("DeleteSession", func(t *testing.T) {
		if err := store.DeleteSession("session-2"); err != nil {
			t.Fatalf("failed to delete session: %v", err)
		}
		if _, err := store.GetSession("session-2"); !errors.Is(err, ErrNotFound) {
			t.Errorf("got %v, want ErrNotFound after delete", err)
		}
		if err := store.DeleteSession("session-2"); !errors.Is(err, ErrNotFound) {
			t.Errorf("double delete: got %v, want ErrNotFound", err)
		}
	})
}
