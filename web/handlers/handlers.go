// Package handlers provides HTTP handlers for the debate API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ssmithers/aidebate/internal/backend"
	"github.com/ssmithers/aidebate/internal/core"
	"github.com/ssmithers/aidebate/internal/debate"
	"github.com/ssmithers/aidebate/internal/export"
	"github.com/ssmithers/aidebate/internal/judge"
	"github.com/ssmithers/aidebate/internal/storage"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	orchestrator *debate.Orchestrator
	judge        *judge.Judge
	client       *backend.Client
	lmEndpoint   string

	// One lock per session id so speeches execute one at a time.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a new Handler.
func New(orchestrator *debate.Orchestrator, j *judge.Judge, client *backend.Client, lmEndpoint string) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		judge:        j,
		client:       client,
		lmEndpoint:   lmEndpoint,
		locks:        make(map[string]*sync.Mutex),
	}
}

// Router builds the API router.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/models", h.handleModels)
		r.Get("/debates", h.handleListDebates)

		r.Route("/debate", func(r chi.Router) {
			r.Post("/start", h.handleStart)
			r.Post("/turn", h.handleTurn)
			r.Post("/end", h.handleEnd)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/history", h.handleHistory)
				r.Get("/export", h.handleExport)
				r.Get("/usage", h.handleUsage)
				r.Post("/judge", h.handleJudge)
			})
		})
	})

	return r
}

// sessionLock returns the mutex for a session, creating it on first use.
func (h *Handler) sessionLock(id string) *sync.Mutex {
	h.mu.Lock()
	defer h.mu.Unlock()

	lock, ok := h.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		h.locks[id] = lock
	}
	return lock
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic    string `json:"topic"`
		Model1   string `json:"model1"`
		Model2   string `json:"model2"`
		Position string `json:"model1_position"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := h.orchestrator.Start(r.Context(), req.Topic, req.Model1, req.Model2, core.Position(req.Position))
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	slog.Info("Debate started", "session_id", session.ID, "topic", session.Topic)

	h.json(w, map[string]interface{}{
		"session_id":  session.ID,
		"topic":       session.Topic,
		"models":      session.Models,
		"debate_flow": session.DebateFlow,
	})
}

func (h *Handler) handleTurn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID        string `json:"session_id"`
		ModeratorMessage string `json:"moderator_message"`
		IsInterjection   bool   `json:"is_interjection"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		h.jsonError(w, "session_id is required", http.StatusBadRequest)
		return
	}

	lock := h.sessionLock(req.SessionID)
	lock.Lock()
	defer lock.Unlock()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	turn, err := h.orchestrator.ExecuteTurn(ctx, req.SessionID, req.ModeratorMessage, req.IsInterjection)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	session, err := h.orchestrator.GetSession(req.SessionID)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	h.json(w, map[string]interface{}{
		"turn":         turn,
		"speech_index": session.CurrentSpeechIndex,
		"complete":     session.FlowExhausted(),
	})
}

func (h *Handler) handleEnd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		h.jsonError(w, "session_id is required", http.StatusBadRequest)
		return
	}

	session, err := h.orchestrator.End(r.Context(), req.SessionID)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	h.json(w, map[string]interface{}{
		"session_id": session.ID,
		"status":     session.Status,
	})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	session, err := h.orchestrator.GetSession(id)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	h.json(w, session)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "markdown"
	}

	session, err := h.orchestrator.GetSession(id)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	exporter, err := export.GetExporter(export.Format(format))
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	filename := export.GenerateFilename(session, exporter.FileExtension())

	switch format {
	case "pdf":
		w.Header().Set("Content-Type", "application/pdf")
	case "json":
		w.Header().Set("Content-Type", "application/json")
	default:
		w.Header().Set("Content-Type", "text/markdown")
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := exporter.Export(session, w); err != nil {
		slog.Error("Export failed", "session_id", id, "format", format, "error", err)
		http.Error(w, "Export failed", http.StatusInternalServerError)
	}
}

func (h *Handler) handleUsage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	report, err := h.orchestrator.UsageReport(id)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	h.json(w, report)
}

func (h *Handler) handleJudge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	lock := h.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()

	session, err := h.orchestrator.GetSession(id)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	if len(session.Turns) == 0 {
		h.jsonError(w, "cannot judge a debate with no speeches", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	judgment, err := h.judge.Evaluate(ctx, session)
	if err != nil {
		slog.Error("Judge evaluation failed", "session_id", id, "error", err)
		h.jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}

	if err := h.orchestrator.RecordJudgment(id, judgment); err != nil {
		h.handleDomainError(w, err)
		return
	}

	h.json(w, judgment)
}

func (h *Handler) handleModels(w http.ResponseWriter, r *http.Request) {
	// Work on a copy so detection cannot race with in-flight completions.
	catalog := make(backend.Catalog, len(h.client.Catalog()))
	for alias, mc := range h.client.Catalog() {
		catalog[alias] = mc
	}

	// Merge in whatever model LM Studio currently has loaded.
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if det, err := backend.DetectLoadedModel(ctx, h.lmEndpoint); err == nil {
		backend.MergeDetection(catalog, det)
	}

	models := make([]map[string]interface{}, 0, len(catalog))
	for _, alias := range catalog.Aliases() {
		cfg, _ := catalog.Lookup(alias)
		models = append(models, map[string]interface{}{
			"alias": alias,
			"id":    cfg.ID,
			"name":  cfg.Name,
			"type":  cfg.Class,
		})
	}

	h.json(w, map[string]interface{}{"models": models})
}

func (h *Handler) handleListDebates(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 {
		limit = 20
	}

	sessions, err := h.orchestrator.ListSessions(limit, offset)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.json(w, sessions)
}

// handleDomainError maps orchestrator and storage errors to HTTP status codes.
func (h *Handler) handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		h.jsonError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, debate.ErrInvalidRequest):
		h.jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, debate.ErrDebateComplete):
		h.jsonError(w, err.Error(), http.StatusBadRequest)
	default:
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) json(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) jsonError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
