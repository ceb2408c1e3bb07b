// SPDX-FileCopyrightText: 2026 VoxVault contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/edsonmartins/voxvault/internal/broadcast"
	"github.com/edsonmartins/voxvault/internal/config"
	"github.com/edsonmartins/voxvault/internal/constants"
	"github.com/edsonmartins/voxvault/internal/minutes"
	"github.com/edsonmartins/voxvault/internal/pipeline"
	"github.com/edsonmartins/voxvault/internal/session"
	"github.com/edsonmartins/voxvault/internal/store"
	"github.com/edsonmartins/voxvault/internal/translation"
)

// ConnStatus reports upstream connectivity for the health endpoint.
type ConnStatus interface {
	Connected() bool
}

type Handler struct {
	Broadcaster *broadcast.Broadcaster
	Sessions    *session.Manager
	Pipeline    *pipeline.Coordinator
	Settings    *config.Settings
	Minutes     *minutes.Generator
	Archive     *store.Archive
	Bridge      ConnStatus
	MinutesDir  string
	ASRURL      string
	DataDir     string
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

func (h *Handler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:          "ok",
		ASRConnected:    h.Bridge.Connected(),
		SessionActive:   h.Sessions.Active(),
		TranslationMode: h.Settings.Snapshot().Mode,
	})
}

// StreamTranscript serves the live event feed over SSE. Idle connections
// get a comment keepalive so proxies do not cut them.
func (h *Handler) StreamTranscript(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	id, events := h.Broadcaster.Subscribe()
	defer h.Broadcaster.Unsubscribe(id)

	keepalive := time.NewTicker(constants.SSEKeepalive)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-events:
			fmt.Fprintf(w, "data: %s\n\n", ev)
			flusher.Flush()
			keepalive.Reset(constants.SSEKeepalive)
		case <-keepalive.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}

func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req SessionStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	info := h.Sessions.Start(req.Title, req.Participants)
	writeJSON(w, http.StatusOK, info)
}

func (h *Handler) StopSession(w http.ResponseWriter, r *http.Request) {
	if !h.Sessions.Active() {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "no active session"})
		return
	}

	// Drain buffered text into the session before it closes, then free
	// any per-language context the backend accumulated over the meeting.
	h.Pipeline.FlushAll()
	h.Pipeline.Backend().ResetSessions("")

	res, err := h.Sessions.Stop()
	if err != nil {
		if errors.Is(err, session.ErrNoActiveSession) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "no active session"})
			return
		}
		slog.Error("failed to stop session", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to stop session"})
		return
	}

	writeJSON(w, http.StatusOK, SessionStopResponse{
		SessionID:        res.Info.ID,
		DurationSeconds:  res.DurationSeconds,
		TranscriptChunks: res.ChunkCount,
	})
}

func (h *Handler) CurrentSession(w http.ResponseWriter, r *http.Request) {
	info, active := h.Sessions.Current()
	if !active {
		writeJSON(w, http.StatusOK, SessionCurrentResponse{Active: false})
		return
	}
	writeJSON(w, http.StatusOK, SessionCurrentResponse{Active: true, Session: &info})
}

func (h *Handler) GenerateMinutes(w http.ResponseWriter, r *http.Request) {
	var req MinutesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if h.Sessions.Active() {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "stop the session before generating minutes"})
		return
	}

	transcript := h.Sessions.FullTranscript()
	if strings.TrimSpace(transcript) == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "no transcript available"})
		return
	}

	title := req.Title
	if title == "" {
		title = "Meeting"
	}

	content := h.Minutes.Generate(r.Context(), minutes.Meeting{
		Title:        title,
		Participants: req.Participants,
		StartedAt:    time.Now().UTC(),
		Transcript:   transcript,
		Language:     h.Settings.Snapshot().TargetLanguage,
	})

	path, err := h.Minutes.Save(content, "manual", h.MinutesDir)
	if err != nil {
		slog.Error("failed to save minutes", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to save minutes"})
		return
	}

	if h.Archive.Enabled() {
		if err := h.Archive.Upload(filepath.Base(path), "text/markdown", []byte(content)); err != nil {
			slog.Warn("minutes archive upload failed", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, MinutesResponse{
		SessionID: "manual",
		Content:   content,
		FilePath:  path,
	})
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	snap := h.Settings.Snapshot()
	writeJSON(w, http.StatusOK, SettingsResponse{
		TranslationMode:     snap.Mode,
		TargetLanguage:      snap.TargetLanguage,
		AnthropicAPIKeySet:  snap.AnthropicAPIKey != "",
		OpenAIAPIKeySet:     snap.OpenAIAPIKey != "",
		OpenRouterAPIKeySet: snap.OpenRouterAPIKey != "",
		OpenRouterModel:     snap.OpenRouterModel,
		DataDir:             h.DataDir,
		ASRWebSocketURL:     h.ASRURL,
	})
}

// UpdateSettings applies the provided fields and swaps a freshly built
// backend into the pipeline. The previous backend instance is discarded.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	snap := h.Settings.Update(
		req.TranslationMode,
		req.TargetLanguage,
		req.AnthropicAPIKey,
		req.OpenAIAPIKey,
		req.OpenRouterAPIKey,
		req.OpenRouterModel,
	)
	h.Pipeline.SetBackend(translation.New(snap))

	slog.Info("settings updated", "mode", snap.Mode, "target_language", snap.TargetLanguage)
	writeJSON(w, http.StatusOK, MessageResponse{Message: "settings updated"})
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /heartbeat", h.Heartbeat)
	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.HandleFunc("GET /api/v1/transcript/stream", h.StreamTranscript)

	mux.HandleFunc("POST /api/v1/session/start", h.StartSession)
	mux.HandleFunc("POST /api/v1/session/stop", h.StopSession)
	mux.HandleFunc("GET /api/v1/session/current", h.CurrentSession)

	mux.HandleFunc("POST /api/v1/minutes/generate", h.GenerateMinutes)

	mux.HandleFunc("GET /api/v1/settings", h.GetSettings)
	mux.HandleFunc("PUT /api/v1/settings", h.UpdateSettings)
}
