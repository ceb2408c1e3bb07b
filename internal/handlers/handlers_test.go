// SPDX-FileCopyrightText: 2026 VoxVault contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package handlers

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/edsonmartins/voxvault/internal/broadcast"
	"github.com/edsonmartins/voxvault/internal/config"
	"github.com/edsonmartins/voxvault/internal/merge"
	"github.com/edsonmartins/voxvault/internal/minutes"
	"github.com/edsonmartins/voxvault/internal/pipeline"
	"github.com/edsonmartins/voxvault/internal/session"
	"github.com/edsonmartins/voxvault/internal/store"
	"github.com/edsonmartins/voxvault/internal/transcript"
	"github.com/edsonmartins/voxvault/internal/translation"
)

type memStore struct{}

func (memStore) Save(context.Context, store.Record) error { return nil }

type fakeConn bool

func (f fakeConn) Connected() bool { return bool(f) }

func newHandler(t *testing.T) (*Handler, *http.ServeMux) {
	t.Helper()

	broadcaster := broadcast.New(16)
	sessions := session.NewManager(memStore{})
	settings := config.NewSettings(config.Snapshot{
		Mode:           config.ModeDisabled,
		TargetLanguage: "pt",
	})
	coord := pipeline.NewCoordinator(
		make(chan transcript.Fragment),
		merge.NewBuffer(time.Second, true),
		broadcaster,
		sessions,
		settings,
		translation.NewDisabled(),
		time.Hour,
	)

	h := &Handler{
		Broadcaster: broadcaster,
		Sessions:    sessions,
		Pipeline:    coord,
		Settings:    settings,
		Minutes:     minutes.NewGenerator(coord.Backend),
		Archive:     store.NewArchive("", "", ""),
		Bridge:      fakeConn(true),
		MinutesDir:  t.TempDir(),
		ASRURL:      "ws://localhost:8765",
		DataDir:     t.TempDir(),
	}
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return h, mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHeartbeat(t *testing.T) {
	_, mux := newHandler(t)
	rec := doJSON(t, mux, http.MethodGet, "/heartbeat", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decode[StatusResponse](t, rec); got.Status != "ok" {
		t.Fatalf("unexpected status %q", got.Status)
	}
}

func TestHealth(t *testing.T) {
	_, mux := newHandler(t)
	rec := doJSON(t, mux, http.MethodGet, "/api/v1/health", nil)
	got := decode[HealthResponse](t, rec)
	if !got.ASRConnected {
		t.Fatal("expected asr_connected true")
	}
	if got.SessionActive {
		t.Fatal("expected no active session")
	}
	if got.TranslationMode != config.ModeDisabled {
		t.Fatalf("unexpected mode %q", got.TranslationMode)
	}
}

func TestStopWithoutSession(t *testing.T) {
	_, mux := newHandler(t)
	rec := doJSON(t, mux, http.MethodPost, "/api/v1/session/stop", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSessionLifecycle(t *testing.T) {
	h, mux := newHandler(t)

	rec := doJSON(t, mux, http.MethodPost, "/api/v1/session/start",
		SessionStartRequest{Title: "Planning", Participants: []string{"ana"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("start: expected 200, got %d", rec.Code)
	}
	started := decode[session.Info](t, rec)
	if started.Title != "Planning" {
		t.Fatalf("unexpected title %q", started.Title)
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/v1/session/current", nil)
	current := decode[SessionCurrentResponse](t, rec)
	if !current.Active || current.Session == nil || current.Session.ID != started.ID {
		t.Fatalf("unexpected current session: %+v", current)
	}

	h.Sessions.AddChunk(transcript.Chunk{OriginalText: "Hi.", TranslatedText: "Hi."})

	rec = doJSON(t, mux, http.MethodPost, "/api/v1/session/stop", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stop: expected 200, got %d", rec.Code)
	}
	stopped := decode[SessionStopResponse](t, rec)
	if stopped.SessionID != started.ID || stopped.TranscriptChunks != 1 {
		t.Fatalf("unexpected stop response: %+v", stopped)
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/v1/session/current", nil)
	if current := decode[SessionCurrentResponse](t, rec); current.Active {
		t.Fatal("session still reported active after stop")
	}
}

func TestGenerateMinutesRejectedMidSession(t *testing.T) {
	h, mux := newHandler(t)
	h.Sessions.Start("Live", nil)

	rec := doJSON(t, mux, http.MethodPost, "/api/v1/minutes/generate", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 mid-session, got %d", rec.Code)
	}
}

func TestGenerateMinutesRejectedWithoutTranscript(t *testing.T) {
	_, mux := newHandler(t)
	rec := doJSON(t, mux, http.MethodPost, "/api/v1/minutes/generate", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without transcript, got %d", rec.Code)
	}
}

func TestGenerateMinutesFallback(t *testing.T) {
	h, mux := newHandler(t)
	h.Sessions.Start("Review", nil)
	h.Sessions.AddChunk(transcript.Chunk{OriginalText: "We agreed on the plan.", TranslatedText: "We agreed on the plan."})
	if _, err := h.Sessions.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}

	rec := doJSON(t, mux, http.MethodPost, "/api/v1/minutes/generate",
		MinutesRequest{Title: "Review"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := decode[MinutesResponse](t, rec)
	if !strings.Contains(got.Content, "We agreed on the plan.") {
		t.Fatalf("minutes missing transcript:\n%s", got.Content)
	}
	if _, err := os.Stat(got.FilePath); err != nil {
		t.Fatalf("minutes file not written: %v", err)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	h, mux := newHandler(t)

	rec := doJSON(t, mux, http.MethodGet, "/api/v1/settings", nil)
	got := decode[SettingsResponse](t, rec)
	if got.TranslationMode != config.ModeDisabled || got.TargetLanguage != "pt" {
		t.Fatalf("unexpected settings: %+v", got)
	}

	lang := "en"
	rec = doJSON(t, mux, http.MethodPut, "/api/v1/settings",
		SettingsUpdateRequest{TargetLanguage: &lang})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", rec.Code)
	}

	if snap := h.Settings.Snapshot(); snap.TargetLanguage != "en" {
		t.Fatalf("target language not updated: %+v", snap)
	}
}

func TestSettingsUpdateFallsBackWithoutKey(t *testing.T) {
	h, mux := newHandler(t)

	mode := config.ModeOpenAI
	rec := doJSON(t, mux, http.MethodPut, "/api/v1/settings",
		SettingsUpdateRequest{TranslationMode: &mode})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	// No API key configured, so the factory swaps in the disabled backend.
	if translation.Enabled(h.Pipeline.Backend()) {
		t.Fatal("expected disabled backend after keyless mode switch")
	}
}

func TestStreamTranscriptDeliversEvents(t *testing.T) {
	h, mux := newHandler(t)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/transcript/stream", nil)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get stream: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}

	// Wait for the subscription before publishing.
	deadline := time.Now().Add(2 * time.Second)
	for h.Broadcaster.Subscribers() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	h.Broadcaster.PublishJSON(transcript.Chunk{OriginalText: "Hello.", TranslatedText: "Hello."})

	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		if strings.HasPrefix(line, "data: ") {
			var c transcript.Chunk
			if err := json.Unmarshal([]byte(strings.TrimPrefix(strings.TrimSpace(line), "data: ")), &c); err != nil {
				t.Fatalf("unmarshal event: %v", err)
			}
			if c.OriginalText != "Hello." {
				t.Fatalf("unexpected event text %q", c.OriginalText)
			}
			return
		}
	}
}
