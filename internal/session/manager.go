// SPDX-FileCopyrightText: 2026 VoxVault contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks the single active recording session, buffers its
// transcript chunks and persists a summary record when it ends.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/edsonmartins/voxvault/internal/store"
	"github.com/edsonmartins/voxvault/internal/transcript"
)

var ErrNoActiveSession = errors.New("no active session")

const persistTimeout = 5 * time.Second

// Info describes a session to API consumers.
type Info struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	StartedAt    time.Time `json:"started_at"`
	Participants []string  `json:"participants"`
	IsActive     bool      `json:"is_active"`
}

// StopResult bundles everything the stop operation returns.
type StopResult struct {
	Info            Info
	Transcript      string
	ChunkCount      int
	DurationSeconds int
}

// Manager owns the active-session flag and the chunk buffer. Exactly one
// session is active at a time; starting a new one forcibly ends any
// predecessor. The chunk buffer survives Stop until the next Start so
// minutes can be generated right after a meeting ends.
type Manager struct {
	mu      sync.Mutex
	store   store.Store
	current *Info
	chunks  []transcript.Chunk
	logger  *slog.Logger
}

func NewManager(st store.Store) *Manager {
	return &Manager{
		store:  st,
		logger: slog.With("component", "session_manager"),
	}
}

// Start begins a new session, ending a still-active one first.
func (m *Manager) Start(title string, participants []string) Info {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		m.logger.Warn("session already active, stopping previous session first",
			"session_id", m.current.ID)
		m.stopLocked()
	}

	now := time.Now().UTC()
	if title == "" {
		title = fmt.Sprintf("Meeting %s", now.Format("2006-01-02 15:04"))
	}
	if participants == nil {
		participants = []string{}
	}

	m.current = &Info{
		ID:           uuid.NewString(),
		Title:        title,
		StartedAt:    now,
		Participants: participants,
		IsActive:     true,
	}
	m.chunks = nil

	m.logger.Info("session started", "session_id", m.current.ID, "title", title)
	return *m.current
}

// AddChunk appends a chunk in arrival order. A no-op without an active
// session.
func (m *Manager) AddChunk(chunk transcript.Chunk) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return
	}
	m.chunks = append(m.chunks, chunk)
}

// Stop ends the active session, persists its record best-effort and
// returns the full transcript.
func (m *Manager) Stop() (StopResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return StopResult{}, ErrNoActiveSession
	}
	return m.stopLocked(), nil
}

func (m *Manager) stopLocked() StopResult {
	info := *m.current
	info.IsActive = false
	ended := time.Now().UTC()
	duration := int(ended.Sub(info.StartedAt).Seconds())

	res := StopResult{
		Info:            info,
		Transcript:      m.transcriptLocked(),
		ChunkCount:      len(m.chunks),
		DurationSeconds: duration,
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	err := m.store.Save(ctx, store.Record{
		ID:              info.ID,
		Title:           info.Title,
		StartedAt:       info.StartedAt,
		EndedAt:         ended,
		DurationSeconds: duration,
		Participants:    info.Participants,
		ChunkCount:      len(m.chunks),
	})
	if err != nil {
		// Best-effort durability: the in-memory transcript is still
		// returned to the caller.
		m.logger.Error("failed to persist session record", "error", err, "session_id", info.ID)
	} else {
		m.logger.Info("session persisted", "session_id", info.ID, "chunks", len(m.chunks))
	}

	m.current = nil
	return res
}

func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil
}

// Current returns the active session info, if any.
func (m *Manager) Current() (Info, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return Info{}, false
	}
	return *m.current, true
}

func (m *Manager) ChunkCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.chunks)
}

// FullTranscript formats the buffered chunks, pairing original and
// translated text when they differ.
func (m *Manager) FullTranscript() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transcriptLocked()
}

func (m *Manager) transcriptLocked() string {
	var lines []string
	for _, c := range m.chunks {
		lines = append(lines, fmt.Sprintf("[%s] %s", strings.ToUpper(c.SourceLanguage), c.OriginalText))
		if c.TranslatedText != c.OriginalText {
			lines = append(lines, fmt.Sprintf("[%s] %s", strings.ToUpper(c.TargetLanguage), c.TranslatedText))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
