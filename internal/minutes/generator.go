// SPDX-FileCopyrightText: 2026 VoxVault contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package minutes turns a finished session transcript into structured
// meeting minutes, degrading to the raw transcript when no text-capable
// backend is available.
package minutes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/edsonmartins/voxvault/internal/constants"
	"github.com/edsonmartins/voxvault/internal/translation"
)

const promptTemplate = `You are a specialized meeting minutes assistant.

Title: %s
Participants: %s
Date/Time: %s
Duration: %s

Full transcript:
%s

Generate professional meeting minutes in Markdown with:
1. Executive summary (3-5 lines)
2. Topics discussed
3. Decisions made
4. Action items with owners and deadlines (as a Markdown table)
5. Pending items

Format: Markdown.
Language: %s.
`

// Meeting carries the session facts the prompt and frontmatter need.
type Meeting struct {
	Title           string
	Participants    []string
	StartedAt       time.Time
	DurationSeconds int
	Transcript      string
	Language        string
}

// Generator produces minutes markdown through a translation backend.
type Generator struct {
	backend func() translation.Backend
	logger  *slog.Logger
}

// NewGenerator takes a provider so backend swaps through the settings API
// are picked up without rewiring.
func NewGenerator(backend func() translation.Backend) *Generator {
	return &Generator{
		backend: backend,
		logger:  slog.With("component", "minutes_generator"),
	}
}

// Generate builds minutes for the meeting. LLM failures never surface to
// the caller; the result falls back to a header plus the raw transcript.
func (g *Generator) Generate(ctx context.Context, m Meeting) string {
	if strings.TrimSpace(m.Transcript) == "" {
		return g.emptyMinutes(m)
	}

	duration := formatDuration(m.DurationSeconds)
	prompt := fmt.Sprintf(promptTemplate,
		m.Title,
		joinOr(m.Participants, "Not specified"),
		m.StartedAt.Format("2006-01-02 15:04"),
		duration,
		m.Transcript,
		m.Language,
	)

	genCtx, cancel := context.WithTimeout(ctx, constants.GenerateTimeout)
	defer cancel()

	content, err := g.backend().GenerateText(genCtx, prompt, constants.MinutesMaxTokens)
	if err != nil {
		if errors.Is(err, translation.ErrGenerateUnsupported) {
			g.logger.Warn("backend does not support text generation, returning raw transcript")
		} else {
			g.logger.Error("minutes generation failed", "error", err)
		}
		return g.fallbackMinutes(m, duration)
	}
	return wrapFrontmatter(content, m, duration)
}

// Save writes the minutes markdown into dir and returns the file path.
func (g *Generator) Save(content, sessionID, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create minutes directory: %w", err)
	}

	id := sessionID
	if len(id) > 8 {
		id = id[:8]
	}
	name := fmt.Sprintf("minutes_%s_%s.md", time.Now().UTC().Format("2006-01-02_1504"), id)
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write minutes file: %w", err)
	}
	g.logger.Info("minutes saved", "path", path)
	return path, nil
}

func (g *Generator) emptyMinutes(m Meeting) string {
	return fmt.Sprintf("# %s\n\n**Date:** %s\n**Participants:** %s\n\n*No transcript content recorded.*\n",
		m.Title,
		m.StartedAt.Format("2006-01-02 15:04"),
		joinOr(m.Participants, "N/A"),
	)
}

func (g *Generator) fallbackMinutes(m Meeting, duration string) string {
	header := fmt.Sprintf("# %s\n\n**Date:** %s\n**Duration:** %s\n**Participants:** %s\n\n---\n\n## Transcript\n\n",
		m.Title,
		m.StartedAt.Format("2006-01-02 15:04"),
		duration,
		joinOr(m.Participants, "N/A"),
	)
	return wrapFrontmatter(header+m.Transcript, m, duration)
}

// wrapFrontmatter prefixes YAML frontmatter so the output drops cleanly
// into note-taking tools.
func wrapFrontmatter(content string, m Meeting, duration string) string {
	front := fmt.Sprintf("---\ntitle: %s\ndate: %s\nduration: %s\nparticipants: [%s]\ngenerated_by: VoxVault\n---\n\n",
		m.Title,
		m.StartedAt.Format("2006-01-02"),
		duration,
		strings.Join(m.Participants, ", "),
	)
	return front + content
}

func formatDuration(seconds int) string {
	mins := seconds / 60
	secs := seconds % 60
	if secs == 0 {
		return fmt.Sprintf("%dmin", mins)
	}
	return fmt.Sprintf("%dmin %ds", mins, secs)
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}
