// SPDX-FileCopyrightText: 2026 VoxVault contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package pipeline drives fragments from the ASR bridge through
// normalization, language detection, sentence merging and translation
// batching out to the broadcaster.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/edsonmartins/voxvault/internal/batch"
	"github.com/edsonmartins/voxvault/internal/broadcast"
	"github.com/edsonmartins/voxvault/internal/config"
	"github.com/edsonmartins/voxvault/internal/constants"
	"github.com/edsonmartins/voxvault/internal/language"
	"github.com/edsonmartins/voxvault/internal/merge"
	"github.com/edsonmartins/voxvault/internal/session"
	"github.com/edsonmartins/voxvault/internal/textproc"
	"github.com/edsonmartins/voxvault/internal/transcript"
	"github.com/edsonmartins/voxvault/internal/translation"
)

// Coordinator owns the processing loop. It is the single writer into the
// merge buffer; the stop handler reaches the buffer and debouncer through
// FlushAll.
type Coordinator struct {
	fragments   <-chan transcript.Fragment
	merger      *merge.Buffer
	debouncer   *batch.Debouncer
	broadcaster *broadcast.Broadcaster
	sessions    *session.Manager
	settings    *config.Settings

	mu      sync.RWMutex
	backend translation.Backend

	logger *slog.Logger
}

func NewCoordinator(
	fragments <-chan transcript.Fragment,
	merger *merge.Buffer,
	broadcaster *broadcast.Broadcaster,
	sessions *session.Manager,
	settings *config.Settings,
	backend translation.Backend,
	batchDelay time.Duration,
) *Coordinator {
	c := &Coordinator{
		fragments:   fragments,
		merger:      merger,
		broadcaster: broadcaster,
		sessions:    sessions,
		settings:    settings,
		backend:     backend,
		logger:      slog.With("component", "pipeline"),
	}
	c.debouncer = batch.NewDebouncer(
		batchDelay,
		c.Backend,
		func() string { return settings.Snapshot().TargetLanguage },
		func(chunk transcript.Chunk) { broadcaster.PublishJSON(chunk) },
	)
	return c
}

// Backend returns the current translation backend.
func (c *Coordinator) Backend() translation.Backend {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.backend
}

// SetBackend swaps the translation backend. The debouncer and minutes
// generator pick up the new one on their next call.
func (c *Coordinator) SetBackend(b translation.Backend) {
	c.mu.Lock()
	c.backend = b
	c.mu.Unlock()
	c.logger.Info("translation backend swapped")
}

// Run processes fragments until ctx is canceled. Idle poll ticks drive the
// merge buffer timeout so a trailing half sentence is not stuck forever.
func (c *Coordinator) Run(ctx context.Context) {
	ticker := time.NewTicker(constants.FragmentPollInterval)
	defer ticker.Stop()

	c.logger.Info("transcript processor started")

	for {
		select {
		case <-ctx.Done():
			c.FlushAll()
			c.logger.Info("transcript processor stopped")
			return

		case now := <-ticker.C:
			if chunk, ok := c.merger.CheckTimeout(now); ok {
				c.emitFinal(chunk)
			}

		case frag, ok := <-c.fragments:
			if !ok {
				c.FlushAll()
				c.logger.Info("fragment channel closed, transcript processor stopped")
				return
			}
			c.handleFragment(frag)
		}
	}
}

func (c *Coordinator) handleFragment(frag transcript.Fragment) {
	if frag.Type != transcript.FragmentTranscript {
		c.broadcaster.PublishJSON(frag)
		return
	}
	if strings.TrimSpace(frag.Text) == "" {
		return
	}

	lang := frag.Language
	if lang == "" || lang == "auto" {
		lang = language.Detect(frag.Text)
	}

	chunk := transcript.Chunk{
		OriginalText:   frag.Text,
		TranslatedText: frag.Text,
		SourceLanguage: lang,
		TargetLanguage: c.settings.Snapshot().TargetLanguage,
		Timestamp:      frag.Timestamp,
		IsFinal:        frag.IsFinal,
	}

	if !frag.IsFinal {
		// Partials go straight out for low-latency display.
		c.broadcaster.PublishJSON(chunk)
		return
	}

	if ready, ok := c.merger.Push(chunk); ok {
		c.emitFinal(ready)
	}
}

// emitFinal normalizes a complete chunk, broadcasts it, buffers it in the
// active session and queues it for batched translation. Normalization runs
// after merging: inserting terminal punctuation earlier would mark every
// half sentence as complete and starve the merge buffer.
func (c *Coordinator) emitFinal(chunk transcript.Chunk) {
	text := textproc.Normalize(chunk.OriginalText)
	chunk.OriginalText = text
	chunk.TranslatedText = text

	c.broadcaster.PublishJSON(chunk)
	c.sessions.AddChunk(chunk)

	target := c.settings.Snapshot().TargetLanguage
	if translation.Enabled(c.Backend()) && chunk.SourceLanguage != target {
		c.debouncer.Add(chunk.OriginalText, chunk.SourceLanguage, chunk.Timestamp)
	}
}

// FlushAll drains the merge buffer through the normal emit path, then
// forces the pending translation batch out. Called at session stop and on
// shutdown so no buffered text is lost.
func (c *Coordinator) FlushAll() {
	if chunk, ok := c.merger.Flush(); ok {
		c.emitFinal(chunk)
	}
	ctx, cancel := context.WithTimeout(context.Background(), constants.TranslateTimeout)
	defer cancel()
	c.debouncer.Flush(ctx)
}
