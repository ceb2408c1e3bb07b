// SPDX-FileCopyrightText: 2026 VoxVault contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package merge buffers final transcript chunks that stop mid-sentence and
// joins them with the following chunks until a complete sentence forms.
// The upstream ASR engine segments on silence pauses, which regularly cuts
// sentences mid-phrase.
package merge

import (
	"log/slog"
	"sync"
	"time"

	"github.com/edsonmartins/voxvault/internal/textproc"
	"github.com/edsonmartins/voxvault/internal/transcript"
)

// Buffer holds at most one pending incomplete chunk together with the
// monotonic time it began pending. It is safe for concurrent use: pushes
// come from the pipeline loop while flushes may come from the stop
// handler.
type Buffer struct {
	mu           sync.Mutex
	timeout      time.Duration
	enabled      bool
	pending      *transcript.Chunk
	pendingSince time.Time
	logger       *slog.Logger
}

func NewBuffer(timeout time.Duration, enabled bool) *Buffer {
	return &Buffer{
		timeout: timeout,
		enabled: enabled,
		logger:  slog.With("component", "sentence_merger"),
	}
}

// Push processes one final chunk. It returns a chunk ready for emission
// and true, or false while buffering. With merging disabled every chunk
// passes straight through.
func (b *Buffer) Push(chunk transcript.Chunk) (transcript.Chunk, bool) {
	if !b.enabled {
		return chunk, true
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pending == nil {
		if textproc.EndsWithSentence(chunk.OriginalText) {
			return chunk, true
		}
		b.pending = &chunk
		b.pendingSince = time.Now()
		b.logger.Debug("buffered incomplete sentence", "text_len", len(chunk.OriginalText))
		return transcript.Chunk{}, false
	}

	merged := transcript.MergeChunks(*b.pending, chunk)
	b.logger.Debug("merged chunks",
		"first_len", len(b.pending.OriginalText),
		"second_len", len(chunk.OriginalText),
	)

	if textproc.EndsWithSentence(merged.OriginalText) {
		b.pending = nil
		return merged, true
	}

	// Still incomplete, keep buffering. The timeout clock restarts.
	b.pending = &merged
	b.pendingSince = time.Now()
	return transcript.Chunk{}, false
}

// CheckTimeout force-flushes the pending chunk once it has waited at
// least the configured timeout.
func (b *Buffer) CheckTimeout(now time.Time) (transcript.Chunk, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pending == nil || now.Sub(b.pendingSince) < b.timeout {
		return transcript.Chunk{}, false
	}
	b.logger.Info("timeout flush", "waited", now.Sub(b.pendingSince))
	return b.flushLocked()
}

// Flush unconditionally returns and clears the pending chunk. Called at
// session end and on stream termination so no buffered text is lost.
func (b *Buffer) Flush() (transcript.Chunk, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.flushLocked()
}

func (b *Buffer) flushLocked() (transcript.Chunk, bool) {
	if b.pending == nil {
		return transcript.Chunk{}, false
	}
	chunk := *b.pending
	b.pending = nil
	return chunk, true
}

func (b *Buffer) HasPending() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending != nil
}
