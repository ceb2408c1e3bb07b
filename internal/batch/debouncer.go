// SPDX-FileCopyrightText: 2026 VoxVault contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package batch accumulates final transcript text during a quiet window
// and translates the whole batch with a single backend call, instead of
// one call per sentence.
package batch

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/edsonmartins/voxvault/internal/transcript"
	"github.com/edsonmartins/voxvault/internal/translation"
)

type entry struct {
	text      string
	language  string
	timestamp int64
}

// Debouncer restarts its delay timer on every Add; the batch fires after
// the configured inactivity window counted from the last add, or on an
// explicit Flush. At most one timer is alive per instance.
//
// The backend and target language come from provider funcs so that
// runtime settings swaps take effect without rebuilding the debouncer.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	pending []entry
	timer   *time.Timer

	backend    func() translation.Backend
	targetLang func() string
	emit       func(transcript.Chunk)

	logger *slog.Logger
}

func NewDebouncer(
	delay time.Duration,
	backend func() translation.Backend,
	targetLang func() string,
	emit func(transcript.Chunk),
) *Debouncer {
	return &Debouncer{
		delay:      delay,
		backend:    backend,
		targetLang: targetLang,
		emit:       emit,
		logger:     slog.With("component", "translation_batcher"),
	}
}

// Add appends one entry and restarts the delay timer.
func (d *Debouncer) Add(text, lang string, timestamp int64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = append(d.pending, entry{text: text, language: lang, timestamp: timestamp})

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.Flush(context.Background())
	})
}

// Flush translates everything pending in one backend call. Backend
// failures are logged and swallowed; the next batch is unaffected.
func (d *Debouncer) Flush(ctx context.Context) {
	d.mu.Lock()
	if len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	items := d.pending
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	texts := make([]string, len(items))
	for i, it := range items {
		texts[i] = it.text
	}
	combined := strings.Join(texts, " ")
	sourceLang := items[0].language
	firstTS := items[0].timestamp
	target := d.targetLang()

	d.logger.Info("translating batch",
		"chunks", len(items),
		"chars", len(combined),
	)

	translated, err := d.backend().Translate(ctx, combined, sourceLang, target)
	if err != nil {
		d.logger.Error("batch translation failed", "error", err)
		return
	}
	if translated == combined {
		return
	}

	d.emit(transcript.Chunk{
		OriginalText:   combined,
		TranslatedText: translated,
		SourceLanguage: sourceLang,
		TargetLanguage: target,
		Timestamp:      firstTS,
		IsFinal:        true,
	})
}
