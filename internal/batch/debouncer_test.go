// SPDX-FileCopyrightText: 2026 VoxVault contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package batch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/edsonmartins/voxvault/internal/transcript"
	"github.com/edsonmartins/voxvault/internal/translation"
)

type fakeBackend struct {
	mu    sync.Mutex
	calls []string
	fail  bool
}

func (f *fakeBackend) Translate(_ context.Context, text, _, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, text)
	if f.fail {
		return "", errors.New("backend down")
	}
	return "[pt] " + text, nil
}

func (f *fakeBackend) GenerateText(context.Context, string, int) (string, error) {
	return "", translation.ErrGenerateUnsupported
}

func (f *fakeBackend) ResetSessions(string) {}
func (f *fakeBackend) Available() bool      { return true }

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestDebouncer(delay time.Duration, b translation.Backend, emitted *[]transcript.Chunk, mu *sync.Mutex) *Debouncer {
	return NewDebouncer(delay,
		func() translation.Backend { return b },
		func() string { return "pt" },
		func(c transcript.Chunk) {
			mu.Lock()
			*emitted = append(*emitted, c)
			mu.Unlock()
		},
	)
}

func TestDebouncer_BatchesIntoOneCall(t *testing.T) {
	backend := &fakeBackend{}
	var mu sync.Mutex
	var emitted []transcript.Chunk
	d := newTestDebouncer(300*time.Millisecond, backend, &emitted, &mu)

	d.Add("First sentence.", "en", 100)
	time.Sleep(100 * time.Millisecond)
	d.Add("Second sentence.", "en", 200)
	time.Sleep(100 * time.Millisecond)
	d.Add("Third sentence.", "en", 300)

	// The window is timed from the last add, so 150ms later nothing
	// should have fired yet.
	time.Sleep(150 * time.Millisecond)
	if n := backend.callCount(); n != 0 {
		t.Fatalf("translate fired early: %d calls", n)
	}

	deadline := time.Now().Add(2 * time.Second)
	for backend.callCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if n := backend.callCount(); n != 1 {
		t.Fatalf("translate calls = %d, want exactly 1", n)
	}

	backend.mu.Lock()
	got := backend.calls[0]
	backend.mu.Unlock()
	want := "First sentence. Second sentence. Third sentence."
	if got != want {
		t.Fatalf("batched text = %q, want %q", got, want)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(emitted) != 1 {
		t.Fatalf("emitted = %d chunks, want 1", len(emitted))
	}
	if emitted[0].Timestamp != 100 {
		t.Fatalf("timestamp = %d, want first entry's (100)", emitted[0].Timestamp)
	}
	if emitted[0].TranslatedText != "[pt] "+want {
		t.Fatalf("translated = %q", emitted[0].TranslatedText)
	}
}

func TestDebouncer_ExplicitFlush(t *testing.T) {
	backend := &fakeBackend{}
	var mu sync.Mutex
	var emitted []transcript.Chunk
	d := newTestDebouncer(time.Hour, backend, &emitted, &mu)

	d.Add("Pending text.", "en", 1)
	d.Flush(context.Background())

	if n := backend.callCount(); n != 1 {
		t.Fatalf("translate calls = %d, want 1", n)
	}

	// Nothing pending: flush again is a no-op.
	d.Flush(context.Background())
	if n := backend.callCount(); n != 1 {
		t.Fatalf("empty flush issued a call: %d", n)
	}
}

func TestDebouncer_IdentityTranslationProducesNoEvent(t *testing.T) {
	identity := translation.NewDisabled()
	var mu sync.Mutex
	var emitted []transcript.Chunk
	d := NewDebouncer(time.Hour,
		func() translation.Backend { return identity },
		func() string { return "pt" },
		func(c transcript.Chunk) {
			mu.Lock()
			emitted = append(emitted, c)
			mu.Unlock()
		},
	)

	d.Add("Unchanged text.", "en", 1)
	d.Flush(context.Background())

	mu.Lock()
	defer mu.Unlock()
	if len(emitted) != 0 {
		t.Fatalf("identity result emitted %d events, want 0", len(emitted))
	}
}

func TestDebouncer_BackendFailureIsSwallowed(t *testing.T) {
	backend := &fakeBackend{fail: true}
	var mu sync.Mutex
	var emitted []transcript.Chunk
	d := newTestDebouncer(time.Hour, backend, &emitted, &mu)

	d.Add("Doomed batch.", "en", 1)
	d.Flush(context.Background())

	mu.Lock()
	if len(emitted) != 0 {
		mu.Unlock()
		t.Fatal("failed batch should not emit")
	}
	mu.Unlock()

	// The next batch still goes through.
	backend.fail = false
	d.Add("Healthy batch.", "en", 2)
	d.Flush(context.Background())

	mu.Lock()
	defer mu.Unlock()
	if len(emitted) != 1 {
		t.Fatalf("next batch emitted %d events, want 1", len(emitted))
	}
}
