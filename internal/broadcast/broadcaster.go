// SPDX-FileCopyrightText: 2026 VoxVault contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package broadcast fans pipeline events out to live subscribers through
// bounded per-subscriber queues with drop-oldest backpressure.
package broadcast

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Event is a pre-marshaled JSON payload ready for delivery.
type Event = json.RawMessage

// Broadcaster distributes events to subscribers. Each subscriber owns a
// bounded channel; a full channel loses its oldest entry to make room for
// the new one, favoring freshness for a live stream.
type Broadcaster struct {
	mu        sync.RWMutex
	subs      map[int]chan Event
	nextID    int
	queueSize int
	logger    *slog.Logger
}

func New(queueSize int) *Broadcaster {
	return &Broadcaster{
		subs:      make(map[int]chan Event),
		queueSize: queueSize,
		logger:    slog.With("component", "broadcaster"),
	}
}

// Subscribe registers a new subscriber and returns its id and channel.
func (b *Broadcaster) Subscribe() (int, <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, b.queueSize)
	b.subs[id] = ch

	b.logger.Info("subscriber connected", "id", id, "total", len(b.subs))
	return id, ch
}

// Unsubscribe removes a subscriber. Its channel is not closed: a publish
// racing with unsubscribe may still hold a reference.
func (b *Broadcaster) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[id]; !ok {
		return
	}
	delete(b.subs, id)
	b.logger.Info("subscriber disconnected", "id", id, "total", len(b.subs))
}

// Publish enqueues the event for every subscriber without blocking. On a
// full queue exactly one oldest entry is dropped first.
func (b *Broadcaster) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subs {
		select {
		case ch <- event:
		default:
			select {
			case <-ch:
				b.logger.Debug("dropped oldest event for slow subscriber", "id", id)
			default:
			}
			select {
			case ch <- event:
			default:
			}
		}
	}
}

// PublishJSON marshals v and publishes it. Marshal failures are logged
// and dropped; nothing in the fan-out path is fatal.
func (b *Broadcaster) PublishJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		b.logger.Error("failed to marshal event", "error", err)
		return
	}
	b.Publish(data)
}

// Subscribers returns the current subscriber count.
func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
