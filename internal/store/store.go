// SPDX-FileCopyrightText: 2026 VoxVault contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store persists finished session records. Persistence is
// best-effort: failures are logged by callers and never block teardown.
package store

import (
	"context"
	"time"
)

// Record is the durable summary written when a session ends.
type Record struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	StartedAt       time.Time `json:"started_at"`
	EndedAt         time.Time `json:"ended_at"`
	DurationSeconds int       `json:"duration_seconds"`
	Participants    []string  `json:"participants"`
	ChunkCount      int       `json:"chunk_count"`
}

type Store interface {
	Save(ctx context.Context, rec Record) error
}
