// SPDX-FileCopyrightText: 2026 VoxVault contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"bytes"
	"fmt"
	"log/slog"

	supabase "github.com/supabase-community/supabase-go"
)

// Archive uploads generated artifacts (minutes, transcripts) to a
// Supabase storage bucket. Entirely optional: without configuration
// every upload is a logged no-op.
type Archive struct {
	client *supabase.Client
	bucket string
	logger *slog.Logger
}

func NewArchive(url, serviceKey, bucket string) *Archive {
	a := &Archive{
		bucket: bucket,
		logger: slog.With("component", "archive"),
	}

	if url == "" || serviceKey == "" {
		a.logger.Info("archive not configured, uploads disabled")
		return a
	}

	client, err := supabase.NewClient(url, serviceKey, &supabase.ClientOptions{})
	if err != nil {
		a.logger.Error("failed to create archive client, uploads disabled", "error", err)
		return a
	}
	a.client = client
	return a
}

func (a *Archive) Enabled() bool { return a.client != nil }

// Upload stores data under key. Best-effort like the rest of the
// persistence layer.
func (a *Archive) Upload(key, contentType string, data []byte) error {
	if a.client == nil {
		return nil
	}

	_, err := a.client.Storage.UploadFile(a.bucket, key, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}

	a.logger.Info("artifact archived", "bucket", a.bucket, "key", key)
	return nil
}
