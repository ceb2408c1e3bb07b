// SPDX-FileCopyrightText: 2026 VoxVault contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package constants

import "time"

const (
	// Pipeline timing.
	FragmentPollInterval = 500 * time.Millisecond
	DefaultMergeTimeout  = 2000 * time.Millisecond
	DefaultBatchDelay    = 8 * time.Second
	TranslateTimeout     = 30 * time.Second
	GenerateTimeout      = 60 * time.Second
	TranslateMaxTokens   = 1024
	MinutesMaxTokens     = 2000

	// Fan-out.
	SubscriberQueueSize = 256
	SSEKeepalive        = 30 * time.Second

	// Upstream ASR bridge.
	BridgeDialTimeout     = 10 * time.Second
	BridgeRetryDelay      = 2 * time.Second
	BridgeMaxConnectTries = 30
	FragmentQueueSize     = 256

	// HTTP server.
	ServerShutdownTimeout = 30 * time.Second
)
