// SPDX-FileCopyrightText: 2026 VoxVault contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package translation

import (
	"log/slog"

	"github.com/edsonmartins/voxvault/internal/config"
)

// New builds the backend selected by the settings snapshot. A mode whose
// required key or URL is missing falls back to the disabled backend with a
// warning. Settings updates construct a new backend through this factory
// and swap it into the pipeline; stale instances are discarded.
func New(snap config.Snapshot) Backend {
	switch snap.Mode {
	case config.ModeClaude:
		if snap.AnthropicAPIKey == "" {
			slog.Warn("claude translation selected but no API key set, falling back to disabled")
			return NewDisabled()
		}
		return NewClaude(snap.AnthropicAPIKey)

	case config.ModeOpenAI:
		if snap.OpenAIAPIKey == "" {
			slog.Warn("openai translation selected but no API key set, falling back to disabled")
			return NewDisabled()
		}
		return NewOpenAI(snap.OpenAIAPIKey)

	case config.ModeOpenRouter:
		if snap.OpenRouterAPIKey == "" {
			slog.Warn("openrouter translation selected but no API key set, falling back to disabled")
			return NewDisabled()
		}
		return NewOpenRouter(snap.OpenRouterAPIKey, snap.OpenRouterModel)

	case config.ModeLocal:
		if snap.LocalModelURL == "" {
			slog.Warn("local translation selected but no runtime URL set, falling back to disabled")
			return NewDisabled()
		}
		return NewLocal(snap.LocalModelURL, "")

	case config.ModeNative:
		if snap.NativeRuntimeURL == "" {
			slog.Warn("native translation selected but no runtime URL set, falling back to disabled")
			return NewDisabled()
		}
		return NewNative(snap.NativeRuntimeURL, "")

	default:
		return NewDisabled()
	}
}

// Enabled reports whether b performs real translation. The pipeline skips
// the batching debouncer entirely for disabled backends.
func Enabled(b Backend) bool {
	_, disabled := b.(Disabled)
	return !disabled
}
