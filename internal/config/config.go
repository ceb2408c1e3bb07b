// SPDX-FileCopyrightText: 2026 VoxVault contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"

	"github.com/edsonmartins/voxvault/internal/constants"
)

// Translation backend modes. Selection happens once in the translation
// factory; nothing downstream branches on these strings.
const (
	ModeDisabled   = "disabled"
	ModeClaude     = "claude"
	ModeOpenAI     = "openai"
	ModeOpenRouter = "openrouter"
	ModeLocal      = "local"
	ModeNative     = "native"
)

const defaultOpenRouterModel = "google/gemma-3-27b-it:free"

// Config holds process-wide configuration. The translation-related subset
// lives in Settings and stays mutable at runtime.
type Config struct {
	ASRWebSocketURL string
	APIHost         string
	APIPort         string
	DataDir         string
	MergeTimeout    time.Duration
	BatchDelay      time.Duration

	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string

	Settings *Settings
}

// Snapshot is an immutable copy of the runtime-mutable settings. Backends
// are constructed from a snapshot and never observe later updates.
type Snapshot struct {
	Mode             string
	TargetLanguage   string
	AnthropicAPIKey  string
	OpenAIAPIKey     string
	OpenRouterAPIKey string
	OpenRouterModel  string
	LocalModelURL    string
	NativeRuntimeURL string
}

// Settings guards the runtime-mutable translation settings. Updates swap
// whole values; callers rebuild the translation backend afterwards.
type Settings struct {
	mu   sync.Mutex
	snap Snapshot
}

func NewSettings(snap Snapshot) *Settings {
	return &Settings{snap: snap}
}

func (s *Settings) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Update applies non-nil fields and returns the resulting snapshot.
func (s *Settings) Update(mode, targetLang, anthropicKey, openaiKey, openrouterKey, openrouterModel *string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mode != nil {
		s.snap.Mode = *mode
	}
	if targetLang != nil {
		s.snap.TargetLanguage = *targetLang
	}
	if anthropicKey != nil {
		s.snap.AnthropicAPIKey = *anthropicKey
	}
	if openaiKey != nil {
		s.snap.OpenAIAPIKey = *openaiKey
	}
	if openrouterKey != nil {
		s.snap.OpenRouterAPIKey = *openrouterKey
	}
	if openrouterModel != nil {
		s.snap.OpenRouterModel = *openrouterModel
	}
	return s.snap
}

// Load reads configuration from the environment, with a .env file as an
// optional source for local development.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg := &Config{
		ASRWebSocketURL: envOr("VOXVAULT_ASR_WS_URL", "ws://localhost:8765"),
		APIHost:         envOr("VOXVAULT_API_HOST", "127.0.0.1"),
		APIPort:         envOr("VOXVAULT_API_PORT", "8766"),
		DataDir:         envOr("VOXVAULT_DATA_DIR", defaultDataDir()),
		MergeTimeout:    envDurationMs("VOXVAULT_MERGE_TIMEOUT_MS", constants.DefaultMergeTimeout),
		BatchDelay:      envDurationSecs("VOXVAULT_BATCH_DELAY_SECS", constants.DefaultBatchDelay),
		SupabaseURL:     os.Getenv("VOXVAULT_SUPABASE_URL"),
		SupabaseKey:     os.Getenv("VOXVAULT_SUPABASE_KEY"),
		SupabaseBucket:  envOr("VOXVAULT_SUPABASE_BUCKET", "voxvault"),
	}

	cfg.Settings = NewSettings(Snapshot{
		Mode:             envOr("VOXVAULT_TRANSLATION_MODE", ModeDisabled),
		TargetLanguage:   envOr("VOXVAULT_TARGET_LANGUAGE", "pt"),
		AnthropicAPIKey:  os.Getenv("VOXVAULT_ANTHROPIC_API_KEY"),
		OpenAIAPIKey:     os.Getenv("VOXVAULT_OPENAI_API_KEY"),
		OpenRouterAPIKey: os.Getenv("VOXVAULT_OPENROUTER_API_KEY"),
		OpenRouterModel:  envOr("VOXVAULT_OPENROUTER_MODEL", defaultOpenRouterModel),
		LocalModelURL:    os.Getenv("VOXVAULT_LOCAL_MODEL_URL"),
		NativeRuntimeURL: os.Getenv("VOXVAULT_NATIVE_RUNTIME_URL"),
	})

	return cfg, nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "voxvault-data"
	}
	return filepath.Join(home, "Documents", "VoxVault")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDurationMs(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms <= 0 {
		slog.Warn("invalid duration value, using default", "key", key, "value", v)
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

func envDurationSecs(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	secs, err := strconv.ParseFloat(v, 64)
	if err != nil || secs <= 0 {
		slog.Warn("invalid duration value, using default", "key", key, "value", v)
		return fallback
	}
	return time.Duration(secs * float64(time.Second))
}
