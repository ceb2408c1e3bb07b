// SPDX-FileCopyrightText: 2026 VoxVault contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package handlers

import "github.com/edsonmartins/voxvault/internal/session"

type SessionStartRequest struct {
	Title        string   `json:"title,omitempty"`
	Participants []string `json:"participants,omitempty"`
}

type SessionStopResponse struct {
	SessionID        string `json:"session_id"`
	DurationSeconds  int    `json:"duration_seconds"`
	TranscriptChunks int    `json:"transcript_chunks"`
}

type SessionCurrentResponse struct {
	Active  bool          `json:"active"`
	Session *session.Info `json:"session,omitempty"`
}

type MinutesRequest struct {
	Title        string   `json:"title,omitempty"`
	Participants []string `json:"participants,omitempty"`
}

type MinutesResponse struct {
	SessionID string `json:"session_id"`
	Content   string `json:"content"`
	FilePath  string `json:"file_path"`
}

type SettingsResponse struct {
	TranslationMode     string `json:"translation_mode"`
	TargetLanguage      string `json:"target_language"`
	AnthropicAPIKeySet  bool   `json:"anthropic_api_key_set"`
	OpenAIAPIKeySet     bool   `json:"openai_api_key_set"`
	OpenRouterAPIKeySet bool   `json:"openrouter_api_key_set"`
	OpenRouterModel     string `json:"openrouter_model"`
	DataDir             string `json:"data_dir"`
	ASRWebSocketURL     string `json:"asr_ws_url"`
}

type SettingsUpdateRequest struct {
	TranslationMode  *string `json:"translation_mode,omitempty"`
	TargetLanguage   *string `json:"target_language,omitempty"`
	AnthropicAPIKey  *string `json:"anthropic_api_key,omitempty"`
	OpenAIAPIKey     *string `json:"openai_api_key,omitempty"`
	OpenRouterAPIKey *string `json:"openrouter_api_key,omitempty"`
	OpenRouterModel  *string `json:"openrouter_model,omitempty"`
}

type HealthResponse struct {
	Status          string `json:"status"`
	ASRConnected    bool   `json:"asr_connected"`
	SessionActive   bool   `json:"session_active"`
	TranslationMode string `json:"translation_mode"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
