// SPDX-FileCopyrightText: 2026 VoxVault contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/edsonmartins/voxvault/internal/constants"
)

const (
	anthropicEndpoint = "https://api.anthropic.com/v1/messages"
	anthropicVersion  = "2023-06-01"
	claudeModel       = "claude-haiku-4-5-20251001"
)

// ClaudeBackend translates through the Anthropic Messages API.
type ClaudeBackend struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	model      string
	logger     *slog.Logger
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
}

func NewClaude(apiKey string) *ClaudeBackend {
	return &ClaudeBackend{
		httpClient: &http.Client{},
		endpoint:   anthropicEndpoint,
		apiKey:     apiKey,
		model:      claudeModel,
		logger:     slog.With("component", "translation", "backend", "claude"),
	}
}

func (b *ClaudeBackend) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if strings.TrimSpace(text) == "" || sourceLang == targetLang {
		return text, nil
	}

	ctx, cancel := context.WithTimeout(ctx, constants.TranslateTimeout)
	defer cancel()

	out, err := b.complete(ctx, anthropicRequest{
		Model:     b.model,
		MaxTokens: constants.TranslateMaxTokens,
		System:    translateSystemPrompt(sourceLang, targetLang),
		Messages:  []anthropicMessage{{Role: "user", Content: text}},
	})
	if err != nil {
		b.logger.Error("translation failed, returning original text",
			"error", err,
			"source_lang", sourceLang,
			"target_lang", targetLang,
		)
		return text, nil
	}
	return out, nil
}

func (b *ClaudeBackend) GenerateText(ctx context.Context, prompt string, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.GenerateTimeout)
	defer cancel()

	return b.complete(ctx, anthropicRequest{
		Model:     b.model,
		MaxTokens: maxTokens,
		Messages:  []anthropicMessage{{Role: "user", Content: prompt}},
	})
}

func (b *ClaudeBackend) complete(ctx context.Context, reqBody anthropicRequest) (string, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", b.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("anthropic status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(parsed.Content) == 0 {
		return "", fmt.Errorf("empty response content")
	}
	return strings.TrimSpace(parsed.Content[0].Text), nil
}

func (b *ClaudeBackend) ResetSessions(string) {}

func (b *ClaudeBackend) Available() bool { return true }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
