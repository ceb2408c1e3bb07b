// SPDX-FileCopyrightText: 2026 VoxVault contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package translation

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/edsonmartins/voxvault/internal/constants"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// ChatBackend translates through an OpenAI-compatible chat completions
// API. It covers the hosted OpenAI and OpenRouter services as well as a
// local model runtime (llama.cpp / Ollama style server) that loads the
// model once on first use and keeps it resident.
type ChatBackend struct {
	client   *openai.Client
	model    string
	name     string
	warmOnce sync.Once
	logger   *slog.Logger
}

func NewOpenAI(apiKey string) *ChatBackend {
	return &ChatBackend{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4oMini,
		name:   "openai",
		logger: slog.With("component", "translation", "backend", "openai"),
	}
}

func NewOpenRouter(apiKey, model string) *ChatBackend {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = openRouterBaseURL
	return &ChatBackend{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		name:   "openrouter",
		logger: slog.With("component", "translation", "backend", "openrouter"),
	}
}

// NewLocal targets a local OpenAI-compatible runtime. The model name is
// resolved by the runtime itself; an empty model lets it use whatever is
// loaded.
func NewLocal(baseURL, model string) *ChatBackend {
	cfg := openai.DefaultConfig("")
	cfg.BaseURL = strings.TrimRight(baseURL, "/") + "/v1"
	return &ChatBackend{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		name:   "local",
		logger: slog.With("component", "translation", "backend", "local"),
	}
}

// warm asks the local runtime to load its model ahead of the first
// translation. Hosted backends skip this.
func (b *ChatBackend) warm(ctx context.Context) {
	if b.name != "local" {
		return
	}
	b.warmOnce.Do(func() {
		b.logger.Info("loading local model, this may take a moment")
		if _, err := b.client.ListModels(ctx); err != nil {
			b.logger.Warn("local runtime not reachable yet", "error", err)
		}
	})
}

func (b *ChatBackend) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if strings.TrimSpace(text) == "" || sourceLang == targetLang {
		return text, nil
	}

	ctx, cancel := context.WithTimeout(ctx, constants.TranslateTimeout)
	defer cancel()
	b.warm(ctx)

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: translateSystemPrompt(sourceLang, targetLang)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		b.logger.Error("translation failed, returning original text",
			"error", err,
			"source_lang", sourceLang,
			"target_lang", targetLang,
		)
		return text, nil
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return text, nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (b *ChatBackend) GenerateText(ctx context.Context, prompt string, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.GenerateTimeout)
	defer cancel()
	b.warm(ctx)

	start := time.Now()
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     b.model,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	b.logger.Debug("generation complete", "elapsed", time.Since(start))
	return resp.Choices[0].Message.Content, nil
}

func (b *ChatBackend) ResetSessions(string) {}

func (b *ChatBackend) Available() bool { return true }
