// SPDX-FileCopyrightText: 2026 VoxVault contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package translation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	openai "github.com/sashabaranov/go-openai"

	"github.com/edsonmartins/voxvault/internal/constants"
)

const nativeInstructions = "You are a professional real-time meeting transcript translator.\n" +
	"Rules:\n" +
	"- Translate accurately and naturally, preserving the speaker's tone\n" +
	"- Keep technical terms, proper nouns and acronyms as-is\n" +
	"- Return ONLY the translated text — no explanations, no quotes, no preamble\n" +
	"- If the text is already in the target language, return it unchanged\n" +
	"- Preserve line breaks from the original"

// NativeBackend talks to an on-device model runtime and keeps one
// conversational session per target language so the model sees earlier
// segments of the meeting as context. Sessions are not concurrency-safe:
// all use is serialized by the backend's lock.
type NativeBackend struct {
	mu       sync.Mutex
	client   *openai.Client
	model    string
	sessions map[string][]openai.ChatCompletionMessage

	checkOnce sync.Once
	available atomic.Bool

	logger *slog.Logger
}

func NewNative(runtimeURL, model string) *NativeBackend {
	cfg := openai.DefaultConfig("")
	cfg.BaseURL = strings.TrimRight(runtimeURL, "/") + "/v1"
	return &NativeBackend{
		client:   openai.NewClientWithConfig(cfg),
		model:    model,
		sessions: make(map[string][]openai.ChatCompletionMessage),
		logger:   slog.With("component", "translation", "backend", "native"),
	}
}

// ensureAvailable probes the runtime once on first use.
func (b *NativeBackend) ensureAvailable(ctx context.Context) bool {
	b.checkOnce.Do(func() {
		if _, err := b.client.ListModels(ctx); err != nil {
			b.logger.Warn("on-device runtime not available", "error", err)
			return
		}
		b.available.Store(true)
		b.logger.Info("on-device model runtime initialized")
	})
	return b.available.Load()
}

func (b *NativeBackend) session(targetLang string) []openai.ChatCompletionMessage {
	if sess, ok := b.sessions[targetLang]; ok {
		return sess
	}
	sess := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: nativeInstructions},
	}
	b.sessions[targetLang] = sess
	return sess
}

func (b *NativeBackend) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if strings.TrimSpace(text) == "" || sourceLang == targetLang {
		return text, nil
	}

	ctx, cancel := context.WithTimeout(ctx, constants.TranslateTimeout)
	defer cancel()

	if !b.ensureAvailable(ctx) {
		return text, nil
	}

	prompt := fmt.Sprintf("Translate from %s to %s:\n%s",
		languageName(sourceLang), languageName(targetLang), text)

	b.mu.Lock()
	defer b.mu.Unlock()

	out, err := b.respond(ctx, targetLang, prompt)
	if err == nil {
		return out, nil
	}

	if !isContextOverflow(err) {
		b.logger.Error("translation failed, returning original text", "error", err)
		return text, nil
	}

	// Context window exhausted: discard the session, recreate it and
	// retry exactly once. A second failure degrades to the original text.
	b.logger.Warn("context window exceeded, recreating session", "target_lang", targetLang)
	delete(b.sessions, targetLang)

	out, err = b.respond(ctx, targetLang, prompt)
	if err != nil {
		b.logger.Error("retry after session recreate failed", "error", err)
		return text, nil
	}
	return out, nil
}

// respond sends one prompt on the target language's session and records
// both sides of the exchange in its history. Callers hold b.mu.
func (b *NativeBackend) respond(ctx context.Context, targetLang, prompt string) (string, error) {
	sess := b.session(targetLang)
	messages := append(sess, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    b.model,
		Messages: messages,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	b.sessions[targetLang] = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: answer,
	})
	return answer, nil
}

func (b *NativeBackend) GenerateText(ctx context.Context, prompt string, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.GenerateTimeout)
	defer cancel()

	if !b.ensureAvailable(ctx) {
		return "", ErrGenerateUnsupported
	}

	// Generation runs on a fresh one-shot exchange, never on a
	// translation session.
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
		return "", fmt.Errorf("empty completion response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ResetSessions discards one or all cached sessions, freeing accumulated
// context between meetings.
func (b *NativeBackend) ResetSessions(targetLang string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if targetLang != "" {
		delete(b.sessions, targetLang)
	} else {
		b.sessions = make(map[string][]openai.ChatCompletionMessage)
	}
	b.logger.Debug("sessions reset", "target_lang", targetLang)
}

func (b *NativeBackend) Available() bool {
	return b.available.Load()
}

func isContextOverflow(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "context") || strings.Contains(msg, "exceeded")
}
