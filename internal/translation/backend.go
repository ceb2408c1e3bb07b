// SPDX-FileCopyrightText: 2026 VoxVault contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package translation defines the swappable translation backend port and
// its implementations. Backends degrade to returning the original text on
// transport failures; translation problems are never surfaced as error
// events to the pipeline.
package translation

import (
	"context"
	"errors"
	"fmt"
)

var ErrGenerateUnsupported = errors.New("backend does not support text generation")

// Backend is the capability set every translation variant provides.
type Backend interface {
	// Translate returns the translated text, or the original text when
	// translation is unnecessary (blank input, source == target) or when
	// the backend fails recoverably.
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)

	// GenerateText produces free-form text from a prompt (meeting
	// minutes). Backends without generation return ErrGenerateUnsupported.
	GenerateText(ctx context.Context, prompt string, maxTokens int) (string, error)

	// ResetSessions discards cached conversational state for one target
	// language, or all of it when targetLang is empty. A no-op for
	// stateless backends.
	ResetSessions(targetLang string)

	// Available reports whether the backend can currently serve calls.
	Available() bool
}

// languageNames maps language codes to display names for model prompts.
var languageNames = map[string]string{
	"pt": "Brazilian Portuguese", "pt-BR": "Brazilian Portuguese",
	"en": "English", "es": "Spanish", "fr": "French",
	"de": "German", "it": "Italian", "ja": "Japanese",
	"ko": "Korean", "zh": "Simplified Chinese",
}

func languageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

func translateSystemPrompt(sourceLang, targetLang string) string {
	return fmt.Sprintf(
		"You are a precise translator. Translate from %s to %s. "+
			"Output ONLY the translated text, no explanations or metadata.",
		languageName(sourceLang), languageName(targetLang),
	)
}
