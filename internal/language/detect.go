// SPDX-FileCopyrightText: 2026 VoxVault contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package language guesses the source language of transcribed text using
// Unicode script counting for CJK and Hangul, then stop-word frequency
// scoring for Latin-script languages.
package language

import (
	"strings"
	"unicode"
)

// Default is returned whenever no confident decision can be made.
const Default = "en"

// latinPriority fixes the tie-break order for equal stop-word scores.
var latinPriority = []string{"en", "pt", "es", "fr", "de", "it"}

var stopwords = map[string]map[string]struct{}{
	"en": wordSet("the", "and", "is", "to", "of", "in", "it", "that", "was",
		"for", "with", "this", "are", "not"),
	"pt": wordSet("de", "que", "nao", "uma", "com", "para", "por", "mais",
		"foi", "como", "esta", "seu", "dos", "das"),
	"es": wordSet("que", "el", "en", "los", "del", "las", "por", "con",
		"una", "para", "esta", "como", "pero", "mas"),
	"fr": wordSet("les", "des", "est", "une", "dans", "pour", "pas",
		"sur", "avec", "sont", "mais", "ont", "vous", "nous",
		"cette", "tout", "elle", "ses", "aux"),
	"de": wordSet("der", "die", "das", "ist", "und", "ein", "den", "von",
		"nicht", "mit", "ich", "sich", "auf", "auch"),
	"it": wordSet("che", "non", "una", "per", "sono", "del", "con", "della",
		"questo", "anche", "suo", "hanno", "gli", "molto"),
}

func wordSet(words ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// Detect returns a 2-letter language code: en, pt, es, fr, de, it, ja, zh
// or ko. It falls back to Default when uncertain.
func Detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return Default
	}

	var cjk, hangul, kana, latin, total int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		total++
		switch {
		case (r >= 0x4E00 && r <= 0x9FFF) || (r >= 0x3400 && r <= 0x4DBF):
			cjk++
		case (r >= 0xAC00 && r <= 0xD7AF) || (r >= 0x1100 && r <= 0x11FF):
			hangul++
		case r >= 0x3040 && r <= 0x30FF:
			kana++
		case r < 0x80 || (r >= 0x00C0 && r <= 0x024F):
			latin++
		}
	}

	if total == 0 {
		return Default
	}

	switch {
	case float64(hangul)/float64(total) > 0.3:
		return "ko"
	case float64(kana)/float64(total) > 0.2:
		return "ja"
	case float64(cjk)/float64(total) > 0.3:
		if kana > 0 {
			return "ja"
		}
		return "zh"
	case float64(latin)/float64(total) < 0.5:
		return Default
	}

	words := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		words[w] = struct{}{}
	}

	best, bestScore := Default, 0
	for _, lang := range latinPriority {
		score := 0
		for w := range words {
			if _, ok := stopwords[lang][w]; ok {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = lang, score
		}
	}
	if bestScore == 0 {
		return Default
	}
	return best
}
