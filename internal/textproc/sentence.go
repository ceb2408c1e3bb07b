// SPDX-FileCopyrightText: 2026 VoxVault contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package textproc

import (
	"strings"
	"unicode"
)

const (
	terminators = ".!?。！？"
	closers     = "\"')]}»”’"
)

func isTerminator(r rune) bool { return strings.ContainsRune(terminators, r) }
func isCloser(r rune) bool     { return strings.ContainsRune(closers, r) }

// EndsWithSentence reports whether text ends with sentence-terminating
// punctuation, optionally followed by a single closing quote or bracket.
// Blank text counts as complete.
func EndsWithSentence(text string) bool {
	stripped := strings.TrimRightFunc(text, unicode.IsSpace)
	if stripped == "" {
		return true
	}

	runes := []rune(stripped)
	last := runes[len(runes)-1]
	if isTerminator(last) {
		return true
	}
	if isCloser(last) && len(runes) >= 2 && isTerminator(runes[len(runes)-2]) {
		return true
	}
	return false
}
