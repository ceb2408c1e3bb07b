// SPDX-FileCopyrightText: 2026 VoxVault contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package transcript

import "strings"

const (
	FragmentTranscript = "transcript"
	FragmentStatus     = "status"
	FragmentError      = "error"
)

// Fragment is a raw unit received from the upstream ASR engine.
type Fragment struct {
	Type      string `json:"type"`
	Text      string `json:"text"`
	Language  string `json:"language"`
	Timestamp int64  `json:"timestamp"`
	IsFinal   bool   `json:"is_final"`
}

// Chunk is the pipeline unit pairing original and translated text.
// TranslatedText equals OriginalText until a translation completes.
// Chunks are immutable once constructed.
type Chunk struct {
	OriginalText   string `json:"original_text"`
	TranslatedText string `json:"translated_text"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
	Timestamp      int64  `json:"timestamp"`
	IsFinal        bool   `json:"is_final"`
}

// MergeChunks joins two consecutive final chunks into a new one.
// The earliest timestamp is kept; languages come from the later chunk.
func MergeChunks(a, b Chunk) Chunk {
	return Chunk{
		OriginalText:   joinTexts(a.OriginalText, b.OriginalText),
		TranslatedText: joinTexts(a.TranslatedText, b.TranslatedText),
		SourceLanguage: b.SourceLanguage,
		TargetLanguage: b.TargetLanguage,
		Timestamp:      a.Timestamp,
		IsFinal:        true,
	}
}

func joinTexts(a, b string) string {
	return strings.TrimRight(a, " \t\n") + " " + strings.TrimLeft(b, " \t\n")
}
