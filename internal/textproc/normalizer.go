// SPDX-FileCopyrightText: 2026 VoxVault contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package textproc cleans up raw ASR output before sentence merging and
// translation: filler removal, repeated-word collapsing, inverse text
// normalization (spoken numbers to digits), terminal punctuation and
// capitalization.
package textproc

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	fillerRe     = regexp.MustCompile(`(?i)\b(uh|um|erm|hmm|hm|ah|eh|oh)\b,?\s*`)
	multiSpaceRe = regexp.MustCompile(`  +`)
	sentStartRe  = regexp.MustCompile(`([.!?])\s+([a-z])`)
	iContractRe  = regexp.MustCompile(`\bi('m|'ve|'ll|'d)\b`)
	iAloneRe     = regexp.MustCompile(`\bi\b`)

	compoundRe = regexp.MustCompile(`(?i)\b(twenty|thirty|forty|fifty|sixty|seventy|eighty|ninety)[\s-](one|two|three|four|five|six|seven|eight|nine)\b`)
	tensRe     = regexp.MustCompile(`(?i)\b(twenty|thirty|forty|fifty|sixty|seventy|eighty|ninety)\b`)
	unitsRe    = regexp.MustCompile(`(?i)\b(zero|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve|thirteen|fourteen|fifteen|sixteen|seventeen|eighteen|nineteen)\b`)
	hundredRe  = regexp.MustCompile(`(?i)\b(\d+)\s+hundred\b`)
	thousandRe = regexp.MustCompile(`(?i)\b(\d+)\s+thousand\b`)
)

var unitValues = map[string]int{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13,
	"fourteen": 14, "fifteen": 15, "sixteen": 16, "seventeen": 17,
	"eighteen": 18, "nineteen": 19,
}

var tensValues = map[string]int{
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

// Normalize applies all post-processing steps in a fixed order. Numeral
// conversion must run before punctuation insertion. Blank input is
// returned unchanged; Normalize never fails.
func Normalize(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	text = cleanArtifacts(text)
	text = inverseNormalize(text)
	text = ensurePunctuation(text)
	text = capitalize(text)

	return strings.TrimSpace(text)
}

func cleanArtifacts(text string) string {
	text = fillerRe.ReplaceAllString(text, "")
	text = collapseRepeats(text)
	return multiSpaceRe.ReplaceAllString(text, " ")
}

// collapseRepeats reduces immediately-repeated words to one occurrence:
// "the the meeting" -> "the meeting". Comparison is case-insensitive and
// ignores trailing punctuation on the later occurrence, so "great great."
// collapses to "great." while "the, the" is left alone.
func collapseRepeats(text string) string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return text
	}

	out := fields[:1]
	for _, tok := range fields[1:] {
		prev := out[len(out)-1]
		if wordCore(prev) != "" && prev == strings.TrimRightFunc(prev, isTrailingPunct) &&
			wordCore(prev) == wordCore(tok) {
			// Keep the later token: it may carry sentence punctuation.
			out[len(out)-1] = tok
			continue
		}
		out = append(out, tok)
	}
	return strings.Join(out, " ")
}

func wordCore(tok string) string {
	return strings.ToLower(strings.TrimRightFunc(tok, isTrailingPunct))
}

func isTrailingPunct(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// inverseNormalize converts spoken number words to digits. Compound
// tens+units run first so "twenty one" becomes 21 rather than "20 1",
// then standalone tens, standalone units, and finally "N hundred" /
// "N thousand" multiplication.
func inverseNormalize(text string) string {
	text = compoundRe.ReplaceAllStringFunc(text, func(m string) string {
		parts := strings.FieldsFunc(m, func(r rune) bool { return r == ' ' || r == '-' || r == '\t' })
		if len(parts) != 2 {
			return m
		}
		return strconv.Itoa(tensValues[strings.ToLower(parts[0])] + unitValues[strings.ToLower(parts[1])])
	})
	text = tensRe.ReplaceAllStringFunc(text, func(m string) string {
		return strconv.Itoa(tensValues[strings.ToLower(m)])
	})
	text = unitsRe.ReplaceAllStringFunc(text, func(m string) string {
		return strconv.Itoa(unitValues[strings.ToLower(m)])
	})
	text = hundredRe.ReplaceAllStringFunc(text, func(m string) string {
		return multiplyMatch(hundredRe, m, 100)
	})
	text = thousandRe.ReplaceAllStringFunc(text, func(m string) string {
		return multiplyMatch(thousandRe, m, 1000)
	})
	return text
}

func multiplyMatch(re *regexp.Regexp, m string, factor int) string {
	sub := re.FindStringSubmatch(m)
	if len(sub) < 2 {
		return m
	}
	n, err := strconv.Atoi(sub[1])
	if err != nil {
		return m
	}
	return strconv.Itoa(n * factor)
}

func ensurePunctuation(text string) string {
	stripped := strings.TrimRightFunc(text, unicode.IsSpace)
	if stripped == "" {
		return text
	}

	runes := []rune(stripped)
	last := runes[len(runes)-1]
	if isTerminator(last) {
		return text
	}
	if len(runes) >= 2 && isCloser(last) && isTerminator(runes[len(runes)-2]) {
		return text
	}
	return stripped + "."
}

func capitalize(text string) string {
	if text == "" {
		return text
	}

	runes := []rune(text)
	if unicode.IsLetter(runes[0]) && unicode.IsLower(runes[0]) {
		runes[0] = unicode.ToUpper(runes[0])
		text = string(runes)
	}

	text = sentStartRe.ReplaceAllStringFunc(text, strings.ToUpper)

	// Contractions first so "i'm" becomes "I'm" before the standalone pass.
	text = iContractRe.ReplaceAllStringFunc(text, func(m string) string {
		return "I" + m[1:]
	})
	text = iAloneRe.ReplaceAllString(text, "I")

	return text
}
