// SPDX-FileCopyrightText: 2026 VoxVault contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package textproc

import "testing"

func TestNormalize_FillersAndRepeats(t *testing.T) {
	got := Normalize("the the meeting is uh starting")
	want := "The meeting is starting."
	if got != want {
		t.Fatalf("Normalize: got %q, want %q", got, want)
	}
}

func TestNormalize_Blank(t *testing.T) {
	if got := Normalize(""); got != "" {
		t.Fatalf("blank input changed: %q", got)
	}
	if got := Normalize("   "); got != "   " {
		t.Fatalf("whitespace input changed: %q", got)
	}
}

func TestNormalize_Numbers(t *testing.T) {
	cases := []struct{ in, want string }{
		{"twenty one", "21."},
		{"we need five hundred units", "We need 500 units."},
		{"thirty-three people came", "33 people came."},
		{"two thousand attendees", "2000 attendees."},
		{"seventeen", "17."},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalize_NumbersBeforePunctuation(t *testing.T) {
	// "five hundred" must be converted before the terminal period is
	// appended, otherwise "hundred." would not match the multiplier.
	got := Normalize("the total is five hundred")
	if got != "The total is 500." {
		t.Fatalf("got %q", got)
	}
}

func TestNormalize_Capitalization(t *testing.T) {
	cases := []struct{ in, want string }{
		{"i think i'm ready", "I think I'm ready."},
		{"it works. really well", "It works. Really well."},
		{"i'll call you. i'd like that", "I'll call you. I'd like that."},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalize_KeepsExistingPunctuation(t *testing.T) {
	cases := []struct{ in, want string }{
		{"are we done?", "Are we done?"},
		{"he said \"stop.\"", "He said \"stop.\""},
		{"done!", "Done!"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalize_RepeatKeepsPunctuation(t *testing.T) {
	if got := Normalize("it was great great"); got != "It was great." {
		t.Fatalf("got %q", got)
	}
}

func TestEndsWithSentence(t *testing.T) {
	complete := []string{
		"Done.", "Really?", "Stop!", "He said \"stop.\"", "(ok!)",
		"It works.  ", "終わりました。", "",
	}
	for _, s := range complete {
		if !EndsWithSentence(s) {
			t.Errorf("EndsWithSentence(%q) = false, want true", s)
		}
	}

	incomplete := []string{
		"but there's still a lot more than",
		"It was a",
		"trailing quote\"",
		"no terminator)",
	}
	for _, s := range incomplete {
		if EndsWithSentence(s) {
			t.Errorf("EndsWithSentence(%q) = true, want false", s)
		}
	}
}
