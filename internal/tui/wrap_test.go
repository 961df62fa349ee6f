package tui

import (
	"strings"
	"testing"
)

func TestBuildStyledRunesCursor(t *testing.T) {
	target := []rune("ab")
	input := []rune("a")

	runes := buildStyledRunes(target, input, len(input))
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != currentWordStyle.Underline(true).Render("b") {
		t.Fatalf("expected underlined cursor on second rune")
	}
}

func TestBuildStyledRunesNoCursorWhenComplete(t *testing.T) {
	runes := buildStyledRunes([]rune("a"), []rune("a"), -1)
	if len(runes) != 1 {
		t.Fatalf("expected 1 rune, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for completed rune")
	}
}

func TestBuildStyledRunesKeepsTargetOnMistype(t *testing.T) {
	runes := buildStyledRunes([]rune("ab"), []rune("ax"), 2)
	if runes[1].s != incorrectStyle.Render("b") {
		t.Fatalf("expected target rune rendered with incorrect style")
	}
}

func TestBuildStyledRunesWordHighlighting(t *testing.T) {
	runes := buildStyledRunes([]rune("one two"), []rune("o"), 1)
	if runes[2].s != currentWordStyle.Render("e") {
		t.Fatalf("expected current word style for untyped in current word")
	}
	if runes[4].s != pendingStyle.Render("t") {
		t.Fatalf("expected pending style for next word")
	}
}

func TestBuildStyledRunesHighlightsNextWordOnSpace(t *testing.T) {
	runes := buildStyledRunes([]rune("one two"), []rune("one"), 3)
	if runes[5].s != currentWordStyle.Render("w") {
		t.Fatalf("expected upcoming word highlighted when cursor is on a space")
	}
}

func TestBuildStyledRunesWrongSpaceDot(t *testing.T) {
	runes := buildStyledRunes([]rune("a b"), []rune("ax"), 2)
	if len(runes) != 3 {
		t.Fatalf("expected 3 runes, got %d", len(runes))
	}
	if runes[1].s != incorrectStyle.Render(string(wrongSpace)) {
		t.Fatalf("expected dot for wrong space")
	}
}

func plainRunes(text string) []styledRune {
	out := make([]styledRune, 0, len(text))
	for _, r := range text {
		out = append(out, styledRune{s: string(r), width: 1, isSpace: r == ' '})
	}
	return out
}

func TestWrapStyledRunesKeepsSpaceOnLine(t *testing.T) {
	got := wrapStyledRunes(plainRunes("the cat sat on"), 8)
	want := "the cat \nsat on"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWrapStyledRunesHardBreaksLongWords(t *testing.T) {
	got := wrapStyledRunes(plainRunes("abcdefgh"), 3)
	lines := strings.Split(got, "\n")
	if len(lines) != 3 || lines[0] != "abc" || lines[2] != "gh" {
		t.Fatalf("unexpected hard wrap: %q", got)
	}
}

func TestWrapStyledRunesNoWidth(t *testing.T) {
	if got := wrapStyledRunes(plainRunes("a b"), 0); got != "a b" {
		t.Fatalf("expected unwrapped output, got %q", got)
	}
}
