package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrongSpace marks a mistyped space, which would otherwise be invisible.
const wrongSpace = '•'

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes styles every passage rune by its typing state. cursorIndex
// is -1 once the passage is fully typed.
func buildStyledRunes(targetRunes, inputRunes []rune, cursorIndex int) []styledRune {
	currentWord := wordForCursor(findWords(targetRunes), cursorIndex)

	out := make([]styledRune, 0, len(targetRunes))
	for i, target := range targetRunes {
		displayed := target
		style := pendingStyle
		switch {
		case i < len(inputRunes):
			switch {
			case target == ' ' && inputRunes[i] != ' ':
				displayed = wrongSpace
				style = incorrectStyle
			case inputRunes[i] == target:
				style = correctStyle
			default:
				style = incorrectStyle
			}
		case target != ' ' && currentWord != nil && i >= currentWord.start && i < currentWord.end:
			style = currentWordStyle
		}
		if i == cursorIndex {
			style = style.Underline(true)
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: target == ' ',
		})
	}
	return out
}

type wordRange struct {
	start int
	end   int
}

func findWords(targetRunes []rune) []wordRange {
	var words []wordRange
	start := -1
	for i, r := range targetRunes {
		if r == ' ' {
			if start != -1 {
				words = append(words, wordRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, wordRange{start: start, end: len(targetRunes)})
	}
	return words
}

// wordForCursor returns the word containing the cursor, or the next word
// when the cursor sits on a space.
func wordForCursor(words []wordRange, cursorIndex int) *wordRange {
	if len(words) == 0 || cursorIndex < 0 {
		return nil
	}
	for i := range words {
		if cursorIndex < words[i].end {
			return &words[i]
		}
	}
	return nil
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

type wordToken struct {
	word  []styledRune
	space *styledRune
}

// tokenize splits runes into words, each with the space that follows it.
func tokenize(runes []styledRune) []wordToken {
	var out []wordToken
	start := 0
	for i := range runes {
		if runes[i].isSpace {
			out = append(out, wordToken{word: runes[start:i], space: &runes[i]})
			start = i + 1
		}
	}
	if start < len(runes) {
		out = append(out, wordToken{word: runes[start:]})
	}
	return out
}

// wrapStyledRunes packs whole words into lines of width cells. The space
// after a word stays on that word's line and may overhang by one cell, so a
// cursor or mistyped space at a line end stays visible. Words wider than a
// line are split.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var b strings.Builder
	lineWidth := 0
	for _, tok := range tokenize(runes) {
		if lineWidth > 0 && lineWidth+lineWidthOf(tok.word) > width {
			b.WriteByte('\n')
			lineWidth = 0
		}
		for _, r := range tok.word {
			if lineWidth > 0 && lineWidth+r.width > width {
				b.WriteByte('\n')
				lineWidth = 0
			}
			b.WriteString(r.s)
			lineWidth += r.width
		}
		if tok.space != nil {
			b.WriteString(tok.space.s)
			lineWidth += tok.space.width
		}
	}
	return b.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}
