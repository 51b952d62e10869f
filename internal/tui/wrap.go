package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// mark is the highlight state of one character of the current word.
type mark int

const (
	markPending mark = iota
	markOK
	markErr
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// currentWordMarks highlights the target word against the typed text.
// Typed characters are ok until the first mismatch; from then on everything up
// to and including the mismatch is marked as an error and the rest stays
// pending.
func currentWordMarks(word, typed string) []mark {
	wordRunes := []rune(word)
	typedRunes := []rune(typed)
	mismatchAt := -1
	for i := range typedRunes {
		if i >= len(wordRunes) || wordRunes[i] != typedRunes[i] {
			mismatchAt = i
			break
		}
	}
	marks := make([]mark, len(wordRunes))
	for i := range wordRunes {
		switch {
		case mismatchAt == -1 && i < len(typedRunes):
			marks[i] = markOK
		case mismatchAt != -1 && i <= mismatchAt:
			marks[i] = markErr
		default:
			marks[i] = markPending
		}
	}
	return marks
}

func buildStyledRunes(words []string, typed string, st styles) []styledRune {
	out := []styledRune{}
	for wi, word := range words {
		if wi > 0 {
			out = append(out, styledRune{s: " ", width: 1, isSpace: true})
		}
		if wi != 0 {
			for _, r := range word {
				out = append(out, styledRune{s: st.pending.Render(string(r)), width: runewidth.RuneWidth(r)})
			}
			continue
		}
		marks := currentWordMarks(word, typed)
		cursor := len([]rune(typed))
		for i, r := range []rune(word) {
			style := styleForMark(marks[i], st)
			if i == cursor {
				style = style.Underline(true)
			}
			out = append(out, styledRune{s: style.Render(string(r)), width: runewidth.RuneWidth(r)})
		}
	}
	return out
}

func styleForMark(m mark, st styles) lipgloss.Style {
	switch m {
	case markOK:
		return st.ok
	case markErr:
		return st.err
	default:
		return st.current
	}
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes soft-wraps at spaces so no line exceeds width cells.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if item.isSpace {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
				i++
				continue
			}
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
