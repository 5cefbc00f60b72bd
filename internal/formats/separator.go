package formats

import (
	"strings"
	"unicode/utf8"
)

const twoEmDash = '⸻'

func isSeparatorRune(r rune) bool {
	switch {
	case r == twoEmDash, r == '—', r == '–':
		return true
	case r >= 0x2500 && r <= 0x257F: // box drawing
		return true
	}
	return false
}

// separatorRuns returns the byte spans of separator runs that delimit chunks.
// Any run holding ⸻ counts. Dash and box-drawing runs count when they are at
// least three glyphs long or fill their whole line, so a lone dash inside a
// sentence is left alone.
func separatorRuns(text string) [][2]int {
	var runs [][2]int
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isSeparatorRune(r) {
			i += size
			continue
		}
		start, n, long := i, 0, false
		for i < len(text) {
			r, size = utf8.DecodeRuneInString(text[i:])
			if !isSeparatorRune(r) {
				break
			}
			if r == twoEmDash {
				long = true
			}
			n++
			i += size
		}
		if long || n >= 3 || fillsLine(text, start, i) {
			runs = append(runs, [2]int{start, i})
		}
	}
	return runs
}

func fillsLine(text string, start, end int) bool {
	ls := strings.LastIndexByte(text[:start], '\n') + 1
	le := strings.IndexByte(text[end:], '\n')
	if le < 0 {
		le = len(text)
	} else {
		le += end
	}
	return strings.TrimSpace(text[ls:start]) == "" && strings.TrimSpace(text[end:le]) == ""
}

// HasSeparator reports whether text contains at least one chunk separator.
func HasSeparator(text string) bool { return len(separatorRuns(text)) > 0 }

// SplitSeparated cuts text at every separator run. Chunks keep their inner
// newlines; empty chunks are kept so callers can count positions.
func SplitSeparated(text string) []string {
	runs := separatorRuns(text)
	out := make([]string, 0, len(runs)+1)
	prev := 0
	for _, r := range runs {
		out = append(out, text[prev:r[0]])
		prev = r[1]
	}
	return append(out, text[prev:])
}
