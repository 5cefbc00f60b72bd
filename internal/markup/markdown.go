// Package markup rewrites the small subset of markdown and math notation that
// quiz documents use into what the quiz platform renders. Every rewrite is
// idempotent: running it on its own output changes nothing.
package markup

import (
	"regexp"
	"strings"
)

var (
	boldRe   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe = regexp.MustCompile(`\*([^*$]+?)\*`)
	codeRe   = regexp.MustCompile("`([^`]+?)`")
)

// MarkdownToHTML converts **bold**, *italic* and `code` spans to HTML tags.
// A single-star span touching or containing a math delimiter ($, \( or \)) is
// left alone so math is not emphasized.
func MarkdownToHTML(text string) string {
	if text == "" {
		return text
	}
	text = boldRe.ReplaceAllString(text, "<strong>$1</strong>")
	text = replaceItalic(text)
	return codeRe.ReplaceAllString(text, "<code>$1</code>")
}

// replaceItalic emulates `(?<!\$)\*([^*$]+?)\*(?!\$)`; RE2 has no lookaround,
// so rejected candidates are retried one byte further on.
func replaceItalic(text string) string {
	var b strings.Builder
	pos, copied := 0, 0
	for pos < len(text) {
		loc := italicRe.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if touchesMath(text, start, end) {
			pos = start + 1
			continue
		}
		b.WriteString(text[copied:start])
		b.WriteString("<em>")
		b.WriteString(text[pos+loc[2] : pos+loc[3]])
		b.WriteString("</em>")
		copied, pos = end, end
	}
	if copied == 0 {
		return text
	}
	b.WriteString(text[copied:])
	return b.String()
}

// touchesMath reports whether the candidate span text[start:end] sits against
// a math delimiter on either side or contains one. The dollar pass turns $
// into \( or \), so all three count on both passes.
func touchesMath(text string, start, end int) bool {
	if start > 0 && text[start-1] == '$' {
		return true
	}
	if start >= 2 && isParenDelim(text[start-2:start]) {
		return true
	}
	if end < len(text) && text[end] == '$' {
		return true
	}
	if end+2 <= len(text) && isParenDelim(text[end:end+2]) {
		return true
	}
	inner := text[start:end]
	return strings.Contains(inner, `\(`) || strings.Contains(inner, `\)`)
}

func isParenDelim(s string) bool { return s == `\(` || s == `\)` }
