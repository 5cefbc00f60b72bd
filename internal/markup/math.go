package markup

import (
	"regexp"
	"strings"
)

var (
	mathCharRe = regexp.MustCompile(`[a-zA-Z_\\{}^]`)
	bracketRe  = regexp.MustCompile(`\[([^\]]+)\]`)
)

// MathToPlatform rewrites $...$ spans to \(...\), or to $$...$$ when block is
// set. A pair converts only when its content looks like math: non-empty, no
// whitespace against either dollar, and at least one letter, '_', '\', '{',
// '}' or '^'. That keeps "$20,000 and $5.99" intact. Existing $$...$$ spans and
// escaped \$ are copied through untouched.
func MathToPlatform(text string, block bool) string {
	if !strings.Contains(text, "$") {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + 8)
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == '\\' && i+1 < len(text) && text[i+1] == '$':
			b.WriteString(`\$`)
			i += 2
			continue
		case c != '$':
			b.WriteByte(c)
			i++
			continue
		}

		if strings.HasPrefix(text[i:], "$$") {
			if end := strings.Index(text[i+2:], "$$"); end >= 0 {
				span := text[i : i+2+end+2]
				b.WriteString(span)
				i += len(span)
				continue
			}
			b.WriteString("$$")
			i += 2
			continue
		}

		end := closingDollar(text, i+1)
		if end < 0 {
			b.WriteString(text[i:])
			break
		}
		content := text[i+1 : end]
		if !looksLikeMath(content) {
			// The closing candidate may open the next pair.
			b.WriteByte('$')
			i++
			continue
		}
		if block {
			b.WriteString("$$" + content + "$$")
		} else {
			b.WriteString(`\(` + content + `\)`)
		}
		i = end + 1
	}
	return b.String()
}

// closingDollar returns the index of the next unescaped '$' at or after from.
func closingDollar(text string, from int) int {
	for j := from; j < len(text); j++ {
		if text[j] == '\\' && j+1 < len(text) && text[j+1] == '$' {
			j++
			continue
		}
		if text[j] == '$' {
			return j
		}
	}
	return -1
}

// looksLikeMath rejects content with whitespace against either dollar. A
// lone "$ x^2 $" therefore stays literal; the trade is that "$20,000 and $x$"
// does not pair the currency sign with the x.
func looksLikeMath(content string) bool {
	if content == "" || strings.TrimSpace(content) != content {
		return false
	}
	return mathCharRe.MatchString(content)
}

// BracketsToDollars rewrites [expr] to $expr$. Markdown links ([text](url)),
// blank brackets and nested or already-delimited content ($, \( or \)) are
// kept.
func BracketsToDollars(text string) string {
	if !strings.Contains(text, "[") {
		return text
	}
	var b strings.Builder
	copied := 0
	for _, loc := range bracketRe.FindAllStringSubmatchIndex(text, -1) {
		start, end := loc[0], loc[1]
		inner := text[loc[2]:loc[3]]
		if strings.TrimSpace(inner) == "" || strings.ContainsAny(inner, "[$") || strings.Contains(inner, `\(`) || strings.Contains(inner, `\)`) {
			continue
		}
		if end < len(text) && text[end] == '(' {
			continue
		}
		b.WriteString(text[copied:start])
		b.WriteString("$" + inner + "$")
		copied = end
	}
	if copied == 0 {
		return text
	}
	b.WriteString(text[copied:])
	return b.String()
}
