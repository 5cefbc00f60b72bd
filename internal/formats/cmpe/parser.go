// Package cmpe parses quizzes whose questions are delimited by separator
// glyphs (⸻, dash or box-drawing runs), with "## <Type> - N points each"
// headers and optional inline T/F:, MCQ: or Q: tags.
package cmpe

import (
	"regexp"
	"strings"

	"github.com/mind-engage/quizdoc/internal/formats"
	"github.com/mind-engage/quizdoc/internal/quiz"
)

// essayBodyLimit is how much body text may accumulate before a blank line ends an essay question.
const essayBodyLimit = 50

type tag int

const (
	tagNone tag = iota
	tagTrueFalse
	tagChoice
	tagQuestion
)

var (
	tfTagRe  = regexp.MustCompile(`(?i)^(?:\(t/f\)|t/f:|tf:)\s*`)
	mcqTagRe = regexp.MustCompile(`(?i)^(?:\(mcq\)|mcq:)\s*`)
	qTagRe   = regexp.MustCompile(`(?i)^q:\s*`)
	bareHdr  = []string{"true/false", "multiple choice", "short answer", "essay"}
)

func init() {
	formats.Register(quiz.FormatSeparatorDelimited, formats.ParserFunc(Parse))
}

type line struct {
	no   int
	text string
}

type parser struct {
	c       *formats.Collector
	section quiz.QuestionType
}

// Parse reads the separator-delimited grammar, one question per chunk, in
// document order. Short answer sections are emitted as essay questions.
func Parse(text string, opts formats.Options) quiz.Result {
	p := &parser{c: formats.NewCollector(opts.Unresolved.Or(quiz.UnresolvedNone))}
	lineNo := 1
	for _, chunk := range formats.SplitSeparated(text) {
		lines := chunkLines(chunk, lineNo)
		lineNo += strings.Count(chunk, "\n")
		p.chunk(lines)
	}
	return p.c.Result(quiz.FormatSeparatorDelimited, false)
}

func chunkLines(chunk string, first int) []line {
	raw := formats.Lines(chunk)
	out := make([]line, len(raw))
	for i, t := range raw {
		out[i] = line{no: first + i, text: t}
	}
	return out
}

// emitted maps a section type to the type questions under it are emitted as.
func emitted(t quiz.QuestionType) quiz.QuestionType {
	if t == quiz.TypeShortAnswer {
		return quiz.TypeEssay
	}
	return t
}

func headerTitle(s string) (string, bool) {
	if strings.HasPrefix(s, "## ") {
		return strings.TrimSpace(strings.TrimLeft(s, "# ")), true
	}
	lower := strings.ToLower(s)
	for _, h := range bareHdr {
		if strings.HasPrefix(lower, h) {
			return s, true
		}
	}
	return "", false
}

func (p *parser) chunk(lines []line) {
	hdr := -1
	for i, l := range lines {
		if title, ok := headerTitle(l.text); ok {
			hdr = i
			if t, ok := formats.ClassifySection(title); ok {
				p.section = emitted(t)
				p.c.SetSection(p.section, formats.SectionPoints(title))
			} else {
				p.section = ""
			}
			break
		}
	}

	qi, kind, text := -1, tagNone, ""
	for i, l := range lines {
		if i == hdr {
			continue
		}
		if k, t, ok := questionStart(l.text); ok {
			qi, kind, text = i, k, t
			break
		}
	}
	if qi < 0 {
		return
	}

	typ := p.section
	switch kind {
	case tagTrueFalse:
		typ = quiz.TypeTrueFalse
	case tagChoice:
		typ = quiz.TypeMultipleChoice
	case tagQuestion:
		typ = quiz.TypeEssay
		if hasOptions(lines[qi+1:]) {
			typ = quiz.TypeMultipleChoice
		}
	}
	if typ == "" {
		return
	}

	rest := lines[qi+1:]
	no := lines[qi].no
	points := p.c.Sections().PointsFor(typ)
	switch typ {
	case quiz.TypeTrueFalse:
		ind, found := findAnswer(rest, no)
		p.c.TrueFalse(no, text, points, ind, found)
	case quiz.TypeMultipleChoice:
		opts, ind, found := collectOptions(rest)
		p.c.MultipleChoice(no, text, points, opts, ind, found)
	default:
		body, sample := collectBody(rest)
		if body != "" {
			text = strings.TrimSpace(text + "\n" + body)
		}
		p.c.Open(no, typ, text, points, sample)
	}
}

// questionStart matches, in priority order, a T/F tag, an MCQ tag, a Q: tag,
// or bare "<n>. " numbering. Numbering may precede a tag.
func questionStart(s string) (tag, string, bool) {
	if s == "" {
		return tagNone, "", false
	}
	if _, ok := formats.CutAnswer(s); ok || formats.IsExplanation(s) {
		return tagNone, "", false
	}
	body, numbered := formats.StripNumbering(s)
	for _, m := range []struct {
		re *regexp.Regexp
		k  tag
	}{{tfTagRe, tagTrueFalse}, {mcqTagRe, tagChoice}, {qTagRe, tagQuestion}} {
		if loc := m.re.FindStringIndex(body); loc != nil {
			return m.k, strings.TrimSpace(body[loc[1]:]), true
		}
	}
	if numbered {
		return tagNone, strings.TrimSpace(body), true
	}
	return tagNone, "", false
}

func hasOptions(lines []line) bool {
	for _, l := range lines {
		if _, ok := formats.CutAnswer(l.text); ok {
			return false
		}
		if _, ok := formats.CutOption(l.text, true); ok {
			return true
		}
	}
	return false
}

// findAnswer looks for the answer within formats.AnswerWindow lines of the
// question on line no.
func findAnswer(lines []line, no int) (string, bool) {
	for _, l := range lines {
		if l.no-no > formats.AnswerWindow {
			break
		}
		if ind, ok := formats.CutAnswer(l.text); ok {
			return ind, true
		}
	}
	return "", false
}

func collectOptions(lines []line) (opts []string, indicator string, found bool) {
	for _, l := range lines {
		if ind, ok := formats.CutAnswer(l.text); ok {
			return opts, ind, true
		}
		if o, ok := formats.CutOption(l.text, true); ok {
			opts = append(opts, o)
		}
	}
	return opts, "", false
}

// collectBody gathers the lines after an open question up to its Answer: line,
// the next question start, an explanation, or a blank line once more than
// essayBodyLimit characters were collected. The Answer: text is the sample.
func collectBody(lines []line) (body, sample string) {
	var parts []string
	n := 0
	for _, l := range lines {
		if ind, ok := formats.CutAnswer(l.text); ok {
			return strings.Join(parts, "\n"), ind
		}
		if formats.IsExplanation(l.text) {
			break
		}
		if _, _, ok := questionStart(l.text); ok {
			break
		}
		if l.text == "" {
			if n > essayBodyLimit {
				break
			}
			continue
		}
		parts = append(parts, l.text)
		n += len(l.text)
	}
	return strings.Join(parts, "\n"), ""
}
