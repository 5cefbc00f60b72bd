// Package plaintext parses "QUESTION <n> (<p>pt)" blocks, or blank-line
// separated blocks when no such headers exist, made of Q:, Type:, lettered
// options and Answer: lines.
package plaintext

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mind-engage/quizdoc/internal/formats"
	"github.com/mind-engage/quizdoc/internal/quiz"
)

var (
	// A header line is "QUESTION <n>" with at most a points suffix after it.
	questionHdrRe = regexp.MustCompile(`(?i)^question\s+\d+\s*[.:]?\s*(\(\s*\d+(?:\.\d+)?\s*(?:pts?|points?)\s*\))?$`)
	pointsRe      = regexp.MustCompile(`(?i)\(\s*(\d+(?:\.\d+)?)\s*(?:pts?|points?)\s*\)`)
	qLineRe       = regexp.MustCompile(`(?i)^q:\s*`)
	typeLineRe    = regexp.MustCompile(`(?i)^type:\s*`)
)

func init() {
	formats.Register(quiz.FormatPlainText, formats.ParserFunc(Parse))
}

type line struct {
	no   int
	text string
}

type block struct {
	start  int
	points float64
	// headed is set when the block was opened by a QUESTION header.
	headed bool
	lines  []line
}

// Parse reads the plain-text grammar in document order. Unresolved multiple
// choice keys mark the first option correct unless opts says otherwise.
func Parse(text string, opts formats.Options) quiz.Result {
	c := formats.NewCollector(opts.Unresolved.Or(quiz.UnresolvedFirst))
	for _, b := range splitBlocks(formats.Lines(text)) {
		parseBlock(c, b)
	}
	return c.Result(quiz.FormatPlainText, false)
}

func splitBlocks(lines []string) []block {
	headed := false
	for _, l := range lines {
		if questionHdrRe.MatchString(l) {
			headed = true
			break
		}
	}

	var out []block
	var cur *block
	flush := func() {
		if cur != nil && (cur.headed || len(cur.lines) > 0) {
			out = append(out, *cur)
		}
		cur = nil
	}
	for i, l := range lines {
		no := i + 1
		if headed {
			if m := questionHdrRe.FindStringSubmatch(l); m != nil {
				flush()
				cur = &block{start: no, points: headerPoints(m[1]), headed: true}
				continue
			}
			if cur != nil && l != "" {
				cur.lines = append(cur.lines, line{no, l})
			}
			continue
		}
		if l == "" {
			flush()
			continue
		}
		if cur == nil {
			cur = &block{start: no, points: 1}
		}
		cur.lines = append(cur.lines, line{no, l})
	}
	flush()
	return out
}

func headerPoints(rest string) float64 {
	m := pointsRe.FindStringSubmatch(rest)
	if m == nil {
		return 1
	}
	p, err := strconv.ParseFloat(m[1], 64)
	if err != nil || p <= 0 {
		return 1
	}
	return p
}

// parseType reads a Type: value. Unknown values report false.
func parseType(v string) (quiz.QuestionType, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true_false", "truefalse", "true/false", "tf", "t/f":
		return quiz.TypeTrueFalse, true
	case "multiple_choice", "multiple choice", "mcq", "mc":
		return quiz.TypeMultipleChoice, true
	case "short_answer", "short answer", "short":
		return quiz.TypeShortAnswer, true
	case "essay":
		return quiz.TypeEssay, true
	}
	return "", false
}

func parseBlock(c *formats.Collector, b block) {
	var (
		text      []string
		options   []string
		typ       quiz.QuestionType
		indicator string
		answered  bool
		sawQ      bool
	)
	setType := func(v string) {
		if t, ok := parseType(v); ok {
			typ = t
		}
	}
	for _, l := range b.lines {
		if answered {
			break
		}
		if loc := qLineRe.FindStringIndex(l.text); loc != nil {
			sawQ = true
			rest := strings.TrimSpace(l.text[loc[1]:])
			if tl := typeLineRe.FindStringIndex(rest); tl != nil {
				setType(rest[tl[1]:])
				continue
			}
			if rest != "" {
				text = append(text, rest)
			}
			continue
		}
		if loc := typeLineRe.FindStringIndex(l.text); loc != nil {
			setType(l.text[loc[1]:])
			continue
		}
		if ind, ok := formats.CutAnswer(l.text); ok {
			indicator, answered = ind, true
			continue
		}
		if opt, ok := formats.CutOption(l.text, false); ok {
			options = append(options, opt)
			continue
		}
		if formats.IsExplanation(l.text) {
			continue
		}
		text = append(text, l.text)
	}
	if !b.headed && !sawQ {
		return
	}
	if typ == "" {
		typ = quiz.TypeEssay
		if len(options) > 0 {
			typ = quiz.TypeMultipleChoice
		}
	}

	q := strings.Join(text, "\n")
	switch typ {
	case quiz.TypeTrueFalse:
		c.TrueFalse(b.start, q, b.points, indicator, answered)
	case quiz.TypeMultipleChoice:
		c.MultipleChoice(b.start, q, b.points, options, indicator, answered)
	default:
		c.Open(b.start, typ, q, b.points, indicator)
	}
}
