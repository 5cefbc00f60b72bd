// Package sectioned parses markdown quizzes organised under "### <Type> - N
// points each" headers with bold question lines and "**Answer:**" keys.
package sectioned

import (
	"regexp"
	"strings"

	"github.com/mind-engage/quizdoc/internal/formats"
	"github.com/mind-engage/quizdoc/internal/quiz"
)


var (
	numberedBoldRe = regexp.MustCompile(`^\d+\.\s*\*\*.*\*\*$`)
	boldSpanRe     = regexp.MustCompile(`\*\*(.*?)\*\*`)
	leadingNumRe   = regexp.MustCompile(`^\d+\.\s*`)
	numberedRe     = regexp.MustCompile(`^\d+\.\s+`)
	tfMarkerRe     = regexp.MustCompile(`(?i)t/f:`)
)

func init() {
	formats.Register(quiz.FormatSectioned, formats.ParserFunc(Parse))
}

type parser struct {
	lines   []string
	c       *formats.Collector
	section quiz.QuestionType
	points  float64
}

// Parse reads the sectioned grammar. Unresolved multiple choice keys leave
// every weight at 0 unless opts says otherwise. Output is grouped by type.
func Parse(text string, opts formats.Options) quiz.Result {
	p := &parser{
		lines:  formats.Lines(text),
		c:      formats.NewCollector(opts.Unresolved.Or(quiz.UnresolvedNone)),
		points: 1,
	}
	for i := 0; i < len(p.lines); i++ {
		line := p.lines[i]
		if title, ok := header(line); ok {
			p.enterSection(title)
			continue
		}
		if line == "" || p.section == "" {
			continue
		}
		switch p.section {
		case quiz.TypeTrueFalse:
			p.trueFalse(i)
		case quiz.TypeMultipleChoice:
			p.multipleChoice(i)
		case quiz.TypeShortAnswer, quiz.TypeEssay:
			p.open(i)
		}
	}
	return p.c.Result(quiz.FormatSectioned, true)
}

func header(line string) (string, bool) {
	if !strings.HasPrefix(line, "### ") {
		return "", false
	}
	return strings.TrimSpace(line[4:]), true
}

func (p *parser) enterSection(title string) {
	t, ok := formats.ClassifySection(title)
	if !ok {
		p.section = ""
		return
	}
	p.section = t
	p.points = formats.SectionPoints(title)
	p.c.SetSection(t, p.points)
}

func isTrueFalseStart(line string) bool {
	return strings.HasPrefix(line, "**") && tfMarkerRe.MatchString(line)
}

func isChoiceStart(line string) bool {
	if !formats.IsBoldLine(line) {
		return false
	}
	if _, ok := formats.CutAnswer(line); ok {
		return false
	}
	return !formats.IsExplanation(line)
}

// atBoundary reports whether line ends the lookahead for the current question.
func atBoundary(line string, start func(string) bool) bool {
	if _, ok := header(line); ok {
		return true
	}
	return start(line)
}

func (p *parser) trueFalse(i int) {
	line := p.lines[i]
	if !isTrueFalseStart(line) {
		return
	}
	text := strings.ReplaceAll(line, "**", "")
	loc := tfMarkerRe.FindStringIndex(text)
	if loc == nil {
		return
	}
	text = strings.TrimSpace(text[loc[1]:])

	var indicator string
	found := false
	for j := i + 1; j < len(p.lines) && j <= i+formats.AnswerWindow; j++ {
		if atBoundary(p.lines[j], isTrueFalseStart) {
			break
		}
		if ind, ok := formats.CutAnswer(p.lines[j]); ok {
			indicator, found = ind, true
			break
		}
	}
	p.c.TrueFalse(i+1, text, p.points, indicator, found)
}

func (p *parser) multipleChoice(i int) {
	line := p.lines[i]
	if !isChoiceStart(line) {
		return
	}
	text := strings.TrimSpace(strings.ReplaceAll(line, "**", ""))
	text = leadingNumRe.ReplaceAllString(text, "")

	var options []string
	var indicator string
	found := false
	for j := i + 1; j < len(p.lines); j++ {
		next := p.lines[j]
		if ind, ok := formats.CutAnswer(next); ok {
			indicator, found = ind, true
			break
		}
		if atBoundary(next, isChoiceStart) {
			break
		}
		if opt, ok := formats.CutOption(next, true); ok {
			options = append(options, opt)
		}
	}
	p.c.MultipleChoice(i+1, text, p.points, options, indicator, found)
}

func (p *parser) open(i int) {
	line := p.lines[i]
	var text string
	switch {
	case numberedBoldRe.MatchString(line):
		text = strings.TrimSpace(boldSpanRe.FindStringSubmatch(line)[1])
	case isChoiceStart(line):
		content := strings.TrimSpace(strings.ReplaceAll(line, "**", ""))
		if !numberedRe.MatchString(content) {
			return
		}
		text = strings.TrimSpace(numberedRe.ReplaceAllString(content, ""))
	default:
		return
	}
	p.c.Open(i+1, p.section, text, p.points, "")
}
