// Package examsheet renders parsed questions as a printable student copy in
// Markdown: no weights, no correct answers, no sample answers.
package examsheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mind-engage/quizdoc/internal/markup"
	"github.com/mind-engage/quizdoc/internal/quiz"
)

// DefaultInstructions head the sheet when Options.Instructions is nil.
var DefaultInstructions = []string{
	"Answer all questions in the space provided.",
	"For True/False questions, circle **T** or **F**.",
	"For multiple choice questions, write the letter of the best answer.",
	"Show your work for short answer and essay questions.",
}

const (
	answerRule     = "_______________________________________________"
	shortAnswerGap = 8
	essayGap       = 12
)

var groupTitles = map[quiz.QuestionType]string{
	quiz.TypeTrueFalse:      "True/False",
	quiz.TypeMultipleChoice: "Multiple Choice",
	quiz.TypeShortAnswer:    "Short Answer",
	quiz.TypeEssay:          "Essay",
}

type Options struct {
	Title        string
	Instructions []string
}

// Render writes the exam. Questions keep their order and are numbered
// continuously; a section heading opens whenever the question type changes,
// carrying the per-question points sections declares for that type.
func Render(questions []quiz.Question, sections quiz.SectionMetadata, opts Options) []byte {
	var b strings.Builder
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = "Exam"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	b.WriteString("**Name:** ______________________  **Student ID:** ______________\n\n")
	b.WriteString("**Date:** ______________________  **Time Allowed:** ____________\n\n")
	b.WriteString("---\n\n## Instructions\n\n")
	instr := opts.Instructions
	if instr == nil {
		instr = DefaultInstructions
	}
	for _, line := range instr {
		fmt.Fprintf(&b, "- %s\n", line)
	}
	b.WriteString("\n---\n")

	var last quiz.QuestionType
	for i, q := range questions {
		if q.Type != last {
			b.WriteString("\n" + sectionHeading(q.Type, sections) + "\n")
			last = q.Type
		}
		b.WriteString("\n")
		writeQuestion(&b, i+1, q)
	}
	return []byte(b.String())
}

func sectionHeading(t quiz.QuestionType, sections quiz.SectionMetadata) string {
	name, ok := groupTitles[t]
	if !ok {
		name = string(t)
	}
	if p, ok := sections[t]; ok && p > 0 {
		unit := "points"
		if p == 1 {
			unit = "point"
		}
		return fmt.Sprintf("## %s (%s %s each)", name, strconv.FormatFloat(p, 'f', -1, 64), unit)
	}
	return "## " + name
}

func writeQuestion(b *strings.Builder, n int, q quiz.Question) {
	text := studentText(q.Text)
	switch q.Type {
	case quiz.TypeTrueFalse:
		fmt.Fprintf(b, "**%d. T/F:** %s\n\n**T** / **F**\n\n%s\n", n, text, answerRule)
	case quiz.TypeMultipleChoice:
		fmt.Fprintf(b, "**%d.** %s\n\n", n, text)
		for i, opt := range options(q) {
			fmt.Fprintf(b, "%c) %s\n", 'a'+rune(i), studentText(opt))
		}
		b.WriteString("\n**Answer:** _______\n")
	default:
		gap := shortAnswerGap
		if q.Type == quiz.TypeEssay {
			gap = essayGap
		}
		fmt.Fprintf(b, "%d. **%s**\n\n", n, text)
		for range gap {
			b.WriteString(answerRule + "\n")
		}
	}
}

// options returns the choice texts whether or not a key was resolved.
func options(q quiz.Question) []string {
	if len(q.Answers) == 0 {
		return q.AnswerOptions
	}
	out := make([]string, len(q.Answers))
	for i, a := range q.Answers {
		out[i] = a.Text
	}
	return out
}

// studentText rewrites Unicode symbols and turns \(...\) into $...$ for
// ordinary Markdown viewers. A dollar outside math is escaped so it cannot
// pair with one. Newlines become hard breaks.
func studentText(s string) string {
	s = markup.UnicodeToLaTeX(strings.TrimSpace(s))
	var b strings.Builder
	inMath := false
	for i := 0; i < len(s); i++ {
		switch {
		case strings.HasPrefix(s[i:], `\$`):
			b.WriteString(`\$`)
			i++
		case strings.HasPrefix(s[i:], "$$"):
			end := strings.Index(s[i+2:], "$$")
			if end < 0 {
				b.WriteString(`\$\$`)
				i++
				continue
			}
			b.WriteString(s[i : i+2+end+2])
			i += 2 + end + 1
		case strings.HasPrefix(s[i:], `\(`) || strings.HasPrefix(s[i:], `\)`):
			inMath = s[i+1] == '('
			b.WriteByte('$')
			i++
		case s[i] == '$' && !inMath:
			b.WriteString(`\$`)
		case s[i] == '\n':
			b.WriteString("  \n")
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
