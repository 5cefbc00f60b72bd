package formats

import (
	"fmt"
	"sort"

	"github.com/mind-engage/quizdoc/internal/quiz"
)

// Collector accumulates questions, section points and diagnostics during one
// parse and applies the shared answer rules so every grammar agrees on what
// "correct" means.
type Collector struct {
	policy   quiz.UnresolvedPolicy
	items    []collected
	dropped  []quiz.Diagnostic
	sections quiz.SectionMetadata
}

type collected struct {
	q     quiz.Question
	line  int
	diags []quiz.Diagnostic
}

// NewCollector returns a collector that resolves unmatched answer keys with policy.
func NewCollector(policy quiz.UnresolvedPolicy) *Collector {
	return &Collector{policy: policy, sections: quiz.SectionMetadata{}}
}

// SetSection records the per-question points declared by a section header.
func (c *Collector) SetSection(t quiz.QuestionType, points float64) { c.sections[t] = points }

func (c *Collector) Sections() quiz.SectionMetadata { return c.sections }

func (c *Collector) drop(line int, code, format string, args ...any) {
	c.dropped = append(c.dropped, quiz.Diagnostic{Index: -1, Line: line, Code: code, Message: fmt.Sprintf(format, args...)})
}

func (c *Collector) emit(line int, q quiz.Question, diags ...quiz.Diagnostic) {
	for i := range diags {
		diags[i].Line = line
	}
	c.items = append(c.items, collected{q: q, line: line, diags: diags})
}

// TrueFalse emits a True/False question, or drops it when no answer line was found.
func (c *Collector) TrueFalse(line int, text string, points float64, indicator string, hasAnswer bool) {
	if text == "" {
		c.drop(line, quiz.DiagEmptyQuestion, "true/false question has no text")
		return
	}
	if !hasAnswer {
		c.drop(line, quiz.DiagTFMissingAnswer, "true/false question %q has no answer line", excerpt(text))
		return
	}
	c.emit(line, quiz.Question{
		Text:    text,
		Type:    quiz.TypeTrueFalse,
		Points:  points,
		Answers: quiz.TrueFalseAnswers(quiz.ResolveTrueFalse(indicator)),
	})
}

// MultipleChoice emits a multiple choice question. Options past quiz.MaxOptions
// are cut. Without an answer line the options are kept as a fallback list.
func (c *Collector) MultipleChoice(line int, text string, points float64, options []string, indicator string, hasAnswer bool) {
	if text == "" {
		c.drop(line, quiz.DiagEmptyQuestion, "multiple choice question has no text")
		return
	}
	if len(options) == 0 {
		c.drop(line, quiz.DiagMCNoOptions, "multiple choice question %q has no options", excerpt(text))
		return
	}
	var diags []quiz.Diagnostic
	if len(options) > quiz.MaxOptions {
		diags = append(diags, quiz.Diagnostic{
			Code:    quiz.DiagMCOptionsTruncated,
			Message: fmt.Sprintf("kept %d of %d options", quiz.MaxOptions, len(options)),
		})
		options = options[:quiz.MaxOptions]
	}
	q := quiz.Question{Text: text, Type: quiz.TypeMultipleChoice, Points: points}
	if !hasAnswer {
		q.AnswerOptions = append([]string(nil), options...)
		diags = append(diags, quiz.Diagnostic{
			Code:    quiz.DiagMCMissingAnswer,
			Message: "no answer line; options kept without weights",
		})
		c.emit(line, q, diags...)
		return
	}
	answers, resolved := quiz.ResolveMCQWeights(options, indicator, c.policy)
	q.Answers = answers
	if !resolved {
		msg := fmt.Sprintf("answer %q matches no option; all weights left at 0", indicator)
		if c.policy == quiz.UnresolvedFirst {
			msg = fmt.Sprintf("answer %q matches no option; first option marked correct", indicator)
		}
		diags = append(diags, quiz.Diagnostic{Code: quiz.DiagMCUnresolvedAnswer, Message: msg})
	}
	c.emit(line, q, diags...)
}

// Open emits a short answer or essay question with an optional sample answer.
func (c *Collector) Open(line int, t quiz.QuestionType, text string, points float64, sample string) {
	if text == "" {
		c.drop(line, quiz.DiagEmptyQuestion, "%s question has no text", t)
		return
	}
	q := quiz.Question{Text: text, Type: t, Points: points}
	if sample != "" {
		s := sample
		q.SampleAnswer = &s
	}
	c.emit(line, q)
}

// Result flattens what was collected. When grouped is set, questions are
// ordered by quiz.GroupOrder, keeping source order within a type.
// Diagnostic indexes refer to positions in the returned question list.
func (c *Collector) Result(kind quiz.FormatKind, grouped bool) quiz.Result {
	items := c.items
	if grouped {
		items = append([]collected(nil), c.items...)
		rank := make(map[quiz.QuestionType]int, len(quiz.GroupOrder))
		for i, t := range quiz.GroupOrder {
			rank[t] = i
		}
		sort.SliceStable(items, func(i, j int) bool { return rank[items[i].q.Type] < rank[items[j].q.Type] })
	}
	res := quiz.Result{Format: kind, Questions: make([]quiz.Question, 0, len(items)), Sections: c.sections}
	for i, it := range items {
		res.Questions = append(res.Questions, it.q)
		for _, d := range it.diags {
			d.Index = i
			res.Diagnostics = append(res.Diagnostics, d)
		}
	}
	res.Diagnostics = append(res.Diagnostics, c.dropped...)
	sort.SliceStable(res.Diagnostics, func(i, j int) bool { return res.Diagnostics[i].Line < res.Diagnostics[j].Line })
	return res
}

func excerpt(s string) string {
	const maxRunes = 60
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	return string(r[:maxRunes]) + "..."
}
