package markup

import "github.com/mind-engage/quizdoc/internal/quiz"

// Formatter applies the inline rewrites to every text field of a question.
type Formatter struct {
	// BlockMath emits $$...$$ instead of \(...\).
	BlockMath bool
	// BracketMath treats [expr] as math before the dollar rewrite.
	BracketMath bool
}

// Text runs markdown, optional bracket, then dollar rewriting.
func (f Formatter) Text(s string) string {
	if s == "" {
		return s
	}
	s = MarkdownToHTML(s)
	if f.BracketMath {
		s = BracketsToDollars(s)
	}
	return MathToPlatform(s, f.BlockMath)
}

// Question returns a copy of q with every text field formatted. q is not modified.
func (f Formatter) Question(q quiz.Question) quiz.Question {
	out := q
	out.Text = f.Text(q.Text)
	if q.Answers != nil {
		out.Answers = make([]quiz.AnswerOption, len(q.Answers))
		for i, a := range q.Answers {
			out.Answers[i] = quiz.AnswerOption{Text: f.Text(a.Text), Weight: a.Weight}
		}
	}
	if q.AnswerOptions != nil {
		out.AnswerOptions = make([]string, len(q.AnswerOptions))
		for i, o := range q.AnswerOptions {
			out.AnswerOptions[i] = f.Text(o)
		}
	}
	if q.SampleAnswer != nil {
		s := f.Text(*q.SampleAnswer)
		out.SampleAnswer = &s
	}
	return out
}

func (f Formatter) Questions(qs []quiz.Question) []quiz.Question {
	out := make([]quiz.Question, len(qs))
	for i, q := range qs {
		out[i] = f.Question(q)
	}
	return out
}
