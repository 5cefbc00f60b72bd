package pipeline

import (
	"testing"

	"github.com/mind-engage/quizdoc/internal/logger"
	"github.com/mind-engage/quizdoc/internal/markup"
	"github.com/mind-engage/quizdoc/internal/quiz"
)

func TestDetectsAndParsesEachGrammar(t *testing.T) {
	cases := []struct {
		name, file, text string
		format           quiz.FormatKind
		n                int
	}{
		{"sectioned", "exam.md", "### True/False Questions (T/F) - 2 points each\n**1. T/F: The sky is blue**\n**Answer:** True\n", quiz.FormatSectioned, 1},
		{"cmpe", "exam.md", "## Multiple Choice Questions (MCQ) - 3 points each\n\n1. MCQ: 2+2=?\na) 3\nb) 4\nAnswer: b\n⸻\n", quiz.FormatSeparatorDelimited, 1},
		{"plaintext", "exam.txt", "QUESTION 1 (4pt)\nQ: Explain gravity.\nType: essay\n", quiz.FormatPlainText, 1},
	}
	for _, c := range cases {
		res := Parse(c.text, c.file, Options{Logger: logger.Nop()})
		if res.Format != c.format {
			t.Fatalf("%s: format %q, want %q", c.name, res.Format, c.format)
		}
		if len(res.Questions) != c.n {
			t.Fatalf("%s: expected %d questions, got %+v", c.name, c.n, res.Questions)
		}
	}
}

func TestForcedFormat(t *testing.T) {
	res := Parse("Q: Is it?\nType: tf\nAnswer: t\n", "exam.md", Options{Format: quiz.FormatPlainText})
	if res.Format != quiz.FormatPlainText || len(res.Questions) != 1 {
		t.Fatalf("forced format ignored: %+v", res)
	}
	res = Parse("Q: Is it?\nType: tf\nAnswer: t\n", "exam.txt", Options{Format: "bogus"})
	if res.Format != quiz.FormatPlainText {
		t.Fatalf("unknown format should fall back to detection: %+v", res)
	}
}

func TestFormattingAppliedToEveryField(t *testing.T) {
	doc := "QUESTION 1\nQ: Solve $x^2 = 4$ for **x**\nA) $x = 2$\nB) none\nAnswer: A\n\nQUESTION 2\nQ: Why *this*?\nType: essay\nAnswer: Because `code`\n"
	res := Parse(doc, "exam.txt", Options{})
	mc := res.Questions[0]
	if mc.Text != `Solve \(x^2 = 4\) for <strong>x</strong>` {
		t.Fatalf("question text not formatted: %q", mc.Text)
	}
	if mc.Answers[0].Text != `\(x = 2\)` || mc.Answers[0].Weight != 100 {
		t.Fatalf("answer not formatted: %+v", mc.Answers[0])
	}
	essay := res.Questions[1]
	if essay.Text != "Why <em>this</em>?" || *essay.SampleAnswer != "Because <code>code</code>" {
		t.Fatalf("essay not formatted: %+v", essay)
	}

	block := Parse(doc, "exam.txt", Options{BlockMath: true})
	if block.Questions[0].Answers[0].Text != "$$x = 2$$" {
		t.Fatalf("block math not applied: %q", block.Questions[0].Answers[0].Text)
	}
}

func TestBracketMathOptIn(t *testing.T) {
	doc := "Q: The value [x^2] lies in\nA) [-1, 1]\nB) [0, 2]\nAnswer: A\n"
	plain := Parse(doc, "q.txt", Options{})
	if plain.Questions[0].Text != "The value [x^2] lies in" {
		t.Fatalf("brackets rewritten without opt-in: %q", plain.Questions[0].Text)
	}
	res := Parse(doc, "q.txt", Options{BracketMath: true})
	if res.Questions[0].Text != `The value \(x^2\) lies in` {
		t.Fatalf("bracket math not applied: %q", res.Questions[0].Text)
	}
	if res.Questions[0].Answers[0].Text != "$-1, 1$" {
		t.Fatalf("numeric interval should stay non-math: %q", res.Questions[0].Answers[0].Text)
	}
}

func TestOutputIsAlreadyNormalised(t *testing.T) {
	doc := "### Multiple Choice - 2 points each\n**1. Evaluate $\\frac{a}{b}$ with *care***\na) `one`\nb) $y_1$\n**Answer:** b\n"
	res := Parse(doc, "exam.md", Options{})
	f := markup.Formatter{}
	for _, q := range res.Questions {
		again := f.Question(q)
		if again.Text != q.Text {
			t.Fatalf("second pass changed %q to %q", q.Text, again.Text)
		}
		for i := range q.Answers {
			if again.Answers[i] != q.Answers[i] {
				t.Fatalf("second pass changed answer %+v to %+v", q.Answers[i], again.Answers[i])
			}
		}
	}
}

// Equivalent content in all three grammars must resolve to the same weights.
func TestGrammarsAgreeOnCorrectness(t *testing.T) {
	sectioned := "### True/False - 1 point each\n**1. T/F: Ice floats**\n**Answer:** Yes\n\n### Multiple Choice - 1 point each\n**2. Largest planet?**\na) Mars\nb) Jupiter\nc) Venus\n**Answer:** Jupiter\n"
	cmpe := "## True/False - 1 point each\n1. T/F: Ice floats\nAnswer: Yes\n⸻\n## Multiple Choice - 1 point each\n2. Largest planet?\na) Mars\nb) Jupiter\nc) Venus\nAnswer: Jupiter\n⸻\n"
	plain := "QUESTION 1\nQ: Ice floats\nType: true_false\nAnswer: Yes\n\nQUESTION 2\nQ: Largest planet?\nA) Mars\nB) Jupiter\nC) Venus\nAnswer: Jupiter\n"

	results := []quiz.Result{
		Parse(sectioned, "a.md", Options{}),
		Parse(cmpe, "b.md", Options{}),
		Parse(plain, "c.txt", Options{}),
	}
	ref := results[0]
	if len(ref.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %+v", ref.Questions)
	}
	for i, res := range results[1:] {
		if len(res.Questions) != len(ref.Questions) {
			t.Fatalf("grammar %d: %d questions, want %d", i+1, len(res.Questions), len(ref.Questions))
		}
		for qi, q := range res.Questions {
			want := ref.Questions[qi]
			if q.Type != want.Type || q.Text != want.Text || len(q.Answers) != len(want.Answers) {
				t.Fatalf("grammar %d question %d: %+v, want %+v", i+1, qi, q, want)
			}
			for ai := range q.Answers {
				if q.Answers[ai] != want.Answers[ai] {
					t.Fatalf("grammar %d question %d answer %d: %+v, want %+v", i+1, qi, ai, q.Answers[ai], want.Answers[ai])
				}
			}
		}
	}
}

func TestWeightInvariant(t *testing.T) {
	doc := "QUESTION 1\nQ: a\nType: tf\nAnswer: false\n\nQUESTION 2\nQ: b\nA) x\nB) y\nC) z\nAnswer: c\n\nQUESTION 3\nQ: c\nA) x\nB) y\nAnswer: (b)\n"
	res := Parse(doc, "w.txt", Options{})
	for _, q := range res.Questions {
		switch q.Type {
		case quiz.TypeTrueFalse:
			if len(q.Answers) != 2 || q.CorrectCount() != 1 {
				t.Fatalf("true/false invariant broken: %+v", q)
			}
		case quiz.TypeMultipleChoice:
			if len(q.Answers) < 1 || len(q.Answers) > quiz.MaxOptions || q.CorrectCount() != 1 {
				t.Fatalf("multiple choice invariant broken: %+v", q)
			}
		}
	}
}

func TestPointsDefaultToOne(t *testing.T) {
	res := Parse("### Multiple Choice\n**1. Q**\na) x\n**Answer:** a\n", "x.md", Options{})
	if res.Questions[0].Points != 1 {
		t.Fatalf("expected default points 1, got %v", res.Questions[0].Points)
	}
}

func TestDocumentHonoursFormat(t *testing.T) {
	res := Document(quiz.Document{Text: "Q: x\nType: essay\n", Filename: "x.md", Format: quiz.FormatPlainText}, Options{})
	if res.Format != quiz.FormatPlainText || len(res.Questions) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
}
