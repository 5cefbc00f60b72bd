package sectioned

import (
	"testing"

	"github.com/mind-engage/quizdoc/internal/formats"
	"github.com/mind-engage/quizdoc/internal/quiz"
)

func hasDiag(res quiz.Result, code string) bool {
	for _, d := range res.Diagnostics {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestTrueFalseWithSectionPoints(t *testing.T) {
	res := Parse("### True/False Questions (T/F) - 2 points each\n**1. T/F: The sky is blue**\n**Answer:** True\n", formats.Options{})
	if len(res.Questions) != 1 {
		t.Fatalf("expected 1 question, got %+v", res.Questions)
	}
	q := res.Questions[0]
	if q.Type != quiz.TypeTrueFalse || q.Points != 2 || q.Text != "The sky is blue" {
		t.Fatalf("unexpected question: %+v", q)
	}
	if q.Answers[0] != (quiz.AnswerOption{Text: "True", Weight: 100}) || q.Answers[1] != (quiz.AnswerOption{Text: "False", Weight: 0}) {
		t.Fatalf("unexpected answers: %+v", q.Answers)
	}
	if res.Sections[quiz.TypeTrueFalse] != 2 {
		t.Fatalf("section points not recorded: %+v", res.Sections)
	}
}

func TestMultipleChoiceLetterPrefixedAnswer(t *testing.T) {
	doc := "### Multiple Choice Questions (MCQ) - 3 points each\n**1. Pick one**\na) Red\nb) Blue\nc) Green\n**Answer:** b) Blue\n"
	res := Parse(doc, formats.Options{})
	if len(res.Questions) != 1 {
		t.Fatalf("expected 1 question, got %+v", res.Questions)
	}
	q := res.Questions[0]
	want := []quiz.AnswerOption{{Text: "Red", Weight: 0}, {Text: "Blue", Weight: 100}, {Text: "Green", Weight: 0}}
	if len(q.Answers) != len(want) {
		t.Fatalf("unexpected answers: %+v", q.Answers)
	}
	for i := range want {
		if q.Answers[i] != want[i] {
			t.Fatalf("answer %d = %+v, want %+v", i, q.Answers[i], want[i])
		}
	}
	if q.Text != "Pick one" || q.Points != 3 {
		t.Fatalf("unexpected question: %+v", q)
	}
}

func TestTrueFalseWithoutAnswerIsDropped(t *testing.T) {
	res := Parse("### True/False\n**1. T/F: Water boils at 100C**\n", formats.Options{})
	if len(res.Questions) != 0 {
		t.Fatalf("expected no questions, got %+v", res.Questions)
	}
	if !hasDiag(res, quiz.DiagTFMissingAnswer) {
		t.Fatalf("expected %s diagnostic, got %+v", quiz.DiagTFMissingAnswer, res.Diagnostics)
	}
}

func TestTrueFalseAnswerOutsideWindowIsDropped(t *testing.T) {
	doc := "### True/False\n**1. T/F: Far away**\n\n\n\n\n\n\n\n\n\n\n**Answer:** True\n"
	if res := Parse(doc, formats.Options{}); len(res.Questions) != 0 {
		t.Fatalf("answer beyond the window was used: %+v", res.Questions)
	}
}

func TestTrueFalseNonASCIIText(t *testing.T) {
	res := Parse("### True/False - 1 point each\n**1. İİİİ T/F: Kadıköy is in Asia**\n**Answer:** True\n", formats.Options{})
	if len(res.Questions) != 1 || res.Questions[0].Text != "Kadıköy is in Asia" {
		t.Fatalf("unexpected questions: %+v", res.Questions)
	}

	// Lowercasing Ⱥ grows it by a byte; the marker must still be found in place.
	res = Parse("### True/False - 1 point each\n**ȺȺȺȺȺ T/F:**\n**Answer:** True\n", formats.Options{})
	if len(res.Questions) != 0 || !hasDiag(res, quiz.DiagEmptyQuestion) {
		t.Fatalf("empty question should be dropped: %+v", res)
	}
	res = Parse("### True/False\n**ȺȺ t/F: Ⱥ is a letter**\n**Answer:** F\n", formats.Options{})
	if len(res.Questions) != 1 || res.Questions[0].Text != "Ⱥ is a letter" || res.Questions[0].Answers[1].Weight != 100 {
		t.Fatalf("unexpected questions: %+v", res.Questions)
	}
}

func TestTrueFalseDoesNotBorrowNextAnswer(t *testing.T) {
	doc := "### T/F - 1 point each\n**1. T/F: First**\n**2. T/F: Second**\n**Answer:** False\n"
	res := Parse(doc, formats.Options{})
	if len(res.Questions) != 1 || res.Questions[0].Text != "Second" {
		t.Fatalf("unexpected questions: %+v", res.Questions)
	}
	if res.Questions[0].Answers[1].Weight != 100 {
		t.Fatalf("expected False correct: %+v", res.Questions[0].Answers)
	}
}

func TestOutputGroupedByType(t *testing.T) {
	doc := `### Short Answer Questions - 4 points each
1. **Explain entropy**

### Multiple Choice Questions (MCQ) - 3 points each
**2. Which is prime?**
A. 4
B. 5
**Answer:** B

### True/False Questions (T/F) - 2 points each
**3. T/F: Zero is even**
**Answer:** yes
`
	res := Parse(doc, formats.Options{})
	want := []quiz.QuestionType{quiz.TypeTrueFalse, quiz.TypeMultipleChoice, quiz.TypeShortAnswer}
	if len(res.Questions) != len(want) {
		t.Fatalf("expected %d questions, got %+v", len(want), res.Questions)
	}
	for i, q := range res.Questions {
		if q.Type != want[i] {
			t.Fatalf("question %d is %s, want %s", i, q.Type, want[i])
		}
	}
	if res.Questions[2].Points != 4 || res.Questions[2].Text != "Explain entropy" {
		t.Fatalf("unexpected short answer: %+v", res.Questions[2])
	}
	if res.Questions[1].Answers[1].Weight != 100 {
		t.Fatalf("expected option B correct: %+v", res.Questions[1].Answers)
	}
}

func TestShortAnswerBoldNumberedShape(t *testing.T) {
	res := Parse("### Short Answer\n**5. Define latency**\n**Answer:** time to first byte\n", formats.Options{})
	if len(res.Questions) != 1 || res.Questions[0].Text != "Define latency" || res.Questions[0].Points != 1 {
		t.Fatalf("unexpected questions: %+v", res.Questions)
	}
	if res.Questions[0].SampleAnswer != nil {
		t.Fatalf("sectioned short answers carry no sample")
	}
}

func TestMultipleChoiceWithoutAnswerKeepsFallbackOptions(t *testing.T) {
	doc := "### MCQ\n**1. Pick**\na) x\nb) y\n\n**2. Next**\na) p\n**Answer:** a\n"
	res := Parse(doc, formats.Options{})
	if len(res.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %+v", res.Questions)
	}
	first := res.Questions[0]
	if first.Answers != nil || len(first.AnswerOptions) != 2 {
		t.Fatalf("expected fallback option list: %+v", first)
	}
	if !hasDiag(res, quiz.DiagMCMissingAnswer) {
		t.Fatalf("missing %s: %+v", quiz.DiagMCMissingAnswer, res.Diagnostics)
	}
	if len(res.Questions[1].Answers) != 1 || res.Questions[1].Answers[0].Weight != 100 {
		t.Fatalf("second question lost its options: %+v", res.Questions[1])
	}
}

func TestUnresolvedKeyPolicy(t *testing.T) {
	doc := "### MCQ\n**1. Pick**\na) x\nb) y\n**Answer:** z\n"
	res := Parse(doc, formats.Options{})
	if res.Questions[0].CorrectCount() != 0 || !hasDiag(res, quiz.DiagMCUnresolvedAnswer) {
		t.Fatalf("default policy should leave weights at 0: %+v", res)
	}
	res = Parse(doc, formats.Options{Unresolved: quiz.UnresolvedFirst})
	if res.Questions[0].Answers[0].Weight != 100 {
		t.Fatalf("first policy not applied: %+v", res.Questions[0])
	}
}

func TestUnknownHeaderResetsSection(t *testing.T) {
	doc := "### True/False\n**1. T/F: kept**\n**Answer:** t\n### Appendix\n**2. T/F: ignored**\n**Answer:** t\n"
	res := Parse(doc, formats.Options{})
	if len(res.Questions) != 1 || res.Questions[0].Text != "kept" {
		t.Fatalf("unexpected questions: %+v", res.Questions)
	}
}

func TestRegistered(t *testing.T) {
	if _, ok := formats.Lookup(quiz.FormatSectioned); !ok {
		t.Fatalf("sectioned parser not registered")
	}
}
