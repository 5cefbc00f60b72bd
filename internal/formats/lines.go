package formats

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mind-engage/quizdoc/internal/quiz"
)

var (
	pointsEachRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*points?\s*each`)
	answerRe     = regexp.MustCompile(`(?i)^(?:\*\*)?(?:correct\s+)?answer(?::\*\*|\*\*:|:)\s*`)
	explainRe    = regexp.MustCompile(`(?i)^(?:\*\*)?explanation(?::|\*\*:)`)
	optionRe     = regexp.MustCompile(`^\(?([a-hA-H])([).])\s*(\S.*)$`)
	numberingRe  = regexp.MustCompile(`^\d+[.:)]?\s+`)
)

// ClassifySection maps a section title to a question type. Matching is
// case-insensitive and substring based: "true/false" or "t/f", "multiple
// choice" or "mcq", "short answer", "essay".
func ClassifySection(title string) (quiz.QuestionType, bool) {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "true/false"), strings.Contains(t, "t/f"):
		return quiz.TypeTrueFalse, true
	case strings.Contains(t, "multiple choice"), strings.Contains(t, "mcq"):
		return quiz.TypeMultipleChoice, true
	case strings.Contains(t, "short answer"):
		return quiz.TypeShortAnswer, true
	case strings.Contains(t, "essay"):
		return quiz.TypeEssay, true
	}
	return "", false
}

// SectionPoints extracts "<N> points each" from a header, defaulting to 1.
func SectionPoints(title string) float64 {
	m := pointsEachRe.FindStringSubmatch(title)
	if m == nil {
		return 1
	}
	p, err := strconv.ParseFloat(m[1], 64)
	if err != nil || p <= 0 {
		return 1
	}
	return p
}

// CutAnswer recognises "**Answer:**", "**Answer**:", "Answer:" and
// "Correct Answer:" lines and returns the indicator after the marker.
func CutAnswer(line string) (string, bool) {
	loc := answerRe.FindStringIndex(line)
	if loc == nil {
		return "", false
	}
	return strings.TrimSpace(line[loc[1]:]), true
}

func IsExplanation(line string) bool { return explainRe.MatchString(line) }

// AnswerWindow is how many lines after a True/False question are searched
// for its answer.
const AnswerWindow = 10

// CutOption parses an option line such as "a) Red", "B. Blue" or "(c) Green".
// When dotted is false only the parenthesis forms are accepted.
func CutOption(line string, dotted bool) (string, bool) {
	m := optionRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	if m[2] == "." && (!dotted || strings.HasPrefix(line, "(")) {
		return "", false
	}
	return strings.TrimSpace(m[3]), true
}

// StripNumbering removes a leading "12. ", "12: " or "12) ".
func StripNumbering(s string) (string, bool) {
	loc := numberingRe.FindStringIndex(s)
	if loc == nil {
		return s, false
	}
	return s[loc[1]:], true
}

// IsBoldLine reports whether the whole line is wrapped in **...**.
func IsBoldLine(line string) bool {
	return len(line) > 4 && strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**")
}

// Lines splits text into trimmed lines, tolerating CRLF input.
func Lines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, l := range raw {
		raw[i] = strings.TrimSpace(l)
	}
	return raw
}
