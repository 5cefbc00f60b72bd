package quiz

import (
	"regexp"
	"strings"
	"unicode"
)

// UnresolvedPolicy decides what a multiple choice question gets when its
// answer key matches none of the parsed options.
type UnresolvedPolicy string

const (
	// UnresolvedDefault lets each grammar apply its own documented policy.
	UnresolvedDefault UnresolvedPolicy = ""
	// UnresolvedNone leaves every option at weight 0.
	UnresolvedNone UnresolvedPolicy = "none"
	// UnresolvedFirst marks the first option correct.
	UnresolvedFirst UnresolvedPolicy = "first"
)

func ParseUnresolvedPolicy(s string) (UnresolvedPolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return UnresolvedDefault, true
	case "none", "zero":
		return UnresolvedNone, true
	case "first":
		return UnresolvedFirst, true
	}
	return UnresolvedDefault, false
}

// Or returns p unless it is the default, in which case fallback is returned.
func (p UnresolvedPolicy) Or(fallback UnresolvedPolicy) UnresolvedPolicy {
	if p == UnresolvedDefault {
		return fallback
	}
	return p
}

// MaxOptions is the most options a multiple choice question keeps.
const MaxOptions = 4

var truthy = map[string]bool{"true": true, "t": true, "1": true, "yes": true, "y": true}

var (
	bareLetterRe   = regexp.MustCompile(`^\(?([A-Za-z])\)?[.):]?$`)
	letterPrefixRe = regexp.MustCompile(`^\(?([A-Za-z])(?:\)|\.|:|\s+-)\s*\S`)
)

// ResolveTrueFalse reports whether an answer indicator means "True".
func ResolveTrueFalse(indicator string) bool {
	v := strings.ToLower(cleanIndicator(indicator))
	v = strings.TrimRight(v, ".!")
	return truthy[strings.TrimSpace(v)]
}

// TrueFalseAnswers builds the fixed True/False pair with exactly one option weighted 100.
func TrueFalseAnswers(isTrue bool) []AnswerOption {
	t, f := WeightIncorrect, WeightCorrect
	if isTrue {
		t, f = WeightCorrect, WeightIncorrect
	}
	return []AnswerOption{{Text: "True", Weight: t}, {Text: "False", Weight: f}}
}

// ResolveMCQIndex finds the option an answer indicator selects, or -1.
// Precedence: bare letter ("b", "B)", "(c)"), then letter-prefixed text
// ("b) Blue", "C. 42"), then case-insensitive equality with an option's text.
// Letters select by order of appearance, never by the source's own labels.
func ResolveMCQIndex(options []string, indicator string) int {
	ind := cleanIndicator(indicator)
	if ind == "" || len(options) == 0 {
		return -1
	}
	if m := bareLetterRe.FindStringSubmatch(ind); m != nil {
		if idx := letterIndex(m[1]); idx < len(options) {
			return idx
		}
		return -1
	}
	if m := letterPrefixRe.FindStringSubmatch(ind); m != nil {
		if idx := letterIndex(m[1]); idx < len(options) {
			return idx
		}
	}
	want := foldText(ind)
	for i, o := range options {
		if foldText(o) == want {
			return i
		}
	}
	return -1
}

// ResolveMCQWeights turns options into weighted answers. resolved is false when
// the indicator matched nothing; the policy then decides whether the first
// option is marked correct.
func ResolveMCQWeights(options []string, indicator string, policy UnresolvedPolicy) (answers []AnswerOption, resolved bool) {
	idx := ResolveMCQIndex(options, indicator)
	resolved = idx >= 0
	if !resolved && policy == UnresolvedFirst && len(options) > 0 {
		idx = 0
	}
	answers = make([]AnswerOption, len(options))
	for i, o := range options {
		w := WeightIncorrect
		if i == idx {
			w = WeightCorrect
		}
		answers[i] = AnswerOption{Text: o, Weight: w}
	}
	return answers, resolved
}

func letterIndex(l string) int {
	return int(unicode.ToLower(rune(l[0])) - 'a')
}

func cleanIndicator(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "*_`")
	return strings.TrimSpace(s)
}

// foldText lowercases, collapses whitespace and drops a trailing period.
func foldText(s string) string {
	s = strings.ToLower(strings.Join(strings.Fields(cleanIndicator(s)), " "))
	return strings.TrimSuffix(s, ".")
}
