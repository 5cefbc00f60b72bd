package quiz

type QuestionType string

const (
	TypeTrueFalse      QuestionType = "true_false"
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeShortAnswer    QuestionType = "short_answer"
	TypeEssay          QuestionType = "essay"
)

// GroupOrder is the order question groups are emitted and uploaded in.
var GroupOrder = []QuestionType{TypeTrueFalse, TypeMultipleChoice, TypeShortAnswer, TypeEssay}

func (t QuestionType) Valid() bool {
	switch t {
	case TypeTrueFalse, TypeMultipleChoice, TypeShortAnswer, TypeEssay:
		return true
	}
	return false
}

// HasAnswers reports whether questions of this type carry a weighted answer list.
func (t QuestionType) HasAnswers() bool {
	return t == TypeTrueFalse || t == TypeMultipleChoice
}

type FormatKind string

const (
	FormatSectioned          FormatKind = "sectioned"
	FormatSeparatorDelimited FormatKind = "cmpe"
	FormatPlainText          FormatKind = "plaintext"
)

// ParseFormatKind accepts the canonical names plus a few aliases; "" and "auto" return "".
func ParseFormatKind(s string) (FormatKind, bool) {
	switch s {
	case "", "auto":
		return "", true
	case "sectioned", "markdown", "md":
		return FormatSectioned, true
	case "cmpe", "separator", "separated":
		return FormatSeparatorDelimited, true
	case "plaintext", "plain", "text", "txt":
		return FormatPlainText, true
	}
	return "", false
}

const (
	WeightCorrect   = 100
	WeightIncorrect = 0
)

type AnswerOption struct {
	Text   string `json:"answer_text" yaml:"answer_text"`
	Weight int    `json:"weight" yaml:"weight"`
}

type Question struct {
	Text   string       `json:"question_text" yaml:"question_text"`
	Type   QuestionType `json:"question_type" yaml:"question_type"`
	Points float64      `json:"points_possible" yaml:"points_possible"`

	Answers []AnswerOption `json:"answers,omitempty" yaml:"answers,omitempty"`

	// AnswerOptions is set instead of Answers when a multiple choice question
	// had options but no answer line at all.
	AnswerOptions []string `json:"answer_options,omitempty" yaml:"answer_options,omitempty"`

	SampleAnswer *string `json:"sample_answer,omitempty" yaml:"sample_answer,omitempty"`
}

// CorrectCount returns the number of answers weighted 100.
func (q Question) CorrectCount() int {
	n := 0
	for _, a := range q.Answers {
		if a.Weight == WeightCorrect {
			n++
		}
	}
	return n
}

// SectionMetadata maps a question type to its per-question points taken from a section header.
type SectionMetadata map[QuestionType]float64

// PointsFor returns the section points for t, or 1 when no header declared any.
func (m SectionMetadata) PointsFor(t QuestionType) float64 {
	if p, ok := m[t]; ok && p > 0 {
		return p
	}
	return 1
}

type Diagnostic struct {
	// Index of the question in the parser output, or -1 when the question was dropped.
	Index   int    `json:"index" yaml:"index"`
	Line    int    `json:"line,omitempty" yaml:"line,omitempty"`
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

const (
	DiagTFMissingAnswer    = "tf_missing_answer"
	DiagMCMissingAnswer    = "mc_missing_answer"
	DiagMCUnresolvedAnswer = "mc_unresolved_answer"
	DiagMCNoOptions        = "mc_no_options"
	DiagMCOptionsTruncated = "mc_options_truncated"
	DiagEmptyQuestion      = "empty_question"
)

// Result is what every grammar produces for one document.
type Result struct {
	Format      FormatKind      `json:"format" yaml:"format"`
	Questions   []Question      `json:"questions" yaml:"questions"`
	Sections    SectionMetadata `json:"sections" yaml:"sections"`
	Diagnostics []Diagnostic    `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// Document is raw text plus the grammar chosen for it.
type Document struct {
	Text     string
	Filename string
	Format   FormatKind
}
