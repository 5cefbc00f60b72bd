package quizstore

import (
	"time"

	"github.com/mind-engage/quizdoc/internal/quiz"
)

// Document is a parsed quiz document kept for later export or upload.
type Document struct {
	ID          string               `json:"id"`
	Filename    string               `json:"filename"`
	Title       string               `json:"title,omitempty"`
	Format      quiz.FormatKind      `json:"format"`
	BlobKey     string               `json:"blob_key,omitempty"`
	Questions   []quiz.Question      `json:"questions"`
	Sections    quiz.SectionMetadata `json:"sections"`
	Diagnostics []quiz.Diagnostic    `json:"diagnostics,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

// Summary is the list view of a Document.
type Summary struct {
	ID            string          `json:"id"`
	Filename      string          `json:"filename"`
	Title         string          `json:"title,omitempty"`
	Format        quiz.FormatKind `json:"format"`
	QuestionCount int             `json:"question_count"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (d Document) Summary() Summary {
	return Summary{
		ID:            d.ID,
		Filename:      d.Filename,
		Title:         d.Title,
		Format:        d.Format,
		QuestionCount: len(d.Questions),
		CreatedAt:     d.CreatedAt,
	}
}

// Result returns the parse result stored on the document.
func (d Document) Result() quiz.Result {
	return quiz.Result{Format: d.Format, Questions: d.Questions, Sections: d.Sections, Diagnostics: d.Diagnostics}
}
