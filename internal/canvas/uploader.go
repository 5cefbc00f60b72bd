package canvas

import (
	"context"
	"errors"
	"fmt"

	"github.com/mind-engage/quizdoc/internal/logger"
	"github.com/mind-engage/quizdoc/internal/quiz"
)

var (
	ErrNoQuestions = errors.New("no questions to upload")
	ErrNoCourse    = errors.New("course id is required")
)

type UploadReport struct {
	QuizID   int64    `json:"quiz_id"`
	QuizURL  string   `json:"quiz_url"`
	Title    string   `json:"title"`
	Total    int      `json:"total"`
	Uploaded int      `json:"uploaded"`
	Failed   []string `json:"failed,omitempty"`
}

type Uploader struct {
	Client *Client
	Log    *logger.Logger
}

func NewUploader(c *Client, log *logger.Logger) *Uploader { return &Uploader{Client: c, Log: log} }

// Upload creates the quiz, one question group per question type present (in
// quiz.GroupOrder) and then every question in order. A failing question is
// recorded in the report; failing to create the quiz aborts. A group that
// cannot be created leaves its questions ungrouped.
func (u *Uploader) Upload(ctx context.Context, courseID string, questions []quiz.Question, sections quiz.SectionMetadata, s QuizSettings) (UploadReport, error) {
	if courseID == "" {
		return UploadReport{}, ErrNoCourse
	}
	if len(questions) == 0 {
		return UploadReport{}, ErrNoQuestions
	}
	log := u.Log.With("course_id", courseID, "title", s.Title)

	qz, err := u.Client.CreateQuiz(ctx, courseID, s)
	if err != nil {
		return UploadReport{}, err
	}
	log.Info("quiz created", "quiz_id", qz.ID)

	byType := map[quiz.QuestionType][]quiz.Question{}
	for _, q := range questions {
		byType[q.Type] = append(byType[q.Type], q)
	}
	groups := map[quiz.QuestionType]int64{}
	for _, t := range quiz.GroupOrder {
		qs := byType[t]
		if len(qs) == 0 {
			continue
		}
		g := QuestionGroup{Name: GroupName(t), PickCount: len(qs), QuestionPoints: groupPoints(t, qs, sections)}
		created, err := u.Client.CreateGroup(ctx, courseID, qz.ID, g)
		if err != nil {
			if ctx.Err() != nil {
				return UploadReport{}, ctx.Err()
			}
			log.Warn("question group not created", "group", g.Name, "err", err)
			continue
		}
		groups[t] = created.ID
		log.Debug("question group created", "group", g.Name, "group_id", created.ID, "count", g.PickCount, "points", g.QuestionPoints)
	}

	rep := UploadReport{QuizID: qz.ID, QuizURL: u.Client.QuizURL(courseID, qz.ID), Title: s.Title, Total: len(questions)}
	for i, q := range questions {
		p := ToPlatform(q, i+1)
		if id, ok := groups[q.Type]; ok {
			id := id
			p.GroupID = &id
		}
		if err := u.Client.CreateQuestion(ctx, courseID, qz.ID, p); err != nil {
			if ctx.Err() != nil {
				return rep, ctx.Err()
			}
			log.Warn("question not uploaded", "question", i+1, "err", err)
			rep.Failed = append(rep.Failed, fmt.Sprintf("question %d: %v", i+1, err))
			continue
		}
		rep.Uploaded++
	}
	log.Info("quiz upload completed", "quiz_id", qz.ID, "uploaded", rep.Uploaded, "total", rep.Total)
	return rep, nil
}

// groupPoints uses the section header value when one exists, otherwise the
// points of the first question of that type.
func groupPoints(t quiz.QuestionType, qs []quiz.Question, sections quiz.SectionMetadata) float64 {
	if p, ok := sections[t]; ok && p > 0 {
		return p
	}
	if qs[0].Points > 0 {
		return qs[0].Points
	}
	return 1
}
