// Package canvas creates quizzes on a Canvas LMS instance from parsed
// questions: one question group per question type, then every question.
package canvas

import (
	"fmt"

	"github.com/mind-engage/quizdoc/internal/quiz"
)

type QuizSettings struct {
	Title          string `json:"title"`
	TimeLimit      int    `json:"time_limit,omitempty"` // minutes
	Published      bool   `json:"published"`
	QuizType       string `json:"quiz_type"`
	ShuffleAnswers bool   `json:"shuffle_answers"`
}

// DefaultSettings mirrors what instructors expect from a freshly uploaded exam.
func DefaultSettings(title string) QuizSettings {
	return QuizSettings{Title: title, TimeLimit: 30, QuizType: "assignment", ShuffleAnswers: true}
}

type Quiz struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	HTMLURL string `json:"html_url,omitempty"`
}

type QuestionGroup struct {
	ID             int64   `json:"id,omitempty"`
	Name           string  `json:"name"`
	PickCount      int     `json:"pick_count"`
	QuestionPoints float64 `json:"question_points"`
}

type Answer struct {
	Text   string `json:"answer_text"`
	Weight int    `json:"weight"`
}

// QuestionPayload is the body of a quiz question create request.
type QuestionPayload struct {
	Name            string   `json:"question_name"`
	Text            string   `json:"question_text"`
	Type            string   `json:"question_type"`
	PointsPossible  float64  `json:"points_possible"`
	Answers         []Answer `json:"answers,omitempty"`
	NeutralComments string   `json:"neutral_comments,omitempty"`
	GroupID         *int64   `json:"quiz_group_id,omitempty"`
}

// PlatformType maps a question type onto the platform's question_type value.
func PlatformType(t quiz.QuestionType) string {
	switch t {
	case quiz.TypeTrueFalse:
		return "true_false_question"
	case quiz.TypeMultipleChoice:
		return "multiple_choice_question"
	case quiz.TypeShortAnswer:
		return "short_answer_question"
	default:
		return "essay_question"
	}
}

// GroupName is the display name of the group holding questions of type t.
func GroupName(t quiz.QuestionType) string {
	switch t {
	case quiz.TypeTrueFalse:
		return "True/False Questions"
	case quiz.TypeMultipleChoice:
		return "Multiple Choice Questions"
	case quiz.TypeShortAnswer:
		return "Short Answer Questions"
	default:
		return "Essay Questions"
	}
}

// ToPlatform builds the create request for the n-th question (1-based).
// A multiple choice question that only kept a fallback option list is sent
// as a short answer question; sample answers become neutral comments.
func ToPlatform(q quiz.Question, n int) QuestionPayload {
	p := QuestionPayload{
		Name:           fmt.Sprintf("Question %d", n),
		Text:           q.Text,
		Type:           PlatformType(q.Type),
		PointsPossible: q.Points,
	}
	if p.PointsPossible <= 0 {
		p.PointsPossible = 1
	}
	switch q.Type {
	case quiz.TypeTrueFalse, quiz.TypeMultipleChoice:
		if len(q.Answers) == 0 {
			if q.Type == quiz.TypeTrueFalse {
				p.Answers = toAnswers(quiz.TrueFalseAnswers(true))
			} else {
				p.Type = PlatformType(quiz.TypeShortAnswer)
			}
			break
		}
		p.Answers = toAnswers(q.Answers)
	default:
		if q.SampleAnswer != nil && *q.SampleAnswer != "" {
			p.NeutralComments = "Sample answer: " + *q.SampleAnswer
		}
	}
	return p
}

func toAnswers(in []quiz.AnswerOption) []Answer {
	out := make([]Answer, len(in))
	for i, a := range in {
		out[i] = Answer{Text: a.Text, Weight: a.Weight}
	}
	return out
}
