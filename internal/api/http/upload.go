package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mind-engage/quizdoc/internal/canvas"
	syncx "github.com/mind-engage/quizdoc/internal/sync"
)

type uploadRequest struct {
	CourseID  string `json:"course_id"`
	Title     string `json:"title"`
	TimeLimit *int   `json:"time_limit"`
	Published *bool  `json:"published"`
}

// POST /documents/{id}/upload
func UploadDocumentHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Uploader == nil {
			http.Error(w, "upload not configured", http.StatusServiceUnavailable)
			return
		}
		var req uploadRequest
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "bad json", http.StatusBadRequest)
				return
			}
		}
		doc, ok := d.loadDocument(w, r)
		if !ok {
			return
		}

		course := req.CourseID
		if course == "" {
			course = d.Platform.CourseID
		}
		title := req.Title
		if title == "" {
			title = titleOr(doc.Title, doc.Filename)
		}
		s := canvas.DefaultSettings(title)
		s.TimeLimit = d.Platform.TimeLimitMin
		s.Published = d.Platform.Published
		if req.TimeLimit != nil {
			s.TimeLimit = *req.TimeLimit
		}
		if req.Published != nil {
			s.Published = *req.Published
		}

		rep, err := d.Uploader.Upload(r.Context(), course, doc.Questions, doc.Sections, s)
		var apiErr *canvas.APIError
		switch {
		case errors.Is(err, canvas.ErrNoCourse):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		case errors.Is(err, canvas.ErrNoQuestions):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		case errors.As(err, &apiErr):
			d.Log.Warn("platform rejected upload", "id", doc.ID, "op", apiErr.Op, "status", apiErr.Status)
			http.Error(w, apiErr.Error(), http.StatusBadGateway)
			return
		case err != nil:
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		d.record(r.Context(), syncx.TypeQuizUploaded, doc.ID, map[string]any{
			"course_id": course,
			"quiz_id":   rep.QuizID,
			"uploaded":  rep.Uploaded,
			"total":     rep.Total,
		})
		respondJSON(w, http.StatusOK, rep)
	}
}
