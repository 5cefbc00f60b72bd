package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/quizdoc/internal/rbac"
)

// Mount registers the document routes. Authentication runs before it and
// must put a role in the request context. Deps.Access picks the role policy.
func Mount(r chi.Router, d Deps) {
	ac := d.Access
	if ac == nil {
		ac = rbac.Builtin()
	}
	r.With(ac.Require(rbac.PermParse)).
		Post("/documents/parse", ParseDocumentHandler(d))
	r.With(ac.Require(rbac.PermCreate)).
		Post("/documents", CreateDocumentHandler(d))
	r.With(ac.Require(rbac.PermView)).
		Get("/documents", ListDocumentsHandler(d))
	r.With(ac.Require(rbac.PermView)).
		Get("/documents/{id}", GetDocumentHandler(d))
	r.With(ac.Require(rbac.PermView)).
		Get("/documents/{id}/source", SourceDocumentHandler(d))
	r.With(ac.Require(rbac.PermDelete)).
		Delete("/documents/{id}", DeleteDocumentHandler(d))
	r.With(ac.Require(rbac.PermExport)).
		Get("/documents/{id}/export", ExportDocumentHandler(d))
	// Uploading reads the stored document before pushing it.
	r.With(ac.Require(rbac.PermView, rbac.PermUpload)).
		Post("/documents/{id}/upload", UploadDocumentHandler(d))
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }
}

// ReadyHandler reports 503 while db (when set) cannot be reached.
func ReadyHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	}
}
