package http

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/mind-engage/quizdoc/internal/storage"
)

// GET /documents/{id}/source returns the raw document as uploaded.
func SourceDocumentHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, ok := d.loadDocument(w, r)
		if !ok {
			return
		}
		rc, err := d.Blobs.Get(r.Context(), doc.BlobKey)
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "source not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "store error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		defer rc.Close()
		ct := mime.TypeByExtension(filepath.Ext(doc.Filename))
		if ct == "" {
			ct = "text/plain; charset=utf-8"
		}
		w.Header().Set("Content-Type", ct)
		w.Header().Set("Content-Disposition", attachment(doc.Filename))
		_, _ = io.Copy(w, rc)
	}
}
