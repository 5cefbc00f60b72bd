package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	auth "github.com/mind-engage/quizdoc/internal/auth/middleware"
	"github.com/mind-engage/quizdoc/internal/canvas"
	"github.com/mind-engage/quizdoc/internal/examsheet"
	"github.com/mind-engage/quizdoc/internal/logger"
	"github.com/mind-engage/quizdoc/internal/pipeline"
	"github.com/mind-engage/quizdoc/internal/qti/export"
	"github.com/mind-engage/quizdoc/internal/quiz"
	"github.com/mind-engage/quizdoc/internal/quizstore"
	"github.com/mind-engage/quizdoc/internal/rbac"
	"github.com/mind-engage/quizdoc/internal/storage"
	syncx "github.com/mind-engage/quizdoc/internal/sync"
)

// MaxDocumentBytes caps uploaded quiz documents.
const MaxDocumentBytes = 10 << 20

// PlatformDefaults fill upload requests that leave fields out.
type PlatformDefaults struct {
	CourseID     string
	TimeLimitMin int
	Published    bool
}

// Deps are shared by the document handlers. Events and Uploader may be nil.
type Deps struct {
	Store    quizstore.Store
	Blobs    storage.BlobStore
	Events   syncx.Recorder
	Uploader *canvas.Uploader
	Platform PlatformDefaults
	// Parse holds server-wide pipeline defaults; requests may override them.
	Parse pipeline.Options
	// Access is the role policy; nil enforces the built-in one.
	Access *rbac.Checker
	Log    *logger.Logger
}

// record appends an event whose payload also names the acting caller.
func (d Deps) record(ctx context.Context, typ, key string, payload map[string]any) {
	if d.Events == nil {
		return
	}
	payload["actor"] = auth.Actor(ctx)
	if err := d.Events.Record(ctx, typ, key, payload); err != nil {
		d.Log.Warn("event not recorded", "type", typ, "key", key, "err", err)
	}
}

// readDocument accepts multipart form field "file" or a raw body named by
// ?filename=.
func readDocument(r *http.Request) (raw []byte, filename string, err error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "multipart/form-data" {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			return nil, "", errors.New("file required")
		}
		defer f.Close()
		raw, err = io.ReadAll(f)
		if err != nil {
			return nil, "", err
		}
		return raw, cleanName(hdr.Filename), nil
	}
	raw, err = io.ReadAll(r.Body)
	if err != nil {
		return nil, "", err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, "", errors.New("empty document")
	}
	return raw, cleanName(r.URL.Query().Get("filename")), nil
}

func cleanName(name string) string {
	if name == "" {
		return ""
	}
	name = filepath.Base(filepath.Clean(name))
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return name
}

// parseOptions applies per-request overrides on top of the server defaults.
func (d Deps) parseOptions(r *http.Request) (pipeline.Options, error) {
	opts := d.Parse
	opts.Logger = d.Log
	q := r.URL.Query()
	if v := q.Get("format"); v != "" {
		kind, ok := quiz.ParseFormatKind(v)
		if !ok {
			return opts, fmt.Errorf("unknown format %q", v)
		}
		opts.Format = kind
	}
	if v := q.Get("unresolved_key"); v != "" {
		p, ok := quiz.ParseUnresolvedPolicy(v)
		if !ok {
			return opts, fmt.Errorf("unknown unresolved_key %q", v)
		}
		opts.UnresolvedKey = p
	}
	opts.BlockMath = parseBoolDefault(q.Get("block_math"), opts.BlockMath)
	opts.BracketMath = parseBoolDefault(q.Get("bracket_math"), opts.BracketMath)
	return opts, nil
}

func (d Deps) readAndParse(w http.ResponseWriter, r *http.Request) ([]byte, string, quiz.Result, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxDocumentBytes)
	opts, err := d.parseOptions(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, "", quiz.Result{}, false
	}
	raw, filename, err := readDocument(r)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			http.Error(w, "document too large", http.StatusRequestEntityTooLarge)
		} else {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return nil, "", quiz.Result{}, false
	}
	return raw, filename, pipeline.Parse(string(raw), filename, opts), true
}

// POST /documents/parse
func ParseDocumentHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, _, res, ok := d.readAndParse(w, r)
		if !ok {
			return
		}
		respondJSON(w, http.StatusOK, res)
	}
}

// POST /documents
func CreateDocumentHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, filename, res, ok := d.readAndParse(w, r)
		if !ok {
			return
		}
		ctx := r.Context()
		if filename == "" {
			filename = "document.txt"
		}
		key, err := d.Blobs.Put(ctx, storage.DocumentKey(filename), bytes.NewReader(raw))
		if err != nil {
			d.Log.Error("store raw document", "filename", filename, "err", err)
			http.Error(w, "store error", http.StatusInternalServerError)
			return
		}
		doc := quizstore.Document{
			ID:          uuid.NewString(),
			Filename:    filename,
			Title:       titleOr(r.URL.Query().Get("title"), filename),
			Format:      res.Format,
			BlobKey:     key,
			Questions:   res.Questions,
			Sections:    res.Sections,
			Diagnostics: res.Diagnostics,
			CreatedAt:   time.Now().UTC(),
		}
		if err := d.Store.Put(ctx, doc); err != nil {
			_ = d.Blobs.Delete(ctx, key)
			d.Log.Error("store document", "id", doc.ID, "err", err)
			http.Error(w, "store error", http.StatusInternalServerError)
			return
		}
		d.record(ctx, syncx.TypeDocumentParsed, doc.ID, map[string]any{
			"filename":    doc.Filename,
			"format":      doc.Format,
			"questions":   len(doc.Questions),
			"diagnostics": len(doc.Diagnostics),
		})
		respondJSON(w, http.StatusCreated, map[string]any{
			"id":          doc.ID,
			"format":      doc.Format,
			"questions":   doc.Questions,
			"sections":    doc.Sections,
			"diagnostics": doc.Diagnostics,
		})
	}
}

// GET /documents?q=&limit=&offset=
func ListDocumentsHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		list, err := d.Store.List(r.Context(), quizstore.ListOpts{
			Q:      strings.TrimSpace(q.Get("q")),
			Limit:  parseIntDefault(q.Get("limit"), 50),
			Offset: parseIntDefault(q.Get("offset"), 0),
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if list == nil {
			list = []quizstore.Summary{}
		}
		respondJSON(w, http.StatusOK, list)
	}
}

// GET /documents/{id}
func GetDocumentHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, ok := d.loadDocument(w, r)
		if !ok {
			return
		}
		respondJSON(w, http.StatusOK, doc)
	}
}

// DELETE /documents/{id}
func DeleteDocumentHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, ok := d.loadDocument(w, r)
		if !ok {
			return
		}
		ctx := r.Context()
		if err := d.Store.Delete(ctx, doc.ID); err != nil && !errors.Is(err, quizstore.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if doc.BlobKey != "" {
			if err := d.Blobs.Delete(ctx, doc.BlobKey); err != nil {
				d.Log.Warn("raw document not removed", "id", doc.ID, "key", doc.BlobKey, "err", err)
			}
		}
		d.record(ctx, syncx.TypeDocumentDeleted, doc.ID, map[string]any{"filename": doc.Filename})
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /documents/{id}/export?format=json|yaml|qti
func ExportDocumentHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := strings.ToLower(r.URL.Query().Get("format"))
		if format == "" {
			format = "json"
		}
		switch format {
		case "json", "yaml", "qti", "exam":
		default:
			http.Error(w, "format must be json, yaml, qti or exam", http.StatusBadRequest)
			return
		}
		doc, ok := d.loadDocument(w, r)
		if !ok {
			return
		}
		base := strings.TrimSuffix(doc.Filename, filepath.Ext(doc.Filename))
		switch format {
		case "json":
			w.Header().Set("Content-Disposition", attachment(base+".json"))
			respondJSON(w, http.StatusOK, doc.Result())
		case "yaml":
			b, err := yaml.Marshal(doc.Result())
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/yaml")
			w.Header().Set("Content-Disposition", attachment(base+".yaml"))
			_, _ = w.Write(b)
		case "qti":
			pkg, err := export.BuildPackage(doc.Title, doc.Questions)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/zip")
			w.Header().Set("Content-Disposition", attachment(base+".zip"))
			http.ServeContent(w, r, base+".zip", doc.CreatedAt, bytes.NewReader(pkg))
		case "exam":
			sheet := examsheet.Render(doc.Questions, doc.Sections, examsheet.Options{Title: titleOr(doc.Title, doc.Filename)})
			w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
			w.Header().Set("Content-Disposition", attachment(base+"-exam.md"))
			_, _ = w.Write(sheet)
		}
	}
}

func (d Deps) loadDocument(w http.ResponseWriter, r *http.Request) (quizstore.Document, bool) {
	doc, err := d.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, quizstore.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return doc, false
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return doc, false
	}
	return doc, true
}

func titleOr(title, filename string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

func attachment(name string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": name})
}
