package quizstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mind-engage/quizdoc/internal/quiz"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Put(ctx context.Context, d Document) error {
	if d.ID == "" {
		return errors.New("document id is required")
	}
	qj, err := json.Marshal(d.Questions)
	if err != nil {
		return err
	}
	sj, err := json.Marshal(d.Sections)
	if err != nil {
		return err
	}
	dj, err := json.Marshal(d.Diagnostics)
	if err != nil {
		return err
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO quiz_documents
		(id,filename,title,format,blob_key,question_count,questions_json,sections_json,diagnostics_json,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET filename=EXCLUDED.filename, title=EXCLUDED.title, format=EXCLUDED.format,
		  blob_key=EXCLUDED.blob_key, question_count=EXCLUDED.question_count, questions_json=EXCLUDED.questions_json,
		  sections_json=EXCLUDED.sections_json, diagnostics_json=EXCLUDED.diagnostics_json`,
		d.ID, d.Filename, d.Title, string(d.Format), d.BlobKey, len(d.Questions),
		string(qj), string(sj), string(dj), d.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("put document %s: %w", d.ID, err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (Document, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,filename,title,format,blob_key,questions_json,sections_json,diagnostics_json,created_at
		FROM quiz_documents WHERE id=$1`, id)
	var (
		d          Document
		format     string
		qj, sj, dj string
		created    int64
	)
	if err := row.Scan(&d.ID, &d.Filename, &d.Title, &format, &d.BlobKey, &qj, &sj, &dj, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	d.Format = quiz.FormatKind(format)
	d.CreatedAt = time.UnixMilli(created)
	if err := json.Unmarshal([]byte(qj), &d.Questions); err != nil {
		return Document{}, fmt.Errorf("decode questions: %w", err)
	}
	if err := json.Unmarshal([]byte(sj), &d.Sections); err != nil {
		return Document{}, fmt.Errorf("decode sections: %w", err)
	}
	if err := json.Unmarshal([]byte(dj), &d.Diagnostics); err != nil {
		return Document{}, fmt.Errorf("decode diagnostics: %w", err)
	}
	if d.Sections == nil {
		d.Sections = quiz.SectionMetadata{}
	}
	return d, nil
}

func (s *SQLStore) List(ctx context.Context, opts ListOpts) ([]Summary, error) {
	opts = opts.normalized()
	q := `SELECT id,filename,title,format,question_count,created_at FROM quiz_documents`
	args := []any{}
	if term := strings.TrimSpace(opts.Q); term != "" {
		q += ` WHERE LOWER(filename) LIKE $1 OR LOWER(title) LIKE $1`
		args = append(args, "%"+strings.ToLower(term)+"%")
	}
	q += fmt.Sprintf(` ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, opts.Limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Summary{}
	for rows.Next() {
		var (
			sm      Summary
			format  string
			created int64
		)
		if err := rows.Scan(&sm.ID, &sm.Filename, &sm.Title, &format, &sm.QuestionCount, &created); err != nil {
			return nil, err
		}
		sm.Format = quiz.FormatKind(format)
		sm.CreatedAt = time.UnixMilli(created)
		out = append(out, sm)
	}
	return out, rows.Err()
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quiz_documents WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
