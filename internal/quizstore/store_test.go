package quizstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mind-engage/quizdoc/internal/db"
	"github.com/mind-engage/quizdoc/internal/quiz"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	conn, err := db.Open(context.Background(), db.DriverSQLite, "file:"+filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return map[string]Store{
		"memory": NewInMemoryStore(),
		"sqlite": NewSQLStore(conn),
	}
}

func sampleDoc(id, filename string, created time.Time) Document {
	sample := "Because mass bends spacetime."
	return Document{
		ID:       id,
		Filename: filename,
		Title:    "Midterm",
		Format:   quiz.FormatSectioned,
		BlobKey:  "documents/" + id + ".md",
		Questions: []quiz.Question{
			{Text: "Sky is blue", Type: quiz.TypeTrueFalse, Points: 2, Answers: quiz.TrueFalseAnswers(true)},
			{Text: "Explain gravity", Type: quiz.TypeEssay, Points: 4, SampleAnswer: &sample},
		},
		Sections:    quiz.SectionMetadata{quiz.TypeTrueFalse: 2},
		Diagnostics: []quiz.Diagnostic{{Index: -1, Line: 9, Code: quiz.DiagTFMissingAnswer, Message: "dropped"}},
		CreatedAt:   created,
	}
}

func TestStorePutGetDelete(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		created := time.UnixMilli(time.Now().UnixMilli())
		if err := s.Put(ctx, sampleDoc("d1", "exam.md", created)); err != nil {
			t.Fatalf("%s: Put: %v", name, err)
		}
		got, err := s.Get(ctx, "d1")
		if err != nil {
			t.Fatalf("%s: Get: %v", name, err)
		}
		if len(got.Questions) != 2 || got.Questions[0].Answers[0].Weight != 100 || *got.Questions[1].SampleAnswer != "Because mass bends spacetime." {
			t.Fatalf("%s: questions not preserved: %+v", name, got.Questions)
		}
		if got.Sections[quiz.TypeTrueFalse] != 2 || len(got.Diagnostics) != 1 || got.Format != quiz.FormatSectioned {
			t.Fatalf("%s: metadata not preserved: %+v", name, got)
		}
		if !got.CreatedAt.Equal(created) {
			t.Fatalf("%s: created_at %v, want %v", name, got.CreatedAt, created)
		}
		if err := s.Delete(ctx, "d1"); err != nil {
			t.Fatalf("%s: Delete: %v", name, err)
		}
		if _, err := s.Get(ctx, "d1"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("%s: expected ErrNotFound, got %v", name, err)
		}
		if err := s.Delete(ctx, "d1"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("%s: expected ErrNotFound on second delete, got %v", name, err)
		}
	}
}

func TestStoreListNewestFirstWithFilter(t *testing.T) {
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)
	for name, s := range stores(t) {
		_ = s.Put(ctx, sampleDoc("a", "physics.md", base))
		_ = s.Put(ctx, sampleDoc("b", "chemistry.txt", base.Add(time.Minute)))
		_ = s.Put(ctx, sampleDoc("c", "physics-final.md", base.Add(2*time.Minute)))

		all, err := s.List(ctx, ListOpts{})
		if err != nil {
			t.Fatalf("%s: List: %v", name, err)
		}
		if len(all) != 3 || all[0].ID != "c" || all[2].ID != "a" {
			t.Fatalf("%s: unexpected order: %+v", name, all)
		}
		if all[0].QuestionCount != 2 {
			t.Fatalf("%s: question count missing: %+v", name, all[0])
		}

		phys, _ := s.List(ctx, ListOpts{Q: "PHYSICS"})
		if len(phys) != 2 {
			t.Fatalf("%s: filter failed: %+v", name, phys)
		}
		page, _ := s.List(ctx, ListOpts{Limit: 1, Offset: 1})
		if len(page) != 1 || page[0].ID != "b" {
			t.Fatalf("%s: paging failed: %+v", name, page)
		}
	}
}

func TestStorePutRequiresID(t *testing.T) {
	for name, s := range stores(t) {
		if err := s.Put(context.Background(), Document{}); err == nil {
			t.Fatalf("%s: expected error for empty id", name)
		}
	}
}
