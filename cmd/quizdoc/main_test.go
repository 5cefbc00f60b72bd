package main

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mind-engage/quizdoc/internal/quiz"
)

const plainDoc = `QUESTION 1 (4pt)
Q: Which planet is red?
a) Venus
b) Mars
Answer: b

QUESTION 2 (2pt)
Q: Explain gravity.
Type: essay
`

func writeDoc(t *testing.T) string {
	t.Helper()
	t.Setenv("MODE", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("PARSE_UNRESOLVED_KEY", "")
	path := filepath.Join(t.TempDir(), "quiz.txt")
	if err := os.WriteFile(path, []byte(plainDoc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.Run(context.Background(), append([]string{"quizdoc"}, args...))
	return out.String(), err
}

func TestParseCommandJSON(t *testing.T) {
	path := writeDoc(t)
	out, err := run(t, "parse", path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var res quiz.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if res.Format != quiz.FormatPlainText || len(res.Questions) != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Questions[0].Points != 4 || res.Questions[0].Answers[1].Weight != 100 {
		t.Fatalf("unexpected first question: %+v", res.Questions[0])
	}
}

func TestParseCommandYAML(t *testing.T) {
	path := writeDoc(t)
	out, err := run(t, "parse", "--output", "yaml", path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !strings.Contains(out, "format: plaintext") || !strings.Contains(out, "question_type: essay") {
		t.Fatalf("unexpected yaml:\n%s", out)
	}
}

func TestParseCommandErrors(t *testing.T) {
	path := writeDoc(t)
	if _, err := run(t, "parse"); err == nil {
		t.Fatalf("expected missing FILE error")
	}
	if _, err := run(t, "parse", "--format", "docx", path); err == nil {
		t.Fatalf("expected unknown format error")
	}
	if _, err := run(t, "parse", "--output", "xml", path); err == nil {
		t.Fatalf("expected unknown output error")
	}
}

func TestMathFlagsOverrideConfig(t *testing.T) {
	writeDoc(t)
	path := filepath.Join(t.TempDir(), "math.txt")
	if err := os.WriteFile(path, []byte("Q: Solve $x^2$ now.\nType: essay\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	text := func(args ...string) string {
		t.Helper()
		out, err := run(t, append(append([]string{"parse"}, args...), path)...)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		var res quiz.Result
		if err := json.Unmarshal([]byte(out), &res); err != nil {
			t.Fatalf("decode: %v\n%s", err, out)
		}
		if len(res.Questions) != 1 {
			t.Fatalf("expected 1 question: %+v", res)
		}
		return res.Questions[0].Text
	}

	t.Setenv("PARSE_BLOCK_MATH", "true")
	if got := text(); !strings.Contains(got, "$$x^2$$") {
		t.Fatalf("config block math not applied: %q", got)
	}
	if got := text("--block-math=false"); !strings.Contains(got, `\(x^2\)`) {
		t.Fatalf("flag did not switch block math off: %q", got)
	}

	t.Setenv("PARSE_BLOCK_MATH", "false")
	if got := text("--block-math"); !strings.Contains(got, "$$x^2$$") {
		t.Fatalf("flag did not switch block math on: %q", got)
	}
}

func TestExportCommandWritesZip(t *testing.T) {
	path := writeDoc(t)
	out := filepath.Join(t.TempDir(), "quiz.zip")
	if _, err := run(t, "export", "--out", out, path); err != nil {
		t.Fatalf("export: %v", err)
	}
	zr, err := zip.OpenReader(out)
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	defer zr.Close()
	if len(zr.File) != 3 {
		t.Fatalf("expected manifest + 2 items, got %d", len(zr.File))
	}
}

func TestExportCleanWritesStudentCopy(t *testing.T) {
	path := writeDoc(t)
	out := filepath.Join(t.TempDir(), "exam.md")
	if _, err := run(t, "export", "--clean", "--title", "Midterm", "--out", out, path); err != nil {
		t.Fatalf("export --clean: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	sheet := string(b)
	for _, want := range []string{"# Midterm\n", "**1.** Which planet is red?", "a) Venus\nb) Mars\n", "2. **Explain gravity.**"} {
		if !strings.Contains(sheet, want) {
			t.Fatalf("missing %q in:\n%s", want, sheet)
		}
	}
	if strings.HasPrefix(sheet, "PK") {
		t.Fatalf("expected Markdown, got a zip")
	}
}

func TestUploadRequiresPlatform(t *testing.T) {
	path := writeDoc(t)
	t.Setenv("CANVAS_API_URL", "")
	t.Setenv("CANVAS_API_TOKEN", "")
	if _, err := run(t, "upload", "--course", "1", path); err == nil || !strings.Contains(err.Error(), "platform") {
		t.Fatalf("expected platform config error, got %v", err)
	}
}
