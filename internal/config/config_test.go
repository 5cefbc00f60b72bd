package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mind-engage/quizdoc/internal/quiz"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("MODE", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("CANVAS_TIME_LIMIT", "")
	cfg := FromEnv()
	if cfg.Mode != ModeOffline || cfg.DBDriver != "sqlite" || cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Platform.TimeLimitMin != 30 || cfg.LogMode != "dev" {
		t.Fatalf("unexpected platform defaults: %+v", cfg.Platform)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MODE", "online")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("CANVAS_PUBLISH", "yes")
	t.Setenv("PARSE_BRACKET_MATH", "1")
	cfg := FromEnv()
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %q", cfg.CORSOrigins)
	}
	if !cfg.Platform.Published || !cfg.Parse.BracketMath || cfg.LogMode != "prod" {
		t.Fatalf("env overrides ignored: %+v", cfg)
	}
}

func TestLoadOverlaysYAML(t *testing.T) {
	t.Setenv("MODE", "")
	t.Setenv("HTTP_ADDR", ":9000")
	path := filepath.Join(t.TempDir(), "quizdoc.yaml")
	data := `db_driver: memory
platform:
  base_url: https://canvas.example.edu/api/v1
  course_id: "42"
parse:
  unresolved_key: first
  block_math: true
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9000" {
		t.Fatalf("env value lost: %q", cfg.HTTPAddr)
	}
	if cfg.DBDriver != "memory" || cfg.Platform.CourseID != "42" || !cfg.Parse.BlockMath {
		t.Fatalf("overlay not applied: %+v", cfg)
	}
	if cfg.UnresolvedPolicy() != quiz.UnresolvedFirst {
		t.Fatalf("unexpected policy %q", cfg.UnresolvedPolicy())
	}
}

func TestLoadRoles(t *testing.T) {
	t.Setenv("MODE", "")
	t.Setenv("DB_DRIVER", "")
	dir := t.TempDir()
	good := filepath.Join(dir, "roles.yaml")
	if err := os.WriteFile(good, []byte("roles:\n  editor: [\"document:view\"]\n  reviewer: [\"document:view\", \"document:export\"]\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(good)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Roles) != 2 || len(cfg.Roles["reviewer"]) != 2 {
		t.Fatalf("roles not loaded: %+v", cfg.Roles)
	}

	bad := filepath.Join(dir, "bad-roles.yaml")
	if err := os.WriteFile(bad, []byte("roles:\n  editor: [\"document:print\"]\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err = Load(bad)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Issues[0].Field != "roles" {
		t.Fatalf("expected roles issue, got %v", err)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("no_such_key: 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected unknown key to fail")
	}
}

func TestValidateCollectsAllIssues(t *testing.T) {
	cfg := FromEnv()
	cfg.Mode = "sideways"
	cfg.DBDriver = "oracle"
	cfg.Parse.UnresolvedKey = "random"
	cfg.Platform.BaseURL = "not a url"

	err := cfg.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Issues) != 4 {
		t.Fatalf("expected 4 issues, got %d: %v", len(verr.Issues), err)
	}
	if !strings.Contains(err.Error(), "parse.unresolved_key") {
		t.Fatalf("message missing field name: %v", err)
	}
}
