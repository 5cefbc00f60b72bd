package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mind-engage/quizdoc/internal/quiz"
	"github.com/mind-engage/quizdoc/internal/rbac"
)

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	var issues []Issue
	add := func(field, msg string) { issues = append(issues, Issue{Field: field, Message: msg}) }

	switch c.Mode {
	case ModeOffline, ModeOnline:
	default:
		add("mode", fmt.Sprintf("unknown mode %q", c.Mode))
	}
	switch c.DBDriver {
	case "sqlite", "postgres", "pgx", "memory":
	default:
		add("db_driver", fmt.Sprintf("unsupported driver %q", c.DBDriver))
	}
	if c.HTTPAddr == "" {
		add("http_addr", "must not be empty")
	}
	if _, ok := quiz.ParseUnresolvedPolicy(c.Parse.UnresolvedKey); !ok {
		add("parse.unresolved_key", fmt.Sprintf("must be none or first, got %q", c.Parse.UnresolvedKey))
	}
	if c.Platform.BaseURL != "" {
		u, err := url.Parse(c.Platform.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			add("platform.base_url", "must be an absolute http(s) URL")
		}
	}
	if c.Platform.TimeLimitMin < 0 {
		add("platform.time_limit_min", "must not be negative")
	}
	if _, err := rbac.NewChecker(c.Roles); err != nil {
		add("roles", err.Error())
	}
	if c.Mode == ModeOnline && c.AuthSecret == "dev-secret-change-me" {
		add("auth_secret", "must be set in online mode")
	}

	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: issues}
}

// UnresolvedPolicy returns the configured policy; Validate has already
// rejected unknown values.
func (c Config) UnresolvedPolicy() quiz.UnresolvedPolicy {
	p, _ := quiz.ParseUnresolvedPolicy(c.Parse.UnresolvedKey)
	return p
}
