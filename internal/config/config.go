package config

import (
	"os"
	"strconv"
	"strings"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode   `yaml:"mode"`
	HTTPAddr string `yaml:"http_addr"`

	DBDriver string `yaml:"db_driver"`
	DBDSN    string `yaml:"db_dsn"`

	BlobBasePath string `yaml:"blob_base_path"`

	AuthSecret    string `yaml:"auth_secret"`
	AdminUser     string `yaml:"admin_user"`
	AdminPassHash string `yaml:"admin_pass_hash"` // bcrypt

	CORSOrigins []string `yaml:"cors_origins"`
	LogMode     string   `yaml:"log_mode"`

	Platform Platform `yaml:"platform"`
	Parse    Parse    `yaml:"parse"`

	// Roles replaces the permissions of the named roles; other roles keep
	// the built-in policy. YAML only.
	Roles map[string][]string `yaml:"roles"`
}

// Platform holds the quiz platform (Canvas) connection and quiz defaults.
type Platform struct {
	BaseURL      string `yaml:"base_url"` // e.g. https://school.instructure.com/api/v1
	Token        string `yaml:"token"`
	CourseID     string `yaml:"course_id"`
	TimeLimitMin int    `yaml:"time_limit_min"`
	Published    bool   `yaml:"published"`
}

// Parse holds pipeline defaults.
type Parse struct {
	BlockMath     bool   `yaml:"block_math"`
	BracketMath   bool   `yaml:"bracket_math"`
	UnresolvedKey string `yaml:"unresolved_key"` // none|first, empty keeps grammar defaults
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	logMode := "dev"
	if mode == ModeOnline {
		logMode = "prod"
	}
	return Config{
		Mode:          mode,
		HTTPAddr:      envOr("HTTP_ADDR", ":8080"),
		DBDriver:      envOr("DB_DRIVER", "sqlite"),
		DBDSN:         envOr("DB_DSN", ""),
		BlobBasePath:  envOr("BLOB_BASE_PATH", "./data"),
		AuthSecret:    envOr("AUTH_SECRET", "dev-secret-change-me"),
		AdminUser:     envOr("ADMIN_USER", "admin"),
		AdminPassHash: envOr("ADMIN_PASS_HASH", ""),
		CORSOrigins:   csvOr("CORS_ORIGINS", "http://localhost:3000"),
		LogMode:       envOr("LOG_MODE", logMode),
		Platform: Platform{
			BaseURL:      envOr("CANVAS_API_URL", ""),
			Token:        os.Getenv("CANVAS_API_TOKEN"),
			CourseID:     os.Getenv("CANVAS_COURSE_ID"),
			TimeLimitMin: envInt("CANVAS_TIME_LIMIT", 30),
			Published:    envBool("CANVAS_PUBLISH", false),
		},
		Parse: Parse{
			BlockMath:     envBool("PARSE_BLOCK_MATH", false),
			BracketMath:   envBool("PARSE_BRACKET_MATH", false),
			UnresolvedKey: os.Getenv("PARSE_UNRESOLVED_KEY"),
		},
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch strings.ToLower(os.Getenv(k)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return def
	}
}

func envInt(k string, def int) int {
	n, err := strconv.Atoi(os.Getenv(k))
	if err != nil {
		return def
	}
	return n
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
