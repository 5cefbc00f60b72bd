// Package logger is a thin key-value wrapper over zap's SugaredLogger that
// redacts credentials before they reach the sink.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	SugaredLogger *zap.SugaredLogger
}

// New builds a logger for mode: "prod"/"production" writes JSON at info
// level, anything else writes console output at debug level.
func New(mode string) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	zl, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return &Logger{SugaredLogger: zl.Sugar()}, nil
}

// Nop discards everything.
func Nop() *Logger { return &Logger{SugaredLogger: zap.NewNop().Sugar()} }

// Sync flushes buffered entries. Safe on a nil logger.
func (l *Logger) Sync() {
	if l == nil {
		return
	}
	_ = l.SugaredLogger.Sync()
}

// The level methods are no-ops on a nil *Logger so library code can log
// unconditionally.

func (l *Logger) Debug(msg string, kv ...any) {
	if l != nil {
		l.SugaredLogger.Debugw(msg, sanitize(kv)...)
	}
}

func (l *Logger) Info(msg string, kv ...any) {
	if l != nil {
		l.SugaredLogger.Infow(msg, sanitize(kv)...)
	}
}

func (l *Logger) Warn(msg string, kv ...any) {
	if l != nil {
		l.SugaredLogger.Warnw(msg, sanitize(kv)...)
	}
}

func (l *Logger) Error(msg string, kv ...any) {
	if l != nil {
		l.SugaredLogger.Errorw(msg, sanitize(kv)...)
	}
}

func (l *Logger) With(kv ...any) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{SugaredLogger: l.SugaredLogger.With(sanitize(kv)...)}
}

const redacted = "[REDACTED]"

func sanitize(kv []any) []any {
	if len(kv) == 0 {
		return kv
	}
	out := make([]any, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			out = append(out, kv[i])
			break
		}
		key := fmt.Sprint(kv[i])
		val := kv[i+1]
		if isSecretKey(strings.ToLower(key)) {
			val = redacted
		}
		out = append(out, key, val)
	}
	return out
}

func isSecretKey(key string) bool {
	for _, s := range []string{"token", "password", "secret", "authorization", "api_key", "cookie"} {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}
