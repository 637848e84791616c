// Package logger wraps zap's sugared logger with key/value redaction.
// Credentials never reach the output and user ids are hashed.
package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const redacted = "[REDACTED]"

type Logger struct {
	sugar *zap.SugaredLogger
}

// New builds a logger for mode. "production"/"prod" logs JSON at info,
// anything else logs console output at debug. LOG_LEVEL overrides the level.
func New(mode string) (*Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	level := zapcore.DebugLevel
	if m := strings.ToLower(strings.TrimSpace(mode)); m == "production" || m == "prod" {
		cfg = zap.NewProductionConfig()
		level = zapcore.InfoLevel
	}
	if raw := strings.TrimSpace(os.Getenv("LOG_LEVEL")); raw != "" {
		if parsed, err := zapcore.ParseLevel(raw); err == nil {
			level = parsed
		}
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	return &Logger{sugar: z.Sugar()}, nil
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

func (l *Logger) Sync() { _ = l.sugar.Sync() }

func (l *Logger) Debug(msg string, kv ...any) { l.sugar.Debugw(msg, scrub(kv)...) }
func (l *Logger) Info(msg string, kv ...any)  { l.sugar.Infow(msg, scrub(kv)...) }
func (l *Logger) Warn(msg string, kv ...any)  { l.sugar.Warnw(msg, scrub(kv)...) }
func (l *Logger) Error(msg string, kv ...any) { l.sugar.Errorw(msg, scrub(kv)...) }
func (l *Logger) Fatal(msg string, kv ...any) { l.sugar.Fatalw(msg, scrub(kv)...) }

// With returns a child logger carrying kv on every entry.
func (l *Logger) With(kv ...any) *Logger {
	return &Logger{sugar: l.sugar.With(scrub(kv)...)}
}

// redactor decides what happens to each logged value. Configured once from
// LOG_REDACTION_ENABLED (default on) and LOG_HASH_SALT.
type redactor struct {
	enabled bool
	salt    string
}

var (
	redactorOnce sync.Once
	active       redactor
)

func currentRedactor() redactor {
	redactorOnce.Do(func() {
		active.enabled = true
		switch strings.ToLower(strings.TrimSpace(os.Getenv("LOG_REDACTION_ENABLED"))) {
		case "0", "false", "no", "off":
			active.enabled = false
		}
		active.salt = strings.TrimSpace(os.Getenv("LOG_HASH_SALT"))
	})
	return active
}

// secretKeys mark values that are dropped outright.
var secretKeys = []string{"token", "authorization", "password", "secret", "api_key", "apikey", "cse_id"}

func scrub(kv []any) []any {
	r := currentRedactor()
	if len(kv) == 0 || !r.enabled {
		return kv
	}
	out := make([]any, 0, len(kv))
	for i := 0; i+1 < len(kv); i += 2 {
		key := asString(kv[i])
		out = append(out, key, r.value(strings.ToLower(strings.TrimSpace(key)), kv[i+1]))
	}
	if len(kv)%2 == 1 {
		out = append(out, kv[len(kv)-1])
	}
	return out
}

func (r redactor) value(key string, v any) any {
	switch {
	case key == "":
		return v
	case isSecretKey(key):
		return redacted
	case strings.Contains(key, "user_id"):
		return r.hash(v)
	}
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, inner := range t {
			out[k] = r.value(strings.ToLower(k), inner)
		}
		return out
	case string:
		if looksLikeJWT(t) {
			return redacted
		}
	}
	return v
}

func (r redactor) hash(v any) string {
	s := asString(v)
	if s == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(r.salt + s))
	return "hash:" + hex.EncodeToString(sum[:])[:12]
}

func isSecretKey(key string) bool {
	for _, k := range secretKeys {
		if strings.Contains(key, k) {
			return true
		}
	}
	return false
}

// looksLikeJWT matches three dot-separated segments with non-trivial header and payload.
func looksLikeJWT(s string) bool {
	parts := strings.Split(s, ".")
	return len(parts) == 3 && len(parts[0]) > 10 && len(parts[1]) > 10
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
