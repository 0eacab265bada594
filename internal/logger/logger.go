// Package logger builds the relay's slog logger from LoggingConfig. Output
// is JSON or text on stdout, stderr or an append-only file, and credential
// attributes are redacted before any handler sees them.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"translator/internal/models"
	"translator/internal/version"
)

const redacted = "[REDACTED]"

// authScheme prefixes provider credentials in Authorization headers.
const authScheme = "DeepL-Auth-Key "

// sensitiveKeys are compared after lower-casing and dropping '_' and '-'.
var sensitiveKeys = map[string]struct{}{
	"apikey":        {},
	"authorization": {},
	"password":      {},
	"secret":        {},
	"token":         {},
}

// Setup returns a logger carrying the build and instance fields of ver. The
// Closer is non-nil only for file output and must be closed on exit.
func Setup(cfg models.LoggingConfig, ver version.Info) (*slog.Logger, io.Closer, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level: %w", err)
	}

	w, closer, err := openWriter(cfg.Output, cfg.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log output: %w", err)
	}

	logger := slog.New(newHandler(w, cfg.Format, level)).With(
		slog.String("version", ver.Version),
		slog.String("git_commit", ver.GitCommit),
		slog.String("instance_id", ver.InstanceID),
	)
	return logger, closer, nil
}

func newHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redactSensitive,
	}
	if format == "text" {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

func redactSensitive(_ []string, a slog.Attr) slog.Attr {
	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, redacted)
	}
	if a.Value.Kind() == slog.KindString && strings.HasPrefix(a.Value.String(), authScheme) {
		return slog.String(a.Key, authScheme+redacted)
	}
	return a
}

func isSensitiveKey(key string) bool {
	normalized := strings.NewReplacer("_", "", "-", "").Replace(strings.ToLower(key))
	_, ok := sensitiveKeys[normalized]
	return ok
}

// parseLevel accepts the slog level names in any case.
func parseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unsupported log level: %q", level)
	}
	return l, nil
}

// openWriter resolves an output name. Unknown names fall back to stdout.
func openWriter(output, filePath string) (io.Writer, io.Closer, error) {
	switch strings.ToLower(output) {
	case "stderr":
		return os.Stderr, nil, nil
	case "file":
		if filePath == "" {
			return nil, nil, fmt.Errorf("file path is required when output is file")
		}
		f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file %s: %w", filePath, err)
		}
		return f, f, nil
	default:
		return os.Stdout, nil, nil
	}
}
