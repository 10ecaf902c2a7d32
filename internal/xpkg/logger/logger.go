package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

// Logger is the structured action logger shared by all services. Every log
// line carries the service name and the current action so log pipelines can
// group entries by operation.
type Logger interface {
	Action(action string) Logger
	With(args ...any) Logger
	WithGroup(name string) Logger
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, err error, args ...any)
}

type slogLogger struct {
	l *slog.Logger
}

// New builds a Logger for the given service. Format is "json" or "text";
// text output goes through tint for local development.
func New(service, format, level string) Logger {
	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	if format == "text" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{Level: parseLevel(level)})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	hostname, _ := os.Hostname()
	l := slog.New(handler).With("service", service, "hostname", hostname)
	return &slogLogger{l: l}
}

func (s *slogLogger) Action(action string) Logger {
	return &slogLogger{l: s.l.With("action", action)}
}

func (s *slogLogger) With(args ...any) Logger {
	return &slogLogger{l: s.l.With(args...)}
}

func (s *slogLogger) WithGroup(name string) Logger {
	return &slogLogger{l: s.l.WithGroup(name)}
}

func (s *slogLogger) Debug(msg string, args ...any) {
	s.l.Debug(msg, args...)
}

func (s *slogLogger) Info(msg string, args ...any) {
	s.l.Info(msg, args...)
}

func (s *slogLogger) Warn(msg string, args ...any) {
	s.l.Warn(msg, args...)
}

func (s *slogLogger) Error(msg string, err error, args ...any) {
	if err != nil {
		args = append(args, "error", err.Error())
	}
	s.l.Error(msg, args...)
}

// Nop returns a logger that drops everything. Used by tests.
func Nop() Logger {
	return &slogLogger{l: slog.New(slog.DiscardHandler)}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
