package renderer

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/exp/slog"

	"github.com/df07/go-progressive-integrator/pkg/core"
)

// SlogLogger implements core.Logger on top of a structured logger
type SlogLogger struct {
	logger *slog.Logger
}

// Printf implements core.Logger
func (l *SlogLogger) Printf(format string, args ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// With returns a logger that adds the given attributes to every record
func (l *SlogLogger) With(args ...any) *SlogLogger {
	return &SlogLogger{logger: l.logger.With(args...)}
}

// NewSlogLogger wraps an existing structured logger
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	return &SlogLogger{logger: logger}
}

// NewDefaultLogger creates a new default logger writing text records to stderr
func NewDefaultLogger() core.Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

// sessionLogger tags records with the session id when the logger supports it
func sessionLogger(logger core.Logger, id string) core.Logger {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	if sl, ok := logger.(*SlogLogger); ok {
		return sl.With("session", id)
	}
	return logger
}
