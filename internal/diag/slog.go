package diag

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Level is the minimum severity a SlogLogger will emit.
type Level slog.Level

const (
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

// SlogLogger adapts log/slog to Logger, rendering through tint so console
// output is colorized on a terminal and plain when redirected to a file.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlog returns a SlogLogger writing to os.Stderr, colorized when stderr
// is a terminal.
func NewSlog(level Level) *SlogLogger {
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		TimeFormat: time.Kitchen,
		Level:      slog.Level(level),
	})
	return &SlogLogger{logger: slog.New(handler)}
}

func (l *SlogLogger) Debug(msg string, kv ...any) { l.logger.Debug(msg, kv...) }
func (l *SlogLogger) Info(msg string, kv ...any)  { l.logger.Info(msg, kv...) }
func (l *SlogLogger) Warn(msg string, kv ...any)  { l.logger.Warn(msg, kv...) }
func (l *SlogLogger) Error(msg string, kv ...any) { l.logger.Error(msg, kv...) }

func (l *SlogLogger) With(kv ...any) Logger {
	return &SlogLogger{logger: l.logger.With(kv...)}
}
