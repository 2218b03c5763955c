package log

import (
	"context"
	"io"
	"log"
)

// CslLogger writes leveled lines to the console, or any writer.
type CslLogger struct {
	out   *log.Logger
	debug bool
}

func NewCslLoggerTo(w io.Writer, debug bool) (*CslLogger, error) {
	return &CslLogger{
		out:   log.New(w, "", log.LstdFlags),
		debug: debug,
	}, nil
}

func (l *CslLogger) printf(ctx context.Context, level string, format string, args ...interface{}) {
	prefix := "[" + level + "]"
	if id := RunID(ctx); id != "" {
		prefix += "[run=" + id + "]"
	}
	l.out.Printf(prefix+" "+format, args...)
}

func (l *CslLogger) Info(ctx context.Context, format string, args ...interface{}) {
	l.printf(ctx, "INFO", format, args...)
}

func (l *CslLogger) Alert(ctx context.Context, format string, args ...interface{}) {
	l.printf(ctx, "ALERT", format, args...)
}

func (l *CslLogger) Error(ctx context.Context, format string, args ...interface{}) {
	l.printf(ctx, "ERROR", format, args...)
}

func (l *CslLogger) Warn(ctx context.Context, format string, args ...interface{}) {
	l.printf(ctx, "WARN", format, args...)
}

func (l *CslLogger) Debug(ctx context.Context, format string, args ...interface{}) {
	if !l.debug {
		return
	}
	l.printf(ctx, "DEBUG", format, args...)
}

func (l *CslLogger) Critical(ctx context.Context, format string, args ...interface{}) {
	l.printf(ctx, "CRITICAL", format, args...)
}

func (l *CslLogger) Emergency(ctx context.Context, format string, args ...interface{}) {
	l.printf(ctx, "EMERGENCY", format, args...)
}

func (l *CslLogger) Notice(ctx context.Context, format string, args ...interface{}) {
	l.printf(ctx, "NOTICE", format, args...)
}
