// Package logger wraps zerolog with context-scoped fields. Handlers
// accumulate fields onto the context and every log call downstream
// carries them automatically.
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/marketa-app/admin-backend/pkg/env"
	"github.com/rs/zerolog"
)

// Options configures the structured logger.
type Options struct {
	ServiceName string
	Level       zerolog.Level
	WarnStack   bool
	Output      io.Writer
}

type Logger struct {
	base      *zerolog.Logger
	warnStack bool
}

type ctxKey struct{}

// New builds the logger. Output is JSON lines by default;
// MARKETA_LOG_FORMAT=console switches to human-readable output for
// local work.
func New(opts Options) *Logger {
	level := opts.Level
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	base := zerolog.
		New(outputWriter(opts.Output)).
		With().
		Timestamp().
		Str("service", opts.ServiceName).
		Logger().
		Level(level)

	return &Logger{base: &base, warnStack: opts.WarnStack}
}

func outputWriter(out io.Writer) io.Writer {
	if out == nil {
		out = os.Stdout
	}
	if env.Get("MARKETA_LOG_FORMAT", "json") == "console" {
		return zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}
	return out
}

// ParseLevel maps a config string to a zerolog level, defaulting to
// info on anything unrecognized.
func ParseLevel(value string) zerolog.Level {
	if lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value))); err == nil && lvl != zerolog.NoLevel {
		return lvl
	}
	return zerolog.InfoLevel
}

func (l *Logger) fromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if entry, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok {
			return entry
		}
	}
	return l.base
}

func attach(ctx context.Context, entry zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, &entry)
}

// WithField returns a context whose logger carries key=value.
func (l *Logger) WithField(ctx context.Context, key string, value any) context.Context {
	return attach(ctx, l.fromContext(ctx).With().Interface(key, value).Logger())
}

// WithFields returns a context whose logger carries every entry in fields.
func (l *Logger) WithFields(ctx context.Context, fields map[string]any) context.Context {
	builder := l.fromContext(ctx).With()
	for k, v := range fields {
		builder = builder.Interface(k, v)
	}
	return attach(ctx, builder.Logger())
}

func (l *Logger) WithRequestID(ctx context.Context, requestID string) context.Context {
	return l.WithField(ctx, "request_id", requestID)
}

func (l *Logger) WithUserID(ctx context.Context, userID string) context.Context {
	return l.WithField(ctx, "user_id", userID)
}

func (l *Logger) WithActorRole(ctx context.Context, role string) context.Context {
	return l.WithField(ctx, "actor_role", role)
}

func (l *Logger) Info(ctx context.Context, msg string) {
	l.fromContext(ctx).Info().Msg(msg)
}

func (l *Logger) Warn(ctx context.Context, msg string) {
	event := l.fromContext(ctx).Warn()
	if l.warnStack {
		event = event.Str("stack", stackTrace())
	}
	event.Msg(msg)
}

// Error always records a stack trace alongside the error chain.
func (l *Logger) Error(ctx context.Context, msg string, err error) {
	event := l.fromContext(ctx).Error()
	if err != nil {
		event = event.Err(err)
	}
	event.Str("stack", stackTrace()).Msg(msg)
}

func stackTrace() string {
	return strings.TrimSpace(string(debug.Stack()))
}
