// Package logging defines the structured logger used by MindBalance
// services. The default implementation wraps log/slog.
package logging

import "context"

// Logger is a context-aware structured logger. Variadic args are key/value
// pairs:
//
//	log.Info(ctx, "entry saved", "user_id", uid, "entry_id", id)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always carries args.
	With(args ...any) Logger
}

// Nop returns a logger that discards everything.
func Nop() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) Logger                  { return n }
