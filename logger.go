package kiohash

import (
	"context"
	"log/slog"
	"os"

	"github.com/unkn0wn-root/kiohash/accel"
)

// Logger wraps slog.Logger with consistent field names for engine events.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, uses a text handler to stderr at info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that writes JSON to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that writes human-readable text to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger discards all output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// LogProbe records the capability the backend settled on.
func (l *Logger) LogProbe(ctx context.Context, c accel.Capability) {
	l.DebugContext(ctx, "acceleration probed", "capability", c.String())
}

// LogDegraded records a recovered resource failure, e.g. a serial rerun
// when no workers were free.
func (l *Logger) LogDegraded(ctx context.Context, op string, err error) {
	l.InfoContext(ctx, "operation degraded",
		"op", op,
		"kind", KindOf(err).String(),
		"error", err,
	)
}
