package memstr

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with memstr-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithOp adds an op (primitive name) field to the logger.
func (l *Logger) WithOp(op string) *Logger {
	return &Logger{
		Logger: l.Logger.With("op", op),
	}
}

// WithTier adds a kernel tier field to the logger.
func (l *Logger) WithTier(tier string) *Logger {
	return &Logger{
		Logger: l.Logger.With("tier", tier),
	}
}

// LogFault logs an operation rejected by a Space. The op field comes
// from WithOp.
func (l *Logger) LogFault(addr Addr, err error) {
	l.Debug("operation rejected",
		"addr", uint64(addr),
		"error", err,
	)
}

// LogKernel logs the kernel tier in use.
func (l *Logger) LogKernel(ctx context.Context, tier string, overridden bool) {
	l.InfoContext(ctx, "kernel selected",
		"tier", tier,
		"overridden", overridden,
	)
}

// LogBench logs the summary of one benchmarked primitive.
func (l *Logger) LogBench(ctx context.Context, op string, size int, mean, stddev time.Duration) {
	l.InfoContext(ctx, "benchmark completed",
		"op", op,
		"size", size,
		"mean", mean,
		"stddev", stddev,
	)
}

// LogStress logs the outcome of a stress run.
func (l *Logger) LogStress(ctx context.Context, workers, iterations int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "stress run failed",
			"workers", workers,
			"iterations", iterations,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "stress run completed",
			"workers", workers,
			"iterations", iterations,
		)
	}
}
