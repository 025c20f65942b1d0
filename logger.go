package ukb

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with ukb-specific field names.
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
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithVertex adds a vertex name field.
func (l *Logger) WithVertex(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("vertex", name),
	}
}

// WithSource adds a relation-source field.
func (l *Logger) WithSource(source string) *Logger {
	return &Logger{
		Logger: l.Logger.With("source", source),
	}
}

// WithCount adds a count field.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogIngest logs a text or dictionary ingestion.
func (l *Logger) LogIngest(ctx context.Context, stats IngestStats, err error) {
	if err != nil {
		l.ErrorContext(ctx, "ingest failed",
			"read", stats.Read,
			"applied", stats.Applied,
			"dropped", stats.Dropped,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "ingest completed",
		"read", stats.Read,
		"applied", stats.Applied,
		"dropped", stats.Dropped,
	)
}

// LogSnapshot logs a snapshot write.
func (l *Logger) LogSnapshot(ctx context.Context, location string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"location", location,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "snapshot saved",
		"location", location,
	)
}

// LogLoad logs a snapshot load.
func (l *Logger) LogLoad(ctx context.Context, location string, vertices, edges int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot load failed",
			"location", location,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "snapshot loaded",
		"location", location,
		"vertices", vertices,
		"edges", edges,
	)
}

// LogTraversal logs a BFS or Dijkstra run.
func (l *Logger) LogTraversal(ctx context.Context, algorithm string, source string, reached int) {
	l.WithVertex(source).WithCount(reached).DebugContext(ctx, "traversal completed",
		"algorithm", algorithm,
	)
}
