package interfaces

import "context"

// Logger defines the leveled logging contract used across the blog pipeline.
// It mirrors github.com/goliatone/go-logger so that package plugs in without
// additional glue.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider hands out named loggers, one per module.
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is implemented by loggers that can carry persistent structured
// fields.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
