// Package logger is the logging facade used by every go-wimod package.
//
// Components never talk to a concrete logging framework. They hold a Logger,
// usually taken from the connection configuration, and emit structured
// key-value records through it:
//
//	log.Debug("hci: frame dropped", "reason", err, "length", n)
//
// The default implementation writes JSON records through log/slog. Setting
// ENV=development switches to a colored console handler, which is handy when
// watching a radio module on a bench.
//
// Log Levels:
//
//   - DebugLevel: per-frame and per-message traces, disabled by default.
//   - InfoLevel:  lifecycle events such as opening and closing a connection.
//   - WarnLevel:  unsupported or unknown messages, dropped frames.
//   - ErrorLevel: transport failures and sink write errors.
//   - FatalLevel: logs and terminates the process.
package logger

// Level indicates the logging severity level.
type Level = int8

const (
	// DebugLevel logs are voluminous and usually disabled.
	DebugLevel Level = iota - 1
	// InfoLevel is the default logging priority.
	InfoLevel
	// WarnLevel logs are more important than Info, but don't need individual
	// human review.
	WarnLevel
	// ErrorLevel logs are high-priority.
	ErrorLevel
	// FatalLevel logs a message, then calls os.Exit(1).
	FatalLevel
)

// Logger defines a common interface for logging.
type Logger interface {
	// Debug logs a message at DebugLevel with the given key-value pairs.
	Debug(msg string, keysAndValues ...any)
	// Info logs a message at InfoLevel with the given key-value pairs.
	Info(msg string, keysAndValues ...any)
	// Warn logs a message at WarnLevel with the given key-value pairs.
	Warn(msg string, keysAndValues ...any)
	// Error logs a message at ErrorLevel with the given key-value pairs.
	Error(msg string, keysAndValues ...any)
	// Fatal logs a message at FatalLevel and then calls os.Exit(1),
	// even if logging at FatalLevel is disabled.
	Fatal(msg string, keysAndValues ...any)
	// With creates a child logger carrying the given key-value pairs.
	// Pairs added to the child don't affect the parent, and vice versa.
	With(keyValues ...any) Logger
	// Level returns the minimum enabled level for this logger.
	Level() Level
	// SetLevel sets the minimum enabled level for this logger.
	SetLevel(level Level)
}
