package logger

import "sync/atomic"

var defLogger atomic.Pointer[Logger]

func init() {
	SetLogger(NewSlog(InfoLevel, false))
}

// SetLogger replaces the package default logger returned by GetLogger.
// A nil logger is ignored. Components that already captured the previous
// default keep using it.
func SetLogger(l Logger) {
	if l == nil {
		return
	}

	defLogger.Store(&l)
}

// GetLogger returns the package default logger.
func GetLogger() Logger {
	return *defLogger.Load()
}

func Debug(msg string, keysAndValues ...any) { GetLogger().Debug(msg, keysAndValues...) }

func Info(msg string, keysAndValues ...any) { GetLogger().Info(msg, keysAndValues...) }

func Warn(msg string, keysAndValues ...any) { GetLogger().Warn(msg, keysAndValues...) }

func Error(msg string, keysAndValues ...any) { GetLogger().Error(msg, keysAndValues...) }

// Fatal logs on the default logger and exits the process.
func Fatal(msg string, keysAndValues ...any) { GetLogger().Fatal(msg, keysAndValues...) }

// SetLevel changes the level of the default logger.
func SetLevel(level Level) { GetLogger().SetLevel(level) }

// With returns a child of the default logger.
func With(keyValues ...any) Logger { return GetLogger().With(keyValues...) }
