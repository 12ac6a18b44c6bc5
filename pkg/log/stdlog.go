package log

import (
	"bytes"
	stdlog "log"
)

// ToStdLogger returns a *log.Logger whose lines are logged at level.
func ToStdLogger(l Logger, level Level) *stdlog.Logger {
	return stdlog.New(&stdWriter{logger: l, level: level}, "", 0)
}

// RedirectStdLog routes the standard library's default logger (used by
// Pebble among others) through l at info level.
func RedirectStdLog(l Logger) {
	stdlog.SetFlags(0)
	stdlog.SetPrefix("")
	stdlog.SetOutput(&stdWriter{logger: l, level: InfoLevel})
}

type stdWriter struct {
	logger Logger
	level  Level
}

func (w *stdWriter) Write(p []byte) (int, error) {
	msg := string(bytes.TrimRight(p, "\r\n"))
	switch w.level {
	case DebugLevel:
		w.logger.Debug(msg)
	case WarnLevel:
		w.logger.Warn(msg)
	case ErrorLevel, FatalLevel:
		w.logger.Error(msg)
	default:
		w.logger.Info(msg)
	}
	return len(p), nil
}
