// Package log provides Dunfell's structured logging facade.
package log

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// Level is the severity of a log message.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// String returns the upper-case level name.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a case-insensitive level name. The empty string is an
// error so callers can decide on their own default.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "fatal":
		return FatalLevel, nil
	default:
		return InfoLevel, fmt.Errorf("log: unknown level %q", s)
	}
}

// Fields maps field names to values.
type Fields map[string]interface{}

// Context keys understood by ContextExtractor.
const (
	ComponentKey = "component"
	OperationKey = "operation"
	TaskIDKey    = "task_id"
)

// Entry is a single formatted log record.
type Entry struct {
	Level     Level
	Message   string
	Fields    Fields
	Timestamp time.Time
	Caller    string
	Error     error
}

// Logger is the logging interface used across Dunfell components.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	Debugf(msg string, args ...interface{})
	Infof(msg string, args ...interface{})
	Warnf(msg string, args ...interface{})
	Errorf(msg string, args ...interface{})
	Fatalf(msg string, args ...interface{})

	WithField(key string, value interface{}) Logger
	WithFields(fields Fields) Logger
	WithError(err error) Logger

	// With returns a child logger carrying fields on every entry.
	With(fields ...Field) Logger
	// WithContext copies known context values (see ContextExtractor).
	WithContext(ctx context.Context) Logger
	// WithComponent tags entries with a component name.
	WithComponent(component string) Logger

	SetLevel(level Level)
	GetLevel() Level
}

// Formatter renders an Entry to bytes.
type Formatter interface {
	Format(entry *Entry) ([]byte, error)
}

// Output receives formatted entries.
type Output interface {
	Write(entry *Entry, formattedEntry []byte) error
	Close() error
}

// LoggerOption configures a BaseLogger.
type LoggerOption func(*BaseLogger)

// BaseLogger implements Logger on top of slog with a bridge handler that
// feeds our formatter and outputs.
type BaseLogger struct {
	mu         *sync.RWMutex
	level      *Level
	fields     Fields
	formatter  Formatter
	outputs    []Output
	slogLogger *slog.Logger
}

// ContextExtractor pulls the known logging keys out of ctx.
func ContextExtractor(ctx context.Context) Fields {
	fields := Fields{}
	if ctx == nil {
		return fields
	}
	for _, k := range []string{ComponentKey, OperationKey, TaskIDKey} {
		if v := ctx.Value(ctxKey(k)); v != nil {
			fields[k] = v
		}
	}
	return fields
}

type ctxKey string

// ContextWith returns a context carrying value under one of the known keys.
func ContextWith(ctx context.Context, key string, value interface{}) context.Context {
	return context.WithValue(ctx, ctxKey(key), value)
}

// NewLogger creates a logger. Defaults: info level, JSON formatter,
// console output.
func NewLogger(options ...LoggerOption) Logger {
	lvl := InfoLevel
	logger := &BaseLogger{
		mu:        &sync.RWMutex{},
		level:     &lvl,
		fields:    Fields{},
		formatter: &JSONFormatter{},
	}
	for _, option := range options {
		option(logger)
	}
	if len(logger.outputs) == 0 {
		logger.outputs = append(logger.outputs, NewConsoleOutput())
	}
	logger.slogLogger = slog.New(newBridgeHandler(logger))
	return logger
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() Logger {
	return NewLogger(WithLevel(FatalLevel+1), WithOutput(&NullOutput{}))
}

// WithLevel sets the minimum level.
func WithLevel(level Level) LoggerOption {
	return func(l *BaseLogger) { *l.level = level }
}

// WithFormatter sets the formatter.
func WithFormatter(formatter Formatter) LoggerOption {
	return func(l *BaseLogger) { l.formatter = formatter }
}

// WithOutput adds an output.
func WithOutput(output Output) LoggerOption {
	return func(l *BaseLogger) { l.outputs = append(l.outputs, output) }
}

func (l *BaseLogger) log(level Level, msg string, fields []Field) {
	if !l.enabled(level) {
		return
	}
	l.slogLogger.Log(context.Background(), toSlogLevel(level), msg, attrsToAny(attrsFromFieldSlice(fields))...)
	if level == FatalLevel {
		os.Exit(1)
	}
}

func (l *BaseLogger) enabled(level Level) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return level >= *l.level
}

func (l *BaseLogger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields) }
func (l *BaseLogger) Info(msg string, fields ...Field)  { l.log(InfoLevel, msg, fields) }
func (l *BaseLogger) Warn(msg string, fields ...Field)  { l.log(WarnLevel, msg, fields) }
func (l *BaseLogger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields) }
func (l *BaseLogger) Fatal(msg string, fields ...Field) { l.log(FatalLevel, msg, fields) }

func (l *BaseLogger) logKV(level Level, msg string, args []interface{}) {
	if !l.enabled(level) {
		return
	}
	l.slogLogger.Log(context.Background(), toSlogLevel(level), msg, attrsToAny(argsToAttrs(args))...)
	if level == FatalLevel {
		os.Exit(1)
	}
}

func (l *BaseLogger) Debugf(msg string, args ...interface{}) { l.logKV(DebugLevel, msg, args) }
func (l *BaseLogger) Infof(msg string, args ...interface{})  { l.logKV(InfoLevel, msg, args) }
func (l *BaseLogger) Warnf(msg string, args ...interface{})  { l.logKV(WarnLevel, msg, args) }
func (l *BaseLogger) Errorf(msg string, args ...interface{}) { l.logKV(ErrorLevel, msg, args) }
func (l *BaseLogger) Fatalf(msg string, args ...interface{}) { l.logKV(FatalLevel, msg, args) }

// child shares level, formatter and outputs with l.
func (l *BaseLogger) child(extra Fields) *BaseLogger {
	merged := make(Fields, len(l.fields)+len(extra))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	c := &BaseLogger{
		mu:        l.mu,
		level:     l.level,
		fields:    merged,
		formatter: l.formatter,
		outputs:   l.outputs,
	}
	c.slogLogger = l.slogLogger.With(attrsToAny(attrsFromMap(extra))...)
	return c
}

func (l *BaseLogger) WithField(key string, value interface{}) Logger {
	return l.child(Fields{key: value})
}

func (l *BaseLogger) WithFields(fields Fields) Logger { return l.child(fields) }

func (l *BaseLogger) WithError(err error) Logger {
	if err == nil {
		return l
	}
	return l.child(Fields{"error": err.Error()})
}

func (l *BaseLogger) With(fields ...Field) Logger {
	extra := make(Fields, len(fields))
	for _, f := range fields {
		extra[f.Key] = f.Value
	}
	return l.child(extra)
}

func (l *BaseLogger) WithContext(ctx context.Context) Logger {
	return l.child(ContextExtractor(ctx))
}

func (l *BaseLogger) WithComponent(component string) Logger {
	return l.child(Fields{ComponentKey: component})
}

func (l *BaseLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.level = level
}

func (l *BaseLogger) GetLevel() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return *l.level
}
