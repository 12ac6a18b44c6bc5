package log

import (
	"fmt"
	"log/slog"
	"strings"
)

// Config declares a logger: level, format and outputs.
type Config struct {
	// Level is one of debug|info|warn|error. Empty means info.
	Level string `json:"level" yaml:"level"`
	// Format is text or json. Empty means text.
	Format string `json:"format" yaml:"format"`
	// Outputs lists destinations: "console", "null" or "file:<path>".
	// Empty means console.
	Outputs []string `json:"outputs" yaml:"outputs"`
	// Redact replaces the values of these keys with [REDACTED].
	Redact []string `json:"redact" yaml:"redact"`
	// SampleInitial and SampleThereafter enable per-message sampling when
	// SampleThereafter > 0.
	SampleInitial    int `json:"sampleInitial" yaml:"sampleInitial"`
	SampleThereafter int `json:"sampleThereafter" yaml:"sampleThereafter"`
}

// ApplyConfig builds a Logger from cfg.
func ApplyConfig(cfg *Config) (Logger, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	level := InfoLevel
	if cfg.Level != "" {
		l, err := ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		level = l
	}

	var formatter Formatter
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		formatter = &TextFormatter{}
	case "json":
		formatter = &JSONFormatter{}
	default:
		return nil, fmt.Errorf("log: unknown format %q", cfg.Format)
	}

	opts := []LoggerOption{WithLevel(level), WithFormatter(formatter)}
	for _, o := range cfg.Outputs {
		switch {
		case o == "console":
			opts = append(opts, WithOutput(NewConsoleOutput()))
		case o == "null":
			opts = append(opts, WithOutput(&NullOutput{}))
		case strings.HasPrefix(o, "file:"):
			fo, err := NewFileOutput(strings.TrimPrefix(o, "file:"))
			if err != nil {
				return nil, fmt.Errorf("log: open output: %w", err)
			}
			opts = append(opts, WithOutput(fo))
		default:
			return nil, fmt.Errorf("log: unknown output %q", o)
		}
	}

	logger := NewLogger(opts...).(*BaseLogger)
	h := newBridgeHandler(logger).withRedactions(cfg.Redact).withSampler(cfg.SampleInitial, cfg.SampleThereafter)
	logger.slogLogger = slog.New(h)
	return logger, nil
}
