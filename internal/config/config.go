package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/rzbill/dunfell/internal/parser"
	"github.com/rzbill/dunfell/internal/registry"
	pebblestore "github.com/rzbill/dunfell/internal/storage/pebble"
	logpkg "github.com/rzbill/dunfell/pkg/log"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	// DataDir holds the archive database. Empty means DefaultDataDir().
	DataDir string `json:"dataDir" yaml:"dataDir"`
	// Fsync is always, interval or never. Empty leaves Pebble's group commit.
	Fsync string `json:"fsync" yaml:"fsync"`
	// Preallocate sizes the loader's event buffer.
	Preallocate int `json:"preallocate" yaml:"preallocate"`
	// MaxLineBytes bounds a single log line.
	MaxLineBytes int `json:"maxLineBytes" yaml:"maxLineBytes"`
	// Decode attaches the built-in parameter decoders so that every known
	// event type produces an Event.
	Decode bool          `json:"decode" yaml:"decode"`
	Log    logpkg.Config `json:"log" yaml:"log"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		MaxLineBytes: parser.DefaultMaxLineBytes,
		Log:          logpkg.Config{Level: "info", Format: "text", Outputs: []string{"console"}},
	}
}

// Load reads configuration from a JSON or YAML file, chosen by extension,
// over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	return cfg, cfg.Validate()
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if _, err := pebblestore.ParseFsyncMode(c.Fsync); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Preallocate < 0 {
		return fmt.Errorf("config: preallocate must not be negative")
	}
	if c.MaxLineBytes < 0 {
		return fmt.Errorf("config: maxLineBytes must not be negative")
	}
	if c.Log.Level != "" {
		if _, err := logpkg.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	return nil
}

// ResolvedDataDir returns DataDir, or DefaultDataDir() when unset.
func (c Config) ResolvedDataDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return DefaultDataDir()
}

// Registry returns the event type table selected by Decode.
func (c Config) Registry() *registry.Registry {
	if c.Decode {
		return registry.Decoding()
	}
	return registry.Default()
}

// ParserOptions translates the loader settings into parser options.
func (c Config) ParserOptions() []parser.Option {
	opts := []parser.Option{parser.WithRegistry(c.Registry())}
	if c.Preallocate > 0 {
		opts = append(opts, parser.WithPreallocate(c.Preallocate))
	}
	if c.MaxLineBytes > 0 {
		opts = append(opts, parser.WithMaxLineBytes(c.MaxLineBytes))
	}
	return opts
}
