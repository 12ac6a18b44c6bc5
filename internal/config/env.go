package config

import (
	"os"
	"strconv"
	"strings"
)

// FromEnv overlays DUNFELL_* environment variables onto cfg. Unparsable
// values are ignored.
func FromEnv(cfg *Config) {
	if v := os.Getenv("DUNFELL_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("DUNFELL_FSYNC"); v != "" {
		cfg.Fsync = v
	}
	if v := os.Getenv("DUNFELL_PREALLOCATE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Preallocate = n
		}
	}
	if v := os.Getenv("DUNFELL_MAX_LINE_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxLineBytes = n
		}
	}
	if v := os.Getenv("DUNFELL_DECODE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Decode = b
		}
	}
	if v := os.Getenv("DUNFELL_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("DUNFELL_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("DUNFELL_LOG_OUTPUTS"); v != "" {
		cfg.Log.Outputs = nil
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.Log.Outputs = append(cfg.Log.Outputs, p)
			}
		}
	}
}
