// Package config loads dunfell settings from a JSON or YAML file and
// DUNFELL_* environment variables.
//
//	cfg, err := config.Load("/etc/dunfell.yaml") // "" for defaults
//	if err != nil {
//		return err
//	}
//	config.FromEnv(&cfg)
//	p := parser.New(cfg.ParserOptions()...)
package config
