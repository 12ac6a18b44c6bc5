package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/rzbill/dunfell/internal/config"
	"github.com/rzbill/dunfell/internal/parser"
	logpkg "github.com/rzbill/dunfell/pkg/log"
)

// app carries the settings resolved before any subcommand runs.
type app struct {
	cfgPath   string
	dataDir   string
	logLevel  string
	logFormat string
	decode    bool

	cfg    config.Config
	logger logpkg.Logger
}

// NewRoot constructs the dunfell root command.
func NewRoot() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "dunfell",
		Short:         "Validate and inspect Dunfell trace logs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", os.Getenv("DUNFELL_CONFIG"), "Config file (JSON or YAML)")
	pf.StringVar(&a.dataDir, "data-dir", "", "Archive directory (default: OS-specific application data directory)")
	pf.BoolVar(&a.decode, "decode", false, "Decode event parameters with the built-in decoders")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: debug|info|warn|error")
	pf.StringVar(&a.logFormat, "log-format", "", "Log format: text|json")

	root.AddCommand(
		newCheckCommand(a),
		newEventsCommand(a),
		newThreadsCommand(a),
		newImportCommand(a),
		newArchiveCommand(a),
		newTypesCommand(a),
	)
	return root
}

// setup resolves defaults < config file < environment < flags.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	config.FromEnv(&cfg)
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	if cmd.Flags().Changed("decode") {
		cfg.Decode = a.decode
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := logpkg.ApplyConfig(&cfg.Log)
	if err != nil {
		return err
	}
	logpkg.RedirectStdLog(logger)
	a.cfg, a.logger = cfg, logger
	return nil
}

func (a *app) newParser() *parser.Parser {
	return parser.New(append(a.cfg.ParserOptions(), parser.WithLogger(a.logger))...)
}

// load parses path with a fresh parser.
func (a *app) load(ctx context.Context, path string) (*parser.Parser, error) {
	p := a.newParser()
	if err := p.LoadFromFileContext(ctx, path); err != nil {
		return nil, err
	}
	return p, nil
}
