package runtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/rzbill/dunfell/internal/archive"
	cfgpkg "github.com/rzbill/dunfell/internal/config"
	"github.com/rzbill/dunfell/internal/parser"
	"github.com/rzbill/dunfell/internal/registry"
	pebblestore "github.com/rzbill/dunfell/internal/storage/pebble"
	logpkg "github.com/rzbill/dunfell/pkg/log"
)

// Options for building the Runtime.
type Options struct {
	// DataDir overrides Config.DataDir.
	DataDir string
	Config  cfgpkg.Config
	Logger  logpkg.Logger
}

// Runtime owns the archive database and the settings parsers are built
// with.
type Runtime struct {
	db     *pebblestore.DB
	config cfgpkg.Config
	logger logpkg.Logger
}

// Open opens the archive database.
func Open(opts Options) (*Runtime, error) {
	cfg := opts.Config
	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	fsync, _ := pebblestore.ParseFsyncMode(cfg.Fsync)
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewNopLogger()
	}
	dir := cfg.ResolvedDataDir()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: fsync, Logger: logger})
	if err != nil {
		return nil, err
	}
	logger.Debug("runtime opened", logpkg.Str("data_dir", dir))
	return &Runtime{db: db, config: cfg, logger: logger}, nil
}

// Close closes underlying resources.
func (r *Runtime) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// CheckHealth verifies the database can be read.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.db == nil {
		return errors.New("db not open")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	it, err := r.db.NewIter(nil)
	if err != nil {
		return err
	}
	return it.Close()
}

// Registry returns the event type table parsers use under this config.
func (r *Runtime) Registry() *registry.Registry { return r.config.Registry() }

// NewParser returns a parser configured from the runtime config.
func (r *Runtime) NewParser(extra ...parser.Option) *parser.Parser {
	opts := append(r.config.ParserOptions(), parser.WithLogger(r.logger))
	return parser.New(append(opts, extra...)...)
}

// OpenArchive opens the named archive.
func (r *Runtime) OpenArchive(name string) (*archive.Archive, error) {
	return archive.Open(r.db, name)
}

// Archives lists the stored archives.
func (r *Runtime) Archives() ([]archive.Meta, error) {
	return archive.List(r.db)
}

// Import loads the log at path and stores it as archive name.
func (r *Runtime) Import(ctx context.Context, path, name string) (archive.Meta, parser.Stats, error) {
	a, err := r.OpenArchive(name)
	if err != nil {
		return archive.Meta{}, parser.Stats{}, err
	}
	p := r.NewParser()
	if err := p.LoadFromFileContext(ctx, path); err != nil {
		return archive.Meta{}, parser.Stats{}, err
	}
	meta, err := a.Put(ctx, p.EventSequence())
	if err != nil {
		return archive.Meta{}, parser.Stats{}, fmt.Errorf("import %s: %w", path, err)
	}
	r.logger.Info("archive stored",
		logpkg.Str("archive", name),
		logpkg.Uint64("events", meta.Events),
		logpkg.Int("lines", p.Stats().Lines),
	)
	return meta, p.Stats(), nil
}

// DB exposes the underlying DB (internal use only).
func (r *Runtime) DB() *pebblestore.DB { return r.db }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }
