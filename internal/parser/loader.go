package parser

import (
	"bytes"
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rzbill/dunfell/internal/event"
	"github.com/rzbill/dunfell/internal/registry"
	logpkg "github.com/rzbill/dunfell/pkg/log"
)

// Stats counts the lines of the last successful load.
// HeaderLines + CommentLines + EventLines == Lines.
type Stats struct {
	Lines        int
	CommentLines int
	HeaderLines  int
	// EventLines counts every valid event line, decoded or not.
	EventLines int
	// IgnoredLines counts event lines whose type has no decoder.
	IgnoredLines int
	// Events is the number of decoded events.
	Events int
}

// Progress is reported periodically while loading.
type Progress struct {
	Lines  int
	Bytes  int64
	Events int
}

// Option configures a Parser.
type Option func(*Parser)

// WithRegistry replaces the default event type registry.
func WithRegistry(reg *registry.Registry) Option {
	return func(p *Parser) {
		if reg != nil {
			p.reg = reg
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l logpkg.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithPreallocate sizes the event buffer up front.
func WithPreallocate(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.prealloc = n
		}
	}
}

// WithMaxLineBytes bounds the length of a single line.
func WithMaxLineBytes(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxLine = n
		}
	}
}

// WithProgress calls fn every `every` lines and once when the input is
// exhausted. fn runs on the loading goroutine.
func WithProgress(every int, fn func(Progress)) Option {
	return func(p *Parser) {
		if every <= 0 {
			every = 4096
		}
		p.progressEvery = every
		p.progress = fn
	}
}

// Parser loads Dunfell logs. A Parser holds the result of its last
// successful load; a failed load leaves it untouched. Loads on one Parser
// must not overlap (ErrBusy).
type Parser struct {
	reg           *registry.Registry
	logger        logpkg.Logger
	prealloc      int
	maxLine       int
	progress      func(Progress)
	progressEvery int

	busy atomic.Bool

	mu     sync.RWMutex
	seq    *event.Sequence
	header Header
	stats  Stats
}

// New returns a Parser using the default registry.
func New(opts ...Option) *Parser {
	p := &Parser{
		reg:     registry.Default(),
		logger:  logpkg.NewNopLogger(),
		maxLine: DefaultMaxLineBytes,
	}
	for _, o := range opts {
		o(p)
	}
	p.logger = p.logger.With(logpkg.Component("parser"))
	return p
}

// LoadFromData loads a log held in memory.
func (p *Parser) LoadFromData(data []byte) error {
	return p.LoadFromStream(context.Background(), bytes.NewReader(data))
}

// LoadFromFile loads a log from path. zstd and gzip compressed files are
// decompressed transparently.
func (p *Parser) LoadFromFile(path string) error {
	return p.LoadFromFileContext(context.Background(), path)
}

// LoadFromFileContext is LoadFromFile with cancellation.
func (p *Parser) LoadFromFileContext(ctx context.Context, path string) error {
	rc, err := openLog(path)
	if err != nil {
		return &Error{Kind: KindIO, Msg: "cannot open " + path, Err: err}
	}
	defer rc.Close()
	return p.LoadFromStream(ctx, rc)
}

// LoadFromStream loads a log from r, checking ctx between lines.
func (p *Parser) LoadFromStream(ctx context.Context, r io.Reader) error {
	if !p.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer p.busy.Store(false)

	start := time.Now()
	res, err := p.load(ctx, r)
	if err != nil {
		p.logger.Debug("load failed", logpkg.Err(err))
		return err
	}

	p.mu.Lock()
	p.seq = res.seq
	p.header = res.header
	p.stats = res.stats
	p.mu.Unlock()

	p.logger.Debug("log loaded",
		logpkg.Int("lines", res.stats.Lines),
		logpkg.Int("comment_lines", res.stats.CommentLines),
		logpkg.Int("event_lines", res.stats.EventLines),
		logpkg.Int("events", res.stats.Events),
		logpkg.Uint64("initial_ts", uint64(res.header.InitialTimestamp)),
		logpkg.Duration("took", time.Since(start)),
	)
	return nil
}

type loadResult struct {
	seq    *event.Sequence
	header Header
	stats  Stats
}

func (p *Parser) load(ctx context.Context, r io.Reader) (loadResult, error) {
	if err := ctx.Err(); err != nil {
		return loadResult{}, &Error{Kind: KindCancelled, Line: 1, Msg: "load cancelled", Err: err}
	}

	var (
		st     = LineState{Number: 1}
		header Header
		stats  Stats
		events = make([]event.Event, 0, p.prealloc)
		src    = newLineSource(r, p.maxLine)
	)

	for n, raw := range src.Lines() {
		if err := ctx.Err(); err != nil {
			return loadResult{}, &Error{Kind: KindCancelled, Line: n, Msg: "load cancelled", Err: err}
		}
		stats.Lines++

		out, err := ParseLine(raw, st, p.reg)
		if err != nil {
			return loadResult{}, err
		}
		switch out.Outcome {
		case OutcomeComment:
			stats.CommentLines++
		case OutcomeHeader:
			stats.HeaderLines++
			header = out.Header
		case OutcomeIgnored:
			stats.EventLines++
			stats.IgnoredLines++
			p.logger.Debug("ignoring event with no decoder", logpkg.Str("type", out.Type), logpkg.Int("line", n))
		case OutcomeEvent:
			stats.EventLines++
			events = append(events, out.Event)
		}
		st.Advance(out)

		if p.progress != nil && n%p.progressEvery == 0 {
			p.progress(Progress{Lines: n, Bytes: src.Bytes(), Events: len(events)})
		}
	}
	if err := src.Err(); err != nil {
		if err == errLineTooLong {
			return loadResult{}, &Error{Kind: KindFormat, Line: st.Number, Msg: "line too long"}
		}
		return loadResult{}, &Error{Kind: KindIO, Line: st.Number, Msg: "read failed", Err: err}
	}
	if st.Version == "" {
		return loadResult{}, errorf(KindFormat, st.Number, "missing header")
	}
	if p.progress != nil {
		p.progress(Progress{Lines: stats.Lines, Bytes: src.Bytes(), Events: len(events)})
	}

	stats.Events = len(events)
	return loadResult{
		seq:    event.NewSequence(events, header.InitialTimestamp),
		header: header,
		stats:  stats,
	}, nil
}

// EventSequence returns the result of the last successful load, or nil.
func (p *Parser) EventSequence() *event.Sequence {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.seq
}

// Header returns the header of the last successful load.
func (p *Parser) Header() (Header, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.header, p.seq != nil
}

// Stats returns the line counts of the last successful load.
func (p *Parser) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stats
}

// Registry returns the registry lines are decoded with.
func (p *Parser) Registry() *registry.Registry { return p.reg }
