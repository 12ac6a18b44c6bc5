package parser

import (
	"context"
	"io"

	"github.com/rzbill/dunfell/pkg/id"
	logpkg "github.com/rzbill/dunfell/pkg/log"
)

// Task is the handle of an asynchronous load.
type Task struct {
	id     id.ID
	done   chan struct{}
	cancel context.CancelFunc
	err    error
}

// LoadFromStreamAsync runs LoadFromStream on a new goroutine and returns
// immediately. The Parser's result must not be read until the Task is done.
func (p *Parser) LoadFromStreamAsync(ctx context.Context, r io.Reader) *Task {
	return p.startTask(ctx, logpkg.Str("source", "stream"), func(ctx context.Context) error {
		return p.LoadFromStream(ctx, r)
	})
}

// LoadFromFileAsync is the asynchronous form of LoadFromFile.
func (p *Parser) LoadFromFileAsync(ctx context.Context, path string) *Task {
	return p.startTask(ctx, logpkg.Str("path", path), func(ctx context.Context) error {
		return p.LoadFromFileContext(ctx, path)
	})
}

func (p *Parser) startTask(ctx context.Context, source logpkg.Field, load func(context.Context) error) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{id: id.New(), done: make(chan struct{}), cancel: cancel}
	logger := p.logger.With(logpkg.Str(logpkg.TaskIDKey, t.id.String()), source)
	logger.Debug("async load started")
	go func() {
		defer close(t.done)
		defer cancel()
		t.err = load(ctx)
		logger.Debug("async load finished", logpkg.Err(t.err))
	}()
	return t
}

// ID identifies the task in logs.
func (t *Task) ID() id.ID { return t.id }

// Done is closed when the load has finished.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the load finishes and returns its error.
func (t *Task) Wait() error {
	<-t.done
	return t.err
}

// Poll reports whether the load has finished and, if so, its error.
func (t *Task) Poll() (bool, error) {
	select {
	case <-t.done:
		return true, t.err
	default:
		return false, nil
	}
}

// Cancel asks the load to stop at the next line boundary. The load then
// fails with a KindCancelled error unless it already completed.
func (t *Task) Cancel() { t.cancel() }
