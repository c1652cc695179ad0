package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/crimson-sun/canlog/internal/model"
	"github.com/crimson-sun/canlog/internal/output"
)

const (
	defaultBufferSize   = 1024
	defaultDrainTimeout = 5 * time.Second
)

// Option configures an Async wrapper.
type Option func(*Async)

// WithBufferSize sets the channel buffer capacity. Default: 1024.
func WithBufferSize(n int) Option {
	return func(a *Async) { a.bufSize = n }
}

// WithDrainTimeout bounds how long Close waits for buffered records.
func WithDrainTimeout(d time.Duration) Option {
	return func(a *Async) { a.drainTimeout = d }
}

// WithOnError sets the callback invoked when the inner output's Write fails.
// Default: logs a warning via slog.
func WithOnError(f func(error)) Option {
	return func(a *Async) { a.errFunc = f }
}

// WithDropOnFull makes Write drop the record instead of blocking when the
// buffer is full.
func WithDropOnFull() Option {
	return func(a *Async) { a.dropOnFull = true }
}

// Async hands records to a background goroutine that writes them to the
// wrapped output. Inner write errors go to errFunc, not the caller.
type Async struct {
	inner        output.Output
	ch           chan model.Record
	done         chan struct{}
	errFunc      func(error)
	bufSize      int
	drainTimeout time.Duration
	dropOnFull   bool
	closeOnce    sync.Once
}

// New wraps inner and starts the drain goroutine.
func New(inner output.Output, opts ...Option) *Async {
	a := &Async{
		inner:        inner,
		bufSize:      defaultBufferSize,
		drainTimeout: defaultDrainTimeout,
		errFunc:      func(err error) { slog.Warn("async output write error", "error", err) },
	}
	for _, opt := range opts {
		opt(a)
	}
	a.ch = make(chan model.Record, a.bufSize)
	a.done = make(chan struct{})
	go a.drain()
	return a
}

// Write enqueues rec. It blocks while the buffer is full unless
// WithDropOnFull is set, and returns ctx.Err() if ctx ends first.
func (a *Async) Write(ctx context.Context, rec model.Record) error {
	if a.dropOnFull {
		select {
		case a.ch <- rec:
		default:
			slog.Warn("async output buffer full, dropping record",
				"ext_id", rec.ExtendedID, "side", rec.Side)
		}
		return nil
	}
	select {
	case a.ch <- rec:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting records, waits for the drain (bounded by the
// drain timeout), then closes the inner output.
func (a *Async) Close() error {
	var err error
	a.closeOnce.Do(func() {
		close(a.ch)
		select {
		case <-a.done:
		case <-time.After(a.drainTimeout):
			slog.Warn("async output drain timed out", "pending", len(a.ch))
		}
		err = a.inner.Close()
	})
	return err
}

func (a *Async) drain() {
	defer close(a.done)
	for rec := range a.ch {
		if err := a.inner.Write(context.Background(), rec); err != nil {
			a.errFunc(err)
		}
	}
}
