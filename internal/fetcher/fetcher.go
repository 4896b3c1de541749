// Package fetcher retrieves list pages for the current grid selection and
// discards responses that no longer match it.
package fetcher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/RezaEskandarii/recordgrid/internal/query"
	"github.com/RezaEskandarii/recordgrid/types"
)

// Source returns one page for a list request.
type Source[T any] interface {
	List(ctx context.Context, req query.ListRequest) (*types.PageResult[T], error)
}

type SourceFunc[T any] func(ctx context.Context, req query.ListRequest) (*types.PageResult[T], error)

func (f SourceFunc[T]) List(ctx context.Context, req query.ListRequest) (*types.PageResult[T], error) {
	return f(ctx, req)
}

// Recorder receives one observation per settled request.
type Recorder interface {
	ObserveList(outcome string, elapsed time.Duration)
}

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeStale   = "stale"
)

type Status int

const (
	Idle Status = iota
	Loading
	Success
	Error
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	}
	return "idle"
}

// Snapshot is the last observed outcome. Data is shared and must be treated
// as read-only.
type Snapshot[T any] struct {
	Status    Status
	Data      *types.PageResult[T]
	Loading   bool
	Err       string
	Signature string
}

type Option func(*options)

type options struct {
	logger   *slog.Logger
	timeout  time.Duration
	recorder Recorder
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func WithRecorder(r Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// Fetcher runs idle -> loading -> {success, error}. Each request is tagged with
// its signature and an issue sequence; a response is applied only when its
// signature equals the one current at arrival and it is newer than the last
// applied response.
type Fetcher[T any] struct {
	source  Source[T]
	current func() query.ListRequest
	opts    options

	mu           sync.Mutex
	issued       uint64
	applied      uint64
	inFlight     int
	data         *types.PageResult[T]
	err          string
	signature    string
	staleCount   int
	listeners    map[int]func(Snapshot[T])
	listenerSeq  int
	listenerKeys []int
}

// New creates a fetcher. current is evaluated at call time and again when a
// response arrives.
func New[T any](source Source[T], current func() query.ListRequest, opts ...Option) *Fetcher[T] {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Fetcher[T]{
		source:    source,
		current:   current,
		opts:      o,
		listeners: map[int]func(Snapshot[T]){},
	}
}

// Subscribe registers a listener called after every state change.
func (f *Fetcher[T]) Subscribe(listener func(Snapshot[T])) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.listenerSeq
	f.listenerSeq++
	f.listeners[id] = listener
	f.listenerKeys = append(f.listenerKeys, id)
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.listeners, id)
		for i, k := range f.listenerKeys {
			if k == id {
				f.listenerKeys = append(f.listenerKeys[:i], f.listenerKeys[i+1:]...)
				break
			}
		}
	}
}

func (f *Fetcher[T]) Snapshot() Snapshot[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// StaleCount is the number of responses discarded so far.
func (f *Fetcher[T]) StaleCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.staleCount
}

// Execute issues the request for the selection current at call time and
// blocks until it settles. The returned snapshot reflects the fetcher after
// the response was applied or discarded.
func (f *Fetcher[T]) Execute(ctx context.Context) Snapshot[T] {
	req := f.current()
	sig := req.Signature()

	f.mu.Lock()
	f.issued++
	seq := f.issued
	f.inFlight++
	f.notifyLocked()

	if f.opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.opts.timeout)
		defer cancel()
	}

	started := time.Now()
	page, err := f.source.List(ctx, req)
	elapsed := time.Since(started)

	arrival := f.current().Signature()

	f.mu.Lock()
	f.inFlight--
	outcome := OutcomeStale
	if sig == arrival && seq > f.applied {
		f.applied = seq
		f.signature = sig
		if err != nil {
			outcome = OutcomeError
			f.err = err.Error()
			f.opts.logger.Warn("list request failed", "signature", sig, "error", err)
		} else {
			outcome = OutcomeSuccess
			f.data = page
			f.err = ""
		}
	} else {
		f.staleCount++
		f.opts.logger.Debug("discarded stale list response", "signature", sig, "current", arrival, "seq", seq)
	}
	if f.opts.recorder != nil {
		f.opts.recorder.ObserveList(outcome, elapsed)
	}
	return f.notifyLocked()
}

// Prime is the initial load. When it fails and there is no prior data an
// empty page is installed and the error is not surfaced.
func (f *Fetcher[T]) Prime(ctx context.Context) Snapshot[T] {
	snap := f.Execute(ctx)
	if snap.Err == "" || snap.Data != nil {
		return snap
	}

	f.mu.Lock()
	if f.data == nil && f.err != "" {
		f.opts.logger.Warn("initial load failed, rendering an empty page", "error", f.err)
		f.data = types.EmptyPage[T](f.current().Size)
		f.err = ""
	}
	return f.notifyLocked()
}

func (f *Fetcher[T]) snapshotLocked() Snapshot[T] {
	s := Snapshot[T]{
		Data:      f.data,
		Loading:   f.inFlight > 0,
		Err:       f.err,
		Signature: f.signature,
	}
	switch {
	case s.Loading:
		s.Status = Loading
	case s.Err != "":
		s.Status = Error
	case s.Data != nil:
		s.Status = Success
	default:
		s.Status = Idle
	}
	return s
}

// notifyLocked releases f.mu and publishes the new snapshot.
func (f *Fetcher[T]) notifyLocked() Snapshot[T] {
	snap := f.snapshotLocked()
	listeners := make([]func(Snapshot[T]), 0, len(f.listenerKeys))
	for _, k := range f.listenerKeys {
		listeners = append(listeners, f.listeners[k])
	}
	f.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
	return snap
}
