// Package session binds an address store to a list fetcher: any store change
// whose derived request signature differs from the last triggered one starts
// a fetch.
package session

import (
	"context"
	"log/slog"
	"net/url"
	"sync"

	"github.com/RezaEskandarii/recordgrid/internal/address"
	"github.com/RezaEskandarii/recordgrid/internal/controls"
	"github.com/RezaEskandarii/recordgrid/internal/fetcher"
	"github.com/RezaEskandarii/recordgrid/internal/query"
)

// Trigger starts a fetch for a new signature. The default runs Execute on a
// new goroutine; hosts with their own scheduling (the TUI) replace it.
type Trigger func(signature string)

type Option func(*config)

type config struct {
	logger       *slog.Logger
	trigger      Trigger
	fetchOptions []fetcher.Option
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

func WithTrigger(t Trigger) Option {
	return func(c *config) { c.trigger = t }
}

func WithFetcherOptions(opts ...fetcher.Option) Option {
	return func(c *config) { c.fetchOptions = append(c.fetchOptions, opts...) }
}

type Session[T any] struct {
	store    *address.Store
	defaults query.Defaults
	fetcher  *fetcher.Fetcher[T]
	controls *controls.Controls
	logger   *slog.Logger
	trigger  Trigger

	mu          sync.Mutex
	lastTrigger string
	cancel      func()
}

func New[T any](store *address.Store, defaults query.Defaults, source fetcher.Source[T], opts ...Option) *Session[T] {
	cfg := config{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Session[T]{
		store:    store,
		defaults: defaults,
		controls: controls.New(store, defaults),
		logger:   cfg.logger,
	}
	fetchOpts := append([]fetcher.Option{fetcher.WithLogger(cfg.logger)}, cfg.fetchOptions...)
	s.fetcher = fetcher.New[T](source, s.Request, fetchOpts...)

	s.trigger = cfg.trigger
	if s.trigger == nil {
		s.trigger = func(string) {
			go s.fetcher.Execute(context.Background())
		}
	}
	return s
}

// Bind starts observing the store. The current signature counts as already
// triggered; call Load for the first page.
func (s *Session[T]) Bind() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	s.lastTrigger = s.Request().Signature()
	s.cancel = s.store.Subscribe(s.onStoreChange)
}

func (s *Session[T]) Close() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (s *Session[T]) onStoreChange(values url.Values) {
	sig := query.Build(query.Parse(values, s.defaults)).Signature()

	s.mu.Lock()
	if sig == s.lastTrigger {
		s.mu.Unlock()
		return
	}
	s.lastTrigger = sig
	s.mu.Unlock()

	s.logger.Debug("selection changed", "signature", sig)
	s.trigger(sig)
}

func (s *Session[T]) Store() *address.Store { return s.store }

func (s *Session[T]) Controls() *controls.Controls { return s.controls }

func (s *Session[T]) Fetcher() *fetcher.Fetcher[T] { return s.fetcher }

func (s *Session[T]) Defaults() query.Defaults { return s.defaults }

func (s *Session[T]) State() query.State {
	return query.Parse(s.store.Values(), s.defaults)
}

func (s *Session[T]) Request() query.ListRequest {
	return query.Build(s.State())
}

// Load performs the initial load, degrading to an empty page on failure.
func (s *Session[T]) Load(ctx context.Context) fetcher.Snapshot[T] {
	return s.fetcher.Prime(ctx)
}

// Refresh is the handle mutation callers use to re-fetch the current page.
func (s *Session[T]) Refresh(ctx context.Context) fetcher.Snapshot[T] {
	return s.fetcher.Execute(ctx)
}
