// Package invalidation drops cached list pages after a mutation and tells
// other console instances to do the same.
package invalidation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/RezaEskandarii/recordgrid/internal/broker"
	"github.com/RezaEskandarii/recordgrid/internal/cache"
	"github.com/google/uuid"
)

const Topic = "recordgrid.invalidate"

type Event struct {
	Route  string    `json:"route"`
	Origin string    `json:"origin"`
	At     time.Time `json:"at"`
}

// Bus satisfies the mutation gateway's invalidator. Both collaborators are
// optional; a Bus with neither does nothing.
type Bus struct {
	cache    cache.PageCache
	broker   broker.MessageBroker
	origin   string
	logger   *slog.Logger
	mu       sync.Mutex
	handlers []func(route string)
}

func NewBus(pageCache cache.PageCache, mb broker.MessageBroker, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		cache:  pageCache,
		broker: mb,
		origin: uuid.NewString(),
		logger: logger,
	}
}

func (b *Bus) Origin() string { return b.origin }

// Invalidate drops route locally and broadcasts it.
func (b *Bus) Invalidate(ctx context.Context, route string) error {
	var errs []error
	if b.cache != nil {
		if err := b.cache.Invalidate(ctx, route); err != nil {
			errs = append(errs, fmt.Errorf("invalidate cache: %w", err))
		}
	}
	if b.broker != nil {
		msg, err := json.Marshal(Event{Route: route, Origin: b.origin, At: time.Now().UTC()})
		if err == nil {
			err = b.broker.Publish(Topic, msg)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("publish invalidation: %w", err))
		}
	}
	return errors.Join(errs...)
}

// OnRemote registers a handler for invalidations published by other instances.
func (b *Bus) OnRemote(handler func(route string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
}

// Listen applies remote invalidations until ctx is done or the broker closes.
func (b *Bus) Listen(ctx context.Context) error {
	if b.broker == nil {
		<-ctx.Done()
		return nil
	}
	msgs, err := b.broker.Consume(ctx, Topic)
	if err != nil {
		return fmt.Errorf("consume invalidations: %w", err)
	}

	for msg := range msgs {
		var ev Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			b.logger.Warn("ignoring malformed invalidation", "error", err)
			continue
		}
		if ev.Origin == b.origin || ev.Route == "" {
			continue
		}
		b.logger.Debug("remote invalidation", "route", ev.Route, "origin", ev.Origin)
		if b.cache != nil {
			if err := b.cache.Invalidate(ctx, ev.Route); err != nil {
				b.logger.Warn("cache invalidation failed", "route", ev.Route, "error", err)
			}
		}

		b.mu.Lock()
		handlers := append([]func(string){}, b.handlers...)
		b.mu.Unlock()
		for _, h := range handlers {
			h(ev.Route)
		}
	}
	return nil
}
