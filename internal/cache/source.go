package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/RezaEskandarii/recordgrid/internal/query"
	"github.com/RezaEskandarii/recordgrid/types"
	"golang.org/x/sync/singleflight"
)

type Source[T any] interface {
	List(ctx context.Context, req query.ListRequest) (*types.PageResult[T], error)
}

type Recorder interface {
	ObserveCache(hit bool)
}

// CachedSource serves list pages from a PageCache and fills misses from the
// wrapped source. Concurrent misses for the same page share one fetch.
type CachedSource[T any] struct {
	source   Source[T]
	cache    PageCache
	route    string
	flight   singleflight.Group
	logger   *slog.Logger
	recorder Recorder
}

func NewCachedSource[T any](source Source[T], cache PageCache, route string, logger *slog.Logger, recorder Recorder) *CachedSource[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedSource[T]{source: source, cache: cache, route: route, logger: logger, recorder: recorder}
}

func (s *CachedSource[T]) List(ctx context.Context, req query.ListRequest) (*types.PageResult[T], error) {
	key := req.Signature()

	gen, err := s.cache.Generation(ctx, s.route)
	if err != nil {
		s.logger.Warn("page cache unavailable, fetching directly", "route", s.route, "error", err)
		s.observe(false)
		return s.source.List(ctx, req)
	}

	if raw, ok, err := s.cache.Get(ctx, s.route, gen, key); err != nil {
		s.logger.Warn("page cache read failed", "route", s.route, "error", err)
	} else if ok {
		var page types.PageResult[T]
		if err := json.Unmarshal(raw, &page); err == nil {
			s.observe(true)
			return &page, nil
		}
		s.logger.Warn("dropping undecodable cached page", "route", s.route, "key", key)
	}
	s.observe(false)

	// A caller arriving after an Invalidate reads a new generation and so
	// never joins a fetch that started before it.
	flightKey := strconv.FormatUint(gen, 10) + "\x00" + key
	v, err, _ := s.flight.Do(flightKey, func() (any, error) {
		page, err := s.source.List(ctx, req)
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(page); err == nil {
			if err := s.cache.Set(ctx, s.route, gen, key, raw); err != nil {
				s.logger.Warn("page cache write failed", "route", s.route, "error", err)
			}
		}
		return page, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*types.PageResult[T]), nil
}

func (s *CachedSource[T]) observe(hit bool) {
	if s.recorder != nil {
		s.recorder.ObserveCache(hit)
	}
}
