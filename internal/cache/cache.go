// Package cache keeps list pages keyed by route and request signature.
// Invalidating a route bumps its generation so every page cached under the
// previous generation misses from then on.
package cache

import (
	"context"
	"errors"
)

var ErrUnknownDriver = errors.New("unknown cache driver")

// PageCache stores encoded pages under a route generation. Callers read the
// generation once and pass it to both Get and Set, so a fill that started
// before an Invalidate can only land in the generation it was read from.
type PageCache interface {
	Generation(ctx context.Context, route string) (uint64, error)
	Get(ctx context.Context, route string, gen uint64, key string) ([]byte, bool, error)
	Set(ctx context.Context, route string, gen uint64, key string, value []byte) error
	Invalidate(ctx context.Context, route string) error
}
