package store

import (
	"context"
	"errors"
	"time"

	"github.com/RezaEskandarii/recordgrid/internal/query"
	"github.com/RezaEskandarii/recordgrid/types"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrConflict    = errors.New("username or email already in use")
	ErrEmptyUpdate = errors.New("no updatable field")
)

// UserStore backs the reference API.
type UserStore interface {
	// List returns one page. req.Page is 0-based; unknown sort fields fall
	// back to the creation date.
	List(ctx context.Context, req query.ListRequest) (*types.PageResult[types.User], error)

	Get(ctx context.Context, id string) (*types.User, error)

	Create(ctx context.Context, in types.CreateUser) (*types.User, error)

	// Update applies a partial update keyed by JSON field name.
	Update(ctx context.Context, id string, patch map[string]any) (*types.User, error)

	Delete(ctx context.Context, id string) error

	// Stats counts users; day, week and month windows are relative to now.
	Stats(ctx context.Context, now time.Time) (types.UserStats, error)
}
