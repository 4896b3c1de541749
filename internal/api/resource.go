package api

import (
	"context"
	"net/url"
	"strings"

	"github.com/RezaEskandarii/recordgrid/internal/query"
	"github.com/RezaEskandarii/recordgrid/types"
)

const (
	DefaultListPath       = "/api/users/paginated"
	DefaultCollectionPath = "/api/users"
)

// Resource is one remote collection: a paginated list route plus CRUD under
// the collection path.
type Resource[T any] struct {
	client         *Client
	listPath       string
	collectionPath string
}

func NewResource[T any](client *Client, listPath, collectionPath string) *Resource[T] {
	if listPath == "" {
		listPath = DefaultListPath
	}
	if collectionPath == "" {
		collectionPath = DefaultCollectionPath
	}
	return &Resource[T]{
		client:         client,
		listPath:       listPath,
		collectionPath: strings.TrimRight(collectionPath, "/"),
	}
}

// ListRoute identifies the cached list pages of this collection.
func (r *Resource[T]) ListRoute() string {
	return r.listPath
}

func (r *Resource[T]) List(ctx context.Context, req query.ListRequest) (*types.PageResult[T], error) {
	var page types.PageResult[T]
	if err := r.client.Get(ctx, r.listPath, req.Values(), &page); err != nil {
		return nil, err
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	if page.PageSize <= 0 {
		page.PageSize = req.Size
	}
	return &page, nil
}

func (r *Resource[T]) Get(ctx context.Context, id string) (*T, error) {
	var item T
	if err := r.client.Get(ctx, r.itemPath(id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Resource[T]) Create(ctx context.Context, body any) error {
	return r.client.Post(ctx, r.collectionPath, body, nil)
}

func (r *Resource[T]) Update(ctx context.Context, id string, body any) error {
	return r.client.Put(ctx, r.itemPath(id), body, nil)
}

func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	return r.client.Delete(ctx, r.itemPath(id))
}

// Stats decodes GET <collection>/stats into out.
func (r *Resource[T]) Stats(ctx context.Context, out any) error {
	return r.client.Get(ctx, r.collectionPath+"/stats", nil, out)
}

func (r *Resource[T]) itemPath(id string) string {
	return r.collectionPath + "/" + url.PathEscape(id)
}
