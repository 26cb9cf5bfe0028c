package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"
)

// Paths locates a resource collection.
type Paths struct {
	List   string                 // GET
	Create string                 // POST
	Item   func(id string) string // PUT, DELETE
}

// Resource is the list/create/update/delete client of one entity type.
type Resource[T any] struct {
	client  *Client
	paths   Paths
	headers map[string]string
}

type ResourceOption func(headers map[string]string)

// WithCreatorHeader sends the `X-Creator-Id` header on every call.
func WithCreatorHeader(creatorID string) ResourceOption {
	return func(headers map[string]string) {
		headers[creatorHeader] = creatorID
	}
}

func NewResource[T any](client *Client, paths Paths, opts ...ResourceOption) *Resource[T] {
	headers := make(map[string]string)
	for _, opt := range opts {
		opt(headers)
	}
	return &Resource[T]{client: client, paths: paths, headers: headers}
}

func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	resp, err := r.client.do(ctx, request{method: rest.Get, path: r.paths.List, headers: r.headers})
	if err != nil {
		return nil, err
	}
	items := make([]T, 0)
	if err := decode(resp, &items); err != nil {
		return nil, errors.Wrap(err, "GET "+r.paths.List)
	}
	return items, nil
}

func (r *Resource[T]) Create(ctx context.Context, body Body) error {
	_, err := r.client.do(ctx, request{method: rest.Post, path: r.paths.Create, body: body, headers: r.headers})
	return err
}

// Update replaces item `id` then re-fetches the whole list.
func (r *Resource[T]) Update(ctx context.Context, id string, body Body) ([]T, error) {
	if _, err := r.client.do(ctx, request{method: rest.Put, path: r.paths.Item(id), body: body, headers: r.headers}); err != nil {
		return nil, err
	}
	return r.List(ctx)
}

// Delete removes item `id` then re-fetches the whole list.
// Only a 204 counts as removed; the caller keeps its list on any error.
func (r *Resource[T]) Delete(ctx context.Context, id string) ([]T, error) {
	path := r.paths.Item(id)
	resp, err := r.client.do(ctx, request{method: rest.Delete, path: path, headers: r.headers})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusNoContent {
		return nil, errors.Wrapf(ErrUnexpectedStatus, "DELETE %s: %d", path, resp.StatusCode)
	}
	return r.List(ctx)
}

func escape(id string) string {
	return url.PathEscape(id)
}
