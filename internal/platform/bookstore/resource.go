package bookstore

import (
	"context"
	"net/http"

	"bookadmin/internal/entity"
)

// Resource is a collection endpoint with the usual list/create/update/delete
// shape: GET and POST on path, PUT and DELETE on path/:id.
type Resource[T any, I any] struct {
	client *Client
	path   string
}

func (r Resource[T, I]) List(ctx context.Context, token string) ([]T, error) {
	var items []T
	err := r.client.do(ctx, call{
		method: http.MethodGet,
		path:   r.path,
		route:  r.path,
		token:  token,
		out:    &items,
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (r Resource[T, I]) Create(ctx context.Context, token string, in I) error {
	return r.client.do(ctx, call{
		method: http.MethodPost,
		path:   r.path,
		route:  r.path,
		token:  token,
		body:   in,
	})
}

func (r Resource[T, I]) Update(ctx context.Context, token string, id entity.ID, in I) error {
	return r.client.do(ctx, call{
		method: http.MethodPut,
		path:   r.path + "/" + id.String(),
		route:  r.path + "/:id",
		token:  token,
		body:   in,
	})
}

func (r Resource[T, I]) Delete(ctx context.Context, token string, id entity.ID) error {
	return r.client.do(ctx, call{
		method: http.MethodDelete,
		path:   r.path + "/" + id.String(),
		route:  r.path + "/:id",
		token:  token,
	})
}
