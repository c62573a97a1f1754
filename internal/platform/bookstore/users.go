package bookstore

import (
	"context"
	"net/http"

	"bookadmin/internal/entity"
)

// The user endpoints do not follow the collection layout, hence no Resource.

func (c *Client) ListUsers(ctx context.Context, token string) ([]entity.User, error) {
	var users []entity.User
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/usuarios",
		route:  "/usuarios",
		token:  token,
		out:    &users,
	})
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []entity.User{}
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, token string, id entity.ID) (entity.User, error) {
	var u entity.User
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/usuarios/user/" + id.String(),
		route:  "/usuarios/user/:id",
		token:  token,
		out:    &u,
	})
	return u, err
}

func (c *Client) UpdateUser(ctx context.Context, token string, id entity.ID, in entity.UserInput) error {
	return c.do(ctx, call{
		method: http.MethodPut,
		path:   "/usuarios/users/" + id.String(),
		route:  "/usuarios/users/:id",
		token:  token,
		body:   in,
	})
}

func (c *Client) DeleteUser(ctx context.Context, token string, id entity.ID) error {
	return c.do(ctx, call{
		method: http.MethodDelete,
		path:   "/usuarios/" + id.String(),
		route:  "/usuarios/:id",
		token:  token,
	})
}
