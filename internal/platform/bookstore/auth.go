package bookstore

import (
	"context"
	"net/http"

	"bookadmin/internal/entity"
)

// Login exchanges credentials for a session token. It never sends a token
// header.
func (c *Client) Login(ctx context.Context, creds entity.Credentials) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/login",
		route:  "/auth/login",
		body:   creds,
		out:    &resp,
	})
	if err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", ErrNoToken
	}
	return resp.Token, nil
}

func (c *Client) Register(ctx context.Context, reg entity.Registration) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/register",
		route:  "/auth/register",
		body:   reg,
	})
}
