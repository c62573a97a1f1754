package bookstore

import (
	"context"
	"net/http"

	"bookadmin/internal/entity"
)

func (c *Client) BooksByAuthor(ctx context.Context, token string, authorID entity.ID) ([]entity.Book, error) {
	return c.listBooks(ctx, token, "/autores/"+authorID.String()+"/libros", "/autores/:id/libros")
}

func (c *Client) BooksByPublisher(ctx context.Context, token string, publisherID entity.ID) ([]entity.Book, error) {
	return c.listBooks(ctx, token, "/editoriales/"+publisherID.String()+"/libros", "/editoriales/:id/libros")
}

func (c *Client) listBooks(ctx context.Context, token, path, route string) ([]entity.Book, error) {
	var books []entity.Book
	err := c.do(ctx, call{method: http.MethodGet, path: path, route: route, token: token, out: &books})
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []entity.Book{}
	}
	return books, nil
}

func (c *Client) ListAuthorBooks(ctx context.Context, token string) ([]entity.AuthorBook, error) {
	var rows []entity.AuthorBook
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/autores_libros",
		route:  "/autores_libros",
		token:  token,
		out:    &rows,
	})
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []entity.AuthorBook{}
	}
	return rows, nil
}

func (c *Client) LinkAuthorBook(ctx context.Context, token string, row entity.AuthorBook) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/autores_libros",
		route:  "/autores_libros",
		token:  token,
		body:   row,
	})
}

func (c *Client) RelinkAuthorBook(ctx context.Context, token string, row entity.AuthorBook, to entity.AuthorBookUpdate) error {
	return c.do(ctx, call{
		method: http.MethodPut,
		path:   joinPath(row),
		route:  "/autores_libros/:autor/:libro",
		token:  token,
		body:   to,
	})
}

func (c *Client) UnlinkAuthorBook(ctx context.Context, token string, row entity.AuthorBook) error {
	return c.do(ctx, call{
		method: http.MethodDelete,
		path:   joinPath(row),
		route:  "/autores_libros/:autor/:libro",
		token:  token,
	})
}

func joinPath(row entity.AuthorBook) string {
	return "/autores_libros/" + row.AuthorID.String() + "/" + row.BookID.String()
}
