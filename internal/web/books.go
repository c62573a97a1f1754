package web

import (
	"context"
	"fmt"
	"net/http"

	"bookadmin/internal/entity"
	"bookadmin/internal/session"

	"go.uber.org/zap"
)

func (s *Server) booksView() *crudView[entity.Book, entity.BookInput] {
	return &crudView[entity.Book, entity.BookInput]{
		s:        s,
		singular: "book",
		plural:   "books",
		path:     "/libros",
		view:     view{Page: "books", Title: "Books", Nav: "libros"},
		resource: s.api.Books,
		rowID:    func(b entity.Book) entity.ID { return b.ID },
		toDraft:  entity.Book.Input,
		parse:    parseBookForm,
		needs:    needAuthors | needPublishers,
	}
}

// bookListPage is a read-only list of books filtered by author or publisher.
type bookListPage struct {
	Heading string
	Back    string
	Books   []entity.Book
	Message string
	Lookups
}

type bookFetcher func(ctx context.Context, token string, id entity.ID) ([]entity.Book, error)

// authorBooks serves GET /home/autores/{id}/libros.
func (s *Server) authorBooks(w http.ResponseWriter, r *http.Request) {
	s.bookList(w, r, "/home", s.api.BooksByAuthor, func(l Lookups, id entity.ID) string {
		return "Books by " + l.AuthorName(id)
	})
}

// publisherBooks serves GET /editoriales/{id}/libros.
func (s *Server) publisherBooks(w http.ResponseWriter, r *http.Request) {
	s.bookList(w, r, "/editoriales", s.api.BooksByPublisher, func(l Lookups, id entity.ID) string {
		return "Books published by " + l.PublisherName(&id)
	})
}

func (s *Server) bookList(w http.ResponseWriter, r *http.Request, back string, fetch bookFetcher, heading func(Lookups, entity.ID) string) {
	id, err := entity.ParseID(r.PathValue("id"))
	if err != nil || id == 0 {
		s.notFound(w, r)
		return
	}

	ctx := r.Context()
	token := session.FromContext(ctx).Token()
	page := &bookListPage{Back: back, Books: []entity.Book{}}

	var notices []string
	page.Lookups, err = s.fetchLookups(ctx, token, needAuthors|needPublishers, &notices)
	if s.signOut(w, r, err) {
		return
	}
	page.Heading = heading(page.Lookups, id)

	status := http.StatusOK
	books, err := fetch(ctx, token, id)
	switch {
	case s.signOut(w, r, err):
		return
	case err != nil:
		s.log.Warn("fetch failed", zap.String("entity", "books"), zap.Stringer("filter", id), zap.Error(err))
		status = http.StatusBadGateway
		page.Message = fmt.Sprintf("Could not load books: %s.", apiMessage(err))
	default:
		page.Books = books
	}
	if len(notices) > 0 && page.Message == "" {
		page.Message = notices[0]
	}
	s.views.render(w, r, status, view{Page: "book_list", Title: page.Heading, Nav: back[1:]}, page)
}
