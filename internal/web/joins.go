package web

import (
	"fmt"
	"net/http"

	"bookadmin/internal/entity"
	"bookadmin/internal/session"

	"go.uber.org/zap"
)

const joinsPath = "/autores-libros"

var joinsView = view{Page: "joins", Title: "Authors & books", Nav: "autores-libros"}

// joinsPage lists (author, book) pairs. Orig holds the pair being moved in
// update mode.
type joinsPage struct {
	Path    string
	Items   []entity.AuthorBook
	Draft   entity.AuthorBook
	Orig    entity.AuthorBook
	Errors  []FieldError
	Message string
	Notices []string
	Lookups
}

func (p joinsPage) Editing() bool { return p.Orig.AuthorID != 0 && p.Orig.BookID != 0 }

func (s *Server) loadJoins(w http.ResponseWriter, r *http.Request, page *joinsPage) bool {
	ctx := r.Context()
	token := session.FromContext(ctx).Token()

	items, err := s.api.ListAuthorBooks(ctx, token)
	if err = s.noteFetch(err, "author-book links", &page.Notices); err != nil {
		s.signOut(w, r, err)
		return false
	}
	if items == nil {
		items = []entity.AuthorBook{}
	}
	page.Items = items

	page.Lookups, err = s.fetchLookups(ctx, token, needAuthors|needBooks, &page.Notices)
	if err != nil {
		s.signOut(w, r, err)
		return false
	}
	return true
}

func (s *Server) listJoins(w http.ResponseWriter, r *http.Request) {
	page := &joinsPage{Path: joinsPath}
	if !s.loadJoins(w, r, page) {
		return
	}

	status := http.StatusOK
	q := r.URL.Query()
	if q.Get("autor") != "" || q.Get("libro") != "" {
		var errs []FieldError
		want := entity.AuthorBook{AuthorID: formID(q, "autor", &errs), BookID: formID(q, "libro", &errs)}
		found := false
		for _, row := range page.Items {
			if len(errs) == 0 && row == want {
				found = true
				break
			}
		}
		if found {
			page.Orig = want
			page.Draft = want
		} else {
			status = http.StatusNotFound
			page.Message = "The author-book link to edit was not found."
		}
	}
	s.views.render(w, r, status, joinsView, page)
}

func (s *Server) saveJoin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	var errs []FieldError
	orig := entity.AuthorBook{
		AuthorID: formID(r.PostForm, "orig_autor", &errs),
		BookID:   formID(r.PostForm, "orig_libro", &errs),
	}
	draft, perrs := parseAuthorBookForm(r.PostForm)
	errs = append(errs, perrs...)
	if len(errs) == 0 {
		errs = ValidateStruct(draft)
	}
	if len(errs) > 0 {
		s.failJoin(w, r, http.StatusUnprocessableEntity, draft, orig, errs, "Please correct the errors below.")
		return
	}

	ctx := r.Context()
	token := session.FromContext(ctx).Token()
	var err error
	if orig.AuthorID != 0 && orig.BookID != 0 {
		err = s.api.RelinkAuthorBook(ctx, token, orig, entity.AuthorBookUpdate{NewAuthorID: draft.AuthorID, NewBookID: draft.BookID})
	} else {
		err = s.api.LinkAuthorBook(ctx, token, draft)
	}
	if s.signOut(w, r, err) {
		return
	}
	if err != nil {
		s.log.Warn("save failed", zap.String("entity", "author-book link"), zap.Error(err))
		s.failJoin(w, r, http.StatusBadGateway, draft, orig, nil, fmt.Sprintf("Could not save the link: %s.", apiMessage(err)))
		return
	}
	http.Redirect(w, r, joinsPath, http.StatusSeeOther)
}

func (s *Server) failJoin(w http.ResponseWriter, r *http.Request, status int, draft, orig entity.AuthorBook, errs []FieldError, msg string) {
	page := &joinsPage{Path: joinsPath, Draft: draft, Orig: orig, Errors: errs, Message: msg}
	if !s.loadJoins(w, r, page) {
		return
	}
	s.views.render(w, r, status, joinsView, page)
}

func (s *Server) removeJoin(w http.ResponseWriter, r *http.Request) {
	authorID, err1 := entity.ParseID(r.PathValue("autor"))
	bookID, err2 := entity.ParseID(r.PathValue("libro"))
	if err1 != nil || err2 != nil || authorID == 0 || bookID == 0 {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	err := s.api.UnlinkAuthorBook(ctx, session.FromContext(ctx).Token(), entity.AuthorBook{AuthorID: authorID, BookID: bookID})
	if s.signOut(w, r, err) {
		return
	}
	if err != nil {
		s.log.Warn("delete failed", zap.String("entity", "author-book link"), zap.Error(err))
		page := &joinsPage{Path: joinsPath, Message: fmt.Sprintf("Could not delete the link: %s.", apiMessage(err))}
		if !s.loadJoins(w, r, page) {
			return
		}
		s.views.render(w, r, http.StatusBadGateway, joinsView, page)
		return
	}
	http.Redirect(w, r, joinsPath, http.StatusSeeOther)
}
