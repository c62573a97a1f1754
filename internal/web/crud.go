package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"bookadmin/internal/entity"
	"bookadmin/internal/platform/bookstore"
	"bookadmin/internal/session"

	"go.uber.org/zap"
)

type lookupSet uint8

const (
	needAuthors lookupSet = 1 << iota
	needPublishers
	needBooks
)

// Lookups are the secondary lists a page needs to render selects and names.
type Lookups struct {
	Authors    []entity.Author
	Publishers []entity.Publisher
	Books      []entity.Book
}

func (l Lookups) AuthorName(id entity.ID) string {
	for _, a := range l.Authors {
		if a.ID == id {
			return a.Name
		}
	}
	return "#" + id.String()
}

func (l Lookups) PublisherName(id *entity.ID) string {
	if id == nil {
		return ""
	}
	for _, p := range l.Publishers {
		if p.ID == *id {
			return p.Name
		}
	}
	return "#" + id.String()
}

func (l Lookups) BookTitle(id entity.ID) string {
	for _, b := range l.Books {
		if b.ID == id {
			return b.Title
		}
	}
	return "#" + id.String()
}

// fetchLookups loads each requested list. A failed list is logged, left
// empty and reported as a notice. Only a 401 is returned as an error.
func (s *Server) fetchLookups(ctx context.Context, token string, need lookupSet, notices *[]string) (Lookups, error) {
	var l Lookups
	if need&needAuthors != 0 {
		items, err := s.api.Authors.List(ctx, token)
		if err = s.noteFetch(err, "authors", notices); err != nil {
			return l, err
		}
		l.Authors = items
	}
	if need&needPublishers != 0 {
		items, err := s.api.Publishers.List(ctx, token)
		if err = s.noteFetch(err, "publishers", notices); err != nil {
			return l, err
		}
		l.Publishers = items
	}
	if need&needBooks != 0 {
		items, err := s.api.Books.List(ctx, token)
		if err = s.noteFetch(err, "books", notices); err != nil {
			return l, err
		}
		l.Books = items
	}
	return l, nil
}

// noteFetch swallows a fetch failure into notices, except 401 which the
// caller must act on.
func (s *Server) noteFetch(err error, what string, notices *[]string) error {
	if err == nil {
		return nil
	}
	if bookstore.IsUnauthorized(err) {
		return err
	}
	s.log.Warn("fetch failed", zap.String("entity", what), zap.Error(err))
	*notices = append(*notices, fmt.Sprintf("Could not load %s.", what))
	return nil
}

// signOut handles a 401 from the API: the session is dropped and the user
// sent to the login page. It reports whether it did so.
func (s *Server) signOut(w http.ResponseWriter, r *http.Request, err error) bool {
	if !bookstore.IsUnauthorized(err) {
		return false
	}
	s.log.Info("api rejected session token, signing out")
	s.sessions.Logout(w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
	return true
}

// apiMessage is the user-facing reason for a failed API call.
func apiMessage(err error) string {
	var apiErr *bookstore.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return http.StatusText(apiErr.StatusCode)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "the bookstore API timed out"
	}
	return "the bookstore API is unavailable"
}

// crudPage is the data every list page renders.
type crudPage[T any, I any] struct {
	Path    string
	Items   []T
	Draft   I
	EditID  entity.ID
	Errors  []FieldError
	Message string
	Notices []string
	Lookups
}

func (p crudPage[T, I]) Editing() bool { return p.EditID != 0 }

// crudView is the list + form + delete page shared by authors, books,
// publishers and sales. Every successful mutation redirects back to the
// list, which re-fetches it in full.
type crudView[T any, I any] struct {
	s        *Server
	singular string
	plural   string
	path     string
	view     view
	resource bookstore.Resource[T, I]
	rowID    func(T) entity.ID
	toDraft  func(T) I
	parse    func(url.Values) (I, []FieldError)
	needs    lookupSet
}

func (v *crudView[T, I]) mount(s *Server, mux *http.ServeMux) {
	s.handle(mux, "GET "+v.path, s.guard.Protected(http.HandlerFunc(v.list)))
	s.handle(mux, "POST "+v.path, s.guard.Protected(http.HandlerFunc(v.save)))
	s.handle(mux, "POST "+v.path+"/{id}/delete", s.guard.Protected(http.HandlerFunc(v.remove)))
}

// load fills the list and lookups. It returns false when the response has
// already been written (signed out).
func (v *crudView[T, I]) load(w http.ResponseWriter, r *http.Request, page *crudPage[T, I]) bool {
	ctx := r.Context()
	token := session.FromContext(ctx).Token()

	items, err := v.resource.List(ctx, token)
	if err = v.s.noteFetch(err, v.plural, &page.Notices); err != nil {
		v.s.signOut(w, r, err)
		return false
	}
	if items == nil {
		items = []T{}
	}
	page.Items = items

	lookups, err := v.s.fetchLookups(ctx, token, v.needs, &page.Notices)
	if err != nil {
		v.s.signOut(w, r, err)
		return false
	}
	page.Lookups = lookups
	return true
}

func (v *crudView[T, I]) list(w http.ResponseWriter, r *http.Request) {
	page := &crudPage[T, I]{Path: v.path}
	if !v.load(w, r, page) {
		return
	}

	status := http.StatusOK
	if raw := r.URL.Query().Get("edit"); raw != "" {
		id, err := entity.ParseID(raw)
		found := false
		if err == nil {
			for _, item := range page.Items {
				if v.rowID(item) == id {
					page.EditID = id
					page.Draft = v.toDraft(item)
					found = true
					break
				}
			}
		}
		if !found {
			status = http.StatusNotFound
			page.Message = fmt.Sprintf("The %s to edit was not found.", v.singular)
		}
	}
	v.s.views.render(w, r, status, v.view, page)
}

func (v *crudView[T, I]) save(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	var errs []FieldError
	id := formID(r.PostForm, "id", &errs)
	draft, perrs := v.parse(r.PostForm)
	errs = append(errs, perrs...)
	if len(errs) == 0 {
		errs = ValidateStruct(draft)
	}
	if len(errs) > 0 {
		v.fail(w, r, http.StatusUnprocessableEntity, draft, id, errs, "Please correct the errors below.")
		return
	}

	ctx := r.Context()
	token := session.FromContext(ctx).Token()
	var err error
	if id != 0 {
		err = v.resource.Update(ctx, token, id, draft)
	} else {
		err = v.resource.Create(ctx, token, draft)
	}
	if v.s.signOut(w, r, err) {
		return
	}
	if err != nil {
		v.s.log.Warn("save failed", zap.String("entity", v.singular), zap.Error(err))
		v.fail(w, r, http.StatusBadGateway, draft, id, nil, fmt.Sprintf("Could not save the %s: %s.", v.singular, apiMessage(err)))
		return
	}
	http.Redirect(w, r, v.path, http.StatusSeeOther)
}

// fail re-renders the page with the submitted draft and mode intact.
func (v *crudView[T, I]) fail(w http.ResponseWriter, r *http.Request, status int, draft I, id entity.ID, errs []FieldError, msg string) {
	page := &crudPage[T, I]{Path: v.path, Draft: draft, EditID: id, Errors: errs, Message: msg}
	if !v.load(w, r, page) {
		return
	}
	v.s.views.render(w, r, status, v.view, page)
}

func (v *crudView[T, I]) remove(w http.ResponseWriter, r *http.Request) {
	id, err := entity.ParseID(r.PathValue("id"))
	if err != nil || id == 0 {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	err = v.resource.Delete(ctx, session.FromContext(ctx).Token(), id)
	if v.s.signOut(w, r, err) {
		return
	}
	if err != nil {
		v.s.log.Warn("delete failed", zap.String("entity", v.singular), zap.Stringer("id", id), zap.Error(err))
		page := &crudPage[T, I]{Path: v.path, Message: fmt.Sprintf("Could not delete the %s: %s.", v.singular, apiMessage(err))}
		if !v.load(w, r, page) {
			return
		}
		v.s.views.render(w, r, http.StatusBadGateway, v.view, page)
		return
	}
	http.Redirect(w, r, v.path, http.StatusSeeOther)
}
