package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"sort"
	"sync"
	"testing"
	"time"

	"bookadmin/internal/entity"
	"bookadmin/internal/platform/crypto"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TestSecret     = "test-secret"
	TestAuthHeader = "x-auth-token"
)

// RecordedRequest is one request seen by FakeAPI.
type RecordedRequest struct {
	Method string
	Path   string
	Token  string
	Body   []byte
}

type failure struct {
	status    int
	remaining int
}

type fakeUser struct {
	entity.User
	password string
}

type fakeBook struct {
	ID          entity.ID
	Title       string
	PublishedOn string
	PublisherID *entity.ID
	Authors     []entity.ID
}

// FakeAPI is an in-memory bookstore API served over httptest. It verifies
// tokens with TestSecret, so tokens minted by TokenFor are accepted.
type FakeAPI struct {
	Server *httptest.Server

	mu         sync.Mutex
	nextID     entity.ID
	users      map[entity.ID]*fakeUser
	authors    map[entity.ID]entity.Author
	publishers map[entity.ID]entity.Publisher
	books      map[entity.ID]*fakeBook
	sales      map[entity.ID]entity.Sale
	requests   []RecordedRequest
	failures   map[string]*failure
}

func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()
	f := &FakeAPI{
		nextID:     1,
		users:      map[entity.ID]*fakeUser{},
		authors:    map[entity.ID]entity.Author{},
		publishers: map[entity.ID]entity.Publisher{},
		books:      map[entity.ID]*fakeBook{},
		sales:      map[entity.ID]entity.Sale{},
		failures:   map[string]*failure{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", f.login)
	mux.HandleFunc("POST /auth/register", f.register)

	mux.HandleFunc("GET /autores", f.authed(f.listAuthors))
	mux.HandleFunc("POST /autores", f.authed(f.createAuthor))
	mux.HandleFunc("PUT /autores/{id}", f.authed(f.updateAuthor))
	mux.HandleFunc("DELETE /autores/{id}", f.authed(f.deleteAuthor))
	mux.HandleFunc("GET /autores/{id}/libros", f.authed(f.booksByAuthor))

	mux.HandleFunc("GET /libros", f.authed(f.listBooks))
	mux.HandleFunc("POST /libros", f.authed(f.createBook))
	mux.HandleFunc("PUT /libros/{id}", f.authed(f.updateBook))
	mux.HandleFunc("DELETE /libros/{id}", f.authed(f.deleteBook))

	mux.HandleFunc("GET /editoriales", f.authed(f.listPublishers))
	mux.HandleFunc("POST /editoriales", f.authed(f.createPublisher))
	mux.HandleFunc("PUT /editoriales/{id}", f.authed(f.updatePublisher))
	mux.HandleFunc("DELETE /editoriales/{id}", f.authed(f.deletePublisher))
	mux.HandleFunc("GET /editoriales/{id}/libros", f.authed(f.booksByPublisher))

	mux.HandleFunc("GET /ventas", f.authed(f.listSales))
	mux.HandleFunc("POST /ventas", f.authed(f.createSale))
	mux.HandleFunc("PUT /ventas/{id}", f.authed(f.updateSale))
	mux.HandleFunc("DELETE /ventas/{id}", f.authed(f.deleteSale))

	mux.HandleFunc("GET /autores_libros", f.authed(f.listLinks))
	mux.HandleFunc("POST /autores_libros", f.authed(f.createLink))
	mux.HandleFunc("PUT /autores_libros/{autor}/{libro}", f.authed(f.updateLink))
	mux.HandleFunc("DELETE /autores_libros/{autor}/{libro}", f.authed(f.deleteLink))

	mux.HandleFunc("GET /usuarios", f.admin(f.listUsers))
	mux.HandleFunc("GET /usuarios/user/{id}", f.admin(f.getUser))
	mux.HandleFunc("PUT /usuarios/users/{id}", f.admin(f.updateUser))
	mux.HandleFunc("DELETE /usuarios/{id}", f.admin(f.deleteUser))

	f.Server = httptest.NewServer(f.record(mux))
	t.Cleanup(f.Server.Close)
	return f
}

func (f *FakeAPI) URL() string { return f.Server.URL }

// Fail makes the next n requests for method+path answer with status.
// n <= 0 fails until Heal is called.
func (f *FakeAPI) Fail(method, path string, status, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method+" "+path] = &failure{status: status, remaining: n}
}

func (f *FakeAPI) Heal() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = map[string]*failure{}
}

func (f *FakeAPI) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.requests)
}

// Count returns how many requests matched method and path.
func (f *FakeAPI) Count(method, path string) int {
	n := 0
	for _, r := range f.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (f *FakeAPI) ResetRequests() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = nil
}

func (f *FakeAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		f.mu.Lock()
		f.requests = append(f.requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Token:  r.Header.Get(TestAuthHeader),
			Body:   body,
		})
		fail, ok := f.failures[r.Method+" "+r.URL.Path]
		if ok && fail.remaining > 0 {
			fail.remaining--
			if fail.remaining == 0 {
				delete(f.failures, r.Method+" "+r.URL.Path)
			}
		}
		f.mu.Unlock()

		if ok {
			writeJSON(w, fail.status, map[string]string{"message": http.StatusText(fail.status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) claims(r *http.Request) (*crypto.Claims, bool) {
	raw := r.Header.Get(TestAuthHeader)
	if raw == "" {
		return nil, false
	}
	claims := &crypto.Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(TestSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, false
	}
	return claims, true
}

func (f *FakeAPI) authed(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := f.claims(r); !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid token"})
			return
		}
		h(w, r)
	}
}

func (f *FakeAPI) admin(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := f.claims(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid token"})
			return
		}
		if !c.IsAdmin {
			writeJSON(w, http.StatusForbidden, map[string]string{"message": "admin only"})
			return
		}
		h(w, r)
	}
}

// Seeding and inspection.

func (f *FakeAPI) allocID() entity.ID {
	id := f.nextID
	f.nextID++
	return id
}

func (f *FakeAPI) AddUser(username, password string, isAdmin bool) entity.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := &fakeUser{User: entity.User{ID: f.allocID(), Username: username, IsAdmin: entity.Flag(isAdmin)}, password: password}
	f.users[u.ID] = u
	return u.User
}

// TokenFor mints a token the fake accepts for u.
func (f *FakeAPI) TokenFor(u entity.User) string {
	return GenerateTestToken(u.ID, bool(u.IsAdmin))
}

func (f *FakeAPI) AddAuthor(a entity.Author) entity.Author {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = f.allocID()
	a.BornOn = apiDate(a.BornOn)
	f.authors[a.ID] = a
	return a
}

func (f *FakeAPI) AddPublisher(p entity.Publisher) entity.Publisher {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = f.allocID()
	f.publishers[p.ID] = p
	return p
}

func (f *FakeAPI) AddBook(in entity.BookInput) entity.Book {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := &fakeBook{ID: f.allocID(), Title: in.Title, PublishedOn: apiDate(in.PublishedOn), PublisherID: in.PublisherID, Authors: slices.Clone(in.Authors)}
	f.books[b.ID] = b
	return f.renderBook(b)
}

func (f *FakeAPI) AddSale(in entity.SaleInput) entity.Sale {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.saleFrom(f.allocID(), in)
	f.sales[s.ID] = s
	return s
}

func (f *FakeAPI) Users() []entity.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.userList()
}

func (f *FakeAPI) Authors() []entity.Author {
	f.mu.Lock()
	defer f.mu.Unlock()
	return sortedValues(f.authors, func(a entity.Author) entity.ID { return a.ID })
}

func (f *FakeAPI) Publishers() []entity.Publisher {
	f.mu.Lock()
	defer f.mu.Unlock()
	return sortedValues(f.publishers, func(p entity.Publisher) entity.ID { return p.ID })
}

func (f *FakeAPI) Books() []entity.Book {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bookList(func(*fakeBook) bool { return true })
}

func (f *FakeAPI) Sales() []entity.Sale {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saleList()
}

func (f *FakeAPI) Links() []entity.AuthorBook {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.linkList()
}

// Password returns the stored password of a user, for asserting updates.
func (f *FakeAPI) Password(id entity.ID) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return u.password
	}
	return ""
}

// Handlers. Callers hold no lock.

func (f *FakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var in entity.Credentials
	if !decode(w, r, &in) {
		return
	}
	f.mu.Lock()
	var found *fakeUser
	for _, u := range f.users {
		if u.Username == in.Username && u.password == in.Password {
			found = u
			break
		}
	}
	f.mu.Unlock()
	if found == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": f.TokenFor(found.User)})
}

func (f *FakeAPI) register(w http.ResponseWriter, r *http.Request) {
	var in entity.Registration
	if !decode(w, r, &in) {
		return
	}
	if in.Username == "" || in.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "username and password required"})
		return
	}
	f.mu.Lock()
	for _, u := range f.users {
		if u.Username == in.Username {
			f.mu.Unlock()
			writeJSON(w, http.StatusConflict, map[string]string{"message": "username taken"})
			return
		}
	}
	u := &fakeUser{User: entity.User{ID: f.allocID(), Username: in.Username, IsAdmin: entity.Flag(in.IsAdmin)}, password: in.Password}
	f.users[u.ID] = u
	f.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]any{"message": "user registered", "id": u.ID})
}

func (f *FakeAPI) listAuthors(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, f.Authors())
}

func (f *FakeAPI) createAuthor(w http.ResponseWriter, r *http.Request) {
	var in entity.AuthorInput
	if !decode(w, r, &in) || !required(w, in.Name) {
		return
	}
	a := f.AddAuthor(entity.Author{Name: in.Name, Nationality: in.Nationality, BornOn: in.BornOn})
	writeJSON(w, http.StatusCreated, a)
}

func (f *FakeAPI) updateAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	var in entity.AuthorInput
	if !ok || !decode(w, r, &in) || !required(w, in.Name) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.authors[id]; !exists {
		notFound(w)
		return
	}
	a := entity.Author{ID: id, Name: in.Name, Nationality: in.Nationality, BornOn: apiDate(in.BornOn)}
	f.authors[id] = a
	writeJSON(w, http.StatusOK, a)
}

func (f *FakeAPI) deleteAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.authors[id]; !exists {
		notFound(w)
		return
	}
	delete(f.authors, id)
	for _, b := range f.books {
		b.Authors = slices.DeleteFunc(b.Authors, func(a entity.ID) bool { return a == id })
	}
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeAPI) booksByAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.authors[id]; !exists {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, f.bookList(func(b *fakeBook) bool { return slices.Contains(b.Authors, id) }))
}

func (f *FakeAPI) listBooks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, f.Books())
}

func (f *FakeAPI) createBook(w http.ResponseWriter, r *http.Request) {
	var in entity.BookInput
	if !decode(w, r, &in) || !required(w, in.Title) {
		return
	}
	writeJSON(w, http.StatusCreated, f.AddBook(in))
}

func (f *FakeAPI) updateBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	var in entity.BookInput
	if !ok || !decode(w, r, &in) || !required(w, in.Title) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b, exists := f.books[id]
	if !exists {
		notFound(w)
		return
	}
	b.Title = in.Title
	b.PublishedOn = apiDate(in.PublishedOn)
	b.PublisherID = in.PublisherID
	b.Authors = slices.Clone(in.Authors)
	writeJSON(w, http.StatusOK, f.renderBook(b))
}

func (f *FakeAPI) deleteBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.books[id]; !exists {
		notFound(w)
		return
	}
	delete(f.books, id)
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeAPI) listPublishers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, f.Publishers())
}

func (f *FakeAPI) createPublisher(w http.ResponseWriter, r *http.Request) {
	var in entity.PublisherInput
	if !decode(w, r, &in) || !required(w, in.Name) {
		return
	}
	writeJSON(w, http.StatusCreated, f.AddPublisher(entity.Publisher{Name: in.Name, Country: in.Country}))
}

func (f *FakeAPI) updatePublisher(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	var in entity.PublisherInput
	if !ok || !decode(w, r, &in) || !required(w, in.Name) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.publishers[id]; !exists {
		notFound(w)
		return
	}
	p := entity.Publisher{ID: id, Name: in.Name, Country: in.Country}
	f.publishers[id] = p
	writeJSON(w, http.StatusOK, p)
}

func (f *FakeAPI) deletePublisher(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.publishers[id]; !exists {
		notFound(w)
		return
	}
	delete(f.publishers, id)
	for _, b := range f.books {
		if b.PublisherID != nil && *b.PublisherID == id {
			b.PublisherID = nil
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeAPI) booksByPublisher(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.publishers[id]; !exists {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, f.bookList(func(b *fakeBook) bool { return b.PublisherID != nil && *b.PublisherID == id }))
}

func (f *FakeAPI) listSales(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, f.Sales())
}

func (f *FakeAPI) createSale(w http.ResponseWriter, r *http.Request) {
	var in entity.SaleInput
	if !decode(w, r, &in) {
		return
	}
	if in.BookID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "libro_id required"})
		return
	}
	writeJSON(w, http.StatusCreated, f.AddSale(in))
}

func (f *FakeAPI) updateSale(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	var in entity.SaleInput
	if !ok || !decode(w, r, &in) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.sales[id]; !exists {
		notFound(w)
		return
	}
	s := f.saleFrom(id, in)
	f.sales[id] = s
	writeJSON(w, http.StatusOK, s)
}

func (f *FakeAPI) deleteSale(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.sales[id]; !exists {
		notFound(w)
		return
	}
	delete(f.sales, id)
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeAPI) listLinks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, f.Links())
}

func (f *FakeAPI) createLink(w http.ResponseWriter, r *http.Request) {
	var in entity.AuthorBook
	if !decode(w, r, &in) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.books[in.BookID]
	if _, authorOK := f.authors[in.AuthorID]; !ok || !authorOK {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "unknown author or book"})
		return
	}
	if slices.Contains(b.Authors, in.AuthorID) {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "relation exists"})
		return
	}
	b.Authors = append(b.Authors, in.AuthorID)
	writeJSON(w, http.StatusCreated, in)
}

func (f *FakeAPI) updateLink(w http.ResponseWriter, r *http.Request) {
	authorID, ok1 := pathID(w, r, "autor")
	if !ok1 {
		return
	}
	bookID, ok2 := pathID(w, r, "libro")
	var in entity.AuthorBookUpdate
	if !ok2 || !decode(w, r, &in) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.books[bookID]
	if !ok || !slices.Contains(b.Authors, authorID) {
		notFound(w)
		return
	}
	target, ok := f.books[in.NewBookID]
	if _, authorOK := f.authors[in.NewAuthorID]; !ok || !authorOK {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "unknown author or book"})
		return
	}
	b.Authors = slices.DeleteFunc(b.Authors, func(a entity.ID) bool { return a == authorID })
	if !slices.Contains(target.Authors, in.NewAuthorID) {
		target.Authors = append(target.Authors, in.NewAuthorID)
	}
	writeJSON(w, http.StatusOK, entity.AuthorBook{AuthorID: in.NewAuthorID, BookID: in.NewBookID})
}

func (f *FakeAPI) deleteLink(w http.ResponseWriter, r *http.Request) {
	authorID, ok1 := pathID(w, r, "autor")
	if !ok1 {
		return
	}
	bookID, ok2 := pathID(w, r, "libro")
	if !ok2 {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.books[bookID]
	if !ok || !slices.Contains(b.Authors, authorID) {
		notFound(w)
		return
	}
	b.Authors = slices.DeleteFunc(b.Authors, func(a entity.ID) bool { return a == authorID })
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeAPI) listUsers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, f.Users())
}

func (f *FakeAPI) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, exists := f.users[id]
	if !exists {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, u.User)
}

func (f *FakeAPI) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	var in entity.UserInput
	if !ok || !decode(w, r, &in) || !required(w, in.Username) {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, exists := f.users[id]
	if !exists {
		notFound(w)
		return
	}
	u.Username = in.Username
	u.IsAdmin = entity.Flag(in.IsAdmin)
	if in.Password != "" {
		u.password = in.Password
	}
	writeJSON(w, http.StatusOK, u.User)
}

func (f *FakeAPI) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[id]; !exists {
		notFound(w)
		return
	}
	delete(f.users, id)
	w.WriteHeader(http.StatusNoContent)
}

// Views over the maps. Callers hold f.mu.

func (f *FakeAPI) renderBook(b *fakeBook) entity.Book {
	out := entity.Book{ID: b.ID, Title: b.Title, PublishedOn: b.PublishedOn, PublisherID: b.PublisherID, Authors: []entity.Author{}}
	for _, id := range b.Authors {
		a, ok := f.authors[id]
		if !ok {
			a = entity.Author{ID: id}
		}
		out.Authors = append(out.Authors, a)
	}
	return out
}

func (f *FakeAPI) bookList(keep func(*fakeBook) bool) []entity.Book {
	out := []entity.Book{}
	for _, b := range f.books {
		if keep(b) {
			out = append(out, f.renderBook(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *FakeAPI) saleFrom(id entity.ID, in entity.SaleInput) entity.Sale {
	s := entity.Sale{ID: id, BookID: in.BookID, Bookstore: in.Bookstore, Quantity: in.Quantity, Price: in.Price, SoldOn: apiDate(in.SoldOn)}
	if b, ok := f.books[in.BookID]; ok {
		s.BookTitle = b.Title
	}
	return s
}

func (f *FakeAPI) saleList() []entity.Sale {
	out := sortedValues(f.sales, func(s entity.Sale) entity.ID { return s.ID })
	for i := range out {
		if b, ok := f.books[out[i].BookID]; ok {
			out[i].BookTitle = b.Title
		}
	}
	return out
}

func (f *FakeAPI) linkList() []entity.AuthorBook {
	out := []entity.AuthorBook{}
	for _, b := range f.bookList(func(*fakeBook) bool { return true }) {
		for _, a := range b.Authors {
			out = append(out, entity.AuthorBook{AuthorID: a.ID, BookID: b.ID})
		}
	}
	return out
}

func (f *FakeAPI) userList() []entity.User {
	out := []entity.User{}
	for _, u := range f.users {
		out = append(out, u.User)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedValues[T any](m map[entity.ID]T, key func(T) entity.ID) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return key(out[i]) < key(out[j]) })
	return out
}

// apiDate mimics a SQL backend that hands dates back as midnight UTC
// timestamps.
func apiDate(s string) string {
	if s == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (entity.ID, bool) {
	id, err := entity.ParseID(r.PathValue(name))
	if err != nil || id == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid id"})
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid json"})
		return false
	}
	return true
}

func required(w http.ResponseWriter, s string) bool {
	if s == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "missing required field"})
		return false
	}
	return true
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
