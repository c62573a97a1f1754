package testutil

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"bookadmin/internal/entity"
	"bookadmin/internal/platform/crypto"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

// TestAuthor is a sample author for seeding.
var TestAuthor = entity.Author{
	Name:        "Gabriel García Márquez",
	Nationality: "Colombiana",
	BornOn:      "1927-03-06",
}

var TestPublisher = entity.Publisher{
	Name:    "Editorial Sudamericana",
	Country: "Argentina",
}

// GenerateTestToken signs a token with TestSecret.
func GenerateTestToken(userID entity.ID, isAdmin bool) string {
	token, _ := crypto.GenerateToken(TestSecret, userID, isAdmin, time.Hour)
	return token
}

// RawToken builds an unsigned three-part token around an arbitrary payload,
// for exercising loose claim encodings.
func RawToken(payload string) string {
	return RawTokenWithHeader(`{"alg":"HS256","typ":"JWT"}`, payload)
}

// RawTokenWithHeader is RawToken with a caller-chosen header segment.
func RawTokenWithHeader(header, payload string) string {
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(header)) + "." +
		enc.EncodeToString([]byte(payload)) + "." +
		enc.EncodeToString([]byte("sig"))
}

// NewRequest creates a new HTTP request with a JSON body for testing.
func NewRequest(method, path string, body any) *http.Request {
	if body == nil {
		return httptest.NewRequest(method, path, nil)
	}
	b, _ := json.Marshal(body)
	r := httptest.NewRequest(method, path, bytes.NewReader(b))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// NewFormRequest creates a POST with an urlencoded form body.
func NewFormRequest(path string, form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

// WithCookies copies the cookies set on a previous response onto r.
func WithCookies(r *http.Request, w *httptest.ResponseRecorder) *http.Request {
	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 {
			continue
		}
		r.AddCookie(c)
	}
	return r
}

// Document parses the recorded HTML body.
func Document(t testing.TB, w *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	return doc
}

// Cookie returns the named cookie set on the response, or nil.
func Cookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
