package guard

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bookadmin/internal/session"
	"bookadmin/internal/testutil"

	"github.com/stretchr/testify/assert"
)

func serve(h http.Handler, token string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	r = r.WithContext(session.WithState(r.Context(), session.NewState(token)))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestGuards(t *testing.T) {
	view := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("view"))
	})
	denied := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("denied"))
	})
	g := New(denied)

	admin := testutil.GenerateTestToken(1, true)
	regular := testutil.GenerateTestToken(2, false)
	malformed := "garbage"

	tests := []struct {
		name       string
		guard      func(http.Handler) http.Handler
		token      string
		wantStatus int
		wantBody   string
		wantLoc    string
	}{
		{"protected anonymous", g.Protected, "", http.StatusSeeOther, "", "/login"},
		{"protected regular", g.Protected, regular, http.StatusOK, "view", ""},
		{"protected admin", g.Protected, admin, http.StatusOK, "view", ""},
		{"protected malformed token", g.Protected, malformed, http.StatusOK, "view", ""},
		{"admin anonymous", g.AdminOnly, "", http.StatusSeeOther, "", "/login"},
		{"admin regular", g.AdminOnly, regular, http.StatusForbidden, "denied", ""},
		{"admin malformed token", g.AdminOnly, malformed, http.StatusForbidden, "denied", ""},
		{"admin admin", g.AdminOnly, admin, http.StatusOK, "view", ""},
		{"admin numeric flag", g.AdminOnly, testutil.RawToken(`{"id":9,"isAdmin":1}`), http.StatusOK, "view", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(tt.guard(view), tt.token)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantLoc, w.Header().Get("Location"))
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestNew_DefaultDenied(t *testing.T) {
	g := New(nil)
	w := serve(g.AdminOnly(http.NotFoundHandler()), testutil.GenerateTestToken(2, false))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "permission")
}
