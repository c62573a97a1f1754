// Package guard gates views on the session state resolved by
// session.Middleware.
package guard

import (
	"net/http"

	"bookadmin/internal/session"
)

const LoginPath = "/login"

type Guard struct {
	denied http.Handler
}

// New returns a Guard that serves denied to signed-in users lacking admin
// rights. The handler is expected to write a 403.
func New(denied http.Handler) *Guard {
	if denied == nil {
		denied = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "You do not have permission to view this page", http.StatusForbidden)
		})
	}
	return &Guard{denied: denied}
}

// Protected serves next to any signed-in user and sends everyone else to the
// login page.
func (g *Guard) Protected(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !session.FromContext(r.Context()).IsAuthenticated() {
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AdminOnly serves next to admins. Signed-in non-admins get the denial page
// in place, without a redirect.
func (g *Guard) AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st := session.FromContext(r.Context())
		switch {
		case st.IsAdmin():
			next.ServeHTTP(w, r)
		case st.IsAuthenticated():
			g.denied.ServeHTTP(w, r)
		default:
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
		}
	})
}
