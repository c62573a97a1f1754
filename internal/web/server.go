// Package web renders the admin panel: the entity list views, the auth
// views and user administration, all backed by the bookstore API.
package web

import (
	"errors"
	"net/http"

	"bookadmin/internal/guard"
	"bookadmin/internal/httpx"
	"bookadmin/internal/metrics"
	"bookadmin/internal/platform/bookstore"
	"bookadmin/internal/session"

	"go.uber.org/zap"
)

const maxFormBytes = 1 << 20

type Options struct {
	API      *bookstore.Client
	Sessions *session.Manager
	Logger   *zap.Logger

	// Optional.
	Metrics      *metrics.Collector
	LoginLimiter *httpx.RateLimitMiddleware
	HSTS         bool
}

type Server struct {
	api      *bookstore.Client
	sessions *session.Manager
	metrics  *metrics.Collector
	limiter  *httpx.RateLimitMiddleware
	log      *zap.Logger
	views    *renderer
	guard    *guard.Guard
	handler  http.Handler
}

func New(opts Options) (*Server, error) {
	if opts.API == nil || opts.Sessions == nil {
		return nil, errors.New("web: API and Sessions are required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	views, err := newRenderer(log)
	if err != nil {
		return nil, err
	}

	s := &Server{
		api:      opts.API,
		sessions: opts.Sessions,
		metrics:  opts.Metrics,
		limiter:  opts.LoginLimiter,
		log:      log,
		views:    views,
	}
	s.guard = guard.New(http.HandlerFunc(s.denied))

	mws := []func(http.Handler) http.Handler{httpx.RequestIDMiddleware}
	if s.metrics != nil {
		mws = append(mws, httpx.MetricsMiddleware(s.metrics))
	}
	mws = append(mws,
		httpx.AccessLogMiddleware(log),
		httpx.RecoveryMiddleware(log),
		httpx.SecurityHeadersMiddleware(opts.HSTS),
		httpx.RequestSizeLimitMiddleware(maxFormBytes),
		s.sessions.Middleware,
		tagUser,
	)
	s.handler = httpx.Chain(s.routes(), mws...)
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) handle(mux *http.ServeMux, pattern string, h http.Handler) {
	mux.Handle(pattern, httpx.RouteTag(pattern, h))
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	protected := func(h http.HandlerFunc) http.Handler { return s.guard.Protected(h) }
	admin := func(h http.HandlerFunc) http.Handler { return s.guard.AdminOnly(h) }
	throttle := func(h http.HandlerFunc) http.Handler {
		if s.limiter == nil {
			return h
		}
		return s.limiter.Middleware(h)
	}

	s.handle(mux, "GET /{$}", http.HandlerFunc(s.root))
	s.handle(mux, "/", http.HandlerFunc(s.notFound))
	s.handle(mux, "GET /static/", staticHandler())
	s.handle(mux, "GET /healthz", http.HandlerFunc(s.healthz))
	s.handle(mux, "GET /readyz", http.HandlerFunc(s.readyz))
	if s.metrics != nil {
		s.handle(mux, "GET /metrics", s.metrics.Handler())
	}

	s.handle(mux, "GET /login", http.HandlerFunc(s.loginForm))
	s.handle(mux, "POST /login", throttle(s.login))
	s.handle(mux, "GET /register", http.HandlerFunc(s.registerForm))
	s.handle(mux, "POST /register", throttle(s.register))
	s.handle(mux, "POST /logout", http.HandlerFunc(s.logout))

	s.authorsView().mount(s, mux)
	s.booksView().mount(s, mux)
	s.publishersView().mount(s, mux)
	s.salesView().mount(s, mux)
	s.handle(mux, "GET /home/autores/{id}/libros", protected(s.authorBooks))
	s.handle(mux, "GET /editoriales/{id}/libros", protected(s.publisherBooks))

	s.handle(mux, "GET "+joinsPath, protected(s.listJoins))
	s.handle(mux, "POST "+joinsPath, protected(s.saveJoin))
	s.handle(mux, "POST "+joinsPath+"/{autor}/{libro}/delete", protected(s.removeJoin))

	s.handle(mux, "GET /usuarios", admin(s.listUsers))
	s.handle(mux, "GET /usuarios/editar/{id}", admin(s.editUser))
	s.handle(mux, "POST /usuarios/{id}", admin(s.updateUser))
	s.handle(mux, "POST /usuarios/{id}/delete", admin(s.deleteUser))

	return mux
}

// tagUser exposes the signed-in user id to the access log.
func tagUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if st := session.FromContext(r.Context()); st.IsAuthenticated() {
			httpx.SetUserID(r, st.UserID().String())
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) root(w http.ResponseWriter, r *http.Request) {
	target := guard.LoginPath
	if session.FromContext(r.Context()).IsAuthenticated() {
		target = "/home"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.views.render(w, r, http.StatusNotFound, view{Page: "notfound", Title: "Not found"}, nil)
}

func (s *Server) denied(w http.ResponseWriter, r *http.Request) {
	s.views.render(w, r, http.StatusForbidden, view{Page: "denied", Title: "Access denied"}, nil)
}
