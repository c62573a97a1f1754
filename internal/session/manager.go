// Package session holds the signed-in user's token between requests and
// derives what the UI may show from it.
//
// Manager is built once at startup and shared by the middleware, the guards
// and the auth views. Login and Logout are the only places a token is
// written or cleared.
package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bookadmin/internal/entity"
	"bookadmin/internal/platform/crypto"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	TokenCookie   = "token"
	SessionCookie = "session_id"
)

// State is the per-request view of the session.
type State struct {
	token   string
	isAdmin bool
	userID  entity.ID
}

// NewState derives a State from a raw token. Only the payload's id and
// isAdmin are read. A token that does not decode still counts as
// authenticated, but never as admin.
func NewState(token string) State {
	st := State{token: token}
	if token == "" {
		return st
	}
	if p, err := crypto.ParseUnverified(token); err == nil {
		st.isAdmin = p.IsAdmin
		st.userID = p.ID
	}
	return st
}

func (s State) Token() string         { return s.token }
func (s State) IsAuthenticated() bool { return s.token != "" }
func (s State) IsAdmin() bool         { return s.token != "" && s.isAdmin }
func (s State) UserID() entity.ID     { return s.userID }

type contextKey struct{}

func WithState(ctx context.Context, st State) context.Context {
	return context.WithValue(ctx, contextKey{}, st)
}

// FromContext returns the State stored by Middleware, or an anonymous one.
func FromContext(ctx context.Context) State {
	if st, ok := ctx.Value(contextKey{}).(State); ok {
		return st
	}
	return State{}
}

type Options struct {
	// Store keeps tokens server-side. Nil keeps the token in the cookie.
	Store  Store
	TTL    time.Duration
	Secure bool
	Logger *zap.Logger
}

type Manager struct {
	store  Store
	ttl    time.Duration
	secure bool
	log    *zap.Logger
}

func NewManager(opts Options) *Manager {
	if opts.TTL <= 0 {
		opts.TTL = 720 * time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Manager{store: opts.Store, ttl: opts.TTL, secure: opts.Secure, log: opts.Logger}
}

// ServerSide reports whether tokens live in a Store rather than the cookie.
func (m *Manager) ServerSide() bool { return m.store != nil }

// Resolve reads the session for r. Store failures are logged and yield an
// anonymous State.
func (m *Manager) Resolve(r *http.Request) State {
	if m.store == nil {
		c, err := r.Cookie(TokenCookie)
		if err != nil {
			return State{}
		}
		return NewState(c.Value)
	}

	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return State{}
	}
	token, err := m.store.Load(r.Context(), c.Value)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			m.log.Warn("session store load failed", zap.Error(err))
		}
		return State{}
	}
	return NewState(token)
}

// Middleware resolves the session once per request and stores it in the
// request context.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st := m.Resolve(r)
		next.ServeHTTP(w, r.WithContext(WithState(r.Context(), st)))
	})
}

// Login persists token for the client and returns the State it implies.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, token string) (State, error) {
	if token == "" {
		return State{}, errors.New("empty token")
	}
	if m.store == nil {
		http.SetCookie(w, m.cookie(TokenCookie, token))
		return NewState(token), nil
	}

	if old, err := r.Cookie(SessionCookie); err == nil && old.Value != "" {
		if err := m.store.Delete(r.Context(), old.Value); err != nil {
			m.log.Warn("session store delete failed", zap.Error(err))
		}
	}
	id := uuid.NewString()
	if err := m.store.Save(r.Context(), id, token, m.ttl); err != nil {
		return State{}, err
	}
	http.SetCookie(w, m.cookie(SessionCookie, id))
	return NewState(token), nil
}

// Logout clears the session from any state. It never fails from the
// client's point of view.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) {
	if m.store != nil {
		if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
			if err := m.store.Delete(r.Context(), c.Value); err != nil {
				m.log.Warn("session store delete failed", zap.Error(err))
			}
		}
		http.SetCookie(w, m.expired(SessionCookie))
		return
	}
	http.SetCookie(w, m.expired(TokenCookie))
}

func (m *Manager) Ping(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	return m.store.Ping(ctx)
}

func (m *Manager) cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (m *Manager) expired(name string) *http.Cookie {
	c := m.cookie(name, "")
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	return c
}
