package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookadmin/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessionRedis(t *testing.T) (*SessionRedis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSessionRedis(client), mr
}

func TestSessionRedis_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestSessionRedis(t)

	require.NoError(t, s.Save(ctx, "abc", "tok", time.Hour))
	assert.True(t, mr.Exists("bookadmin:session:abc"))

	got, err := s.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "tok", got)

	require.NoError(t, s.Delete(ctx, "abc"))
	_, err = s.Load(ctx, "abc")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSessionRedis_Expiry(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestSessionRedis(t)

	require.NoError(t, s.Save(ctx, "abc", "tok", time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("bookadmin:session:abc"))

	mr.FastForward(2 * time.Minute)
	_, err := s.Load(ctx, "abc")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSessionRedis_DeleteMissingIsNoop(t *testing.T) {
	s, _ := newTestSessionRedis(t)
	assert.NoError(t, s.Delete(context.Background(), "nope"))
}

func TestSessionRedis_Ping(t *testing.T) {
	s, mr := newTestSessionRedis(t)
	require.NoError(t, s.Ping(context.Background()))

	mr.SetError("LOADING")
	assert.Error(t, s.Ping(context.Background()))
}

func TestSessionRedis_WithManager(t *testing.T) {
	s, mr := newTestSessionRedis(t)
	m := session.NewManager(session.Options{Store: s, TTL: time.Hour})

	w := httptest.NewRecorder()
	_, err := m.Login(w, httptest.NewRequest(http.MethodPost, "/login", nil), "tok")
	require.NoError(t, err)
	require.Len(t, mr.Keys(), 1)

	r := httptest.NewRequest(http.MethodGet, "/home", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	st := m.Resolve(r)
	assert.True(t, st.IsAuthenticated())
	assert.Equal(t, "tok", st.Token())

	m.Logout(httptest.NewRecorder(), r)
	assert.Empty(t, mr.Keys())
}

var (
	_ session.Store = (*SessionRedis)(nil)
	_ session.Store = (*SessionPG)(nil)
)
