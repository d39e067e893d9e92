package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type failingStore struct {
	MemoryStore
	err error
}

func (f *failingStore) Set(string) error { return f.err }
func (f *failingStore) Clear() error     { return f.err }

func TestReplicated_WritesBothCopies(t *testing.T) {
	durable, cookie := &MemoryStore{}, &MemoryStore{}
	store := Replicated(durable, cookie)

	require.NoError(t, store.Set("tok123"))
	got, ok := durable.Get()
	require.True(t, ok)
	require.Equal(t, "tok123", got)
	got, ok = cookie.Get()
	require.True(t, ok)
	require.Equal(t, "tok123", got)

	require.NoError(t, store.Clear())
	_, ok = durable.Get()
	require.False(t, ok)
	_, ok = cookie.Get()
	require.False(t, ok)
}

func TestReplicated_PresentInEither(t *testing.T) {
	durable, cookie := &MemoryStore{}, &MemoryStore{}
	store := Replicated(durable, cookie)

	_, ok := store.Get()
	require.False(t, ok)

	_ = cookie.Set("from-cookie")
	got, ok := store.Get()
	require.True(t, ok)
	require.Equal(t, "from-cookie", got)

	_ = durable.Set("from-durable")
	got, _ = store.Get()
	require.Equal(t, "from-durable", got)
}

func TestReplicated_ClearStillClearsCookieWhenDurableFails(t *testing.T) {
	boom := errors.New("disk full")
	durable := &failingStore{err: boom}
	cookie := &MemoryStore{token: "tok"}

	err := Replicated(durable, cookie).Clear()
	require.ErrorIs(t, err, boom)
	_, ok := cookie.Get()
	require.False(t, ok)
}

func TestCookieStore_SetAndClear(t *testing.T) {
	opts := CookieOptions{Name: "token", MaxAge: time.Hour}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	cs := NewCookieStore(rec, req, opts)

	_, ok := cs.Get()
	require.False(t, ok)

	require.NoError(t, cs.Set("tok123"))
	got, ok := cs.Get()
	require.True(t, ok)
	require.Equal(t, "tok123", got)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	require.Equal(t, "token", c.Name)
	require.Equal(t, "tok123", c.Value)
	require.Equal(t, "/", c.Path)
	require.Equal(t, 3600, c.MaxAge)
	require.True(t, c.HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, c.SameSite)

	// Clear on a request that still carries the old cookie.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "tok123"})
	cs = NewCookieStore(rec, req, opts)

	got, ok = cs.Get()
	require.True(t, ok)
	require.Equal(t, "tok123", got)

	require.NoError(t, cs.Clear())
	_, ok = cs.Get()
	require.False(t, ok)

	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "", cookies[0].Value)
	require.Less(t, cookies[0].MaxAge, 0)
}

func TestDeviceStore(t *testing.T) {
	repo := NewInMemoryRepo()
	a := NewDeviceStore(repo, "device-a")
	b := NewDeviceStore(repo, "device-b")

	require.NoError(t, a.Set("tok-a"))
	got, ok := a.Get()
	require.True(t, ok)
	require.Equal(t, "tok-a", got)

	_, ok = b.Get()
	require.False(t, ok)

	require.NoError(t, a.Clear())
	_, ok = a.Get()
	require.False(t, ok)
}
