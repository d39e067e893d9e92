package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/jrsteele09/go-todo-web/internal/errors"
	"github.com/jrsteele09/go-todo-web/session"
	"github.com/jrsteele09/go-todo-web/todoapi"
	"github.com/jrsteele09/go-todo-web/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type fakeAuthAPI struct {
	token    string
	loginErr error
	meErr    error
	calls    int
	gotToken string
}

func (f *fakeAuthAPI) Register(_ context.Context, p users.Profile) (*users.User, error) {
	f.calls++
	return &users.User{ID: "u1", Email: p.Email}, nil
}

func (f *fakeAuthAPI) Login(context.Context, string, string) (*oauth2.Token, error) {
	f.calls++
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &oauth2.Token{AccessToken: f.token, TokenType: "bearer"}, nil
}

func (f *fakeAuthAPI) Me(_ context.Context, token string) (*users.User, error) {
	f.calls++
	f.gotToken = token
	if f.meErr != nil {
		return nil, f.meErr
	}
	return &users.User{ID: "u1", Email: "a@b.com"}, nil
}

func newStores() (durable, cookie *session.MemoryStore, store session.Store) {
	durable, cookie = &session.MemoryStore{}, &session.MemoryStore{}
	return durable, cookie, session.Replicated(durable, cookie)
}

func TestManager_LoginSetsBothCopies(t *testing.T) {
	api := &fakeAuthAPI{token: "tok123"}
	durable, cookie, store := newStores()
	m := session.NewManager(api, store)

	require.False(t, m.IsAuthenticated())

	tok, err := m.Login(context.Background(), " a@b.com ", "pw")
	require.NoError(t, err)
	require.Equal(t, "tok123", tok.AccessToken)
	require.True(t, m.IsAuthenticated())

	got, _ := durable.Get()
	require.Equal(t, "tok123", got)
	got, _ = cookie.Get()
	require.Equal(t, "tok123", got)

	require.NoError(t, m.Logout())
	require.False(t, m.IsAuthenticated())
	_, ok := durable.Get()
	require.False(t, ok)
	_, ok = cookie.Get()
	require.False(t, ok)
	require.Equal(t, 1, api.calls, "logout must not call the API")
}

func TestManager_FailedLoginLeavesStoreEmpty(t *testing.T) {
	api := &fakeAuthAPI{loginErr: &apperrors.APIError{
		Kind:       apperrors.ErrAuthentication,
		StatusCode: http.StatusUnauthorized,
		Message:    "Incorrect email or password",
	}}
	_, _, store := newStores()
	m := session.NewManager(api, store)

	_, err := m.Login(context.Background(), "a@b.com", "bad")
	require.ErrorIs(t, err, apperrors.ErrAuthentication)
	require.Equal(t, "Incorrect email or password", apperrors.Message(err))
	require.False(t, m.IsAuthenticated())
}

func TestManager_LoginRejectsBlankCredentialsWithoutCall(t *testing.T) {
	api := &fakeAuthAPI{token: "tok"}
	_, _, store := newStores()
	m := session.NewManager(api, store)

	_, err := m.Login(context.Background(), "  ", "")
	require.ErrorIs(t, err, apperrors.ErrValidation)
	require.Zero(t, api.calls)
}

func TestManager_RegisterValidatesFirst(t *testing.T) {
	api := &fakeAuthAPI{}
	_, _, store := newStores()
	m := session.NewManager(api, store)

	_, err := m.Register(context.Background(), users.Profile{Email: "not-an-email", Password: "pw"})
	require.ErrorIs(t, err, apperrors.ErrValidation)
	require.Zero(t, api.calls)

	u, err := m.Register(context.Background(), users.Profile{Email: " new@b.com ", Password: "pw"})
	require.NoError(t, err)
	require.Equal(t, "new@b.com", u.Email)
	require.False(t, m.IsAuthenticated())
}

func TestManager_CurrentUser(t *testing.T) {
	api := &fakeAuthAPI{token: "tok"}
	_, _, store := newStores()
	m := session.NewManager(api, store)

	_, err := m.CurrentUser(context.Background())
	require.ErrorIs(t, err, apperrors.ErrNoToken)
	require.Zero(t, api.calls)

	require.NoError(t, store.Set("tok"))
	api.meErr = &apperrors.APIError{Kind: apperrors.ErrAuthentication, StatusCode: http.StatusUnauthorized}
	_, err = m.CurrentUser(context.Background())
	require.True(t, apperrors.IsSessionInvalid(err))
	require.True(t, m.IsAuthenticated(), "CurrentUser leaves the token for the caller to clear")
}

func TestManager_MeSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"3fa85f64-5717-4562-b3fc-2c963f66afa6","email":"a@b.com","first_name":null,"last_name":null,"created_at":"2025-01-01T00:00:00.000123"}`))
	}))
	defer srv.Close()

	_, _, store := newStores()
	require.NoError(t, store.Set("tok123"))
	m := session.NewManager(todoapi.New(srv.URL), store)

	u, err := m.CurrentUser(context.Background())
	require.NoError(t, err)
	require.Equal(t, "3fa85f64-5717-4562-b3fc-2c963f66afa6", u.ID)
	require.Equal(t, "Bearer tok123", gotAuth)
}
