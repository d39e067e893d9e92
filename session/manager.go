package session

import (
	"context"
	"strings"

	apperrors "github.com/jrsteele09/go-todo-web/internal/errors"
	"github.com/jrsteele09/go-todo-web/users"
	"golang.org/x/oauth2"
)

// AuthAPI is the part of the remote API the session lifecycle needs.
type AuthAPI interface {
	Register(ctx context.Context, profile users.Profile) (*users.User, error)
	Login(ctx context.Context, email, password string) (*oauth2.Token, error)
	Me(ctx context.Context, token string) (*users.User, error)
}

// Manager drives login, registration and logout against one token Store.
type Manager struct {
	api   AuthAPI
	store Store
}

func NewManager(api AuthAPI, store Store) *Manager {
	return &Manager{api: api, store: store}
}

// Login exchanges credentials for a token and writes it to the store.
// On failure the store is left as it was.
func (m *Manager) Login(ctx context.Context, email, password string) (*oauth2.Token, error) {
	creds := users.Credentials{Email: strings.TrimSpace(email), Password: password}
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	token, err := m.api.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		return nil, err
	}
	if err := m.store.Set(token.AccessToken); err != nil {
		return nil, apperrors.Wrapf(err, "storing token")
	}
	return token, nil
}

// Register creates an account. It does not log the user in.
func (m *Manager) Register(ctx context.Context, profile users.Profile) (*users.User, error) {
	profile = profile.Normalize()
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return m.api.Register(ctx, profile)
}

// CurrentUser fetches the account behind the stored token. An authentication
// failure is returned as is; clearing the token is the caller's decision.
func (m *Manager) CurrentUser(ctx context.Context) (*users.User, error) {
	token, ok := m.store.Get()
	if !ok {
		return nil, apperrors.ErrNoToken
	}
	return m.api.Me(ctx, token)
}

// Logout clears both token copies. The API is not told.
func (m *Manager) Logout() error {
	return m.store.Clear()
}

func (m *Manager) IsAuthenticated() bool {
	_, ok := m.store.Get()
	return ok
}

func (m *Manager) Token() (string, bool) {
	return m.store.Get()
}
