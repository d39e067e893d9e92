// Package todoapi is the HTTP client for the remote task API.
package todoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	apperrors "github.com/jrsteele09/go-todo-web/internal/errors"
	"github.com/jrsteele09/go-todo-web/tasks"
	"github.com/jrsteele09/go-todo-web/users"
	"golang.org/x/oauth2"
)

// maxBodySize caps how much of a response is read.
const maxBodySize = 1 << 20

// Client talks to the API without credentials. Use Authorized for calls that
// need the bearer token.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient sets the base HTTP client. Authorized clients wrap its
// transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Register creates an account. Any non-2xx response is an ErrRegistration
// carrying the server's message.
func (c *Client) Register(ctx context.Context, profile users.Profile) (*users.User, error) {
	var u users.User
	if err := c.do(ctx, c.httpClient, http.MethodPost, PathRegister, nil, profile, &u, apperrors.ErrRegistration); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login exchanges credentials for a bearer token. Any non-2xx response is an
// ErrAuthentication carrying the server's message, or the raw body when the
// message cannot be parsed.
func (c *Client) Login(ctx context.Context, email, password string) (*oauth2.Token, error) {
	var tr TokenResponse
	creds := users.Credentials{Email: email, Password: password}
	if err := c.do(ctx, c.httpClient, http.MethodPost, PathLogin, nil, creds, &tr, apperrors.ErrAuthentication); err != nil {
		return nil, err
	}
	if tr.AccessToken == "" {
		return nil, &apperrors.APIError{Kind: apperrors.ErrAuthentication, StatusCode: http.StatusOK, Message: "login response did not include an access token"}
	}
	return &oauth2.Token{AccessToken: tr.AccessToken, TokenType: tr.TokenType}, nil
}

// Me fetches the user the token belongs to.
func (c *Client) Me(ctx context.Context, token string) (*users.User, error) {
	return c.Authorized(token).Me(ctx)
}

// Authorized returns a client whose requests carry "Authorization: Bearer
// <token>". The token is used as-is: no refresh, no expiry check.
func (c *Client) Authorized(token string) *AuthorizedClient {
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, c.httpClient)
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return &AuthorizedClient{
		client:     c,
		httpClient: oauth2.NewClient(ctx, src),
	}
}

// AuthorizedClient makes calls on behalf of one token. A 401 or 403 from any
// of its calls is an ErrAuthentication.
type AuthorizedClient struct {
	client     *Client
	httpClient *http.Client
}

var _ tasks.API = (*AuthorizedClient)(nil)

func (a *AuthorizedClient) Me(ctx context.Context) (*users.User, error) {
	var u users.User
	if err := a.do(ctx, http.MethodGet, PathMe, nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListTasks lists a user's tasks; completed, when set, filters server-side.
func (a *AuthorizedClient) ListTasks(ctx context.Context, userID string, completed *bool) ([]tasks.Task, error) {
	var query url.Values
	if completed != nil {
		query = url.Values{"completed": {strconv.FormatBool(*completed)}}
	}
	list := []tasks.Task{}
	if err := a.do(ctx, http.MethodGet, fmt.Sprintf(PathTasks, userID), query, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (a *AuthorizedClient) CreateTask(ctx context.Context, userID string, in tasks.Input) (*tasks.Task, error) {
	var t tasks.Task
	if err := a.do(ctx, http.MethodPost, fmt.Sprintf(PathTasks, userID), nil, in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (a *AuthorizedClient) GetTask(ctx context.Context, userID, taskID string) (*tasks.Task, error) {
	var t tasks.Task
	if err := a.do(ctx, http.MethodGet, fmt.Sprintf(PathTask, userID, taskID), nil, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (a *AuthorizedClient) UpdateTask(ctx context.Context, userID, taskID string, in tasks.Input) (*tasks.Task, error) {
	var t tasks.Task
	if err := a.do(ctx, http.MethodPut, fmt.Sprintf(PathTask, userID, taskID), nil, in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (a *AuthorizedClient) DeleteTask(ctx context.Context, userID, taskID string) error {
	return a.do(ctx, http.MethodDelete, fmt.Sprintf(PathTask, userID, taskID), nil, nil, nil)
}

func (a *AuthorizedClient) ToggleTask(ctx context.Context, userID, taskID string) (*tasks.Task, error) {
	var t tasks.Task
	if err := a.do(ctx, http.MethodPatch, fmt.Sprintf(PathTaskToggle, userID, taskID), nil, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (a *AuthorizedClient) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	return a.client.do(ctx, a.httpClient, method, path, query, in, out, nil)
}

// do sends one JSON request. failKind, when set, is the error kind for every
// non-2xx response; otherwise 401/403 map to ErrAuthentication and anything
// else to ErrServer.
func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, query url.Values, in, out any, failKind error) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding %s %s request: %w", method, path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("building %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return &apperrors.APIError{Kind: apperrors.ErrNetwork, Message: fmt.Sprintf("%s %s: %v", method, path, err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &apperrors.APIError{Kind: apperrors.ErrNetwork, StatusCode: resp.StatusCode, Message: fmt.Sprintf("reading %s %s response: %v", method, path, err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp.StatusCode, respBody, failKind)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &apperrors.APIError{Kind: apperrors.ErrServer, StatusCode: resp.StatusCode, Message: fmt.Sprintf("decoding %s %s response: %v", method, path, err)}
	}
	return nil
}

func responseError(status int, body []byte, failKind error) error {
	kind := failKind
	if kind == nil {
		switch status {
		case http.StatusUnauthorized, http.StatusForbidden:
			kind = apperrors.ErrAuthentication
		default:
			kind = apperrors.ErrServer
		}
	}

	msg := parseErrorMessage(body)
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &apperrors.APIError{Kind: kind, StatusCode: status, Message: msg}
}
