package session

import (
	"net/http"
	"time"
)

// CookieOptions configures the token cookie.
type CookieOptions struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

// CookieStore is the cookie copy of the token for a single request. Reads
// after a Set or Clear in the same request see the written value rather than
// the incoming cookie.
type CookieStore struct {
	w    http.ResponseWriter
	r    *http.Request
	opts CookieOptions

	written bool
	value   string
}

var _ Store = (*CookieStore)(nil)

func NewCookieStore(w http.ResponseWriter, r *http.Request, opts CookieOptions) *CookieStore {
	return &CookieStore{w: w, r: r, opts: opts}
}

func (c *CookieStore) Get() (string, bool) {
	if c.written {
		return c.value, c.value != ""
	}
	return TokenFromRequest(c.r, c.opts.Name)
}

func (c *CookieStore) Set(token string) error {
	http.SetCookie(c.w, &http.Cookie{
		Name:     c.opts.Name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.opts.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(c.opts.MaxAge.Seconds()),
	})
	c.written, c.value = true, token
	return nil
}

// Clear overwrites the cookie with an expired one.
func (c *CookieStore) Clear() error {
	http.SetCookie(c.w, &http.Cookie{
		Name:     c.opts.Name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.opts.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
	c.written, c.value = true, ""
	return nil
}

// TokenFromRequest returns the token cookie carried by r.
func TokenFromRequest(r *http.Request, name string) (string, bool) {
	cookie, err := r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
