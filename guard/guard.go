// Package guard decides, per navigation, whether a path may be shown given
// only whether a token cookie is present.
package guard

import (
	"net/http"
	"strings"
)

type Action int

const (
	Allow Action = iota
	RedirectLogin
	RedirectDashboard
)

func (a Action) String() string {
	switch a {
	case RedirectLogin:
		return "redirect-login"
	case RedirectDashboard:
		return "redirect-dashboard"
	default:
		return "allow"
	}
}

// Rules classifies paths. Protected paths need a token; auth entry paths
// (login, register) are pointless with one.
type Rules struct {
	Protected []string
	AuthEntry []string
	Login     string
	Dashboard string
}

var DefaultRules = Rules{
	Protected: []string{"/dashboard"},
	AuthEntry: []string{"/login", "/register"},
	Login:     "/login",
	Dashboard: "/dashboard",
}

type Decision struct {
	Action   Action
	Location string
}

// Decide is evaluated on every navigation. It never calls the API, so a
// present but expired token is allowed through to the protected view.
func Decide(rules Rules, path string, hasToken bool) Decision {
	switch {
	case !hasToken && matchAny(rules.Protected, path):
		return Decision{Action: RedirectLogin, Location: rules.Login}
	case hasToken && matchAny(rules.AuthEntry, path):
		return Decision{Action: RedirectDashboard, Location: rules.Dashboard}
	default:
		return Decision{Action: Allow}
	}
}

// matchAny reports whether path equals a prefix or sits beneath it.
func matchAny(prefixes []string, path string) bool {
	for _, p := range prefixes {
		p = strings.TrimSuffix(p, "/")
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// Middleware applies Decide using the named token cookie.
func Middleware(rules Rules, cookieName string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			hasToken := false
			if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
				hasToken = true
			}

			d := Decide(rules, r.URL.Path, hasToken)
			if d.Action == Allow {
				next(w, r)
				return
			}

			if r.Header.Get("HX-Request") == "true" {
				w.Header().Set("HX-Redirect", d.Location)
				w.WriteHeader(http.StatusNoContent)
				return
			}
			http.Redirect(w, r, d.Location, http.StatusSeeOther)
		}
	}
}
