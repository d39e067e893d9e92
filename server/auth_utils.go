package server

import (
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-todo-web/session"
	"github.com/rs/zerolog/log"
)

const sessionExpiredMsg = "Session expired"

// sessionFor builds the Session Manager for one request: the durable slot of
// the request's device joined with the token cookie.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) *session.Manager {
	cookie := session.NewCookieStore(w, r, session.CookieOptions{
		Name:   s.config.GetTokenCookieName(),
		MaxAge: s.config.GetTokenCookieMaxAge(),
		Secure: getScheme(r) == "https",
	})
	durable := session.NewDeviceStore(s.tokens, deviceID(r.Context()))
	return session.NewManager(s.api, session.Replicated(durable, cookie))
}

// endSession is the forced logout after the API rejected the token: both
// copies are cleared, the cached view is dropped and the user is sent to login.
func (s *Server) endSession(w http.ResponseWriter, r *http.Request, mgr *session.Manager) {
	if err := mgr.Logout(); err != nil {
		log.Err(err).Str("request_id", requestID(r.Context())).Msg("Failed to clear token")
	}
	s.views.Drop(deviceID(r.Context()))
	redirectWithError(w, r, RouteLogin, sessionExpiredMsg)
}

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent) // 204 - no content, just redirect instruction
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// redirectWithError helper for htmx-aware error redirects
func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorMsg string) {
	redirectSuccess(w, r, path+"?error="+url.QueryEscape(errorMsg))
}

func redirectWithNotice(w http.ResponseWriter, r *http.Request, path, notice string) {
	redirectSuccess(w, r, path+"?notice="+url.QueryEscape(notice))
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
