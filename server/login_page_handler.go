package server

import (
	"net/http"
	"net/url"

	apperrors "github.com/jrsteele09/go-todo-web/internal/errors"
	"github.com/rs/zerolog/log"
)

const contentTypeHTML = "text/html; charset=utf-8"

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	AppName string
	Error   string
	Notice  string
	Email   string // Preserve email on error
}

// LoginPageHandler displays the login page (GET /login)
func (s *Server) LoginPageHandler() http.HandlerFunc {
	loginTmpl := mustParseTemplate("login.html", "layout.html")

	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		data := LoginPageData{
			AppName: s.config.GetAppName(),
			Error:   q.Get("error"),
			Notice:  q.Get("notice"),
			Email:   q.Get("email"),
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := loginTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render login template")
			http.Error(w, "Failed to render login page", http.StatusInternalServerError)
		}
	}
}

// LoginSubmissionHandler processes the login form submission
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		email := r.FormValue("email")
		password := r.FormValue("password")

		mgr := s.sessionFor(w, r)
		if _, err := mgr.Login(r.Context(), email, password); err != nil {
			log.Err(err).Str("request_id", requestID(r.Context())).Msg("Login failed")
			s.renderLoginError(w, r, apperrors.Message(err), email)
			return
		}

		// A new login always mounts a fresh view.
		s.views.Drop(deviceID(r.Context()))
		redirectSuccess(w, r, RouteDashboard)
	}
}

// LogoutHandler clears both token copies. The API is not called.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.sessionFor(w, r).Logout(); err != nil {
			log.Err(err).Str("request_id", requestID(r.Context())).Msg("Failed to clear token")
		}
		s.views.Drop(deviceID(r.Context()))
		redirectSuccess(w, r, RouteLogin)
	}
}

// renderLoginError redirects to login page with an error message
func (s *Server) renderLoginError(w http.ResponseWriter, r *http.Request, errorMsg, email string) {
	redirectURL := RouteLogin + "?error=" + url.QueryEscape(errorMsg)
	if email != "" {
		redirectURL += "&email=" + url.QueryEscape(email)
	}

	redirectSuccess(w, r, redirectURL)
}
