package server

import (
	"net/http"
	"net/url"

	apperrors "github.com/jrsteele09/go-todo-web/internal/errors"
	"github.com/jrsteele09/go-todo-web/users"
	"github.com/rs/zerolog/log"
)

// RegisterPageData keeps the entered profile (minus the password) on error.
type RegisterPageData struct {
	AppName   string
	Error     string
	Email     string
	FirstName string
	LastName  string
}

// RegisterPageHandler renders the registration page
func (s *Server) RegisterPageHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("register.html", "layout.html")

	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		data := RegisterPageData{
			AppName:   s.config.GetAppName(),
			Error:     q.Get("error"),
			Email:     q.Get("email"),
			FirstName: q.Get("first_name"),
			LastName:  q.Get("last_name"),
		}
		w.Header().Set("Content-Type", contentTypeHTML)
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render register template")
			http.Error(w, "Failed to render register page", http.StatusInternalServerError)
		}
	}
}

// RegisterSubmissionHandler creates the account and sends the user to login.
// Registration does not log the user in.
func (s *Server) RegisterSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		profile := users.Profile{
			Email:     r.FormValue("email"),
			Password:  r.FormValue("password"),
			FirstName: r.FormValue("first_name"),
			LastName:  r.FormValue("last_name"),
		}.Normalize()

		if confirm := r.FormValue("confirm_password"); r.Form.Has("confirm_password") && confirm != profile.Password {
			s.renderRegisterError(w, r, "Passwords do not match", profile)
			return
		}

		user, err := s.sessionFor(w, r).Register(r.Context(), profile)
		if err != nil {
			log.Err(err).Str("request_id", requestID(r.Context())).Msg("Registration failed")
			s.renderRegisterError(w, r, apperrors.Message(err), profile)
			return
		}

		log.Info().Str("user_id", user.ID).Msg("Account registered")
		redirectSuccess(w, r, RouteLogin+"?notice="+url.QueryEscape("Account created, please sign in")+
			"&email="+url.QueryEscape(user.Email))
	}
}

func (s *Server) renderRegisterError(w http.ResponseWriter, r *http.Request, errorMsg string, p users.Profile) {
	q := url.Values{}
	q.Set("error", errorMsg)
	q.Set("email", p.Email)
	q.Set("first_name", p.FirstName)
	q.Set("last_name", p.LastName)
	redirectSuccess(w, r, RouteRegister+"?"+q.Encode())
}
