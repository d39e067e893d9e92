package server

import (
	"net/http"

	"github.com/jrsteele09/go-todo-web/session"
	"github.com/rs/zerolog/log"
)

type IndexPageData struct {
	AppName  string
	LoggedIn bool
}

// IndexHandler renders the home page
func (s *Server) IndexHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("index.html", "layout.html")

	return func(w http.ResponseWriter, r *http.Request) {
		_, loggedIn := session.TokenFromRequest(r, s.config.GetTokenCookieName())
		data := IndexPageData{
			AppName:  s.config.GetAppName(),
			LoggedIn: loggedIn,
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render index template")
		}
	}
}
