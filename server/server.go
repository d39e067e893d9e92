// Package server is the web frontend: it renders the auth pages and the task
// dashboard, guards routes on the token cookie and talks to the remote API
// on the user's behalf.
package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-todo-web/guard"
	"github.com/jrsteele09/go-todo-web/internal/config"
	"github.com/jrsteele09/go-todo-web/session"
	"github.com/jrsteele09/go-todo-web/todoapi"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env    string // Environment (e.g., "DEV", "PROD")
	mux    *http.ServeMux
	routes []string
	config config.Config
	api    *todoapi.Client
	tokens session.Repo // durable token copies, one slot per device
	views  *viewCache
	rules  guard.Rules
}

func New(config config.Config, api *todoapi.Client, tokens session.Repo) *Server {
	s := &Server{
		env:    config.GetEnv(),
		mux:    http.NewServeMux(),
		config: config,
		api:    api,
		tokens: tokens,
		views:  newViewCache(config.GetViewTTL()),
		rules:  guard.DefaultRules,
	}

	s.initRoutes()
	s.logRoutes()

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	color, ok := methodColors[method]
	if !ok {
		color = Gray
	}
	log.Printf("[%-19s] %s", color+paddedMethod+ResetColor, path)
}

// getScheme determines the scheme (http/https), honouring a proxy header.
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
