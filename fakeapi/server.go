// Package fakeapi serves an in-memory implementation of the remote task API
// for local development and tests.
package fakeapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jrsteele09/go-todo-web/tasks"
	"github.com/jrsteele09/go-todo-web/todoapi"
	"github.com/jrsteele09/go-todo-web/users"
	"github.com/rs/zerolog/log"
)

type Options struct {
	SigningKey string
	TokenTTL   time.Duration
}

type Server struct {
	router *mux.Router
	store  *store
	tokens *tokenIssuer
}

func New(opts Options) *Server {
	if opts.SigningKey == "" {
		opts.SigningKey = "dev-signing-key"
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	s := &Server{
		router: mux.NewRouter(),
		store:  newStore(),
		tokens: newTokenIssuer(opts.SigningKey, opts.TokenTTL),
	}
	s.initRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) initRoutes() {
	s.router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	s.router.HandleFunc(todoapi.PathRegister, s.registerHandler).Methods(http.MethodPost)
	s.router.HandleFunc(todoapi.PathLogin, s.loginHandler).Methods(http.MethodPost)
	s.router.HandleFunc(todoapi.PathMe, s.requireToken(s.meHandler)).Methods(http.MethodGet)

	userTasks := s.router.PathPrefix("/api/users/{userId}/tasks").Subrouter()
	userTasks.HandleFunc("", s.requireOwner(s.listTasksHandler)).Methods(http.MethodGet)
	userTasks.HandleFunc("", s.requireOwner(s.createTaskHandler)).Methods(http.MethodPost)
	userTasks.HandleFunc("/{taskId}", s.requireOwner(s.withTaskID(s.getTaskHandler))).Methods(http.MethodGet)
	userTasks.HandleFunc("/{taskId}", s.requireOwner(s.withTaskID(s.updateTaskHandler))).Methods(http.MethodPut)
	userTasks.HandleFunc("/{taskId}", s.requireOwner(s.withTaskID(s.deleteTaskHandler))).Methods(http.MethodDelete)
	userTasks.HandleFunc("/{taskId}/complete", s.requireOwner(s.withTaskID(s.toggleTaskHandler))).Methods(http.MethodPatch)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})
}

type userHandler func(w http.ResponseWriter, r *http.Request, userID string)

type taskHandler func(w http.ResponseWriter, r *http.Request, userID, taskID string)

// requireToken validates the bearer token and passes on the user id it carries.
func (s *Server) requireToken(next userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		userID, err := s.tokens.verify(parts[1])
		if err == nil {
			_, err = s.store.user(userID)
		}
		if err != nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeDetail(w, http.StatusUnauthorized, errInvalidToken.Error())
			return
		}
		next(w, r, userID)
	}
}

// requireOwner additionally checks the {userId} path segment against the
// token. A malformed id is a 422, someone else's id a 403.
func (s *Server) requireOwner(next userHandler) http.HandlerFunc {
	return s.requireToken(func(w http.ResponseWriter, r *http.Request, userID string) {
		pathID, err := uuid.Parse(mux.Vars(r)["userId"])
		if err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "user_id must be a UUID")
			return
		}
		if pathID.String() != userID {
			writeDetail(w, http.StatusForbidden, "Not authorized to access these tasks")
			return
		}
		next(w, r, userID)
	})
}

// withTaskID parses the {taskId} path segment.
func (s *Server) withTaskID(next taskHandler) userHandler {
	return func(w http.ResponseWriter, r *http.Request, userID string) {
		taskID, err := uuid.Parse(mux.Vars(r)["taskId"])
		if err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "task_id must be a UUID")
			return
		}
		next(w, r, userID, taskID.String())
	}
}

func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	var p users.Profile
	if !decodeBody(w, r, &p) {
		return
	}
	p = p.Normalize()
	if err := p.Validate(); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	u, err := s.store.createUser(p)
	if errors.Is(err, errEmailTaken) {
		writeDetail(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		log.Err(err).Msg("fakeapi: failed to create user")
		writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var creds users.Credentials
	if !decodeBody(w, r, &creds) {
		return
	}
	u, err := s.store.authenticate(creds.Email, creds.Password)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, err.Error())
		return
	}
	token, err := s.tokens.issue(u.ID)
	if err != nil {
		log.Err(err).Msg("fakeapi: failed to issue token")
		writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, todoapi.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) meHandler(w http.ResponseWriter, r *http.Request, userID string) {
	u, err := s.store.user(userID)
	if err != nil {
		writeDetail(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) listTasksHandler(w http.ResponseWriter, r *http.Request, userID string) {
	var completed *bool
	if v := r.URL.Query().Get("completed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "completed must be a boolean")
			return
		}
		completed = &b
	}
	writeJSON(w, http.StatusOK, s.store.listTasks(userID, completed))
}

func (s *Server) createTaskHandler(w http.ResponseWriter, r *http.Request, userID string) {
	in, ok := decodeTaskInput(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.store.createTask(userID, in))
}

func (s *Server) getTaskHandler(w http.ResponseWriter, r *http.Request, userID, taskID string) {
	t, err := s.store.task(userID, taskID)
	if err != nil {
		writeDetail(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) updateTaskHandler(w http.ResponseWriter, r *http.Request, userID, taskID string) {
	in, ok := decodeTaskInput(w, r)
	if !ok {
		return
	}
	t, err := s.store.mutateTask(userID, taskID, func(t *tasks.Task) {
		t.Title = in.Title
		t.Description = in.Description
		t.Priority = in.Priority
		t.DueDate = in.DueDate
		if in.Completed != nil {
			t.Completed = *in.Completed
		}
	})
	if err != nil {
		writeDetail(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) deleteTaskHandler(w http.ResponseWriter, r *http.Request, userID, taskID string) {
	if err := s.store.deleteTask(userID, taskID); err != nil {
		writeDetail(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}

func (s *Server) toggleTaskHandler(w http.ResponseWriter, r *http.Request, userID, taskID string) {
	t, err := s.store.mutateTask(userID, taskID, func(t *tasks.Task) {
		t.Completed = !t.Completed
	})
	if err != nil {
		writeDetail(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func decodeTaskInput(w http.ResponseWriter, r *http.Request) (tasks.Input, bool) {
	var in tasks.Input
	if !decodeBody(w, r, &in) {
		return in, false
	}
	if err := in.Validate(); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return in, false
	}
	return in.Normalize(), true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Request body must be valid JSON")
		return false
	}
	return true
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("fakeapi: failed to write response")
	}
}
