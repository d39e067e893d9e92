package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/go-todo-web/internal/errors"
	"github.com/jrsteele09/go-todo-web/internal/timestamp"
	"github.com/jrsteele09/go-todo-web/internal/utils"
	"github.com/jrsteele09/go-todo-web/session"
	"github.com/jrsteele09/go-todo-web/tasks"
	"github.com/jrsteele09/go-todo-web/users"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DashboardPageData feeds both the full dashboard and the task_list fragment.
type DashboardPageData struct {
	AppName    string
	User       *users.User
	Tasks      []tasks.Task
	Filter     tasks.Filter
	Filters    []tasks.Filter
	Counts     tasks.Counts
	Priorities []tasks.Priority
	Error      string
	Notice     string
	Now        time.Time
}

type TaskEditPageData struct {
	AppName    string
	Task       tasks.Task
	Priorities []tasks.Priority
	Error      string
}

var dashboardFilters = []tasks.Filter{tasks.FilterAll, tasks.FilterActive, tasks.FilterCompleted}

// mountView loads the user and their tasks for the request's token and
// caches the result as the device's view.
func (s *Server) mountView(ctx context.Context, mgr *session.Manager) (*pageView, error) {
	token, ok := mgr.Token()
	if !ok {
		return nil, apperrors.ErrNoToken
	}
	user, err := mgr.CurrentUser(ctx)
	if err != nil {
		return nil, apperrors.Wrapf(err, "loading current user")
	}

	ctrl := tasks.NewController(s.api.Authorized(token), user.ID)
	if err := ctrl.Load(ctx, nil); err != nil {
		return nil, err
	}

	v := &pageView{token: token, user: user, tasks: ctrl}
	s.views.Put(deviceID(ctx), v)
	return v, nil
}

// currentView returns the cached view when it was mounted with the current
// token, mounting a new one otherwise.
func (s *Server) currentView(ctx context.Context, mgr *session.Manager) (*pageView, error) {
	token, ok := mgr.Token()
	if !ok {
		return nil, apperrors.ErrNoToken
	}
	if v, ok := s.views.Get(deviceID(ctx)); ok && v.token == token {
		return v, nil
	}
	return s.mountView(ctx, mgr)
}

func (s *Server) dashboardData(v *pageView, filter tasks.Filter) DashboardPageData {
	return DashboardPageData{
		AppName:    s.config.GetAppName(),
		User:       v.user,
		Tasks:      v.tasks.View(filter),
		Filter:     filter,
		Filters:    dashboardFilters,
		Counts:     v.tasks.Counts(),
		Priorities: tasks.Priorities,
		Now:        time.Now(),
	}
}

// DashboardHandler mounts a fresh view on every full page load.
func (s *Server) DashboardHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("dashboard.html", "layout.html", "task_list.html")

	return func(w http.ResponseWriter, r *http.Request) {
		mgr := s.sessionFor(w, r)
		v, err := s.mountView(r.Context(), mgr)
		if err != nil {
			s.failView(w, r, mgr, err)
			return
		}

		q := r.URL.Query()
		data := s.dashboardData(v, tasks.ParseFilter(q.Get("filter")))
		data.Error = q.Get("error")
		data.Notice = q.Get("notice")

		w.Header().Set("Content-Type", contentTypeHTML)
		if isHTMXRequest(r) {
			err = tmpl.ExecuteTemplate(w, "task_list", data)
		} else {
			err = tmpl.Execute(w, data)
		}
		if err != nil {
			log.Err(err).Msg("Failed to render dashboard template")
		}
	}
}

func (s *Server) CreateTaskHandler() http.HandlerFunc {
	return s.taskMutation(func(ctx context.Context, v *pageView, r *http.Request) (string, error) {
		in, err := taskInputFromForm(r)
		if err != nil {
			return "", err
		}
		if _, err := v.tasks.Create(ctx, in); err != nil {
			return "", err
		}
		return "Task created", nil
	})
}

func (s *Server) UpdateTaskHandler() http.HandlerFunc {
	return s.taskMutation(func(ctx context.Context, v *pageView, r *http.Request) (string, error) {
		id, err := taskID(r)
		if err != nil {
			return "", err
		}
		in, err := taskInputFromForm(r)
		if err != nil {
			return "", err
		}
		if _, err := v.tasks.Update(ctx, id, in); err != nil {
			return "", err
		}
		return "Task updated", nil
	})
}

func (s *Server) ToggleTaskHandler() http.HandlerFunc {
	return s.taskMutation(func(ctx context.Context, v *pageView, r *http.Request) (string, error) {
		id, err := taskID(r)
		if err != nil {
			return "", err
		}
		t, err := v.tasks.Toggle(ctx, id)
		if err != nil {
			return "", err
		}
		if t.Completed {
			return "Task completed", nil
		}
		return "Task reopened", nil
	})
}

func (s *Server) DeleteTaskHandler() http.HandlerFunc {
	return s.taskMutation(func(ctx context.Context, v *pageView, r *http.Request) (string, error) {
		id, err := taskID(r)
		if err != nil {
			return "", err
		}
		if err := v.tasks.Delete(ctx, id); err != nil {
			return "", err
		}
		return "Task deleted", nil
	})
}

type mutationFunc func(ctx context.Context, v *pageView, r *http.Request) (notice string, err error)

// taskMutation runs fn against the device's view. HTMX callers get the list
// fragment back, with the error shown above an unchanged list on failure.
// Plain form posts are redirected to the dashboard with a notice or error.
func (s *Server) taskMutation(fn mutationFunc) http.HandlerFunc {
	tmpl := mustParseTemplate("task_list.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		mgr := s.sessionFor(w, r)
		v, err := s.currentView(r.Context(), mgr)
		if err != nil {
			s.failView(w, r, mgr, err)
			return
		}

		notice, err := fn(r.Context(), v, r)
		if err != nil && apperrors.IsSessionInvalid(err) {
			s.failView(w, r, mgr, err)
			return
		}
		if err != nil {
			log.Err(err).Str("request_id", requestID(r.Context())).Msg("Task change failed")
		}

		if !isHTMXRequest(r) {
			if err != nil {
				redirectWithError(w, r, s.returnPath(r), apperrors.Message(err))
				return
			}
			redirectWithNotice(w, r, RouteDashboard, notice)
			return
		}

		data := s.dashboardData(v, tasks.ParseFilter(r.FormValue("filter")))
		if err != nil {
			data.Error = apperrors.Message(err)
		} else {
			data.Notice = notice
		}
		w.Header().Set("Content-Type", contentTypeHTML)
		if err := tmpl.ExecuteTemplate(w, "task_list", data); err != nil {
			log.Err(err).Msg("Failed to render task list")
		}
	}
}

// returnPath sends a failed edit back to its form and everything else to
// the dashboard.
func (s *Server) returnPath(r *http.Request) string {
	if r.FormValue("return") == "edit" {
		if id := r.PathValue("id"); id != "" {
			return strings.Replace(RouteTaskEdit, "{id}", id, 1)
		}
	}
	return RouteDashboard
}

// EditTaskPageHandler fetches the task fresh from the API for the edit form.
func (s *Server) EditTaskPageHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("task_edit.html", "layout.html")

	return func(w http.ResponseWriter, r *http.Request) {
		id, err := taskID(r)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		mgr := s.sessionFor(w, r)
		v, err := s.currentView(r.Context(), mgr)
		if err != nil {
			s.failView(w, r, mgr, err)
			return
		}

		t, err := v.tasks.Get(r.Context(), id)
		if err != nil {
			if apperrors.IsSessionInvalid(err) {
				s.failView(w, r, mgr, err)
				return
			}
			redirectWithError(w, r, RouteDashboard, apperrors.Message(err))
			return
		}

		data := TaskEditPageData{
			AppName:    s.config.GetAppName(),
			Task:       t,
			Priorities: tasks.Priorities,
			Error:      r.URL.Query().Get("error"),
		}
		w.Header().Set("Content-Type", contentTypeHTML)
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render task edit template")
		}
	}
}

// failView handles an error met while loading data for a protected view.
// A rejected or missing token ends the session. Anything else is reported
// as a bad gateway since there is no list to render.
func (s *Server) failView(w http.ResponseWriter, r *http.Request, mgr *session.Manager, err error) {
	log.Err(err).Str("request_id", requestID(r.Context())).Str("path", r.URL.Path).Msg("Failed to load view")
	if apperrors.IsSessionInvalid(err) {
		s.endSession(w, r, mgr)
		return
	}
	s.views.Drop(deviceID(r.Context()))
	http.Error(w, apperrors.Message(err), http.StatusBadGateway)
}

// taskID returns the {id} path value in canonical UUID form.
func taskID(r *http.Request) (string, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return "", apperrors.Validation("invalid task id %q", r.PathValue("id"))
	}
	return id.String(), nil
}

// taskInputFromForm reads the task form. The completed flag is only sent
// when the form carries the has_completed marker, since an unchecked box
// posts nothing.
func taskInputFromForm(r *http.Request) (tasks.Input, error) {
	in := tasks.Input{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}
	if p := strings.TrimSpace(r.FormValue("priority")); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || !tasks.Priority(n).Valid() {
			return tasks.Input{}, apperrors.Validation("priority must be between %d and %d", tasks.MinPriority, tasks.MaxPriority)
		}
		in.Priority = tasks.Priority(n)
	}
	if due := strings.TrimSpace(r.FormValue("due_date")); due != "" {
		d, err := time.Parse(dateLayout, due)
		if err != nil {
			return tasks.Input{}, apperrors.Validation("due date must be YYYY-MM-DD")
		}
		in.DueDate = timestamp.Ptr(d)
	}
	if r.Form.Has("has_completed") {
		in.Completed = utils.Ptr(r.FormValue("completed") != "")
	}
	return in, nil
}
