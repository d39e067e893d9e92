package fakeapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-todo-web/fakeapi"
	"github.com/jrsteele09/go-todo-web/tasks"
	"github.com/jrsteele09/go-todo-web/todoapi"
	"github.com/jrsteele09/go-todo-web/users"
	"github.com/stretchr/testify/require"
)

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["detail"]
}

func registerAndLogin(t *testing.T, h http.Handler, email string) (users.User, string) {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, todoapi.PathRegister, "", users.Profile{Email: email, Password: "pw", FirstName: "Ada"})
	require.Equal(t, http.StatusOK, rec.Code)
	var u users.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
	require.NoError(t, uuid.Validate(u.ID))

	rec = doJSON(t, h, http.MethodPost, todoapi.PathLogin, "", users.Credentials{Email: email, Password: "pw"})
	require.Equal(t, http.StatusOK, rec.Code)
	var tr todoapi.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tr))
	require.NotEmpty(t, tr.AccessToken)
	require.Equal(t, "bearer", tr.TokenType)
	return u, tr.AccessToken
}

func TestRegister_DuplicateEmail(t *testing.T) {
	h := fakeapi.New(fakeapi.Options{})
	registerAndLogin(t, h, "u@x.com")

	rec := doJSON(t, h, http.MethodPost, todoapi.PathRegister, "", users.Profile{Email: "U@x.com", Password: "pw"})

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "Email already registered", detail(t, rec))
}

func TestLogin_WrongPassword(t *testing.T) {
	h := fakeapi.New(fakeapi.Options{})
	registerAndLogin(t, h, "u@x.com")

	rec := doJSON(t, h, http.MethodPost, todoapi.PathLogin, "", users.Credentials{Email: "u@x.com", Password: "nope"})

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Incorrect email or password", detail(t, rec))
}

func TestMe(t *testing.T) {
	h := fakeapi.New(fakeapi.Options{})
	u, token := registerAndLogin(t, h, "u@x.com")

	rec := doJSON(t, h, http.MethodGet, todoapi.PathMe, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me users.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	require.Equal(t, u.ID, me.ID)
	require.Equal(t, "Ada", me.FirstName)

	rec = doJSON(t, h, http.MethodGet, todoapi.PathMe, "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, h, http.MethodGet, todoapi.PathMe, "garbage", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExpiredToken(t *testing.T) {
	h := fakeapi.New(fakeapi.Options{TokenTTL: time.Minute})
	_, token := registerAndLogin(t, h, "u@x.com")

	fakeapi.NowTimeFunc = func() time.Time { return time.Now().Add(time.Hour) }
	t.Cleanup(func() { fakeapi.NowTimeFunc = time.Now })

	rec := doJSON(t, h, http.MethodGet, todoapi.PathMe, token, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTasks_CRUD(t *testing.T) {
	h := fakeapi.New(fakeapi.Options{})
	u, token := registerAndLogin(t, h, "u@x.com")
	tasksPath := "/api/users/" + u.ID + "/tasks"

	rec := doJSON(t, h, http.MethodPost, tasksPath, token, tasks.Input{Title: "  "})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, h, http.MethodPost, tasksPath, token, map[string]any{"title": "x", "priority": 6})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, h, http.MethodPost, tasksPath, token, tasks.Input{Title: "A"})
	require.Equal(t, http.StatusOK, rec.Code)
	var a tasks.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	require.Equal(t, tasks.DefaultPriority, a.Priority)
	require.Equal(t, u.ID, a.UserID)
	require.NoError(t, uuid.Validate(a.ID))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?$`, raw["created_at"], "timestamps carry no zone")
	require.Nil(t, raw["due_date"])

	rec = doJSON(t, h, http.MethodPost, tasksPath, token, tasks.Input{Title: "B"})
	require.Equal(t, http.StatusOK, rec.Code)

	taskPath := tasksPath + "/" + a.ID
	rec = doJSON(t, h, http.MethodPatch, taskPath+"/complete", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []tasks.Task
	rec = doJSON(t, h, http.MethodGet, tasksPath+"?completed=true", token, nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	require.Equal(t, a.ID, list[0].ID)

	rec = doJSON(t, h, http.MethodPut, taskPath, token, tasks.Input{Title: "A2", Priority: tasks.MaxPriority})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated tasks.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, "A2", updated.Title)
	require.True(t, updated.Completed, "completed is kept when omitted")

	rec = doJSON(t, h, http.MethodDelete, taskPath, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, taskPath, token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Task not found", detail(t, rec))
}

func TestTasks_OtherUserForbidden(t *testing.T) {
	h := fakeapi.New(fakeapi.Options{})
	owner, _ := registerAndLogin(t, h, "owner@x.com")
	_, intruderToken := registerAndLogin(t, h, "intruder@x.com")

	rec := doJSON(t, h, http.MethodGet, "/api/users/"+owner.ID+"/tasks", intruderToken, nil)

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "Not authorized to access these tasks", detail(t, rec))
}

func TestTasks_MalformedIDs(t *testing.T) {
	h := fakeapi.New(fakeapi.Options{})
	u, token := registerAndLogin(t, h, "u@x.com")

	rec := doJSON(t, h, http.MethodGet, "/api/users/42/tasks", token, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/users/"+u.ID+"/tasks/42", token, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/users/"+u.ID+"/tasks/"+uuid.NewString(), token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
