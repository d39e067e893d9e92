package fakeapi

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-todo-web/internal/timestamp"
	"github.com/jrsteele09/go-todo-web/internal/utils"
	"github.com/jrsteele09/go-todo-web/tasks"
	"github.com/jrsteele09/go-todo-web/users"
	"golang.org/x/crypto/bcrypt"
)

var (
	errEmailTaken   = errors.New("Email already registered")
	errBadLogin     = errors.New("Incorrect email or password")
	errUserNotFound = errors.New("User not found")
	errTaskNotFound = errors.New("Task not found")
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

type account struct {
	user         users.User
	passwordHash string
}

// store keeps users and their tasks in memory, keyed by UUID string. Tasks
// are kept in insertion order.
type store struct {
	lock     sync.RWMutex
	accounts map[string]*account
	emailIDs map[string]string // lower-cased email to user id
	tasks    map[string][]tasks.Task
}

func newStore() *store {
	return &store{
		accounts: make(map[string]*account),
		emailIDs: make(map[string]string),
		tasks:    make(map[string][]tasks.Task),
	}
}

func now() timestamp.Time {
	return timestamp.New(NowTimeFunc().UTC())
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(bytes), err
}

func checkPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *store) createUser(p users.Profile) (users.User, error) {
	hash, err := hashPassword(p.Password)
	if err != nil {
		return users.User{}, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	key := strings.ToLower(p.Email)
	if _, ok := s.emailIDs[key]; ok {
		return users.User{}, errEmailTaken
	}
	u := users.User{
		ID:        uuid.NewString(),
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		CreatedAt: now(),
	}
	s.accounts[u.ID] = &account{user: u, passwordHash: hash}
	s.emailIDs[key] = u.ID
	return u, nil
}

func (s *store) authenticate(email, password string) (users.User, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	id, ok := s.emailIDs[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return users.User{}, errBadLogin
	}
	acc := s.accounts[id]
	if !checkPasswordHash(password, acc.passwordHash) {
		return users.User{}, errBadLogin
	}
	return acc.user, nil
}

func (s *store) user(id string) (users.User, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	acc, ok := s.accounts[id]
	if !ok {
		return users.User{}, errUserNotFound
	}
	return acc.user, nil
}

func (s *store) listTasks(userID string, completed *bool) []tasks.Task {
	s.lock.RLock()
	defer s.lock.RUnlock()

	out := make([]tasks.Task, 0, len(s.tasks[userID]))
	for _, t := range s.tasks[userID] {
		if completed == nil || t.Completed == *completed {
			out = append(out, t)
		}
	}
	return out
}

func (s *store) createTask(userID string, in tasks.Input) tasks.Task {
	s.lock.Lock()
	defer s.lock.Unlock()

	created := now()
	t := tasks.Task{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		UserID:      userID,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		Completed:   utils.Value(in.Completed),
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	s.tasks[userID] = append(s.tasks[userID], t)
	return t
}

func (s *store) task(userID, taskID string) (tasks.Task, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	for _, t := range s.tasks[userID] {
		if t.ID == taskID {
			return t, nil
		}
	}
	return tasks.Task{}, errTaskNotFound
}

// mutateTask applies fn to the stored task and stamps updated_at.
func (s *store) mutateTask(userID, taskID string, fn func(*tasks.Task)) (tasks.Task, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	list := s.tasks[userID]
	for i := range list {
		if list[i].ID == taskID {
			fn(&list[i])
			list[i].UpdatedAt = now()
			return list[i], nil
		}
	}
	return tasks.Task{}, errTaskNotFound
}

func (s *store) deleteTask(userID, taskID string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	list := s.tasks[userID]
	for i := range list {
		if list[i].ID == taskID {
			s.tasks[userID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return errTaskNotFound
}
