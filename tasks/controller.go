package tasks

import (
	"context"
	"fmt"
	"sync"
)

// API is the slice of the remote task API the controller needs. All calls
// are made on behalf of one authenticated user.
type API interface {
	ListTasks(ctx context.Context, userID string, completed *bool) ([]Task, error)
	CreateTask(ctx context.Context, userID string, in Input) (*Task, error)
	GetTask(ctx context.Context, userID, taskID string) (*Task, error)
	UpdateTask(ctx context.Context, userID, taskID string, in Input) (*Task, error)
	DeleteTask(ctx context.Context, userID, taskID string) error
	ToggleTask(ctx context.Context, userID, taskID string) (*Task, error)
}

// Counts summarises a list.
type Counts struct {
	Total     int
	Active    int
	Completed int
}

// Controller owns the task list of one page view. The list is only changed
// after the matching API call has succeeded, so a failed call leaves it as it
// was. Calls are not de-duplicated: two submissions are two requests.
type Controller struct {
	api    API
	userID string

	mu     sync.RWMutex
	list   *List
	loaded bool
}

func NewController(api API, userID string) *Controller {
	return &Controller{
		api:    api,
		userID: userID,
		list:   NewList(nil),
	}
}

func (c *Controller) UserID() string {
	return c.userID
}

// Load fetches the list from the API, replacing the local copy. completed is
// passed through as the server-side filter.
func (c *Controller) Load(ctx context.Context, completed *bool) error {
	items, err := c.api.ListTasks(ctx, c.userID, completed)
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}
	c.mu.Lock()
	c.list = NewList(items)
	c.loaded = true
	c.mu.Unlock()
	return nil
}

func (c *Controller) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

func (c *Controller) Items() []Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.list.Items()
}

// View returns the tasks matching f, in list order.
func (c *Controller) View(f Filter) []Task {
	items := c.Items()
	out := items[:0]
	for _, t := range items {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

func (c *Controller) Counts() Counts {
	c.mu.RLock()
	defer c.mu.RUnlock()
	counts := Counts{Total: c.list.Len()}
	for _, t := range c.list.items {
		if t.Completed {
			counts.Completed++
		} else {
			counts.Active++
		}
	}
	return counts
}

// Get fetches a single task without touching the list.
func (c *Controller) Get(ctx context.Context, taskID string) (Task, error) {
	t, err := c.api.GetTask(ctx, c.userID, taskID)
	if err != nil {
		return Task{}, fmt.Errorf("fetching task %s: %w", taskID, err)
	}
	return *t, nil
}

// Create validates in locally, creates it remotely and appends the result.
// An invalid input never reaches the API.
func (c *Controller) Create(ctx context.Context, in Input) (Task, error) {
	if err := in.Validate(); err != nil {
		return Task{}, err
	}
	t, err := c.api.CreateTask(ctx, c.userID, in.Normalize())
	if err != nil {
		return Task{}, fmt.Errorf("creating task: %w", err)
	}
	c.mu.Lock()
	c.list.Append(*t)
	c.mu.Unlock()
	return *t, nil
}

// Update replaces a task with the server's copy after a successful PUT.
func (c *Controller) Update(ctx context.Context, taskID string, in Input) (Task, error) {
	if err := in.Validate(); err != nil {
		return Task{}, err
	}
	t, err := c.api.UpdateTask(ctx, c.userID, taskID, in.Normalize())
	if err != nil {
		return Task{}, fmt.Errorf("updating task %s: %w", taskID, err)
	}
	c.replace(*t)
	return *t, nil
}

// Toggle flips completion remotely and replaces the task in place.
func (c *Controller) Toggle(ctx context.Context, taskID string) (Task, error) {
	t, err := c.api.ToggleTask(ctx, c.userID, taskID)
	if err != nil {
		return Task{}, fmt.Errorf("toggling task %s: %w", taskID, err)
	}
	c.replace(*t)
	return *t, nil
}

func (c *Controller) Delete(ctx context.Context, taskID string) error {
	if err := c.api.DeleteTask(ctx, c.userID, taskID); err != nil {
		return fmt.Errorf("deleting task %s: %w", taskID, err)
	}
	c.mu.Lock()
	c.list.Remove(taskID)
	c.mu.Unlock()
	return nil
}

func (c *Controller) replace(t Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.list.Replace(t)
}
