// Package tasks holds the task model and the per-view task list controller.
package tasks

import (
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/jrsteele09/go-todo-web/internal/errors"
	"github.com/jrsteele09/go-todo-web/internal/timestamp"
	"github.com/jrsteele09/go-todo-web/internal/utils"
)

// Field limits enforced by the API, counted in characters.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
)

// Priority runs from 1 (lowest) to 5.
type Priority int

const (
	MinPriority Priority = 1
	MaxPriority Priority = 5

	DefaultPriority = MinPriority
)

// Priorities lists the accepted priorities in display order.
var Priorities = []Priority{1, 2, 3, 4, 5}

func (p Priority) Valid() bool {
	return p >= MinPriority && p <= MaxPriority
}

// Task is owned by the API; the client only keeps a transient copy. IDs are
// UUID strings assigned by the server.
type Task struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Completed   bool            `json:"completed"`
	UserID      string          `json:"user_id"`
	Priority    Priority        `json:"priority"`
	DueDate     *timestamp.Time `json:"due_date"`
	CreatedAt   timestamp.Time  `json:"created_at"`
	UpdatedAt   timestamp.Time  `json:"updated_at"`
}

// Overdue reports whether an open task is past its due date.
func (t Task) Overdue(now time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(now)
}

// Input is the body of create and update calls. Description and DueDate are
// always sent so that clearing them on an edit is explicit. A nil Completed
// leaves the flag to the server.
type Input struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Priority    Priority        `json:"priority"`
	DueDate     *timestamp.Time `json:"due_date"`
	Completed   *bool           `json:"completed,omitempty"`
}

// InputFrom copies the editable fields of t.
func InputFrom(t Task) Input {
	return Input{
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		Completed:   utils.Ptr(t.Completed),
	}
}

// Normalize trims text fields and fills in the default priority.
func (in Input) Normalize() Input {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Priority == 0 {
		in.Priority = DefaultPriority
	}
	return in
}

// Validate applies the API's field rules before any request is made.
func (in Input) Validate() error {
	in = in.Normalize()
	if in.Title == "" {
		return apperrors.Validation("title is required")
	}
	if utf8.RuneCountInString(in.Title) > MaxTitleLength {
		return apperrors.Validation("title must be at most %d characters", MaxTitleLength)
	}
	if utf8.RuneCountInString(in.Description) > MaxDescriptionLength {
		return apperrors.Validation("description must be at most %d characters", MaxDescriptionLength)
	}
	if !in.Priority.Valid() {
		return apperrors.Validation("priority must be between %d and %d", MinPriority, MaxPriority)
	}
	return nil
}

// Filter narrows the rendered list.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// ParseFilter maps a query value to a Filter, defaulting to FilterAll.
func ParseFilter(s string) Filter {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterActive:
		return FilterActive
	case FilterCompleted:
		return FilterCompleted
	default:
		return FilterAll
	}
}

// Completed returns the server-side ?completed= value for f, nil for all.
func (f Filter) Completed() *bool {
	switch f {
	case FilterActive:
		return utils.Ptr(false)
	case FilterCompleted:
		return utils.Ptr(true)
	default:
		return nil
	}
}

func (f Filter) Match(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}
