package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// Priority of a task.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Status of a task. Any status may follow any other.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task is a unit of work owned by exactly one user.
type Task struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Category    string
	Priority    Priority
	Status      Status
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTask carries the caller-supplied fields of a task being created.
// Empty Priority and Status are filled with PriorityMedium and StatusPending.
type NewTask struct {
	Title       string
	Description string
	Category    string
	Priority    Priority
	Status      Status
	DueDate     *time.Time
}

// Validate trims the title, fills defaults and checks enum values.
func (n *NewTask) Validate() error {
	n.Title = strings.TrimSpace(n.Title)
	if n.Title == "" {
		return fmt.Errorf("%w: title is required", common.ErrorValidation)
	}
	if n.Priority == "" {
		n.Priority = PriorityMedium
	}
	if !n.Priority.Valid() {
		return fmt.Errorf("%w: invalid priority %q", common.ErrorValidation, n.Priority)
	}
	if n.Status == "" {
		n.Status = StatusPending
	}
	if !n.Status.Valid() {
		return fmt.Errorf("%w: invalid status %q", common.ErrorValidation, n.Status)
	}
	return nil
}

// Task builds the record to store for owner userID. Call Validate first.
func (n *NewTask) Task(userID string) *Task {
	return &Task{
		UserID:      userID,
		Title:       n.Title,
		Description: n.Description,
		Category:    n.Category,
		Priority:    n.Priority,
		Status:      n.Status,
		DueDate:     n.DueDate,
	}
}

// TaskPatch lists the fields an update may change. A nil field is left as is.
// Identity, owner and creation time have no field here and so can't be changed.
type TaskPatch struct {
	Title       *string
	Description *string
	Category    *string
	Priority    *Priority
	Status      *Status
	DueDate     *time.Time
}

// Validate rejects a blank title and unknown enum values.
func (p *TaskPatch) Validate() error {
	if p.Title != nil {
		t := strings.TrimSpace(*p.Title)
		if t == "" {
			return fmt.Errorf("%w: title cannot be empty", common.ErrorValidation)
		}
		p.Title = &t
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return fmt.Errorf("%w: invalid priority %q", common.ErrorValidation, *p.Priority)
	}
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("%w: invalid status %q", common.ErrorValidation, *p.Status)
	}
	return nil
}

// Empty reports whether the patch changes nothing.
func (p *TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil &&
		p.Priority == nil && p.Status == nil && p.DueDate == nil
}

// Apply merges the present fields into t.
func (p *TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.DueDate != nil {
		d := *p.DueDate
		t.DueDate = &d
	}
}

// TaskStats are independent counts over one user's tasks.
type TaskStats struct {
	Total        int64
	Completed    int64
	Pending      int64
	InProgress   int64
	HighPriority int64
}
