package model

import (
	"fmt"
	"time"
)

// Task priority values.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Task status values.
const (
	TaskPending    = "pending"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
	TaskCancelled  = "cancelled"
)

// Task is a unit of assigned work. AssignedBy is optional and survives
// the assigner's deletion (set to nil rather than cascading). Hidden
// lets an assignee archive a completed task without deleting it.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	AssignedTo  int64     `json:"assigned_to"`
	AssignedBy  *int64    `json:"assigned_by,omitempty"`
	Priority    string    `json:"priority"`
	DueDate     string    `json:"due_date,omitempty"`
	Status      string    `json:"status"`
	Hidden      bool      `json:"hidden_from_user"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskPatch is a partial update: nil fields are left unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *string
	DueDate     *string
	Status      *string
}

// TaskCounts aggregates a user's tasks by status for dashboard widgets.
type TaskCounts struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Cancelled  int `json:"cancelled"`
}

// ValidTaskPriority reports whether p is a known priority.
func ValidTaskPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh || p == PriorityUrgent
}

// ValidTaskStatus reports whether s is a known task state.
func ValidTaskStatus(s string) bool {
	return s == TaskPending || s == TaskInProgress || s == TaskCompleted || s == TaskCancelled
}

// Validate checks the fields required to create a Task.
func (t *Task) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("title is required")
	}
	if t.AssignedTo == 0 {
		return fmt.Errorf("assigned_to is required")
	}
	if t.Priority != "" && !ValidTaskPriority(t.Priority) {
		return fmt.Errorf("invalid task priority %q", t.Priority)
	}
	if t.Status != "" && !ValidTaskStatus(t.Status) {
		return fmt.Errorf("invalid task status %q", t.Status)
	}
	return nil
}

// Validate rejects patches whose supplied fields hold invalid values.
func (p *TaskPatch) Validate() error {
	if p.Priority != nil && !ValidTaskPriority(*p.Priority) {
		return fmt.Errorf("invalid task priority %q", *p.Priority)
	}
	if p.Status != nil && !ValidTaskStatus(*p.Status) {
		return fmt.Errorf("invalid task status %q", *p.Status)
	}
	return nil
}
