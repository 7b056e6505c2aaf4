package repo

import (
	"context"
	"fmt"

	"github.com/voltdesk/voltdesk/internal/model"
	"github.com/voltdesk/voltdesk/internal/store"
)

// Tasks is the repository for assigned work items. Unlike the
// full-replace entities, tasks are patched field by field: a nil patch
// field leaves the stored value untouched.
type Tasks struct {
	store *store.Store
}

// NewTasks creates a task repository over the given store.
func NewTasks(s *store.Store) *Tasks {
	return &Tasks{store: s}
}

const taskColumns = "id, title, description, assigned_to, assigned_by, priority, due_date, status, hidden_from_user, created_at, updated_at"

func taskFromRow(r store.Row) *model.Task {
	if r == nil {
		return nil
	}
	return &model.Task{
		ID:          r.Int64("id"),
		Title:       r.String("title"),
		Description: r.String("description"),
		AssignedTo:  r.Int64("assigned_to"),
		AssignedBy:  r.NullInt64("assigned_by"),
		Priority:    r.String("priority"),
		DueDate:     r.String("due_date"),
		Status:      r.String("status"),
		Hidden:      r.Bool("hidden_from_user"),
		CreatedAt:   r.Time("created_at"),
		UpdatedAt:   r.Time("updated_at"),
	}
}

// Create inserts a new task and returns its id.
func (r *Tasks) Create(ctx context.Context, t *model.Task) (int64, error) {
	priority := t.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	status := t.Status
	if status == "" {
		status = model.TaskPending
	}

	res, err := r.store.Run(ctx,
		`INSERT INTO tasks (title, description, assigned_to, assigned_by, priority, due_date, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.Title, t.Description, t.AssignedTo, t.AssignedBy, priority, t.DueDate, status)
	if err != nil {
		return 0, fmt.Errorf("failed to create task: %w", err)
	}
	return res.LastInsertID, nil
}

// GetByID returns the task, or nil when it does not exist.
func (r *Tasks) GetByID(ctx context.Context, id int64) (*model.Task, error) {
	row, err := r.store.Get(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get task %d: %w", id, err)
	}
	return taskFromRow(row), nil
}

// ListByAssignee returns the user's tasks, newest first. Archived
// (hidden) tasks are excluded unless includeHidden is set.
func (r *Tasks) ListByAssignee(ctx context.Context, userID int64, includeHidden bool) ([]*model.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE assigned_to = ?"
	if !includeHidden {
		query += " AND hidden_from_user = ?"
	}
	query += " ORDER BY created_at DESC"

	args := []any{userID}
	if !includeHidden {
		args = append(args, false)
	}

	rows, err := r.store.All(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks for user %d: %w", userID, err)
	}
	tasks := make([]*model.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, taskFromRow(row))
	}
	return tasks, nil
}

// ListAll returns every task, newest first. For admin dashboards.
func (r *Tasks) ListAll(ctx context.Context) ([]*model.Task, error) {
	rows, err := r.store.All(ctx, "SELECT "+taskColumns+" FROM tasks ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	tasks := make([]*model.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, taskFromRow(row))
	}
	return tasks, nil
}

// Update applies a partial patch: only non-nil fields change, the rest
// coalesce to their stored values. Returns the updated task, or nil
// when no such task exists.
func (r *Tasks) Update(ctx context.Context, id int64, p model.TaskPatch) (*model.Task, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	res, err := r.store.Run(ctx,
		`UPDATE tasks SET
		 title = COALESCE(?, title),
		 description = COALESCE(?, description),
		 priority = COALESCE(?, priority),
		 due_date = COALESCE(?, due_date),
		 status = COALESCE(?, status),
		 updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		p.Title, p.Description, p.Priority, p.DueDate, p.Status, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update task %d: %w", id, err)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

// UpdateStatus changes only the task status, scoped to the assignee.
func (r *Tasks) UpdateStatus(ctx context.Context, id, userID int64, status string) (bool, error) {
	if !model.ValidTaskStatus(status) {
		return false, fmt.Errorf("invalid task status %q", status)
	}
	res, err := r.store.Run(ctx,
		"UPDATE tasks SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND assigned_to = ?",
		status, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to update task %d status: %w", id, err)
	}
	return res.RowsAffected == 1, nil
}

// Hide archives a task from the assignee's view without deleting it.
func (r *Tasks) Hide(ctx context.Context, id, userID int64) (bool, error) {
	res, err := r.store.Run(ctx,
		"UPDATE tasks SET hidden_from_user = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND assigned_to = ?",
		true, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to hide task %d: %w", id, err)
	}
	return res.RowsAffected == 1, nil
}

// Counts aggregates the user's tasks by status for dashboard widgets.
// Hidden tasks still count: archiving is a view concern, not a status.
func (r *Tasks) Counts(ctx context.Context, userID int64) (*model.TaskCounts, error) {
	rows, err := r.store.All(ctx,
		"SELECT status, COUNT(*) AS n FROM tasks WHERE assigned_to = ? GROUP BY status", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks for user %d: %w", userID, err)
	}

	counts := &model.TaskCounts{}
	for _, row := range rows {
		n := int(row.Int64("n"))
		counts.Total += n
		switch row.String("status") {
		case model.TaskPending:
			counts.Pending = n
		case model.TaskInProgress:
			counts.InProgress = n
		case model.TaskCompleted:
			counts.Completed = n
		case model.TaskCancelled:
			counts.Cancelled = n
		}
	}
	return counts, nil
}

// Delete hard-deletes the task.
func (r *Tasks) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.store.Run(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete task %d: %w", id, err)
	}
	return res.RowsAffected == 1, nil
}
