package repo

import (
	"context"
	"fmt"

	"github.com/voltdesk/voltdesk/internal/model"
	"github.com/voltdesk/voltdesk/internal/store"
)

// Reports is the repository for maintenance work reports.
type Reports struct {
	store *store.Store
}

// NewReports creates a report repository over the given store.
func NewReports(s *store.Store) *Reports {
	return &Reports{store: s}
}

const reportColumns = "id, user_id, title, job_description, location, remarks, report_date, report_time, tools_used, status, created_at"

func reportFromRow(r store.Row) *model.Report {
	if r == nil {
		return nil
	}
	return &model.Report{
		ID:             r.Int64("id"),
		OwnerID:        r.Int64("user_id"),
		Title:          r.String("title"),
		JobDescription: r.String("job_description"),
		Location:       r.String("location"),
		Remarks:        r.String("remarks"),
		ReportDate:     r.String("report_date"),
		ReportTime:     r.String("report_time"),
		ToolsUsed:      r.String("tools_used"),
		Status:         r.String("status"),
		CreatedAt:      r.Time("created_at"),
	}
}

// Create inserts a new report and returns its id.
func (r *Reports) Create(ctx context.Context, rep *model.Report) (int64, error) {
	status := rep.Status
	if status == "" {
		status = model.ReportPending
	}

	res, err := r.store.Run(ctx,
		`INSERT INTO reports (user_id, title, job_description, location, remarks, report_date, report_time, tools_used, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.OwnerID, rep.Title, rep.JobDescription, rep.Location, rep.Remarks,
		rep.ReportDate, rep.ReportTime, rep.ToolsUsed, status)
	if err != nil {
		return 0, fmt.Errorf("failed to create report: %w", err)
	}
	return res.LastInsertID, nil
}

// GetByID returns the report, or nil when it does not exist.
func (r *Reports) GetByID(ctx context.Context, id int64) (*model.Report, error) {
	row, err := r.store.Get(ctx, "SELECT "+reportColumns+" FROM reports WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get report %d: %w", id, err)
	}
	return reportFromRow(row), nil
}

// ListByOwner returns the user's reports, newest first.
func (r *Reports) ListByOwner(ctx context.Context, ownerID int64) ([]*model.Report, error) {
	rows, err := r.store.All(ctx,
		"SELECT "+reportColumns+" FROM reports WHERE user_id = ? ORDER BY created_at DESC", ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports for user %d: %w", ownerID, err)
	}
	reports := make([]*model.Report, 0, len(rows))
	for _, row := range rows {
		reports = append(reports, reportFromRow(row))
	}
	return reports, nil
}

// ListAll returns every report, newest first. For admin dashboards.
func (r *Reports) ListAll(ctx context.Context) ([]*model.Report, error) {
	rows, err := r.store.All(ctx, "SELECT "+reportColumns+" FROM reports ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	reports := make([]*model.Report, 0, len(rows))
	for _, row := range rows {
		reports = append(reports, reportFromRow(row))
	}
	return reports, nil
}

// Update replaces the full set of mutable columns with the supplied
// value: callers provide a complete Report, unchanged fields included.
// The owner condition makes the ownership check and the mutation one
// atomic statement. Returns whether exactly one row changed.
func (r *Reports) Update(ctx context.Context, id, ownerID int64, rep *model.Report) (bool, error) {
	res, err := r.store.Run(ctx,
		`UPDATE reports SET title = ?, job_description = ?, location = ?, remarks = ?,
		 report_date = ?, report_time = ?, tools_used = ?, status = ?
		 WHERE id = ? AND user_id = ?`,
		rep.Title, rep.JobDescription, rep.Location, rep.Remarks,
		rep.ReportDate, rep.ReportTime, rep.ToolsUsed, rep.Status,
		id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to update report %d: %w", id, err)
	}
	return res.RowsAffected == 1, nil
}

// UpdateStatus changes only the report status, owner-conditionally.
func (r *Reports) UpdateStatus(ctx context.Context, id, ownerID int64, status string) (bool, error) {
	res, err := r.store.Run(ctx,
		"UPDATE reports SET status = ? WHERE id = ? AND user_id = ?", status, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to update report %d status: %w", id, err)
	}
	return res.RowsAffected == 1, nil
}

// Delete hard-deletes the report, owner-conditionally.
func (r *Reports) Delete(ctx context.Context, id, ownerID int64) (bool, error) {
	res, err := r.store.Run(ctx, "DELETE FROM reports WHERE id = ? AND user_id = ?", id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete report %d: %w", id, err)
	}
	return res.RowsAffected == 1, nil
}

// CountByStatus aggregates all reports by status for admin widgets.
func (r *Reports) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.store.All(ctx, "SELECT status, COUNT(*) AS n FROM reports GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.String("status")] = int(row.Int64("n"))
	}
	return counts, nil
}
