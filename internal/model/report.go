package model

import (
	"fmt"
	"time"
)

// Report status values.
const (
	ReportPending    = "Pending"
	ReportInProgress = "In Progress"
	ReportCompleted  = "Completed"
)

// Report is a maintenance work report filed by a staff member.
//
// ReportDate and ReportTime are ISO-8601 strings ("2006-01-02" and
// "15:04"), the single canonical representation for this schema.
type Report struct {
	ID             int64     `json:"id"`
	OwnerID        int64     `json:"user_id"`
	Title          string    `json:"title"`
	JobDescription string    `json:"job_description"`
	Location       string    `json:"location"`
	Remarks        string    `json:"remarks,omitempty"`
	ReportDate     string    `json:"report_date"`
	ReportTime     string    `json:"report_time"`
	ToolsUsed      string    `json:"tools_used"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// ValidReportStatus reports whether s is one of the known report states.
func ValidReportStatus(s string) bool {
	return s == ReportPending || s == ReportInProgress || s == ReportCompleted
}

// Validate checks the fields required to create a Report.
func (r *Report) Validate() error {
	if r.OwnerID == 0 {
		return fmt.Errorf("user_id is required")
	}
	if r.Title == "" {
		return fmt.Errorf("title is required")
	}
	if r.JobDescription == "" {
		return fmt.Errorf("job_description is required")
	}
	if r.Location == "" {
		return fmt.Errorf("location is required")
	}
	if r.Status != "" && !ValidReportStatus(r.Status) {
		return fmt.Errorf("invalid report status %q", r.Status)
	}
	return nil
}
