package repo

import (
	"context"
	"fmt"

	"github.com/voltdesk/voltdesk/internal/model"
	"github.com/voltdesk/voltdesk/internal/store"
)

// Toolbox is the repository for toolbox talk safety forms.
type Toolbox struct {
	store *store.Store
}

// NewToolbox creates a toolbox repository over the given store.
func NewToolbox(s *store.Store) *Toolbox {
	return &Toolbox{store: s}
}

const toolboxColumns = "id, user_id, work_activity, date, work_location, name_company, sign, ppe_no, tools_used, hazards, circulars, risk_assessment, permit, remarks, prepared_by, verified_by, status, created_at"

func formFromRow(r store.Row) *model.ToolboxForm {
	if r == nil {
		return nil
	}
	return &model.ToolboxForm{
		ID:             r.Int64("id"),
		OwnerID:        r.Int64("user_id"),
		WorkActivity:   r.String("work_activity"),
		Date:           r.String("date"),
		WorkLocation:   r.String("work_location"),
		NameCompany:    r.String("name_company"),
		Sign:           r.String("sign"),
		PPENo:          r.String("ppe_no"),
		ToolsUsed:      r.String("tools_used"),
		Hazards:        r.String("hazards"),
		Circulars:      r.String("circulars"),
		RiskAssessment: r.String("risk_assessment"),
		Permit:         r.String("permit"),
		Remarks:        r.String("remarks"),
		PreparedBy:     r.String("prepared_by"),
		VerifiedBy:     r.String("verified_by"),
		Status:         r.String("status"),
		CreatedAt:      r.Time("created_at"),
	}
}

// Create inserts a new form and returns its id.
func (r *Toolbox) Create(ctx context.Context, f *model.ToolboxForm) (int64, error) {
	status := f.Status
	if status == "" {
		status = "draft"
	}

	res, err := r.store.Run(ctx,
		`INSERT INTO toolbox (user_id, work_activity, date, work_location, name_company, sign, ppe_no, tools_used,
		 hazards, circulars, risk_assessment, permit, remarks, prepared_by, verified_by, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.OwnerID, f.WorkActivity, f.Date, f.WorkLocation, f.NameCompany, f.Sign, f.PPENo, f.ToolsUsed,
		f.Hazards, f.Circulars, f.RiskAssessment, f.Permit, f.Remarks, f.PreparedBy, f.VerifiedBy, status)
	if err != nil {
		return 0, fmt.Errorf("failed to create toolbox form: %w", err)
	}
	return res.LastInsertID, nil
}

// GetByID returns the form, or nil when it does not exist.
func (r *Toolbox) GetByID(ctx context.Context, id int64) (*model.ToolboxForm, error) {
	row, err := r.store.Get(ctx, "SELECT "+toolboxColumns+" FROM toolbox WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get toolbox form %d: %w", id, err)
	}
	return formFromRow(row), nil
}

// ListByOwner returns the user's forms, newest first.
func (r *Toolbox) ListByOwner(ctx context.Context, ownerID int64) ([]*model.ToolboxForm, error) {
	rows, err := r.store.All(ctx,
		"SELECT "+toolboxColumns+" FROM toolbox WHERE user_id = ? ORDER BY created_at DESC", ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list toolbox forms for user %d: %w", ownerID, err)
	}
	forms := make([]*model.ToolboxForm, 0, len(rows))
	for _, row := range rows {
		forms = append(forms, formFromRow(row))
	}
	return forms, nil
}

// Update replaces the full set of mutable columns, owner-conditionally.
// Returns whether exactly one row changed.
func (r *Toolbox) Update(ctx context.Context, id, ownerID int64, f *model.ToolboxForm) (bool, error) {
	res, err := r.store.Run(ctx,
		`UPDATE toolbox SET work_activity = ?, date = ?, work_location = ?, name_company = ?, sign = ?,
		 ppe_no = ?, tools_used = ?, hazards = ?, circulars = ?, risk_assessment = ?, permit = ?,
		 remarks = ?, prepared_by = ?, verified_by = ?, status = ?
		 WHERE id = ? AND user_id = ?`,
		f.WorkActivity, f.Date, f.WorkLocation, f.NameCompany, f.Sign,
		f.PPENo, f.ToolsUsed, f.Hazards, f.Circulars, f.RiskAssessment, f.Permit,
		f.Remarks, f.PreparedBy, f.VerifiedBy, f.Status,
		id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to update toolbox form %d: %w", id, err)
	}
	return res.RowsAffected == 1, nil
}

// Delete hard-deletes the form, owner-conditionally.
func (r *Toolbox) Delete(ctx context.Context, id, ownerID int64) (bool, error) {
	res, err := r.store.Run(ctx, "DELETE FROM toolbox WHERE id = ? AND user_id = ?", id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete toolbox form %d: %w", id, err)
	}
	return res.RowsAffected == 1, nil
}
