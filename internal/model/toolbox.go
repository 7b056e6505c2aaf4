package model

import (
	"fmt"
	"time"
)

// ToolboxForm is a pre-work toolbox talk safety form. Hazards is
// required: a toolbox talk without a hazard assessment is incomplete.
type ToolboxForm struct {
	ID             int64     `json:"id"`
	OwnerID        int64     `json:"user_id"`
	WorkActivity   string    `json:"work_activity"`
	Date           string    `json:"date"`
	WorkLocation   string    `json:"work_location"`
	NameCompany    string    `json:"name_company"`
	Sign           string    `json:"sign"`
	PPENo          string    `json:"ppe_no"`
	ToolsUsed      string    `json:"tools_used"`
	Hazards        string    `json:"hazards"`
	Circulars      string    `json:"circulars,omitempty"`
	RiskAssessment string    `json:"risk_assessment,omitempty"`
	Permit         string    `json:"permit,omitempty"`
	Remarks        string    `json:"remarks,omitempty"`
	PreparedBy     string    `json:"prepared_by"`
	VerifiedBy     string    `json:"verified_by"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// Validate checks the fields required to create a ToolboxForm.
func (f *ToolboxForm) Validate() error {
	required := []struct {
		name, value string
	}{
		{"work_activity", f.WorkActivity},
		{"date", f.Date},
		{"work_location", f.WorkLocation},
		{"name_company", f.NameCompany},
		{"sign", f.Sign},
		{"ppe_no", f.PPENo},
		{"tools_used", f.ToolsUsed},
		{"hazards", f.Hazards},
		{"prepared_by", f.PreparedBy},
		{"verified_by", f.VerifiedBy},
	}
	for _, field := range required {
		if field.value == "" {
			return fmt.Errorf("%s is required", field.name)
		}
	}
	if f.OwnerID == 0 {
		return fmt.Errorf("user_id is required")
	}
	return nil
}
