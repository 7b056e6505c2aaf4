package repo

import (
	"context"
	"testing"

	"github.com/voltdesk/voltdesk/internal/model"
)

// TestReports_Lifecycle walks the full round trip: create, list by owner,
// full-replace update, then owner deletion emptying the list.
func TestReports_Lifecycle(t *testing.T) {
	s := newTestStore(t)
	users := NewUsers(s)
	reports := NewReports(s)
	ctx := context.Background()

	owner := createUser(t, s, "h1")

	id, err := reports.Create(ctx, &model.Report{
		OwnerID:        owner,
		Title:          "T",
		JobDescription: "D",
		Location:       "L",
		ReportDate:     "2026-08-01",
		ReportTime:     "09:00",
		ToolsUsed:      "multimeter",
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	list, err := reports.ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("ListByOwner() failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("ListByOwner() returned %d reports, want 1", len(list))
	}
	if list[0].Title != "T" || list[0].Status != model.ReportPending {
		t.Errorf("report = %+v, want title T status Pending", list[0])
	}

	// Full replace: every mutable field supplied, status changed.
	updated := *list[0]
	updated.Status = model.ReportCompleted
	ok, err := reports.Update(ctx, id, owner, &updated)
	if err != nil || !ok {
		t.Fatalf("Update() = %v, %v", ok, err)
	}

	got, err := reports.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if got.Status != model.ReportCompleted {
		t.Errorf("status = %q, want Completed", got.Status)
	}
	if got.Title != "T" || got.JobDescription != "D" {
		t.Errorf("full replace lost fields: %+v", got)
	}

	if _, err := users.Delete(ctx, owner); err != nil {
		t.Fatalf("user Delete() failed: %v", err)
	}
	list, err = reports.ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("ListByOwner() after delete failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("ListByOwner() after owner deletion returned %d reports, want 0", len(list))
	}
}

// TestReports_OwnershipIsolation verifies listings never cross owners
// and mutation is conditional on ownership.
func TestReports_OwnershipIsolation(t *testing.T) {
	s := newTestStore(t)
	reports := NewReports(s)
	ctx := context.Background()

	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")

	aliceReport, err := reports.Create(ctx, &model.Report{
		OwnerID: alice, Title: "A", JobDescription: "D", Location: "L",
		ReportDate: "2026-08-01", ReportTime: "08:00",
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	list, _ := reports.ListByOwner(ctx, bob)
	if len(list) != 0 {
		t.Errorf("bob sees %d of alice's reports", len(list))
	}

	// Bob cannot mutate alice's report: ownership check and mutation
	// are one conditional statement.
	ok, err := reports.UpdateStatus(ctx, aliceReport, bob, model.ReportCompleted)
	if err != nil {
		t.Fatalf("UpdateStatus() failed: %v", err)
	}
	if ok {
		t.Error("cross-owner status update succeeded")
	}

	ok, err = reports.Delete(ctx, aliceReport, bob)
	if err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if ok {
		t.Error("cross-owner delete succeeded")
	}

	got, _ := reports.GetByID(ctx, aliceReport)
	if got == nil || got.Status != model.ReportPending {
		t.Errorf("alice's report changed: %+v", got)
	}
}

func TestReports_CountByStatus(t *testing.T) {
	s := newTestStore(t)
	reports := NewReports(s)
	ctx := context.Background()

	owner := createUser(t, s, "h1")
	for _, status := range []string{model.ReportPending, model.ReportPending, model.ReportCompleted} {
		if _, err := reports.Create(ctx, &model.Report{
			OwnerID: owner, Title: "T", JobDescription: "D", Location: "L",
			ReportDate: "2026-08-01", ReportTime: "09:00", Status: status,
		}); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
	}

	counts, err := reports.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus() failed: %v", err)
	}
	if counts[model.ReportPending] != 2 || counts[model.ReportCompleted] != 1 {
		t.Errorf("counts = %v", counts)
	}
}
