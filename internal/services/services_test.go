package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"sitebook/internal/core"
	"sitebook/internal/ledger"
	"sitebook/internal/storage"
)

func newFixture() (*storage.MemoryRepository, *ledger.Store, *ProjectService) {
	repo := storage.NewMemoryRepository()
	entries := ledger.NewStore(repo)
	return repo, entries, NewProjectService(repo, entries)
}

func mustCreateProject(t *testing.T, svc *ProjectService) core.Project {
	t.Helper()
	p, err := svc.CreateProject(context.Background(), core.Project{
		Name:      "Green Villa",
		Location:  "Sector 12",
		Budget:    core.Money{Paise: 1000000},
		StartDate: "2024-01-01",
	})
	if err != nil {
		t.Fatalf("create project failed: %v", err)
	}
	return p
}

func TestCreateProject(t *testing.T) {
	_, _, svc := newFixture()
	p := mustCreateProject(t, svc)
	if p.ID == "" {
		t.Fatalf("expected assigned ID")
	}

	got, err := svc.GetProject(context.Background(), p.ID)
	if err != nil || got.Name != "Green Villa" {
		t.Fatalf("expected project back, got %+v (err=%v)", got, err)
	}

	if _, err := svc.CreateProject(context.Background(), core.Project{Name: "X"}); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for missing budget, got %v", err)
	}
	if _, err := svc.CreateProject(context.Background(), core.Project{Name: "X", Budget: core.Money{Paise: 1}, StartDate: "bad"}); !errors.Is(err, core.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestDeleteProjectRequiresVerification(t *testing.T) {
	ctx := context.Background()
	_, entries, svc := newFixture()
	p := mustCreateProject(t, svc)
	if _, err := entries.Append(ctx, p.ID, core.LedgerEntry{
		Particulars: "Cement",
		Date:        "2024-01-05",
		Amount:      core.Money{Paise: 100},
	}); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	if err := svc.DeleteProject(ctx, p.ID, "green villa"); !errors.Is(err, core.ErrVerificationMismatch) {
		t.Fatalf("expected ErrVerificationMismatch, got %v", err)
	}
	if len(entries.Entries(p.ID)) != 1 {
		t.Fatalf("expected ledger untouched after mismatch")
	}

	if err := svc.DeleteProject(ctx, p.ID, " Green Villa "); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.GetProject(ctx, p.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected project gone, got %v", err)
	}
	if len(entries.Entries(p.ID)) != 0 {
		t.Fatalf("expected ledger dropped with project")
	}
}

func TestCreateClientRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	_, _, svc := newFixture()

	if _, err := svc.CreateClient(ctx, core.Client{Name: "Sharma"}); err != nil {
		t.Fatalf("create client failed: %v", err)
	}
	if _, err := svc.CreateClient(ctx, core.Client{Name: "  sharma "}); !errors.Is(err, core.ErrDuplicateClient) {
		t.Fatalf("expected ErrDuplicateClient, got %v", err)
	}
}

func TestRecordsRequireExistingProject(t *testing.T) {
	ctx := context.Background()
	_, _, svc := newFixture()

	if _, err := svc.AddLabourBill(ctx, core.LabourBill{ProjectID: "ghost", Contractor: "RK", Date: "2024-01-01", Amount: core.Money{Paise: 100}}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.AddClientPayment(ctx, core.ClientPayment{ProjectID: "ghost", Date: "2024-01-01", Amount: core.Money{Paise: 100}}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.SubmitDrawing(ctx, core.Drawing{ProjectID: "ghost", Title: "Plan"}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmitDrawingForcesPending(t *testing.T) {
	ctx := context.Background()
	_, _, svc := newFixture()
	p := mustCreateProject(t, svc)

	d, err := svc.SubmitDrawing(ctx, core.Drawing{
		ProjectID: p.ID,
		Title:     "Ground floor plan",
		Status:    core.DrawingApproved, // callers cannot pre-approve
	})
	if err != nil {
		t.Fatalf("submit drawing failed: %v", err)
	}
	if d.Status != core.DrawingPending {
		t.Fatalf("expected pending, got %s", d.Status)
	}
	if d.SubmittedOn == "" {
		t.Fatalf("expected submitted date defaulted")
	}
}

func TestDecideDrawing(t *testing.T) {
	ctx := context.Background()
	_, _, svc := newFixture()
	p := mustCreateProject(t, svc)

	d, err := svc.SubmitDrawing(ctx, core.Drawing{ProjectID: p.ID, Title: "Elevation"})
	if err != nil {
		t.Fatalf("submit drawing failed: %v", err)
	}

	// Rejection without remarks is refused.
	if _, err := svc.DecideDrawing(ctx, d.ID, false, "  "); !errors.Is(err, core.ErrMissingRemarks) {
		t.Fatalf("expected ErrMissingRemarks, got %v", err)
	}

	decided, err := svc.DecideDrawing(ctx, d.ID, false, "redo the staircase")
	if err != nil {
		t.Fatalf("decide failed: %v", err)
	}
	if decided.Status != core.DrawingRejected || decided.Remarks != "redo the staircase" || decided.DecidedOn == "" {
		t.Fatalf("unexpected decision: %+v", decided)
	}

	// A decided drawing cannot be decided again.
	if _, err := svc.DecideDrawing(ctx, d.ID, true, ""); !errors.Is(err, core.ErrDrawingDecided) {
		t.Fatalf("expected ErrDrawingDecided, got %v", err)
	}
}

func TestReportFiltersAndAggregates(t *testing.T) {
	ctx := context.Background()
	repo, entries, svc := newFixture()
	p := mustCreateProject(t, svc)
	dash := NewDashboardService(repo, entries)

	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	for _, e := range []core.LedgerEntry{
		{Particulars: "Cement", Date: "2024-06-10", Amount: core.Money{Paise: 100000}, Paid: core.Money{Paise: 40000}},
		{Particulars: "cement", Date: "2024-06-12", Amount: core.Money{Paise: 50000}},
		{Particulars: "Steel", Date: "2024-01-10", Amount: core.Money{Paise: 200000}},
	} {
		if _, err := entries.Append(ctx, p.ID, e); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	groups, err := dash.Report(ctx, p.ID, core.FilterCriterion{Range: core.RangeMonth}, now)
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if len(groups) != 1 || groups[0].Particulars != "Cement" {
		t.Fatalf("expected only the cement group inside the month, got %v", groups)
	}
	if groups[0].TotalAmount.Paise != 150000 {
		t.Fatalf("expected total 150000, got %d", groups[0].TotalAmount.Paise)
	}

	if _, err := dash.Report(ctx, "ghost", core.FilterCriterion{Range: core.RangeAll}, now); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown project, got %v", err)
	}
}

func TestDashboardAssembly(t *testing.T) {
	ctx := context.Background()
	repo, entries, svc := newFixture()
	p := mustCreateProject(t, svc)
	dash := NewDashboardService(repo, entries)

	// Seeded directly: the third entry carries a legacy unparseable date that
	// the append path would reject today.
	entries.Load(p.ID, []core.LedgerEntry{
		{ID: "e1", SequenceNo: "01", Particulars: "Cement", Date: "2024-01-05", Amount: core.Money{Paise: 150000}, Paid: core.Money{Paise: 130000}, Balance: core.Money{Paise: 20000}},
		{ID: "e2", SequenceNo: "02", Particulars: "Steel", Date: "2024-01-06", Amount: core.Money{Paise: 250000}, Paid: core.Money{Paise: 250000}},
		{ID: "e3", SequenceNo: "03", Particulars: "Sand", Date: "whenever", Amount: core.Money{Paise: 10000}},
	})
	if _, err := svc.AddClientPayment(ctx, core.ClientPayment{ProjectID: p.ID, Date: "2024-01-10", Amount: core.Money{Paise: 300000}}); err != nil {
		t.Fatalf("add payment failed: %v", err)
	}
	if _, err := svc.AddLabourBill(ctx, core.LabourBill{ProjectID: p.ID, Contractor: "RK", Date: "2024-01-11", Amount: core.Money{Paise: 500000}, Paid: core.Money{Paise: 200000}}); err != nil {
		t.Fatalf("add bill failed: %v", err)
	}
	if _, err := svc.SubmitDrawing(ctx, core.Drawing{ProjectID: p.ID, Title: "Plan"}); err != nil {
		t.Fatalf("submit drawing failed: %v", err)
	}

	d, err := dash.Dashboard(ctx, p.ID)
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	if d.Project.ID != p.ID {
		t.Fatalf("unexpected project %q", d.Project.ID)
	}
	if d.Metrics.Spent.Paise != 410000 {
		t.Fatalf("expected spent 410000, got %d", d.Metrics.Spent.Paise)
	}
	if d.Metrics.PaymentsReceived.Paise != 300000 {
		t.Fatalf("expected received 300000, got %d", d.Metrics.PaymentsReceived.Paise)
	}
	if d.LabourOutstanding.Paise != 300000 {
		t.Fatalf("expected labour outstanding 300000, got %d", d.LabourOutstanding.Paise)
	}
	if d.PendingDrawings != 1 {
		t.Fatalf("expected 1 pending drawing, got %d", d.PendingDrawings)
	}
	if d.MalformedEntries != 1 {
		t.Fatalf("expected 1 malformed entry, got %d", d.MalformedEntries)
	}
	if len(d.RecentActivity) != 3 || len(d.Materials) != 3 {
		t.Fatalf("expected 3 groups in activity and materials, got %d/%d", len(d.RecentActivity), len(d.Materials))
	}
}

func TestRequestExport(t *testing.T) {
	ctx := context.Background()
	repo, entries, svc := newFixture()
	p := mustCreateProject(t, svc)
	_ = entries

	// nil AMQP client: the request is still recorded for the worker sweep.
	exports := NewExportService(repo, nil)

	id, err := exports.RequestExport(ctx, p.ID, "", "cement")
	if err != nil {
		t.Fatalf("request export failed: %v", err)
	}
	req, err := repo.GetExportRequest(ctx, id)
	if err != nil {
		t.Fatalf("get export request failed: %v", err)
	}
	if req.Status != "pending" || req.DateRange != string(core.RangeAll) || req.Particulars != "cement" {
		t.Fatalf("unexpected request row: %+v", req)
	}

	if _, err := exports.RequestExport(ctx, p.ID, "fortnight", ""); err == nil {
		t.Fatalf("expected error for unknown range")
	}
	if _, err := exports.RequestExport(ctx, "ghost", core.RangeAll, ""); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
