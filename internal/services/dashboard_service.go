package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"sitebook/internal/core"
	"sitebook/internal/ledger"
)

// Dashboard is everything the project overview page shows in one fetch.
type Dashboard struct {
	Project           core.Project
	Metrics           core.ProjectMetrics
	RecentActivity    []core.AggregatedGroup
	Materials         []core.MaterialStock
	LabourOutstanding core.Money
	PendingDrawings   int
	MalformedEntries  int
}

// DashboardService assembles the read-side views: the aggregated report,
// the material stock view and the overview dashboard.
type DashboardService struct {
	repo    Repository
	entries *ledger.Store
}

func NewDashboardService(repo Repository, entries *ledger.Store) *DashboardService {
	return &DashboardService{
		repo:    repo,
		entries: entries,
	}
}

// Report returns the aggregated groups for the entries matching the
// criterion, most recently touched first.
func (s *DashboardService) Report(ctx context.Context, projectID string, c core.FilterCriterion, now time.Time) ([]core.AggregatedGroup, error) {
	if _, err := s.repo.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	entries, err := core.Filter(s.entries.Entries(projectID), c, now)
	if err != nil {
		return nil, err
	}
	return core.Aggregate(entries), nil
}

// Materials returns the material stock view over the full entry list.
func (s *DashboardService) Materials(ctx context.Context, projectID string) ([]core.MaterialStock, error) {
	if _, err := s.repo.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	return core.MaterialView(core.Aggregate(s.entries.Entries(projectID))), nil
}

// Dashboard fans out the repository reads concurrently and folds the
// results with the in-memory ledger into the overview.
func (s *DashboardService) Dashboard(ctx context.Context, projectID string) (Dashboard, error) {
	var (
		project  core.Project
		payments []core.ClientPayment
		bills    []core.LabourBill
		drawings []core.Drawing
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		project, err = s.repo.GetProject(gctx, projectID)
		return err
	})
	g.Go(func() error {
		var err error
		payments, err = s.repo.ListClientPayments(gctx, projectID)
		if err != nil {
			return fmt.Errorf("list payments: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		bills, err = s.repo.ListLabourBills(gctx, projectID)
		if err != nil {
			return fmt.Errorf("list labour bills: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		drawings, err = s.repo.ListDrawings(gctx, projectID)
		if err != nil {
			return fmt.Errorf("list drawings: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	entries := s.entries.Entries(projectID)
	groups := core.Aggregate(entries)

	var outstanding core.Money
	for _, b := range bills {
		outstanding.Paise += b.Outstanding().Paise
	}

	pending := 0
	for _, d := range drawings {
		if d.Status == core.DrawingPending {
			pending++
		}
	}

	return Dashboard{
		Project:           project,
		Metrics:           core.DeriveMetrics(project.Budget, groups, payments),
		RecentActivity:    core.Recent(entries, 5),
		Materials:         core.MaterialView(groups),
		LabourOutstanding: outstanding,
		PendingDrawings:   pending,
		MalformedEntries:  len(core.Malformed(entries)),
	}, nil
}
