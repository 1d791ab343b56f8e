package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"sitebook/internal/core"
	"sitebook/internal/ledger"
)

// ProjectService orchestrates project lifecycle and the per-project records
// (clients, labour bills, client payments, drawings) across the repository
// and the in-memory ledger.
type ProjectService struct {
	repo    Repository
	entries *ledger.Store
}

func NewProjectService(repo Repository, entries *ledger.Store) *ProjectService {
	return &ProjectService{
		repo:    repo,
		entries: entries,
	}
}

// CreateProject validates and saves a new project, assigning its identity.
func (s *ProjectService) CreateProject(ctx context.Context, p core.Project) (core.Project, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.StartDate != "" {
		d, err := core.NormalizeDate(p.StartDate)
		if err != nil {
			return core.Project{}, err
		}
		p.StartDate = d
	}
	if err := p.Validate(); err != nil {
		return core.Project{}, err
	}
	if err := s.repo.CreateProject(ctx, p); err != nil {
		return core.Project{}, fmt.Errorf("create project: %w", err)
	}
	return p, nil
}

func (s *ProjectService) GetProject(ctx context.Context, id string) (core.Project, error) {
	return s.repo.GetProject(ctx, id)
}

func (s *ProjectService) ListProjects(ctx context.Context) ([]core.Project, error) {
	return s.repo.ListProjects(ctx)
}

// DeleteProject removes a project and everything recorded under it. The
// caller must echo the project name as verification text; a mismatch
// aborts the deletion.
func (s *ProjectService) DeleteProject(ctx context.Context, id, verification string) error {
	p, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return err
	}
	if strings.TrimSpace(verification) != p.Name {
		return core.ErrVerificationMismatch
	}
	if err := s.repo.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	s.entries.Drop(ctx, id)

	slog.InfoContext(ctx, "Project deleted",
		"project_id", id,
		"name", p.Name)
	return nil
}

// CreateClient registers a client in the shared directory. Duplicate names
// are rejected case-insensitively by the repository.
func (s *ProjectService) CreateClient(ctx context.Context, c core.Client) (core.Client, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if err := c.Validate(); err != nil {
		return core.Client{}, err
	}
	if err := s.repo.CreateClient(ctx, c); err != nil {
		return core.Client{}, err
	}
	return c, nil
}

func (s *ProjectService) ListClients(ctx context.Context) ([]core.Client, error) {
	return s.repo.ListClients(ctx)
}

// AddLabourBill records a contractor bill against a project.
func (s *ProjectService) AddLabourBill(ctx context.Context, b core.LabourBill) (core.LabourBill, error) {
	if _, err := s.repo.GetProject(ctx, b.ProjectID); err != nil {
		return core.LabourBill{}, err
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if d, err := core.NormalizeDate(b.Date); err == nil {
		b.Date = d
	}
	if err := b.Validate(); err != nil {
		return core.LabourBill{}, err
	}
	if err := s.repo.CreateLabourBill(ctx, b); err != nil {
		return core.LabourBill{}, fmt.Errorf("add labour bill: %w", err)
	}
	return b, nil
}

func (s *ProjectService) ListLabourBills(ctx context.Context, projectID string) ([]core.LabourBill, error) {
	return s.repo.ListLabourBills(ctx, projectID)
}

// AddClientPayment records money received from the client.
func (s *ProjectService) AddClientPayment(ctx context.Context, p core.ClientPayment) (core.ClientPayment, error) {
	if _, err := s.repo.GetProject(ctx, p.ProjectID); err != nil {
		return core.ClientPayment{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if d, err := core.NormalizeDate(p.Date); err == nil {
		p.Date = d
	}
	if err := p.Validate(); err != nil {
		return core.ClientPayment{}, err
	}
	if err := s.repo.CreateClientPayment(ctx, p); err != nil {
		return core.ClientPayment{}, fmt.Errorf("add client payment: %w", err)
	}
	return p, nil
}

func (s *ProjectService) ListClientPayments(ctx context.Context, projectID string) ([]core.ClientPayment, error) {
	return s.repo.ListClientPayments(ctx, projectID)
}

// SubmitDrawing registers a new drawing in the pending state.
func (s *ProjectService) SubmitDrawing(ctx context.Context, d core.Drawing) (core.Drawing, error) {
	if _, err := s.repo.GetProject(ctx, d.ProjectID); err != nil {
		return core.Drawing{}, err
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	d.Status = core.DrawingPending
	d.DecidedOn = ""
	if d.SubmittedOn == "" {
		d.SubmittedOn = time.Now().Format(core.DateLayout)
	} else if nd, err := core.NormalizeDate(d.SubmittedOn); err == nil {
		d.SubmittedOn = nd
	}
	if err := d.Validate(); err != nil {
		return core.Drawing{}, err
	}
	if err := s.repo.CreateDrawing(ctx, d); err != nil {
		return core.Drawing{}, fmt.Errorf("submit drawing: %w", err)
	}
	return d, nil
}

func (s *ProjectService) ListDrawings(ctx context.Context, projectID string) ([]core.Drawing, error) {
	return s.repo.ListDrawings(ctx, projectID)
}

// DecideDrawing approves or rejects a pending drawing. Only pending
// drawings can be decided, and a rejection must carry remarks explaining
// the required changes.
func (s *ProjectService) DecideDrawing(ctx context.Context, id string, approve bool, remarks string) (core.Drawing, error) {
	d, err := s.repo.GetDrawing(ctx, id)
	if err != nil {
		return core.Drawing{}, err
	}
	if d.Status != core.DrawingPending {
		return core.Drawing{}, core.ErrDrawingDecided
	}

	status := core.DrawingApproved
	if !approve {
		if strings.TrimSpace(remarks) == "" {
			return core.Drawing{}, core.ErrMissingRemarks
		}
		status = core.DrawingRejected
	}
	decidedOn := time.Now().Format(core.DateLayout)

	if err := s.repo.SetDrawingStatus(ctx, id, status, decidedOn, remarks); err != nil {
		return core.Drawing{}, fmt.Errorf("decide drawing: %w", err)
	}

	d.Status = status
	d.DecidedOn = decidedOn
	d.Remarks = remarks
	return d, nil
}
