package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"sitebook/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repo := &SQLiteRepository{
		db:      db,
		queries: New(db),
	}

	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveEntries implements ledger.Mirror. The full entry list replaces the
// project's rows in one transaction; the in-memory store stays the source
// of truth for sequence numbers and ordering.
func (r *SQLiteRepository) SaveEntries(ctx context.Context, projectID string, entries []core.LedgerEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)
	if err := qtx.DeleteEntriesByProject(ctx, projectID); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}
	for _, e := range entries {
		if err := qtx.InsertEntry(ctx, entryToRow(projectID, e)); err != nil {
			return fmt.Errorf("insert entry %s: %w", e.SequenceNo, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.DebugContext(ctx, "Ledger entries mirrored to SQLite",
		"project_id", projectID,
		"count", len(entries))
	return nil
}

// LoadEntries restores a project's entry list for seeding the in-memory
// store at startup.
func (r *SQLiteRepository) LoadEntries(ctx context.Context, projectID string) ([]core.LedgerEntry, error) {
	rows, err := r.queries.ListEntriesByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	entries := make([]core.LedgerEntry, len(rows))
	for i, e := range rows {
		entries[i] = rowToEntry(e)
	}
	return entries, nil
}

func (r *SQLiteRepository) CreateProject(ctx context.Context, p core.Project) error {
	err := r.queries.CreateProject(ctx, Project{
		ID:          p.ID,
		Name:        p.Name,
		Client:      p.Client,
		Location:    p.Location,
		BudgetPaise: p.Budget.Paise,
		StartDate:   p.StartDate,
	})
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}

	slog.InfoContext(ctx, "Project saved to SQLite",
		"project_id", p.ID,
		"name", p.Name,
		"budget_paise", p.Budget.Paise)
	return nil
}

func (r *SQLiteRepository) GetProject(ctx context.Context, id string) (core.Project, error) {
	p, err := r.queries.GetProject(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Project{}, ErrNotFound
	}
	if err != nil {
		return core.Project{}, fmt.Errorf("get project: %w", err)
	}
	return rowToProject(p), nil
}

func (r *SQLiteRepository) ListProjects(ctx context.Context) ([]core.Project, error) {
	rows, err := r.queries.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	out := make([]core.Project, len(rows))
	for i, p := range rows {
		out[i] = rowToProject(p)
	}
	return out, nil
}

// DeleteProject removes the project row; entries, bills, payments and
// drawings go with it via ON DELETE CASCADE.
func (r *SQLiteRepository) DeleteProject(ctx context.Context, id string) error {
	if err := r.queries.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	slog.InfoContext(ctx, "Project deleted from SQLite", "project_id", id)
	return nil
}

// CreateClient rejects duplicate names case-insensitively.
func (r *SQLiteRepository) CreateClient(ctx context.Context, c core.Client) error {
	key := strings.ToLower(strings.TrimSpace(c.Name))
	exists, err := r.queries.ClientExists(ctx, key)
	if err != nil {
		return fmt.Errorf("check client name: %w", err)
	}
	if exists {
		return core.ErrDuplicateClient
	}
	err = r.queries.CreateClient(ctx, Client{
		ID:      c.ID,
		Name:    c.Name,
		NameKey: key,
		Phone:   c.Phone,
		Email:   c.Email,
	})
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListClients(ctx context.Context) ([]core.Client, error) {
	rows, err := r.queries.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	out := make([]core.Client, len(rows))
	for i, c := range rows {
		out[i] = core.Client{ID: c.ID, Name: c.Name, Phone: c.Phone, Email: c.Email}
	}
	return out, nil
}

func (r *SQLiteRepository) CreateLabourBill(ctx context.Context, b core.LabourBill) error {
	err := r.queries.CreateLabourBill(ctx, LabourBill{
		ID:          b.ID,
		ProjectID:   b.ProjectID,
		Contractor:  b.Contractor,
		Description: b.Description,
		BillDate:    b.Date,
		AmountPaise: b.Amount.Paise,
		PaidPaise:   b.Paid.Paise,
	})
	if err != nil {
		return fmt.Errorf("create labour bill: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListLabourBills(ctx context.Context, projectID string) ([]core.LabourBill, error) {
	rows, err := r.queries.ListLabourBills(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list labour bills: %w", err)
	}
	out := make([]core.LabourBill, len(rows))
	for i, b := range rows {
		out[i] = core.LabourBill{
			ID:          b.ID,
			ProjectID:   b.ProjectID,
			Contractor:  b.Contractor,
			Description: b.Description,
			Date:        b.BillDate,
			Amount:      core.Money{Paise: b.AmountPaise},
			Paid:        core.Money{Paise: b.PaidPaise},
		}
	}
	return out, nil
}

func (r *SQLiteRepository) CreateClientPayment(ctx context.Context, p core.ClientPayment) error {
	err := r.queries.CreateClientPayment(ctx, ClientPayment{
		ID:          p.ID,
		ProjectID:   p.ProjectID,
		PayDate:     p.Date,
		AmountPaise: p.Amount.Paise,
		Mode:        p.Mode,
		Reference:   p.Reference,
		Remarks:     p.Remarks,
	})
	if err != nil {
		return fmt.Errorf("create client payment: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListClientPayments(ctx context.Context, projectID string) ([]core.ClientPayment, error) {
	rows, err := r.queries.ListClientPayments(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list client payments: %w", err)
	}
	out := make([]core.ClientPayment, len(rows))
	for i, p := range rows {
		out[i] = core.ClientPayment{
			ID:        p.ID,
			ProjectID: p.ProjectID,
			Date:      p.PayDate,
			Amount:    core.Money{Paise: p.AmountPaise},
			Mode:      p.Mode,
			Reference: p.Reference,
			Remarks:   p.Remarks,
		}
	}
	return out, nil
}

func (r *SQLiteRepository) CreateDrawing(ctx context.Context, d core.Drawing) error {
	err := r.queries.CreateDrawing(ctx, Drawing{
		ID:          d.ID,
		ProjectID:   d.ProjectID,
		Title:       d.Title,
		SheetNo:     d.SheetNo,
		Status:      d.Status.String(),
		SubmittedOn: d.SubmittedOn,
		DecidedOn:   d.DecidedOn,
		Remarks:     d.Remarks,
	})
	if err != nil {
		return fmt.Errorf("create drawing: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetDrawing(ctx context.Context, id string) (core.Drawing, error) {
	d, err := r.queries.GetDrawing(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Drawing{}, ErrNotFound
	}
	if err != nil {
		return core.Drawing{}, fmt.Errorf("get drawing: %w", err)
	}
	return rowToDrawing(d), nil
}

func (r *SQLiteRepository) ListDrawings(ctx context.Context, projectID string) ([]core.Drawing, error) {
	rows, err := r.queries.ListDrawings(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}
	out := make([]core.Drawing, len(rows))
	for i, d := range rows {
		out[i] = rowToDrawing(d)
	}
	return out, nil
}

func (r *SQLiteRepository) SetDrawingStatus(ctx context.Context, id string, status core.DrawingStatus, decidedOn, remarks string) error {
	if err := r.queries.SetDrawingStatus(ctx, id, status.String(), decidedOn, remarks); err != nil {
		return fmt.Errorf("set drawing status: %w", err)
	}
	slog.InfoContext(ctx, "Drawing status updated",
		"drawing_id", id,
		"status", status.String())
	return nil
}

// CreateExportRequest records a pending spreadsheet export and returns its
// queue ID.
func (r *SQLiteRepository) CreateExportRequest(ctx context.Context, projectID, dateRange, particulars string) (int64, error) {
	id, err := r.queries.CreateExportRequest(ctx, projectID, dateRange, particulars)
	if err != nil {
		return 0, fmt.Errorf("create export request: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetExportRequest(ctx context.Context, id int64) (ExportRequest, error) {
	req, err := r.queries.GetExportRequest(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ExportRequest{}, ErrNotFound
	}
	if err != nil {
		return ExportRequest{}, fmt.Errorf("get export request: %w", err)
	}
	return req, nil
}

// GetPendingExportRequests returns exports that have not completed yet.
// This backs the worker's sweep in case AMQP messages are lost.
func (r *SQLiteRepository) GetPendingExportRequests(ctx context.Context, limit int) ([]ExportRequest, error) {
	reqs, err := r.queries.ListPendingExportRequests(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list pending export requests: %w", err)
	}
	return reqs, nil
}

// MarkExportDone marks an export request as successfully completed.
func (r *SQLiteRepository) MarkExportDone(ctx context.Context, id int64) error {
	if err := r.queries.MarkExportDone(ctx, id); err != nil {
		return fmt.Errorf("mark export done: %w", err)
	}
	slog.InfoContext(ctx, "Export request marked done", "export_id", id)
	return nil
}

// MarkExportError marks an export request as failed with its last error.
func (r *SQLiteRepository) MarkExportError(ctx context.Context, id int64, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	if err := r.queries.MarkExportError(ctx, id, msg); err != nil {
		return fmt.Errorf("mark export error: %w", err)
	}
	slog.WarnContext(ctx, "Export request marked with error", "export_id", id, "cause", msg)
	return nil
}

func entryToRow(projectID string, e core.LedgerEntry) LedgerEntry {
	return LedgerEntry{
		ID:            e.ID,
		ProjectID:     projectID,
		SequenceNo:    e.SequenceNo,
		DRNo:          e.DRNo,
		Particulars:   e.Particulars,
		EntryDate:     e.Date,
		AmountPaise:   e.Amount.Paise,
		PaidPaise:     e.Paid.Paise,
		BalancePaise:  e.Balance.Paise,
		Unit:          e.Unit,
		Quantity:      e.Quantity,
		ReceivedPaise: e.Received.Paise,
		ConsumedPaise: e.Consumed.Paise,
		Remarks:       e.Remarks,
	}
}

func rowToEntry(e LedgerEntry) core.LedgerEntry {
	return core.LedgerEntry{
		ID:          e.ID,
		SequenceNo:  e.SequenceNo,
		DRNo:        e.DRNo,
		Particulars: e.Particulars,
		Date:        e.EntryDate,
		Amount:      core.Money{Paise: e.AmountPaise},
		Paid:        core.Money{Paise: e.PaidPaise},
		Balance:     core.Money{Paise: e.BalancePaise},
		Unit:        e.Unit,
		Quantity:    e.Quantity,
		Received:    core.Money{Paise: e.ReceivedPaise},
		Consumed:    core.Money{Paise: e.ConsumedPaise},
		Remarks:     e.Remarks,
	}
}

func rowToProject(p Project) core.Project {
	return core.Project{
		ID:        p.ID,
		Name:      p.Name,
		Client:    p.Client,
		Location:  p.Location,
		Budget:    core.Money{Paise: p.BudgetPaise},
		StartDate: p.StartDate,
	}
}

func rowToDrawing(d Drawing) core.Drawing {
	return core.Drawing{
		ID:          d.ID,
		ProjectID:   d.ProjectID,
		Title:       d.Title,
		SheetNo:     d.SheetNo,
		Status:      core.DrawingStatus(d.Status),
		SubmittedOn: d.SubmittedOn,
		DecidedOn:   d.DecidedOn,
		Remarks:     d.Remarks,
	}
}
