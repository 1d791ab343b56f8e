package storage

import (
	"context"
	"strings"
	"sync"
	"time"

	"sitebook/internal/core"
)

// MemoryRepository is an in-process repository used in development and
// tests, when no SQLite database is configured. It implements the same
// surface as SQLiteRepository, including the ledger mirror and the export
// request queue.
type MemoryRepository struct {
	mu           sync.Mutex
	entries      map[string][]core.LedgerEntry
	projects     map[string]core.Project
	projectOrder []string
	clients      []core.Client
	labourBills  map[string][]core.LabourBill
	payments     map[string][]core.ClientPayment
	drawings     map[string]core.Drawing
	drawingOrder []string
	exports      map[int64]ExportRequest
	nextExportID int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		entries:     make(map[string][]core.LedgerEntry),
		projects:    make(map[string]core.Project),
		labourBills: make(map[string][]core.LabourBill),
		payments:    make(map[string][]core.ClientPayment),
		drawings:    make(map[string]core.Drawing),
		exports:     make(map[int64]ExportRequest),
	}
}

func (r *MemoryRepository) Close() error { return nil }

// SaveEntries implements ledger.Mirror.
func (r *MemoryRepository) SaveEntries(_ context.Context, projectID string, entries []core.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[projectID] = append([]core.LedgerEntry(nil), entries...)
	return nil
}

func (r *MemoryRepository) LoadEntries(_ context.Context, projectID string) ([]core.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.LedgerEntry(nil), r.entries[projectID]...), nil
}

func (r *MemoryRepository) CreateProject(_ context.Context, p core.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[p.ID]; !ok {
		r.projectOrder = append(r.projectOrder, p.ID)
	}
	r.projects[p.ID] = p
	return nil
}

func (r *MemoryRepository) GetProject(_ context.Context, id string) (core.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return core.Project{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryRepository) ListProjects(_ context.Context) ([]core.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]core.Project, 0, len(r.projectOrder))
	for _, id := range r.projectOrder {
		out = append(out, r.projects[id])
	}
	return out, nil
}

func (r *MemoryRepository) DeleteProject(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.projects, id)
	for i, pid := range r.projectOrder {
		if pid == id {
			r.projectOrder = append(r.projectOrder[:i], r.projectOrder[i+1:]...)
			break
		}
	}
	delete(r.entries, id)
	delete(r.labourBills, id)
	delete(r.payments, id)
	for did, d := range r.drawings {
		if d.ProjectID == id {
			delete(r.drawings, did)
		}
	}
	return nil
}

func (r *MemoryRepository) CreateClient(_ context.Context, c core.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(strings.TrimSpace(c.Name))
	for _, existing := range r.clients {
		if strings.ToLower(strings.TrimSpace(existing.Name)) == key {
			return core.ErrDuplicateClient
		}
	}
	r.clients = append(r.clients, c)
	return nil
}

func (r *MemoryRepository) ListClients(_ context.Context) ([]core.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.Client(nil), r.clients...), nil
}

func (r *MemoryRepository) CreateLabourBill(_ context.Context, b core.LabourBill) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.labourBills[b.ProjectID] = append(r.labourBills[b.ProjectID], b)
	return nil
}

func (r *MemoryRepository) ListLabourBills(_ context.Context, projectID string) ([]core.LabourBill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.LabourBill(nil), r.labourBills[projectID]...), nil
}

func (r *MemoryRepository) CreateClientPayment(_ context.Context, p core.ClientPayment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments[p.ProjectID] = append(r.payments[p.ProjectID], p)
	return nil
}

func (r *MemoryRepository) ListClientPayments(_ context.Context, projectID string) ([]core.ClientPayment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.ClientPayment(nil), r.payments[projectID]...), nil
}

func (r *MemoryRepository) CreateDrawing(_ context.Context, d core.Drawing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.drawings[d.ID]; !ok {
		r.drawingOrder = append(r.drawingOrder, d.ID)
	}
	r.drawings[d.ID] = d
	return nil
}

func (r *MemoryRepository) GetDrawing(_ context.Context, id string) (core.Drawing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drawings[id]
	if !ok {
		return core.Drawing{}, ErrNotFound
	}
	return d, nil
}

func (r *MemoryRepository) ListDrawings(_ context.Context, projectID string) ([]core.Drawing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.Drawing
	for _, id := range r.drawingOrder {
		if d, ok := r.drawings[id]; ok && d.ProjectID == projectID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *MemoryRepository) SetDrawingStatus(_ context.Context, id string, status core.DrawingStatus, decidedOn, remarks string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drawings[id]
	if !ok {
		return ErrNotFound
	}
	d.Status = status
	d.DecidedOn = decidedOn
	d.Remarks = remarks
	r.drawings[id] = d
	return nil
}

func (r *MemoryRepository) CreateExportRequest(_ context.Context, projectID, dateRange, particulars string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextExportID++
	id := r.nextExportID
	r.exports[id] = ExportRequest{
		ID:          id,
		ProjectID:   projectID,
		DateRange:   dateRange,
		Particulars: particulars,
		Status:      "pending",
		RequestedAt: time.Now(),
	}
	return id, nil
}

func (r *MemoryRepository) GetExportRequest(_ context.Context, id int64) (ExportRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.exports[id]
	if !ok {
		return ExportRequest{}, ErrNotFound
	}
	return req, nil
}

func (r *MemoryRepository) GetPendingExportRequests(_ context.Context, limit int) ([]ExportRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ExportRequest
	for id := int64(1); id <= r.nextExportID && len(out) < limit; id++ {
		if req, ok := r.exports[id]; ok && req.Status == "pending" {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *MemoryRepository) MarkExportDone(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.exports[id]
	if !ok {
		return ErrNotFound
	}
	req.Status = "done"
	req.LastError = ""
	r.exports[id] = req
	return nil
}

func (r *MemoryRepository) MarkExportError(_ context.Context, id int64, cause error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.exports[id]
	if !ok {
		return ErrNotFound
	}
	req.Status = "error"
	if cause != nil {
		req.LastError = cause.Error()
	}
	r.exports[id] = req
	return nil
}
