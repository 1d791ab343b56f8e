package storage

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is the subset of *sql.DB / *sql.Tx the query layer needs.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// WithTx returns a Queries bound to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type Project struct {
	ID          string
	Name        string
	Client      string
	Location    string
	BudgetPaise int64
	StartDate   string
	CreatedAt   time.Time
}

type LedgerEntry struct {
	ID            string
	ProjectID     string
	SequenceNo    string
	DRNo          string
	Particulars   string
	EntryDate     string
	AmountPaise   int64
	PaidPaise     int64
	BalancePaise  int64
	Unit          string
	Quantity      float64
	ReceivedPaise int64
	ConsumedPaise int64
	Remarks       string
}

type Client struct {
	ID      string
	Name    string
	NameKey string
	Phone   string
	Email   string
}

type LabourBill struct {
	ID          string
	ProjectID   string
	Contractor  string
	Description string
	BillDate    string
	AmountPaise int64
	PaidPaise   int64
}

type ClientPayment struct {
	ID          string
	ProjectID   string
	PayDate     string
	AmountPaise int64
	Mode        string
	Reference   string
	Remarks     string
}

type Drawing struct {
	ID          string
	ProjectID   string
	Title       string
	SheetNo     string
	Status      string
	SubmittedOn string
	DecidedOn   string
	Remarks     string
}

type ExportRequest struct {
	ID          int64
	ProjectID   string
	DateRange   string
	Particulars string
	Status      string
	LastError   string
	RequestedAt time.Time
}

const createProject = `
INSERT INTO projects (id, name, client, location, budget_paise, start_date)
VALUES (?, ?, ?, ?, ?, ?)
`

func (q *Queries) CreateProject(ctx context.Context, p Project) error {
	_, err := q.db.ExecContext(ctx, createProject,
		p.ID, p.Name, p.Client, p.Location, p.BudgetPaise, p.StartDate)
	return err
}

const getProject = `
SELECT id, name, client, location, budget_paise, start_date, created_at
FROM projects WHERE id = ?
`

func (q *Queries) GetProject(ctx context.Context, id string) (Project, error) {
	var p Project
	err := q.db.QueryRowContext(ctx, getProject, id).Scan(
		&p.ID, &p.Name, &p.Client, &p.Location, &p.BudgetPaise, &p.StartDate, &p.CreatedAt)
	return p, err
}

const listProjects = `
SELECT id, name, client, location, budget_paise, start_date, created_at
FROM projects ORDER BY created_at DESC, name
`

func (q *Queries) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := q.db.QueryContext(ctx, listProjects)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Client, &p.Location, &p.BudgetPaise, &p.StartDate, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

const deleteProject = `DELETE FROM projects WHERE id = ?`

func (q *Queries) DeleteProject(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, deleteProject, id)
	return err
}

const deleteEntriesByProject = `DELETE FROM ledger_entries WHERE project_id = ?`

func (q *Queries) DeleteEntriesByProject(ctx context.Context, projectID string) error {
	_, err := q.db.ExecContext(ctx, deleteEntriesByProject, projectID)
	return err
}

const insertEntry = `
INSERT INTO ledger_entries (
	id, project_id, sequence_no, dr_no, particulars, entry_date,
	amount_paise, paid_paise, balance_paise, unit, quantity,
	received_paise, consumed_paise, remarks
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) InsertEntry(ctx context.Context, e LedgerEntry) error {
	_, err := q.db.ExecContext(ctx, insertEntry,
		e.ID, e.ProjectID, e.SequenceNo, e.DRNo, e.Particulars, e.EntryDate,
		e.AmountPaise, e.PaidPaise, e.BalancePaise, e.Unit, e.Quantity,
		e.ReceivedPaise, e.ConsumedPaise, e.Remarks)
	return err
}

const listEntriesByProject = `
SELECT id, project_id, sequence_no, dr_no, particulars, entry_date,
	amount_paise, paid_paise, balance_paise, unit, quantity,
	received_paise, consumed_paise, remarks
FROM ledger_entries WHERE project_id = ? ORDER BY sequence_no
`

func (q *Queries) ListEntriesByProject(ctx context.Context, projectID string) ([]LedgerEntry, error) {
	rows, err := q.db.QueryContext(ctx, listEntriesByProject, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LedgerEntry
	for rows.Next() {
		var e LedgerEntry
		if err := rows.Scan(&e.ID, &e.ProjectID, &e.SequenceNo, &e.DRNo, &e.Particulars, &e.EntryDate,
			&e.AmountPaise, &e.PaidPaise, &e.BalancePaise, &e.Unit, &e.Quantity,
			&e.ReceivedPaise, &e.ConsumedPaise, &e.Remarks); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

const createClient = `
INSERT INTO clients (id, name, name_key, phone, email) VALUES (?, ?, ?, ?, ?)
`

func (q *Queries) CreateClient(ctx context.Context, c Client) error {
	_, err := q.db.ExecContext(ctx, createClient, c.ID, c.Name, c.NameKey, c.Phone, c.Email)
	return err
}

const clientExists = `SELECT COUNT(1) FROM clients WHERE name_key = ?`

func (q *Queries) ClientExists(ctx context.Context, nameKey string) (bool, error) {
	var n int64
	if err := q.db.QueryRowContext(ctx, clientExists, nameKey).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

const listClients = `SELECT id, name, name_key, phone, email FROM clients ORDER BY name`

func (q *Queries) ListClients(ctx context.Context) ([]Client, error) {
	rows, err := q.db.QueryContext(ctx, listClients)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Name, &c.NameKey, &c.Phone, &c.Email); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

const createLabourBill = `
INSERT INTO labour_bills (id, project_id, contractor, description, bill_date, amount_paise, paid_paise)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) CreateLabourBill(ctx context.Context, b LabourBill) error {
	_, err := q.db.ExecContext(ctx, createLabourBill,
		b.ID, b.ProjectID, b.Contractor, b.Description, b.BillDate, b.AmountPaise, b.PaidPaise)
	return err
}

const listLabourBills = `
SELECT id, project_id, contractor, description, bill_date, amount_paise, paid_paise
FROM labour_bills WHERE project_id = ? ORDER BY bill_date DESC
`

func (q *Queries) ListLabourBills(ctx context.Context, projectID string) ([]LabourBill, error) {
	rows, err := q.db.QueryContext(ctx, listLabourBills, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LabourBill
	for rows.Next() {
		var b LabourBill
		if err := rows.Scan(&b.ID, &b.ProjectID, &b.Contractor, &b.Description, &b.BillDate, &b.AmountPaise, &b.PaidPaise); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

const createClientPayment = `
INSERT INTO client_payments (id, project_id, pay_date, amount_paise, mode, reference, remarks)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) CreateClientPayment(ctx context.Context, p ClientPayment) error {
	_, err := q.db.ExecContext(ctx, createClientPayment,
		p.ID, p.ProjectID, p.PayDate, p.AmountPaise, p.Mode, p.Reference, p.Remarks)
	return err
}

const listClientPayments = `
SELECT id, project_id, pay_date, amount_paise, mode, reference, remarks
FROM client_payments WHERE project_id = ? ORDER BY pay_date DESC
`

func (q *Queries) ListClientPayments(ctx context.Context, projectID string) ([]ClientPayment, error) {
	rows, err := q.db.QueryContext(ctx, listClientPayments, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ClientPayment
	for rows.Next() {
		var p ClientPayment
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.PayDate, &p.AmountPaise, &p.Mode, &p.Reference, &p.Remarks); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

const createDrawing = `
INSERT INTO drawings (id, project_id, title, sheet_no, status, submitted_on, decided_on, remarks)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) CreateDrawing(ctx context.Context, d Drawing) error {
	_, err := q.db.ExecContext(ctx, createDrawing,
		d.ID, d.ProjectID, d.Title, d.SheetNo, d.Status, d.SubmittedOn, d.DecidedOn, d.Remarks)
	return err
}

const getDrawing = `
SELECT id, project_id, title, sheet_no, status, submitted_on, decided_on, remarks
FROM drawings WHERE id = ?
`

func (q *Queries) GetDrawing(ctx context.Context, id string) (Drawing, error) {
	var d Drawing
	err := q.db.QueryRowContext(ctx, getDrawing, id).Scan(
		&d.ID, &d.ProjectID, &d.Title, &d.SheetNo, &d.Status, &d.SubmittedOn, &d.DecidedOn, &d.Remarks)
	return d, err
}

const listDrawings = `
SELECT id, project_id, title, sheet_no, status, submitted_on, decided_on, remarks
FROM drawings WHERE project_id = ? ORDER BY submitted_on DESC
`

func (q *Queries) ListDrawings(ctx context.Context, projectID string) ([]Drawing, error) {
	rows, err := q.db.QueryContext(ctx, listDrawings, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Drawing
	for rows.Next() {
		var d Drawing
		if err := rows.Scan(&d.ID, &d.ProjectID, &d.Title, &d.SheetNo, &d.Status, &d.SubmittedOn, &d.DecidedOn, &d.Remarks); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

const setDrawingStatus = `
UPDATE drawings SET status = ?, decided_on = ?, remarks = ? WHERE id = ?
`

func (q *Queries) SetDrawingStatus(ctx context.Context, id, status, decidedOn, remarks string) error {
	_, err := q.db.ExecContext(ctx, setDrawingStatus, status, decidedOn, remarks, id)
	return err
}

const createExportRequest = `
INSERT INTO export_requests (project_id, date_range, particulars) VALUES (?, ?, ?)
`

func (q *Queries) CreateExportRequest(ctx context.Context, projectID, dateRange, particulars string) (int64, error) {
	res, err := q.db.ExecContext(ctx, createExportRequest, projectID, dateRange, particulars)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const getExportRequest = `
SELECT id, project_id, date_range, particulars, status, last_error, requested_at
FROM export_requests WHERE id = ?
`

func (q *Queries) GetExportRequest(ctx context.Context, id int64) (ExportRequest, error) {
	var r ExportRequest
	err := q.db.QueryRowContext(ctx, getExportRequest, id).Scan(
		&r.ID, &r.ProjectID, &r.DateRange, &r.Particulars, &r.Status, &r.LastError, &r.RequestedAt)
	return r, err
}

const listPendingExportRequests = `
SELECT id, project_id, date_range, particulars, status, last_error, requested_at
FROM export_requests WHERE status = 'pending' ORDER BY requested_at LIMIT ?
`

func (q *Queries) ListPendingExportRequests(ctx context.Context, limit int64) ([]ExportRequest, error) {
	rows, err := q.db.QueryContext(ctx, listPendingExportRequests, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ExportRequest
	for rows.Next() {
		var r ExportRequest
		if err := rows.Scan(&r.ID, &r.ProjectID, &r.DateRange, &r.Particulars, &r.Status, &r.LastError, &r.RequestedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const markExportDone = `UPDATE export_requests SET status = 'done', last_error = '' WHERE id = ?`

func (q *Queries) MarkExportDone(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, markExportDone, id)
	return err
}

const markExportError = `UPDATE export_requests SET status = 'error', last_error = ? WHERE id = ?`

func (q *Queries) MarkExportError(ctx context.Context, id int64, lastError string) error {
	_, err := q.db.ExecContext(ctx, markExportError, lastError, id)
	return err
}
