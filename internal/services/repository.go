package services

import (
	"context"

	"sitebook/internal/core"
	"sitebook/internal/storage"
)

// Repository is the persistence surface the services need. Both the SQLite
// and the in-memory repositories satisfy it.
type Repository interface {
	CreateProject(ctx context.Context, p core.Project) error
	GetProject(ctx context.Context, id string) (core.Project, error)
	ListProjects(ctx context.Context) ([]core.Project, error)
	DeleteProject(ctx context.Context, id string) error

	CreateClient(ctx context.Context, c core.Client) error
	ListClients(ctx context.Context) ([]core.Client, error)

	CreateLabourBill(ctx context.Context, b core.LabourBill) error
	ListLabourBills(ctx context.Context, projectID string) ([]core.LabourBill, error)

	CreateClientPayment(ctx context.Context, p core.ClientPayment) error
	ListClientPayments(ctx context.Context, projectID string) ([]core.ClientPayment, error)

	CreateDrawing(ctx context.Context, d core.Drawing) error
	GetDrawing(ctx context.Context, id string) (core.Drawing, error)
	ListDrawings(ctx context.Context, projectID string) ([]core.Drawing, error)
	SetDrawingStatus(ctx context.Context, id string, status core.DrawingStatus, decidedOn, remarks string) error

	CreateExportRequest(ctx context.Context, projectID, dateRange, particulars string) (int64, error)
}

var (
	_ Repository = (*storage.SQLiteRepository)(nil)
	_ Repository = (*storage.MemoryRepository)(nil)
)
