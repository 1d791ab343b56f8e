package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"sitebook/internal/amqp"
	"sitebook/internal/core"
	"sitebook/internal/sheets"
	"sitebook/internal/storage"
)

// exportStore is what the worker needs from persistence: the export queue
// and the mirrored entry lists.
type exportStore interface {
	GetProject(ctx context.Context, id string) (core.Project, error)
	LoadEntries(ctx context.Context, projectID string) ([]core.LedgerEntry, error)
	GetExportRequest(ctx context.Context, id int64) (storage.ExportRequest, error)
	GetPendingExportRequests(ctx context.Context, limit int) ([]storage.ExportRequest, error)
	MarkExportDone(ctx context.Context, id int64) error
	MarkExportError(ctx context.Context, id int64, cause error) error
}

// ExportWorker turns queued export requests into spreadsheet rows.
type ExportWorker struct {
	store     exportStore
	writer    sheets.ReportWriter
	batchSize int
}

func NewExportWorker(store exportStore, writer sheets.ReportWriter, batchSize int) *ExportWorker {
	return &ExportWorker{
		store:     store,
		writer:    writer,
		batchSize: batchSize,
	}
}

// HandleExportMessage processes a single export request message from AMQP.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.ExportRequestMessage) error {
	req, err := w.store.GetExportRequest(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get export request: %w", err)
	}
	if req.Status == "done" {
		// Already handled, likely by the sweep. Ack and move on.
		slog.InfoContext(ctx, "Export request already done, skipping", "export_id", req.ID)
		return nil
	}
	return w.export(ctx, req)
}

// ProcessPendingExports processes requests that haven't completed yet.
// This is a backup mechanism in case AMQP messages are lost.
func (w *ExportWorker) ProcessPendingExports(ctx context.Context) error {
	pending, err := w.store.GetPendingExportRequests(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending export requests: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending export requests", "count", len(pending))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, req := range pending {
		req := req
		g.Go(func() error {
			if err := w.export(gctx, req); err != nil {
				slog.ErrorContext(gctx, "Failed to process pending export",
					"export_id", req.ID,
					"project_id", req.ProjectID,
					"error", err)
			}
			// Failures are recorded on the request row; don't cancel the
			// rest of the batch.
			return nil
		})
	}
	return g.Wait()
}

// StartupCheck drains a larger pending backlog once at worker startup.
// This recovers from missed AMQP messages or worker downtime.
func (w *ExportWorker) StartupCheck(ctx context.Context) error {
	pending, err := w.store.GetPendingExportRequests(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending export requests for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending export requests found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending export requests on startup, processing...",
		"count", len(pending))

	done := 0
	failed := 0
	for _, req := range pending {
		if err := w.export(ctx, req); err != nil {
			slog.ErrorContext(ctx, "Failed to export during startup",
				"export_id", req.ID, "error", err)
			failed++
			continue
		}
		done++
	}

	slog.InfoContext(ctx, "Startup export check completed",
		"total", len(pending),
		"exported", done,
		"errors", failed)

	return nil
}

// export builds the filtered report for one request and appends it to the
// spreadsheet. The outcome lands on the request row either way.
func (w *ExportWorker) export(ctx context.Context, req storage.ExportRequest) error {
	rows, title, err := w.buildRows(ctx, req)
	if err != nil {
		if markErr := w.store.MarkExportError(ctx, req.ID, err); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error", "export_id", req.ID, "error", markErr)
		}
		return err
	}

	if len(rows) == 0 {
		// Nothing matched the criterion; the request still completes.
		if err := w.store.MarkExportDone(ctx, req.ID); err != nil {
			return fmt.Errorf("mark empty export done: %w", err)
		}
		slog.InfoContext(ctx, "Export request matched no entries", "export_id", req.ID)
		return nil
	}

	ref, err := w.writer.AppendRows(ctx, title, rows)
	if err != nil {
		if markErr := w.store.MarkExportError(ctx, req.ID, err); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error", "export_id", req.ID, "error", markErr)
		}
		return fmt.Errorf("append report rows: %w", err)
	}

	if err := w.store.MarkExportDone(ctx, req.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to mark export done", "export_id", req.ID, "error", err)
		// Don't return an error here - the export actually worked.
	}

	slog.InfoContext(ctx, "Successfully exported report",
		"export_id", req.ID,
		"project_id", req.ProjectID,
		"rows", len(rows),
		"sheets_ref", ref)

	return nil
}

func (w *ExportWorker) buildRows(ctx context.Context, req storage.ExportRequest) ([]sheets.ReportRow, string, error) {
	project, err := w.store.GetProject(ctx, req.ProjectID)
	if err != nil {
		return nil, "", fmt.Errorf("get project: %w", err)
	}

	entries, err := w.store.LoadEntries(ctx, req.ProjectID)
	if err != nil {
		return nil, "", fmt.Errorf("load entries: %w", err)
	}

	criterion := core.FilterCriterion{
		Range:       core.DateRange(req.DateRange),
		Particulars: req.Particulars,
	}
	filtered, err := core.Filter(entries, criterion, time.Now())
	if err != nil {
		return nil, "", fmt.Errorf("filter entries: %w", err)
	}

	title := fmt.Sprintf("%s (%s)", project.Name, req.DateRange)
	return sheets.RowsFromEntries(filtered), title, nil
}
