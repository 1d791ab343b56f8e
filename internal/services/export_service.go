package services

import (
	"context"
	"fmt"
	"log/slog"

	"sitebook/internal/amqp"
	"sitebook/internal/core"
)

// ExportService queues spreadsheet exports. The request is recorded locally
// first (fast, reliable); the AMQP message is best-effort, and the worker's
// pending sweep picks up anything the broker loses.
type ExportService struct {
	repo       Repository
	amqpClient *amqp.Client
}

func NewExportService(repo Repository, amqpClient *amqp.Client) *ExportService {
	return &ExportService{
		repo:       repo,
		amqpClient: amqpClient,
	}
}

// RequestExport records an export request for a project's report and
// returns its queue ID. dateRange and particulars narrow what gets
// exported; an empty range means everything.
func (s *ExportService) RequestExport(ctx context.Context, projectID string, dateRange core.DateRange, particulars string) (int64, error) {
	if _, err := s.repo.GetProject(ctx, projectID); err != nil {
		return 0, err
	}
	if dateRange == "" {
		dateRange = core.RangeAll
	}
	if !dateRange.IsValid() {
		return 0, fmt.Errorf("unknown range %q", dateRange)
	}

	id, err := s.repo.CreateExportRequest(ctx, projectID, string(dateRange), particulars)
	if err != nil {
		return 0, fmt.Errorf("record export request: %w", err)
	}

	if err := s.publishExportMessage(ctx, id, projectID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish export message",
			"export_id", id,
			"project_id", projectID,
			"error", err)
		// Don't fail the request - the export is recorded locally and the
		// worker sweep will find it.
	}

	return id, nil
}

func (s *ExportService) publishExportMessage(ctx context.Context, id int64, projectID string) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, relying on worker sweep")
		return nil
	}
	return s.amqpClient.PublishExportRequest(ctx, id, projectID)
}
