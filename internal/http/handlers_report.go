package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"sitebook/internal/core"
)

// handleReport serves the aggregated report: one group per particulars,
// most recently touched first. Results are cached per project and filter
// until the next mutation or TTL expiry.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	projectID := strings.TrimSpace(r.URL.Query().Get("project_id"))
	if projectID == "" {
		BadRequestError("missing project_id").Write(w)
		return
	}

	criterion := criterionFromQuery(r.URL.Query())
	key := s.reportCacheKey(projectID, criterion)

	if groups, found := s.reportCache.Get(key); found {
		s.logger.DebugContext(r.Context(), "Report cache hit", "project_id", projectID)
		NewResponse().JSON(newGroupViews(groups)).Write(w)
		return
	}

	groups, err := s.dashboard.Report(r.Context(), projectID, criterion, time.Now())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Report error", "error", err, "project_id", projectID)
		FromError(err).Write(w)
		return
	}

	s.reportCache.Set(key, groups)
	NewResponse().JSON(newGroupViews(groups)).Write(w)
}

// handleMaterials serves the material stock view over the full ledger.
func (s *Server) handleMaterials(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	projectID := strings.TrimSpace(r.URL.Query().Get("project_id"))
	if projectID == "" {
		BadRequestError("missing project_id").Write(w)
		return
	}

	stocks, err := s.dashboard.Materials(r.Context(), projectID)
	if err != nil {
		FromError(err).Write(w)
		return
	}
	NewResponse().JSON(newStockViews(stocks)).Write(w)
}

// handleRecent serves the most recently touched groups (5 by default,
// capped at 50 via ?n=).
func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	projectID := strings.TrimSpace(r.URL.Query().Get("project_id"))
	if projectID == "" {
		BadRequestError("missing project_id").Write(w)
		return
	}
	if _, err := s.projects.GetProject(r.Context(), projectID); err != nil {
		FromError(err).Write(w)
		return
	}

	n := 5
	if v := strings.TrimSpace(r.URL.Query().Get("n")); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 50 {
			BadRequestError("invalid n").Write(w)
			return
		}
		n = parsed
	}

	groups := core.Recent(s.entries.Entries(projectID), n)
	NewResponse().JSON(newGroupViews(groups)).Write(w)
}

// handleDashboard serves the project overview in one fetch.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	projectID := strings.TrimSpace(r.URL.Query().Get("project_id"))
	if projectID == "" {
		BadRequestError("missing project_id").Write(w)
		return
	}

	if d, found := s.dashboardCache.Get(projectID); found {
		s.logger.DebugContext(r.Context(), "Dashboard cache hit", "project_id", projectID)
		NewResponse().JSON(newDashboardView(d)).Write(w)
		return
	}

	d, err := s.dashboard.Dashboard(r.Context(), projectID)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Dashboard error", "error", err, "project_id", projectID)
		FromError(err).Write(w)
		return
	}

	s.dashboardCache.Set(projectID, d)
	NewResponse().JSON(newDashboardView(d)).Write(w)
}

// handleExport queues a spreadsheet export of the project's report and
// returns the export queue ID. The worker completes it asynchronously.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	projectID := parser.Get("project_id")
	if projectID == "" {
		BadRequestError("missing project_id").Write(w)
		return
	}

	dateRange := core.DateRange(parser.Get("range"))
	if dateRange != "" && !dateRange.IsValid() {
		UnprocessableEntityError("invalid range").Write(w)
		return
	}

	id, err := s.exports.RequestExport(r.Context(), projectID, dateRange, parser.Get("particulars"))
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Export request error", "error", err, "project_id", projectID)
		FromError(err).Write(w)
		return
	}

	NewResponse().Status(http.StatusAccepted).
		JSON(map[string]int64{"export_id": id}).
		Write(w)
}
