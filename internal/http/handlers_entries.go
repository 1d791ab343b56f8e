package http

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"sitebook/internal/core"
	"sitebook/internal/ledger"
)

// criterionFromQuery builds the entry filter from request parameters:
// date= for an exact day, range= for a sliding window, particulars= to
// narrow to one group. Exact wins over range.
func criterionFromQuery(q url.Values) core.FilterCriterion {
	c := core.FilterCriterion{
		Exact:       strings.TrimSpace(q.Get("date")),
		Particulars: strings.TrimSpace(q.Get("particulars")),
	}
	if v := strings.TrimSpace(q.Get("range")); v != "" {
		c.Range = core.DateRange(v)
	} else {
		c.Range = core.RangeAll
	}
	return c
}

// handleEntries serves a project's ledger: POST appends an entry, GET lists
// the entries matching the filter parameters.
func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listEntries(w, r)
	case http.MethodPost:
		s.appendEntry(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	projectID := strings.TrimSpace(r.URL.Query().Get("project_id"))
	if projectID == "" {
		BadRequestError("missing project_id").Write(w)
		return
	}
	if _, err := s.projects.GetProject(r.Context(), projectID); err != nil {
		FromError(err).Write(w)
		return
	}

	filtered, err := core.Filter(s.entries.Entries(projectID), criterionFromQuery(r.URL.Query()), time.Now())
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}
	NewResponse().JSON(newEntryViews(filtered)).Write(w)
}

func (s *Server) appendEntry(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		s.logger.ErrorContext(r.Context(), "Parse request error", "error", err, "url", r.URL.Path)
		BadRequestError("invalid request body").Write(w)
		return
	}

	projectID := parser.Get("project_id")
	if projectID == "" {
		BadRequestError("missing project_id").Write(w)
		return
	}
	if _, err := s.projects.GetProject(r.Context(), projectID); err != nil {
		FromError(err).Write(w)
		return
	}

	amount, err := core.ParseDecimalToPaise(parser.Get("amount"))
	if err != nil {
		UnprocessableEntityError("invalid amount").Write(w)
		return
	}
	paid, err := core.ParseOptionalPaise(parser.Get("paid"))
	if err != nil {
		UnprocessableEntityError("invalid paid").Write(w)
		return
	}
	received, err := core.ParseOptionalPaise(parser.Get("received"))
	if err != nil {
		UnprocessableEntityError("invalid received").Write(w)
		return
	}
	consumed, err := core.ParseOptionalPaise(parser.Get("consumed"))
	if err != nil {
		UnprocessableEntityError("invalid consumed").Write(w)
		return
	}

	var quantity float64
	if v := parser.Get("quantity"); v != "" {
		quantity, err = strconv.ParseFloat(v, 64)
		if err != nil {
			UnprocessableEntityError("invalid quantity").Write(w)
			return
		}
	}

	e := core.LedgerEntry{
		DRNo:        parser.Get("dr_no"),
		Particulars: parser.Get("particulars"),
		Date:        parser.Get("date"),
		Amount:      core.Money{Paise: amount},
		Paid:        core.Money{Paise: paid},
		Unit:        parser.Get("unit"),
		Quantity:    quantity,
		Received:    core.Money{Paise: received},
		Consumed:    core.Money{Paise: consumed},
		Remarks:     parser.Get("remarks"),
	}

	created, err := s.entries.Append(r.Context(), projectID, e)
	if err != nil {
		FromError(err).Write(w)
		return
	}

	s.invalidateProject(projectID)
	NewResponse().Status(http.StatusCreated).JSON(newEntryView(created)).Write(w)
}

// handleUpdateEntries rewrites the editable fields of every entry in a
// particulars group. Absent fields keep their current values.
func (s *Server) handleUpdateEntries(w http.ResponseWriter, r *http.Request) {
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
	particulars := parser.Get("particulars")
	if projectID == "" || particulars == "" {
		BadRequestError("missing project_id or particulars").Write(w)
		return
	}
	if _, err := s.projects.GetProject(r.Context(), projectID); err != nil {
		FromError(err).Write(w)
		return
	}

	patch, errResp := patchFromParser(parser)
	if errResp != nil {
		errResp.Write(w)
		return
	}

	count, err := s.entries.Update(r.Context(), projectID, particulars, patch)
	if err != nil {
		FromError(err).Write(w)
		return
	}

	s.invalidateProject(projectID)
	NewResponse().JSON(map[string]int{"updated": count}).Write(w)
}

func patchFromParser(parser *RequestBodyParser) (ledger.EntryPatch, *ResponseBuilder) {
	var patch ledger.EntryPatch

	if parser.Has("dr_no") {
		v := parser.Get("dr_no")
		patch.DRNo = &v
	}
	if parser.Has("date") {
		v := parser.Get("date")
		patch.Date = &v
	}
	if parser.Has("amount") {
		paise, err := core.ParseDecimalToPaise(parser.Get("amount"))
		if err != nil {
			return patch, UnprocessableEntityError("invalid amount")
		}
		m := core.Money{Paise: paise}
		patch.Amount = &m
	}
	if parser.Has("paid") {
		paise, err := core.ParseOptionalPaise(parser.Get("paid"))
		if err != nil {
			return patch, UnprocessableEntityError("invalid paid")
		}
		m := core.Money{Paise: paise}
		patch.Paid = &m
	}
	if parser.Has("unit") {
		v := parser.Get("unit")
		patch.Unit = &v
	}
	if parser.Has("quantity") {
		q, err := strconv.ParseFloat(parser.Get("quantity"), 64)
		if err != nil {
			return patch, UnprocessableEntityError("invalid quantity")
		}
		patch.Quantity = &q
	}
	if parser.Has("received") {
		paise, err := core.ParseOptionalPaise(parser.Get("received"))
		if err != nil {
			return patch, UnprocessableEntityError("invalid received")
		}
		m := core.Money{Paise: paise}
		patch.Received = &m
	}
	if parser.Has("consumed") {
		paise, err := core.ParseOptionalPaise(parser.Get("consumed"))
		if err != nil {
			return patch, UnprocessableEntityError("invalid consumed")
		}
		m := core.Money{Paise: paise}
		patch.Consumed = &m
	}
	if parser.Has("remarks") {
		v := parser.Get("remarks")
		patch.Remarks = &v
	}

	return patch, nil
}

// handleDeleteEntry removes one entry; the remaining entries are
// re-sequenced so sequence numbers stay contiguous.
func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if resp := RequireDeleteOrPOST(r); resp != nil {
		resp.Write(w)
		return
	}

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	projectID := parser.Get("project_id")
	entryID := parser.Get("id")
	if projectID == "" {
		projectID = strings.TrimSpace(r.URL.Query().Get("project_id"))
	}
	if entryID == "" {
		entryID = strings.TrimSpace(r.URL.Query().Get("id"))
	}
	if projectID == "" || entryID == "" {
		BadRequestError("missing project_id or id").Write(w)
		return
	}

	if err := s.entries.Remove(r.Context(), projectID, entryID); err != nil {
		FromError(err).Write(w)
		return
	}

	s.invalidateProject(projectID)
	NewResponse().Status(http.StatusNoContent).Write(w)
}

// handleParticulars lists the distinct particular names known for a
// project, for autocomplete in entry forms.
func (s *Server) handleParticulars(w http.ResponseWriter, r *http.Request) {
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

	NewResponse().JSON(s.entries.Particulars(projectID)).Write(w)
}
