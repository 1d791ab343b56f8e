package http

import (
	"net/http"
	"strings"

	"sitebook/internal/core"
)

// handleLabourBills serves contractor bills: POST records one, GET lists a
// project's bills.
func (s *Server) handleLabourBills(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		projectID := strings.TrimSpace(r.URL.Query().Get("project_id"))
		if projectID == "" {
			BadRequestError("missing project_id").Write(w)
			return
		}
		bills, err := s.projects.ListLabourBills(r.Context(), projectID)
		if err != nil {
			FromError(err).Write(w)
			return
		}
		views := make([]billView, len(bills))
		for i, b := range bills {
			views[i] = newBillView(b)
		}
		NewResponse().JSON(views).Write(w)
	case http.MethodPost:
		parser := NewRequestBodyParser(r)
		if err := parser.Parse(); err != nil {
			BadRequestError("invalid request body").Write(w)
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

		b := core.LabourBill{
			ProjectID:   parser.Get("project_id"),
			Contractor:  parser.Get("contractor"),
			Description: parser.Get("description"),
			Date:        parser.Get("date"),
			Amount:      core.Money{Paise: amount},
			Paid:        core.Money{Paise: paid},
		}
		created, err := s.projects.AddLabourBill(r.Context(), b)
		if err != nil {
			FromError(err).Write(w)
			return
		}
		s.invalidateProject(b.ProjectID)
		NewResponse().Status(http.StatusCreated).JSON(newBillView(created)).Write(w)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

// handlePayments serves client payments: POST records one, GET lists a
// project's payments.
func (s *Server) handlePayments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		projectID := strings.TrimSpace(r.URL.Query().Get("project_id"))
		if projectID == "" {
			BadRequestError("missing project_id").Write(w)
			return
		}
		payments, err := s.projects.ListClientPayments(r.Context(), projectID)
		if err != nil {
			FromError(err).Write(w)
			return
		}
		views := make([]paymentView, len(payments))
		for i, p := range payments {
			views[i] = newPaymentView(p)
		}
		NewResponse().JSON(views).Write(w)
	case http.MethodPost:
		parser := NewRequestBodyParser(r)
		if err := parser.Parse(); err != nil {
			BadRequestError("invalid request body").Write(w)
			return
		}

		amount, err := core.ParseDecimalToPaise(parser.Get("amount"))
		if err != nil {
			UnprocessableEntityError("invalid amount").Write(w)
			return
		}

		p := core.ClientPayment{
			ProjectID: parser.Get("project_id"),
			Date:      parser.Get("date"),
			Amount:    core.Money{Paise: amount},
			Mode:      parser.Get("mode"),
			Reference: parser.Get("reference"),
			Remarks:   parser.Get("remarks"),
		}
		created, err := s.projects.AddClientPayment(r.Context(), p)
		if err != nil {
			FromError(err).Write(w)
			return
		}
		s.invalidateProject(p.ProjectID)
		NewResponse().Status(http.StatusCreated).JSON(newPaymentView(created)).Write(w)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

// handleDrawings serves the drawing approval pipeline: POST submits a new
// drawing in the pending state, GET lists a project's drawings.
func (s *Server) handleDrawings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		projectID := strings.TrimSpace(r.URL.Query().Get("project_id"))
		if projectID == "" {
			BadRequestError("missing project_id").Write(w)
			return
		}
		drawings, err := s.projects.ListDrawings(r.Context(), projectID)
		if err != nil {
			FromError(err).Write(w)
			return
		}
		views := make([]drawingView, len(drawings))
		for i, d := range drawings {
			views[i] = newDrawingView(d)
		}
		NewResponse().JSON(views).Write(w)
	case http.MethodPost:
		parser := NewRequestBodyParser(r)
		if err := parser.Parse(); err != nil {
			BadRequestError("invalid request body").Write(w)
			return
		}

		d := core.Drawing{
			ProjectID:   parser.Get("project_id"),
			Title:       parser.Get("title"),
			SheetNo:     parser.Get("sheet_no"),
			SubmittedOn: parser.Get("submitted_on"),
		}
		created, err := s.projects.SubmitDrawing(r.Context(), d)
		if err != nil {
			FromError(err).Write(w)
			return
		}
		s.invalidateProject(d.ProjectID)
		NewResponse().Status(http.StatusCreated).JSON(newDrawingView(created)).Write(w)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

// handleDecideDrawing approves or rejects a pending drawing. Rejections
// must carry remarks.
func (s *Server) handleDecideDrawing(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	id := parser.Get("id")
	decision := parser.Get("decision")
	if id == "" || decision == "" {
		BadRequestError("missing id or decision").Write(w)
		return
	}

	var approve bool
	switch decision {
	case "approve":
		approve = true
	case "reject":
		approve = false
	default:
		UnprocessableEntityError("decision must be approve or reject").Write(w)
		return
	}

	d, err := s.projects.DecideDrawing(r.Context(), id, approve, parser.Get("remarks"))
	if err != nil {
		FromError(err).Write(w)
		return
	}

	s.invalidateProject(d.ProjectID)
	NewResponse().JSON(newDrawingView(d)).Write(w)
}
