package http

import (
	"net/http"
	"strings"

	"sitebook/internal/core"
)

// handleProjects serves the project collection: POST creates, GET lists or
// fetches one when ?id= is present.
func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if id := strings.TrimSpace(r.URL.Query().Get("id")); id != "" {
			s.getProject(w, r, id)
			return
		}
		s.listProjects(w, r)
	case http.MethodPost:
		s.createProject(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		s.logger.ErrorContext(r.Context(), "Parse request error", "error", err, "url", r.URL.Path)
		BadRequestError("invalid request body").Write(w)
		return
	}

	budget, err := core.ParseDecimalToPaise(parser.Get("budget"))
	if err != nil {
		UnprocessableEntityError("invalid budget").Write(w)
		return
	}

	p := core.Project{
		Name:      parser.Get("name"),
		Client:    parser.Get("client"),
		Location:  parser.Get("location"),
		Budget:    core.Money{Paise: budget},
		StartDate: parser.Get("start_date"),
	}

	created, err := s.projects.CreateProject(r.Context(), p)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Create project error", "error", err, "name", p.Name)
		FromError(err).Write(w)
		return
	}

	NewResponse().Status(http.StatusCreated).JSON(newProjectView(created)).Write(w)
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request, id string) {
	p, err := s.projects.GetProject(r.Context(), id)
	if err != nil {
		FromError(err).Write(w)
		return
	}
	NewResponse().JSON(newProjectView(p)).Write(w)
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	list, err := s.projects.ListProjects(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "List projects error", "error", err)
		FromError(err).Write(w)
		return
	}
	views := make([]projectView, len(list))
	for i, p := range list {
		views[i] = newProjectView(p)
	}
	NewResponse().JSON(views).Write(w)
}

// handleDeleteProject deletes a project after the caller echoes its name as
// verification text.
func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if resp := RequireDeleteOrPOST(r); resp != nil {
		resp.Write(w)
		return
	}

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	id := parser.Get("id")
	if id == "" {
		id = strings.TrimSpace(r.URL.Query().Get("id"))
	}
	if id == "" {
		BadRequestError("missing project id").Write(w)
		return
	}

	if err := s.projects.DeleteProject(r.Context(), id, parser.Get("verification")); err != nil {
		FromError(err).Write(w)
		return
	}

	s.invalidateProject(id)
	NewResponse().Status(http.StatusNoContent).Write(w)
}

// handleClients serves the shared client directory.
func (s *Server) handleClients(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := s.projects.ListClients(r.Context())
		if err != nil {
			s.logger.ErrorContext(r.Context(), "List clients error", "error", err)
			FromError(err).Write(w)
			return
		}
		views := make([]clientView, len(list))
		for i, c := range list {
			views[i] = clientView{ID: c.ID, Name: c.Name, Phone: c.Phone, Email: c.Email}
		}
		NewResponse().JSON(views).Write(w)
	case http.MethodPost:
		parser := NewRequestBodyParser(r)
		if err := parser.Parse(); err != nil {
			BadRequestError("invalid request body").Write(w)
			return
		}
		c := core.Client{
			Name:  parser.Get("name"),
			Phone: parser.Get("phone"),
			Email: parser.Get("email"),
		}
		created, err := s.projects.CreateClient(r.Context(), c)
		if err != nil {
			FromError(err).Write(w)
			return
		}
		NewResponse().Status(http.StatusCreated).
			JSON(clientView{ID: created.ID, Name: created.Name, Phone: created.Phone, Email: created.Email}).
			Write(w)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}
