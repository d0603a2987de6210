package handlers

import (
	"net/http"

	"github.com/sitepilot/engine/internal/api/types"
	"github.com/sitepilot/engine/internal/services"
)

type ProjectsHandler struct {
	svc services.ProjectService
}

func NewProjectsHandler(svc services.ProjectService) *ProjectsHandler {
	return &ProjectsHandler{svc: svc}
}

// List returns the caller's own projects.
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListProjects(r.Context(), actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, meta := paginate(r, items)
	types.Render(w, http.StatusOK, types.APIResponse{Success: true, Data: page, Meta: meta})
}

// ListAll returns every project of the caller's tenant.
func (h *ProjectsHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListTenantProjects(r.Context(), actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, meta := paginate(r, items)
	types.Render(w, http.StatusOK, types.APIResponse{Success: true, Data: page, Meta: meta})
}

func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.ProjectCreateRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := h.svc.CreateProject(r.Context(), actor(r), &services.CreateProjectInput{Name: req.Name, Description: req.Description})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, p)
}

func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.svc.GetProject(r.Context(), actor(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req types.ProjectUpdateRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := h.svc.UpdateProject(r.Context(), actor(r), id, &services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.DeleteProject(r.Context(), actor(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
