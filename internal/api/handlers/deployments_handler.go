package handlers

import (
	"net/http"

	"github.com/sitepilot/engine/internal/api/types"
	"github.com/sitepilot/engine/internal/models"
	"github.com/sitepilot/engine/internal/services"
)

type DeploymentsHandler struct {
	svc services.DeploymentService
}

func NewDeploymentsHandler(svc services.DeploymentService) *DeploymentsHandler {
	return &DeploymentsHandler{svc: svc}
}

func (h *DeploymentsHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, err := h.svc.ListDeployments(r.Context(), actor(r), projectID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, items)
}

// Create publishes the project's active version. Queued deployments answer 202.
func (h *DeploymentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	projectID, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req types.DeploymentCreateRequest
	if !decode(w, r, &req) {
		return
	}
	d, err := h.svc.Publish(r.Context(), actor(r), projectID, req.Subdomain)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := http.StatusCreated
	if d.Status == models.DeploymentQueued {
		status = http.StatusAccepted
	}
	writeJSON(w, r, status, d)
}
