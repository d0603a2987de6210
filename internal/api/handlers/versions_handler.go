package handlers

import (
	"net/http"

	"github.com/sitepilot/engine/internal/api/types"
	"github.com/sitepilot/engine/internal/services"
)

type VersionsHandler struct {
	svc services.VersionService
}

func NewVersionsHandler(svc services.VersionService) *VersionsHandler {
	return &VersionsHandler{svc: svc}
}

// Generate creates and activates a new version from a prompt.
func (h *VersionsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	projectID, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req types.GenerateRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := h.svc.CreateVersion(r.Context(), actor(r), projectID, req.Prompt)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, v)
}

func (h *VersionsHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, err := h.svc.ListVersions(r.Context(), actor(r), projectID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, items)
}

func (h *VersionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	projectID, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	versionID, err := idParam(r, "versionId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := h.svc.GetVersion(r.Context(), actor(r), projectID, versionID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, v)
}

func (h *VersionsHandler) Rollback(w http.ResponseWriter, r *http.Request) {
	projectID, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	versionID, err := idParam(r, "versionId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	v, err := h.svc.Rollback(r.Context(), actor(r), projectID, versionID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, v)
}
