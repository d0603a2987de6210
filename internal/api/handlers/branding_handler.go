package handlers

import (
	"net/http"

	"github.com/sitepilot/engine/internal/api/types"
	"github.com/sitepilot/engine/internal/services"
)

type BrandingHandler struct {
	svc services.BrandingService
}

func NewBrandingHandler(svc services.BrandingService) *BrandingHandler {
	return &BrandingHandler{svc: svc}
}

func (h *BrandingHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Get(r.Context(), actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, b)
}

func (h *BrandingHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req types.BrandingUpdateRequest
	if !decode(w, r, &req) {
		return
	}
	b, err := h.svc.Update(r.Context(), actor(r), &services.BrandingUpdate{
		CompanyName:        req.CompanyName,
		CompanyDescription: req.CompanyDescription,
		Logo:               req.Logo,
		Favicon:            req.Favicon,
		PrimaryColor:       req.PrimaryColor,
		SecondaryColor:     req.SecondaryColor,
		AccentColor:        req.AccentColor,
		BackgroundColor:    req.BackgroundColor,
		BgColor:            req.BgColor,
		TextColor:          req.TextColor,
		FontHeading:        req.FontHeading,
		FontBody:           req.FontBody,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, b)
}

func (h *BrandingHandler) AddService(w http.ResponseWriter, r *http.Request) {
	var req types.ServiceRequest
	if !decode(w, r, &req) {
		return
	}
	svc, err := h.svc.AddService(r.Context(), actor(r), serviceInput(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, svc)
}

func (h *BrandingHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "serviceId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req types.ServiceRequest
	if !decode(w, r, &req) {
		return
	}
	b, err := h.svc.UpdateService(r.Context(), actor(r), id, serviceInput(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, b)
}

func (h *BrandingHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "serviceId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.DeleteService(r.Context(), actor(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BrandingHandler) AddImage(w http.ResponseWriter, r *http.Request) {
	var req types.ImageRequest
	if !decode(w, r, &req) {
		return
	}
	img, err := h.svc.AddImage(r.Context(), actor(r), &services.ImageInput{URL: req.URL, Alt: req.Alt})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, img)
}

func (h *BrandingHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "imageId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.DeleteImage(r.Context(), actor(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func serviceInput(req types.ServiceRequest) *services.ServiceInput {
	return &services.ServiceInput{Name: req.Name, Description: req.Description, Price: req.Price, Icon: req.Icon}
}
