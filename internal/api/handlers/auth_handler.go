package handlers

import (
	"net/http"

	"github.com/sitepilot/engine/internal/api/types"
	"github.com/sitepilot/engine/internal/services"
)

type AuthHandler struct {
	auth services.AuthService
}

func NewAuthHandler(auth services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.auth.Register(r.Context(), &services.RegisterInput{
		TenantName: req.TenantName,
		TenantSlug: req.TenantSlug,
		OwnerName:  req.OwnerName,
		OwnerEmail: req.OwnerEmail,
		Password:   req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, res)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Logout is a no-op: tokens are stateless and expire on their own.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, nil)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, err := h.auth.Me(r.Context(), actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

func (h *AuthHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	users, err := h.auth.ListMembers(r.Context(), actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, users)
}

func (h *AuthHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	var req types.MemberCreateRequest
	if !decode(w, r, &req) {
		return
	}
	u, err := h.auth.AddMember(r.Context(), actor(r), &services.MemberInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, u)
}
