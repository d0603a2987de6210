package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sitepilot/engine/internal/api/middleware"
	"github.com/sitepilot/engine/internal/api/types"
	"github.com/sitepilot/engine/internal/api/validators"
	"github.com/sitepilot/engine/internal/services"
	appErr "github.com/sitepilot/engine/pkg/errors"
	"github.com/sitepilot/engine/pkg/logger"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	types.Render(w, status, types.APIResponse{
		Success: true,
		Data:    data,
		Meta:    &types.Meta{RequestID: middleware.GetRequestID(r.Context())},
	})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := types.StatusFromError(err)
	if status >= http.StatusInternalServerError {
		logger.Ctx(r.Context()).Error("request failed", zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
	}
	types.Render(w, status, types.APIResponse{
		Error: types.FromAppError(err),
		Meta:  &types.Meta{RequestID: middleware.GetRequestID(r.Context())},
	})
}

func writeErrorStr(w http.ResponseWriter, r *http.Request, status int, msg string) {
	types.Render(w, status, types.APIResponse{
		Error: &types.APIError{Code: string(appErr.CodeInvalid), Message: msg},
		Meta:  &types.Meta{RequestID: middleware.GetRequestID(r.Context())},
	})
}

// decode reads a JSON body into dst and validates it. On failure it writes
// the response and returns false.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig):
			writeErrorStr(w, r, http.StatusRequestEntityTooLarge, "request body too large")
		case errors.Is(err, io.EOF):
			writeErrorStr(w, r, http.StatusBadRequest, "request body is required")
		default:
			writeErrorStr(w, r, http.StatusBadRequest, "invalid json")
		}
		return false
	}
	if err := validators.Struct(dst); err != nil {
		writeError(w, r, err)
		return false
	}
	return true
}

func actor(r *http.Request) services.Actor {
	a, _ := middleware.ActorFrom(r.Context())
	return a
}

func idParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, appErr.Invalid("malformed " + name).WithMeta(name, chi.URLParam(r, name))
	}
	return id, nil
}

// paginate slices items by the page and page_size query parameters.
func paginate[T any](r *http.Request, items []T) ([]T, *types.Meta) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	start := min((page-1)*size, len(items))
	end := min(start+size, len(items))
	return items[start:end], &types.Meta{
		RequestID: middleware.GetRequestID(r.Context()),
		Page:      page,
		PageSize:  size,
		Total:     int64(len(items)),
	}
}
