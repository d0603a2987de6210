package middleware

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/sitepilot/engine/internal/api/types"
	"github.com/sitepilot/engine/pkg/logger"
)

// Recovery logs panics and returns 500 with a generic message.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Ctx(r.Context()).Error("panic recovered", zap.Any("panic", rec), zap.ByteString("stack", debug.Stack()))
				types.Render(w, http.StatusInternalServerError, types.APIResponse{
					Error: &types.APIError{Code: "internal", Message: "internal error"},
					Meta:  &types.Meta{RequestID: GetRequestID(r.Context())},
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
