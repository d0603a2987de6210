package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/sitepilot/engine/internal/api/types"
	"github.com/sitepilot/engine/internal/models"
	"github.com/sitepilot/engine/internal/services"
	appErr "github.com/sitepilot/engine/pkg/errors"
)

type actorKey struct{}

// TokenParser validates bearer tokens.
type TokenParser interface {
	ParseToken(token string) (services.Actor, error)
}

// Auth validates a Bearer JWT and stores the resulting actor in context.
func Auth(parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ah := r.Header.Get("Authorization")
			if len(ah) < 7 || !strings.EqualFold(ah[:7], "bearer ") {
				deny(w, r, appErr.New(appErr.CodeUnauthorized, "missing bearer token"))
				return
			}
			actor, err := parser.ParseToken(strings.TrimSpace(ah[7:]))
			if err != nil {
				deny(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// RequireRole rejects actors ranked below min.
func RequireRole(min string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFrom(r.Context())
			if !ok || !models.RoleAtLeast(actor.Role, min) {
				deny(w, r, appErr.New(appErr.CodeForbidden, "insufficient role").WithMeta("required", min))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithActor(ctx context.Context, a services.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

func ActorFrom(ctx context.Context) (services.Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(services.Actor)
	return a, ok
}

func deny(w http.ResponseWriter, r *http.Request, err error) {
	types.Render(w, types.StatusFromError(err), types.APIResponse{
		Error: types.FromAppError(err),
		Meta:  &types.Meta{RequestID: GetRequestID(r.Context())},
	})
}
