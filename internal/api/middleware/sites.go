package middleware

import (
	"context"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/sitepilot/engine/internal/models"
	appErr "github.com/sitepilot/engine/pkg/errors"
	"github.com/sitepilot/engine/pkg/logger"
	"github.com/sitepilot/engine/pkg/utils"
)

// SiteResolver maps request hosts onto published sites.
type SiteResolver interface {
	SiteName(host string) (string, bool)
	GetSite(ctx context.Context, name string) (*models.Site, error)
}

// Sites serves published HTML for hosts under the site base domain and passes
// every other request through.
func Sites(resolver SiteResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name, ok := resolver.SiteName(r.Host)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				w.Header().Set("Allow", "GET, HEAD")
				http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
				return
			}

			site, err := resolver.GetSite(r.Context(), name)
			if err != nil {
				if appErr.IsCode(err, appErr.CodeNotFound) {
					http.NotFound(w, r)
					return
				}
				logger.Ctx(r.Context()).Error("load site failed", zap.String("site", name), zap.Error(err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			body := []byte(site.HTML)
			etag := utils.ETag(body)
			w.Header().Set("ETag", etag)
			w.Header().Set("Cache-Control", "public, max-age=60")
			if r.Header.Get("If-None-Match") == etag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Set("Content-Length", strconv.Itoa(len(body)))
			w.WriteHeader(http.StatusOK)
			if r.Method == http.MethodGet {
				_, _ = w.Write(body)
			}
		})
	}
}
