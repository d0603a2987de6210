package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"

	"github.com/sitepilot/engine/internal/api/handlers"
	mw "github.com/sitepilot/engine/internal/api/middleware"
	"github.com/sitepilot/engine/internal/models"
	"github.com/sitepilot/engine/internal/services"
)

type Dependencies struct {
	Auth        services.AuthService
	Projects    services.ProjectService
	Versions    services.VersionService
	Branding    services.BrandingService
	Deployments services.DeploymentService
	Sites       services.SiteService
	Ready       handlers.Pinger

	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()

	if dep.RateLimitRPS <= 0 {
		dep.RateLimitRPS, dep.RateLimitBurst = 10, 20
	}

	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.Tracing)
	r.Use(chimid.Compress(5))
	if dep.Sites != nil {
		r.Use(mw.Sites(dep.Sites))
	}
	r.Use(mw.CORS(dep.CORSOrigins))
	r.Use(mw.RateLimit(dep.RateLimitRPS, dep.RateLimitBurst))

	hh := handlers.NewHealthHandler(dep.Ready)
	r.Get("/healthz", hh.Liveness)
	r.Get("/readyz", hh.Readiness)

	auth := handlers.NewAuthHandler(dep.Auth)
	branding := handlers.NewBrandingHandler(dep.Branding)
	projects := handlers.NewProjectsHandler(dep.Projects)
	versions := handlers.NewVersionsHandler(dep.Versions)
	deployments := handlers.NewDeploymentsHandler(dep.Deployments)
	editor := mw.RequireRole(models.RoleEditor)

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", func(ar chi.Router) {
			ar.Post("/register", auth.Register)
			ar.Post("/login", auth.Login)
			ar.Post("/logout", auth.Logout)
			ar.With(mw.Auth(dep.Auth)).Get("/me", auth.Me)
		})

		api.Group(func(protected chi.Router) {
			protected.Use(mw.Auth(dep.Auth))

			protected.Route("/tenant/users", func(tr chi.Router) {
				tr.Get("/", auth.ListMembers)
				tr.With(mw.RequireRole(models.RoleAdmin)).Post("/", auth.AddMember)
			})

			protected.Route("/branding", func(br chi.Router) {
				br.Get("/", branding.Get)
				br.With(editor).Put("/", branding.Update)
				br.With(editor).Post("/services", branding.AddService)
				br.With(editor).Put("/services/{serviceId}", branding.UpdateService)
				br.With(editor).Delete("/services/{serviceId}", branding.DeleteService)
				br.With(editor).Post("/images", branding.AddImage)
				br.With(editor).Delete("/images/{imageId}", branding.DeleteImage)
			})

			protected.Route("/projects", func(pr chi.Router) {
				pr.Get("/", projects.List)
				pr.Get("/all", projects.ListAll)
				pr.With(editor).Post("/", projects.Create)

				pr.Route("/{id}", func(p chi.Router) {
					p.Get("/", projects.Get)
					p.With(editor).Put("/", projects.Update)
					p.With(editor).Delete("/", projects.Delete)

					p.With(editor).Post("/generate", versions.Generate)
					p.Get("/versions", versions.List)
					p.Get("/versions/{versionId}", versions.Get)
					p.With(editor).Put("/versions/{versionId}/rollback", versions.Rollback)

					p.Get("/deployments", deployments.List)
					p.With(editor).Post("/deployments", deployments.Create)
				})
			})
		})
	})

	return r
}
