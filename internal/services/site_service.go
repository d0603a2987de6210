package services

import (
	"context"
	"encoding/json"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/sitepilot/engine/internal/models"
	"github.com/sitepilot/engine/internal/repository"
	appErr "github.com/sitepilot/engine/pkg/errors"
	"github.com/sitepilot/engine/pkg/logger"
)

// TaskSitePublish is the asynq task type that publishes one deployment.
const TaskSitePublish = "site:publish"

type PublishPayload struct {
	DeploymentID string `json:"deployment_id"`
}

func NewPublishTask(deploymentID uuid.UUID) (*asynq.Task, error) {
	b, err := json.Marshal(PublishPayload{DeploymentID: deploymentID.String()})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSitePublish, b, asynq.MaxRetry(3), asynq.Timeout(2*time.Minute)), nil
}

// SiteService materializes deployments into served sites and resolves hosts
// back to them.
type SiteService interface {
	// PublishDeployment copies the pinned version's HTML into the named site.
	// Deployments already marked success are left alone.
	PublishDeployment(ctx context.Context, deploymentID uuid.UUID) error
	// SiteName extracts the site name from a request host under the base domain.
	SiteName(host string) (string, bool)
	GetSite(ctx context.Context, name string) (*models.Site, error)
	URL(name string) string
}

type siteService struct {
	deployRepo  repository.DeploymentRepository
	versionRepo repository.VersionRepository
	projectRepo repository.ProjectRepository
	siteRepo    repository.SiteRepository
	baseDomain  string
}

func NewSiteService(
	deployRepo repository.DeploymentRepository,
	versionRepo repository.VersionRepository,
	projectRepo repository.ProjectRepository,
	siteRepo repository.SiteRepository,
	baseDomain string,
) SiteService {
	return &siteService{
		deployRepo:  deployRepo,
		versionRepo: versionRepo,
		projectRepo: projectRepo,
		siteRepo:    siteRepo,
		baseDomain:  strings.ToLower(strings.Trim(baseDomain, ".")),
	}
}

var _ SiteService = (*siteService)(nil)

func (s *siteService) PublishDeployment(ctx context.Context, deploymentID uuid.UUID) error {
	log := logger.Ctx(ctx).With(zap.String("deployment_id", deploymentID.String()))

	var d models.Deployment
	if err := s.deployRepo.GetByID(ctx, deploymentID, &d); err != nil {
		return err
	}
	if d.Status == models.DeploymentSuccess {
		log.Info("deployment already published")
		return nil
	}
	if err := s.deployRepo.UpdateStatus(ctx, d.ID, models.DeploymentDeploying); err != nil {
		return err
	}

	if err := s.publish(ctx, &d); err != nil {
		log.Warn("publish failed", zap.Error(err))
		if ferr := s.deployRepo.Finish(ctx, d.ID, models.DeploymentFailed, "", err.Error()); ferr != nil {
			log.Error("mark deployment failed", zap.Error(ferr))
		}
		return err
	}

	url := s.URL(d.Subdomain)
	if err := s.deployRepo.Finish(ctx, d.ID, models.DeploymentSuccess, url, ""); err != nil {
		return err
	}
	if err := s.projectRepo.UpdateFields(ctx, d.ProjectID, map[string]any{"status": models.ProjectPublished}); err != nil {
		log.Warn("mark project published", zap.Error(err))
	}
	log.Info("site published", zap.String("subdomain", d.Subdomain), zap.String("url", url))
	return nil
}

func (s *siteService) publish(ctx context.Context, d *models.Deployment) error {
	var v models.Version
	if err := s.versionRepo.GetInProject(ctx, d.ProjectID, d.VersionID, &v); err != nil {
		return err
	}
	return s.siteRepo.Upsert(ctx, &models.Site{
		Name:      d.Subdomain,
		TenantID:  d.TenantID,
		ProjectID: d.ProjectID,
		VersionID: v.ID,
		HTML:      v.HTMLCode,
	})
}

func (s *siteService) SiteName(host string) (string, bool) {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if s.baseDomain == "" {
		return "", false
	}
	name, ok := strings.CutSuffix(host, "."+s.baseDomain)
	if !ok || !slugPattern.MatchString(name) {
		return "", false
	}
	return name, true
}

func (s *siteService) GetSite(ctx context.Context, name string) (*models.Site, error) {
	var site models.Site
	if err := s.siteRepo.GetByName(ctx, name, &site); err != nil {
		return nil, err
	}
	return &site, nil
}

func (s *siteService) URL(name string) string {
	return "https://" + name + "." + s.baseDomain
}

// IsPermanent reports whether retrying a publish cannot succeed.
func IsPermanent(err error) bool {
	switch appErr.CodeOf(err) {
	case appErr.CodeNotFound, appErr.CodeConflict, appErr.CodeInvalid:
		return true
	}
	return false
}
