package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/sitepilot/engine/internal/models"
	"github.com/sitepilot/engine/internal/repository"
	appErr "github.com/sitepilot/engine/pkg/errors"
	"github.com/sitepilot/engine/pkg/logger"
)

type DeploymentService interface {
	// Publish pins the project's active version to subdomain and schedules it.
	Publish(ctx context.Context, actor Actor, projectID uuid.UUID, subdomain string) (*models.Deployment, error)
	ListDeployments(ctx context.Context, actor Actor, projectID uuid.UUID) ([]models.Deployment, error)
}

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type deploymentService struct {
	projectRepo repository.ProjectRepository
	deployRepo  repository.DeploymentRepository
	sites       SiteService
	queue       TaskEnqueuer
}

// NewDeploymentService publishes inline through sites when queue is nil.
func NewDeploymentService(projectRepo repository.ProjectRepository, deployRepo repository.DeploymentRepository, sites SiteService, queue TaskEnqueuer) DeploymentService {
	return &deploymentService{projectRepo: projectRepo, deployRepo: deployRepo, sites: sites, queue: queue}
}

var _ DeploymentService = (*deploymentService)(nil)

func (s *deploymentService) Publish(ctx context.Context, actor Actor, projectID uuid.UUID, subdomain string) (*models.Deployment, error) {
	p, err := loadProject(ctx, s.projectRepo, actor, projectID, write)
	if err != nil {
		return nil, err
	}
	subdomain = strings.ToLower(strings.TrimSpace(subdomain))
	if !slugPattern.MatchString(subdomain) {
		return nil, appErr.Invalid("subdomain must be 1-63 lowercase letters, digits or hyphens").WithMeta("subdomain", subdomain)
	}
	if p.ActiveVersionID == nil {
		return nil, appErr.Invalid("project has no active version to publish")
	}
	if site, err := s.sites.GetSite(ctx, subdomain); err == nil && site.TenantID != actor.TenantID {
		return nil, appErr.Conflict("subdomain is already taken").WithMeta("subdomain", subdomain)
	}

	d := &models.Deployment{
		TenantID:  p.TenantID,
		ProjectID: p.ID,
		VersionID: *p.ActiveVersionID,
		Subdomain: subdomain,
		Status:    models.DeploymentQueued,
	}
	if err := s.deployRepo.Create(ctx, d); err != nil {
		return nil, err
	}
	log := logger.Ctx(ctx).With(zap.String("deployment_id", d.ID.String()), zap.String("project_id", p.ID.String()))

	if s.queue == nil {
		log.Info("no task queue configured, publishing inline")
		if err := s.sites.PublishDeployment(ctx, d.ID); err != nil {
			return nil, err
		}
		var done models.Deployment
		if err := s.deployRepo.GetByID(ctx, d.ID, &done); err != nil {
			return nil, err
		}
		return &done, nil
	}

	task, err := NewPublishTask(d.ID)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "build publish task")
	}
	if _, err := s.queue.EnqueueContext(ctx, task); err != nil {
		log.Error("enqueue publish task failed", zap.Error(err))
		_ = s.deployRepo.Finish(ctx, d.ID, models.DeploymentFailed, "", "enqueue failed")
		return nil, appErr.Wrap(err, appErr.CodeUnavailable, "enqueue publish task failed")
	}

	log.Info("deployment queued", zap.String("subdomain", subdomain))
	return d, nil
}

func (s *deploymentService) ListDeployments(ctx context.Context, actor Actor, projectID uuid.UUID) ([]models.Deployment, error) {
	if _, err := loadProject(ctx, s.projectRepo, actor, projectID, read); err != nil {
		return nil, err
	}
	return s.deployRepo.ListByProject(ctx, projectID)
}
