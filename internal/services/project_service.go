package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sitepilot/engine/internal/models"
	"github.com/sitepilot/engine/internal/repository"
	appErr "github.com/sitepilot/engine/pkg/errors"
	"github.com/sitepilot/engine/pkg/lock"
	"github.com/sitepilot/engine/pkg/logger"
)

type ProjectService interface {
	CreateProject(ctx context.Context, actor Actor, input *CreateProjectInput) (*models.Project, error)
	GetProject(ctx context.Context, actor Actor, projectID uuid.UUID) (*models.Project, error)
	// ListProjects returns the actor's own projects.
	ListProjects(ctx context.Context, actor Actor) ([]models.Project, error)
	// ListTenantProjects returns every project of the actor's tenant.
	ListTenantProjects(ctx context.Context, actor Actor) ([]models.Project, error)
	UpdateProject(ctx context.Context, actor Actor, projectID uuid.UUID, updates *UpdateProjectInput) (*models.Project, error)
	DeleteProject(ctx context.Context, actor Actor, projectID uuid.UUID) error
}

type CreateProjectInput struct {
	Name        string
	Description string
}

type UpdateProjectInput struct {
	Name        *string
	Description *string
	Status      *string
}

type projectService struct {
	projectRepo repository.ProjectRepository
	locker      lock.Locker
}

// NewProjectService shares locker with the version service so deletes never
// interleave with an activation.
func NewProjectService(projectRepo repository.ProjectRepository, locker lock.Locker) ProjectService {
	if locker == nil {
		locker = lock.NewKeyedMutex()
	}
	return &projectService{projectRepo: projectRepo, locker: locker}
}

var _ ProjectService = (*projectService)(nil)

func (s *projectService) CreateProject(ctx context.Context, actor Actor, input *CreateProjectInput) (*models.Project, error) {
	if err := actor.requireRole(models.RoleEditor); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, appErr.Invalid("project name is required")
	}

	p := &models.Project{
		TenantID:    actor.TenantID,
		UserID:      actor.UserID,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Status:      models.ProjectDraft,
	}
	if err := s.projectRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Info("project created", zap.String("project_id", p.ID.String()), zap.String("user_id", actor.UserID.String()))
	return p, nil
}

func (s *projectService) GetProject(ctx context.Context, actor Actor, projectID uuid.UUID) (*models.Project, error) {
	return loadProject(ctx, s.projectRepo, actor, projectID, read)
}

func (s *projectService) ListProjects(ctx context.Context, actor Actor) ([]models.Project, error) {
	return s.projectRepo.ListByUser(ctx, actor.TenantID, actor.UserID)
}

func (s *projectService) ListTenantProjects(ctx context.Context, actor Actor) ([]models.Project, error) {
	return s.projectRepo.ListByTenant(ctx, actor.TenantID)
}

func (s *projectService) UpdateProject(ctx context.Context, actor Actor, projectID uuid.UUID, updates *UpdateProjectInput) (*models.Project, error) {
	p, err := loadProject(ctx, s.projectRepo, actor, projectID, write)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if updates.Name != nil {
		name := strings.TrimSpace(*updates.Name)
		if name == "" {
			return nil, appErr.Invalid("project name cannot be empty")
		}
		fields["name"] = name
	}
	if updates.Description != nil {
		fields["description"] = strings.TrimSpace(*updates.Description)
	}
	if updates.Status != nil {
		switch *updates.Status {
		case models.ProjectDraft, models.ProjectPublished:
			fields["status"] = *updates.Status
		default:
			return nil, appErr.Invalid("status must be draft or published").WithMeta("status", *updates.Status)
		}
	}
	if len(fields) == 0 {
		return p, nil
	}
	if err := s.projectRepo.UpdateFields(ctx, projectID, fields); err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Info("project updated", zap.String("project_id", projectID.String()), zap.String("user_id", actor.UserID.String()))
	return loadProject(ctx, s.projectRepo, actor, projectID, read)
}

func (s *projectService) DeleteProject(ctx context.Context, actor Actor, projectID uuid.UUID) error {
	if _, err := loadProject(ctx, s.projectRepo, actor, projectID, write); err != nil {
		return err
	}

	unlock, err := lockProject(ctx, s.locker, projectID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.projectRepo.DeleteCascade(ctx, projectID); err != nil {
		return err
	}
	logger.Ctx(ctx).Info("project deleted", zap.String("project_id", projectID.String()), zap.String("user_id", actor.UserID.String()))
	return nil
}
