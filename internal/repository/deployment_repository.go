package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sitepilot/engine/internal/models"
	appErr "github.com/sitepilot/engine/pkg/errors"
	"gorm.io/gorm"
)

type DeploymentRepository interface {
	BaseRepository[models.Deployment]
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Deployment, error)
	UpdateStatus(ctx context.Context, deploymentID uuid.UUID, status string) error
	// Finish records the terminal state of a deployment.
	Finish(ctx context.Context, deploymentID uuid.UUID, status, url, message string) error
}

type deploymentRepository struct {
	BaseRepository[models.Deployment]
	db *gorm.DB
}

func NewDeploymentRepository(db *gorm.DB) DeploymentRepository {
	return &deploymentRepository{BaseRepository: NewBaseRepository[models.Deployment](db, "deployment"), db: db}
}

func (r *deploymentRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Deployment, error) {
	var out []models.Deployment
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, translate(err, "deployment")
	}
	return out, nil
}

func (r *deploymentRepository) UpdateStatus(ctx context.Context, deploymentID uuid.UUID, status string) error {
	return r.update(ctx, deploymentID, map[string]any{"status": status})
}

func (r *deploymentRepository) Finish(ctx context.Context, deploymentID uuid.UUID, status, url, message string) error {
	return r.update(ctx, deploymentID, map[string]any{"status": status, "url": url, "error": message})
}

func (r *deploymentRepository) update(ctx context.Context, deploymentID uuid.UUID, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.Deployment{}).Where("id = ?", deploymentID).Updates(fields)
	if res.Error != nil {
		return translate(res.Error, "deployment")
	}
	if res.RowsAffected == 0 {
		return appErr.NotFound("deployment not found")
	}
	return nil
}
