package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sitepilot/engine/internal/models"
	appErr "github.com/sitepilot/engine/pkg/errors"
	"gorm.io/gorm"
)

type ProjectRepository interface {
	BaseRepository[models.Project]
	ListByUser(ctx context.Context, tenantID, userID uuid.UUID) ([]models.Project, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Project, error)
	UpdateFields(ctx context.Context, projectID uuid.UUID, fields map[string]any) error
	// DeleteCascade removes the project with its versions, deployments and sites in one transaction.
	DeleteCascade(ctx context.Context, projectID uuid.UUID) error
}

type projectRepository struct {
	BaseRepository[models.Project]
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{BaseRepository: NewBaseRepository[models.Project](db, "project"), db: db}
}

func (r *projectRepository) ListByUser(ctx context.Context, tenantID, userID uuid.UUID) ([]models.Project, error) {
	var out []models.Project
	if err := r.db.WithContext(ctx).Where("tenant_id = ? AND user_id = ?", tenantID, userID).Order("updated_at DESC").Find(&out).Error; err != nil {
		return nil, translate(err, "project")
	}
	return out, nil
}

func (r *projectRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Project, error) {
	var out []models.Project
	if err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("updated_at DESC").Find(&out).Error; err != nil {
		return nil, translate(err, "project")
	}
	return out, nil
}

func (r *projectRepository) UpdateFields(ctx context.Context, projectID uuid.UUID, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", projectID).Updates(fields)
	if res.Error != nil {
		return translate(res.Error, "project")
	}
	if res.RowsAffected == 0 {
		return appErr.NotFound("project not found")
	}
	return nil
}

func (r *projectRepository) DeleteCascade(ctx context.Context, projectID uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.Site{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&models.Deployment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&models.Version{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", projectID).Delete(&models.Project{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return appErr.NotFound("project not found")
		}
		return nil
	})
	return translate(err, "project")
}
