package repository

import (
	"context"

	"github.com/sitepilot/engine/internal/models"
	"gorm.io/gorm"
)

type TenantRepository interface {
	BaseRepository[models.Tenant]
	GetBySlug(ctx context.Context, slug string, dest *models.Tenant) error
}

type tenantRepository struct {
	BaseRepository[models.Tenant]
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &tenantRepository{BaseRepository: NewBaseRepository[models.Tenant](db, "tenant"), db: db}
}

func (r *tenantRepository) GetBySlug(ctx context.Context, slug string, dest *models.Tenant) error {
	return translate(r.db.WithContext(ctx).Where("slug = ?", slug).First(dest).Error, "tenant")
}
