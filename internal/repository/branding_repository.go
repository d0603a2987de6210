package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sitepilot/engine/internal/models"
	appErr "github.com/sitepilot/engine/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BrandingRepository interface {
	BaseRepository[models.Branding]
	// GetByTenant loads the tenant's branding with services and images in insertion order.
	GetByTenant(ctx context.Context, tenantID uuid.UUID, dest *models.Branding) error
	// CreateIfAbsent inserts b unless the tenant already has a branding row, then loads the stored row into b.
	CreateIfAbsent(ctx context.Context, b *models.Branding) error
	UpdateFields(ctx context.Context, brandingID uuid.UUID, fields map[string]any) error

	AddService(ctx context.Context, svc *models.BrandingService) error
	UpdateService(ctx context.Context, brandingID, serviceID uuid.UUID, fields map[string]any) error
	DeleteService(ctx context.Context, brandingID, serviceID uuid.UUID) error
	AddImage(ctx context.Context, img *models.BrandingImage) error
	DeleteImage(ctx context.Context, brandingID, imageID uuid.UUID) error
}

type brandingRepository struct {
	BaseRepository[models.Branding]
	db *gorm.DB
}

func NewBrandingRepository(db *gorm.DB) BrandingRepository {
	return &brandingRepository{BaseRepository: NewBaseRepository[models.Branding](db, "branding"), db: db}
}

func (r *brandingRepository) GetByTenant(ctx context.Context, tenantID uuid.UUID, dest *models.Branding) error {
	err := r.db.WithContext(ctx).
		Preload("Services", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Where("tenant_id = ?", tenantID).
		First(dest).Error
	return translate(err, "branding")
}

func (r *brandingRepository) CreateIfAbsent(ctx context.Context, b *models.Branding) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "tenant_id"}}, DoNothing: true}).
		Omit("Services", "Images").
		Create(b).Error
	if err != nil {
		return translate(err, "branding")
	}
	// a non-zero primary key on dest would become a query condition
	tenantID := b.TenantID
	*b = models.Branding{}
	return r.GetByTenant(ctx, tenantID, b)
}

func (r *brandingRepository) UpdateFields(ctx context.Context, brandingID uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&models.Branding{}).Where("id = ?", brandingID).Updates(fields)
	if res.Error != nil {
		return translate(res.Error, "branding")
	}
	if res.RowsAffected == 0 {
		return appErr.NotFound("branding not found")
	}
	return nil
}

func (r *brandingRepository) AddService(ctx context.Context, svc *models.BrandingService) error {
	return translate(r.db.WithContext(ctx).Create(svc).Error, "service")
}

func (r *brandingRepository) UpdateService(ctx context.Context, brandingID, serviceID uuid.UUID, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.BrandingService{}).
		Where("id = ? AND branding_id = ?", serviceID, brandingID).
		Updates(fields)
	if res.Error != nil {
		return translate(res.Error, "service")
	}
	if res.RowsAffected == 0 {
		return appErr.NotFound("service not found")
	}
	return nil
}

func (r *brandingRepository) DeleteService(ctx context.Context, brandingID, serviceID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND branding_id = ?", serviceID, brandingID).Delete(&models.BrandingService{})
	if res.Error != nil {
		return translate(res.Error, "service")
	}
	if res.RowsAffected == 0 {
		return appErr.NotFound("service not found")
	}
	return nil
}

func (r *brandingRepository) AddImage(ctx context.Context, img *models.BrandingImage) error {
	return translate(r.db.WithContext(ctx).Create(img).Error, "image")
}

func (r *brandingRepository) DeleteImage(ctx context.Context, brandingID, imageID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND branding_id = ?", imageID, brandingID).Delete(&models.BrandingImage{})
	if res.Error != nil {
		return translate(res.Error, "image")
	}
	if res.RowsAffected == 0 {
		return appErr.NotFound("image not found")
	}
	return nil
}
