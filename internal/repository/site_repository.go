package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sitepilot/engine/internal/models"
	appErr "github.com/sitepilot/engine/pkg/errors"
	"gorm.io/gorm"
)

type SiteRepository interface {
	GetByName(ctx context.Context, name string, dest *models.Site) error
	// Upsert creates or replaces the site named s.Name. A name held by another tenant is a conflict.
	Upsert(ctx context.Context, s *models.Site) error
}

type siteRepository struct {
	db *gorm.DB
}

func NewSiteRepository(db *gorm.DB) SiteRepository {
	return &siteRepository{db: db}
}

func (r *siteRepository) GetByName(ctx context.Context, name string, dest *models.Site) error {
	return translate(r.db.WithContext(ctx).Where("name = ?", name).First(dest).Error, "site")
}

func (r *siteRepository) Upsert(ctx context.Context, s *models.Site) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Site
		err := tx.Where("name = ?", s.Name).First(&existing).Error
		switch {
		case err == nil:
			if existing.TenantID != s.TenantID {
				return appErr.Conflict("subdomain is already taken").WithMeta("subdomain", s.Name)
			}
			s.ID = existing.ID
			s.PublishedAt = time.Now()
			return tx.Model(&existing).Updates(map[string]any{
				"project_id":   s.ProjectID,
				"version_id":   s.VersionID,
				"html":         s.HTML,
				"published_at": s.PublishedAt,
			}).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			s.PublishedAt = time.Now()
			return tx.Create(s).Error
		default:
			return err
		}
	})
	return translate(err, "site")
}
