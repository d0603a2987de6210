package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sitepilot/engine/internal/models"
	"gorm.io/gorm"
)

type UserRepository interface {
	BaseRepository[models.User]
	GetByEmail(ctx context.Context, email string, dest *models.User) error
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.User, error)
}

type userRepository struct {
	BaseRepository[models.User]
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository[models.User](db, "user"), db: db}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string, dest *models.User) error {
	return translate(r.db.WithContext(ctx).Where("email = ?", email).First(dest).Error, "user")
}

func (r *userRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.User, error) {
	var out []models.User
	if err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, translate(err, "user")
	}
	return out, nil
}
