package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ProjectDraft     = "draft"
	ProjectPublished = "published"
)

// Project is a unit of generated-site work owned by one user within a tenant.
// ActiveVersionID mirrors the single Version whose status is active.
type Project struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID        uuid.UUID  `gorm:"type:uuid;index;not null" json:"tenant_id"`
	UserID          uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	Name            string     `gorm:"not null" json:"name" validate:"required"`
	Description     string     `gorm:"type:text" json:"description"`
	ActiveVersionID *uuid.UUID `gorm:"type:uuid" json:"active_version_id"`
	Status          string     `gorm:"type:varchar(16);not null;default:draft" json:"status" validate:"oneof=draft published"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (p *Project) BeforeCreate(*gorm.DB) error {
	assignID(&p.ID)
	if p.Status == "" {
		p.Status = ProjectDraft
	}
	return nil
}
