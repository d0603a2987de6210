package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tenant is a customer organization and the unit of data isolation.
type Tenant struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name" validate:"required"`
	Slug      string    `gorm:"type:varchar(63);uniqueIndex;not null" json:"slug" validate:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Tenant) BeforeCreate(*gorm.DB) error { assignID(&t.ID); return nil }
