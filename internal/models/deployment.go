package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DeploymentQueued    = "queued"
	DeploymentDeploying = "deploying"
	DeploymentSuccess   = "success"
	DeploymentFailed    = "failed"
)

// Deployment publishes one pinned Version under a subdomain.
type Deployment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID  uuid.UUID `gorm:"type:uuid;index;not null" json:"tenant_id"`
	ProjectID uuid.UUID `gorm:"type:uuid;index;not null" json:"project_id"`
	VersionID uuid.UUID `gorm:"type:uuid;not null" json:"version_id"`
	Subdomain string    `gorm:"type:varchar(63);not null" json:"subdomain"`
	Status    string    `gorm:"type:varchar(16);index;not null" json:"status"`
	URL       string    `json:"url,omitempty"`
	Error     string    `gorm:"type:text" json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *Deployment) BeforeCreate(*gorm.DB) error { assignID(&d.ID); return nil }

// Site is the HTML currently served for a subdomain.
type Site struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(63);uniqueIndex;not null" json:"name"`
	TenantID    uuid.UUID `gorm:"type:uuid;index;not null" json:"tenant_id"`
	ProjectID   uuid.UUID `gorm:"type:uuid;index;not null" json:"project_id"`
	VersionID   uuid.UUID `gorm:"type:uuid;not null" json:"version_id"`
	HTML        string    `gorm:"type:text;not null" json:"-"`
	PublishedAt time.Time `json:"published_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *Site) BeforeCreate(*gorm.DB) error { assignID(&s.ID); return nil }
