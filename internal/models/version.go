package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	VersionActive   = "active"
	VersionInactive = "inactive"
)

// Version is one generation result in a project's history. Everything except
// Status is write-once.
type Version struct {
	ID               uuid.UUID                           `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID         uuid.UUID                           `gorm:"type:uuid;index;not null" json:"tenant_id"`
	ProjectID        uuid.UUID                           `gorm:"type:uuid;not null;uniqueIndex:idx_versions_project_number,priority:1" json:"project_id"`
	UserID           uuid.UUID                           `gorm:"type:uuid;not null" json:"user_id"`
	VersionNumber    int                                 `gorm:"not null;uniqueIndex:idx_versions_project_number,priority:2" json:"version_number"`
	UserPrompt       string                              `gorm:"type:text;not null" json:"user_prompt"`
	HTMLCode         string                              `gorm:"type:text;not null" json:"html_code"`
	BrandingSnapshot datatypes.JSONType[BrandingSnapshot] `json:"branding_snapshot"`
	Status           string                              `gorm:"type:varchar(16);not null;index" json:"status"`
	CreatedAt        time.Time                           `json:"created_at"`
}

func (v *Version) BeforeCreate(*gorm.DB) error { assignID(&v.ID); return nil }

// Branding returns the frozen snapshot.
func (v *Version) Branding() BrandingSnapshot { return v.BrandingSnapshot.Data() }

// BrandingSnapshot is the point-in-time copy of a tenant's branding.
type BrandingSnapshot struct {
	CompanyName     string            `json:"company_name"`
	Logo            string            `json:"logo"`
	PrimaryColor    string            `json:"primary_color"`
	SecondaryColor  string            `json:"secondary_color"`
	AccentColor     string            `json:"accent_color"`
	BackgroundColor string            `json:"background_color"`
	TextColor       string            `json:"text_color"`
	FontHeading     string            `json:"font_heading"`
	FontBody        string            `json:"font_body"`
	Services        []ServiceSnapshot `json:"services"`
	Images          []string          `json:"images"`
}

type ServiceSnapshot struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}
