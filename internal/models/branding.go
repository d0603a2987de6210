package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Branding defaults applied when a tenant has not configured its identity yet.
const (
	DefaultCompanyName    = "My Company"
	DefaultPrimaryColor   = "#8b5cf6"
	DefaultSecondaryColor = "#6d28d9"
	DefaultAccentColor    = "#06b6d4"
	DefaultBackground     = "#1a1a2e"
	DefaultTextColor      = "#111111"
	DefaultFontHeading    = "Outfit"
	DefaultFontBody       = "Inter"
)

// Branding is the live, mutable visual identity of a tenant.
type Branding struct {
	ID                 uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID           uuid.UUID         `gorm:"type:uuid;uniqueIndex;not null" json:"tenant_id"`
	CompanyName        string            `gorm:"not null" json:"company_name"`
	CompanyDescription string            `gorm:"type:text" json:"company_description"`
	Logo               string            `json:"logo"`
	Favicon            string            `json:"favicon"`
	PrimaryColor       string            `gorm:"type:varchar(32)" json:"primary_color"`
	SecondaryColor     string            `gorm:"type:varchar(32)" json:"secondary_color"`
	AccentColor        string            `gorm:"type:varchar(32)" json:"accent_color"`
	BackgroundColor    string            `gorm:"type:varchar(32)" json:"background_color"`
	TextColor          string            `gorm:"type:varchar(32)" json:"text_color"`
	FontHeading        string            `json:"font_heading"`
	FontBody           string            `json:"font_body"`
	Services           []BrandingService `gorm:"constraint:OnDelete:CASCADE" json:"services"`
	Images             []BrandingImage   `gorm:"constraint:OnDelete:CASCADE" json:"images"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

func (b *Branding) BeforeCreate(*gorm.DB) error { assignID(&b.ID); return nil }

// BrandingService is one offering listed on the generated site.
type BrandingService struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BrandingID  uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `json:"price"`
	Icon        string    `json:"icon"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *BrandingService) BeforeCreate(*gorm.DB) error { assignID(&s.ID); return nil }

// BrandingImage is a gallery image referenced by URL.
type BrandingImage struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BrandingID uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`
	URL        string    `gorm:"not null" json:"url"`
	Alt        string    `json:"alt"`
	CreatedAt  time.Time `json:"created_at"`
}

func (i *BrandingImage) BeforeCreate(*gorm.DB) error { assignID(&i.ID); return nil }

// DefaultBranding builds the record materialized for tenants without one.
func DefaultBranding(tenantID uuid.UUID, companyName string) *Branding {
	if companyName == "" {
		companyName = DefaultCompanyName
	}
	return &Branding{
		TenantID:        tenantID,
		CompanyName:     companyName,
		PrimaryColor:    DefaultPrimaryColor,
		SecondaryColor:  DefaultSecondaryColor,
		AccentColor:     DefaultAccentColor,
		BackgroundColor: DefaultBackground,
		TextColor:       DefaultTextColor,
		FontHeading:     DefaultFontHeading,
		FontBody:        DefaultFontBody,
	}
}

// Snapshot returns a deep copy of the fields frozen into a Version.
func (b *Branding) Snapshot() BrandingSnapshot {
	s := BrandingSnapshot{
		CompanyName:     b.CompanyName,
		Logo:            b.Logo,
		PrimaryColor:    b.PrimaryColor,
		SecondaryColor:  b.SecondaryColor,
		AccentColor:     b.AccentColor,
		BackgroundColor: b.BackgroundColor,
		TextColor:       b.TextColor,
		FontHeading:     b.FontHeading,
		FontBody:        b.FontBody,
		Services:        make([]ServiceSnapshot, 0, len(b.Services)),
		Images:          make([]string, 0, len(b.Images)),
	}
	for _, svc := range b.Services {
		s.Services = append(s.Services, ServiceSnapshot{Name: svc.Name, Description: svc.Description, Price: svc.Price})
	}
	for _, img := range b.Images {
		s.Images = append(s.Images, img.URL)
	}
	return s
}
