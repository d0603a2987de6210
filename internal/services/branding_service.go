package services

import (
	"context"
	"html"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/sitepilot/engine/internal/models"
	"github.com/sitepilot/engine/internal/repository"
	appErr "github.com/sitepilot/engine/pkg/errors"
	"github.com/sitepilot/engine/pkg/logger"
)

// BrandingStore is the read side of branding used by version generation.
type BrandingStore interface {
	// GetOrCreateDefault returns the tenant's branding, materializing defaults
	// the first time. fallbackName seeds the company name when non-empty.
	GetOrCreateDefault(ctx context.Context, tenantID uuid.UUID, fallbackName string) (*models.Branding, error)
}

type BrandingService interface {
	BrandingStore
	Get(ctx context.Context, actor Actor) (*models.Branding, error)
	Update(ctx context.Context, actor Actor, in *BrandingUpdate) (*models.Branding, error)
	AddService(ctx context.Context, actor Actor, in *ServiceInput) (*models.BrandingService, error)
	UpdateService(ctx context.Context, actor Actor, serviceID uuid.UUID, in *ServiceInput) (*models.Branding, error)
	DeleteService(ctx context.Context, actor Actor, serviceID uuid.UUID) error
	AddImage(ctx context.Context, actor Actor, in *ImageInput) (*models.BrandingImage, error)
	DeleteImage(ctx context.Context, actor Actor, imageID uuid.UUID) error
}

// BrandingUpdate carries a partial update; nil fields are left untouched.
// BgColor is accepted as an alias of BackgroundColor.
type BrandingUpdate struct {
	CompanyName        *string
	CompanyDescription *string
	Logo               *string
	Favicon            *string
	PrimaryColor       *string
	SecondaryColor     *string
	AccentColor        *string
	BackgroundColor    *string
	BgColor            *string
	TextColor          *string
	FontHeading        *string
	FontBody           *string
}

type ServiceInput struct {
	Name        string
	Description string
	Price       float64
	Icon        string
}

type ImageInput struct {
	URL string
	Alt string
}

type brandingService struct {
	repo    repository.BrandingRepository
	tenants repository.TenantRepository
	policy  *bluemonday.Policy
}

func NewBrandingService(repo repository.BrandingRepository, tenants repository.TenantRepository) BrandingService {
	return &brandingService{repo: repo, tenants: tenants, policy: bluemonday.StrictPolicy()}
}

var _ BrandingService = (*brandingService)(nil)

func (s *brandingService) GetOrCreateDefault(ctx context.Context, tenantID uuid.UUID, fallbackName string) (*models.Branding, error) {
	var b models.Branding
	err := s.repo.GetByTenant(ctx, tenantID, &b)
	if err == nil {
		return &b, nil
	}
	if !appErr.IsCode(err, appErr.CodeNotFound) {
		return nil, err
	}
	created := models.DefaultBranding(tenantID, s.clean(fallbackName))
	if err := s.repo.CreateIfAbsent(ctx, created); err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Info("default branding created", zap.String("tenant_id", tenantID.String()))
	return created, nil
}

func (s *brandingService) Get(ctx context.Context, actor Actor) (*models.Branding, error) {
	return s.GetOrCreateDefault(ctx, actor.TenantID, s.tenantName(ctx, actor.TenantID))
}

func (s *brandingService) Update(ctx context.Context, actor Actor, in *BrandingUpdate) (*models.Branding, error) {
	if err := actor.requireRole(models.RoleEditor); err != nil {
		return nil, err
	}
	b, err := s.Get(ctx, actor)
	if err != nil {
		return nil, err
	}

	if in.BackgroundColor == nil {
		in.BackgroundColor = in.BgColor
	}
	fields := map[string]any{}
	set := func(col string, v *string, text bool) {
		if v == nil {
			return
		}
		val := strings.TrimSpace(*v)
		if text {
			val = s.clean(val)
		}
		fields[col] = val
	}
	set("company_name", in.CompanyName, true)
	set("company_description", in.CompanyDescription, true)
	set("logo", in.Logo, false)
	set("favicon", in.Favicon, false)
	set("primary_color", in.PrimaryColor, false)
	set("secondary_color", in.SecondaryColor, false)
	set("accent_color", in.AccentColor, false)
	set("background_color", in.BackgroundColor, false)
	set("text_color", in.TextColor, false)
	set("font_heading", in.FontHeading, true)
	set("font_body", in.FontBody, true)

	if name, ok := fields["company_name"]; ok && name == "" {
		return nil, appErr.Invalid("company name cannot be empty")
	}
	if err := s.repo.UpdateFields(ctx, b.ID, fields); err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Info("branding updated", zap.String("tenant_id", actor.TenantID.String()), zap.Int("fields", len(fields)))
	return s.reload(ctx, actor.TenantID)
}

func (s *brandingService) AddService(ctx context.Context, actor Actor, in *ServiceInput) (*models.BrandingService, error) {
	b, err := s.editable(ctx, actor)
	if err != nil {
		return nil, err
	}
	if in.Price < 0 {
		return nil, appErr.Invalid("price cannot be negative")
	}
	svc := &models.BrandingService{
		BrandingID:  b.ID,
		Name:        s.clean(in.Name),
		Description: s.clean(in.Description),
		Price:       in.Price,
		Icon:        strings.TrimSpace(in.Icon),
	}
	if svc.Name == "" {
		return nil, appErr.Invalid("service name is required")
	}
	if err := s.repo.AddService(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *brandingService) UpdateService(ctx context.Context, actor Actor, serviceID uuid.UUID, in *ServiceInput) (*models.Branding, error) {
	b, err := s.editable(ctx, actor)
	if err != nil {
		return nil, err
	}
	if in.Price < 0 {
		return nil, appErr.Invalid("price cannot be negative")
	}
	name := s.clean(in.Name)
	if name == "" {
		return nil, appErr.Invalid("service name is required")
	}
	fields := map[string]any{
		"name":        name,
		"description": s.clean(in.Description),
		"price":       in.Price,
		"icon":        strings.TrimSpace(in.Icon),
	}
	if err := s.repo.UpdateService(ctx, b.ID, serviceID, fields); err != nil {
		return nil, err
	}
	return s.reload(ctx, actor.TenantID)
}

func (s *brandingService) DeleteService(ctx context.Context, actor Actor, serviceID uuid.UUID) error {
	b, err := s.editable(ctx, actor)
	if err != nil {
		return err
	}
	return s.repo.DeleteService(ctx, b.ID, serviceID)
}

func (s *brandingService) AddImage(ctx context.Context, actor Actor, in *ImageInput) (*models.BrandingImage, error) {
	b, err := s.editable(ctx, actor)
	if err != nil {
		return nil, err
	}
	img := &models.BrandingImage{BrandingID: b.ID, URL: strings.TrimSpace(in.URL), Alt: s.clean(in.Alt)}
	if img.URL == "" {
		return nil, appErr.Invalid("image url is required")
	}
	if err := s.repo.AddImage(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

func (s *brandingService) DeleteImage(ctx context.Context, actor Actor, imageID uuid.UUID) error {
	b, err := s.editable(ctx, actor)
	if err != nil {
		return err
	}
	return s.repo.DeleteImage(ctx, b.ID, imageID)
}

// editable returns the actor's branding when the actor may change it.
func (s *brandingService) editable(ctx context.Context, actor Actor) (*models.Branding, error) {
	if err := actor.requireRole(models.RoleEditor); err != nil {
		return nil, err
	}
	return s.Get(ctx, actor)
}

func (s *brandingService) reload(ctx context.Context, tenantID uuid.UUID) (*models.Branding, error) {
	var b models.Branding
	if err := s.repo.GetByTenant(ctx, tenantID, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *brandingService) tenantName(ctx context.Context, tenantID uuid.UUID) string {
	var t models.Tenant
	if s.tenants == nil || s.tenants.GetByID(ctx, tenantID, &t) != nil {
		return ""
	}
	return t.Name
}

// clean strips markup from free text before it can reach a prompt.
func (s *brandingService) clean(v string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(v)))
}
