package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/sitepilot/engine/internal/generation"
	"github.com/sitepilot/engine/internal/models"
	"github.com/sitepilot/engine/internal/prompt"
	"github.com/sitepilot/engine/internal/repository"
	appErr "github.com/sitepilot/engine/pkg/errors"
	"github.com/sitepilot/engine/pkg/lock"
	"github.com/sitepilot/engine/pkg/logger"
	"github.com/sitepilot/engine/pkg/telemetry"
)

// VersionService is the version ledger: it generates, numbers, snapshots and
// activates project versions. At most one version per project is active and
// the project's ActiveVersionID always names it.
type VersionService interface {
	CreateVersion(ctx context.Context, actor Actor, projectID uuid.UUID, userPrompt string) (*models.Version, error)
	Rollback(ctx context.Context, actor Actor, projectID, versionID uuid.UUID) (*models.Version, error)
	ListVersions(ctx context.Context, actor Actor, projectID uuid.UUID) ([]models.Version, error)
	GetVersion(ctx context.Context, actor Actor, projectID, versionID uuid.UUID) (*models.Version, error)
}

type versionService struct {
	projects  repository.ProjectRepository
	versions  repository.VersionRepository
	tenants   repository.TenantRepository
	branding  BrandingStore
	composer  *prompt.Composer
	generator generation.Generator
	locker    lock.Locker
}

func NewVersionService(
	projects repository.ProjectRepository,
	versions repository.VersionRepository,
	tenants repository.TenantRepository,
	branding BrandingStore,
	composer *prompt.Composer,
	generator generation.Generator,
	locker lock.Locker,
) VersionService {
	if composer == nil {
		composer = prompt.NewComposer()
	}
	if locker == nil {
		locker = lock.NewKeyedMutex()
	}
	return &versionService{
		projects:  projects,
		versions:  versions,
		tenants:   tenants,
		branding:  branding,
		composer:  composer,
		generator: generator,
		locker:    locker,
	}
}

var _ VersionService = (*versionService)(nil)

func (s *versionService) CreateVersion(ctx context.Context, actor Actor, projectID uuid.UUID, userPrompt string) (v *models.Version, err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "VersionService.CreateVersion",
		trace.WithAttributes(attribute.String("project.id", projectID.String())))
	defer func() { endSpan(span, err) }()

	log := logger.Ctx(ctx).With(zap.String("project_id", projectID.String()), zap.String("user_id", actor.UserID.String()))

	if strings.TrimSpace(userPrompt) == "" {
		return nil, appErr.Invalid("prompt is required")
	}

	p, err := loadProject(ctx, s.projects, actor, projectID, write)
	if err != nil {
		return nil, err
	}

	brand, err := s.branding.GetOrCreateDefault(ctx, p.TenantID, s.tenantName(ctx, p.TenantID))
	if err != nil {
		return nil, err
	}

	previousHTML := ""
	if p.ActiveVersionID != nil {
		var prev models.Version
		if err := s.versions.GetInProject(ctx, p.ID, *p.ActiveVersionID, &prev); err == nil {
			previousHTML = prev.HTMLCode
		} else if !appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, err
		}
	}

	text, err := s.composer.Compose(userPrompt, prompt.FromModel(brand), previousHTML)
	if err != nil {
		return nil, err
	}

	log.Info("generation started", zap.Bool("has_previous", previousHTML != ""), zap.Int("prompt_bytes", len(text)))
	html, err := s.generate(ctx, text)
	if err != nil {
		return nil, err
	}

	// a result for an abandoned request is never activated
	if err := ctx.Err(); err != nil {
		return nil, appErr.Wrap(err, appErr.CodeGeneration, "request cancelled before activation")
	}

	v = &models.Version{
		TenantID:         p.TenantID,
		ProjectID:        p.ID,
		UserID:           actor.UserID,
		UserPrompt:       userPrompt,
		HTMLCode:         html,
		BrandingSnapshot: datatypes.NewJSONType(brand.Snapshot()),
	}

	err = s.withProjectLock(ctx, p.ID, func() error {
		return s.versions.AppendActive(ctx, v)
	})
	if err != nil {
		log.Warn("version activation failed", zap.Error(err))
		return nil, err
	}

	log.Info("version created", zap.String("version_id", v.ID.String()), zap.Int("version_number", v.VersionNumber))
	return v, nil
}

func (s *versionService) Rollback(ctx context.Context, actor Actor, projectID, versionID uuid.UUID) (v *models.Version, err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "VersionService.Rollback",
		trace.WithAttributes(
			attribute.String("project.id", projectID.String()),
			attribute.String("version.id", versionID.String()),
		))
	defer func() { endSpan(span, err) }()

	if _, err := loadProject(ctx, s.projects, actor, projectID, write); err != nil {
		return nil, err
	}

	var target models.Version
	err = s.withProjectLock(ctx, projectID, func() error {
		return s.versions.Activate(ctx, projectID, versionID, &target)
	})
	if err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Info("version activated",
		zap.String("project_id", projectID.String()),
		zap.String("version_id", versionID.String()),
		zap.Int("version_number", target.VersionNumber))
	return &target, nil
}

func (s *versionService) ListVersions(ctx context.Context, actor Actor, projectID uuid.UUID) ([]models.Version, error) {
	if _, err := loadProject(ctx, s.projects, actor, projectID, read); err != nil {
		return nil, err
	}
	return s.versions.ListByProject(ctx, projectID)
}

func (s *versionService) GetVersion(ctx context.Context, actor Actor, projectID, versionID uuid.UUID) (*models.Version, error) {
	if _, err := loadProject(ctx, s.projects, actor, projectID, read); err != nil {
		return nil, err
	}
	var v models.Version
	if err := s.versions.GetInProject(ctx, projectID, versionID, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *versionService) generate(ctx context.Context, text string) (string, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "generation.Generate")
	html, err := s.generator.Generate(ctx, text)
	endSpan(span, err)
	return html, err
}

// withProjectLock runs fn while holding the project's lock. The lock is
// always taken before any transaction is opened.
func (s *versionService) withProjectLock(ctx context.Context, projectID uuid.UUID, fn func() error) error {
	unlock, err := lockProject(ctx, s.locker, projectID)
	if err != nil {
		return err
	}
	defer unlock()
	return fn()
}

func (s *versionService) tenantName(ctx context.Context, tenantID uuid.UUID) string {
	if s.tenants == nil {
		return ""
	}
	var t models.Tenant
	if err := s.tenants.GetByID(ctx, tenantID, &t); err != nil {
		return ""
	}
	return t.Name
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(appErr.CodeOf(err)))
	}
	span.End()
}
