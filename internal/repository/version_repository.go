package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sitepilot/engine/internal/models"
	appErr "github.com/sitepilot/engine/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VersionRepository is the storage side of the version ledger. Both write
// paths lock the project row and flip the active flag and the project's
// pointer in one transaction.
type VersionRepository interface {
	GetInProject(ctx context.Context, projectID, versionID uuid.UUID, dest *models.Version) error
	GetActive(ctx context.Context, projectID uuid.UUID, dest *models.Version) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Version, error)
	Count(ctx context.Context, projectID uuid.UUID) (int64, error)

	// AppendActive numbers v as count+1 within its project, stores it as the
	// only active version and points the project at it.
	AppendActive(ctx context.Context, v *models.Version) error
	// Activate makes an existing version the project's only active version.
	Activate(ctx context.Context, projectID, versionID uuid.UUID, dest *models.Version) error
}

type versionRepository struct {
	db *gorm.DB
}

func NewVersionRepository(db *gorm.DB) VersionRepository {
	return &versionRepository{db: db}
}

func (r *versionRepository) GetInProject(ctx context.Context, projectID, versionID uuid.UUID, dest *models.Version) error {
	err := r.db.WithContext(ctx).Where("id = ? AND project_id = ?", versionID, projectID).First(dest).Error
	return translate(err, "version")
}

func (r *versionRepository) GetActive(ctx context.Context, projectID uuid.UUID, dest *models.Version) error {
	err := r.db.WithContext(ctx).Where("project_id = ? AND status = ?", projectID, models.VersionActive).First(dest).Error
	return translate(err, "active version")
}

func (r *versionRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Version, error) {
	var out []models.Version
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("version_number DESC").Find(&out).Error; err != nil {
		return nil, translate(err, "version")
	}
	return out, nil
}

func (r *versionRepository) Count(ctx context.Context, projectID uuid.UUID) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Version{}).Where("project_id = ?", projectID).Count(&n).Error; err != nil {
		return 0, translate(err, "version")
	}
	return n, nil
}

func (r *versionRepository) AppendActive(ctx context.Context, v *models.Version) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockProject(tx, v.ProjectID); err != nil {
			return err
		}

		var n int64
		if err := tx.Model(&models.Version{}).Where("project_id = ?", v.ProjectID).Count(&n).Error; err != nil {
			return err
		}
		v.VersionNumber = int(n) + 1
		v.Status = models.VersionActive

		if err := deactivateOthers(tx, v.ProjectID, uuid.Nil); err != nil {
			return err
		}
		if err := tx.Create(v).Error; err != nil {
			return err
		}
		return pointProjectAt(tx, v.ProjectID, v.ID)
	})
	return ledgerError(err)
}

func (r *versionRepository) Activate(ctx context.Context, projectID, versionID uuid.UUID, dest *models.Version) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockProject(tx, projectID); err != nil {
			return err
		}
		if err := tx.Where("id = ? AND project_id = ?", versionID, projectID).First(dest).Error; err != nil {
			return translate(err, "version")
		}
		if err := deactivateOthers(tx, projectID, versionID); err != nil {
			return err
		}
		if dest.Status != models.VersionActive {
			if err := tx.Model(&models.Version{}).Where("id = ?", versionID).Update("status", models.VersionActive).Error; err != nil {
				return err
			}
			dest.Status = models.VersionActive
		}
		return pointProjectAt(tx, projectID, versionID)
	})
	return ledgerError(err)
}

// lockProject takes a row lock on the project for the rest of the transaction.
// SQLite has no row locks; its single writer gives the same exclusion.
func lockProject(tx *gorm.DB, projectID uuid.UUID) error {
	var p models.Project
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").Where("id = ?", projectID).Take(&p).Error
	return translate(err, "project")
}

func deactivateOthers(tx *gorm.DB, projectID, keep uuid.UUID) error {
	q := tx.Model(&models.Version{}).Where("project_id = ? AND status = ?", projectID, models.VersionActive)
	if keep != uuid.Nil {
		q = q.Where("id <> ?", keep)
	}
	return q.Update("status", models.VersionInactive).Error
}

func pointProjectAt(tx *gorm.DB, projectID, versionID uuid.UUID) error {
	return tx.Model(&models.Project{}).Where("id = ?", projectID).Update("active_version_id", versionID).Error
}

// ledgerError surfaces unique-index violations as retryable conflicts.
func ledgerError(err error) error {
	if err == nil {
		return nil
	}
	if appErr.CodeOf(err) == appErr.CodeUnknown && errors.Is(err, gorm.ErrDuplicatedKey) {
		return appErr.Wrap(err, appErr.CodeConflict, "concurrent version write detected, retry the request")
	}
	return translate(err, "version")
}
