// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sitepilot/engine/internal/models"
	"github.com/sitepilot/engine/internal/repository"
	"github.com/sitepilot/engine/pkg/database"
	"github.com/sitepilot/engine/pkg/logger"
)

// NewDB returns a migrated SQLite database that lives for the duration of t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	logger.UseNop()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "engine.db"), database.Options{})
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Fixture is a tenant with one editor-owned project.
type Fixture struct {
	Tenant  models.Tenant
	Admin   models.User
	Editor  models.User
	Project models.Project
}

// Seed creates a tenant, an admin, an editor and a project owned by the editor.
func Seed(t testing.TB, db *gorm.DB) Fixture {
	t.Helper()
	var f Fixture
	f.Tenant = models.Tenant{Name: "Acme", Slug: "acme-" + randSuffix()}
	require.NoError(t, db.Create(&f.Tenant).Error)
	f.Admin = models.User{TenantID: f.Tenant.ID, Email: "admin-" + randSuffix() + "@acme.test", Name: "Ada", Role: models.RoleAdmin, PasswordHash: "x"}
	require.NoError(t, db.Create(&f.Admin).Error)
	f.Editor = models.User{TenantID: f.Tenant.ID, Email: "editor-" + randSuffix() + "@acme.test", Name: "Ed", Role: models.RoleEditor, PasswordHash: "x"}
	require.NoError(t, db.Create(&f.Editor).Error)
	f.Project = models.Project{TenantID: f.Tenant.ID, UserID: f.Editor.ID, Name: "Landing"}
	require.NoError(t, db.Create(&f.Project).Error)
	return f
}

func randSuffix() string {
	return uuid.NewString()[:8]
}
