package repository

import (
	"fmt"

	"github.com/sitepilot/engine/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema, then applies what AutoMigrate can't express.
func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
			return fmt.Errorf("enable pgcrypto: %w", err)
		}
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	custom := []struct {
		name string
		sql  string
	}{
		{
			// at most one active version per project
			name: "idx_versions_one_active",
			sql:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_versions_one_active ON versions(project_id) WHERE status = 'active'`,
		},
		{
			name: "idx_deployments_project_created",
			sql:  `CREATE INDEX IF NOT EXISTS idx_deployments_project_created ON deployments(project_id, created_at DESC)`,
		},
	}
	for _, m := range custom {
		if err := db.Exec(m.sql).Error; err != nil {
			return fmt.Errorf("migration %s: %w", m.name, err)
		}
	}
	return nil
}
