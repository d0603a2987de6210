// Package models holds the persisted entities of the site engine.
package models

import (
	"github.com/google/uuid"
)

// All returns every model managed by migrations, parents before children.
func All() []any {
	return []any{
		&Tenant{},
		&User{},
		&Branding{},
		&BrandingService{},
		&BrandingImage{},
		&Project{},
		&Version{},
		&Deployment{},
		&Site{},
	}
}

// assignID gives new rows a client-side UUID so inserts work on every dialect.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
