package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitepilot/engine/internal/models"
	"github.com/sitepilot/engine/internal/repository"
	"github.com/sitepilot/engine/internal/testutil"
	appErr "github.com/sitepilot/engine/pkg/errors"
)

func TestBrandingCreateIfAbsentKeepsExisting(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	repo := repository.NewBrandingRepository(db)
	ctx := context.Background()

	first := models.DefaultBranding(f.Tenant.ID, "Acme")
	require.NoError(t, repo.CreateIfAbsent(ctx, first))

	second := models.DefaultBranding(f.Tenant.ID, "Other")
	require.NoError(t, repo.CreateIfAbsent(ctx, second))
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Acme", second.CompanyName)
}

func TestBrandingChildren(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	repo := repository.NewBrandingRepository(db)
	ctx := context.Background()

	b := models.DefaultBranding(f.Tenant.ID, "Acme")
	require.NoError(t, repo.CreateIfAbsent(ctx, b))

	svc := &models.BrandingService{BrandingID: b.ID, Name: "Design", Price: 10}
	require.NoError(t, repo.AddService(ctx, svc))
	require.NoError(t, repo.AddImage(ctx, &models.BrandingImage{BrandingID: b.ID, URL: "https://img.test/1.png", Alt: "one"}))
	require.NoError(t, repo.UpdateService(ctx, b.ID, svc.ID, map[string]any{"price": 12.5}))

	var got models.Branding
	require.NoError(t, repo.GetByTenant(ctx, f.Tenant.ID, &got))
	require.Len(t, got.Services, 1)
	assert.Equal(t, 12.5, got.Services[0].Price)
	require.Len(t, got.Images, 1)

	err := repo.DeleteService(ctx, b.ID, uuid.New())
	assert.True(t, appErr.IsCode(err, appErr.CodeNotFound))
	require.NoError(t, repo.DeleteImage(ctx, b.ID, got.Images[0].ID))
}

func TestSiteUpsertOwnership(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	g := testutil.Seed(t, db)
	repo := repository.NewSiteRepository(db)
	ctx := context.Background()

	site := &models.Site{Name: "acme", TenantID: f.Tenant.ID, ProjectID: f.Project.ID, VersionID: uuid.New(), HTML: "<html>A</html>"}
	require.NoError(t, repo.Upsert(ctx, site))

	again := &models.Site{Name: "acme", TenantID: f.Tenant.ID, ProjectID: f.Project.ID, VersionID: uuid.New(), HTML: "<html>B</html>"}
	require.NoError(t, repo.Upsert(ctx, again))
	assert.Equal(t, site.ID, again.ID)

	var stored models.Site
	require.NoError(t, repo.GetByName(ctx, "acme", &stored))
	assert.Equal(t, "<html>B</html>", stored.HTML)

	stolen := &models.Site{Name: "acme", TenantID: g.Tenant.ID, ProjectID: g.Project.ID, VersionID: uuid.New(), HTML: "x"}
	err := repo.Upsert(ctx, stolen)
	assert.True(t, appErr.IsCode(err, appErr.CodeConflict))
}
