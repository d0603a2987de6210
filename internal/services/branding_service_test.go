package services

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

func newBrandingFixture(t *testing.T) (BrandingService, testutil.Fixture, Actor) {
	t.Helper()
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	svc := NewBrandingService(repository.NewBrandingRepository(db), repository.NewTenantRepository(db))
	return svc, f, Actor{UserID: f.Editor.ID, TenantID: f.Tenant.ID, Role: models.RoleEditor}
}

func TestBrandingDefaultsMaterializeOnce(t *testing.T) {
	svc, f, editor := newBrandingFixture(t)
	ctx := context.Background()

	b1, err := svc.Get(ctx, editor)
	require.NoError(t, err)
	assert.Equal(t, f.Tenant.Name, b1.CompanyName)
	assert.Equal(t, models.DefaultPrimaryColor, b1.PrimaryColor)
	assert.Equal(t, models.DefaultFontHeading, b1.FontHeading)

	b2, err := svc.GetOrCreateDefault(ctx, f.Tenant.ID, "ignored")
	require.NoError(t, err)
	assert.Equal(t, b1.ID, b2.ID)
	assert.Equal(t, f.Tenant.Name, b2.CompanyName)
}

func TestBrandingUpdateSanitizesAndAliases(t *testing.T) {
	svc, _, editor := newBrandingFixture(t)
	ctx := context.Background()

	b, err := svc.Update(ctx, editor, &BrandingUpdate{
		CompanyName:        ptr("<b>Tom & Jerry</b>"),
		CompanyDescription: ptr(`<script>alert(1)</script>Cakes`),
		BgColor:            ptr("#fafafa"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Tom & Jerry", b.CompanyName)
	assert.Equal(t, "Cakes", b.CompanyDescription)
	assert.Equal(t, "#fafafa", b.BackgroundColor)

	b, err = svc.Update(ctx, editor, &BrandingUpdate{BackgroundColor: ptr("#000000"), BgColor: ptr("#ffffff")})
	require.NoError(t, err)
	assert.Equal(t, "#000000", b.BackgroundColor)
	assert.Equal(t, "Tom & Jerry", b.CompanyName)

	_, err = svc.Update(ctx, editor, &BrandingUpdate{CompanyName: ptr("<i></i>")})
	assert.True(t, appErr.IsCode(err, appErr.CodeInvalid))
}

func TestBrandingServicesAndImages(t *testing.T) {
	svc, _, editor := newBrandingFixture(t)
	ctx := context.Background()

	_, err := svc.AddService(ctx, editor, &ServiceInput{Name: ""})
	assert.True(t, appErr.IsCode(err, appErr.CodeInvalid))
	_, err = svc.AddService(ctx, editor, &ServiceInput{Name: "Paint", Price: -1})
	assert.True(t, appErr.IsCode(err, appErr.CodeInvalid))

	s1, err := svc.AddService(ctx, editor, &ServiceInput{Name: "Paint", Description: "walls", Price: 40})
	require.NoError(t, err)
	_, err = svc.AddService(ctx, editor, &ServiceInput{Name: "Tile", Price: 55.5})
	require.NoError(t, err)

	b, err := svc.UpdateService(ctx, editor, s1.ID, &ServiceInput{Name: "Paint+", Price: 45})
	require.NoError(t, err)
	require.Len(t, b.Services, 2)
	assert.Equal(t, "Paint+", b.Services[0].Name)
	assert.Equal(t, "Tile", b.Services[1].Name)

	img, err := svc.AddImage(ctx, editor, &ImageInput{URL: "https://cdn.test/x.jpg", Alt: "front"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteImage(ctx, editor, img.ID))
	assert.True(t, appErr.IsCode(svc.DeleteImage(ctx, editor, img.ID), appErr.CodeNotFound))

	require.NoError(t, svc.DeleteService(ctx, editor, s1.ID))
	assert.True(t, appErr.IsCode(svc.DeleteService(ctx, editor, uuid.New()), appErr.CodeNotFound))

	b, err = svc.Get(ctx, editor)
	require.NoError(t, err)
	require.Len(t, b.Services, 1)
	assert.Empty(t, b.Images)
}

func TestBrandingRequiresEditor(t *testing.T) {
	svc, f, _ := newBrandingFixture(t)
	viewer := Actor{UserID: uuid.New(), TenantID: f.Tenant.ID, Role: models.RoleViewer}
	_, err := svc.Update(context.Background(), viewer, &BrandingUpdate{CompanyName: ptr("x")})
	assert.True(t, appErr.IsCode(err, appErr.CodeForbidden))
	_, err = svc.Get(context.Background(), viewer)
	assert.NoError(t, err)
}
