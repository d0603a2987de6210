package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/sitepilot/engine/internal/models"
	"github.com/sitepilot/engine/internal/repository"
	"github.com/sitepilot/engine/internal/testutil"
	appErr "github.com/sitepilot/engine/pkg/errors"
)

func TestProjectCRUD(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	svc := NewProjectService(repository.NewProjectRepository(db), nil)
	ctx := context.Background()
	editor := Actor{UserID: f.Editor.ID, TenantID: f.Tenant.ID, Role: models.RoleEditor}

	_, err := svc.CreateProject(ctx, editor, &CreateProjectInput{Name: "  "})
	assert.True(t, appErr.IsCode(err, appErr.CodeInvalid))

	p, err := svc.CreateProject(ctx, editor, &CreateProjectInput{Name: "Shop", Description: "store front"})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectDraft, p.Status)
	assert.Nil(t, p.ActiveVersionID)

	mine, err := svc.ListProjects(ctx, editor)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	admin := Actor{UserID: f.Admin.ID, TenantID: f.Tenant.ID, Role: models.RoleAdmin}
	mine, err = svc.ListProjects(ctx, admin)
	require.NoError(t, err)
	assert.Empty(t, mine)
	all, err := svc.ListTenantProjects(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	updated, err := svc.UpdateProject(ctx, editor, p.ID, &UpdateProjectInput{Name: ptr("Shop v2"), Status: ptr(models.ProjectPublished)})
	require.NoError(t, err)
	assert.Equal(t, "Shop v2", updated.Name)
	assert.Equal(t, models.ProjectPublished, updated.Status)

	_, err = svc.UpdateProject(ctx, editor, p.ID, &UpdateProjectInput{Status: ptr("archived")})
	assert.True(t, appErr.IsCode(err, appErr.CodeInvalid))

	require.NoError(t, svc.DeleteProject(ctx, editor, p.ID))
	_, err = svc.GetProject(ctx, editor, p.ID)
	assert.True(t, appErr.IsCode(err, appErr.CodeNotFound))
}

func TestProjectOwnership(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	svc := NewProjectService(repository.NewProjectRepository(db), nil)
	ctx := context.Background()

	other := Actor{UserID: uuid.New(), TenantID: f.Tenant.ID, Role: models.RoleEditor}
	_, err := svc.GetProject(ctx, other, f.Project.ID)
	require.NoError(t, err)
	_, err = svc.UpdateProject(ctx, other, f.Project.ID, &UpdateProjectInput{Name: ptr("x")})
	assert.True(t, appErr.IsCode(err, appErr.CodeForbidden))
	assert.True(t, appErr.IsCode(svc.DeleteProject(ctx, other, f.Project.ID), appErr.CodeForbidden))

	viewer := Actor{UserID: uuid.New(), TenantID: f.Tenant.ID, Role: models.RoleViewer}
	_, err = svc.CreateProject(ctx, viewer, &CreateProjectInput{Name: "x"})
	assert.True(t, appErr.IsCode(err, appErr.CodeForbidden))

	stranger := Actor{UserID: uuid.New(), TenantID: uuid.New(), Role: models.RoleAdmin}
	_, err = svc.GetProject(ctx, stranger, f.Project.ID)
	assert.True(t, appErr.IsCode(err, appErr.CodeNotFound))
}

func TestDeleteProjectCascadesVersions(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	ctx := context.Background()
	versions := repository.NewVersionRepository(db)
	require.NoError(t, versions.AppendActive(ctx, &models.Version{
		TenantID:         f.Tenant.ID,
		ProjectID:        f.Project.ID,
		UserID:           f.Editor.ID,
		UserPrompt:       "p",
		HTMLCode:         "<html/>",
		BrandingSnapshot: datatypes.NewJSONType(models.BrandingSnapshot{}),
	}))

	svc := NewProjectService(repository.NewProjectRepository(db), nil)
	admin := Actor{UserID: f.Admin.ID, TenantID: f.Tenant.ID, Role: models.RoleAdmin}
	require.NoError(t, svc.DeleteProject(ctx, admin, f.Project.ID))

	n, err := versions.Count(ctx, f.Project.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}
