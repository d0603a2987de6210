package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitepilot/engine/internal/models"
	"github.com/sitepilot/engine/internal/repository"
	"github.com/sitepilot/engine/internal/testutil"
	appErr "github.com/sitepilot/engine/pkg/errors"
)

func TestRegisterLoginAndParse(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewAuthService(db, repository.NewUserRepository(db), []byte("secret"), time.Hour)
	ctx := context.Background()

	res, err := svc.Register(ctx, &RegisterInput{
		TenantName: "Bake Co",
		TenantSlug: "Bake-Co",
		OwnerName:  "Bea",
		OwnerEmail: " Bea@Bake.test ",
		Password:   "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "bake-co", res.Tenant.Slug)
	assert.Equal(t, models.RoleAdmin, res.User.Role)
	assert.Equal(t, "bea@bake.test", res.User.Email)
	assert.NotEmpty(t, res.Token)

	var b models.Branding
	require.NoError(t, repository.NewBrandingRepository(db).GetByTenant(ctx, res.Tenant.ID, &b))
	assert.Equal(t, "Bake Co", b.CompanyName)

	_, err = svc.Login(ctx, "bea@bake.test", "wrong-password")
	assert.True(t, appErr.IsCode(err, appErr.CodeUnauthorized))
	_, err = svc.Login(ctx, "nobody@bake.test", "correct-horse")
	assert.True(t, appErr.IsCode(err, appErr.CodeUnauthorized))

	login, err := svc.Login(ctx, "BEA@bake.test", "correct-horse")
	require.NoError(t, err)
	actor, err := svc.ParseToken(login.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, actor.UserID)
	assert.Equal(t, res.Tenant.ID, actor.TenantID)
	assert.Equal(t, models.RoleAdmin, actor.Role)
}

func TestRegisterIsAtomic(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewAuthService(db, repository.NewUserRepository(db), []byte("secret"), time.Hour)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterInput{TenantName: "One", TenantSlug: "one", OwnerName: "A", OwnerEmail: "a@x.test", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &RegisterInput{TenantName: "Two", TenantSlug: "two", OwnerName: "B", OwnerEmail: "a@x.test", Password: "password1"})
	assert.True(t, appErr.IsCode(err, appErr.CodeConflict))

	var tenants int64
	require.NoError(t, db.Model(&models.Tenant{}).Where("slug = ?", "two").Count(&tenants).Error)
	assert.Zero(t, tenants)

	_, err = svc.Register(ctx, &RegisterInput{TenantName: "Bad", TenantSlug: "no spaces", OwnerEmail: "c@x.test", Password: "password1"})
	assert.True(t, appErr.IsCode(err, appErr.CodeInvalid))
}

func TestParseTokenRejects(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	svc := NewAuthService(db, repository.NewUserRepository(db), []byte("secret"), time.Hour).(*authService)

	tok, err := svc.issue(&f.Editor)
	require.NoError(t, err)

	other := NewAuthService(db, repository.NewUserRepository(db), []byte("other"), time.Hour)
	_, err = other.ParseToken(tok.Token)
	assert.True(t, appErr.IsCode(err, appErr.CodeUnauthorized))

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ParseToken(tok.Token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": f.Editor.ID.String()})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ParseToken(unsigned)
	assert.True(t, appErr.IsCode(err, appErr.CodeUnauthorized))
}

func TestAddMember(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db)
	svc := NewAuthService(db, repository.NewUserRepository(db), []byte("secret"), time.Hour)
	ctx := context.Background()

	editor := Actor{UserID: f.Editor.ID, TenantID: f.Tenant.ID, Role: models.RoleEditor}
	_, err := svc.AddMember(ctx, editor, &MemberInput{Name: "V", Email: "v@acme.test", Password: "password1"})
	assert.True(t, appErr.IsCode(err, appErr.CodeForbidden))

	admin := Actor{UserID: f.Admin.ID, TenantID: f.Tenant.ID, Role: models.RoleAdmin}
	_, err = svc.AddMember(ctx, admin, &MemberInput{Name: "V", Email: "v@acme.test", Password: "password1", Role: "owner"})
	assert.True(t, appErr.IsCode(err, appErr.CodeInvalid))

	u, err := svc.AddMember(ctx, admin, &MemberInput{Name: "V", Email: "v@acme.test", Password: "password1", Role: models.RoleViewer})
	require.NoError(t, err)
	assert.Equal(t, f.Tenant.ID, u.TenantID)

	members, err := svc.ListMembers(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, members, 3)
}

func TestMe(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewAuthService(db, repository.NewUserRepository(db), []byte("secret"), time.Hour)
	ctx := context.Background()

	res, err := svc.Register(ctx, &RegisterInput{TenantName: "Delta", TenantSlug: "delta", OwnerName: "Di", OwnerEmail: "di@delta.test", Password: "password1"})
	require.NoError(t, err)
	actor, err := svc.ParseToken(res.Token)
	require.NoError(t, err)

	p, err := svc.Me(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, p.User.ID)
	assert.Equal(t, "delta", p.Tenant.Slug)

	other, err := svc.Register(ctx, &RegisterInput{TenantName: "Echo", TenantSlug: "echo", OwnerName: "Ed", OwnerEmail: "ed@echo.test", Password: "password1"})
	require.NoError(t, err)
	actor.TenantID = other.Tenant.ID
	_, err = svc.Me(ctx, actor)
	assert.True(t, appErr.IsCode(err, appErr.CodeNotFound))
}
