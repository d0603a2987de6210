package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sitepilot/engine/internal/models"
	"github.com/sitepilot/engine/internal/repository"
	appErr "github.com/sitepilot/engine/pkg/errors"
	"github.com/sitepilot/engine/pkg/logger"
)

type AuthService interface {
	// Register creates a tenant, its admin and its default branding atomically.
	Register(ctx context.Context, in *RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// ParseToken validates a bearer token and returns the actor it names.
	ParseToken(token string) (Actor, error)
	// Me returns the caller's user record and tenant.
	Me(ctx context.Context, actor Actor) (*Profile, error)
	ListMembers(ctx context.Context, actor Actor) ([]models.User, error)
	AddMember(ctx context.Context, actor Actor, in *MemberInput) (*models.User, error)
}

type RegisterInput struct {
	TenantName string
	TenantSlug string
	OwnerName  string
	OwnerEmail string
	Password   string
}

type MemberInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type AuthResult struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	User      *models.User   `json:"user"`
	Tenant    *models.Tenant `json:"tenant,omitempty"`
}

type Profile struct {
	User   *models.User   `json:"user"`
	Tenant *models.Tenant `json:"tenant"`
}

// Claims is the JWT payload issued at login.
type Claims struct {
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

var slugPattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?$`)

type authService struct {
	db         *gorm.DB
	userRepo   repository.UserRepository
	hmacSecret []byte
	ttl        time.Duration
	now        func() time.Time
}

func NewAuthService(db *gorm.DB, userRepo repository.UserRepository, secret []byte, ttl time.Duration) AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &authService{db: db, userRepo: userRepo, hmacSecret: secret, ttl: ttl, now: time.Now}
}

var _ AuthService = (*authService)(nil)

func (s *authService) Register(ctx context.Context, in *RegisterInput) (*AuthResult, error) {
	tenantName := strings.TrimSpace(in.TenantName)
	slug := strings.ToLower(strings.TrimSpace(in.TenantSlug))
	if tenantName == "" {
		return nil, appErr.Invalid("tenant name is required")
	}
	if !slugPattern.MatchString(slug) {
		return nil, appErr.Invalid("tenant slug must be lowercase letters, digits and hyphens").WithMeta("slug", slug)
	}
	if len(in.Password) < 8 {
		return nil, appErr.Invalid("password must be at least 8 characters")
	}
	ph, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "hash password")
	}

	tenant := &models.Tenant{Name: tenantName, Slug: slug}
	user := &models.User{
		Email:        normalizeEmail(in.OwnerEmail),
		PasswordHash: string(ph),
		Name:         strings.TrimSpace(in.OwnerName),
		Role:         models.RoleAdmin,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewTenantRepository(tx).Create(ctx, tenant); err != nil {
			return err
		}
		user.TenantID = tenant.ID
		if err := repository.NewUserRepository(tx).Create(ctx, user); err != nil {
			return err
		}
		return repository.NewBrandingRepository(tx).CreateIfAbsent(ctx, models.DefaultBranding(tenant.ID, tenant.Name))
	})
	if err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Info("tenant registered", zap.String("tenant_id", tenant.ID.String()), zap.String("slug", slug))
	res, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	res.Tenant = tenant
	return res, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var user models.User
	if err := s.userRepo.GetByEmail(ctx, normalizeEmail(email), &user); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.New(appErr.CodeUnauthorized, "invalid credentials")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, appErr.New(appErr.CodeUnauthorized, "invalid credentials")
	}
	return s.issue(&user)
}

func (s *authService) ParseToken(token string) (Actor, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.hmacSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return Actor{}, appErr.Wrap(err, appErr.CodeUnauthorized, "invalid token")
	}
	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Actor{}, appErr.Wrap(err, appErr.CodeUnauthorized, "invalid token subject")
	}
	tid, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return Actor{}, appErr.Wrap(err, appErr.CodeUnauthorized, "invalid token tenant")
	}
	return Actor{UserID: uid, TenantID: tid, Role: claims.Role}, nil
}

func (s *authService) Me(ctx context.Context, actor Actor) (*Profile, error) {
	var u models.User
	if err := s.userRepo.GetByID(ctx, actor.UserID, &u); err != nil {
		return nil, err
	}
	// tokens are scoped to the tenant they were issued for
	if u.TenantID != actor.TenantID {
		return nil, appErr.NotFound("user not found")
	}
	var t models.Tenant
	if err := repository.NewTenantRepository(s.db).GetByID(ctx, actor.TenantID, &t); err != nil {
		return nil, err
	}
	return &Profile{User: &u, Tenant: &t}, nil
}

func (s *authService) ListMembers(ctx context.Context, actor Actor) ([]models.User, error) {
	return s.userRepo.ListByTenant(ctx, actor.TenantID)
}

func (s *authService) AddMember(ctx context.Context, actor Actor, in *MemberInput) (*models.User, error) {
	if err := actor.requireRole(models.RoleAdmin); err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = models.RoleEditor
	}
	if !models.RoleAtLeast(role, models.RoleViewer) {
		return nil, appErr.Invalid("unknown role").WithMeta("role", role)
	}
	if len(in.Password) < 8 {
		return nil, appErr.Invalid("password must be at least 8 characters")
	}
	ph, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "hash password")
	}
	u := &models.User{
		TenantID:     actor.TenantID,
		Email:        normalizeEmail(in.Email),
		PasswordHash: string(ph),
		Name:         strings.TrimSpace(in.Name),
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Info("member added", zap.String("tenant_id", actor.TenantID.String()), zap.String("user_id", u.ID.String()), zap.String("role", role))
	return u, nil
}

func (s *authService) issue(u *models.User) (*AuthResult, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		TenantID: u.TenantID.String(),
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := token.SignedString(s.hmacSecret)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "sign token")
	}
	return &AuthResult{Token: signed, ExpiresAt: exp, User: u}, nil
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
