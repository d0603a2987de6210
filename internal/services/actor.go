package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sitepilot/engine/internal/models"
	"github.com/sitepilot/engine/internal/repository"
	appErr "github.com/sitepilot/engine/pkg/errors"
	"github.com/sitepilot/engine/pkg/lock"
)

// Actor is the authenticated caller on whose behalf a service runs.
type Actor struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	Role     string
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// requireRole fails with CodeForbidden when the actor ranks below min.
func (a Actor) requireRole(min string) error {
	if !models.RoleAtLeast(a.Role, min) {
		return appErr.New(appErr.CodeForbidden, "insufficient role").WithMeta("required", min)
	}
	return nil
}

type access int

const (
	read access = iota
	write
)

// loadProject fetches a project visible to the actor. Projects of other
// tenants are reported as missing. Writes need an editor who owns the
// project, or an admin.
func loadProject(ctx context.Context, repo repository.ProjectRepository, a Actor, projectID uuid.UUID, mode access) (*models.Project, error) {
	var p models.Project
	if err := repo.GetByID(ctx, projectID, &p); err != nil {
		return nil, err
	}
	if p.TenantID != a.TenantID {
		return nil, appErr.NotFound("project not found")
	}
	if mode == write {
		if err := a.requireRole(models.RoleEditor); err != nil {
			return nil, err
		}
		if !a.IsAdmin() && p.UserID != a.UserID {
			return nil, appErr.New(appErr.CodeForbidden, "user does not own project")
		}
	}
	return &p, nil
}

func projectLockKey(projectID uuid.UUID) string {
	return "project:" + projectID.String()
}

// lockProject takes the per-project lock. An abandoned wait is a deadline
// error; a failing lock backend is reported as unavailable.
func lockProject(ctx context.Context, l lock.Locker, projectID uuid.UUID) (func(), error) {
	unlock, err := l.Lock(ctx, projectLockKey(projectID))
	if err == nil {
		return unlock, nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, appErr.Wrap(err, appErr.CodeDeadline, "waiting for project lock abandoned")
	}
	return nil, appErr.Wrap(err, appErr.CodeUnavailable, "project lock unavailable")
}
