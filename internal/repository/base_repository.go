package repository

import (
	"context"
	"errors"
	"fmt"

	appErr "github.com/sitepilot/engine/pkg/errors"
	"gorm.io/gorm"
)

// BaseRepository defines common CRUD operations.
type BaseRepository[T any] interface {
	Create(ctx context.Context, obj *T) error
	GetByID(ctx context.Context, id any, dest *T) error
	Update(ctx context.Context, obj *T) error
	Delete(ctx context.Context, id any) error
}

type baseRepository[T any] struct {
	db     *gorm.DB
	entity string
}

func NewBaseRepository[T any](db *gorm.DB, entity string) BaseRepository[T] {
	return &baseRepository[T]{db: db, entity: entity}
}

func (r *baseRepository[T]) Create(ctx context.Context, obj *T) error {
	if err := r.db.WithContext(ctx).Create(obj).Error; err != nil {
		return translate(err, r.entity)
	}
	return nil
}

func (r *baseRepository[T]) GetByID(ctx context.Context, id any, dest *T) error {
	if err := r.db.WithContext(ctx).First(dest, "id = ?", id).Error; err != nil {
		return translate(err, r.entity)
	}
	return nil
}

func (r *baseRepository[T]) Update(ctx context.Context, obj *T) error {
	if err := r.db.WithContext(ctx).Save(obj).Error; err != nil {
		return translate(err, r.entity)
	}
	return nil
}

func (r *baseRepository[T]) Delete(ctx context.Context, id any) error {
	var t T
	res := r.db.WithContext(ctx).Delete(&t, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, r.entity)
	}
	if res.RowsAffected == 0 {
		return appErr.NotFound(fmt.Sprintf("%s %v not found", r.entity, id))
	}
	return nil
}

// translate maps gorm errors onto application codes. AppErrors pass through
// untouched so transaction callbacks can return them directly.
func translate(err error, entity string) error {
	if err == nil {
		return nil
	}
	if appErr.CodeOf(err) != appErr.CodeUnknown {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return appErr.NotFound(entity + " not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return appErr.Wrap(err, appErr.CodeConflict, entity+" conflicts with an existing record")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return appErr.Wrap(err, appErr.CodeDeadline, entity+" query abandoned")
	}
	return appErr.Wrap(err, appErr.CodeInternal, entity+" query failed")
}
