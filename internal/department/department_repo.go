package department

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=department_repo.go -destination=mock/department_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, d *Department) error
	FindAll(ctx context.Context, includeDeleted bool) ([]Department, error)
	FindByID(ctx context.Context, id string, includeDeleted bool) (*Department, error)
	FindByCode(ctx context.Context, code string) (*Department, error)
	Update(ctx context.Context, d *Department) error
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, d *Department) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *repository) FindAll(ctx context.Context, includeDeleted bool) ([]Department, error) {
	q := r.db.WithContext(ctx)
	if includeDeleted {
		q = q.Unscoped()
	}
	var departments []Department
	err := q.Order("name ASC").Find(&departments).Error
	return departments, err
}

func (r *repository) FindByID(ctx context.Context, id string, includeDeleted bool) (*Department, error) {
	q := r.db.WithContext(ctx)
	if includeDeleted {
		q = q.Unscoped()
	}
	var d Department
	if err := q.First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) FindByCode(ctx context.Context, code string) (*Department, error) {
	var d Department
	if err := r.db.WithContext(ctx).First(&d, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) Update(ctx context.Context, d *Department) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&Department{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Restore(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Unscoped().Model(&Department{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
