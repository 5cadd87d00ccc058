package user

import (
	"context"

	"github.com/fenan-yosef/hrms-backend/internal/domain"

	"gorm.io/gorm"
)

// ListScope narrows a listing to what the caller is allowed to see.
type ListScope struct {
	// SelfID limits the listing to a single user.
	SelfID string
	// DepartmentID limits the listing to one department.
	DepartmentID string
	// IncludeDeleted also returns soft-deleted rows.
	IncludeDeleted bool
	// Role filters on a specific role when set.
	Role domain.Role

	Limit  int
	Offset int
}

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string, includeDeleted bool) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context, scope ListScope) ([]User, int64, error)
	Update(ctx context.Context, u *User) error
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *repository) FindByID(ctx context.Context, id string, includeDeleted bool) (*User, error) {
	q := r.db.WithContext(ctx)
	if includeDeleted {
		q = q.Unscoped()
	}
	var u User
	if err := q.First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindAll(ctx context.Context, scope ListScope) ([]User, int64, error) {
	q := r.db.WithContext(ctx).Model(&User{})
	if scope.IncludeDeleted {
		q = q.Unscoped()
	}
	if scope.SelfID != "" {
		q = q.Where("id = ?", scope.SelfID)
	}
	if scope.DepartmentID != "" {
		q = q.Where("department_id = ?", scope.DepartmentID)
	}
	if scope.Role != "" {
		q = q.Where("role = ?", scope.Role.String())
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if scope.Limit > 0 {
		q = q.Limit(scope.Limit).Offset(scope.Offset)
	}

	var users []User
	err := q.Order("date_joined DESC").Find(&users).Error
	return users, total, err
}

func (r *repository) Update(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Restore(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Unscoped().Model(&User{}).
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
