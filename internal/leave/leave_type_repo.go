package leave

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leave_type_repo.go -destination=mock/leave_type_repo_mock.go -package=mock
type TypeRepository interface {
	CreateType(ctx context.Context, t *LeaveType) error
	FindTypes(ctx context.Context) ([]LeaveType, error)
	FindTypeByID(ctx context.Context, id string) (*LeaveType, error)
	FindTypeByCode(ctx context.Context, code string) (*LeaveType, error)
	UpdateType(ctx context.Context, t *LeaveType) error
	SoftDeleteType(ctx context.Context, id string) error

	// AddUsage records approved days against the (user, type, year)
	// balance, creating the row with the type's default allowance when it
	// does not exist yet.
	AddUsage(ctx context.Context, tx *gorm.DB, b LeaveBalance) error
	FindBalances(ctx context.Context, userID string, year int) ([]LeaveBalance, error)
}

type typeRepository struct {
	db *gorm.DB
}

func NewTypeRepository(db *gorm.DB) TypeRepository {
	return &typeRepository{db: db}
}

func (r *typeRepository) CreateType(ctx context.Context, t *LeaveType) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *typeRepository) FindTypes(ctx context.Context) ([]LeaveType, error) {
	var types []LeaveType
	err := r.db.WithContext(ctx).Order("code ASC").Find(&types).Error
	return types, err
}

func (r *typeRepository) FindTypeByID(ctx context.Context, id string) (*LeaveType, error) {
	var t LeaveType
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *typeRepository) FindTypeByCode(ctx context.Context, code string) (*LeaveType, error) {
	var t LeaveType
	if err := r.db.WithContext(ctx).First(&t, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *typeRepository) UpdateType(ctx context.Context, t *LeaveType) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *typeRepository) SoftDeleteType(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&LeaveType{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *typeRepository) AddUsage(ctx context.Context, tx *gorm.DB, b LeaveBalance) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "leave_type_id"}, {Name: "year"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"used":       gorm.Expr("leave_balances.used + ?", b.Used),
			"updated_at": gorm.Expr("NOW()"),
		}),
	}).Create(&b).Error
}

func (r *typeRepository) FindBalances(ctx context.Context, userID string, year int) ([]LeaveBalance, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if year != 0 {
		q = q.Where("year = ?", year)
	}
	var balances []LeaveBalance
	err := q.Order("year DESC").Find(&balances).Error
	return balances, err
}
