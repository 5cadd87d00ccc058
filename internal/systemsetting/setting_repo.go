package systemsetting

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=setting_repo.go -destination=mock/setting_repo_mock.go -package=mock
type Repository interface {
	FindAll(ctx context.Context) ([]SystemSetting, error)
	FindByKey(ctx context.Context, key string) (*SystemSetting, error)
	Create(ctx context.Context, s *SystemSetting) error
	Upsert(ctx context.Context, s *SystemSetting) error
	Delete(ctx context.Context, key string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindAll(ctx context.Context) ([]SystemSetting, error) {
	var settings []SystemSetting
	err := r.db.WithContext(ctx).Order("key ASC").Find(&settings).Error
	return settings, err
}

func (r *repository) FindByKey(ctx context.Context, key string) (*SystemSetting, error) {
	var s SystemSetting
	err := r.db.WithContext(ctx).First(&s, "key = ?", key).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) Create(ctx context.Context, s *SystemSetting) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// Upsert writes the full value set for a key in one statement.
func (r *repository) Upsert(ctx context.Context, s *SystemSetting) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"int_value", "decimal_value", "text_value", "description", "updated_at",
		}),
	}).Create(s).Error
}

func (r *repository) Delete(ctx context.Context, key string) error {
	res := r.db.WithContext(ctx).Where("key = ?", key).Delete(&SystemSetting{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
