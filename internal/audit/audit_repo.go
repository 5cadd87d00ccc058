package audit

import (
	"context"

	"gorm.io/gorm"
)

type ListFilter struct {
	Action  string
	ActorID string
	Path    string
	Limit   int
	Offset  int
}

//go:generate mockgen -source=audit_repo.go -destination=mock/audit_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, entry *AuditLog) error
	FindAll(ctx context.Context, filter ListFilter) ([]AuditLog, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, entry *AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]AuditLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&AuditLog{})

	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.ActorID != "" {
		q = q.Where("actor_id = ?", filter.ActorID)
	}
	if filter.Path != "" {
		q = q.Where("path LIKE ?", filter.Path+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []AuditLog
	err := q.Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&entries).Error
	return entries, total, err
}
