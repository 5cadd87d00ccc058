package complaint

import (
	"context"

	"gorm.io/gorm"
)

// ListFilter narrows complaint listings. ExcludeCEOFlagged hides
// complaints escalated to the CEO; CreatedBy limits to the author.
type ListFilter struct {
	CreatedBy         string
	Status            string
	Type              string
	ExcludeCEOFlagged bool
}

//go:generate mockgen -source=complaint_repo.go -destination=mock/complaint_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, c *Complaint) error
	FindByID(ctx context.Context, id string) (*Complaint, error)
	FindAll(ctx context.Context, filter ListFilter) ([]Complaint, error)
	Update(ctx context.Context, c *Complaint) error
	SoftDelete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Complaint) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Complaint, error) {
	var c Complaint
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Complaint, error) {
	q := r.db.WithContext(ctx).Model(&Complaint{})

	if filter.CreatedBy != "" {
		q = q.Where("created_by = ?", filter.CreatedBy)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.ExcludeCEOFlagged {
		q = q.Where("send_to_ceo = false")
	}

	var out []Complaint
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) Update(ctx context.Context, c *Complaint) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Complaint{}, "id = ?", id).Error
}
