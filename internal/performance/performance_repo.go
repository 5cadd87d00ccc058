package performance

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReviewFilter narrows review listings; zero values mean no filter.
type ReviewFilter struct {
	EmployeeID   string
	DepartmentID string
	CycleID      string
	Status       string
}

//go:generate mockgen -source=performance_repo.go -destination=mock/performance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateCycle(ctx context.Context, c *ReviewCycle) error
	FindCycles(ctx context.Context) ([]ReviewCycle, error)
	FindCycleByID(ctx context.Context, id string) (*ReviewCycle, error)
	FindCycleByName(ctx context.Context, name string) (*ReviewCycle, error)

	CreateCompetency(ctx context.Context, c *Competency) error
	FindCompetencies(ctx context.Context) ([]Competency, error)
	FindCompetencyByID(ctx context.Context, id string) (*Competency, error)
	FindCompetencyByCode(ctx context.Context, code string) (*Competency, error)

	CreateReview(ctx context.Context, r *PerformanceReview) error
	FindReviewByID(ctx context.Context, id string) (*PerformanceReview, error)
	FindReviewByEmployeeAndCycle(ctx context.Context, employeeID, cycleID string) (*PerformanceReview, error)
	FindReviews(ctx context.Context, filter ReviewFilter) ([]PerformanceReview, error)
	UpdateReview(ctx context.Context, r *PerformanceReview) error
	SoftDeleteReview(ctx context.Context, id string) error

	UpsertScore(ctx context.Context, s *ReviewScore) error
	ListScores(ctx context.Context, reviewID string) ([]ReviewScore, error)

	CreateSnapshot(ctx context.Context, s *ReviewSnapshot) error
	ListSnapshots(ctx context.Context, reviewID string) ([]ReviewSnapshot, error)
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

func (r *repository) CreateCycle(ctx context.Context, c *ReviewCycle) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) FindCycles(ctx context.Context) ([]ReviewCycle, error) {
	var cycles []ReviewCycle
	err := r.db.WithContext(ctx).Order("start_date DESC").Find(&cycles).Error
	return cycles, err
}

func (r *repository) FindCycleByID(ctx context.Context, id string) (*ReviewCycle, error) {
	var c ReviewCycle
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) FindCycleByName(ctx context.Context, name string) (*ReviewCycle, error) {
	var c ReviewCycle
	if err := r.db.WithContext(ctx).First(&c, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) CreateCompetency(ctx context.Context, c *Competency) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) FindCompetencies(ctx context.Context) ([]Competency, error) {
	var comps []Competency
	err := r.db.WithContext(ctx).Order("code ASC").Find(&comps).Error
	return comps, err
}

func (r *repository) FindCompetencyByID(ctx context.Context, id string) (*Competency, error) {
	var c Competency
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) FindCompetencyByCode(ctx context.Context, code string) (*Competency, error) {
	var c Competency
	if err := r.db.WithContext(ctx).First(&c, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) CreateReview(ctx context.Context, review *PerformanceReview) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *repository) FindReviewByID(ctx context.Context, id string) (*PerformanceReview, error) {
	var review PerformanceReview
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *repository) FindReviewByEmployeeAndCycle(ctx context.Context, employeeID, cycleID string) (*PerformanceReview, error) {
	var review PerformanceReview
	err := r.db.WithContext(ctx).
		First(&review, "employee_id = ? AND cycle_id = ?", employeeID, cycleID).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *repository) FindReviews(ctx context.Context, filter ReviewFilter) ([]PerformanceReview, error) {
	q := r.db.WithContext(ctx).Model(&PerformanceReview{})
	if filter.EmployeeID != "" {
		q = q.Where("performance_reviews.employee_id = ?", filter.EmployeeID)
	}
	if filter.DepartmentID != "" {
		q = q.Joins("JOIN users ON users.id = performance_reviews.employee_id").
			Where("users.department_id = ?", filter.DepartmentID)
	}
	if filter.CycleID != "" {
		q = q.Where("performance_reviews.cycle_id = ?", filter.CycleID)
	}
	if filter.Status != "" {
		q = q.Where("performance_reviews.status = ?", filter.Status)
	}

	var reviews []PerformanceReview
	err := q.Order("performance_reviews.created_at DESC").Find(&reviews).Error
	return reviews, err
}

func (r *repository) UpdateReview(ctx context.Context, review *PerformanceReview) error {
	return r.db.WithContext(ctx).Save(review).Error
}

func (r *repository) SoftDeleteReview(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&PerformanceReview{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) UpsertScore(ctx context.Context, s *ReviewScore) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "review_id"}, {Name: "competency_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"score":   s.Score,
			"comment": s.Comment,
		}),
	}).Create(s).Error
}

func (r *repository) ListScores(ctx context.Context, reviewID string) ([]ReviewScore, error) {
	var scores []ReviewScore
	err := r.db.WithContext(ctx).
		Where("review_id = ?", reviewID).
		Order("created_at ASC").
		Find(&scores).Error
	return scores, err
}

func (r *repository) CreateSnapshot(ctx context.Context, s *ReviewSnapshot) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) ListSnapshots(ctx context.Context, reviewID string) ([]ReviewSnapshot, error) {
	var snaps []ReviewSnapshot
	err := r.db.WithContext(ctx).
		Where("review_id = ?", reviewID).
		Order("created_at DESC").
		Find(&snaps).Error
	return snaps, err
}
