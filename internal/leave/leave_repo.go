package leave

import (
	"context"

	"gorm.io/gorm"
)

// ListFilter narrows request listings; zero values mean no filter.
type ListFilter struct {
	EmployeeID     string
	DepartmentID   string
	Status         string
	Year           int
	IncludeDeleted bool
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string, includeDeleted bool) (*LeaveRequest, error)
	FindAll(ctx context.Context, filter ListFilter) ([]LeaveRequest, error)
	Update(ctx context.Context, l *LeaveRequest) error
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error

	// SumApprovedDays totals approved leave durations for an employee in a
	// calendar year, preferring stored duration_days over the date span.
	SumApprovedDays(ctx context.Context, employeeID string, year int) (float64, error)

	CreateApproval(ctx context.Context, a *LeaveApproval) error
	ListApprovals(ctx context.Context, leaveRequestID string) ([]LeaveApproval, error)
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

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string, includeDeleted bool) (*LeaveRequest, error) {
	q := r.db.WithContext(ctx)
	if includeDeleted {
		q = q.Unscoped()
	}
	var l LeaveRequest
	if err := q.First(&l, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]LeaveRequest, error) {
	q := r.db.WithContext(ctx).Model(&LeaveRequest{})
	if filter.IncludeDeleted {
		q = q.Unscoped()
	}
	if filter.EmployeeID != "" {
		q = q.Where("leave_requests.employee_id = ?", filter.EmployeeID)
	}
	if filter.DepartmentID != "" {
		q = q.Joins("JOIN users ON users.id = leave_requests.employee_id").
			Where("users.department_id = ?", filter.DepartmentID)
	}
	if filter.Status != "" {
		q = q.Where("leave_requests.status = ?", filter.Status)
	}
	if filter.Year != 0 {
		q = q.Where("EXTRACT(YEAR FROM leave_requests.start_date) = ?", filter.Year)
	}

	var requests []LeaveRequest
	err := q.Order("leave_requests.applied_at DESC").Find(&requests).Error
	return requests, err
}

func (r *repository) Update(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&LeaveRequest{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Restore(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Unscoped().Model(&LeaveRequest{}).
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

func (r *repository) SumApprovedDays(ctx context.Context, employeeID string, year int) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Raw(`
SELECT COALESCE(SUM(COALESCE(duration_days, end_date - start_date + 1)), 0)
FROM leave_requests
WHERE employee_id = ?
	AND status = ?
	AND EXTRACT(YEAR FROM start_date) = ?
	AND deleted_at IS NULL
`, employeeID, StatusApproved, year).Scan(&total).Error
	return total, err
}

func (r *repository) CreateApproval(ctx context.Context, a *LeaveApproval) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) ListApprovals(ctx context.Context, leaveRequestID string) ([]LeaveApproval, error) {
	var approvals []LeaveApproval
	err := r.db.WithContext(ctx).
		Where("leave_request_id = ?", leaveRequestID).
		Order("decided_at ASC").
		Find(&approvals).Error
	return approvals, err
}
