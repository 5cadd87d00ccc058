package analytics

import (
	"context"
	"time"

	"github.com/fenan-yosef/hrms-backend/internal/department"
	"github.com/fenan-yosef/hrms-backend/internal/domain"
	"github.com/fenan-yosef/hrms-backend/internal/leave"
	"github.com/fenan-yosef/hrms-backend/internal/performance"
	"github.com/fenan-yosef/hrms-backend/internal/user"

	"gorm.io/gorm"
)

// Repository exposes the aggregate reads the dashboards are stitched
// from. All counts exclude soft-deleted rows unless the method says
// otherwise.
//
//go:generate mockgen -source=analytics_repo.go -destination=mock/analytics_repo_mock.go -package=mock
type Repository interface {
	ApprovedLeaveDays(ctx context.Context, employeeID string) (float64, error)
	PendingLeaveCount(ctx context.Context, employeeID, departmentID string) (int64, error)
	OnApprovedLeaveCount(ctx context.Context, departmentID string, day time.Time) (int64, error)

	NextReviewCycleEnd(ctx context.Context, employeeID string, after time.Time) (*time.Time, error)
	AverageScore(ctx context.Context, departmentID string) (float64, error)
	ReviewCountSince(ctx context.Context, departmentID string, since time.Time) (int64, error)
	TopPerformers(ctx context.Context, limit int) ([]TopPerformer, error)

	CountUsersByRole(ctx context.Context, role domain.Role) (int64, error)
	CountActiveUsers(ctx context.Context) (int64, error)
	CountUsersInDepartment(ctx context.Context, departmentID string, role domain.Role) (int64, error)
	CountHiresSince(ctx context.Context, departmentID string, since time.Time) (int64, error)
	CountDeletedSince(ctx context.Context, since time.Time) (int64, error)
	ListDepartments(ctx context.Context) ([]department.Department, error)
	ListBirthDates(ctx context.Context) ([]time.Time, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ApprovedLeaveDays(ctx context.Context, employeeID string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&leave.LeaveRequest{}).
		Select("COALESCE(SUM(COALESCE(duration_days, (end_date - start_date) + 1)), 0)").
		Where("employee_id = ? AND status = ?", employeeID, leave.StatusApproved).
		Scan(&total).Error
	return total, err
}

func (r *repository) PendingLeaveCount(ctx context.Context, employeeID, departmentID string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&leave.LeaveRequest{}).
		Where("leave_requests.status = ?", leave.StatusPending)
	if employeeID != "" {
		q = q.Where("leave_requests.employee_id = ?", employeeID)
	}
	if departmentID != "" {
		q = q.Joins("JOIN users ON users.id = leave_requests.employee_id").
			Where("users.department_id = ?", departmentID)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *repository) OnApprovedLeaveCount(ctx context.Context, departmentID string, day time.Time) (int64, error) {
	q := r.db.WithContext(ctx).Model(&leave.LeaveRequest{}).
		Where("leave_requests.status = ? AND leave_requests.start_date <= ? AND leave_requests.end_date >= ?",
			leave.StatusApproved, day, day)
	if departmentID != "" {
		q = q.Joins("JOIN users ON users.id = leave_requests.employee_id").
			Where("users.department_id = ?", departmentID)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *repository) NextReviewCycleEnd(ctx context.Context, employeeID string, after time.Time) (*time.Time, error) {
	var cycle performance.ReviewCycle
	err := r.db.WithContext(ctx).Model(&performance.ReviewCycle{}).
		Joins("JOIN performance_reviews ON performance_reviews.cycle_id = review_cycles.id").
		Where("performance_reviews.employee_id = ? AND review_cycles.end_date > ?", employeeID, after).
		Order("review_cycles.end_date ASC").
		First(&cycle).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &cycle.EndDate, nil
}

func (r *repository) AverageScore(ctx context.Context, departmentID string) (float64, error) {
	q := r.db.WithContext(ctx).Model(&performance.PerformanceReview{}).
		Select("COALESCE(AVG(overall_score), 0)").
		Where("performance_reviews.overall_score IS NOT NULL")
	if departmentID != "" {
		q = q.Joins("JOIN users ON users.id = performance_reviews.employee_id").
			Where("users.department_id = ?", departmentID)
	}
	var avg float64
	err := q.Scan(&avg).Error
	return avg, err
}

func (r *repository) ReviewCountSince(ctx context.Context, departmentID string, since time.Time) (int64, error) {
	q := r.db.WithContext(ctx).Model(&performance.PerformanceReview{}).
		Where("performance_reviews.created_at >= ?", since)
	if departmentID != "" {
		q = q.Joins("JOIN users ON users.id = performance_reviews.employee_id").
			Where("users.department_id = ?", departmentID)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *repository) TopPerformers(ctx context.Context, limit int) ([]TopPerformer, error) {
	var out []TopPerformer
	err := r.db.WithContext(ctx).Model(&performance.PerformanceReview{}).
		Select("users.id AS employee_id, users.first_name, users.last_name, MAX(performance_reviews.overall_score) AS max_score").
		Joins("JOIN users ON users.id = performance_reviews.employee_id").
		Where("performance_reviews.overall_score IS NOT NULL").
		Group("users.id, users.first_name, users.last_name").
		Order("max_score DESC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}

func (r *repository) CountUsersByRole(ctx context.Context, role domain.Role) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&user.User{}).Where("role = ?", role).Count(&n).Error
	return n, err
}

func (r *repository) CountActiveUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&user.User{}).Count(&n).Error
	return n, err
}

func (r *repository) CountUsersInDepartment(ctx context.Context, departmentID string, role domain.Role) (int64, error) {
	q := r.db.WithContext(ctx).Model(&user.User{}).Where("department_id = ?", departmentID)
	if role != "" {
		q = q.Where("role = ?", role)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *repository) CountHiresSince(ctx context.Context, departmentID string, since time.Time) (int64, error) {
	q := r.db.WithContext(ctx).Model(&user.User{}).Where("date_joined >= ?", since)
	if departmentID != "" {
		q = q.Where("department_id = ?", departmentID)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *repository) CountDeletedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&user.User{}).Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at >= ?", since).
		Count(&n).Error
	return n, err
}

func (r *repository) ListDepartments(ctx context.Context) ([]department.Department, error) {
	var out []department.Department
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

func (r *repository) ListBirthDates(ctx context.Context) ([]time.Time, error) {
	var out []time.Time
	err := r.db.WithContext(ctx).Model(&user.User{}).
		Where("date_of_birth IS NOT NULL").
		Pluck("date_of_birth", &out).Error
	return out, err
}
