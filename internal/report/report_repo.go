package report

import (
	"context"

	"github.com/fenan-yosef/hrms-backend/internal/leave"

	"gorm.io/gorm"
)

// DepartmentLeaveTotal is one row of the leave summary: approved leave
// days taken by a department's employees in a year.
type DepartmentLeaveTotal struct {
	DepartmentName string
	EmployeeCount  int64
	TotalDays      float64
}

//go:generate mockgen -source=report_repo.go -destination=mock/report_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, r *GeneratedReport) error
	FindByID(ctx context.Context, id string) (*GeneratedReport, error)
	MarkReady(ctx context.Context, id, fileName string, content []byte) error
	MarkFailed(ctx context.Context, id, reason string) error
	DepartmentLeaveTotals(ctx context.Context, year int) ([]DepartmentLeaveTotal, error)
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

func (r *repository) Create(ctx context.Context, rep *GeneratedReport) error {
	return r.db.WithContext(ctx).Create(rep).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*GeneratedReport, error) {
	var rep GeneratedReport
	if err := r.db.WithContext(ctx).First(&rep, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *repository) MarkReady(ctx context.Context, id, fileName string, content []byte) error {
	return r.db.WithContext(ctx).Model(&GeneratedReport{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        StatusReady,
			"file_name":     fileName,
			"content":       content,
			"error_message": nil,
		}).Error
}

func (r *repository) MarkFailed(ctx context.Context, id, reason string) error {
	if len(reason) > 500 {
		reason = reason[:500]
	}
	return r.db.WithContext(ctx).Model(&GeneratedReport{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        StatusFailed,
			"error_message": reason,
		}).Error
}

func (r *repository) DepartmentLeaveTotals(ctx context.Context, year int) ([]DepartmentLeaveTotal, error) {
	var out []DepartmentLeaveTotal
	err := r.db.WithContext(ctx).Raw(`
SELECT
	COALESCE(d.name, 'Unassigned') AS department_name,
	COUNT(DISTINCT l.employee_id) AS employee_count,
	COALESCE(SUM(COALESCE(l.duration_days, (l.end_date - l.start_date) + 1)), 0) AS total_days
FROM leave_requests l
JOIN users u ON u.id = l.employee_id
LEFT JOIN departments d ON d.id = u.department_id
WHERE l.status = ?
	AND l.deleted_at IS NULL
	AND EXTRACT(YEAR FROM l.start_date) = ?
GROUP BY COALESCE(d.name, 'Unassigned')
ORDER BY department_name ASC
`, leave.StatusApproved, year).Scan(&out).Error
	return out, err
}
