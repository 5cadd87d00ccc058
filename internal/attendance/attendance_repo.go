package attendance

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ListFilter narrows attendance listings; zero values mean no filter.
type ListFilter struct {
	EmployeeID   string
	DepartmentID string
	From         time.Time
	To           time.Time
}

// SummaryRecord is the raw aggregation row scanned from SQL; absent days
// are derived in the service.
type SummaryRecord struct {
	EmployeeID  string
	FirstName   string
	LastName    string
	PresentDays int
	LateDays    int
	TotalHours  float64
}

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, a *Attendance) error
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)
	FindAll(ctx context.Context, filter ListFilter) ([]Attendance, error)
	Update(ctx context.Context, a *Attendance) error

	// DeleteByDate removes attendance rows for one date; employeeID narrows
	// the reset to a single employee when set.
	DeleteByDate(ctx context.Context, date time.Time, employeeID string) (int64, error)

	// MonthlySummary aggregates per-employee present/late day counts and
	// worked hours over [from, to).
	MonthlySummary(ctx context.Context, from, to time.Time, filter ListFilter) ([]SummaryRecord, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error) {
	var a Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("attendance_date = ?", date.Format("2006-01-02")).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Attendance, error) {
	q := r.db.WithContext(ctx).Model(&Attendance{})
	if filter.EmployeeID != "" {
		q = q.Where("attendances.employee_id = ?", filter.EmployeeID)
	}
	if filter.DepartmentID != "" {
		q = q.Joins("JOIN users ON users.id = attendances.employee_id").
			Where("users.department_id = ?", filter.DepartmentID)
	}
	if !filter.From.IsZero() {
		q = q.Where("attendances.attendance_date >= ?", filter.From.Format("2006-01-02"))
	}
	if !filter.To.IsZero() {
		q = q.Where("attendances.attendance_date < ?", filter.To.Format("2006-01-02"))
	}

	var rows []Attendance
	err := q.Order("attendances.attendance_date DESC, attendances.check_in DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *repository) DeleteByDate(ctx context.Context, date time.Time, employeeID string) (int64, error) {
	q := r.db.WithContext(ctx).Where("attendance_date = ?", date.Format("2006-01-02"))
	if employeeID != "" {
		q = q.Where("employee_id = ?", employeeID)
	}
	res := q.Delete(&Attendance{})
	return res.RowsAffected, res.Error
}

func (r *repository) MonthlySummary(ctx context.Context, from, to time.Time, filter ListFilter) ([]SummaryRecord, error) {
	q := r.db.WithContext(ctx).Raw(`
SELECT u.id AS employee_id,
	u.first_name,
	u.last_name,
	COUNT(a.id) AS present_days,
	COUNT(a.id) FILTER (WHERE a.status = 'LATE') AS late_days,
	COALESCE(SUM(EXTRACT(EPOCH FROM (a.check_out - a.check_in)) / 3600), 0) AS total_hours
FROM users u
LEFT JOIN attendances a
	ON a.employee_id = u.id
	AND a.attendance_date >= ?
	AND a.attendance_date < ?
WHERE u.deleted_at IS NULL
	AND (? = '' OR u.id::text = ?)
	AND (? = '' OR u.department_id::text = ?)
GROUP BY u.id, u.first_name, u.last_name
ORDER BY u.first_name, u.last_name
`, from.Format("2006-01-02"), to.Format("2006-01-02"),
		filter.EmployeeID, filter.EmployeeID,
		filter.DepartmentID, filter.DepartmentID)

	var rows []SummaryRecord
	err := q.Scan(&rows).Error
	return rows, err
}
