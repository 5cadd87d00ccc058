package attendance

import (
	"context"
	"errors"
	"math"
	"time"

	attendanceerrors "github.com/fenan-yosef/hrms-backend/internal/attendance/errors"
	"github.com/fenan-yosef/hrms-backend/internal/rbac"
	"github.com/fenan-yosef/hrms-backend/internal/shared/apperror"
	"github.com/fenan-yosef/hrms-backend/internal/systemsetting"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultLateThreshold = "09:15"

// ListOptions narrows attendance listings; the service intersects them
// with the actor's visibility.
type ListOptions struct {
	Month      string
	EmployeeID string
}

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	CheckIn(ctx context.Context, actor rbac.Actor, req CheckInRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, actor rbac.Actor, req CheckOutRequest) (AttendanceResponse, error)
	Today(ctx context.Context, actor rbac.Actor) (AttendanceResponse, error)
	GetAll(ctx context.Context, actor rbac.Actor, opts ListOptions) ([]AttendanceResponse, error)
	MonthlySummary(ctx context.Context, actor rbac.Actor, month, employeeID string) ([]SummaryRow, error)
	ResetToday(ctx context.Context, actor rbac.Actor, employeeID string) (int64, error)
	ExportMonthlySummary(ctx context.Context, actor rbac.Actor, month string) ([]byte, string, error)
}

type service struct {
	repo     Repository
	settings systemsetting.Service
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(repo Repository, settings systemsetting.Service, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{repo: repo, settings: settings, now: time.Now, logger: l}
}

// NewServiceWithClock is used by tests to pin the wall clock.
func NewServiceWithClock(repo Repository, settings systemsetting.Service, now func() time.Time, logger ...*zap.Logger) Service {
	svc := NewService(repo, settings, logger...).(*service)
	svc.now = now
	return svc
}

func (s *service) CheckIn(ctx context.Context, actor rbac.Actor, req CheckInRequest) (AttendanceResponse, error) {
	now := s.now()
	today := dateOnly(now)

	if existing, err := s.repo.FindByEmployeeAndDate(ctx, actor.ID, today); err == nil && existing != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedIn
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}

	status := StatusPresent
	if s.isLate(ctx, now) {
		status = StatusLate
	}

	row := &Attendance{
		ID:             uuid.New(),
		EmployeeID:     uuid.MustParse(actor.ID),
		AttendanceDate: today,
		CheckIn:        now,
		Status:         status,
		Notes:          req.Notes,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		// the unique constraint closes the pre-check race
		if _, ok := apperror.IsUniqueViolation(err); ok {
			return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedIn
		}
		s.logger.Error("check-in failed", zap.String("employee_id", actor.ID), zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.logger.Info("checked in",
		zap.String("employee_id", actor.ID),
		zap.String("status", status),
	)
	return toResponse(*row), nil
}

func (s *service) CheckOut(ctx context.Context, actor rbac.Actor, req CheckOutRequest) (AttendanceResponse, error) {
	now := s.now()

	row, err := s.repo.FindByEmployeeAndDate(ctx, actor.ID, dateOnly(now))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrNotCheckedIn
		}
		return AttendanceResponse{}, err
	}
	if row.CheckOut != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedOut
	}

	row.CheckOut = &now
	if req.Notes != nil {
		row.Notes = req.Notes
	}
	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("check-out failed", zap.String("employee_id", actor.ID), zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.logger.Info("checked out",
		zap.String("employee_id", actor.ID),
		zap.Float64("worked_hours", row.WorkedHours()),
	)
	return toResponse(*row), nil
}

func (s *service) Today(ctx context.Context, actor rbac.Actor) (AttendanceResponse, error) {
	row, err := s.repo.FindByEmployeeAndDate(ctx, actor.ID, dateOnly(s.now()))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrNoAttendanceToday
		}
		return AttendanceResponse{}, err
	}
	return toResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, actor rbac.Actor, opts ListOptions) ([]AttendanceResponse, error) {
	filter := ListFilter{}
	if opts.Month != "" {
		from, to, err := monthRange(opts.Month)
		if err != nil {
			return nil, err
		}
		filter.From, filter.To = from, to
	}

	privileged := rbac.IsCEO(actor) || rbac.IsHR(actor) || rbac.IsAdmin(actor)
	switch {
	case privileged:
		filter.EmployeeID = opts.EmployeeID
	case rbac.IsManager(actor) && actor.DepartmentID != "":
		filter.DepartmentID = actor.DepartmentID
		filter.EmployeeID = opts.EmployeeID
	default:
		filter.EmployeeID = actor.ID
	}

	rows, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("list attendance failed", zap.Error(err))
		return nil, err
	}
	out := make([]AttendanceResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, toResponse(r))
	}
	return out, nil
}

func (s *service) MonthlySummary(ctx context.Context, actor rbac.Actor, month, employeeID string) ([]SummaryRow, error) {
	from, to, err := monthRange(month)
	if err != nil {
		return nil, err
	}

	filter := ListFilter{}
	privileged := rbac.IsCEO(actor) || rbac.IsHR(actor) || rbac.IsAdmin(actor)
	switch {
	case privileged:
		filter.EmployeeID = employeeID
	case rbac.IsManager(actor) && actor.DepartmentID != "":
		filter.DepartmentID = actor.DepartmentID
		filter.EmployeeID = employeeID
	default:
		filter.EmployeeID = actor.ID
	}

	records, err := s.repo.MonthlySummary(ctx, from, to, filter)
	if err != nil {
		s.logger.Error("monthly summary failed", zap.String("month", month), zap.Error(err))
		return nil, err
	}

	workdays := workdaysBetween(from, minTime(to, dateOnly(s.now()).AddDate(0, 0, 1)))
	out := make([]SummaryRow, 0, len(records))
	for _, rec := range records {
		absent := workdays - rec.PresentDays
		if absent < 0 {
			absent = 0
		}
		out = append(out, SummaryRow{
			EmployeeID:  rec.EmployeeID,
			FirstName:   rec.FirstName,
			LastName:    rec.LastName,
			PresentDays: rec.PresentDays,
			LateDays:    rec.LateDays,
			AbsentDays:  absent,
			TotalHours:  round2(rec.TotalHours),
		})
	}
	return out, nil
}

func (s *service) ResetToday(ctx context.Context, actor rbac.Actor, employeeID string) (int64, error) {
	deleted, err := s.repo.DeleteByDate(ctx, dateOnly(s.now()), employeeID)
	if err != nil {
		s.logger.Error("reset today failed", zap.Error(err))
		return 0, err
	}

	s.logger.Info("attendance reset for today",
		zap.String("actor_id", actor.ID),
		zap.String("employee_id", employeeID),
		zap.Int64("deleted", deleted),
	)
	return deleted, nil
}

func (s *service) isLate(ctx context.Context, now time.Time) bool {
	raw := s.settings.GetText(ctx, systemsetting.KeyLateThreshold, defaultLateThreshold)
	threshold, err := time.Parse("15:04", raw)
	if err != nil {
		threshold, _ = time.Parse("15:04", defaultLateThreshold)
	}
	cutoff := time.Date(now.Year(), now.Month(), now.Day(),
		threshold.Hour(), threshold.Minute(), 0, 0, now.Location())
	return now.After(cutoff)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func monthRange(month string) (time.Time, time.Time, error) {
	from, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, attendanceerrors.ErrInvalidMonth
	}
	return from, from.AddDate(0, 1, 0), nil
}

// workdaysBetween counts Mondays through Fridays in [from, to).
func workdaysBetween(from, to time.Time) int {
	days := 0
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days++
		}
	}
	return days
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
