package analytics

import (
	"context"
	"math"
	"time"

	"github.com/fenan-yosef/hrms-backend/internal/domain"
	"github.com/fenan-yosef/hrms-backend/internal/rbac"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

//go:generate mockgen -source=analytics_service.go -destination=mock/analytics_service_mock.go -package=mock
type Service interface {
	Dashboard(ctx context.Context, actor rbac.Actor) (any, error)
}

type service struct {
	repo   Repository
	sf     *singleflight.Group
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("analytics.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("analytics.service")
	}
	return &service{repo: repo, sf: &singleflight.Group{}, now: time.Now, logger: l}
}

// NewServiceWithClock pins the dashboard clock, used by tests.
func NewServiceWithClock(repo Repository, now func() time.Time, logger ...*zap.Logger) Service {
	svc := NewService(repo, logger...).(*service)
	svc.now = now
	return svc
}

// Dashboard dispatches on the actor's role. HR and Admin get the CEO
// view. Concurrent requests for the same role and department collapse
// into one computation; employee dashboards are per-user and keyed so.
func (s *service) Dashboard(ctx context.Context, actor rbac.Actor) (any, error) {
	var (
		key   string
		build func() (any, error)
	)
	switch {
	case rbac.IsEmployee(actor):
		key = "employee|" + actor.ID
		build = func() (any, error) { return s.employeeDashboard(ctx, actor) }
	case rbac.IsManager(actor):
		key = "manager|" + actor.DepartmentID
		build = func() (any, error) { return s.managerDashboard(ctx, actor) }
	default:
		key = "ceo"
		build = func() (any, error) { return s.ceoDashboard(ctx) }
	}

	out, err, _ := s.sf.Do(key, build)
	if err != nil {
		s.logger.Error("dashboard build failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (s *service) employeeDashboard(ctx context.Context, actor rbac.Actor) (EmployeeDashboard, error) {
	var d EmployeeDashboard

	days, err := s.repo.ApprovedLeaveDays(ctx, actor.ID)
	if err != nil {
		return d, err
	}
	d.LeaveDaysUsed = days

	pending, err := s.repo.PendingLeaveCount(ctx, actor.ID, "")
	if err != nil {
		return d, err
	}
	d.PendingRequests = pending

	next, err := s.repo.NextReviewCycleEnd(ctx, actor.ID, s.now())
	if err != nil {
		return d, err
	}
	if next != nil {
		until := int(next.Sub(dateOnly(s.now())).Hours() / 24)
		d.DaysUntilNextReview = &until
	}

	if actor.DepartmentID != "" {
		size, err := s.repo.CountUsersInDepartment(ctx, actor.DepartmentID, domain.RoleEmployee)
		if err != nil {
			return d, err
		}
		d.TeamSize = size
	}
	return d, nil
}

func (s *service) managerDashboard(ctx context.Context, actor rbac.Actor) (ManagerDashboard, error) {
	var d ManagerDashboard
	if actor.DepartmentID == "" {
		return d, nil
	}

	today := dateOnly(s.now())
	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())

	size, err := s.repo.CountUsersInDepartment(ctx, actor.DepartmentID, domain.RoleEmployee)
	if err != nil {
		return d, err
	}
	d.TeamSize = size

	onLeave, err := s.repo.OnApprovedLeaveCount(ctx, actor.DepartmentID, today)
	if err != nil {
		return d, err
	}
	d.EmployeesOnLeave = onLeave

	pending, err := s.repo.PendingLeaveCount(ctx, "", actor.DepartmentID)
	if err != nil {
		return d, err
	}
	d.PendingLeaveRequests = pending

	hires, err := s.repo.CountHiresSince(ctx, actor.DepartmentID, firstOfMonth)
	if err != nil {
		return d, err
	}
	d.NewHiresThisMonth = hires

	avg, err := s.repo.AverageScore(ctx, actor.DepartmentID)
	if err != nil {
		return d, err
	}
	d.TeamAvgScore = round2(avg)

	reviews, err := s.repo.ReviewCountSince(ctx, actor.DepartmentID, firstOfMonth)
	if err != nil {
		return d, err
	}
	d.ReviewsThisMonth = reviews
	return d, nil
}

func (s *service) ceoDashboard(ctx context.Context) (CEODashboard, error) {
	var d CEODashboard

	today := dateOnly(s.now())
	firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	last30 := s.now().AddDate(0, 0, -30)

	total, err := s.repo.CountActiveUsers(ctx)
	if err != nil {
		return d, err
	}
	employees, err := s.repo.CountUsersByRole(ctx, domain.RoleEmployee)
	if err != nil {
		return d, err
	}
	managers, err := s.repo.CountUsersByRole(ctx, domain.RoleManager)
	if err != nil {
		return d, err
	}
	hr, err := s.repo.CountUsersByRole(ctx, domain.RoleHR)
	if err != nil {
		return d, err
	}
	d.Headcount = Headcount{TotalActiveUsers: total, Employees: employees, Managers: managers, HR: hr}

	depts, err := s.repo.ListDepartments(ctx)
	if err != nil {
		return d, err
	}
	d.Departments = make([]DepartmentCount, 0, len(depts))
	for _, dept := range depts {
		n, err := s.repo.CountUsersInDepartment(ctx, dept.ID.String(), "")
		if err != nil {
			return d, err
		}
		d.Departments = append(d.Departments, DepartmentCount{
			ID:            dept.ID.String(),
			Name:          dept.Name,
			EmployeeCount: n,
		})
	}

	hires, err := s.repo.CountHiresSince(ctx, "", firstOfMonth)
	if err != nil {
		return d, err
	}
	d.HiresThisMonth = hires

	deleted, err := s.repo.CountDeletedSince(ctx, last30)
	if err != nil {
		return d, err
	}
	baseline := total + deleted
	if baseline == 0 {
		baseline = 1
	}
	d.Attrition = Attrition{
		Count: deleted,
		Rate:  round4(float64(deleted) / float64(baseline)),
	}

	pending, err := s.repo.PendingLeaveCount(ctx, "", "")
	if err != nil {
		return d, err
	}
	onLeave, err := s.repo.OnApprovedLeaveCount(ctx, "", today)
	if err != nil {
		return d, err
	}
	d.Leave = LeaveSnapshot{PendingRequests: pending, OnApprovedLeaveToday: onLeave}

	avg, err := s.repo.AverageScore(ctx, "")
	if err != nil {
		return d, err
	}
	reviews, err := s.repo.ReviewCountSince(ctx, "", firstOfMonth)
	if err != nil {
		return d, err
	}
	top, err := s.repo.TopPerformers(ctx, 5)
	if err != nil {
		return d, err
	}
	d.Performance = PerformanceSnapshot{
		AverageScore:     round2(avg),
		ReviewsThisMonth: reviews,
		TopPerformers:    top,
	}

	dobs, err := s.repo.ListBirthDates(ctx)
	if err != nil {
		return d, err
	}
	d.AgeDistribution = ageBuckets(dobs, today)
	return d, nil
}

func ageBuckets(dobs []time.Time, today time.Time) map[string]int {
	buckets := map[string]int{"<25": 0, "25-34": 0, "35-44": 0, "45-54": 0, "55+": 0}
	for _, dob := range dobs {
		age := today.Year() - dob.Year()
		if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
			age--
		}
		switch {
		case age < 25:
			buckets["<25"]++
		case age < 35:
			buckets["25-34"]++
		case age < 45:
			buckets["35-44"]++
		case age < 55:
			buckets["45-54"]++
		default:
			buckets["55+"]++
		}
	}
	return buckets
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
