package attendance_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fenan-yosef/hrms-backend/internal/attendance"
	attendanceerrors "github.com/fenan-yosef/hrms-backend/internal/attendance/errors"
	"github.com/fenan-yosef/hrms-backend/internal/domain"
	"github.com/fenan-yosef/hrms-backend/internal/rbac"
	"github.com/fenan-yosef/hrms-backend/internal/systemsetting"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeAttendanceRepository struct {
	rows map[string]*attendance.Attendance // employeeID|date -> row

	deleteByDateFn   func(ctx context.Context, date time.Time, employeeID string) (int64, error)
	monthlySummaryFn func(ctx context.Context, from, to time.Time, filter attendance.ListFilter) ([]attendance.SummaryRecord, error)
	findAllFn        func(ctx context.Context, filter attendance.ListFilter) ([]attendance.Attendance, error)
}

func newFakeAttendanceRepository() *fakeAttendanceRepository {
	return &fakeAttendanceRepository{rows: map[string]*attendance.Attendance{}}
}

func key(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (f *fakeAttendanceRepository) Create(ctx context.Context, a *attendance.Attendance) error {
	f.rows[key(a.EmployeeID.String(), a.AttendanceDate)] = a
	return nil
}

func (f *fakeAttendanceRepository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	if row, ok := f.rows[key(employeeID, date)]; ok {
		return row, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttendanceRepository) FindAll(ctx context.Context, filter attendance.ListFilter) ([]attendance.Attendance, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakeAttendanceRepository) Update(ctx context.Context, a *attendance.Attendance) error {
	f.rows[key(a.EmployeeID.String(), a.AttendanceDate)] = a
	return nil
}

func (f *fakeAttendanceRepository) DeleteByDate(ctx context.Context, date time.Time, employeeID string) (int64, error) {
	if f.deleteByDateFn != nil {
		return f.deleteByDateFn(ctx, date, employeeID)
	}
	var deleted int64
	for k, row := range f.rows {
		if row.AttendanceDate.Equal(date) && (employeeID == "" || row.EmployeeID.String() == employeeID) {
			delete(f.rows, k)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeAttendanceRepository) MonthlySummary(ctx context.Context, from, to time.Time, filter attendance.ListFilter) ([]attendance.SummaryRecord, error) {
	if f.monthlySummaryFn != nil {
		return f.monthlySummaryFn(ctx, from, to, filter)
	}
	return nil, nil
}

type fakeSettings struct {
	texts map[string]string
}

func (f *fakeSettings) GetAll(ctx context.Context) ([]systemsetting.SettingResponse, error) {
	return nil, nil
}

func (f *fakeSettings) GetByKey(ctx context.Context, key string) (systemsetting.SettingResponse, error) {
	return systemsetting.SettingResponse{}, nil
}

func (f *fakeSettings) Create(ctx context.Context, req systemsetting.UpsertSettingRequest) (systemsetting.SettingResponse, error) {
	return systemsetting.SettingResponse{}, nil
}

func (f *fakeSettings) Upsert(ctx context.Context, key string, req systemsetting.UpsertSettingRequest) (systemsetting.SettingResponse, error) {
	return systemsetting.SettingResponse{}, nil
}

func (f *fakeSettings) Delete(ctx context.Context, key string) error { return nil }

func (f *fakeSettings) GetInt(ctx context.Context, key string, def int) int { return def }

func (f *fakeSettings) GetText(ctx context.Context, key string, def string) string {
	if v, ok := f.texts[key]; ok {
		return v
	}
	return def
}

type attendanceDeps struct {
	service  attendance.Service
	repo     *fakeAttendanceRepository
	settings *fakeSettings
	clock    *time.Time
}

func setupAttendanceTest(t *testing.T, now time.Time) *attendanceDeps {
	t.Helper()

	repo := newFakeAttendanceRepository()
	settings := &fakeSettings{texts: map[string]string{}}
	clock := now
	svc := attendance.NewServiceWithClock(repo, settings, func() time.Time { return clock }, zap.NewNop())

	return &attendanceDeps{service: svc, repo: repo, settings: settings, clock: &clock}
}

func employeeActor() rbac.Actor {
	return rbac.Actor{ID: uuid.NewString(), Role: domain.RoleEmployee}
}

func TestCheckInOnTimeAndLate(t *testing.T) {
	onTime := time.Date(2026, 3, 2, 8, 55, 0, 0, time.UTC)
	deps := setupAttendanceTest(t, onTime)

	resp, err := deps.service.CheckIn(context.Background(), employeeActor(), attendance.CheckInRequest{})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, resp.Status)

	late := time.Date(2026, 3, 2, 9, 16, 0, 0, time.UTC)
	deps = setupAttendanceTest(t, late)

	resp, err = deps.service.CheckIn(context.Background(), employeeActor(), attendance.CheckInRequest{})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, resp.Status)
}

func TestCheckInHonorsConfiguredThreshold(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 45, 0, 0, time.UTC)
	deps := setupAttendanceTest(t, now)
	deps.settings.texts[systemsetting.KeyLateThreshold] = "10:00"

	resp, err := deps.service.CheckIn(context.Background(), employeeActor(), attendance.CheckInRequest{})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, resp.Status)
}

func TestDuplicateCheckInRejected(t *testing.T) {
	deps := setupAttendanceTest(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	actor := employeeActor()

	_, err := deps.service.CheckIn(context.Background(), actor, attendance.CheckInRequest{})
	require.NoError(t, err)

	_, err = deps.service.CheckIn(context.Background(), actor, attendance.CheckInRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyCheckedIn)
	assert.Equal(t, "Already checked in.", err.Error())
}

func TestCheckOutFlow(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	deps := setupAttendanceTest(t, start)
	actor := employeeActor()

	_, err := deps.service.CheckOut(context.Background(), actor, attendance.CheckOutRequest{})
	assert.ErrorIs(t, err, attendanceerrors.ErrNotCheckedIn)

	_, err = deps.service.CheckIn(context.Background(), actor, attendance.CheckInRequest{})
	require.NoError(t, err)

	*deps.clock = start.Add(8*time.Hour + 30*time.Minute)
	resp, err := deps.service.CheckOut(context.Background(), actor, attendance.CheckOutRequest{})
	require.NoError(t, err)
	assert.InDelta(t, 8.5, resp.WorkedHours, 0.001)

	_, err = deps.service.CheckOut(context.Background(), actor, attendance.CheckOutRequest{})
	assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyCheckedOut)
}

func TestTodayReturnsOwnRecord(t *testing.T) {
	deps := setupAttendanceTest(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	actor := employeeActor()

	_, err := deps.service.Today(context.Background(), actor)
	assert.ErrorIs(t, err, attendanceerrors.ErrNoAttendanceToday)

	_, err = deps.service.CheckIn(context.Background(), actor, attendance.CheckInRequest{})
	require.NoError(t, err)

	resp, err := deps.service.Today(context.Background(), actor)
	require.NoError(t, err)
	assert.Equal(t, actor.ID, resp.EmployeeID)
}

func TestMonthlySummaryComputesAbsences(t *testing.T) {
	// March 2026: the first 6 days hold 4 weekdays (Mon 2..Thu 5 plus
	// Sun 1, Fri 6 not yet reached at the pinned clock of Mar 5).
	now := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	deps := setupAttendanceTest(t, now)

	deps.repo.monthlySummaryFn = func(ctx context.Context, from, to time.Time, filter attendance.ListFilter) ([]attendance.SummaryRecord, error) {
		assert.Equal(t, "2026-03-01", from.Format("2006-01-02"))
		assert.Equal(t, "2026-04-01", to.Format("2006-01-02"))
		return []attendance.SummaryRecord{
			{EmployeeID: uuid.NewString(), FirstName: "Sara", LastName: "Tesfaye", PresentDays: 2, LateDays: 1, TotalHours: 16.504},
		}, nil
	}

	rows, err := deps.service.MonthlySummary(context.Background(), rbac.Actor{ID: uuid.NewString(), Role: domain.RoleHR}, "2026-03", "")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// Mar 2..5 are the elapsed weekdays; 2 present leaves 2 absent.
	assert.Equal(t, 2, rows[0].AbsentDays)
	assert.Equal(t, 1, rows[0].LateDays)
	assert.Equal(t, 16.5, rows[0].TotalHours)
}

func TestMonthlySummaryRejectsBadMonth(t *testing.T) {
	deps := setupAttendanceTest(t, time.Now())

	_, err := deps.service.MonthlySummary(context.Background(), employeeActor(), "March-2026", "")
	assert.ErrorIs(t, err, attendanceerrors.ErrInvalidMonth)
}

func TestGetAllScopesByRole(t *testing.T) {
	deps := setupAttendanceTest(t, time.Now())
	dept := uuid.New()

	var captured attendance.ListFilter
	deps.repo.findAllFn = func(ctx context.Context, filter attendance.ListFilter) ([]attendance.Attendance, error) {
		captured = filter
		return nil, nil
	}

	emp := employeeActor()
	_, err := deps.service.GetAll(context.Background(), emp, attendance.ListOptions{EmployeeID: uuid.NewString()})
	require.NoError(t, err)
	// employees cannot list anyone else
	assert.Equal(t, emp.ID, captured.EmployeeID)

	_, err = deps.service.GetAll(context.Background(), rbac.Actor{ID: uuid.NewString(), Role: domain.RoleManager, DepartmentID: dept.String()}, attendance.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, dept.String(), captured.DepartmentID)

	_, err = deps.service.GetAll(context.Background(), rbac.Actor{ID: uuid.NewString(), Role: domain.RoleCEO}, attendance.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, captured.EmployeeID)
	assert.Empty(t, captured.DepartmentID)
}

func TestResetTodayDeletesRows(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	deps := setupAttendanceTest(t, now)

	a := employeeActor()
	b := employeeActor()
	_, err := deps.service.CheckIn(context.Background(), a, attendance.CheckInRequest{})
	require.NoError(t, err)
	_, err = deps.service.CheckIn(context.Background(), b, attendance.CheckInRequest{})
	require.NoError(t, err)

	deleted, err := deps.service.ResetToday(context.Background(), rbac.Actor{ID: uuid.NewString(), Role: domain.RoleHR}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	// both can check in again
	_, err = deps.service.CheckIn(context.Background(), a, attendance.CheckInRequest{})
	assert.NoError(t, err)
}

func TestExportMonthlySummaryProducesWorkbook(t *testing.T) {
	now := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	deps := setupAttendanceTest(t, now)

	deps.repo.monthlySummaryFn = func(ctx context.Context, from, to time.Time, filter attendance.ListFilter) ([]attendance.SummaryRecord, error) {
		return []attendance.SummaryRecord{
			{EmployeeID: uuid.NewString(), FirstName: "Sara", LastName: "Tesfaye", PresentDays: 3, LateDays: 0, TotalHours: 24},
		}, nil
	}

	data, filename, err := deps.service.ExportMonthlySummary(context.Background(), rbac.Actor{ID: uuid.NewString(), Role: domain.RoleHR}, "2026-03")
	require.NoError(t, err)
	assert.Equal(t, "attendance-summary-2026-03.xlsx", filename)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	name, err := f.GetCellValue("Attendance", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Sara Tesfaye", name)
}
