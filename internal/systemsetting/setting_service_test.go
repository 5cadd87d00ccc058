package systemsetting

import (
	"context"
	"testing"
	"time"

	"github.com/fenan-yosef/hrms-backend/internal/shared/apperror"
	settingerrors "github.com/fenan-yosef/hrms-backend/internal/systemsetting/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeSettingRepo struct {
	settings map[string]*SystemSetting

	findAllFn func(ctx context.Context) ([]SystemSetting, error)
	upsertFn  func(ctx context.Context, s *SystemSetting) error
}

func newFakeSettingRepo() *fakeSettingRepo {
	return &fakeSettingRepo{settings: map[string]*SystemSetting{}}
}

func (f *fakeSettingRepo) FindAll(ctx context.Context) ([]SystemSetting, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	out := make([]SystemSetting, 0, len(f.settings))
	for _, s := range f.settings {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeSettingRepo) FindByKey(ctx context.Context, key string) (*SystemSetting, error) {
	s, ok := f.settings[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSettingRepo) Create(ctx context.Context, s *SystemSetting) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	f.settings[s.Key] = s
	return nil
}

func (f *fakeSettingRepo) Upsert(ctx context.Context, s *SystemSetting) error {
	if f.upsertFn != nil {
		return f.upsertFn(ctx, s)
	}
	if existing, ok := f.settings[s.Key]; ok {
		s.ID = existing.ID
	} else if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	f.settings[s.Key] = s
	return nil
}

func (f *fakeSettingRepo) Delete(ctx context.Context, key string) error {
	if _, ok := f.settings[key]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.settings, key)
	return nil
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestCreateSettingRejectsUnknownKey(t *testing.T) {
	svc := NewService(newFakeSettingRepo(), zap.NewNop())

	_, err := svc.Create(context.Background(), UpsertSettingRequest{
		Key:      "overtime_cutoff_day",
		IntValue: intPtr(25),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, settingerrors.ErrUnknownKey)
}

func TestCreateSettingDuplicateReturnsExistingRecord(t *testing.T) {
	repo := newFakeSettingRepo()
	existing := &SystemSetting{
		ID:        uuid.New(),
		Key:       KeyAnnualLeaveRequestMaxDays,
		IntValue:  intPtr(15),
		UpdatedAt: time.Now(),
	}
	repo.settings[existing.Key] = existing

	svc := NewService(repo, zap.NewNop())
	_, err := svc.Create(context.Background(), UpsertSettingRequest{
		Key:      KeyAnnualLeaveRequestMaxDays,
		IntValue: intPtr(20),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, settingerrors.ErrDuplicateKey)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	got, ok := appErr.Details.(SettingResponse)
	require.True(t, ok)
	assert.Equal(t, existing.ID.String(), got.ID)
	assert.Equal(t, 15, *got.IntValue)

	// the stored value stays unchanged
	assert.Equal(t, 15, *repo.settings[existing.Key].IntValue)
}

func TestUpsertSettingValidatesValue(t *testing.T) {
	svc := NewService(newFakeSettingRepo(), zap.NewNop())

	tests := []struct {
		name string
		key  string
		req  UpsertSettingRequest
	}{
		{"negative leave cap", KeyAnnualLeaveRequestMaxDays, UpsertSettingRequest{IntValue: intPtr(-1)}},
		{"leave cap without int", KeyAnnualLeaveRequestMaxDays, UpsertSettingRequest{TextValue: "15"}},
		{"bad audit mode", KeyAuditLogMode, UpsertSettingRequest{TextValue: "verbose"}},
		{"bad late threshold", KeyLateThreshold, UpsertSettingRequest{TextValue: "nine thirty"}},
		{"working hours over 24", KeyWorkingHoursPerDay, UpsertSettingRequest{DecimalValue: floatPtr(25)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upsert(context.Background(), tt.key, tt.req)
			assert.ErrorIs(t, err, settingerrors.ErrInvalidValue)
		})
	}
}

func TestUpsertSettingWritesAndReturnsStored(t *testing.T) {
	repo := newFakeSettingRepo()
	svc := NewService(repo, zap.NewNop())

	resp, err := svc.Upsert(context.Background(), KeyAuditLogMode, UpsertSettingRequest{
		TextValue:   "important",
		Description: "tightened for the audit",
	})

	require.NoError(t, err)
	assert.Equal(t, KeyAuditLogMode, resp.Key)
	assert.Equal(t, "important", resp.TextValue)
	require.Contains(t, repo.settings, KeyAuditLogMode)
}

func TestGetIntFallsBack(t *testing.T) {
	repo := newFakeSettingRepo()
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()

	assert.Equal(t, 15, svc.GetInt(ctx, KeyAnnualLeaveRequestMaxDays, 15))

	repo.settings[KeyAnnualLeaveRequestMaxDays] = &SystemSetting{
		ID:       uuid.New(),
		Key:      KeyAnnualLeaveRequestMaxDays,
		IntValue: intPtr(20),
	}
	assert.Equal(t, 20, svc.GetInt(ctx, KeyAnnualLeaveRequestMaxDays, 15))

	// text-only row still falls back for int reads
	repo.settings[KeyAuditLogMode] = &SystemSetting{
		ID:        uuid.New(),
		Key:       KeyAuditLogMode,
		TextValue: "all",
	}
	assert.Equal(t, 7, svc.GetInt(ctx, KeyAuditLogMode, 7))
	assert.Equal(t, "all", svc.GetText(ctx, KeyAuditLogMode, "minimal"))
}

func TestDeleteSettingNotFound(t *testing.T) {
	svc := NewService(newFakeSettingRepo(), zap.NewNop())
	err := svc.Delete(context.Background(), KeyLateThreshold)
	assert.ErrorIs(t, err, settingerrors.ErrSettingNotFound)
}
