package systemsetting

import (
	"context"
	"errors"
	"time"

	settingerrors "github.com/fenan-yosef/hrms-backend/internal/systemsetting/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=setting_service.go -destination=mock/setting_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context) ([]SettingResponse, error)
	GetByKey(ctx context.Context, key string) (SettingResponse, error)
	Create(ctx context.Context, req UpsertSettingRequest) (SettingResponse, error)
	Upsert(ctx context.Context, key string, req UpsertSettingRequest) (SettingResponse, error)
	Delete(ctx context.Context, key string) error

	// GetInt reads an integer setting, falling back to def when the row is
	// missing or holds no int value.
	GetInt(ctx context.Context, key string, def int) int
	// GetText reads a text setting with a fallback default.
	GetText(ctx context.Context, key string, def string) string
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("systemsetting.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("systemsetting.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetAll(ctx context.Context) ([]SettingResponse, error) {
	settings, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("list settings failed", zap.Error(err))
		return nil, err
	}
	out := make([]SettingResponse, 0, len(settings))
	for _, st := range settings {
		out = append(out, toResponse(st))
	}
	return out, nil
}

func (s *service) GetByKey(ctx context.Context, key string) (SettingResponse, error) {
	setting, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SettingResponse{}, settingerrors.ErrSettingNotFound
		}
		s.logger.Error("get setting failed", zap.String("key", key), zap.Error(err))
		return SettingResponse{}, err
	}
	return toResponse(*setting), nil
}

func (s *service) Create(ctx context.Context, req UpsertSettingRequest) (SettingResponse, error) {
	if !KeyAllowed(req.Key) {
		return SettingResponse{}, settingerrors.ErrUnknownKey.WithDetails(map[string]string{"key": req.Key})
	}
	if err := validateValue(req); err != nil {
		return SettingResponse{}, err
	}

	if existing, err := s.repo.FindByKey(ctx, req.Key); err == nil {
		// creating over an existing key returns the current record so the
		// client can switch to an update
		return SettingResponse{}, settingerrors.ErrDuplicateKey.WithDetails(toResponse(*existing))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("create setting lookup failed", zap.String("key", req.Key), zap.Error(err))
		return SettingResponse{}, err
	}

	setting := SystemSetting{
		Key:          req.Key,
		IntValue:     req.IntValue,
		DecimalValue: req.DecimalValue,
		TextValue:    req.TextValue,
		Description:  req.Description,
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, &setting); err != nil {
		s.logger.Error("create setting failed", zap.String("key", req.Key), zap.Error(err))
		return SettingResponse{}, err
	}

	s.logger.Info("setting created", zap.String("key", setting.Key))
	return toResponse(setting), nil
}

func (s *service) Upsert(ctx context.Context, key string, req UpsertSettingRequest) (SettingResponse, error) {
	if !KeyAllowed(key) {
		return SettingResponse{}, settingerrors.ErrUnknownKey.WithDetails(map[string]string{"key": key})
	}
	req.Key = key
	if err := validateValue(req); err != nil {
		return SettingResponse{}, err
	}

	setting := SystemSetting{
		Key:          key,
		IntValue:     req.IntValue,
		DecimalValue: req.DecimalValue,
		TextValue:    req.TextValue,
		Description:  req.Description,
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Upsert(ctx, &setting); err != nil {
		s.logger.Error("upsert setting failed", zap.String("key", key), zap.Error(err))
		return SettingResponse{}, err
	}

	stored, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		return SettingResponse{}, err
	}

	s.logger.Info("setting updated", zap.String("key", key))
	return toResponse(*stored), nil
}

func (s *service) Delete(ctx context.Context, key string) error {
	if err := s.repo.Delete(ctx, key); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return settingerrors.ErrSettingNotFound
		}
		s.logger.Error("delete setting failed", zap.String("key", key), zap.Error(err))
		return err
	}
	s.logger.Info("setting deleted", zap.String("key", key))
	return nil
}

func (s *service) GetInt(ctx context.Context, key string, def int) int {
	setting, err := s.repo.FindByKey(ctx, key)
	if err != nil || setting.IntValue == nil {
		return def
	}
	return *setting.IntValue
}

func (s *service) GetText(ctx context.Context, key string, def string) string {
	setting, err := s.repo.FindByKey(ctx, key)
	if err != nil || setting.TextValue == "" {
		return def
	}
	return setting.TextValue
}

func validateValue(req UpsertSettingRequest) error {
	switch req.Key {
	case KeyAnnualLeaveRequestMaxDays:
		if req.IntValue == nil || *req.IntValue < 0 {
			return settingerrors.ErrInvalidValue.WithDetails(map[string]string{
				"key":      req.Key,
				"expected": "non-negative int_value",
			})
		}
	case KeyAuditLogMode:
		switch req.TextValue {
		case "off", "minimal", "important", "all":
		default:
			return settingerrors.ErrInvalidValue.WithDetails(map[string]string{
				"key":      req.Key,
				"expected": "off | minimal | important | all",
			})
		}
	case KeyLateThreshold:
		if req.TextValue == "" {
			return settingerrors.ErrInvalidValue.WithDetails(map[string]string{
				"key":      req.Key,
				"expected": "HH:MM text_value",
			})
		}
		if _, err := time.Parse("15:04", req.TextValue); err != nil {
			return settingerrors.ErrInvalidValue.WithDetails(map[string]string{
				"key":      req.Key,
				"expected": "HH:MM text_value",
			})
		}
	case KeyWorkingHoursPerDay:
		if req.DecimalValue == nil || *req.DecimalValue <= 0 || *req.DecimalValue > 24 {
			return settingerrors.ErrInvalidValue.WithDetails(map[string]string{
				"key":      req.Key,
				"expected": "decimal_value in (0, 24]",
			})
		}
	}
	return nil
}
