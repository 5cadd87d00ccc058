package department

import (
	"context"
	"errors"

	departmenterrors "github.com/fenan-yosef/hrms-backend/internal/department/errors"
	"github.com/fenan-yosef/hrms-backend/internal/domain"
	"github.com/fenan-yosef/hrms-backend/internal/rbac"
	"github.com/fenan-yosef/hrms-backend/internal/shared/apperror"
	"github.com/fenan-yosef/hrms-backend/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=department_service.go -destination=mock/department_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor rbac.Actor, req CreateDepartmentRequest) (DepartmentResponse, error)
	GetAll(ctx context.Context, actor rbac.Actor, includeDeleted bool) ([]DepartmentResponse, error)
	GetByID(ctx context.Context, actor rbac.Actor, id string) (DepartmentResponse, error)
	Update(ctx context.Context, actor rbac.Actor, id string, req UpdateDepartmentRequest) (DepartmentResponse, error)
	Delete(ctx context.Context, actor rbac.Actor, id string) error
	Restore(ctx context.Context, actor rbac.Actor, id string) (DepartmentResponse, error)
}

type service struct {
	repo   Repository
	users  user.Repository
	logger *zap.Logger
}

func NewService(repo Repository, users user.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("department.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("department.service")
	}
	return &service{repo: repo, users: users, logger: l}
}

func (s *service) Create(ctx context.Context, actor rbac.Actor, req CreateDepartmentRequest) (DepartmentResponse, error) {
	if existing, err := s.repo.FindByCode(ctx, req.Code); err == nil {
		return DepartmentResponse{}, departmenterrors.ErrCodeTaken.WithDetails(map[string]string{"id": existing.ID.String()})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("create department code lookup failed", zap.Error(err))
		return DepartmentResponse{}, err
	}

	d := Department{
		ID:   uuid.New(),
		Name: req.Name,
		Code: req.Code,
	}
	if req.ManagerID != "" {
		managerID, err := s.resolveManager(ctx, req.ManagerID)
		if err != nil {
			return DepartmentResponse{}, err
		}
		d.ManagerID = managerID
	}

	if err := s.repo.Create(ctx, &d); err != nil {
		if _, ok := apperror.IsUniqueViolation(err); ok {
			return DepartmentResponse{}, departmenterrors.ErrCodeTaken
		}
		s.logger.Error("create department failed", zap.String("code", req.Code), zap.Error(err))
		return DepartmentResponse{}, err
	}

	s.logger.Info("department created",
		zap.String("department_id", d.ID.String()),
		zap.String("code", d.Code),
		zap.String("actor_id", actor.ID),
	)
	return toResponse(d), nil
}

func (s *service) GetAll(ctx context.Context, actor rbac.Actor, includeDeleted bool) ([]DepartmentResponse, error) {
	if includeDeleted && !(rbac.IsCEO(actor) || rbac.IsHR(actor) || rbac.IsAdmin(actor)) {
		includeDeleted = false
	}

	departments, err := s.repo.FindAll(ctx, includeDeleted)
	if err != nil {
		s.logger.Error("list departments failed", zap.Error(err))
		return nil, err
	}

	out := make([]DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		out = append(out, toResponse(d))
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, actor rbac.Actor, id string) (DepartmentResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return DepartmentResponse{}, departmenterrors.ErrInvalidDepartmentID
	}

	includeDeleted := rbac.IsCEO(actor) || rbac.IsHR(actor) || rbac.IsAdmin(actor)
	d, err := s.repo.FindByID(ctx, id, includeDeleted)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DepartmentResponse{}, departmenterrors.ErrDepartmentNotFound
		}
		return DepartmentResponse{}, err
	}
	return toResponse(*d), nil
}

func (s *service) Update(ctx context.Context, actor rbac.Actor, id string, req UpdateDepartmentRequest) (DepartmentResponse, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return DepartmentResponse{}, err
	}

	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.Code != nil && *req.Code != d.Code {
		if existing, err := s.repo.FindByCode(ctx, *req.Code); err == nil {
			return DepartmentResponse{}, departmenterrors.ErrCodeTaken.WithDetails(map[string]string{"id": existing.ID.String()})
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return DepartmentResponse{}, err
		}
		d.Code = *req.Code
	}
	if req.ManagerID != nil {
		if *req.ManagerID == "" {
			d.ManagerID = nil
		} else {
			managerID, err := s.resolveManager(ctx, *req.ManagerID)
			if err != nil {
				return DepartmentResponse{}, err
			}
			d.ManagerID = managerID
		}
	}

	if err := s.repo.Update(ctx, d); err != nil {
		if _, ok := apperror.IsUniqueViolation(err); ok {
			return DepartmentResponse{}, departmenterrors.ErrCodeTaken
		}
		s.logger.Error("update department failed", zap.String("department_id", id), zap.Error(err))
		return DepartmentResponse{}, err
	}
	return toResponse(*d), nil
}

func (s *service) Delete(ctx context.Context, actor rbac.Actor, id string) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		s.logger.Error("delete department failed", zap.String("department_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("department soft-deleted", zap.String("department_id", id), zap.String("actor_id", actor.ID))
	return nil
}

func (s *service) Restore(ctx context.Context, actor rbac.Actor, id string) (DepartmentResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return DepartmentResponse{}, departmenterrors.ErrInvalidDepartmentID
	}

	d, err := s.repo.FindByID(ctx, id, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DepartmentResponse{}, departmenterrors.ErrDepartmentNotFound
		}
		return DepartmentResponse{}, err
	}
	if !d.DeletedAt.Valid {
		return DepartmentResponse{}, departmenterrors.ErrDepartmentNotDeleted
	}

	if err := s.repo.Restore(ctx, id); err != nil {
		s.logger.Error("restore department failed", zap.String("department_id", id), zap.Error(err))
		return DepartmentResponse{}, err
	}

	d.DeletedAt = gorm.DeletedAt{}
	s.logger.Info("department restored", zap.String("department_id", id), zap.String("actor_id", actor.ID))
	return toResponse(*d), nil
}

func (s *service) load(ctx context.Context, id string) (*Department, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, departmenterrors.ErrInvalidDepartmentID
	}
	d, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, departmenterrors.ErrDepartmentNotFound
		}
		return nil, err
	}
	return d, nil
}

// resolveManager checks the assignee exists. A non-Manager role is allowed
// but logged, so bootstrapping a department before promoting its head
// still works.
func (s *service) resolveManager(ctx context.Context, managerID string) (*uuid.UUID, error) {
	id, err := uuid.Parse(managerID)
	if err != nil {
		return nil, departmenterrors.ErrInvalidManagerID
	}

	u, err := s.users.FindByID(ctx, managerID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, departmenterrors.ErrManagerNotFound
		}
		return nil, err
	}
	if u.Role != domain.RoleManager {
		s.logger.Warn("department manager does not hold the Manager role",
			zap.String("user_id", managerID),
			zap.String("role", u.Role.String()),
		)
	}
	return &id, nil
}
