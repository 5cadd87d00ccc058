package user

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/fenan-yosef/hrms-backend/internal/domain"
	"github.com/fenan-yosef/hrms-backend/internal/events"
	"github.com/fenan-yosef/hrms-backend/internal/messaging/kafka"
	"github.com/fenan-yosef/hrms-backend/internal/rbac"
	"github.com/fenan-yosef/hrms-backend/internal/shared/apperror"
	usererrors "github.com/fenan-yosef/hrms-backend/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor rbac.Actor, req CreateUserRequest) (UserResponse, error)
	GetAll(ctx context.Context, actor rbac.Actor, opts ListOptions) ([]UserResponse, int64, error)
	GetByID(ctx context.Context, actor rbac.Actor, id string) (UserResponse, error)
	Update(ctx context.Context, actor rbac.Actor, id string, req UpdateUserRequest) (UserResponse, error)
	Promote(ctx context.Context, actor rbac.Actor, id string) (UserResponse, error)
	Demote(ctx context.Context, actor rbac.Actor, id string) (UserResponse, error)
	Disable(ctx context.Context, actor rbac.Actor, id string) (UserResponse, error)
	Enable(ctx context.Context, actor rbac.Actor, id string) (UserResponse, error)
	Delete(ctx context.Context, actor rbac.Actor, id string) error
	Restore(ctx context.Context, actor rbac.Actor, id string) (UserResponse, error)
}

type ListOptions struct {
	IncludeDeleted bool
	Role           string
	Page           int
	PageSize       int
}

type service struct {
	db     *gorm.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{db: db, repo: repo, outbox: outbox, logger: l}
}

func (s *service) Create(ctx context.Context, actor rbac.Actor, req CreateUserRequest) (UserResponse, error) {
	role := domain.RoleEmployee
	if req.Role != "" {
		role = domain.ParseRole(req.Role)
		if !role.Valid() {
			return UserResponse{}, usererrors.ErrInvalidRole.WithDetails(map[string]string{"role": req.Role})
		}
	}

	if existing, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return UserResponse{}, usererrors.ErrEmailTaken.WithDetails(map[string]string{"id": existing.ID.String()})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("create user email lookup failed", zap.Error(err))
		return UserResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, err
	}

	u := User{
		ID:         uuid.New(),
		Email:      req.Email,
		Password:   string(hashed),
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Role:       role,
		DateJoined: time.Now().UTC(),
		IsActive:   true,
	}
	if req.DepartmentID != "" {
		deptID, err := uuid.Parse(req.DepartmentID)
		if err != nil {
			return UserResponse{}, usererrors.ErrInvalidDepartmentID
		}
		u.DepartmentID = &deptID
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return UserResponse{}, apperror.InvalidField("date_of_birth")
		}
		u.DateOfBirth = &dob
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, &u); err != nil {
			return err
		}
		return s.enqueueLifecycle(ctx, tx, events.UserCreated, u, actor)
	})
	if err != nil {
		if _, ok := apperror.IsUniqueViolation(err); ok {
			return UserResponse{}, usererrors.ErrEmailTaken
		}
		s.logger.Error("create user failed", zap.String("email", req.Email), zap.Error(err))
		return UserResponse{}, err
	}

	s.logger.Info("user created",
		zap.String("user_id", u.ID.String()),
		zap.String("role", u.Role.String()),
		zap.String("actor_id", actor.ID),
	)
	return toResponse(u), nil
}

func (s *service) GetAll(ctx context.Context, actor rbac.Actor, opts ListOptions) ([]UserResponse, int64, error) {
	scope := ListScope{}
	switch {
	case rbac.IsCEO(actor) || rbac.IsHR(actor) || rbac.IsAdmin(actor):
		scope.IncludeDeleted = opts.IncludeDeleted
	case rbac.IsManager(actor):
		if actor.DepartmentID == "" {
			// a manager without a department sees only themselves
			scope.SelfID = actor.ID
		} else {
			scope.DepartmentID = actor.DepartmentID
		}
	default:
		scope.SelfID = actor.ID
	}

	if opts.Role != "" {
		role := domain.ParseRole(opts.Role)
		if !role.Valid() {
			return nil, 0, usererrors.ErrInvalidRole.WithDetails(map[string]string{"role": opts.Role})
		}
		scope.Role = role
	}
	if opts.Page > 0 && opts.PageSize > 0 {
		scope.Limit = opts.PageSize
		scope.Offset = (opts.Page - 1) * opts.PageSize
	}

	users, total, err := s.repo.FindAll(ctx, scope)
	if err != nil {
		s.logger.Error("list users failed", zap.Error(err))
		return nil, 0, err
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toResponse(u))
	}
	return out, total, nil
}

func (s *service) GetByID(ctx context.Context, actor rbac.Actor, id string) (UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	includeDeleted := rbac.IsCEO(actor) || rbac.IsHR(actor) || rbac.IsAdmin(actor)
	u, err := s.repo.FindByID(ctx, id, includeDeleted)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}

	if !s.canSee(actor, u) {
		return UserResponse{}, usererrors.ErrForbiddenScope
	}
	return toResponse(*u), nil
}

func (s *service) Update(ctx context.Context, actor rbac.Actor, id string, req UpdateUserRequest) (UserResponse, error) {
	u, err := s.loadActive(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}

	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.DepartmentID != nil {
		if *req.DepartmentID == "" {
			u.DepartmentID = nil
		} else {
			deptID, err := uuid.Parse(*req.DepartmentID)
			if err != nil {
				return UserResponse{}, usererrors.ErrInvalidDepartmentID
			}
			u.DepartmentID = &deptID
		}
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return UserResponse{}, apperror.InvalidField("date_of_birth")
		}
		u.DateOfBirth = &dob
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(ctx, u); err != nil {
			return err
		}
		return s.enqueueLifecycle(ctx, tx, events.UserUpdated, *u, actor)
	})
	if err != nil {
		s.logger.Error("update user failed", zap.String("user_id", id), zap.Error(err))
		return UserResponse{}, err
	}
	return toResponse(*u), nil
}

func (s *service) Promote(ctx context.Context, actor rbac.Actor, id string) (UserResponse, error) {
	return s.moveOnLadder(ctx, actor, id, true)
}

func (s *service) Demote(ctx context.Context, actor rbac.Actor, id string) (UserResponse, error) {
	return s.moveOnLadder(ctx, actor, id, false)
}

func (s *service) moveOnLadder(ctx context.Context, actor rbac.Actor, id string, up bool) (UserResponse, error) {
	u, err := s.loadActive(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}

	onLadder := false
	for _, step := range domain.PromotionLadder {
		if step == u.Role {
			onLadder = true
			break
		}
	}
	if !onLadder {
		// Admin and any off-ladder role can be neither promoted nor demoted
		return UserResponse{}, usererrors.ErrNotPromotable.WithDetails(map[string]string{"role": u.Role.String()})
	}

	var next domain.Role
	var eventType string
	if up {
		next = domain.NextRole(u.Role)
		eventType = events.UserPromoted
	} else {
		next = domain.PrevRole(u.Role)
		eventType = events.UserDemoted
	}
	if next == domain.RoleUnknown {
		if up {
			return UserResponse{}, usererrors.ErrAlreadyTopRole
		}
		return UserResponse{}, usererrors.ErrAlreadyBottomRole
	}

	from := u.Role
	u.Role = next
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(ctx, u); err != nil {
			return err
		}
		return s.enqueueLifecycle(ctx, tx, eventType, *u, actor)
	})
	if err != nil {
		s.logger.Error("role change failed", zap.String("user_id", id), zap.Error(err))
		return UserResponse{}, err
	}

	s.logger.Info("user role changed",
		zap.String("user_id", u.ID.String()),
		zap.String("from", from.String()),
		zap.String("to", u.Role.String()),
		zap.String("actor_id", actor.ID),
	)
	return toResponse(*u), nil
}

func (s *service) Disable(ctx context.Context, actor rbac.Actor, id string) (UserResponse, error) {
	return s.setActive(ctx, actor, id, false)
}

func (s *service) Enable(ctx context.Context, actor rbac.Actor, id string) (UserResponse, error) {
	return s.setActive(ctx, actor, id, true)
}

func (s *service) setActive(ctx context.Context, actor rbac.Actor, id string, active bool) (UserResponse, error) {
	u, err := s.loadActive(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}

	eventType := events.UserDisabled
	if active {
		eventType = events.UserEnabled
	}
	u.IsActive = active

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(ctx, u); err != nil {
			return err
		}
		return s.enqueueLifecycle(ctx, tx, eventType, *u, actor)
	})
	if err != nil {
		s.logger.Error("set active failed", zap.String("user_id", id), zap.Error(err))
		return UserResponse{}, err
	}

	s.logger.Info("user active flag changed",
		zap.String("user_id", u.ID.String()),
		zap.Bool("is_active", active),
		zap.String("actor_id", actor.ID),
	)
	return toResponse(*u), nil
}

func (s *service) Delete(ctx context.Context, actor rbac.Actor, id string) error {
	u, err := s.loadActive(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).SoftDelete(ctx, id); err != nil {
			return err
		}
		return s.enqueueLifecycle(ctx, tx, events.UserDeleted, *u, actor)
	})
	if err != nil {
		s.logger.Error("delete user failed", zap.String("user_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("user soft-deleted", zap.String("user_id", id), zap.String("actor_id", actor.ID))
	return nil
}

func (s *service) Restore(ctx context.Context, actor rbac.Actor, id string) (UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, id, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}
	if !u.DeletedAt.Valid {
		return UserResponse{}, usererrors.ErrUserNotDeleted
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Restore(ctx, id); err != nil {
			return err
		}
		return s.enqueueLifecycle(ctx, tx, events.UserRestored, *u, actor)
	})
	if err != nil {
		s.logger.Error("restore user failed", zap.String("user_id", id), zap.Error(err))
		return UserResponse{}, err
	}

	u.DeletedAt = gorm.DeletedAt{}
	s.logger.Info("user restored", zap.String("user_id", id), zap.String("actor_id", actor.ID))
	return toResponse(*u), nil
}

func (s *service) loadActive(ctx context.Context, id string) (*User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, usererrors.ErrInvalidUserID
	}
	u, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usererrors.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *service) canSee(actor rbac.Actor, u *User) bool {
	if rbac.IsCEO(actor) || rbac.IsHR(actor) || rbac.IsAdmin(actor) {
		return true
	}
	if rbac.IsSelf(actor, u.ID.String()) {
		return true
	}
	if u.DepartmentID != nil && rbac.IsManagerOfDepartment(actor, u.DepartmentID.String()) {
		return true
	}
	return false
}

func (s *service) enqueueLifecycle(ctx context.Context, tx *gorm.DB, eventType string, u User, actor rbac.Actor) error {
	event := events.UserLifecycleEvent{
		EventType:  eventType,
		UserID:     u.ID.String(),
		Email:      u.Email,
		Role:       u.Role.String(),
		ActorID:    actor.ID,
		OccurredAt: time.Now().UTC(),
	}
	if u.DepartmentID != nil {
		event.DepartmentID = u.DepartmentID.String()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		AggregateType: "user",
		AggregateID:   u.ID.String(),
		EventType:     eventType,
		Topic:         events.UserLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}
