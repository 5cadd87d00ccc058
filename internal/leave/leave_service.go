package leave

import (
	"context"
	"errors"
	"time"

	"github.com/fenan-yosef/hrms-backend/internal/domain"
	leaveerrors "github.com/fenan-yosef/hrms-backend/internal/leave/errors"
	"github.com/fenan-yosef/hrms-backend/internal/rbac"
	"github.com/fenan-yosef/hrms-backend/internal/shared/apperror"
	"github.com/fenan-yosef/hrms-backend/internal/systemsetting"
	"github.com/fenan-yosef/hrms-backend/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultAnnualCapDays = 15

// ListOptions narrows listings per the caller's request; the service
// intersects them with what the actor's role may see.
type ListOptions struct {
	Status string
	Year   int
	// Scope "all" includes soft-deleted requests (HR/CEO only).
	Scope string
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor rbac.Actor, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, actor rbac.Actor, opts ListOptions) ([]LeaveResponse, error)
	GetByID(ctx context.Context, actor rbac.Actor, id string) (LeaveResponse, error)
	GetApprovers(ctx context.Context, actor rbac.Actor, id string) ([]ApproverResponse, error)
	Approve(ctx context.Context, actor rbac.Actor, id, comment string) (LeaveResponse, error)
	Deny(ctx context.Context, actor rbac.Actor, id, comment string) (LeaveResponse, error)
	ListApprovals(ctx context.Context, actor rbac.Actor, id string) ([]ApprovalResponse, error)
	Delete(ctx context.Context, actor rbac.Actor, id string) error
	Restore(ctx context.Context, actor rbac.Actor, id string) (LeaveResponse, error)
	GetBalances(ctx context.Context, actor rbac.Actor, userID string, year int) ([]BalanceResponse, error)

	CreateType(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	GetTypes(ctx context.Context) ([]LeaveTypeResponse, error)
	UpdateType(ctx context.Context, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error)
	DeleteType(ctx context.Context, id string) error
}

type service struct {
	db       *gorm.DB
	repo     Repository
	types    TypeRepository
	users    user.Repository
	settings systemsetting.Service
	logger   *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	types TypeRepository,
	users user.Repository,
	settings systemsetting.Service,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, types: types, users: users, settings: settings, logger: l}
}

func (s *service) Create(ctx context.Context, actor rbac.Actor, req CreateLeaveRequest) (LeaveResponse, error) {
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
	}
	if endDate.Before(startDate) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	employeeID, err := uuid.Parse(actor.ID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	onBehalf := false
	if req.EmployeeID != "" && req.EmployeeID != actor.ID {
		if !rbac.IsHR(actor) {
			return LeaveResponse{}, leaveerrors.ErrOnBehalfNotAllowed
		}
		employeeID, err = uuid.Parse(req.EmployeeID)
		if err != nil {
			return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
		}
		onBehalf = true
	}

	if _, err := s.users.FindByID(ctx, employeeID.String(), false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
		}
		return LeaveResponse{}, err
	}

	var leaveTypeID *uuid.UUID
	if req.LeaveTypeID != "" {
		lt, err := s.types.FindTypeByID(ctx, req.LeaveTypeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return LeaveResponse{}, leaveerrors.ErrLeaveTypeNotFound
			}
			return LeaveResponse{}, err
		}
		leaveTypeID = &lt.ID
	}

	requested := InclusiveDays(startDate, endDate)
	if req.DurationDays != nil {
		requested = *req.DurationDays
	}

	if onBehalf {
		// HR requests on behalf of an employee skip the annual cap. The
		// original policy is preserved intentionally; keep it visible in
		// the logs.
		s.logger.Info("annual cap bypassed for HR on-behalf request",
			zap.String("actor_id", actor.ID),
			zap.String("employee_id", employeeID.String()),
			zap.Float64("requested_days", requested),
		)
	} else {
		if err := s.checkAnnualCap(ctx, employeeID.String(), startDate.Year(), requested); err != nil {
			return LeaveResponse{}, err
		}
	}

	requestedBy := uuid.MustParse(actor.ID)
	l := LeaveRequest{
		ID:           uuid.New(),
		EmployeeID:   employeeID,
		LeaveTypeID:  leaveTypeID,
		StartDate:    startDate,
		EndDate:      endDate,
		DurationDays: req.DurationDays,
		Reason:       req.Reason,
		Status:       StatusPending,
		RequestedBy:  &requestedBy,
		AppliedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, &l); err != nil {
		s.logger.Error("create leave request failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("leave request created",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", employeeID.String()),
		zap.Float64("days", requested),
		zap.Bool("on_behalf", onBehalf),
	)
	return toResponse(l), nil
}

// checkAnnualCap is a read-then-write check: two concurrent submissions
// can both pass before either is approved. The window is accepted.
func (s *service) checkAnnualCap(ctx context.Context, employeeID string, year int, requested float64) error {
	capDays := float64(s.settings.GetInt(ctx, systemsetting.KeyAnnualLeaveRequestMaxDays, defaultAnnualCapDays))

	approved, err := s.repo.SumApprovedDays(ctx, employeeID, year)
	if err != nil {
		s.logger.Error("annual cap lookup failed", zap.String("employee_id", employeeID), zap.Error(err))
		return err
	}

	if approved+requested > capDays {
		remaining := capDays - approved
		if remaining < 0 {
			remaining = 0
		}
		return leaveerrors.CapExceeded(capDays, remaining)
	}
	return nil
}

func (s *service) GetAll(ctx context.Context, actor rbac.Actor, opts ListOptions) ([]LeaveResponse, error) {
	filter := ListFilter{
		Status: opts.Status,
		Year:   opts.Year,
	}
	privileged := rbac.IsCEO(actor) || rbac.IsHR(actor) || rbac.IsAdmin(actor)
	switch {
	case privileged:
		filter.IncludeDeleted = opts.Scope == "all"
	case rbac.IsManager(actor) && actor.DepartmentID != "":
		filter.DepartmentID = actor.DepartmentID
	default:
		filter.EmployeeID = actor.ID
	}

	requests, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("list leave requests failed", zap.Error(err))
		return nil, err
	}

	out := make([]LeaveResponse, 0, len(requests))
	for _, l := range requests {
		out = append(out, toResponse(l))
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, actor rbac.Actor, id string) (LeaveResponse, error) {
	l, err := s.loadVisible(ctx, actor, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	return toResponse(*l), nil
}

func (s *service) GetApprovers(ctx context.Context, actor rbac.Actor, id string) ([]ApproverResponse, error) {
	l, err := s.loadVisible(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	requester, err := s.users.FindByID(ctx, l.EmployeeID.String(), false)
	if err != nil {
		return nil, err
	}

	requesterDept := ""
	if requester.DepartmentID != nil {
		requesterDept = requester.DepartmentID.String()
	}

	seen := map[string]struct{}{}
	var approvers []ApproverResponse
	for _, f := range domain.ApproverFilters(requester.Role) {
		scope := user.ListScope{Role: f.Role}
		if f.SameDepartment {
			if requesterDept == "" {
				continue
			}
			scope.DepartmentID = requesterDept
		}
		matches, _, err := s.users.FindAll(ctx, scope)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if _, ok := seen[m.ID.String()]; ok {
				continue
			}
			seen[m.ID.String()] = struct{}{}
			approvers = append(approvers, ApproverResponse{
				ID:        m.ID.String(),
				FirstName: m.FirstName,
				LastName:  m.LastName,
				Role:      m.Role.String(),
			})
		}
	}
	return approvers, nil
}

func (s *service) Approve(ctx context.Context, actor rbac.Actor, id, comment string) (LeaveResponse, error) {
	return s.decide(ctx, actor, id, comment, StatusApproved)
}

func (s *service) Deny(ctx context.Context, actor rbac.Actor, id, comment string) (LeaveResponse, error) {
	return s.decide(ctx, actor, id, comment, StatusDenied)
}

func (s *service) decide(ctx context.Context, actor rbac.Actor, id, comment, newStatus string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	l, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrAlreadyDecided.WithDetails(map[string]string{"status": l.Status})
	}

	requester, err := s.users.FindByID(ctx, l.EmployeeID.String(), false)
	if err != nil {
		return LeaveResponse{}, err
	}
	requesterDept := ""
	if requester.DepartmentID != nil {
		requesterDept = requester.DepartmentID.String()
	}
	if !isRoutedApprover(actor, requester.Role, requesterDept) {
		return LeaveResponse{}, leaveerrors.ErrNotAnApprover
	}

	approverID := uuid.MustParse(actor.ID)
	decision := DecisionApproved
	if newStatus == StatusDenied {
		decision = DecisionDenied
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		l.Status = newStatus
		if err := qtx.Update(ctx, l); err != nil {
			return err
		}

		approval := LeaveApproval{
			ID:             uuid.New(),
			LeaveRequestID: l.ID,
			ApproverID:     &approverID,
			Decision:       decision,
			Comment:        comment,
			DecidedAt:      time.Now().UTC(),
		}
		if err := qtx.CreateApproval(ctx, &approval); err != nil {
			return err
		}

		if newStatus == StatusApproved && l.LeaveTypeID != nil {
			lt, err := s.types.FindTypeByID(ctx, l.LeaveTypeID.String())
			if err != nil {
				return err
			}
			return s.types.AddUsage(ctx, tx, LeaveBalance{
				ID:          uuid.New(),
				UserID:      l.EmployeeID,
				LeaveTypeID: *l.LeaveTypeID,
				Year:        l.StartDate.Year(),
				Allowance:   lt.DefaultAllowanceDays,
				Used:        l.Duration(),
			})
		}
		return nil
	})
	if err != nil {
		s.logger.Error("leave decision failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("leave request decided",
		zap.String("leave_id", id),
		zap.String("decision", decision),
		zap.String("approver_id", actor.ID),
	)
	return toResponse(*l), nil
}

func (s *service) ListApprovals(ctx context.Context, actor rbac.Actor, id string) ([]ApprovalResponse, error) {
	if _, err := s.loadVisible(ctx, actor, id); err != nil {
		return nil, err
	}
	approvals, err := s.repo.ListApprovals(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]ApprovalResponse, 0, len(approvals))
	for _, a := range approvals {
		out = append(out, toApprovalResponse(a))
	}
	return out, nil
}

func (s *service) Delete(ctx context.Context, actor rbac.Actor, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return leaveerrors.ErrInvalidLeaveID
	}
	l, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrLeaveNotFound
		}
		return err
	}

	privileged := rbac.IsCEO(actor) || rbac.IsHR(actor) || rbac.IsAdmin(actor)
	if !privileged && !rbac.IsSelf(actor, l.EmployeeID.String()) {
		return leaveerrors.ErrForbiddenScope
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		s.logger.Error("withdraw leave failed", zap.String("leave_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("leave request withdrawn", zap.String("leave_id", id), zap.String("actor_id", actor.ID))
	return nil
}

func (s *service) Restore(ctx context.Context, actor rbac.Actor, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	l, err := s.repo.FindByID(ctx, id, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if !l.DeletedAt.Valid {
		return LeaveResponse{}, leaveerrors.ErrLeaveNotDeleted
	}

	if err := s.repo.Restore(ctx, id); err != nil {
		s.logger.Error("restore leave failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	l.DeletedAt = gorm.DeletedAt{}
	s.logger.Info("leave request restored", zap.String("leave_id", id), zap.String("actor_id", actor.ID))
	return toResponse(*l), nil
}

func (s *service) GetBalances(ctx context.Context, actor rbac.Actor, userID string, year int) ([]BalanceResponse, error) {
	if userID == "" {
		userID = actor.ID
	}
	if userID != actor.ID {
		privileged := rbac.IsCEO(actor) || rbac.IsHR(actor) || rbac.IsAdmin(actor)
		if !privileged {
			target, err := s.users.FindByID(ctx, userID, false)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, leaveerrors.ErrInvalidEmployeeID
				}
				return nil, err
			}
			targetDept := ""
			if target.DepartmentID != nil {
				targetDept = target.DepartmentID.String()
			}
			if !rbac.IsManagerOfDepartment(actor, targetDept) {
				return nil, leaveerrors.ErrForbiddenScope
			}
		}
	}

	balances, err := s.types.FindBalances(ctx, userID, year)
	if err != nil {
		return nil, err
	}
	out := make([]BalanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, toBalanceResponse(b))
	}
	return out, nil
}

func (s *service) CreateType(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error) {
	if existing, err := s.types.FindTypeByCode(ctx, req.Code); err == nil {
		return LeaveTypeResponse{}, leaveerrors.ErrTypeCodeTaken.WithDetails(map[string]string{"id": existing.ID.String()})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return LeaveTypeResponse{}, err
	}

	lt := LeaveType{
		ID:                   uuid.New(),
		Code:                 req.Code,
		Name:                 req.Name,
		Description:          req.Description,
		DefaultAllowanceDays: req.DefaultAllowanceDays,
		RequiresApproval:     true,
	}
	if req.RequiresApproval != nil {
		lt.RequiresApproval = *req.RequiresApproval
	}

	if err := s.types.CreateType(ctx, &lt); err != nil {
		if _, ok := apperror.IsUniqueViolation(err); ok {
			return LeaveTypeResponse{}, leaveerrors.ErrTypeCodeTaken
		}
		s.logger.Error("create leave type failed", zap.String("code", req.Code), zap.Error(err))
		return LeaveTypeResponse{}, err
	}
	return toTypeResponse(lt), nil
}

func (s *service) GetTypes(ctx context.Context) ([]LeaveTypeResponse, error) {
	types, err := s.types.FindTypes(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]LeaveTypeResponse, 0, len(types))
	for _, t := range types {
		out = append(out, toTypeResponse(t))
	}
	return out, nil
}

func (s *service) UpdateType(ctx context.Context, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error) {
	lt, err := s.types.FindTypeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveTypeResponse{}, leaveerrors.ErrLeaveTypeNotFound
		}
		return LeaveTypeResponse{}, err
	}

	if req.Name != nil {
		lt.Name = *req.Name
	}
	if req.Description != nil {
		lt.Description = *req.Description
	}
	if req.DefaultAllowanceDays != nil {
		lt.DefaultAllowanceDays = *req.DefaultAllowanceDays
	}
	if req.RequiresApproval != nil {
		lt.RequiresApproval = *req.RequiresApproval
	}

	if err := s.types.UpdateType(ctx, lt); err != nil {
		s.logger.Error("update leave type failed", zap.String("leave_type_id", id), zap.Error(err))
		return LeaveTypeResponse{}, err
	}
	return toTypeResponse(*lt), nil
}

func (s *service) DeleteType(ctx context.Context, id string) error {
	if err := s.types.SoftDeleteType(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaveerrors.ErrLeaveTypeNotFound
		}
		return err
	}
	return nil
}

func (s *service) loadVisible(ctx context.Context, actor rbac.Actor, id string) (*LeaveRequest, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, leaveerrors.ErrInvalidLeaveID
	}

	privileged := rbac.IsCEO(actor) || rbac.IsHR(actor) || rbac.IsAdmin(actor)
	l, err := s.repo.FindByID(ctx, id, privileged)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		return nil, err
	}
	if privileged || rbac.IsSelf(actor, l.EmployeeID.String()) {
		return l, nil
	}

	requester, err := s.users.FindByID(ctx, l.EmployeeID.String(), false)
	if err != nil {
		return nil, err
	}
	if requester.DepartmentID != nil && rbac.IsManagerOfDepartment(actor, requester.DepartmentID.String()) {
		return l, nil
	}
	return nil, leaveerrors.ErrForbiddenScope
}

// isRoutedApprover evaluates the routing table for the requester's role
// against the deciding actor.
func isRoutedApprover(actor rbac.Actor, requesterRole domain.Role, requesterDept string) bool {
	for _, f := range domain.ApproverFilters(requesterRole) {
		if actor.Role != f.Role {
			continue
		}
		if f.SameDepartment {
			if requesterDept != "" && actor.DepartmentID == requesterDept {
				return true
			}
			continue
		}
		return true
	}
	return false
}
