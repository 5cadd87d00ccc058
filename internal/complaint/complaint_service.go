package complaint

import (
	"context"
	"errors"

	complainterrors "github.com/fenan-yosef/hrms-backend/internal/complaint/errors"
	"github.com/fenan-yosef/hrms-backend/internal/rbac"
	"github.com/fenan-yosef/hrms-backend/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ListOptions struct {
	Status string
	Type   string
}

//go:generate mockgen -source=complaint_service.go -destination=mock/complaint_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor rbac.Actor, req CreateComplaintRequest) (ComplaintResponse, error)
	GetAll(ctx context.Context, actor rbac.Actor, opts ListOptions) ([]ComplaintResponse, error)
	GetByID(ctx context.Context, actor rbac.Actor, id string) (ComplaintResponse, error)
	Update(ctx context.Context, actor rbac.Actor, id string, req UpdateComplaintRequest) (ComplaintResponse, error)
	SetStatus(ctx context.Context, actor rbac.Actor, id string, req SetStatusRequest) (ComplaintResponse, error)
	Delete(ctx context.Context, actor rbac.Actor, id string) error
}

type service struct {
	repo   Repository
	users  user.Repository
	logger *zap.Logger
}

func NewService(repo Repository, users user.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("complaint.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("complaint.service")
	}
	return &service{repo: repo, users: users, logger: l}
}

func (s *service) Create(ctx context.Context, actor rbac.Actor, req CreateComplaintRequest) (ComplaintResponse, error) {
	c := Complaint{
		ID:          uuid.New(),
		Type:        req.Type,
		Subject:     req.Subject,
		Description: req.Description,
		SendToCEO:   req.SendToCEO,
		Status:      StatusOpen,
		CreatedBy:   uuid.MustParse(actor.ID),
	}
	if req.TargetUserID != "" {
		targetID, err := uuid.Parse(req.TargetUserID)
		if err != nil {
			return ComplaintResponse{}, complainterrors.ErrInvalidTargetUser
		}
		if _, err := s.users.FindByID(ctx, targetID.String(), false); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ComplaintResponse{}, complainterrors.ErrInvalidTargetUser
			}
			return ComplaintResponse{}, err
		}
		c.TargetUserID = &targetID
	}

	if err := s.repo.Create(ctx, &c); err != nil {
		s.logger.Error("create complaint failed", zap.Error(err))
		return ComplaintResponse{}, err
	}

	s.logger.Info("complaint created",
		zap.String("complaint_id", c.ID.String()),
		zap.String("type", c.Type),
		zap.Bool("send_to_ceo", c.SendToCEO),
	)
	return toResponse(c), nil
}

func (s *service) GetAll(ctx context.Context, actor rbac.Actor, opts ListOptions) ([]ComplaintResponse, error) {
	filter := ListFilter{Status: opts.Status, Type: opts.Type}
	switch {
	case rbac.IsCEO(actor) || rbac.IsAdmin(actor):
	case rbac.IsHR(actor):
		filter.ExcludeCEOFlagged = true
	default:
		filter.CreatedBy = actor.ID
	}

	rows, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("list complaints failed", zap.Error(err))
		return nil, err
	}

	out := make([]ComplaintResponse, 0, len(rows))
	for _, c := range rows {
		out = append(out, toResponse(c))
	}

	// HR still sees their own escalated complaints.
	if rbac.IsHR(actor) {
		own, err := s.repo.FindAll(ctx, ListFilter{CreatedBy: actor.ID, Status: opts.Status, Type: opts.Type})
		if err != nil {
			return nil, err
		}
		seen := map[string]struct{}{}
		for _, c := range out {
			seen[c.ID] = struct{}{}
		}
		for _, c := range own {
			if _, dup := seen[c.ID.String()]; !dup {
				out = append(out, toResponse(c))
			}
		}
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, actor rbac.Actor, id string) (ComplaintResponse, error) {
	c, err := s.loadVisible(ctx, actor, id)
	if err != nil {
		return ComplaintResponse{}, err
	}
	return toResponse(*c), nil
}

func (s *service) Update(ctx context.Context, actor rbac.Actor, id string, req UpdateComplaintRequest) (ComplaintResponse, error) {
	c, err := s.loadVisible(ctx, actor, id)
	if err != nil {
		return ComplaintResponse{}, err
	}

	// Only the author edits the complaint body; status changes go
	// through SetStatus.
	if !rbac.IsSelf(actor, c.CreatedBy.String()) {
		return ComplaintResponse{}, complainterrors.ErrForbiddenScope
	}

	if req.Subject != nil {
		c.Subject = *req.Subject
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.SendToCEO != nil {
		c.SendToCEO = *req.SendToCEO
	}

	if err := s.repo.Update(ctx, c); err != nil {
		s.logger.Error("update complaint failed", zap.String("complaint_id", id), zap.Error(err))
		return ComplaintResponse{}, err
	}
	return toResponse(*c), nil
}

func (s *service) SetStatus(ctx context.Context, actor rbac.Actor, id string, req SetStatusRequest) (ComplaintResponse, error) {
	if !StatusValid(req.Status) {
		return ComplaintResponse{}, complainterrors.ErrInvalidStatus
	}

	c, err := s.load(ctx, id)
	if err != nil {
		return ComplaintResponse{}, err
	}
	if c.SendToCEO && !rbac.IsCEO(actor) {
		return ComplaintResponse{}, complainterrors.ErrCEOOnly
	}

	c.Status = req.Status
	if err := s.repo.Update(ctx, c); err != nil {
		s.logger.Error("set complaint status failed", zap.String("complaint_id", id), zap.Error(err))
		return ComplaintResponse{}, err
	}

	s.logger.Info("complaint status changed",
		zap.String("complaint_id", id),
		zap.String("status", req.Status),
		zap.String("actor_id", actor.ID),
	)
	return toResponse(*c), nil
}

func (s *service) Delete(ctx context.Context, actor rbac.Actor, id string) error {
	c, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if c.SendToCEO && !rbac.IsCEO(actor) {
		return complainterrors.ErrCEOOnly
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		s.logger.Error("delete complaint failed", zap.String("complaint_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("complaint deleted", zap.String("complaint_id", id), zap.String("actor_id", actor.ID))
	return nil
}

func (s *service) load(ctx context.Context, id string) (*Complaint, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, complainterrors.ErrInvalidComplaintID
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, complainterrors.ErrComplaintNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *service) loadVisible(ctx context.Context, actor rbac.Actor, id string) (*Complaint, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case rbac.IsCEO(actor) || rbac.IsAdmin(actor):
		return c, nil
	case rbac.IsSelf(actor, c.CreatedBy.String()):
		return c, nil
	case rbac.IsHR(actor) && !c.SendToCEO:
		return c, nil
	}
	return nil, complainterrors.ErrForbiddenScope
}
