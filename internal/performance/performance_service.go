package performance

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	performanceerrors "github.com/fenan-yosef/hrms-backend/internal/performance/errors"
	"github.com/fenan-yosef/hrms-backend/internal/rbac"
	"github.com/fenan-yosef/hrms-backend/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ListOptions narrows review listings; the service intersects them with
// the actor's visibility.
type ListOptions struct {
	CycleID string
	Status  string
}

//go:generate mockgen -source=performance_service.go -destination=mock/performance_service_mock.go -package=mock
type Service interface {
	CreateCycle(ctx context.Context, req CreateCycleRequest) (CycleResponse, error)
	GetCycles(ctx context.Context) ([]CycleResponse, error)

	CreateCompetency(ctx context.Context, req CreateCompetencyRequest) (CompetencyResponse, error)
	GetCompetencies(ctx context.Context) ([]CompetencyResponse, error)

	CreateReview(ctx context.Context, actor rbac.Actor, req CreateReviewRequest) (ReviewResponse, error)
	GetReviews(ctx context.Context, actor rbac.Actor, opts ListOptions) ([]ReviewResponse, error)
	GetReviewByID(ctx context.Context, actor rbac.Actor, id string) (ReviewResponse, error)
	UpdateReview(ctx context.Context, actor rbac.Actor, id string, req UpdateReviewRequest) (ReviewResponse, error)
	SetStatus(ctx context.Context, actor rbac.Actor, id, status string) (ReviewResponse, error)
	UpsertScore(ctx context.Context, actor rbac.Actor, id string, req UpsertScoreRequest) (ReviewResponse, error)
	Finalize(ctx context.Context, actor rbac.Actor, id string) (ReviewResponse, error)
	DeleteReview(ctx context.Context, actor rbac.Actor, id string) error
	GetSnapshots(ctx context.Context, actor rbac.Actor, id string) ([]SnapshotResponse, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	users  user.Repository
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, users user.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("performance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("performance.service")
	}
	return &service{db: db, repo: repo, users: users, logger: l}
}

func (s *service) CreateCycle(ctx context.Context, req CreateCycleRequest) (CycleResponse, error) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return CycleResponse{}, performanceerrors.ErrInvalidDateRange
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return CycleResponse{}, performanceerrors.ErrInvalidDateRange
	}
	if end.Before(start) {
		return CycleResponse{}, performanceerrors.ErrInvalidDateRange
	}

	if existing, err := s.repo.FindCycleByName(ctx, req.Name); err == nil {
		return CycleResponse{}, performanceerrors.ErrCycleNameTaken.WithDetails(map[string]string{"id": existing.ID.String()})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return CycleResponse{}, err
	}

	c := ReviewCycle{ID: uuid.New(), Name: req.Name, StartDate: start, EndDate: end}
	if err := s.repo.CreateCycle(ctx, &c); err != nil {
		s.logger.Error("create review cycle failed", zap.String("name", req.Name), zap.Error(err))
		return CycleResponse{}, err
	}
	return toCycleResponse(c), nil
}

func (s *service) GetCycles(ctx context.Context) ([]CycleResponse, error) {
	cycles, err := s.repo.FindCycles(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CycleResponse, 0, len(cycles))
	for _, c := range cycles {
		out = append(out, toCycleResponse(c))
	}
	return out, nil
}

func (s *service) CreateCompetency(ctx context.Context, req CreateCompetencyRequest) (CompetencyResponse, error) {
	if existing, err := s.repo.FindCompetencyByCode(ctx, req.Code); err == nil {
		return CompetencyResponse{}, performanceerrors.ErrCompetencyCodeTaken.WithDetails(map[string]string{"id": existing.ID.String()})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return CompetencyResponse{}, err
	}

	c := Competency{ID: uuid.New(), Code: req.Code, Name: req.Name, Weight: 1}
	if req.Weight != nil {
		c.Weight = *req.Weight
	}
	if err := s.repo.CreateCompetency(ctx, &c); err != nil {
		s.logger.Error("create competency failed", zap.String("code", req.Code), zap.Error(err))
		return CompetencyResponse{}, err
	}
	return toCompetencyResponse(c), nil
}

func (s *service) GetCompetencies(ctx context.Context) ([]CompetencyResponse, error) {
	comps, err := s.repo.FindCompetencies(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CompetencyResponse, 0, len(comps))
	for _, c := range comps {
		out = append(out, toCompetencyResponse(c))
	}
	return out, nil
}

func (s *service) CreateReview(ctx context.Context, actor rbac.Actor, req CreateReviewRequest) (ReviewResponse, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return ReviewResponse{}, performanceerrors.ErrInvalidEmployeeID
	}
	if _, err := s.users.FindByID(ctx, employeeID.String(), false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReviewResponse{}, performanceerrors.ErrInvalidEmployeeID
		}
		return ReviewResponse{}, err
	}

	cycle, err := s.repo.FindCycleByID(ctx, req.CycleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReviewResponse{}, performanceerrors.ErrCycleNotFound
		}
		return ReviewResponse{}, err
	}

	if existing, err := s.repo.FindReviewByEmployeeAndCycle(ctx, employeeID.String(), cycle.ID.String()); err == nil {
		return ReviewResponse{}, performanceerrors.ErrReviewExists.WithDetails(map[string]string{"id": existing.ID.String()})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return ReviewResponse{}, err
	}

	reviewerID := uuid.MustParse(actor.ID)
	if req.ReviewerID != "" {
		reviewerID, err = uuid.Parse(req.ReviewerID)
		if err != nil {
			return ReviewResponse{}, performanceerrors.ErrInvalidEmployeeID
		}
	}

	review := PerformanceReview{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		ReviewerID: &reviewerID,
		CycleID:    cycle.ID,
		Status:     StatusDraft,
		Comments:   req.Comments,
	}
	if err := s.repo.CreateReview(ctx, &review); err != nil {
		s.logger.Error("create review failed", zap.String("employee_id", employeeID.String()), zap.Error(err))
		return ReviewResponse{}, err
	}

	s.logger.Info("performance review created",
		zap.String("review_id", review.ID.String()),
		zap.String("employee_id", employeeID.String()),
		zap.String("cycle_id", cycle.ID.String()),
	)
	return toReviewResponse(review, nil), nil
}

func (s *service) GetReviews(ctx context.Context, actor rbac.Actor, opts ListOptions) ([]ReviewResponse, error) {
	filter := ReviewFilter{CycleID: opts.CycleID, Status: opts.Status}
	switch {
	case rbac.IsCEO(actor) || rbac.IsHR(actor) || rbac.IsAdmin(actor):
	case rbac.IsManager(actor) && actor.DepartmentID != "":
		filter.DepartmentID = actor.DepartmentID
	default:
		filter.EmployeeID = actor.ID
	}

	reviews, err := s.repo.FindReviews(ctx, filter)
	if err != nil {
		s.logger.Error("list reviews failed", zap.Error(err))
		return nil, err
	}
	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, toReviewResponse(r, nil))
	}
	return out, nil
}

func (s *service) GetReviewByID(ctx context.Context, actor rbac.Actor, id string) (ReviewResponse, error) {
	review, err := s.loadVisible(ctx, actor, id)
	if err != nil {
		return ReviewResponse{}, err
	}
	scores, err := s.repo.ListScores(ctx, review.ID.String())
	if err != nil {
		return ReviewResponse{}, err
	}
	return toReviewResponse(*review, scores), nil
}

func (s *service) UpdateReview(ctx context.Context, actor rbac.Actor, id string, req UpdateReviewRequest) (ReviewResponse, error) {
	review, err := s.loadVisible(ctx, actor, id)
	if err != nil {
		return ReviewResponse{}, err
	}
	if IsTerminal(review.Status) {
		return ReviewResponse{}, performanceerrors.ErrReviewFinalized
	}

	if req.ReviewerID != nil {
		rid, err := uuid.Parse(*req.ReviewerID)
		if err != nil {
			return ReviewResponse{}, performanceerrors.ErrInvalidEmployeeID
		}
		review.ReviewerID = &rid
	}
	if req.Comments != nil {
		review.Comments = *req.Comments
	}

	if err := s.repo.UpdateReview(ctx, review); err != nil {
		s.logger.Error("update review failed", zap.String("review_id", id), zap.Error(err))
		return ReviewResponse{}, err
	}
	return toReviewResponse(*review, nil), nil
}

func (s *service) SetStatus(ctx context.Context, actor rbac.Actor, id, status string) (ReviewResponse, error) {
	review, err := s.loadVisible(ctx, actor, id)
	if err != nil {
		return ReviewResponse{}, err
	}
	if !CanTransition(review.Status, status) {
		return ReviewResponse{}, performanceerrors.ErrInvalidTransition.WithDetails(map[string]string{
			"from": review.Status,
			"to":   status,
		})
	}

	review.Status = status
	if err := s.repo.UpdateReview(ctx, review); err != nil {
		s.logger.Error("review status change failed", zap.String("review_id", id), zap.Error(err))
		return ReviewResponse{}, err
	}

	s.logger.Info("review status changed",
		zap.String("review_id", id),
		zap.String("status", status),
		zap.String("actor_id", actor.ID),
	)
	return toReviewResponse(*review, nil), nil
}

func (s *service) UpsertScore(ctx context.Context, actor rbac.Actor, id string, req UpsertScoreRequest) (ReviewResponse, error) {
	review, err := s.loadVisible(ctx, actor, id)
	if err != nil {
		return ReviewResponse{}, err
	}
	if IsTerminal(review.Status) {
		return ReviewResponse{}, performanceerrors.ErrReviewFinalized
	}

	comp, err := s.repo.FindCompetencyByID(ctx, req.CompetencyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReviewResponse{}, performanceerrors.ErrCompetencyNotFound
		}
		return ReviewResponse{}, err
	}

	score := ReviewScore{
		ID:           uuid.New(),
		ReviewID:     review.ID,
		CompetencyID: comp.ID,
		Score:        req.Score,
		Comment:      req.Comment,
	}
	if err := s.repo.UpsertScore(ctx, &score); err != nil {
		s.logger.Error("upsert score failed", zap.String("review_id", id), zap.Error(err))
		return ReviewResponse{}, err
	}

	scores, err := s.repo.ListScores(ctx, review.ID.String())
	if err != nil {
		return ReviewResponse{}, err
	}
	return toReviewResponse(*review, scores), nil
}

// snapshotPayload is the shape frozen into review_snapshots at
// finalization.
type snapshotPayload struct {
	Review      ReviewResponse `json:"review"`
	FinalizedBy string         `json:"finalized_by"`
	FinalizedAt time.Time      `json:"finalized_at"`
}

func (s *service) Finalize(ctx context.Context, actor rbac.Actor, id string) (ReviewResponse, error) {
	review, err := s.loadVisible(ctx, actor, id)
	if err != nil {
		return ReviewResponse{}, err
	}
	if IsTerminal(review.Status) {
		return ReviewResponse{}, performanceerrors.ErrReviewFinalized
	}
	if !CanFinalize(review.Status) {
		return ReviewResponse{}, performanceerrors.ErrInvalidTransition.WithDetails(map[string]string{
			"from": review.Status,
			"to":   StatusFinalized,
		})
	}

	scores, err := s.repo.ListScores(ctx, review.ID.String())
	if err != nil {
		return ReviewResponse{}, err
	}
	if len(scores) == 0 {
		return ReviewResponse{}, performanceerrors.ErrNoScores
	}

	comps, err := s.repo.FindCompetencies(ctx)
	if err != nil {
		return ReviewResponse{}, err
	}
	weights := make(map[uuid.UUID]float64, len(comps))
	for _, c := range comps {
		weights[c.ID] = c.Weight
	}

	overall := WeightedOverall(scores, weights)
	review.OverallScore = &overall
	review.Status = StatusFinalized

	payload, err := json.Marshal(snapshotPayload{
		Review:      toReviewResponse(*review, scores),
		FinalizedBy: actor.ID,
		FinalizedAt: time.Now().UTC(),
	})
	if err != nil {
		return ReviewResponse{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)
		if err := qtx.UpdateReview(ctx, review); err != nil {
			return err
		}
		return qtx.CreateSnapshot(ctx, &ReviewSnapshot{
			ID:       uuid.New(),
			ReviewID: review.ID,
			Payload:  payload,
		})
	})
	if err != nil {
		s.logger.Error("finalize review failed", zap.String("review_id", id), zap.Error(err))
		return ReviewResponse{}, err
	}

	s.logger.Info("review finalized",
		zap.String("review_id", id),
		zap.Float64("overall_score", overall),
		zap.String("actor_id", actor.ID),
	)
	return toReviewResponse(*review, scores), nil
}

func (s *service) DeleteReview(ctx context.Context, actor rbac.Actor, id string) error {
	if _, err := s.loadVisible(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.SoftDeleteReview(ctx, id); err != nil {
		s.logger.Error("delete review failed", zap.String("review_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("review deleted", zap.String("review_id", id), zap.String("actor_id", actor.ID))
	return nil
}

func (s *service) GetSnapshots(ctx context.Context, actor rbac.Actor, id string) ([]SnapshotResponse, error) {
	if _, err := s.loadVisible(ctx, actor, id); err != nil {
		return nil, err
	}
	snaps, err := s.repo.ListSnapshots(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]SnapshotResponse, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, toSnapshotResponse(snap))
	}
	return out, nil
}

func (s *service) loadVisible(ctx context.Context, actor rbac.Actor, id string) (*PerformanceReview, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, performanceerrors.ErrInvalidReviewID
	}

	review, err := s.repo.FindReviewByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, performanceerrors.ErrReviewNotFound
		}
		return nil, err
	}

	if rbac.IsCEO(actor) || rbac.IsHR(actor) || rbac.IsAdmin(actor) {
		return review, nil
	}
	if rbac.IsSelf(actor, review.EmployeeID.String()) {
		return review, nil
	}
	if review.ReviewerID != nil && rbac.IsSelf(actor, review.ReviewerID.String()) {
		return review, nil
	}

	employee, err := s.users.FindByID(ctx, review.EmployeeID.String(), false)
	if err != nil {
		return nil, err
	}
	if employee.DepartmentID != nil && rbac.IsManagerOfDepartment(actor, employee.DepartmentID.String()) {
		return review, nil
	}
	return nil, performanceerrors.ErrForbiddenScope
}
