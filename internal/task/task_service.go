package task

import (
	"context"
	"errors"
	"time"

	"github.com/fenan-yosef/hrms-backend/internal/rbac"
	taskerrors "github.com/fenan-yosef/hrms-backend/internal/task/errors"
	"github.com/fenan-yosef/hrms-backend/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ListOptions narrows task listings; the service intersects them with
// the actor's visibility.
type ListOptions struct {
	Status     string
	Priority   string
	AssigneeID string
}

//go:generate mockgen -source=task_service.go -destination=mock/task_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor rbac.Actor, req CreateTaskRequest) (TaskResponse, error)
	GetAll(ctx context.Context, actor rbac.Actor, opts ListOptions) ([]TaskResponse, error)
	GetByID(ctx context.Context, actor rbac.Actor, id string) (TaskResponse, error)
	Update(ctx context.Context, actor rbac.Actor, id string, req UpdateTaskRequest) (TaskResponse, error)
	Delete(ctx context.Context, actor rbac.Actor, id string) error

	Assign(ctx context.Context, actor rbac.Actor, id, userID string) (TaskResponse, error)
	Unassign(ctx context.Context, actor rbac.Actor, id, userID string) (TaskResponse, error)
	MarkDone(ctx context.Context, actor rbac.Actor, id string) (TaskResponse, error)
	GetAssignments(ctx context.Context, actor rbac.Actor, id string) ([]AssignmentResponse, error)

	AddComment(ctx context.Context, actor rbac.Actor, id string, req CreateCommentRequest) (CommentResponse, error)
	GetComments(ctx context.Context, actor rbac.Actor, id string) ([]CommentResponse, error)
	DeleteComment(ctx context.Context, actor rbac.Actor, id, commentID string) error

	AddAttachment(ctx context.Context, actor rbac.Actor, id string, req CreateAttachmentRequest) (AttachmentResponse, error)
	GetAttachments(ctx context.Context, actor rbac.Actor, id string) ([]AttachmentResponse, error)
	DeleteAttachment(ctx context.Context, actor rbac.Actor, id, attachmentID string) error
}

type service struct {
	db     *gorm.DB
	repo   Repository
	users  user.Repository
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, users user.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("task.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("task.service")
	}
	return &service{db: db, repo: repo, users: users, logger: l}
}

func (s *service) Create(ctx context.Context, actor rbac.Actor, req CreateTaskRequest) (TaskResponse, error) {
	creatorID := uuid.MustParse(actor.ID)

	t := Task{
		ID:            uuid.New(),
		Title:         req.Title,
		Description:   req.Description,
		CreatorID:     &creatorID,
		Priority:      PriorityMedium,
		Status:        StatusTodo,
		EstimateHours: req.EstimateHours,
	}
	if req.Priority != "" {
		t.Priority = req.Priority
	}
	if req.DepartmentID != "" {
		deptID, err := uuid.Parse(req.DepartmentID)
		if err != nil {
			return TaskResponse{}, taskerrors.ErrInvalidDepartmentID
		}
		t.DepartmentID = &deptID
	}
	if req.DueDate != nil {
		due, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			return TaskResponse{}, taskerrors.ErrInvalidDueDate
		}
		t.DueDate = &due
	}

	assignees, err := s.resolveAssignees(ctx, req.Assignees)
	if err != nil {
		return TaskResponse{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)
		if err := qtx.Create(ctx, &t); err != nil {
			return err
		}
		for _, userID := range assignees {
			if err := qtx.AddAssignee(ctx, TaskAssignee{TaskID: t.ID, UserID: userID}); err != nil {
				return err
			}
			if err := qtx.RecordAssignment(ctx, &TaskAssignment{
				ID:         uuid.New(),
				TaskID:     t.ID,
				AssignedTo: userID,
				AssignedBy: &creatorID,
				Action:     AssignmentAssigned,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("create task failed", zap.String("title", req.Title), zap.Error(err))
		return TaskResponse{}, err
	}

	s.logger.Info("task created",
		zap.String("task_id", t.ID.String()),
		zap.String("creator_id", actor.ID),
		zap.Int("assignees", len(assignees)),
	)
	return toResponse(t, uuidStrings(assignees)), nil
}

func (s *service) resolveAssignees(ctx context.Context, ids []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(ids))
	seen := map[uuid.UUID]struct{}{}
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, taskerrors.ErrInvalidAssigneeID
		}
		if _, dup := seen[id]; dup {
			continue
		}
		if _, err := s.users.FindByID(ctx, id.String(), false); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, taskerrors.ErrInvalidAssigneeID
			}
			return nil, err
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

func (s *service) GetAll(ctx context.Context, actor rbac.Actor, opts ListOptions) ([]TaskResponse, error) {
	filter := ListFilter{
		Status:     opts.Status,
		Priority:   opts.Priority,
		AssigneeID: opts.AssigneeID,
	}
	switch {
	case rbac.IsCEO(actor) || rbac.IsHR(actor) || rbac.IsAdmin(actor):
	case rbac.IsManager(actor) && actor.DepartmentID != "":
		filter.VisibleTo = actor.ID
		filter.DepartmentID = actor.DepartmentID
	default:
		filter.VisibleTo = actor.ID
	}

	tasks, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("list tasks failed", zap.Error(err))
		return nil, err
	}
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toResponse(t, nil))
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, actor rbac.Actor, id string) (TaskResponse, error) {
	t, err := s.loadVisible(ctx, actor, id)
	if err != nil {
		return TaskResponse{}, err
	}
	assignees, err := s.assigneeIDs(ctx, t.ID.String())
	if err != nil {
		return TaskResponse{}, err
	}
	return toResponse(*t, assignees), nil
}

func (s *service) Update(ctx context.Context, actor rbac.Actor, id string, req UpdateTaskRequest) (TaskResponse, error) {
	t, err := s.loadVisible(ctx, actor, id)
	if err != nil {
		return TaskResponse{}, err
	}

	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Priority != nil {
		if !PriorityValid(*req.Priority) {
			return TaskResponse{}, taskerrors.ErrInvalidPriority
		}
		t.Priority = *req.Priority
	}
	if req.Status != nil {
		if !StatusValid(*req.Status) {
			return TaskResponse{}, taskerrors.ErrInvalidStatus
		}
		t.Status = *req.Status
		if *req.Status == StatusDone && t.CompletedAt == nil {
			now := time.Now().UTC()
			t.CompletedAt = &now
		}
	}
	if req.DueDate != nil {
		due, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			return TaskResponse{}, taskerrors.ErrInvalidDueDate
		}
		t.DueDate = &due
	}
	if req.EstimateHours != nil {
		t.EstimateHours = req.EstimateHours
	}

	if err := s.repo.Update(ctx, t); err != nil {
		s.logger.Error("update task failed", zap.String("task_id", id), zap.Error(err))
		return TaskResponse{}, err
	}
	return toResponse(*t, nil), nil
}

func (s *service) Delete(ctx context.Context, actor rbac.Actor, id string) error {
	t, err := s.loadVisible(ctx, actor, id)
	if err != nil {
		return err
	}

	privileged := rbac.IsCEO(actor) || rbac.IsHR(actor) || rbac.IsAdmin(actor)
	isCreator := t.CreatorID != nil && rbac.IsSelf(actor, t.CreatorID.String())
	if !privileged && !isCreator {
		return taskerrors.ErrForbiddenScope
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		s.logger.Error("delete task failed", zap.String("task_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("task deleted", zap.String("task_id", id), zap.String("actor_id", actor.ID))
	return nil
}

func (s *service) Assign(ctx context.Context, actor rbac.Actor, id, userID string) (TaskResponse, error) {
	t, err := s.loadVisible(ctx, actor, id)
	if err != nil {
		return TaskResponse{}, err
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return TaskResponse{}, taskerrors.ErrInvalidAssigneeID
	}
	if _, err := s.users.FindByID(ctx, uid.String(), false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TaskResponse{}, taskerrors.ErrInvalidAssigneeID
		}
		return TaskResponse{}, err
	}

	already, err := s.repo.IsAssignee(ctx, id, userID)
	if err != nil {
		return TaskResponse{}, err
	}
	if already {
		return TaskResponse{}, taskerrors.ErrAlreadyAssigned
	}

	actorID := uuid.MustParse(actor.ID)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)
		if err := qtx.AddAssignee(ctx, TaskAssignee{TaskID: t.ID, UserID: uid}); err != nil {
			return err
		}
		return qtx.RecordAssignment(ctx, &TaskAssignment{
			ID:         uuid.New(),
			TaskID:     t.ID,
			AssignedTo: uid,
			AssignedBy: &actorID,
			Action:     AssignmentAssigned,
		})
	})
	if err != nil {
		s.logger.Error("assign task failed", zap.String("task_id", id), zap.Error(err))
		return TaskResponse{}, err
	}

	s.logger.Info("task assigned",
		zap.String("task_id", id),
		zap.String("assigned_to", userID),
		zap.String("assigned_by", actor.ID),
	)
	assignees, err := s.assigneeIDs(ctx, id)
	if err != nil {
		return TaskResponse{}, err
	}
	return toResponse(*t, assignees), nil
}

func (s *service) Unassign(ctx context.Context, actor rbac.Actor, id, userID string) (TaskResponse, error) {
	t, err := s.loadVisible(ctx, actor, id)
	if err != nil {
		return TaskResponse{}, err
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return TaskResponse{}, taskerrors.ErrInvalidAssigneeID
	}

	actorID := uuid.MustParse(actor.ID)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)
		removed, err := qtx.RemoveAssignee(ctx, id, userID)
		if err != nil {
			return err
		}
		if !removed {
			return taskerrors.ErrNotAssigned
		}
		return qtx.RecordAssignment(ctx, &TaskAssignment{
			ID:         uuid.New(),
			TaskID:     t.ID,
			AssignedTo: uid,
			AssignedBy: &actorID,
			Action:     AssignmentUnassigned,
		})
	})
	if err != nil {
		if errors.Is(err, taskerrors.ErrNotAssigned) {
			return TaskResponse{}, taskerrors.ErrNotAssigned
		}
		s.logger.Error("unassign task failed", zap.String("task_id", id), zap.Error(err))
		return TaskResponse{}, err
	}

	s.logger.Info("task unassigned",
		zap.String("task_id", id),
		zap.String("unassigned", userID),
		zap.String("actor_id", actor.ID),
	)
	assignees, err := s.assigneeIDs(ctx, id)
	if err != nil {
		return TaskResponse{}, err
	}
	return toResponse(*t, assignees), nil
}

func (s *service) MarkDone(ctx context.Context, actor rbac.Actor, id string) (TaskResponse, error) {
	t, err := s.loadVisible(ctx, actor, id)
	if err != nil {
		return TaskResponse{}, err
	}
	if t.Status == StatusDone {
		return TaskResponse{}, taskerrors.ErrTaskDone
	}

	now := time.Now().UTC()
	t.Status = StatusDone
	t.CompletedAt = &now

	if err := s.repo.Update(ctx, t); err != nil {
		s.logger.Error("mark done failed", zap.String("task_id", id), zap.Error(err))
		return TaskResponse{}, err
	}

	s.logger.Info("task marked done", zap.String("task_id", id), zap.String("actor_id", actor.ID))
	return toResponse(*t, nil), nil
}

func (s *service) GetAssignments(ctx context.Context, actor rbac.Actor, id string) ([]AssignmentResponse, error) {
	if _, err := s.loadVisible(ctx, actor, id); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListAssignments(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]AssignmentResponse, 0, len(rows))
	for _, a := range rows {
		out = append(out, toAssignmentResponse(a))
	}
	return out, nil
}

func (s *service) AddComment(ctx context.Context, actor rbac.Actor, id string, req CreateCommentRequest) (CommentResponse, error) {
	t, err := s.loadVisible(ctx, actor, id)
	if err != nil {
		return CommentResponse{}, err
	}

	authorID := uuid.MustParse(actor.ID)
	c := TaskComment{
		ID:       uuid.New(),
		TaskID:   t.ID,
		AuthorID: &authorID,
		Content:  req.Content,
	}
	if err := s.repo.CreateComment(ctx, &c); err != nil {
		s.logger.Error("add comment failed", zap.String("task_id", id), zap.Error(err))
		return CommentResponse{}, err
	}
	return toCommentResponse(c), nil
}

func (s *service) GetComments(ctx context.Context, actor rbac.Actor, id string) ([]CommentResponse, error) {
	if _, err := s.loadVisible(ctx, actor, id); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListComments(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]CommentResponse, 0, len(rows))
	for _, c := range rows {
		out = append(out, toCommentResponse(c))
	}
	return out, nil
}

func (s *service) DeleteComment(ctx context.Context, actor rbac.Actor, id, commentID string) error {
	if _, err := s.loadVisible(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.SoftDeleteComment(ctx, id, commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return taskerrors.ErrCommentNotFound
		}
		return err
	}
	return nil
}

func (s *service) AddAttachment(ctx context.Context, actor rbac.Actor, id string, req CreateAttachmentRequest) (AttachmentResponse, error) {
	t, err := s.loadVisible(ctx, actor, id)
	if err != nil {
		return AttachmentResponse{}, err
	}

	uploaderID := uuid.MustParse(actor.ID)
	a := TaskAttachment{
		ID:          uuid.New(),
		TaskID:      t.ID,
		UploadedBy:  &uploaderID,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
	}
	if err := s.repo.CreateAttachment(ctx, &a); err != nil {
		s.logger.Error("add attachment failed", zap.String("task_id", id), zap.Error(err))
		return AttachmentResponse{}, err
	}
	return toAttachmentResponse(a), nil
}

func (s *service) GetAttachments(ctx context.Context, actor rbac.Actor, id string) ([]AttachmentResponse, error) {
	if _, err := s.loadVisible(ctx, actor, id); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListAttachments(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]AttachmentResponse, 0, len(rows))
	for _, a := range rows {
		out = append(out, toAttachmentResponse(a))
	}
	return out, nil
}

func (s *service) DeleteAttachment(ctx context.Context, actor rbac.Actor, id, attachmentID string) error {
	if _, err := s.loadVisible(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.SoftDeleteAttachment(ctx, id, attachmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return taskerrors.ErrAttachmentNotFound
		}
		return err
	}
	return nil
}

func (s *service) loadVisible(ctx context.Context, actor rbac.Actor, id string) (*Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, taskerrors.ErrInvalidTaskID
	}

	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, taskerrors.ErrTaskNotFound
		}
		return nil, err
	}

	if rbac.IsCEO(actor) || rbac.IsHR(actor) || rbac.IsAdmin(actor) {
		return t, nil
	}
	if t.CreatorID != nil && rbac.IsSelf(actor, t.CreatorID.String()) {
		return t, nil
	}
	if rbac.IsManager(actor) && t.DepartmentID != nil && actor.DepartmentID == t.DepartmentID.String() {
		return t, nil
	}

	assigned, err := s.repo.IsAssignee(ctx, id, actor.ID)
	if err != nil {
		return nil, err
	}
	if assigned {
		return t, nil
	}
	return nil, taskerrors.ErrForbiddenScope
}

func (s *service) assigneeIDs(ctx context.Context, taskID string) ([]string, error) {
	rows, err := s.repo.ListAssignees(ctx, taskID)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, a := range rows {
		out = append(out, a.UserID.String())
	}
	return out, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
