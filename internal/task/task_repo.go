package task

import (
	"context"

	"gorm.io/gorm"
)

// ListFilter narrows task listings. VisibleTo limits rows to tasks the
// user created or is assigned to; DepartmentID widens that to the whole
// department when combined via VisibleTo.
type ListFilter struct {
	VisibleTo    string
	DepartmentID string
	Status       string
	Priority     string
	AssigneeID   string
}

//go:generate mockgen -source=task_repo.go -destination=mock/task_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, t *Task) error
	FindByID(ctx context.Context, id string) (*Task, error)
	FindAll(ctx context.Context, filter ListFilter) ([]Task, error)
	Update(ctx context.Context, t *Task) error
	SoftDelete(ctx context.Context, id string) error

	AddAssignee(ctx context.Context, a TaskAssignee) error
	RemoveAssignee(ctx context.Context, taskID, userID string) (bool, error)
	ListAssignees(ctx context.Context, taskID string) ([]TaskAssignee, error)
	IsAssignee(ctx context.Context, taskID, userID string) (bool, error)

	RecordAssignment(ctx context.Context, a *TaskAssignment) error
	ListAssignments(ctx context.Context, taskID string) ([]TaskAssignment, error)

	CreateComment(ctx context.Context, c *TaskComment) error
	ListComments(ctx context.Context, taskID string) ([]TaskComment, error)
	SoftDeleteComment(ctx context.Context, taskID, commentID string) error

	CreateAttachment(ctx context.Context, a *TaskAttachment) error
	ListAttachments(ctx context.Context, taskID string) ([]TaskAttachment, error)
	SoftDeleteAttachment(ctx context.Context, taskID, attachmentID string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, t *Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Task, error) {
	var t Task
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Task, error) {
	q := r.db.WithContext(ctx).Model(&Task{})

	if filter.VisibleTo != "" {
		assigned := r.db.Model(&TaskAssignee{}).
			Select("task_id").
			Where("user_id = ?", filter.VisibleTo)
		if filter.DepartmentID != "" {
			q = q.Where("tasks.department_id = ? OR tasks.creator_id = ? OR tasks.id IN (?)",
				filter.DepartmentID, filter.VisibleTo, assigned)
		} else {
			q = q.Where("tasks.creator_id = ? OR tasks.id IN (?)", filter.VisibleTo, assigned)
		}
	}
	if filter.Status != "" {
		q = q.Where("tasks.status = ?", filter.Status)
	}
	if filter.Priority != "" {
		q = q.Where("tasks.priority = ?", filter.Priority)
	}
	if filter.AssigneeID != "" {
		q = q.Where("tasks.id IN (?)", r.db.Model(&TaskAssignee{}).
			Select("task_id").
			Where("user_id = ?", filter.AssigneeID))
	}

	var tasks []Task
	err := q.Order("tasks.created_at DESC").Find(&tasks).Error
	return tasks, err
}

func (r *repository) Update(ctx context.Context, t *Task) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&Task{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) AddAssignee(ctx context.Context, a TaskAssignee) error {
	return r.db.WithContext(ctx).Create(&a).Error
}

func (r *repository) RemoveAssignee(ctx context.Context, taskID, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("task_id = ? AND user_id = ?", taskID, userID).
		Delete(&TaskAssignee{})
	return res.RowsAffected > 0, res.Error
}

func (r *repository) ListAssignees(ctx context.Context, taskID string) ([]TaskAssignee, error) {
	var rows []TaskAssignee
	err := r.db.WithContext(ctx).Where("task_id = ?", taskID).Find(&rows).Error
	return rows, err
}

func (r *repository) IsAssignee(ctx context.Context, taskID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&TaskAssignee{}).
		Where("task_id = ? AND user_id = ?", taskID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) RecordAssignment(ctx context.Context, a *TaskAssignment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) ListAssignments(ctx context.Context, taskID string) ([]TaskAssignment, error) {
	var rows []TaskAssignment
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) CreateComment(ctx context.Context, c *TaskComment) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) ListComments(ctx context.Context, taskID string) ([]TaskComment, error) {
	var rows []TaskComment
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) SoftDeleteComment(ctx context.Context, taskID, commentID string) error {
	res := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Delete(&TaskComment{}, "id = ?", commentID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CreateAttachment(ctx context.Context, a *TaskAttachment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) ListAttachments(ctx context.Context, taskID string) ([]TaskAttachment, error) {
	var rows []TaskAttachment
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) SoftDeleteAttachment(ctx context.Context, taskID, attachmentID string) error {
	res := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Delete(&TaskAttachment{}, "id = ?", attachmentID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
