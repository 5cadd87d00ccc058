package task

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusBlocked    = "blocked"
	StatusDone       = "done"
	StatusArchived   = "archived"
)

const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

const (
	AssignmentAssigned   = "assigned"
	AssignmentUnassigned = "unassigned"
)

var validStatuses = map[string]struct{}{
	StatusTodo:       {},
	StatusInProgress: {},
	StatusBlocked:    {},
	StatusDone:       {},
	StatusArchived:   {},
}

var validPriorities = map[string]struct{}{
	PriorityLow:      {},
	PriorityMedium:   {},
	PriorityHigh:     {},
	PriorityCritical: {},
}

func StatusValid(s string) bool {
	_, ok := validStatuses[s]
	return ok
}

func PriorityValid(p string) bool {
	_, ok := validPriorities[p]
	return ok
}

type Task struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title         string     `gorm:"type:varchar(255);not null"`
	Description   string     `gorm:"type:text;not null;default:''"`
	CreatorID     *uuid.UUID `gorm:"type:uuid"`
	DepartmentID  *uuid.UUID `gorm:"type:uuid"`
	Priority      string     `gorm:"type:varchar(10);not null;default:'medium'"`
	Status        string     `gorm:"type:varchar(20);not null;default:'todo'"`
	DueDate       *time.Time `gorm:""`
	EstimateHours *float64   `gorm:"type:numeric(6,2)"`
	CompletedAt   *time.Time `gorm:""`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (Task) TableName() string {
	return "tasks"
}

type TaskAssignee struct {
	TaskID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (TaskAssignee) TableName() string {
	return "task_assignees"
}

// TaskAssignment rows are append-only; unassigning writes a new row
// rather than touching the old one.
type TaskAssignment struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TaskID     uuid.UUID  `gorm:"type:uuid;not null"`
	AssignedTo uuid.UUID  `gorm:"type:uuid;not null"`
	AssignedBy *uuid.UUID `gorm:"type:uuid"`
	Action     string     `gorm:"type:varchar(10);not null;default:'assigned'"`
	CreatedAt  time.Time
}

func (TaskAssignment) TableName() string {
	return "task_assignments"
}

type TaskComment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TaskID    uuid.UUID  `gorm:"type:uuid;not null"`
	AuthorID  *uuid.UUID `gorm:"type:uuid"`
	Content   string     `gorm:"type:text;not null"`
	CreatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (TaskComment) TableName() string {
	return "task_comments"
}

// TaskAttachment stores file metadata only; blob storage is outside
// this service.
type TaskAttachment struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TaskID      uuid.UUID  `gorm:"type:uuid;not null"`
	UploadedBy  *uuid.UUID `gorm:"type:uuid"`
	FileName    string     `gorm:"type:varchar(255);not null"`
	ContentType string     `gorm:"type:varchar(100);not null;default:''"`
	SizeBytes   int64      `gorm:"not null;default:0"`
	CreatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (TaskAttachment) TableName() string {
	return "task_attachments"
}
