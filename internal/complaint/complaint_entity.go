package complaint

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TypeManagerReport     = "manager_report"
	TypeEmployeeComplaint = "employee_complaint"
)

const (
	StatusOpen      = "open"
	StatusInReview  = "in_review"
	StatusResolved  = "resolved"
	StatusDismissed = "dismissed"
)

var validStatuses = map[string]struct{}{
	StatusOpen:      {},
	StatusInReview:  {},
	StatusResolved:  {},
	StatusDismissed: {},
}

func StatusValid(s string) bool {
	_, ok := validStatuses[s]
	return ok
}

type Complaint struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Type         string     `gorm:"type:varchar(32);not null"`
	Subject      string     `gorm:"type:varchar(255);not null"`
	Description  string     `gorm:"type:text;not null"`
	SendToCEO    bool       `gorm:"column:send_to_ceo;not null;default:false"`
	Status       string     `gorm:"type:varchar(20);not null;default:'open'"`
	CreatedBy    uuid.UUID  `gorm:"type:uuid;not null"`
	TargetUserID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (Complaint) TableName() string {
	return "complaints"
}
