package report

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending = "pending"
	StatusReady   = "ready"
	StatusFailed  = "failed"
)

const TypeLeaveSummary = "leave_summary"

type GeneratedReport struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	ReportType   string    `gorm:"type:varchar(50);not null"`
	RequestedBy  uuid.UUID `gorm:"type:uuid;not null"`
	Status       string    `gorm:"type:varchar(10);not null;default:'pending'"`
	FileName     string    `gorm:"type:varchar(255);not null;default:''"`
	Content      []byte    `gorm:"type:bytea"`
	ErrorMessage *string   `gorm:"type:varchar(500)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (GeneratedReport) TableName() string {
	return "generated_reports"
}
