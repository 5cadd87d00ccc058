package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusDenied   = "DENIED"
)

const (
	DecisionApproved = "APPROVED"
	DecisionDenied   = "DENIED"
)

type LeaveRequest struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID   uuid.UUID  `gorm:"type:uuid;not null"`
	LeaveTypeID  *uuid.UUID `gorm:"type:uuid"`
	StartDate    time.Time  `gorm:"type:date;not null"`
	EndDate      time.Time  `gorm:"type:date;not null"`
	DurationDays *float64   `gorm:"type:numeric(6,2)"`
	Reason       string     `gorm:"type:text;not null;default:''"`
	Status       string     `gorm:"type:varchar(10);not null;default:'PENDING'"`
	RequestedBy  *uuid.UUID `gorm:"type:uuid"`
	AppliedAt    time.Time  `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// Duration returns the stored day count when present, otherwise the
// inclusive span between the request's dates.
func (l LeaveRequest) Duration() float64 {
	if l.DurationDays != nil {
		return *l.DurationDays
	}
	return InclusiveDays(l.StartDate, l.EndDate)
}

// InclusiveDays counts calendar days with both endpoints included.
func InclusiveDays(start, end time.Time) float64 {
	return end.Sub(start).Hours()/24 + 1
}

type LeaveType struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code                 string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name                 string    `gorm:"type:varchar(150);not null"`
	Description          string    `gorm:"type:text;not null;default:''"`
	DefaultAllowanceDays float64   `gorm:"type:numeric(6,2);not null;default:0"`
	RequiresApproval     bool      `gorm:"not null;default:true"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
	DeletedAt            gorm.DeletedAt `gorm:"index"`
}

func (LeaveType) TableName() string {
	return "leave_types"
}

type LeaveBalance struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balance"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balance"`
	Year        int       `gorm:"not null;uniqueIndex:uq_leave_balance"`
	Allowance   float64   `gorm:"type:numeric(8,2);not null;default:0"`
	Used        float64   `gorm:"type:numeric(8,2);not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

// Remaining never reports a negative balance.
func (b LeaveBalance) Remaining() float64 {
	if b.Used >= b.Allowance {
		return 0
	}
	return b.Allowance - b.Used
}

// LeaveApproval rows are append-only; a request decided twice keeps both rows.
type LeaveApproval struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LeaveRequestID uuid.UUID  `gorm:"type:uuid;not null"`
	ApproverID     *uuid.UUID `gorm:"type:uuid"`
	Decision       string     `gorm:"type:varchar(10);not null"`
	Comment        string     `gorm:"type:text;not null;default:''"`
	DecidedAt      time.Time  `gorm:"not null"`
}

func (LeaveApproval) TableName() string {
	return "leave_approvals"
}
