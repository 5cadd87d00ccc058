package systemsetting

import (
	"time"

	"github.com/google/uuid"
)

// Keys the settings API accepts. Anything else is rejected at the service
// layer so a typo cannot create a dead setting row.
const (
	KeyAnnualLeaveRequestMaxDays = "annual_leave_request_max_days"
	KeyAuditLogMode              = "audit_log_mode"
	KeyLateThreshold             = "late_threshold"
	KeyWorkingHoursPerDay        = "working_hours_per_day"
)

var allowedKeys = map[string]struct{}{
	KeyAnnualLeaveRequestMaxDays: {},
	KeyAuditLogMode:              {},
	KeyLateThreshold:             {},
	KeyWorkingHoursPerDay:        {},
}

func KeyAllowed(key string) bool {
	_, ok := allowedKeys[key]
	return ok
}

type SystemSetting struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Key          string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	IntValue     *int      `gorm:"column:int_value"`
	DecimalValue *float64  `gorm:"column:decimal_value;type:numeric(8,2)"`
	TextValue    string    `gorm:"column:text_value;not null;default:''"`
	Description  string    `gorm:"type:text;not null;default:''"`
	UpdatedAt    time.Time
}

func (SystemSetting) TableName() string {
	return "system_settings"
}
