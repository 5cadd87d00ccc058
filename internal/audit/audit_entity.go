package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditLog rows are append-only; there is no update or delete path.
type AuditLog struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ActorID    *uuid.UUID      `gorm:"type:uuid;index:idx_audit_logs_actor"`
	Action     string          `gorm:"type:varchar(100);not null;index:idx_audit_logs_action"`
	Summary    string          `gorm:"type:varchar(500);not null;default:''"`
	Method     string          `gorm:"type:varchar(10);not null;default:''"`
	Path       string          `gorm:"type:varchar(500);not null;default:''"`
	StatusCode int             `gorm:"not null;default:0"`
	IPAddress  string          `gorm:"type:varchar(64);not null;default:''"`
	UserAgent  string          `gorm:"type:varchar(500);not null;default:''"`
	Extra      json.RawMessage `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt  time.Time       `gorm:"index:idx_audit_logs_created"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
