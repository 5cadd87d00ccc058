package events

import "time"

const UserLifecycleTopic = "hr.user.lifecycle.v1"

const (
	UserCreated  = "user_created"
	UserUpdated  = "user_updated"
	UserPromoted = "user_promoted"
	UserDemoted  = "user_demoted"
	UserDisabled = "user_disabled"
	UserEnabled  = "user_enabled"
	UserDeleted  = "user_deleted"
	UserRestored = "user_restored"
)

type UserLifecycleEvent struct {
	EventType    string    `json:"event_type"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	DepartmentID string    `json:"department_id,omitempty"`
	ActorID      string    `json:"actor_id,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
