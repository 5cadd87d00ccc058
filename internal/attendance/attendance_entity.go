package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent = "PRESENT"
	StatusLate    = "LATE"
)

type Attendance struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_per_day"`
	AttendanceDate time.Time  `gorm:"type:date;not null;uniqueIndex:uq_attendance_per_day"`
	CheckIn        time.Time  `gorm:"not null"`
	CheckOut       *time.Time `gorm:""`
	Status         string     `gorm:"type:varchar(20);not null;default:'PRESENT'"`
	Notes          *string    `gorm:"type:text"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Attendance) TableName() string {
	return "attendances"
}

// WorkedHours is zero until check-out.
func (a Attendance) WorkedHours() float64 {
	if a.CheckOut == nil {
		return 0
	}
	return a.CheckOut.Sub(a.CheckIn).Hours()
}
