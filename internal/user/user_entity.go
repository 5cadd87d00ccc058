package user

import (
	"time"

	"github.com/fenan-yosef/hrms-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string      `gorm:"type:varchar(255);not null"`
	Password     string      `gorm:"type:varchar(255);not null"`
	FirstName    string      `gorm:"type:varchar(50);not null"`
	LastName     string      `gorm:"type:varchar(50);not null"`
	Role         domain.Role `gorm:"type:varchar(20);not null;default:'Employee'"`
	DepartmentID *uuid.UUID  `gorm:"type:uuid"`
	DateOfBirth  *time.Time  `gorm:"type:date"`
	DateJoined   time.Time   `gorm:"not null"`
	IsActive     bool        `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
