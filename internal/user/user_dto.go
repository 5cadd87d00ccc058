package user

import "time"

type CreateUserRequest struct {
	Email        string `json:"email" binding:"required,email,max=255"`
	Password     string `json:"password" binding:"required,min=8,max=72"`
	FirstName    string `json:"first_name" binding:"required,max=50"`
	LastName     string `json:"last_name" binding:"required,max=50"`
	Role         string `json:"role" binding:"omitempty"`
	DepartmentID string `json:"department_id" binding:"omitempty,uuid"`
	DateOfBirth  string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
}

type UpdateUserRequest struct {
	FirstName    *string `json:"first_name" binding:"omitempty,max=50"`
	LastName     *string `json:"last_name" binding:"omitempty,max=50"`
	DepartmentID *string `json:"department_id" binding:"omitempty,uuid"`
	DateOfBirth  *string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
}

type UserResponse struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Role         string     `json:"role"`
	DepartmentID string     `json:"department_id,omitempty"`
	DateOfBirth  string     `json:"date_of_birth,omitempty"`
	DateJoined   time.Time  `json:"date_joined"`
	IsActive     bool       `json:"is_active"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

func toResponse(u User) UserResponse {
	resp := UserResponse{
		ID:         u.ID.String(),
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       u.Role.String(),
		DateJoined: u.DateJoined,
		IsActive:   u.IsActive,
	}
	if u.DepartmentID != nil {
		resp.DepartmentID = u.DepartmentID.String()
	}
	if u.DateOfBirth != nil {
		resp.DateOfBirth = u.DateOfBirth.Format("2006-01-02")
	}
	if u.DeletedAt.Valid {
		t := u.DeletedAt.Time
		resp.DeletedAt = &t
	}
	return resp
}
