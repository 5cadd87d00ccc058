package department

import "time"

type CreateDepartmentRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	Code      string `json:"code" binding:"required,max=50"`
	ManagerID string `json:"manager_id" binding:"omitempty,uuid"`
}

type UpdateDepartmentRequest struct {
	Name      *string `json:"name" binding:"omitempty,max=100"`
	Code      *string `json:"code" binding:"omitempty,max=50"`
	ManagerID *string `json:"manager_id" binding:"omitempty"`
}

type DepartmentResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Code      string     `json:"code"`
	ManagerID string     `json:"manager_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

func toResponse(d Department) DepartmentResponse {
	resp := DepartmentResponse{
		ID:        d.ID.String(),
		Name:      d.Name,
		Code:      d.Code,
		CreatedAt: d.CreatedAt,
	}
	if d.ManagerID != nil {
		resp.ManagerID = d.ManagerID.String()
	}
	if d.DeletedAt.Valid {
		t := d.DeletedAt.Time
		resp.DeletedAt = &t
	}
	return resp
}
