package complaint

import "time"

type CreateComplaintRequest struct {
	Type         string `json:"type" binding:"required,oneof=manager_report employee_complaint"`
	Subject      string `json:"subject" binding:"required,max=255"`
	Description  string `json:"description" binding:"required,max=10000"`
	SendToCEO    bool   `json:"send_to_ceo"`
	TargetUserID string `json:"target_user_id" binding:"omitempty,uuid"`
}

type UpdateComplaintRequest struct {
	Subject     *string `json:"subject" binding:"omitempty,max=255"`
	Description *string `json:"description" binding:"omitempty,max=10000"`
	SendToCEO   *bool   `json:"send_to_ceo"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=open in_review resolved dismissed"`
}

type ComplaintResponse struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Subject      string    `json:"subject"`
	Description  string    `json:"description"`
	SendToCEO    bool      `json:"send_to_ceo"`
	Status       string    `json:"status"`
	CreatedBy    string    `json:"created_by"`
	TargetUserID string    `json:"target_user_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toResponse(c Complaint) ComplaintResponse {
	resp := ComplaintResponse{
		ID:          c.ID.String(),
		Type:        c.Type,
		Subject:     c.Subject,
		Description: c.Description,
		SendToCEO:   c.SendToCEO,
		Status:      c.Status,
		CreatedBy:   c.CreatedBy.String(),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.TargetUserID != nil {
		resp.TargetUserID = c.TargetUserID.String()
	}
	return resp
}
