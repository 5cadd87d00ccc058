package task

import "time"

type CreateTaskRequest struct {
	Title         string   `json:"title" binding:"required,max=255"`
	Description   string   `json:"description" binding:"max=10000"`
	DepartmentID  string   `json:"department_id" binding:"omitempty,uuid"`
	Priority      string   `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	DueDate       *string  `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	EstimateHours *float64 `json:"estimate_hours" binding:"omitempty,gt=0"`
	Assignees     []string `json:"assignees" binding:"omitempty,dive,uuid"`
}

type UpdateTaskRequest struct {
	Title         *string  `json:"title" binding:"omitempty,max=255"`
	Description   *string  `json:"description" binding:"omitempty,max=10000"`
	Priority      *string  `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	Status        *string  `json:"status" binding:"omitempty,oneof=todo in_progress blocked done archived"`
	DueDate       *string  `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	EstimateHours *float64 `json:"estimate_hours" binding:"omitempty,gt=0"`
}

type AssignRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,max=10000"`
}

type CreateAttachmentRequest struct {
	FileName    string `json:"file_name" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"max=100"`
	SizeBytes   int64  `json:"size_bytes" binding:"gte=0"`
}

type TaskResponse struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	CreatorID     string     `json:"creator_id,omitempty"`
	DepartmentID  string     `json:"department_id,omitempty"`
	Priority      string     `json:"priority"`
	Status        string     `json:"status"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	EstimateHours *float64   `json:"estimate_hours,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	Assignees     []string   `json:"assignees,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func toResponse(t Task, assignees []string) TaskResponse {
	resp := TaskResponse{
		ID:            t.ID.String(),
		Title:         t.Title,
		Description:   t.Description,
		Priority:      t.Priority,
		Status:        t.Status,
		DueDate:       t.DueDate,
		EstimateHours: t.EstimateHours,
		CompletedAt:   t.CompletedAt,
		Assignees:     assignees,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
	if t.CreatorID != nil {
		resp.CreatorID = t.CreatorID.String()
	}
	if t.DepartmentID != nil {
		resp.DepartmentID = t.DepartmentID.String()
	}
	return resp
}

type AssignmentResponse struct {
	ID         string    `json:"id"`
	AssignedTo string    `json:"assigned_to"`
	AssignedBy string    `json:"assigned_by,omitempty"`
	Action     string    `json:"action"`
	CreatedAt  time.Time `json:"created_at"`
}

func toAssignmentResponse(a TaskAssignment) AssignmentResponse {
	resp := AssignmentResponse{
		ID:         a.ID.String(),
		AssignedTo: a.AssignedTo.String(),
		Action:     a.Action,
		CreatedAt:  a.CreatedAt,
	}
	if a.AssignedBy != nil {
		resp.AssignedBy = a.AssignedBy.String()
	}
	return resp
}

type CommentResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func toCommentResponse(c TaskComment) CommentResponse {
	resp := CommentResponse{
		ID:        c.ID.String(),
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
	if c.AuthorID != nil {
		resp.AuthorID = c.AuthorID.String()
	}
	return resp
}

type AttachmentResponse struct {
	ID          string    `json:"id"`
	UploadedBy  string    `json:"uploaded_by,omitempty"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type,omitempty"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

func toAttachmentResponse(a TaskAttachment) AttachmentResponse {
	resp := AttachmentResponse{
		ID:          a.ID.String(),
		FileName:    a.FileName,
		ContentType: a.ContentType,
		SizeBytes:   a.SizeBytes,
		CreatedAt:   a.CreatedAt,
	}
	if a.UploadedBy != nil {
		resp.UploadedBy = a.UploadedBy.String()
	}
	return resp
}
