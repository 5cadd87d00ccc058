package leave

import "time"

type CreateLeaveRequest struct {
	// EmployeeID may only be set by HR when requesting on behalf of
	// another employee; everyone else requests for themselves.
	EmployeeID   string   `json:"employee_id" binding:"omitempty,uuid"`
	LeaveTypeID  string   `json:"leave_type_id" binding:"omitempty,uuid"`
	StartDate    string   `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate      string   `json:"end_date" binding:"required,datetime=2006-01-02"`
	DurationDays *float64 `json:"duration_days" binding:"omitempty,gt=0"`
	Reason       string   `json:"reason" binding:"max=2000"`
}

type DecideLeaveRequest struct {
	Comment string `json:"comment" binding:"max=2000"`
}

type LeaveResponse struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employee_id"`
	LeaveTypeID  string     `json:"leave_type_id,omitempty"`
	StartDate    string     `json:"start_date"`
	EndDate      string     `json:"end_date"`
	DurationDays float64    `json:"duration_days"`
	Reason       string     `json:"reason"`
	Status       string     `json:"status"`
	RequestedBy  string     `json:"requested_by,omitempty"`
	AppliedAt    time.Time  `json:"applied_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

func toResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:           l.ID.String(),
		EmployeeID:   l.EmployeeID.String(),
		StartDate:    l.StartDate.Format("2006-01-02"),
		EndDate:      l.EndDate.Format("2006-01-02"),
		DurationDays: l.Duration(),
		Reason:       l.Reason,
		Status:       l.Status,
		AppliedAt:    l.AppliedAt,
	}
	if l.LeaveTypeID != nil {
		resp.LeaveTypeID = l.LeaveTypeID.String()
	}
	if l.RequestedBy != nil {
		resp.RequestedBy = l.RequestedBy.String()
	}
	if l.DeletedAt.Valid {
		t := l.DeletedAt.Time
		resp.DeletedAt = &t
	}
	return resp
}

type ApprovalResponse struct {
	ID         string    `json:"id"`
	ApproverID string    `json:"approver_id,omitempty"`
	Decision   string    `json:"decision"`
	Comment    string    `json:"comment,omitempty"`
	DecidedAt  time.Time `json:"decided_at"`
}

func toApprovalResponse(a LeaveApproval) ApprovalResponse {
	resp := ApprovalResponse{
		ID:        a.ID.String(),
		Decision:  a.Decision,
		Comment:   a.Comment,
		DecidedAt: a.DecidedAt,
	}
	if a.ApproverID != nil {
		resp.ApproverID = a.ApproverID.String()
	}
	return resp
}

type ApproverResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

type CreateLeaveTypeRequest struct {
	Code                 string  `json:"code" binding:"required,max=50"`
	Name                 string  `json:"name" binding:"required,max=150"`
	Description          string  `json:"description" binding:"max=2000"`
	DefaultAllowanceDays float64 `json:"default_allowance_days" binding:"gte=0"`
	RequiresApproval     *bool   `json:"requires_approval"`
}

type UpdateLeaveTypeRequest struct {
	Name                 *string  `json:"name" binding:"omitempty,max=150"`
	Description          *string  `json:"description" binding:"omitempty,max=2000"`
	DefaultAllowanceDays *float64 `json:"default_allowance_days" binding:"omitempty,gte=0"`
	RequiresApproval     *bool    `json:"requires_approval"`
}

type LeaveTypeResponse struct {
	ID                   string  `json:"id"`
	Code                 string  `json:"code"`
	Name                 string  `json:"name"`
	Description          string  `json:"description,omitempty"`
	DefaultAllowanceDays float64 `json:"default_allowance_days"`
	RequiresApproval     bool    `json:"requires_approval"`
}

func toTypeResponse(t LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:                   t.ID.String(),
		Code:                 t.Code,
		Name:                 t.Name,
		Description:          t.Description,
		DefaultAllowanceDays: t.DefaultAllowanceDays,
		RequiresApproval:     t.RequiresApproval,
	}
}

type BalanceResponse struct {
	LeaveTypeID string  `json:"leave_type_id"`
	Year        int     `json:"year"`
	Allowance   float64 `json:"allowance"`
	Used        float64 `json:"used"`
	Remaining   float64 `json:"remaining"`
}

func toBalanceResponse(b LeaveBalance) BalanceResponse {
	return BalanceResponse{
		LeaveTypeID: b.LeaveTypeID.String(),
		Year:        b.Year,
		Allowance:   b.Allowance,
		Used:        b.Used,
		Remaining:   b.Remaining(),
	}
}
