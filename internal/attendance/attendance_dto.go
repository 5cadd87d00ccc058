package attendance

import "time"

type CheckInRequest struct {
	Notes *string `json:"notes" binding:"omitempty,max=1000"`
}

type CheckOutRequest struct {
	Notes *string `json:"notes" binding:"omitempty,max=1000"`
}

type AttendanceResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	AttendanceDate string  `json:"attendance_date"`
	CheckIn        string  `json:"check_in"`
	CheckOut       *string `json:"check_out,omitempty"`
	Status         string  `json:"status"`
	Notes          *string `json:"notes,omitempty"`
	WorkedHours    float64 `json:"worked_hours"`
}

func toResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:             a.ID.String(),
		EmployeeID:     a.EmployeeID.String(),
		AttendanceDate: a.AttendanceDate.Format("2006-01-02"),
		CheckIn:        a.CheckIn.Format(time.RFC3339),
		Status:         a.Status,
		Notes:          a.Notes,
		WorkedHours:    a.WorkedHours(),
	}
	if a.CheckOut != nil {
		v := a.CheckOut.Format(time.RFC3339)
		resp.CheckOut = &v
	}
	return resp
}

// SummaryRow aggregates one employee's month.
type SummaryRow struct {
	EmployeeID  string  `json:"employee_id"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	PresentDays int     `json:"present_days"`
	LateDays    int     `json:"late_days"`
	AbsentDays  int     `json:"absent_days"`
	TotalHours  float64 `json:"total_hours"`
}
