package analytics

type EmployeeDashboard struct {
	LeaveDaysUsed       float64 `json:"my_leave_days_used"`
	PendingRequests     int64   `json:"my_pending_requests"`
	DaysUntilNextReview *int    `json:"days_until_next_review"`
	TeamSize            int64   `json:"my_team_size"`
}

type ManagerDashboard struct {
	TeamSize             int64   `json:"my_team_size"`
	EmployeesOnLeave     int64   `json:"employees_on_leave"`
	PendingLeaveRequests int64   `json:"pending_leave_requests"`
	NewHiresThisMonth    int64   `json:"new_hires_this_month"`
	TeamAvgScore         float64 `json:"team_avg_performance_score"`
	ReviewsThisMonth     int64   `json:"performance_reviews_this_month"`
}

type Headcount struct {
	TotalActiveUsers int64 `json:"total_active_users"`
	Employees        int64 `json:"employees"`
	Managers         int64 `json:"managers"`
	HR               int64 `json:"hr"`
}

type DepartmentCount struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	EmployeeCount int64  `json:"emp_count"`
}

type Attrition struct {
	Count int64   `json:"count"`
	Rate  float64 `json:"rate"`
}

type LeaveSnapshot struct {
	PendingRequests      int64 `json:"pending_requests"`
	OnApprovedLeaveToday int64 `json:"employees_on_approved_leave_today"`
}

type TopPerformer struct {
	EmployeeID string  `json:"employee_id"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	MaxScore   float64 `json:"max_score"`
}

type PerformanceSnapshot struct {
	AverageScore     float64        `json:"average_score"`
	ReviewsThisMonth int64          `json:"reviews_this_month"`
	TopPerformers    []TopPerformer `json:"top_performers"`
}

type CEODashboard struct {
	Headcount       Headcount           `json:"headcount"`
	Departments     []DepartmentCount   `json:"departments"`
	HiresThisMonth  int64               `json:"hires_this_month"`
	Attrition       Attrition           `json:"attrition_last_30_days"`
	Leave           LeaveSnapshot       `json:"leave"`
	Performance     PerformanceSnapshot `json:"performance"`
	AgeDistribution map[string]int      `json:"age_distribution"`
}
