package report

import "time"

type RequestLeaveSummaryRequest struct {
	Year int `json:"year" binding:"required,gte=2000,lte=2100"`
}

type ReportResponse struct {
	ID          string    `json:"id"`
	ReportType  string    `json:"report_type"`
	RequestedBy string    `json:"requested_by"`
	Status      string    `json:"status"`
	FileName    string    `json:"file_name,omitempty"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toResponse(r GeneratedReport) ReportResponse {
	resp := ReportResponse{
		ID:          r.ID.String(),
		ReportType:  r.ReportType,
		RequestedBy: r.RequestedBy.String(),
		Status:      r.Status,
		FileName:    r.FileName,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.ErrorMessage != nil {
		resp.Error = *r.ErrorMessage
	}
	return resp
}
