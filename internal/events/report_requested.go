package events

import "time"

const LeaveSummaryReportRequestedTopic = "hr.report.leave_summary.requested.v1"

type LeaveSummaryReportRequestedEvent struct {
	EventType   string    `json:"event_type"`
	ReportID    string    `json:"report_id"`
	Year        int       `json:"year"`
	RequestedBy string    `json:"requested_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
