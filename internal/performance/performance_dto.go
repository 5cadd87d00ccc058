package performance

import (
	"encoding/json"
	"time"
)

type CreateCycleRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" binding:"required,datetime=2006-01-02"`
}

type CycleResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func toCycleResponse(c ReviewCycle) CycleResponse {
	return CycleResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		StartDate: c.StartDate.Format("2006-01-02"),
		EndDate:   c.EndDate.Format("2006-01-02"),
	}
}

type CreateCompetencyRequest struct {
	Code   string   `json:"code" binding:"required,max=50"`
	Name   string   `json:"name" binding:"required,max=150"`
	Weight *float64 `json:"weight" binding:"omitempty,gt=0"`
}

type CompetencyResponse struct {
	ID     string  `json:"id"`
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

func toCompetencyResponse(c Competency) CompetencyResponse {
	return CompetencyResponse{
		ID:     c.ID.String(),
		Code:   c.Code,
		Name:   c.Name,
		Weight: c.Weight,
	}
}

type CreateReviewRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	CycleID    string `json:"cycle_id" binding:"required,uuid"`
	ReviewerID string `json:"reviewer_id" binding:"omitempty,uuid"`
	Comments   string `json:"comments" binding:"max=4000"`
}

type UpdateReviewRequest struct {
	ReviewerID *string `json:"reviewer_id" binding:"omitempty,uuid"`
	Comments   *string `json:"comments" binding:"omitempty,max=4000"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft submitted manager_review calibration archived"`
}

type UpsertScoreRequest struct {
	CompetencyID string  `json:"competency_id" binding:"required,uuid"`
	Score        float64 `json:"score" binding:"gte=0,lte=100"`
	Comment      string  `json:"comment" binding:"max=2000"`
}

type ScoreResponse struct {
	ID           string  `json:"id"`
	CompetencyID string  `json:"competency_id"`
	Score        float64 `json:"score"`
	Comment      string  `json:"comment,omitempty"`
}

func toScoreResponse(s ReviewScore) ScoreResponse {
	return ScoreResponse{
		ID:           s.ID.String(),
		CompetencyID: s.CompetencyID.String(),
		Score:        s.Score,
		Comment:      s.Comment,
	}
}

type ReviewResponse struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employee_id"`
	ReviewerID   string          `json:"reviewer_id,omitempty"`
	CycleID      string          `json:"cycle_id"`
	Status       string          `json:"status"`
	OverallScore *float64        `json:"overall_score,omitempty"`
	Comments     string          `json:"comments,omitempty"`
	Scores       []ScoreResponse `json:"scores,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func toReviewResponse(r PerformanceReview, scores []ReviewScore) ReviewResponse {
	resp := ReviewResponse{
		ID:           r.ID.String(),
		EmployeeID:   r.EmployeeID.String(),
		CycleID:      r.CycleID.String(),
		Status:       r.Status,
		OverallScore: r.OverallScore,
		Comments:     r.Comments,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.ReviewerID != nil {
		resp.ReviewerID = r.ReviewerID.String()
	}
	for _, s := range scores {
		resp.Scores = append(resp.Scores, toScoreResponse(s))
	}
	return resp
}

type SnapshotResponse struct {
	ID        string          `json:"id"`
	ReviewID  string          `json:"review_id"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

func toSnapshotResponse(s ReviewSnapshot) SnapshotResponse {
	return SnapshotResponse{
		ID:        s.ID.String(),
		ReviewID:  s.ReviewID.String(),
		Payload:   s.Payload,
		CreatedAt: s.CreatedAt,
	}
}
