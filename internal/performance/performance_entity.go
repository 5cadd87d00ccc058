package performance

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusDraft         = "draft"
	StatusSubmitted     = "submitted"
	StatusManagerReview = "manager_review"
	StatusCalibration   = "calibration"
	StatusFinalized     = "finalized"
	StatusArchived      = "archived"
)

// transitions lists the statuses reachable from each state through the
// generic status endpoint. Finalization has its own operation and is
// deliberately absent here.
var transitions = map[string][]string{
	StatusDraft:         {StatusSubmitted},
	StatusSubmitted:     {StatusManagerReview, StatusDraft},
	StatusManagerReview: {StatusCalibration, StatusSubmitted},
	StatusCalibration:   {StatusManagerReview},
	StatusFinalized:     {StatusArchived},
	StatusArchived:      {},
}

// CanTransition reports whether to is reachable from from without
// finalizing.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanFinalize limits finalization to reviews that went through at least
// one review stage.
func CanFinalize(status string) bool {
	return status == StatusManagerReview || status == StatusCalibration
}

// IsTerminal reports whether the review no longer accepts substantive
// mutation.
func IsTerminal(status string) bool {
	return status == StatusFinalized || status == StatusArchived
}

type ReviewCycle struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ReviewCycle) TableName() string {
	return "review_cycles"
}

type Competency struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code      string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name      string    `gorm:"type:varchar(150);not null"`
	Weight    float64   `gorm:"type:numeric(5,2);not null;default:1"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Competency) TableName() string {
	return "competencies"
}

type PerformanceReview struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_review_per_cycle"`
	ReviewerID   *uuid.UUID `gorm:"type:uuid"`
	CycleID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_review_per_cycle"`
	Status       string     `gorm:"type:varchar(20);not null;default:'draft'"`
	OverallScore *float64   `gorm:"type:numeric(5,2)"`
	Comments     string     `gorm:"type:text;not null;default:''"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (PerformanceReview) TableName() string {
	return "performance_reviews"
}

type ReviewScore struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReviewID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_score_per_competency"`
	CompetencyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_score_per_competency"`
	Score        float64   `gorm:"type:numeric(5,2);not null"`
	Comment      string    `gorm:"type:text;not null;default:''"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (ReviewScore) TableName() string {
	return "review_scores"
}

// ReviewSnapshot rows are insert-only; the payload is the review and its
// scores frozen at finalization.
type ReviewSnapshot struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReviewID  uuid.UUID       `gorm:"type:uuid;not null"`
	Payload   json.RawMessage `gorm:"type:jsonb;not null"`
	CreatedAt time.Time
}

func (ReviewSnapshot) TableName() string {
	return "review_snapshots"
}

// WeightedOverall computes the weighted mean of the scores, rounded to
// two decimals. Zero total weight yields zero.
func WeightedOverall(scores []ReviewScore, weights map[uuid.UUID]float64) float64 {
	var sum, totalWeight float64
	for _, s := range scores {
		w, ok := weights[s.CompetencyID]
		if !ok {
			w = 1
		}
		sum += s.Score * w
		totalWeight += w
	}
	if totalWeight == 0 {
		return 0
	}
	return round2(sum / totalWeight)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
