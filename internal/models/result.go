package models

import (
	"time"

	"github.com/google/uuid"
)

// Result holds the outcome of one evaluation. A job owns at most one result;
// results are never edited after creation.
type Result struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"job_id"`
	CVMatchRate     float64   `gorm:"type:decimal(3,2)" json:"cv_match_rate"`
	CVFeedback      string    `gorm:"type:text" json:"cv_feedback"`
	ProjectScore    float64   `gorm:"type:decimal(3,2)" json:"project_score"`
	ProjectFeedback string    `gorm:"type:text" json:"project_feedback"`
	OverallSummary  string    `gorm:"type:text" json:"overall_summary"`
	CreatedAt       time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Result) TableName() string {
	return "results"
}
