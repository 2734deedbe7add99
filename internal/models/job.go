package models

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// jobTransitions is the closed transition table for the job state machine.
// Completed and Failed are terminal.
var jobTransitions = map[JobStatus][]JobStatus{
	StatusQueued:     {StatusProcessing},
	StatusProcessing: {StatusCompleted, StatusFailed},
	StatusCompleted:  {},
	StatusFailed:     {},
}

func (s JobStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	for _, allowed := range jobTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Job struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobTitle          string     `gorm:"type:text;not null" json:"job_title"`
	CVDocumentID      uuid.UUID  `gorm:"type:uuid;not null" json:"cv_document_id"`
	ProjectDocumentID *uuid.UUID `gorm:"type:uuid" json:"project_document_id,omitempty"`
	Status            JobStatus  `gorm:"not null;default:'queued'" json:"status"`
	ErrorMessage      *string    `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt         time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	CVDocument      Document `gorm:"foreignKey:CVDocumentID" json:"-"`
	ProjectDocument Document `gorm:"foreignKey:ProjectDocumentID" json:"-"`
	Result          *Result  `gorm:"foreignKey:JobID" json:"-"`
}

func (Job) TableName() string {
	return "jobs"
}
