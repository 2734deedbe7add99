package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"resumatch/internal/models"
)

type JobRepository interface {
	Create(job *models.Job) error
	FindByID(id uuid.UUID) (*models.Job, error)
	ClaimNextQueued() (*models.Job, error)
	Complete(jobID uuid.UUID, result *models.Result) error
	Fail(jobID uuid.UUID, errorMsg string) error
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(job *models.Job) error {
	if err := r.db.Create(job).Error; err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

func (r *jobRepository) FindByID(id uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := r.db.Preload("Result").Where("id = ?", id).First(&job).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("job not found")
		}
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	return &job, nil
}

// ClaimNextQueued selects the oldest queued job and moves it to processing.
// The status predicate in the UPDATE makes the claim a compare-and-swap, so
// a second poller racing on the same job loses and moves on. Returns nil
// when the queue is empty.
func (r *jobRepository) ClaimNextQueued() (*models.Job, error) {
	var job models.Job
	err := r.db.
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		First(&job).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find queued job: %w", err)
	}

	claim := r.db.Model(&models.Job{}).
		Where("id = ? AND status = ?", job.ID, models.StatusQueued).
		Updates(map[string]interface{}{
			"status":     models.StatusProcessing,
			"updated_at": time.Now(),
		})
	if claim.Error != nil {
		return nil, fmt.Errorf("failed to claim job: %w", claim.Error)
	}
	if claim.RowsAffected == 0 {
		// Lost the race to another worker.
		return nil, nil
	}

	job.Status = models.StatusProcessing
	return &job, nil
}

// Complete inserts the result and finalizes the job in one transaction.
func (r *jobRepository) Complete(jobID uuid.UUID, result *models.Result) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result.JobID = jobID
		if err := tx.Create(result).Error; err != nil {
			return fmt.Errorf("failed to create result: %w", err)
		}

		update := tx.Model(&models.Job{}).
			Where("id = ? AND status = ?", jobID, models.StatusProcessing).
			Updates(map[string]interface{}{
				"status":     models.StatusCompleted,
				"updated_at": time.Now(),
			})
		if update.Error != nil {
			return fmt.Errorf("failed to complete job: %w", update.Error)
		}
		if update.RowsAffected == 0 {
			return fmt.Errorf("job %s is not processing", jobID)
		}
		return nil
	})
}

func (r *jobRepository) Fail(jobID uuid.UUID, errorMsg string) error {
	update := r.db.Model(&models.Job{}).
		Where("id = ? AND status = ?", jobID, models.StatusProcessing).
		Updates(map[string]interface{}{
			"status":        models.StatusFailed,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		})
	if update.Error != nil {
		return fmt.Errorf("failed to mark job failed: %w", update.Error)
	}
	if update.RowsAffected == 0 {
		return fmt.Errorf("job %s is not processing", jobID)
	}
	return nil
}
