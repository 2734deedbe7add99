package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"resumatch/internal/models"
	"resumatch/internal/repositories"
)

// NoReportSentinel stands in for the project report text when a job was
// submitted without one. The pipeline still runs all three stages.
const NoReportSentinel = "(no project report provided)"

// Worker is the job scheduler: a single polling loop that claims the oldest
// queued job, drives it through the evaluation pipeline and finalizes it.
// At most one job is drained per wake cycle.
type Worker interface {
	Start(ctx context.Context)
	Stop()
	Notify()
}

type worker struct {
	jobRepo      repositories.JobRepository
	docRepo      repositories.DocumentRepository
	extractor    TextExtractor
	evaluator    EvaluatorService
	pollInterval time.Duration
	wake         chan struct{}
	stopChan     chan struct{}
	wg           sync.WaitGroup
}

func NewWorker(
	jobRepo repositories.JobRepository,
	docRepo repositories.DocumentRepository,
	extractor TextExtractor,
	evaluator EvaluatorService,
	pollInterval time.Duration,
) Worker {
	return &worker{
		jobRepo:      jobRepo,
		docRepo:      docRepo,
		extractor:    extractor,
		evaluator:    evaluator,
		pollInterval: pollInterval,
		wake:         make(chan struct{}, 1),
		stopChan:     make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker (poll interval %s)", w.pollInterval)
	w.wg.Add(1)
	go w.run(ctx)
}

// Stop implements Worker.
func (w *worker) Stop() {
	log.Println("🛑 Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Worker stopped")
}

// Notify wakes the loop early so a freshly queued job does not wait for the
// next tick. Non-blocking; a pending wake is enough.
func (w *worker) Notify() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *worker) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		w.ProcessNext(ctx)

		select {
		case <-w.stopChan:
			log.Println("🔄 Worker loop stopped")
			return
		case <-ctx.Done():
			log.Println("🔄 Worker loop cancelled")
			return
		case <-ticker.C:
		case <-w.wake:
		}
	}
}

// ProcessNext claims and fully processes at most one queued job. Errors
// outside the pipeline's guarded boundary mark the job failed; the loop
// itself never terminates on a job error.
func (w *worker) ProcessNext(ctx context.Context) {
	job, err := w.jobRepo.ClaimNextQueued()
	if err != nil {
		log.Printf("⚠️ Failed to claim next job: %v", err)
		return
	}
	if job == nil {
		return
	}

	log.Printf("🧠 Processing job %s (%s)", job.ID, job.JobTitle)

	cvText, err := w.extractCV(job)
	if err != nil {
		w.failJob(job, fmt.Sprintf("failed to extract CV: %v", err))
		return
	}

	projectText, err := w.extractReport(job)
	if err != nil {
		w.failJob(job, fmt.Sprintf("failed to extract project report: %v", err))
		return
	}

	outcome := w.evaluator.Evaluate(ctx, job.JobTitle, cvText, projectText)

	result := &models.Result{
		ID:              uuid.New(),
		CVMatchRate:     outcome.CVMatchRate,
		CVFeedback:      outcome.CVFeedback,
		ProjectScore:    outcome.ProjectScore,
		ProjectFeedback: outcome.ProjectFeedback,
		OverallSummary:  outcome.OverallSummary,
	}

	if !job.Status.CanTransitionTo(models.StatusCompleted) {
		log.Printf("⚠️ Job %s in status %s cannot complete, skipping", job.ID, job.Status)
		return
	}

	if err := w.jobRepo.Complete(job.ID, result); err != nil {
		w.failJob(job, fmt.Sprintf("failed to persist result: %v", err))
		return
	}

	log.Printf("✅ Job %s completed successfully", job.ID)
}

// extractCV resolves and extracts the CV text. The CV is required; any
// failure here fails the job.
func (w *worker) extractCV(job *models.Job) (string, error) {
	doc, err := w.docRepo.FindByID(job.CVDocumentID)
	if err != nil {
		return "", fmt.Errorf("CV document lookup failed: %w", err)
	}
	return w.extractor.Extract(doc.FilePath)
}

// extractReport resolves the optional project report. No document, or a
// document whose file has since disappeared, yields the sentinel text; an
// extraction failure on a file that exists is an infrastructure error.
func (w *worker) extractReport(job *models.Job) (string, error) {
	if job.ProjectDocumentID == nil {
		return NoReportSentinel, nil
	}

	doc, err := w.docRepo.FindByID(*job.ProjectDocumentID)
	if err != nil {
		return "", fmt.Errorf("project document lookup failed: %w", err)
	}

	if _, err := os.Stat(doc.FilePath); os.IsNotExist(err) {
		return NoReportSentinel, nil
	}

	return w.extractor.Extract(doc.FilePath)
}

func (w *worker) failJob(job *models.Job, msg string) {
	log.Printf("❌ Job %s failed: %s", job.ID, msg)

	if !job.Status.CanTransitionTo(models.StatusFailed) {
		log.Printf("⚠️ Job %s in status %s cannot be marked failed", job.ID, job.Status)
		return
	}

	if err := w.jobRepo.Fail(job.ID, msg); err != nil {
		log.Printf("⚠️ Failed to mark job %s failed: %v", job.ID, err)
	}
}
