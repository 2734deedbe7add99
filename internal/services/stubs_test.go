package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"resumatch/internal/models"
)

// stubGemini scripts the provider boundary: embeddings come from embedFn,
// completions are played back in order from responses.
type stubGemini struct {
	mu        sync.Mutex
	embedFn   func(text string) ([]float32, error)
	responses []string
	textErr   error
	calls     int
}

func (s *stubGemini) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if s.embedFn != nil {
		return s.embedFn(text)
	}
	return []float32{1, 0, 0}, nil
}

func (s *stubGemini) GenerateText(ctx context.Context, system, user string, temperature float32, maxTokens int32) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.textErr != nil {
		return "", s.textErr
	}
	if s.calls >= len(s.responses) {
		return "", fmt.Errorf("no scripted response for call %d", s.calls+1)
	}
	response := s.responses[s.calls]
	s.calls++
	return response, nil
}

func (s *stubGemini) GenerateTextWithRetry(ctx context.Context, system, user string, temperature float32, maxTokens int32, maxRetries int) (string, error) {
	return s.GenerateText(ctx, system, user, temperature, maxTokens)
}

// stubChunkRepo is an in-memory chunk store with replace semantics.
type stubChunkRepo struct {
	mu      sync.Mutex
	chunks  map[string][]models.DocumentChunk
	refDocs map[string]*models.ReferenceDocument
}

func newStubChunkRepo() *stubChunkRepo {
	return &stubChunkRepo{
		chunks:  make(map[string][]models.DocumentChunk),
		refDocs: make(map[string]*models.ReferenceDocument),
	}
}

func (r *stubChunkRepo) ReplaceSource(source string, chunks []models.DocumentChunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chunks[source] = append([]models.DocumentChunk(nil), chunks...)
	return nil
}

func (r *stubChunkRepo) FindBySources(sources []string) ([]models.DocumentChunk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.DocumentChunk
	for _, source := range sources {
		out = append(out, r.chunks[source]...)
	}
	return out, nil
}

func (r *stubChunkRepo) UpsertReferenceDocument(doc *models.ReferenceDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refDocs[doc.Category] = doc
	return nil
}

// fakeJobRepo mimics the database-backed job repository, including the
// status predicates that guard finalization.
type fakeJobRepo struct {
	mu      sync.Mutex
	jobs    map[uuid.UUID]*models.Job
	results map[uuid.UUID]*models.Result
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{
		jobs:    make(map[uuid.UUID]*models.Job),
		results: make(map[uuid.UUID]*models.Result),
	}
}

func (r *fakeJobRepo) Create(job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = job
	return nil
}

func (r *fakeJobRepo) FindByID(id uuid.UUID) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job not found")
	}
	copied := *job
	if result, ok := r.results[id]; ok {
		copied.Result = result
	}
	return &copied, nil
}

func (r *fakeJobRepo) ClaimNextQueued() (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var queued []*models.Job
	for _, job := range r.jobs {
		if job.Status == models.StatusQueued {
			queued = append(queued, job)
		}
	}
	if len(queued) == 0 {
		return nil, nil
	}
	sort.Slice(queued, func(i, j int) bool {
		return queued[i].CreatedAt.Before(queued[j].CreatedAt)
	})
	job := queued[0]
	job.Status = models.StatusProcessing
	job.UpdatedAt = time.Now()
	copied := *job
	return &copied, nil
}

func (r *fakeJobRepo) Complete(jobID uuid.UUID, result *models.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok || job.Status != models.StatusProcessing {
		return fmt.Errorf("job %s is not processing", jobID)
	}
	result.JobID = jobID
	r.results[jobID] = result
	job.Status = models.StatusCompleted
	job.UpdatedAt = time.Now()
	return nil
}

func (r *fakeJobRepo) Fail(jobID uuid.UUID, errorMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok || job.Status != models.StatusProcessing {
		return fmt.Errorf("job %s is not processing", jobID)
	}
	job.Status = models.StatusFailed
	job.ErrorMessage = &errorMsg
	job.UpdatedAt = time.Now()
	return nil
}

func (r *fakeJobRepo) status(id uuid.UUID) models.JobStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.jobs[id].Status
}

type fakeDocRepo struct {
	mu   sync.Mutex
	docs map[uuid.UUID]*models.Document
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{docs: make(map[uuid.UUID]*models.Document)}
}

func (r *fakeDocRepo) Create(doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = doc
	return nil
}

func (r *fakeDocRepo) FindByID(id uuid.UUID) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, fmt.Errorf("document not found")
	}
	return doc, nil
}
