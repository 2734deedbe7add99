package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"resumatch/internal/models"
	"resumatch/internal/repositories"
	"resumatch/internal/services"
)

type EvaluateHandler struct {
	jobRepo repositories.JobRepository
	docRepo repositories.DocumentRepository
	worker  services.Worker
}

func NewEvaluateHandler(
	jobRepo repositories.JobRepository,
	docRepo repositories.DocumentRepository,
	worker services.Worker,
) *EvaluateHandler {
	return &EvaluateHandler{
		jobRepo: jobRepo,
		docRepo: docRepo,
		worker:  worker,
	}
}

// HandleEvaluate handles POST /evaluate. Creates a queued job and wakes the
// worker; the caller polls the result endpoint with the returned ID.
func (h *EvaluateHandler) HandleEvaluate(c *fiber.Ctx) error {
	var req models.EvaluateRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.JobTitle == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_title is required",
		})
	}

	if req.CVDocumentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "cv_document_id is required",
		})
	}

	cvDocID, err := uuid.Parse(req.CVDocumentID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cv_document_id format",
		})
	}

	if _, err := h.docRepo.FindByID(cvDocID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "CV document not found",
		})
	}

	// Project report is optional
	var projectDocID *uuid.UUID
	if req.ProjectDocumentID != "" {
		parsed, err := uuid.Parse(req.ProjectDocumentID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid project_document_id format",
			})
		}
		if _, err := h.docRepo.FindByID(parsed); err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Project document not found",
			})
		}
		projectDocID = &parsed
	}

	job := &models.Job{
		ID:                uuid.New(),
		JobTitle:          req.JobTitle,
		CVDocumentID:      cvDocID,
		ProjectDocumentID: projectDocID,
		Status:            models.StatusQueued,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}

	if err := h.jobRepo.Create(job); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create evaluation job",
		})
	}

	h.worker.Notify()

	return c.Status(fiber.StatusAccepted).JSON(models.EvaluateResponse{
		ID:     job.ID.String(),
		Status: string(models.StatusQueued),
	})
}
