package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"resumatch/internal/models"
	"resumatch/internal/repositories"
)

type ResultHandler struct {
	jobRepo repositories.JobRepository
}

func NewResultHandler(jobRepo repositories.JobRepository) *ResultHandler {
	return &ResultHandler{
		jobRepo: jobRepo,
	}
}

func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	idParam := c.Params("id")
	jobID, err := uuid.Parse(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job ID format",
		})
	}

	job, err := h.jobRepo.FindByID(jobID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Job not found",
		})
	}

	response := models.ResultResponse{
		ID:       job.ID.String(),
		JobTitle: job.JobTitle,
		Status:   string(job.Status),
	}

	if job.Status == models.StatusCompleted && job.Result != nil {
		response.Result = &models.ResultData{
			CVMatchRate:     job.Result.CVMatchRate,
			CVFeedback:      job.Result.CVFeedback,
			ProjectScore:    job.Result.ProjectScore,
			ProjectFeedback: job.Result.ProjectFeedback,
			OverallSummary:  job.Result.OverallSummary,
		}
	}

	if job.Status == models.StatusFailed {
		response.ErrorMessage = job.ErrorMessage
	}

	return c.JSON(response)
}
