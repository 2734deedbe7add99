package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"resumatch/internal/models"
	"resumatch/internal/services"
)

type IngestHandler struct {
	rag            services.RAGService
	extractor      services.TextExtractor
	storageService services.StorageService
}

func NewIngestHandler(
	rag services.RAGService,
	extractor services.TextExtractor,
	storageService services.StorageService,
) *IngestHandler {
	return &IngestHandler{
		rag:            rag,
		extractor:      extractor,
		storageService: storageService,
	}
}

// HandleIngest handles POST /admin/ingest?source=...
// Uploads a reference document (job_description, case_study, cv_rubric,
// project_rubric, ...) and replaces the stored chunks for that source.
func (h *IngestHandler) HandleIngest(c *fiber.Ctx) error {
	source := strings.TrimSpace(c.Query("source"))
	if source == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "query parameter 'source' is required, e.g. job_description, case_study, cv_rubric, project_rubric",
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "multipart file 'file' is required",
		})
	}

	if file.Size == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file must not be empty",
		})
	}

	filename, filePath, err := h.storageService.SaveFile(file, "reference")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save file: %v", err),
		})
	}
	defer h.storageService.DeleteFile(filename)

	text, err := h.extractor.Extract(filePath)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to extract text: %v", err),
		})
	}

	if strings.TrimSpace(text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file does not contain any readable text",
		})
	}

	count, err := h.rag.IngestDocument(c.Context(), source, file.Filename, text)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("ingestion failed: %v", err),
		})
	}

	return c.JSON(models.IngestResponse{
		Message:    "Ingestion succeeded",
		Source:     source,
		ChunkCount: count,
	})
}
