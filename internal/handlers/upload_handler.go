package handlers

import (
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Mishraaa-Anant/Automated-HR/internal/models"
	"github.com/Mishraaa-Anant/Automated-HR/internal/services"
)

type UploadHandler struct {
	storage     services.StorageService
	maxFileSize int64
}

func NewUploadHandler(storage services.StorageService, maxFileSize int64) *UploadHandler {
	return &UploadHandler{
		storage:     storage,
		maxFileSize: maxFileSize,
	}
}

// HandleUpload handles POST /api/upload. Accepts multiple PDFs under
// the "files" field; anything that is not a PDF or exceeds the size
// limit is skipped, not rejected wholesale.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid multipart form",
		})
	}

	files := form.File["files"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No files provided",
		})
	}

	uploaded := 0
	skipped := 0
	for _, file := range files {
		if !strings.HasSuffix(strings.ToLower(file.Filename), ".pdf") {
			skipped++
			continue
		}
		if file.Size > h.maxFileSize {
			log.Printf("⚠️  Skipping %s: exceeds size limit", file.Filename)
			skipped++
			continue
		}

		if _, err := h.storage.SaveResume(file); err != nil {
			log.Printf("❌ Failed to save %s: %v", file.Filename, err)
			skipped++
			continue
		}
		uploaded++
	}

	return c.JSON(models.UploadResponse{
		Message:  fmt.Sprintf("Successfully uploaded %d resumes", uploaded),
		Uploaded: uploaded,
		Skipped:  skipped,
	})
}
