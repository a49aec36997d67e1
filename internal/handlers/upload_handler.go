package handlers

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"jobportal/resume-parser/internal/models"
	"jobportal/resume-parser/internal/repositories"
	"jobportal/resume-parser/internal/services"
)

type UploadHandler struct {
	docRepo        repositories.DocumentRepository
	storageService services.StorageService
	maxFileSize    int64
}

func NewUploadHandler(
	docRepo repositories.DocumentRepository,
	storageService services.StorageService,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		docRepo:        docRepo,
		storageService: storageService,
		maxFileSize:    maxFileSize,
	}
}

// HandleUpload handles POST /upload-resume
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("resume")
	if err != nil {
		// Older call sites send the file under "file"
		fileHeader, err = c.FormFile("file")
	}
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "No file uploaded",
			"success": false,
		})
	}

	if fileHeader.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize),
			"success": false,
		})
	}

	filename, filePath, err := h.storageService.SaveResume(fileHeader)
	if err != nil {
		if errors.Is(err, services.ErrInvalidExtension) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "Please upload a PDF or Word document",
				"details": err.Error(),
				"success": false,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to save uploaded file",
			"details": err.Error(),
			"success": false,
		})
	}

	doc := models.Document{
		ID:               uuid.New(),
		Filename:         filename,
		OriginalFileName: fileHeader.Filename,
		FilePath:         filePath,
		Extension:        filepath.Ext(filename),
		SizeBytes:        fileHeader.Size,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := h.docRepo.Create(&doc); err != nil {
		// Cleanup uploaded file if database insert fails
		h.storageService.DeleteFile(filename)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to save document record",
			"details": err.Error(),
			"success": false,
		})
	}

	return c.JSON(models.UploadResponse{
		Success:          true,
		FilePath:         filePath,
		Filename:         filename,
		OriginalFilename: fileHeader.Filename,
	})
}
