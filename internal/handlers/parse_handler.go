package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"jobportal/resume-parser/internal/models"
	"jobportal/resume-parser/internal/repositories"
	"jobportal/resume-parser/internal/services"
)

// ParseHandler hosts the full pipeline: store the upload, check the result
// cache, invoke the parser backend, attach file info, cache and record the
// outcome. Parse-level failures still answer 200 with success:false in the
// body; only transport and infrastructure errors get 4xx/5xx.
type ParseHandler struct {
	docRepo        repositories.DocumentRepository
	runRepo        repositories.ParseRunRepository
	storageService services.StorageService
	parser         services.ResumeParserService
	cache          services.ResultCache
	indexer        services.Indexer // nil when talent indexing is disabled
}

func NewParseHandler(
	docRepo repositories.DocumentRepository,
	runRepo repositories.ParseRunRepository,
	storageService services.StorageService,
	parser services.ResumeParserService,
	cache services.ResultCache,
	indexer services.Indexer,
) *ParseHandler {
	return &ParseHandler{
		docRepo:        docRepo,
		runRepo:        runRepo,
		storageService: storageService,
		parser:         parser,
		cache:          cache,
		indexer:        indexer,
	}
}

// HandleParse handles POST /parse-resume. The call site either uploads the
// file in the same request (multipart field "resume") or references a
// previously stored upload via JSON {"filePath": ...}.
func (h *ParseHandler) HandleParse(c *fiber.Ctx) error {
	var (
		filePath         string
		originalFilename string
		doc              *models.Document
	)

	if fileHeader, err := c.FormFile("resume"); err == nil {
		filename, savedPath, err := h.storageService.SaveResume(fileHeader)
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

		newDoc := models.Document{
			ID:               uuid.New(),
			Filename:         filename,
			OriginalFileName: fileHeader.Filename,
			FilePath:         savedPath,
			Extension:        filepath.Ext(filename),
			SizeBytes:        fileHeader.Size,
			CreatedAt:        time.Now(),
			UpdatedAt:        time.Now(),
		}
		if err := h.docRepo.Create(&newDoc); err != nil {
			log.Printf("⚠️  Failed to record document: %v\n", err)
		} else {
			doc = &newDoc
		}

		filePath = savedPath
		originalFilename = fileHeader.Filename
	} else {
		var req models.ParseRequest
		if err := c.BodyParser(&req); err != nil || req.FilePath == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "filePath is required",
				"success": false,
			})
		}

		filePath = req.FilePath
		if found, err := h.docRepo.FindByPath(filePath); err == nil {
			doc = found
			originalFilename = found.OriginalFileName
		} else {
			originalFilename = filepath.Base(filePath)
		}
	}

	stat, err := os.Stat(filePath)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Uploaded file not found",
			"details": err.Error(),
			"success": false,
		})
	}

	info := models.NewFileInfo(filePath, originalFilename)
	fingerprint := services.Fingerprint(originalFilename, stat.Size())

	started := time.Now()

	if cached, ok := h.cache.Get(fingerprint, info); ok {
		log.Printf("📦 Using cached result for %s\n", originalFilename)
		h.recordRun(doc, fingerprint, cached, true, time.Since(started))
		return c.JSON(cached)
	}

	profile := h.parser.ParseResume(c.UserContext(), filePath)

	// File info always reflects the stored upload, not what the parser claims
	profile.SetFileInfo(info)

	h.cache.Put(fingerprint, profile)
	run := h.recordRun(doc, fingerprint, profile, false, time.Since(started))

	// Without a document record there is no stable point ID to index under
	if run != nil && doc != nil && profile.Success() && h.indexer != nil {
		h.indexer.Enqueue(run.ID)
	}

	return c.JSON(profile)
}

// recordRun persists the outcome of a parse attempt. Failures to record are
// logged and swallowed, the caller still gets its parse result.
func (h *ParseHandler) recordRun(
	doc *models.Document,
	fingerprint string,
	profile models.Profile,
	fromCache bool,
	duration time.Duration,
) *models.ParseRun {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		log.Printf("⚠️  Failed to serialize profile: %v\n", err)
		return nil
	}

	run := models.ParseRun{
		ID:          uuid.New(),
		Fingerprint: fingerprint,
		Status:      models.ParseStatusCompleted,
		Success:     profile.Success(),
		ProfileJSON: string(profileJSON),
		FromCache:   fromCache,
		DurationMs:  duration.Milliseconds(),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if doc != nil {
		run.DocumentID = doc.ID
	}
	if !profile.Success() {
		run.Status = models.ParseStatusFailed
		if msg, ok := profile["error"].(string); ok {
			run.ErrorMessage = &msg
		}
	}

	if err := h.runRepo.Create(&run); err != nil {
		log.Printf("⚠️  Failed to record parse run: %v\n", err)
		return nil
	}

	return &run
}
