package handlers

import (
	"fmt"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"cv-screening/internal/models"
	"cv-screening/internal/repositories"
	"cv-screening/internal/services"
)

// MIME types accepted for uploaded documents (PDF and Word).
var allowedContentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

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

// HandleUpload handles POST /upload. Size and content type are checked
// before a document id is minted.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	files := form.File

	var responses []models.UploadResponse

	for _, fileType := range []string{"cv", "project_report"} {
		uploads, exists := files[fileType]
		if !exists || len(uploads) == 0 {
			continue
		}

		response, status, err := h.storeDocument(uploads[0], fileType)
		if err != nil {
			return c.Status(status).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		responses = append(responses, *response)
	}

	if len(responses) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No valid files uploaded. Please upload 'cv' and/or 'project_report' as PDF or Word files.",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Files uploaded successfully",
		"documents": responses,
	})
}

func (h *UploadHandler) storeDocument(file *multipart.FileHeader, fileType string) (*models.UploadResponse, int, error) {
	if file.Size > h.maxFileSize {
		return nil, fiber.StatusBadRequest,
			fmt.Errorf("%s file too large. Max size: %d bytes", fileType, h.maxFileSize)
	}

	contentType := file.Header.Get("Content-Type")
	if contentType != "" && !allowedContentTypes[contentType] {
		return nil, fiber.StatusBadRequest,
			fmt.Errorf("content type %s is not allowed", contentType)
	}

	filename, filePath, err := h.storageService.SaveFile(file, fileType)
	if err != nil {
		return nil, fiber.StatusBadRequest,
			fmt.Errorf("failed to save %s file: %v", fileType, err)
	}

	doc := models.Document{
		ID:               uuid.New(),
		Filename:         filename,
		OriginalFileName: file.Filename,
		FileType:         fileType,
		ContentType:      contentType,
		FilePath:         filePath,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := h.docRepo.Create(&doc); err != nil {
		// Cleanup uploaded file if database insert fails
		h.storageService.DeleteFile(filename)
		return nil, fiber.StatusInternalServerError,
			fmt.Errorf("failed to save %s document record", fileType)
	}

	return &models.UploadResponse{
		ID:           doc.ID.String(),
		Filename:     doc.Filename,
		OriginalName: doc.OriginalFileName,
		FileType:     doc.FileType,
	}, fiber.StatusCreated, nil
}
