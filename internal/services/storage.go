package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrInvalidExtension is returned by SaveResume for file types the parser
// cannot handle.
var ErrInvalidExtension = errors.New("invalid file extension")

type StorageService interface {
	SaveResume(file *multipart.FileHeader) (string, string, error)
	GetFilePath(filename string) string
	DeleteFile(filename string) error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

// SaveResume stores an uploaded resume under a fresh collision-resistant
// name and returns the new filename and full path. The upload is kept even
// if the parse that follows fails, for diagnostics.
func (s *storageService) SaveResume(file *multipart.FileHeader) (string, string, error) {
	// Validate file extensions
	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".pdf", ".doc", ".docx":
	default:
		return "", "", fmt.Errorf("%w: %s", ErrInvalidExtension, ext)
	}

	// Generate the unique filename
	uniqueFilename := fmt.Sprintf("resume_deepseek_%d%s", time.Now().UnixMilli(), ext)
	filePath := filepath.Join(s.uploadPath, uniqueFilename)

	// Open source file
	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	if err := persistUpload(src, filePath); err != nil {
		return "", "", err
	}

	return uniqueFilename, filePath, nil
}

// persistUpload moves the uploaded part into place. Large parts arrive
// spooled to a temp file; rename it when possible, and when the rename
// fails (e.g. the upload dir is on another filesystem) fall back to a copy
// and remove the spool file.
func persistUpload(src multipart.File, filePath string) error {
	if f, ok := src.(*os.File); ok {
		if err := os.Rename(f.Name(), filePath); err == nil {
			return nil
		}
	}

	dst, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}

	if f, ok := src.(*os.File); ok {
		os.Remove(f.Name())
	}

	return nil
}

func (s *storageService) GetFilePath(filename string) string {
	return filepath.Join(s.uploadPath, filename)
}

func (s *storageService) DeleteFile(filename string) error {
	filePath := s.GetFilePath(filename)
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
