package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/license-backend/internal/app/model"
	"github.com/ikkim/license-backend/internal/app/repository"
	"github.com/ikkim/license-backend/internal/storage"
	"github.com/ikkim/license-backend/pkg/logger"
	"gorm.io/gorm"
)

// FileUpload is one incoming document.
type FileUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// StoredFile is a document read back from storage.
type StoredFile struct {
	Content     []byte
	ContentType string
	FileName    string
}

type FileService interface {
	Upload(ctx context.Context, applicationID string, file FileUpload) (*model.FileMetadata, error)
	Delete(ctx context.Context, fileID string) (bool, error)
	Retrieve(ctx context.Context, fileID string) (*StoredFile, error)
}

type fileService struct {
	appRepo  repository.ApplicationRepository
	fileRepo repository.FileRepository
	blobs    storage.BlobStore
	cache    ApplicationCache
}

func NewFileService(
	appRepo repository.ApplicationRepository,
	fileRepo repository.FileRepository,
	blobs storage.BlobStore,
	cache ...ApplicationCache,
) FileService {
	var c ApplicationCache = noopCache{}
	if len(cache) > 0 && cache[0] != nil {
		c = cache[0]
	}
	return &fileService{
		appRepo:  appRepo,
		fileRepo: fileRepo,
		blobs:    blobs,
		cache:    c,
	}
}

func (s *fileService) Upload(ctx context.Context, applicationID string, file FileUpload) (*model.FileMetadata, error) {
	exists, err := s.appRepo.Exists(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to check application: %w", err)
	}
	if !exists {
		return nil, ErrApplicationNotFound
	}

	if file.Content == nil || file.Size <= 0 {
		return nil, newValidationError("file", "No file provided")
	}
	if file.Size > model.MaxFileSize {
		return nil, newValidationError("file", fmt.Sprintf("File size exceeds maximum allowed size of %dMB", model.MaxFileSize/(1024*1024)))
	}
	ext := strings.ToLower(filepath.Ext(file.FileName))
	if !model.IsAllowedExtension(file.FileName) {
		return nil, newValidationError("file", fmt.Sprintf("File type %s is not allowed. Allowed types: %s", ext, strings.Join(model.AllowedExtensions, ", ")))
	}

	contentType := file.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(ext)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	fileID := uuid.NewString()
	storageName := uuid.NewString() + ext

	if err := s.blobs.Put(ctx, storageName, io.LimitReader(file.Content, model.MaxFileSize), file.Size, contentType); err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	metadata := &model.FileMetadata{
		ID:            fileID,
		ApplicationID: applicationID,
		FileName:      filepath.Base(file.FileName),
		StoragePath:   storageName,
		ContentType:   contentType,
		FileSize:      file.Size,
		UploadedAt:    time.Now().UTC(),
	}
	if err := s.fileRepo.Create(ctx, metadata); err != nil {
		if delErr := s.blobs.Delete(ctx, storageName); delErr != nil && !errors.Is(delErr, storage.ErrBlobNotFound) {
			logger.Error("Failed to remove orphaned blob", delErr, map[string]interface{}{
				"storage_name": storageName,
			})
		}
		return nil, fmt.Errorf("failed to save file metadata: %w", err)
	}
	s.cache.Invalidate(ctx, applicationID)

	logger.Info("File uploaded", map[string]interface{}{
		"file_id":        metadata.ID,
		"application_id": applicationID,
		"file_name":      metadata.FileName,
		"size":           metadata.FileSize,
	})
	return metadata, nil
}

// Delete removes content then metadata. It reports false when the file is unknown.
func (s *fileService) Delete(ctx context.Context, fileID string) (bool, error) {
	metadata, err := s.fileRepo.FindByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load file metadata: %w", err)
	}

	if err := s.blobs.Delete(ctx, metadata.StoragePath); err != nil {
		if !errors.Is(err, storage.ErrBlobNotFound) {
			return false, fmt.Errorf("failed to delete file content: %w", err)
		}
		logger.Warn("File content already missing", map[string]interface{}{
			"file_id": fileID,
		})
	}

	if err := s.fileRepo.Delete(ctx, fileID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete file metadata: %w", err)
	}
	s.cache.Invalidate(ctx, metadata.ApplicationID)

	logger.Info("File deleted", map[string]interface{}{
		"file_id":        fileID,
		"application_id": metadata.ApplicationID,
	})
	return true, nil
}

// Retrieve returns nil without error when metadata or content is missing.
func (s *fileService) Retrieve(ctx context.Context, fileID string) (*StoredFile, error) {
	metadata, err := s.fileRepo.FindByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load file metadata: %w", err)
	}

	content, err := s.blobs.Get(ctx, metadata.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			logger.Warn("File metadata exists but content is missing", map[string]interface{}{
				"file_id": fileID,
			})
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}

	return &StoredFile{
		Content:     content,
		ContentType: metadata.ContentType,
		FileName:    metadata.FileName,
	}, nil
}
