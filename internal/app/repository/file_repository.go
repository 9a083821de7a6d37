package repository

import (
	"context"

	"github.com/ikkim/license-backend/internal/app/model"
	"github.com/ikkim/license-backend/pkg/logger"
	"gorm.io/gorm"
)

type FileRepository interface {
	Create(ctx context.Context, file *model.FileMetadata) error
	FindByID(ctx context.Context, id string) (*model.FileMetadata, error)
	FindByApplicationID(ctx context.Context, applicationID string) ([]model.FileMetadata, error)
	Delete(ctx context.Context, id string) error
}

type fileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(ctx context.Context, file *model.FileMetadata) error {
	if err := r.db.WithContext(ctx).Create(file).Error; err != nil {
		logger.Error("Failed to create file metadata in database", err, map[string]interface{}{
			"file_id":        file.ID,
			"application_id": file.ApplicationID,
		})
		return err
	}

	logger.Debug("File metadata created in database", map[string]interface{}{
		"file_id":        file.ID,
		"application_id": file.ApplicationID,
		"size":           file.FileSize,
	})
	return nil
}

func (r *fileRepository) FindByID(ctx context.Context, id string) (*model.FileMetadata, error) {
	var file model.FileMetadata
	if err := r.db.WithContext(ctx).First(&file, "id = ?", id).Error; err != nil {
		logFindError("Failed to find file metadata by ID", err, map[string]interface{}{
			"file_id": id,
		})
		return nil, err
	}
	return &file, nil
}

func (r *fileRepository) FindByApplicationID(ctx context.Context, applicationID string) ([]model.FileMetadata, error) {
	var files []model.FileMetadata
	if err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("uploaded_at ASC").
		Find(&files).Error; err != nil {
		logger.Error("Failed to find files by application ID", err, map[string]interface{}{
			"application_id": applicationID,
		})
		return nil, err
	}
	return files, nil
}

// Delete removes the row; gorm.ErrRecordNotFound when nothing matched.
func (r *fileRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&model.FileMetadata{}, "id = ?", id)
	if result.Error != nil {
		logger.Error("Failed to delete file metadata", result.Error, map[string]interface{}{
			"file_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
