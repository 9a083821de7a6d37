package repository

import (
	"context"
	"errors"

	"github.com/ikkim/license-backend/internal/app/model"
	"github.com/ikkim/license-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApplicationRepository interface {
	Create(ctx context.Context, app *model.Application) error
	FindByID(ctx context.Context, id string) (*model.Application, error)
	FindByReference(ctx context.Context, referenceNumber string) (*model.Application, error)
	Exists(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, app *model.Application) error
	List(ctx context.Context, status *model.ApplicationStatus) ([]model.Application, error)
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) preloadApplication(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Files", func(db *gorm.DB) *gorm.DB {
		return db.Order("uploaded_at ASC")
	})
}

func (r *applicationRepository) Create(ctx context.Context, app *model.Application) error {
	logger.Debug("Creating application in database", map[string]interface{}{
		"application_id":   app.ID,
		"reference_number": app.ReferenceNumber,
		"status":           app.Status,
	})

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(app).Error; err != nil {
		logger.Error("Failed to create application in database", err, map[string]interface{}{
			"application_id":   app.ID,
			"reference_number": app.ReferenceNumber,
		})
		return err
	}
	return nil
}

func (r *applicationRepository) FindByID(ctx context.Context, id string) (*model.Application, error) {
	var app model.Application
	if err := r.preloadApplication(ctx).First(&app, "id = ?", id).Error; err != nil {
		logFindError("Failed to find application by ID in database", err, map[string]interface{}{
			"application_id": id,
		})
		return nil, err
	}

	logger.Debug("Application found by ID in database", map[string]interface{}{
		"application_id": app.ID,
		"status":         app.Status,
		"files":          len(app.Files),
	})
	return &app, nil
}

func (r *applicationRepository) FindByReference(ctx context.Context, referenceNumber string) (*model.Application, error) {
	var app model.Application
	if err := r.preloadApplication(ctx).First(&app, "reference_number = ?", referenceNumber).Error; err != nil {
		logFindError("Failed to find application by reference in database", err, map[string]interface{}{
			"reference_number": referenceNumber,
		})
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Application{}).Where("id = ?", id).Count(&count).Error; err != nil {
		logger.Error("Failed to check application existence", err, map[string]interface{}{
			"application_id": id,
		})
		return false, err
	}
	return count > 0, nil
}

// Update writes every column of app; files are managed separately.
func (r *applicationRepository) Update(ctx context.Context, app *model.Application) error {
	logger.Debug("Updating application in database", map[string]interface{}{
		"application_id": app.ID,
		"status":         app.Status,
	})

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(app).Error; err != nil {
		logger.Error("Failed to update application in database", err, map[string]interface{}{
			"application_id": app.ID,
		})
		return err
	}
	return nil
}

func (r *applicationRepository) List(ctx context.Context, status *model.ApplicationStatus) ([]model.Application, error) {
	query := r.preloadApplication(ctx)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var apps []model.Application
	if err := query.Order("created_at ASC").Find(&apps).Error; err != nil {
		logger.Error("Failed to list applications", err)
		return nil, err
	}

	logger.Debug("Applications listed from database", map[string]interface{}{
		"count": len(apps),
	})
	return apps, nil
}

// logFindError keeps record-not-found out of the error log.
func logFindError(msg string, err error, fields map[string]interface{}) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Debug(msg, fields)
		return
	}
	logger.Error(msg, err, fields)
}
