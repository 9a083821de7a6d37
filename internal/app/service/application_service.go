package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/license-backend/internal/app/dto"
	"github.com/ikkim/license-backend/internal/app/model"
	"github.com/ikkim/license-backend/internal/app/repository"
	apperrors "github.com/ikkim/license-backend/internal/errors"
	"github.com/ikkim/license-backend/pkg/logger"
	"github.com/ikkim/license-backend/pkg/util"
	"github.com/ikkim/license-backend/internal/validation"
	"gorm.io/gorm"
)

type ApplicationService interface {
	CreateApplication(ctx context.Context, req *dto.ApplicationRequest) (*model.Application, error)
	CreateDraft(ctx context.Context, req *dto.ApplicationRequest) (*model.Application, error)
	UpdateDraft(ctx context.Context, id string, req *dto.ApplicationRequest) (*model.Application, error)
	GetByID(ctx context.Context, id string) (*model.Application, error)
	GetByReference(ctx context.Context, referenceNumber string) (*model.Application, error)
	Validate(req *dto.ApplicationRequest) validation.Errors
	UpdateStatus(ctx context.Context, id string, status model.ApplicationStatus) (*model.Application, error)
	ListApplications(ctx context.Context, status *model.ApplicationStatus) ([]model.Application, error)
}

type ApplicationServiceOption func(*applicationService)

// WithCache enables the read-through application cache.
func WithCache(cache ApplicationCache) ApplicationServiceOption {
	return func(s *applicationService) {
		if cache != nil {
			s.cache = cache
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ApplicationServiceOption {
	return func(s *applicationService) {
		s.now = now
	}
}

// WithReferenceGenerator replaces the reference number generator.
func WithReferenceGenerator(gen func(time.Time) string) ApplicationServiceOption {
	return func(s *applicationService) {
		s.newReference = gen
	}
}

type applicationService struct {
	appRepo      repository.ApplicationRepository
	cache        ApplicationCache
	now          func() time.Time
	newReference func(time.Time) string
}

func NewApplicationService(appRepo repository.ApplicationRepository, opts ...ApplicationServiceOption) ApplicationService {
	s := &applicationService{
		appRepo:      appRepo,
		cache:        noopCache{},
		now:          time.Now,
		newReference: util.GenerateReferenceNumber,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *applicationService) CreateApplication(ctx context.Context, req *dto.ApplicationRequest) (*model.Application, error) {
	if errs := s.Validate(req); errs.HasErrors() {
		logger.Warn("Application submission failed validation", map[string]interface{}{
			"fields": len(errs),
		})
		return nil, &ValidationError{Errors: errs}
	}

	now := s.now().UTC()
	app := req.NewApplication()
	app.Status = model.StatusSubmitted
	app.SubmittedAt = &now

	if err := s.create(ctx, app, now); err != nil {
		return nil, err
	}

	logger.Info("Application created", map[string]interface{}{
		"application_id":   app.ID,
		"reference_number": app.ReferenceNumber,
		"account_type":     app.AccountType.String(),
	})
	return app, nil
}

func (s *applicationService) CreateDraft(ctx context.Context, req *dto.ApplicationRequest) (*model.Application, error) {
	if errs := structuralErrors(req); errs.HasErrors() {
		return nil, &ValidationError{Errors: errs}
	}

	now := s.now().UTC()
	app := req.NewApplication()
	app.Status = model.StatusDraft
	if req.AccountType == nil {
		app.AccountType = model.AccountTypeIndividual
	}

	if err := s.create(ctx, app, now); err != nil {
		return nil, err
	}

	logger.Info("Draft created", map[string]interface{}{
		"application_id": app.ID,
	})
	return app, nil
}

func (s *applicationService) create(ctx context.Context, app *model.Application, now time.Time) error {
	app.ID = uuid.NewString()
	app.ReferenceNumber = s.newReference(now)
	app.CreatedAt = now
	app.UpdatedAt = now
	app.Files = []model.FileMetadata{}

	if err := s.appRepo.Create(ctx, app); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return fmt.Errorf("%w: %s", ErrReferenceConflict, app.ReferenceNumber)
		}
		return fmt.Errorf("failed to create application: %w", err)
	}

	s.cache.Set(ctx, app)
	return nil
}

func (s *applicationService) UpdateDraft(ctx context.Context, id string, req *dto.ApplicationRequest) (*model.Application, error) {
	app, err := s.appRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to load application: %w", err)
	}

	if app.Status != model.StatusDraft {
		logger.Warn("Rejected update of non-draft application", map[string]interface{}{
			"application_id": id,
			"status":         app.Status,
		})
		return nil, ErrApplicationNotDraft
	}

	if errs := structuralErrors(req); errs.HasErrors() {
		return nil, &ValidationError{Errors: errs}
	}

	req.ApplyDraftUpdate(app)
	app.UpdatedAt = s.now().UTC()

	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, fmt.Errorf("failed to update draft: %w", err)
	}
	s.cache.Invalidate(ctx, app.ID)

	logger.Info("Draft updated", map[string]interface{}{
		"application_id": app.ID,
	})
	return app, nil
}

// GetByID returns nil without error when the application does not exist.
func (s *applicationService) GetByID(ctx context.Context, id string) (*model.Application, error) {
	if app, ok := s.cache.Get(ctx, id); ok {
		return app, nil
	}

	app, err := s.appRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	s.cache.Set(ctx, app)
	return app, nil
}

// GetByReference returns nil without error when the reference is unknown.
func (s *applicationService) GetByReference(ctx context.Context, referenceNumber string) (*model.Application, error) {
	app, err := s.appRepo.FindByReference(ctx, referenceNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application by reference: %w", err)
	}
	return app, nil
}

// Validate applies the submission rules without persisting anything.
func (s *applicationService) Validate(req *dto.ApplicationRequest) validation.Errors {
	errs := structuralErrors(req)

	if req.AccountType == nil {
		errs.Add("accountType", "Account type is required")
	}
	if !req.HasValue("accountName") {
		errs.Add("accountName", "Account name is required")
	}
	if !req.HasValue("email") {
		errs.Add("email", "Email is required")
	}

	if req.AccountType != nil && req.AccountType.Valid() {
		for _, field := range model.RequiredFields(*req.AccountType) {
			if !req.HasValue(field.Name) {
				errs.Add(field.Name, field.Label+" is required")
			}
		}
	}

	if req.DateOfBirth != nil && !req.DateOfBirth.IsZero() && !validation.IsAdult(*req.DateOfBirth, s.now()) {
		errs.Add("dateOfBirth", fmt.Sprintf("Applicant must be at least %d years old", validation.MinimumAge))
	}

	return errs
}

func (s *applicationService) UpdateStatus(ctx context.Context, id string, status model.ApplicationStatus) (*model.Application, error) {
	if !status.Valid() {
		return nil, newValidationError("status", "Status is not a supported value")
	}

	app, err := s.appRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to load application: %w", err)
	}

	if !app.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidStatusTransition, app.Status, status)
	}

	previous := app.Status
	app.Status = status
	app.UpdatedAt = s.now().UTC()

	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}
	s.cache.Invalidate(ctx, app.ID)

	logger.Info("Application status updated", map[string]interface{}{
		"application_id": app.ID,
		"from":           previous,
		"to":             status,
	})
	return app, nil
}

func (s *applicationService) ListApplications(ctx context.Context, status *model.ApplicationStatus) ([]model.Application, error) {
	apps, err := s.appRepo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

func structuralErrors(req *dto.ApplicationRequest) validation.Errors {
	return validation.FieldErrors(validation.ValidateStruct(req))
}
