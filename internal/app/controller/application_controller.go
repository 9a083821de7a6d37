package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ikkim/license-backend/internal/app/dto"
	"github.com/ikkim/license-backend/internal/app/service"
	apperrors "github.com/ikkim/license-backend/internal/errors"
	"github.com/ikkim/license-backend/internal/middleware"
)

type ApplicationController struct {
	applicationService service.ApplicationService
}

func NewApplicationController(applicationService service.ApplicationService) *ApplicationController {
	return &ApplicationController{
		applicationService: applicationService,
	}
}

// CreateApplication submits a complete application
// POST /api/applications
func (ctrl *ApplicationController) CreateApplication(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req dto.ApplicationRequest
	if !bindApplicationRequest(c, &req) {
		return
	}

	app, err := ctrl.applicationService.CreateApplication(c.Request.Context(), &req)
	if err != nil {
		respondApplicationError(c, err, "An error occurred while creating the application")
		return
	}

	log.Info("Application submitted", map[string]interface{}{
		"application_id":   app.ID,
		"reference_number": app.ReferenceNumber,
	})
	c.Header("Location", "/api/applications/"+app.ID)
	c.JSON(http.StatusCreated, app)
}

// CreateDraft stores a partially filled application
// POST /api/applications/draft
func (ctrl *ApplicationController) CreateDraft(c *gin.Context) {
	var req dto.ApplicationRequest
	if !bindApplicationRequest(c, &req) {
		return
	}

	app, err := ctrl.applicationService.CreateDraft(c.Request.Context(), &req)
	if err != nil {
		respondApplicationError(c, err, "An error occurred while creating the draft")
		return
	}

	c.Header("Location", "/api/applications/"+app.ID)
	c.JSON(http.StatusCreated, app)
}

// UpdateDraft replaces the optional fields of a draft
// PUT /api/applications/:id/draft
func (ctrl *ApplicationController) UpdateDraft(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.ApplicationRequest
	if !bindApplicationRequest(c, &req) {
		return
	}

	app, err := ctrl.applicationService.UpdateDraft(c.Request.Context(), id, &req)
	if err != nil {
		respondApplicationError(c, err, "An error occurred while updating the draft")
		return
	}

	c.JSON(http.StatusOK, app)
}

// GetByID returns one application with its files
// GET /api/applications/:id
func (ctrl *ApplicationController) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	app, err := ctrl.applicationService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondApplicationError(c, err, "An error occurred while retrieving the application")
		return
	}
	if app == nil {
		apperrors.NotFound(c, apperrors.ApplicationNotFound, "Application with ID "+id+" not found")
		return
	}

	c.JSON(http.StatusOK, app)
}

// GetByReference looks an application up by its reference number
// GET /api/applications/reference/:referenceNumber
func (ctrl *ApplicationController) GetByReference(c *gin.Context) {
	ref := c.Param("referenceNumber")

	app, err := ctrl.applicationService.GetByReference(c.Request.Context(), ref)
	if err != nil {
		respondApplicationError(c, err, "An error occurred while retrieving the application")
		return
	}
	if app == nil {
		apperrors.NotFound(c, apperrors.ApplicationNotFound, "Application with reference "+ref+" not found")
		return
	}

	c.JSON(http.StatusOK, app)
}

// Validate runs submission validation without saving
// POST /api/applications/validate
func (ctrl *ApplicationController) Validate(c *gin.Context) {
	var req dto.ApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ValidationResult{
			IsValid: false,
			Errors:  map[string][]string{"body": {"Request body is not valid JSON"}},
		})
		return
	}

	errs := ctrl.applicationService.Validate(&req)
	if errs.HasErrors() {
		c.JSON(http.StatusBadRequest, dto.ValidationResult{IsValid: false, Errors: errs})
		return
	}
	c.JSON(http.StatusOK, dto.ValidationResult{IsValid: true})
}

// UpdateStatus moves a submitted application through review
// PATCH /api/applications/:id/status
func (ctrl *ApplicationController) UpdateStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithValidationError(c, "", map[string][]string{"status": {"Status is required"}})
		return
	}

	app, err := ctrl.applicationService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondApplicationError(c, err, "An error occurred while updating the application status")
		return
	}

	log.Info("Application status changed", map[string]interface{}{
		"application_id": app.ID,
		"status":         app.Status,
	})
	c.JSON(http.StatusOK, app)
}

func bindApplicationRequest(c *gin.Context, req *dto.ApplicationRequest) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid application payload", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondWithValidationError(c, "Validation failed", map[string][]string{
			"body": {"Request body is not valid JSON or contains a malformed value"},
		})
		return false
	}
	return true
}

func parseID(c *gin.Context, param string) (string, bool) {
	id := c.Param(param)
	if _, err := uuid.Parse(id); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "The value '"+id+"' is not a valid id")
		return "", false
	}
	return id, true
}

// respondApplicationError maps service errors onto HTTP responses.
func respondApplicationError(c *gin.Context, err error, fallback string) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		apperrors.RespondWithValidationError(c, "Validation failed", vErr.Errors)
	case errors.Is(err, service.ErrApplicationNotFound):
		apperrors.NotFound(c, apperrors.ApplicationNotFound, "Application not found")
	case errors.Is(err, service.ErrApplicationNotDraft):
		apperrors.BadRequest(c, apperrors.ApplicationNotDraft, "Only draft applications can be updated with this endpoint")
	case errors.Is(err, service.ErrInvalidStatusTransition):
		apperrors.BadRequest(c, apperrors.ApplicationInvalidTransition, err.Error())
	case errors.Is(err, service.ErrReferenceConflict):
		middleware.GetLoggerFromContext(c).Error("Reference number collision", err)
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.ApplicationReferenceConflict, fallback)
	default:
		middleware.GetLoggerFromContext(c).Error(fallback, err)
		apperrors.InternalError(c, fallback)
	}
}
