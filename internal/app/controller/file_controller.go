package controller

import (
	"errors"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ikkim/license-backend/internal/app/service"
	apperrors "github.com/ikkim/license-backend/internal/errors"
	"github.com/ikkim/license-backend/internal/middleware"
)

type FileController struct {
	fileService service.FileService
}

func NewFileController(fileService service.FileService) *FileController {
	return &FileController{
		fileService: fileService,
	}
}

// UploadFile attaches a document to an application
// POST /api/files/upload (multipart: applicationId, file)
func (ctrl *FileController) UploadFile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	applicationID := c.PostForm("applicationId")
	if _, err := uuid.Parse(applicationID); err != nil {
		apperrors.RespondWithValidationError(c, "", map[string][]string{
			"applicationId": {"A valid application id is required"},
		})
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		apperrors.RespondWithValidationError(c, "No file provided", map[string][]string{
			"file": {"No file provided"},
		})
		return
	}

	file, err := header.Open()
	if err != nil {
		log.Error("Failed to open uploaded file", err)
		apperrors.InternalError(c, "An error occurred while uploading the file")
		return
	}
	defer file.Close()

	metadata, err := ctrl.fileService.Upload(c.Request.Context(), applicationID, service.FileUpload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	})
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			message := "Validation failed"
			if msgs := vErr.Errors["file"]; len(msgs) > 0 {
				message = msgs[0]
			}
			apperrors.RespondWithValidationError(c, message, vErr.Errors)
		case errors.Is(err, service.ErrApplicationNotFound):
			apperrors.NotFound(c, apperrors.ApplicationNotFound, "Application with ID "+applicationID+" not found")
		default:
			log.Error("Error uploading file", err, map[string]interface{}{
				"application_id": applicationID,
			})
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.FileUploadFailed, "An error occurred while uploading the file")
		}
		return
	}

	c.JSON(http.StatusOK, metadata)
}

// DeleteFile removes a document
// DELETE /api/files/:fileId
func (ctrl *FileController) DeleteFile(c *gin.Context) {
	fileID, ok := parseID(c, "fileId")
	if !ok {
		return
	}

	found, err := ctrl.fileService.Delete(c.Request.Context(), fileID)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Error deleting file", err, map[string]interface{}{
			"file_id": fileID,
		})
		apperrors.InternalError(c, "An error occurred while deleting the file")
		return
	}
	if !found {
		apperrors.NotFound(c, apperrors.FileNotFound, "File with ID "+fileID+" not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// DownloadFile streams a document back with its original name
// GET /api/files/:fileId
func (ctrl *FileController) DownloadFile(c *gin.Context) {
	fileID, ok := parseID(c, "fileId")
	if !ok {
		return
	}

	stored, err := ctrl.fileService.Retrieve(c.Request.Context(), fileID)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Error downloading file", err, map[string]interface{}{
			"file_id": fileID,
		})
		apperrors.InternalError(c, "An error occurred while downloading the file")
		return
	}
	if stored == nil {
		apperrors.NotFound(c, apperrors.FileNotFound, "File with ID "+fileID+" not found")
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": stored.FileName}))
	c.Data(http.StatusOK, stored.ContentType, stored.Content)
}
