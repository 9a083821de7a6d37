package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ikkim/license-backend/internal/app/dto"
	"github.com/ikkim/license-backend/internal/app/repository"
	"github.com/ikkim/license-backend/internal/app/service"
	"github.com/ikkim/license-backend/internal/db"
	"github.com/ikkim/license-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFileControllerTest(t *testing.T) (*gin.Engine, string) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	blobs, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	appRepo := repository.NewApplicationRepository(testDB)
	draft, err := service.NewApplicationService(appRepo).CreateDraft(context.Background(), &dto.ApplicationRequest{})
	require.NoError(t, err)

	ctrl := NewFileController(service.NewFileService(appRepo, repository.NewFileRepository(testDB), blobs))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/files/upload", ctrl.UploadFile)
	router.GET("/api/files/:fileId", ctrl.DownloadFile)
	router.DELETE("/api/files/:fileId", ctrl.DeleteFile)

	return router, draft.ID
}

func multipartUpload(t *testing.T, applicationID, fileName string, content []byte) *http.Request {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if applicationID != "" {
		require.NoError(t, writer.WriteField("applicationId", applicationID))
	}
	if fileName != "" {
		part, err := writer.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestFileController_UploadDownloadDelete(t *testing.T) {
	router, appID := setupFileControllerTest(t)
	content := []byte("%PDF-1.4 previous licence")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartUpload(t, appID, "Old Licence.pdf", content))
	require.Equal(t, http.StatusOK, w.Code)

	var meta map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meta))
	assert.Equal(t, "Old Licence.pdf", meta["fileName"])
	assert.Equal(t, float64(len(content)), meta["fileSize"])
	assert.NotContains(t, meta, "storagePath")
	fileID := meta["id"].(string)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/files/"+fileID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, content, w.Body.Bytes())
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="Old Licence.pdf"`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/files/"+fileID, nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/files/"+fileID, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/files/"+fileID, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFileController_UploadRejected(t *testing.T) {
	router, appID := setupFileControllerTest(t)

	tests := []struct {
		name     string
		req      *http.Request
		wantCode int
	}{
		{"disallowed extension", multipartUpload(t, appID, "virus.exe", []byte("MZ")), http.StatusBadRequest},
		{"missing file", multipartUpload(t, appID, "", nil), http.StatusBadRequest},
		{"empty file", multipartUpload(t, appID, "empty.pdf", []byte{}), http.StatusBadRequest},
		{"missing application id", multipartUpload(t, "", "id.pdf", []byte("x")), http.StatusBadRequest},
		{"unknown application", multipartUpload(t, uuid.NewString(), "id.pdf", []byte("x")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, tt.req)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}
