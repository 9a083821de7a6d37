package licenseapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ikkim/license-backend/config"
	"github.com/ikkim/license-backend/internal/app/controller"
	"github.com/ikkim/license-backend/internal/app/dto"
	"github.com/ikkim/license-backend/internal/app/model"
	"github.com/ikkim/license-backend/internal/app/repository"
	"github.com/ikkim/license-backend/internal/app/service"
	"github.com/ikkim/license-backend/internal/db"
	"github.com/ikkim/license-backend/internal/router"
	"github.com/ikkim/license-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Client {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	blobs, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	appRepo := repository.NewApplicationRepository(testDB)
	engine := router.NewRouter(
		controller.NewApplicationController(service.NewApplicationService(appRepo)),
		controller.NewFileController(service.NewFileService(appRepo, repository.NewFileRepository(testDB), blobs)),
		controller.NewAccountTypeController(service.NewAccountTypeService()),
		&config.Config{Server: config.ServerConfig{GinMode: "test"}},
	).Setup()

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{BaseURL: srv.URL + "/api/"})
	require.NoError(t, err)
	return client
}

func strPtr(s string) *string { return &s }

func TestNewClient_InvalidConfig(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewClient(Config{BaseURL: "http://localhost", Timeout: -time.Second})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestClient_DraftUploadSubmitFlow(t *testing.T) {
	client := newTestServer(t)
	ctx := context.Background()

	types, err := client.ListAccountTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 3)

	individual := model.AccountTypeIndividual
	draft, err := client.CreateDraft(ctx, &dto.ApplicationRequest{
		AccountType: &individual,
		AccountName: strPtr("Priya Sharma"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, draft.Status)

	updated, err := client.UpdateDraft(ctx, draft.ID, &dto.ApplicationRequest{
		AccountName: strPtr("Priya S."),
		City:        strPtr("Pune"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.City)
	assert.Equal(t, "Pune", *updated.City)

	meta, err := client.UploadFile(ctx, draft.ID, "aadhaar.png", strings.NewReader("\x89PNG"))
	require.NoError(t, err)
	assert.Equal(t, "aadhaar.png", meta.FileName)
	assert.Equal(t, int64(4), meta.FileSize)
	assert.Equal(t, "image/png", meta.ContentType)

	licence, err := client.UploadFile(ctx, draft.ID, "Old Licence.PDF", strings.NewReader("%PDF-1.7"))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", licence.ContentType)
	assert.Equal(t, "Old Licence.PDF", licence.FileName)

	fetched, err := client.GetApplication(ctx, draft.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Files, 2)
	stored := map[string]string{}
	for _, f := range fetched.Files {
		stored[f.ID] = f.ContentType
	}
	assert.Equal(t, "image/png", stored[meta.ID])
	assert.Equal(t, "application/pdf", stored[licence.ID])

	dob := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	submitted, err := client.CreateApplication(ctx, &dto.ApplicationRequest{
		AccountType:  &individual,
		AccountName:  strPtr("Priya Sharma"),
		Email:        strPtr("priya@example.in"),
		FirstName:    strPtr("Priya"),
		LastName:     strPtr("Sharma"),
		DateOfBirth:  &dob,
		AddressLine1: strPtr("1 FC Road"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusSubmitted, submitted.Status)
	assert.Regexp(t, `^LIC-\d{14}-\d{4}$`, submitted.ReferenceNumber)
}

func TestClient_ErrorResponses(t *testing.T) {
	client := newTestServer(t)
	ctx := context.Background()

	_, err := client.CreateApplication(ctx, &dto.ApplicationRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Errors, "accountName")

	_, err = client.GetApplication(ctx, "0b6d3c52-8d0e-4a4e-9a53-3c1c0f6d8f11")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = client.UploadFile(ctx, "0b6d3c52-8d0e-4a4e-9a53-3c1c0f6d8f11", "a.pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_NonJSONErrorAndNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.ListAccountTypes(context.Background())
	assert.ErrorIs(t, err, ErrServer)
	assert.Contains(t, err.Error(), "upstream unavailable")

	srv.Close()
	_, err = client.ListAccountTypes(context.Background())
	assert.ErrorIs(t, err, ErrNetworkError)
}

func TestContentTypeFor(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"scan.pdf", "application/pdf"},
		{"PHOTO.JPG", "image/jpeg"},
		{"id.png", "image/png"},
		{"noextension", "application/octet-stream"},
		{"archive.unknownext", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, contentTypeFor(tt.name))
		})
	}
}
