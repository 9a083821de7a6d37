package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ikkim/license-backend/internal/app/model"
	"github.com/ikkim/license-backend/internal/app/repository"
	"github.com/ikkim/license-backend/internal/app/service"
	"github.com/ikkim/license-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupApplicationControllerTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	appService := service.NewApplicationService(repository.NewApplicationRepository(testDB))
	ctrl := NewApplicationController(appService)
	accountTypes := NewAccountTypeController(service.NewAccountTypeService())

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/accounttypes", accountTypes.ListAccountTypes)
	router.POST("/api/applications", ctrl.CreateApplication)
	router.POST("/api/applications/draft", ctrl.CreateDraft)
	router.POST("/api/applications/validate", ctrl.Validate)
	router.GET("/api/applications/reference/:referenceNumber", ctrl.GetByReference)
	router.GET("/api/applications/:id", ctrl.GetByID)
	router.PUT("/api/applications/:id/draft", ctrl.UpdateDraft)
	router.PATCH("/api/applications/:id/status", ctrl.UpdateStatus)

	return router, testDB
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

var individualPayload = map[string]interface{}{
	"accountType":  1,
	"accountName":  "Priya Sharma",
	"email":        "priya@example.in",
	"phone":        "+91 98765 43210",
	"firstName":    "Priya",
	"lastName":     "Sharma",
	"dateOfBirth":  "1990-01-01T00:00:00Z",
	"addressLine1": "12 MG Road",
	"city":         "Bengaluru",
	"state":        "Karnataka",
	"zipCode":      "560001",
	"country":      "India",
}

func TestApplicationController_CreateApplication_Individual(t *testing.T) {
	router, _ := setupApplicationControllerTest(t)

	w := doJSON(t, router, http.MethodPost, "/api/applications", individualPayload)

	assert.Equal(t, http.StatusCreated, w.Code)
	response := decode(t, w)
	assert.Equal(t, "Submitted", response["status"])
	assert.Regexp(t, `^LIC-\d{14}-\d{4}$`, response["referenceNumber"])
	assert.NotEmpty(t, response["submittedAt"])
	assert.Equal(t, float64(1), response["accountType"])
	assert.Equal(t, "/api/applications/"+response["id"].(string), w.Header().Get("Location"))
	assert.Equal(t, []interface{}{}, response["files"])
}

func TestApplicationController_CreateApplication_ValidationFailed(t *testing.T) {
	router, _ := setupApplicationControllerTest(t)

	w := doJSON(t, router, http.MethodPost, "/api/applications", map[string]interface{}{
		"accountType": 3,
		"email":       "gov@example.in",
		"zipCode":     "12",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	response := decode(t, w)
	assert.Equal(t, "VALIDATION_INVALID_INPUT", response["error"])
	assert.Equal(t, "Validation failed", response["message"])
	errs := response["errors"].(map[string]interface{})
	assert.Contains(t, errs, "accountName")
	assert.Contains(t, errs, "agencyName")
	assert.Contains(t, errs, "zipCode")
}

func TestApplicationController_CreateApplication_MalformedBody(t *testing.T) {
	router, _ := setupApplicationControllerTest(t)

	w := doJSON(t, router, http.MethodPost, "/api/applications", `{"accountType": 1, "dateOfBirth": "yesterday"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["errors"], "body")
}

func TestApplicationController_DraftLifecycle(t *testing.T) {
	router, _ := setupApplicationControllerTest(t)

	w := doJSON(t, router, http.MethodPost, "/api/applications/draft", map[string]interface{}{
		"accountType": 2,
		"accountName": "Acme Traders",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	draft := decode(t, w)
	assert.Equal(t, "Draft", draft["status"])
	assert.Nil(t, draft["submittedAt"])
	id := draft["id"].(string)

	w = doJSON(t, router, http.MethodPut, "/api/applications/"+id+"/draft", `{"accountName": null, "businessName": "Acme"}`)
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode(t, w)
	assert.NotContains(t, updated, "accountName")
	assert.Equal(t, "Acme", updated["businessName"])
	assert.Equal(t, float64(2), updated["accountType"])

	w = doJSON(t, router, http.MethodGet, "/api/applications/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, decode(t, w), "accountName")

	ref := updated["referenceNumber"].(string)
	w = doJSON(t, router, http.MethodGet, "/api/applications/reference/"+ref, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, decode(t, w)["id"])
}

func TestApplicationController_UpdateDraft_Errors(t *testing.T) {
	router, _ := setupApplicationControllerTest(t)

	w := doJSON(t, router, http.MethodPut, "/api/applications/"+uuid.NewString()+"/draft", map[string]interface{}{})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "APPLICATION_NOT_FOUND", decode(t, w)["error"])

	w = doJSON(t, router, http.MethodPut, "/api/applications/not-a-uuid/draft", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/applications", individualPayload)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode(t, w)["id"].(string)

	w = doJSON(t, router, http.MethodPut, "/api/applications/"+id+"/draft", map[string]interface{}{"city": "Mysuru"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "APPLICATION_NOT_DRAFT", decode(t, w)["error"])
}

func TestApplicationController_GetNotFound(t *testing.T) {
	router, _ := setupApplicationControllerTest(t)

	w := doJSON(t, router, http.MethodGet, "/api/applications/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/applications/reference/LIC-00000000000000-0000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, decode(t, w)["message"])
}

func TestApplicationController_Validate(t *testing.T) {
	router, testDB := setupApplicationControllerTest(t)

	w := doJSON(t, router, http.MethodPost, "/api/applications/validate", individualPayload)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["isValid"])

	w = doJSON(t, router, http.MethodPost, "/api/applications/validate", map[string]interface{}{"accountType": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	response := decode(t, w)
	assert.Equal(t, false, response["isValid"])
	assert.Contains(t, response["errors"], "firstName")

	var count int64
	testDB.Model(&model.Application{}).Count(&count)
	assert.Zero(t, count)
}

func TestApplicationController_UpdateStatus(t *testing.T) {
	router, _ := setupApplicationControllerTest(t)

	w := doJSON(t, router, http.MethodPost, "/api/applications", individualPayload)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode(t, w)["id"].(string)

	w = doJSON(t, router, http.MethodPatch, "/api/applications/"+id+"/status", map[string]string{"status": "UnderReview"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "UnderReview", decode(t, w)["status"])

	w = doJSON(t, router, http.MethodPatch, "/api/applications/"+id+"/status", map[string]string{"status": "Draft"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "APPLICATION_INVALID_TRANSITION", decode(t, w)["error"])

	w = doJSON(t, router, http.MethodPatch, "/api/applications/"+id+"/status", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAccountTypeController_ListAccountTypes(t *testing.T) {
	router, _ := setupApplicationControllerTest(t)

	w := doJSON(t, router, http.MethodGet, "/api/accounttypes", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var types []model.AccountTypeInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &types))
	require.Len(t, types, 3)
	assert.Equal(t, model.AccountTypeBusiness, types[1].ID)
	assert.Equal(t, "Tax ID (GST/PAN)", types[1].Fields[2].Label)
}
