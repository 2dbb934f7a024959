package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/shenikar/travel_safety_alerts/internal/config"
	"github.com/shenikar/travel_safety_alerts/internal/models"
	"github.com/shenikar/travel_safety_alerts/internal/service/mocks"
)

// newTestHandler создает новый экземпляр Handler с мокированными сервисами
func newTestHandler(t *testing.T) (*mocks.MockIncidentService, *mocks.MockUserService, *gin.Engine) {
	ctrl := gomock.NewController(t)
	incidentMock := mocks.NewMockIncidentService(ctrl)
	userMock := mocks.NewMockUserService(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		APIKeys: []string{"test-api-key"},
	}

	handler := NewHandler(incidentMock, userMock, logger, cfg)

	// Настройка Gin роутера для тестов
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	return incidentMock, userMock, router
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterUser_Success(t *testing.T) {
	_, userMock, router := newTestHandler(t)
	reqBody := RegisterUserRequest{
		Username: "traveler",
		Email:    "traveler@example.com",
		Password: "s3cret-pass",
	}

	userMock.EXPECT().
		Register(gomock.Any(), gomock.Any(), "s3cret-pass").
		DoAndReturn(func(_ context.Context, u *models.User, _ string) error {
			u.ID = 7
			u.CreatedAt = time.Now()
			return nil
		}).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/users", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp UserResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, "traveler", resp.Username)
}

func TestRegisterUser_ValidationError(t *testing.T) {
	_, userMock, router := newTestHandler(t)
	reqBody := RegisterUserRequest{ // Отсутствует Email
		Username: "traveler",
		Password: "s3cret-pass",
	}

	userMock.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/users", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error:Field validation for 'Email' failed on the 'required' tag")
}

func TestGetPreferences_Success(t *testing.T) {
	_, userMock, router := newTestHandler(t)
	expected := &models.Preference{
		UserID:           9,
		AlertViaWhatsApp: true,
		WhatsAppNumber:   "+79990001122",
	}

	userMock.EXPECT().GetPreferences(gomock.Any(), int64(9)).Return(expected, nil).Times(1)

	w := makeRequest(router, "GET", "/api/v1/users/9/preferences", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp PreferencesResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, int64(9), resp.UserID)
	assert.True(t, resp.AlertViaWhatsApp)
}

func TestGetPreferences_InvalidID(t *testing.T) {
	_, userMock, router := newTestHandler(t)

	userMock.EXPECT().GetPreferences(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/v1/users/not-a-number/preferences", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid id")
}

func TestUpdatePreferences_Success(t *testing.T) {
	_, userMock, router := newTestHandler(t)
	reqBody := UpdatePreferencesRequest{
		AlertViaWhatsApp: true,
		WhatsAppNumber:   "+79990001122",
	}

	userMock.EXPECT().
		UpdatePreferences(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, pref *models.Preference) error {
			assert.Equal(t, int64(9), pref.UserID)
			assert.True(t, pref.AlertViaWhatsApp)
			return nil
		}).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "PUT", "/api/v1/users/9/preferences", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdatePreferences_UnknownUser(t *testing.T) {
	_, userMock, router := newTestHandler(t)
	reqBody := UpdatePreferencesRequest{AlertViaEmail: true, Email: "mail@example.com"}

	userMock.EXPECT().
		UpdatePreferences(gomock.Any(), gomock.Any()).
		Return(errors.New("preferences for user 404 not found for update")).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "PUT", "/api/v1/users/404/preferences", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "preferences not found")
}

func TestReportIncident_Success(t *testing.T) {
	incidentMock, _, router := newTestHandler(t)
	reqBody := ReportIncidentRequest{
		UserID:      7,
		Location:    "Barcelona, Spain",
		Category:    "theft",
		Description: "Pickpocket near the station",
	}

	incidentMock.EXPECT().
		ReportIncident(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inc *models.Incident) error {
			inc.ID = 42
			inc.CreatedAt = time.Now()
			return nil
		}).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp IncidentResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.ID)
	assert.False(t, resp.Approved)
}

func TestReportIncident_InvalidJSON(t *testing.T) {
	incidentMock, _, router := newTestHandler(t)

	incidentMock.EXPECT().ReportIncident(gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBufferString(`{"location": "test"`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestReportIncident_InvalidCategory(t *testing.T) {
	incidentMock, _, router := newTestHandler(t)
	reqBody := ReportIncidentRequest{
		UserID:   7,
		Location: "Barcelona, Spain",
		Category: "volcano",
	}

	incidentMock.EXPECT().ReportIncident(gomock.Any(), gomock.Any()).Times(0)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error:Field validation for 'Category' failed on the 'oneof' tag")
}

func TestGetIncident_Success(t *testing.T) {
	incidentMock, _, router := newTestHandler(t)
	expected := &models.Incident{
		ID:       13,
		Location: "Bangkok, Thailand",
		Category: models.CategoryHarassment,
		Approved: true,
	}

	incidentMock.EXPECT().GetIncident(gomock.Any(), int64(13)).Return(expected, nil).Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents/13", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp IncidentResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, int64(13), resp.ID)
	assert.Equal(t, expected.Location, resp.Location)
}

func TestGetIncident_NotFound(t *testing.T) {
	incidentMock, _, router := newTestHandler(t)

	incidentMock.EXPECT().
		GetIncident(gomock.Any(), int64(99)).
		Return(nil, errors.New("incident not found")).
		Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents/99", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "incident not found")
}

func TestListIncidents_Success(t *testing.T) {
	incidentMock, _, router := newTestHandler(t)
	expected := []*models.Incident{
		{ID: 1, Location: "Rome, Italy", Category: models.CategoryTheft},
		{ID: 2, Location: "Paris, France", Category: models.CategoryScam, Approved: true},
	}

	incidentMock.EXPECT().ListIncidents(gomock.Any(), 1, 20).Return(expected, nil).Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents?page=1&pageSize=20", nil, map[string]string{"X-API-Key": "test-api-key"})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []IncidentResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Len(t, resp, 2)
	assert.Equal(t, expected[0].Location, resp[0].Location)
}

func TestListIncidents_Unauthorized(t *testing.T) {
	incidentMock, _, router := newTestHandler(t)

	incidentMock.EXPECT().ListIncidents(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/v1/incidents", nil) // Нет API ключа

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "API key required")
}

func TestApproveIncident_Success(t *testing.T) {
	incidentMock, _, router := newTestHandler(t)

	incidentMock.EXPECT().ApproveIncident(gomock.Any(), int64(5)).Return(nil).Times(1)

	w := makeRequest(router, "POST", "/api/v1/incidents/5/approve", nil, map[string]string{"X-API-Key": "test-api-key"})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestApproveIncident_NotFound(t *testing.T) {
	incidentMock, _, router := newTestHandler(t)

	incidentMock.EXPECT().
		ApproveIncident(gomock.Any(), int64(404)).
		Return(errors.New("incident with id 404 not found for approve")).
		Times(1)

	w := makeRequest(router, "POST", "/api/v1/incidents/404/approve", nil, map[string]string{"X-API-Key": "test-api-key"})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "incident not found")
}

func TestApproveIncident_Unauthorized(t *testing.T) {
	incidentMock, _, router := newTestHandler(t)

	incidentMock.EXPECT().ApproveIncident(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "POST", "/api/v1/incidents/5/approve", nil, map[string]string{"X-API-Key": "wrong-key"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid API key")
}

func TestRejectIncident_Success(t *testing.T) {
	incidentMock, _, router := newTestHandler(t)

	incidentMock.EXPECT().RejectIncident(gomock.Any(), int64(8)).Return(nil).Times(1)

	w := makeRequest(router, "DELETE", "/api/v1/incidents/8", nil, map[string]string{"X-API-Key": "test-api-key"})

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRejectIncident_InvalidID(t *testing.T) {
	incidentMock, _, router := newTestHandler(t)

	incidentMock.EXPECT().RejectIncident(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "DELETE", "/api/v1/incidents/not-a-number", nil, map[string]string{"X-API-Key": "test-api-key"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid id")
}

func TestListRisks_Success(t *testing.T) {
	incidentMock, _, router := newTestHandler(t)
	approved := []*models.Incident{
		{ID: 1, Location: "Rome, Italy", Category: models.CategoryTheft, Approved: true},
	}

	incidentMock.EXPECT().ListRisks(gomock.Any()).Return(approved, nil).Times(1)

	w := makeRequest(router, "GET", "/api/v1/risks", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []IncidentResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Len(t, resp, 1)
	assert.True(t, resp[0].Approved)
}

func TestGetStats_Success(t *testing.T) {
	incidentMock, _, router := newTestHandler(t)
	expected := &models.Stats{
		PendingIncidents:  3,
		ApprovedIncidents: 12,
		TotalUsers:        40,
	}

	incidentMock.EXPECT().GetStats(gomock.Any()).Return(expected, nil).Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents/stats", nil, map[string]string{"X-API-Key": "test-api-key"})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp StatsResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.PendingIncidents)
	assert.Equal(t, 12, resp.ApprovedIncidents)
	assert.Equal(t, 40, resp.TotalUsers)
}

func TestGetStats_ServiceError(t *testing.T) {
	incidentMock, _, router := newTestHandler(t)

	incidentMock.EXPECT().GetStats(gomock.Any()).Return(nil, fmt.Errorf("db is down")).Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents/stats", nil, map[string]string{"X-API-Key": "test-api-key"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestHealthCheck_Success(t *testing.T) {
	_, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestAPIKeyAuthMiddleware_BearerHeader(t *testing.T) {
	// Создаем Gin-роутер и добавляем middleware
	gin.SetMode(gin.TestMode)
	router := gin.New()
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	cfg := &config.Config{
		APIKeys: []string{"valid-key"},
	}

	router.Use(APIKeyAuthMiddleware(cfg, logger))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := makeRequest(router, "GET", "/test", nil, map[string]string{"Authorization": "Bearer valid-key"})
	assert.Equal(t, http.StatusOK, w.Code)
}
