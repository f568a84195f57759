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
	"github.com/shenikar/emergency_reporting_system/internal/config"
	"github.com/shenikar/emergency_reporting_system/internal/metrics"
	"github.com/shenikar/emergency_reporting_system/internal/models"
	"github.com/shenikar/emergency_reporting_system/internal/service"
	"github.com/shenikar/emergency_reporting_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var apiKey = map[string]string{"X-API-Key": "test-api-key"}

var (
	adminIdentity     = &models.Identity{ID: "admin-1", Email: "admin@ers.com", Role: models.RoleAdmin}
	responderIdentity = &models.Identity{ID: "resp-1", Email: "chief@firedept.com", Role: models.RoleResponder}
	userIdentity      = &models.Identity{ID: "user-1", Email: "john@example.com", Role: models.RoleUser}
)

type testDeps struct {
	sessions  *mocks.MockSessionService
	incidents *mocks.MockIncidentService
	router    *gin.Engine
}

// newTestHandler создает Handler с мокированными сервисами
func newTestHandler(t *testing.T) *testDeps {
	return newTestHandlerWithConfig(t, &config.Config{
		APIKeys:    []string{"test-api-key"},
		SignInRate: "1000-M",
	})
}

func newTestHandlerWithConfig(t *testing.T, cfg *config.Config) *testDeps {
	ctrl := gomock.NewController(t)
	sessions := mocks.NewMockSessionService(ctrl)
	incidents := mocks.NewMockIncidentService(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	handler := NewHandler(sessions, incidents, logger, cfg, metrics.New())

	// Настройка Gin роутера для тестов
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	return &testDeps{sessions: sessions, incidents: incidents, router: router}
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

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func (d *testDeps) signedInAs(identity *models.Identity) {
	d.sessions.EXPECT().CurrentIdentity().Return(identity, identity != nil).AnyTimes()
}

func TestSignIn_Success(t *testing.T) {
	d := newTestHandler(t)

	d.sessions.EXPECT().SignIn(gomock.Any(), "admin@ers.com", "admin123").Return(true, nil).Times(1)
	d.sessions.EXPECT().Busy().Return(false).Times(1)
	d.signedInAs(adminIdentity)

	w := makeRequest(d.router, "POST", "/api/v1/auth/sign-in", jsonBody(t, SignInRequest{Email: "admin@ers.com", Password: "admin123"}))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Authenticated)
	require.NotNil(t, resp.Identity)
	assert.Equal(t, "admin", resp.Identity.Role)
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	d := newTestHandler(t)

	d.sessions.EXPECT().SignIn(gomock.Any(), "nobody@x.com", "whatever").Return(false, nil).Times(1)

	w := makeRequest(d.router, "POST", "/api/v1/auth/sign-in", jsonBody(t, SignInRequest{Email: "nobody@x.com", Password: "whatever"}))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid credentials")
}

func TestSignIn_ValidationError(t *testing.T) {
	d := newTestHandler(t)

	d.sessions.EXPECT().SignIn(gomock.Any(), gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	w := makeRequest(d.router, "POST", "/api/v1/auth/sign-in", jsonBody(t, SignInRequest{Email: "not-an-email", Password: "x"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error:Field validation for 'Email' failed on the 'email' tag")
}

func TestSignIn_ServiceError(t *testing.T) {
	d := newTestHandler(t)

	d.sessions.EXPECT().SignIn(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(false, fmt.Errorf("service: could not sign in: %w", service.ErrInfrastructure)).Times(1)

	w := makeRequest(d.router, "POST", "/api/v1/auth/sign-in", jsonBody(t, SignInRequest{Email: "john@example.com", Password: "secret1"}))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestSignIn_RateLimited(t *testing.T) {
	d := newTestHandlerWithConfig(t, &config.Config{SignInRate: "2-M"})

	d.sessions.EXPECT().SignIn(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil).Times(2)

	for i := 0; i < 2; i++ {
		w := makeRequest(d.router, "POST", "/api/v1/auth/sign-in", jsonBody(t, SignInRequest{Email: "john@example.com", Password: "wrong"}))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := makeRequest(d.router, "POST", "/api/v1/auth/sign-in", jsonBody(t, SignInRequest{Email: "john@example.com", Password: "wrong"}))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "too many sign-in attempts")
}

func TestSignUp_Success(t *testing.T) {
	d := newTestHandler(t)
	newIdentity := &models.Identity{ID: "user-42", Name: "Jane", Email: "jane@example.com", Role: models.RoleUser}

	d.sessions.EXPECT().
		SignUp(gomock.Any(), "jane@example.com", "secret1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, profile *models.Profile) (bool, error) {
			assert.Equal(t, "Jane", profile.Name)
			assert.Equal(t, "+100", profile.Phone)
			return true, nil
		}).Times(1)
	d.sessions.EXPECT().Busy().Return(false).Times(1)
	d.signedInAs(newIdentity)

	w := makeRequest(d.router, "POST", "/api/v1/auth/sign-up", jsonBody(t, SignUpRequest{
		Email: "jane@example.com", Password: "secret1", Name: "Jane", Phone: "+100",
	}))

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "user-42", resp.Identity.ID)
}

func TestSignUp_EmailTaken(t *testing.T) {
	d := newTestHandler(t)

	d.sessions.EXPECT().SignUp(gomock.Any(), "john@example.com", "secret1", gomock.Any()).Return(false, nil).Times(1)

	w := makeRequest(d.router, "POST", "/api/v1/auth/sign-up", jsonBody(t, SignUpRequest{Email: "john@example.com", Password: "secret1"}))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "email already registered")
}

func TestSignUp_ShortPassword(t *testing.T) {
	d := newTestHandler(t)

	d.sessions.EXPECT().SignUp(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(d.router, "POST", "/api/v1/auth/sign-up", jsonBody(t, SignUpRequest{Email: "jane@example.com", Password: "123"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "'min' tag")
}

func TestSignOutAndSession(t *testing.T) {
	d := newTestHandler(t)

	d.sessions.EXPECT().SignOut(gomock.Any()).Times(1)
	d.sessions.EXPECT().Busy().Return(true).Times(1)
	d.signedInAs(nil)

	w := makeRequest(d.router, "POST", "/api/v1/auth/sign-out", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = makeRequest(d.router, "GET", "/api/v1/auth/session", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Authenticated)
	assert.True(t, resp.Busy)
	assert.Nil(t, resp.Identity)
}

func TestCreateIncident_Success(t *testing.T) {
	d := newTestHandler(t)
	reqBody := CreateIncidentRequest{
		Type:          "fire",
		Description:   "Smoke on the third floor",
		Location:      "Main St 1",
		ResponderType: "fire-dept",
		Severity:      "high",
	}
	createdAt := time.Now()

	d.signedInAs(userIdentity)
	d.incidents.EXPECT().
		CreateIncident(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inc *models.Incident) error {
			assert.Equal(t, "user-1", inc.OwnerID)
			assert.Equal(t, models.CategoryFire, inc.Category)
			inc.ID = "r1" // Сервис проставляет идентификатор и статус
			inc.Status = models.StatusReported
			inc.CreatedAt = createdAt
			inc.UpdatedAt = createdAt
			return nil
		}).Times(1)

	w := makeRequest(d.router, "POST", "/api/v1/incidents", jsonBody(t, reqBody), apiKey)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "r1", resp.ID)
	assert.Equal(t, "Fire Emergency", resp.TypeLabel)
	assert.Equal(t, "reported", resp.Status)
	assert.Equal(t, "user-1", resp.UserID)
}

func TestCreateIncident_AnonymousHasNoOwner(t *testing.T) {
	d := newTestHandler(t)
	reqBody := CreateIncidentRequest{
		Type:          "police",
		Description:   "Break-in",
		Location:      "Oak Ave 5",
		ResponderType: "police",
		Severity:      "medium",
		IsAnonymous:   true,
	}

	d.signedInAs(userIdentity)
	d.incidents.EXPECT().
		CreateIncident(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inc *models.Incident) error {
			assert.Empty(t, inc.OwnerID)
			inc.ID = "r2"
			return nil
		}).Times(1)

	w := makeRequest(d.router, "POST", "/api/v1/incidents", jsonBody(t, reqBody), apiKey)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "user_id")
}

func TestCreateIncident_InvalidJSON(t *testing.T) {
	d := newTestHandler(t)

	d.incidents.EXPECT().CreateIncident(gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	w := makeRequest(d.router, "POST", "/api/v1/incidents", bytes.NewBufferString(`{"type": "fire"`), apiKey)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestCreateIncident_ValidationError(t *testing.T) {
	d := newTestHandler(t)
	reqBody := CreateIncidentRequest{ // Неизвестная категория
		Type:          "alien",
		Description:   "Lights in the sky",
		Location:      "Field",
		ResponderType: "police",
		Severity:      "low",
	}

	d.incidents.EXPECT().CreateIncident(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(d.router, "POST", "/api/v1/incidents", jsonBody(t, reqBody), apiKey)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error:Field validation for 'Type' failed on the 'oneof' tag")
}

func TestCreateIncident_ServiceError(t *testing.T) {
	d := newTestHandler(t)
	reqBody := CreateIncidentRequest{
		Type:          "medical",
		Description:   "Person collapsed",
		Location:      "Station",
		ResponderType: "medical",
		Severity:      "critical",
	}

	d.signedInAs(nil)
	d.incidents.EXPECT().
		CreateIncident(gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("service: could not create incident: %w: %w", service.ErrInfrastructure, errors.New("boom"))).
		Times(1)

	w := makeRequest(d.router, "POST", "/api/v1/incidents", jsonBody(t, reqBody), apiKey)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestCreateIncident_Unauthorized(t *testing.T) {
	d := newTestHandler(t)

	d.incidents.EXPECT().CreateIncident(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(d.router, "POST", "/api/v1/incidents", bytes.NewBufferString(`{}`))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "API key required")

	w = makeRequest(d.router, "POST", "/api/v1/incidents", bytes.NewBufferString(`{}`), map[string]string{"Authorization": "Bearer wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid API key")
}

func TestGetIncident_Success(t *testing.T) {
	d := newTestHandler(t)
	expected := &models.Incident{ID: "r1", Category: models.CategoryAccident, Status: models.StatusReported, OwnerID: "user-1", IsAnonymous: true}

	d.incidents.EXPECT().GetIncident(gomock.Any(), "r1").Return(expected, nil).Times(1)

	w := makeRequest(d.router, "GET", "/api/v1/incidents/r1", nil, map[string]string{"Authorization": "Bearer test-api-key"})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "r1", resp.ID)
	assert.Empty(t, resp.UserID)
}

func TestGetIncident_NotFound(t *testing.T) {
	d := newTestHandler(t)

	d.incidents.EXPECT().GetIncident(gomock.Any(), "ghost").
		Return(nil, fmt.Errorf("service: could not get incident: %w", service.ErrIncidentNotFound)).Times(1)

	w := makeRequest(d.router, "GET", "/api/v1/incidents/ghost", nil, apiKey)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "incident not found")
}

func TestListIncidents_WithFilter(t *testing.T) {
	d := newTestHandler(t)
	expected := []*models.Incident{
		{ID: "r2", Status: models.StatusReported, Severity: models.SeverityHigh},
		{ID: "r1", Status: models.StatusReported, Severity: models.SeverityHigh},
	}

	d.incidents.EXPECT().
		ListIncidents(gomock.Any(), models.IncidentFilter{Status: models.StatusReported, Severity: models.SeverityHigh}).
		Return(expected, nil).Times(1)

	w := makeRequest(d.router, "GET", "/api/v1/incidents?status=reported&severity=high", nil, apiKey)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "r2", resp[0].ID)
}

func TestListIncidents_InvalidFilter(t *testing.T) {
	d := newTestHandler(t)

	d.incidents.EXPECT().ListIncidents(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(d.router, "GET", "/api/v1/incidents?status=closed", nil, apiKey)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid value")
}

func TestListIncidents_ServiceError(t *testing.T) {
	d := newTestHandler(t)

	d.incidents.EXPECT().ListIncidents(gomock.Any(), models.IncidentFilter{}).
		Return(nil, fmt.Errorf("service: %w", service.ErrInfrastructure)).Times(1)

	w := makeRequest(d.router, "GET", "/api/v1/incidents", nil, apiKey)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestListMyIncidents(t *testing.T) {
	d := newTestHandler(t)

	d.signedInAs(userIdentity)
	d.incidents.EXPECT().GetIncidentsByUser(gomock.Any(), "user-1").
		Return([]*models.Incident{{ID: "r1", OwnerID: "user-1"}}, nil).Times(1)

	w := makeRequest(d.router, "GET", "/api/v1/incidents/mine", nil, apiKey)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"user-1"`)
}

func TestListMyIncidents_RequiresSession(t *testing.T) {
	d := newTestHandler(t)

	d.signedInAs(nil)
	d.incidents.EXPECT().GetIncidentsByUser(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(d.router, "GET", "/api/v1/incidents/mine", nil, apiKey)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "sign in required")
}

func TestUpdateIncident_Success(t *testing.T) {
	d := newTestHandler(t)
	status := "resolved"
	location := "Main St 2"

	d.signedInAs(adminIdentity)
	d.incidents.EXPECT().
		UpdateIncident(gomock.Any(), "r1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, patch models.IncidentPatch) (*models.Incident, error) {
			require.NotNil(t, patch.Status)
			assert.Equal(t, models.StatusResolved, *patch.Status)
			assert.Equal(t, location, *patch.Location)
			assert.Nil(t, patch.Description)
			assert.Nil(t, patch.Severity)
			return &models.Incident{ID: "r1", Status: models.StatusResolved, Location: location}, nil
		}).Times(1)

	w := makeRequest(d.router, "PATCH", "/api/v1/incidents/r1", jsonBody(t, UpdateIncidentRequest{Status: &status, Location: &location}), apiKey)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"resolved"`)
}

func TestUpdateIncident_InvalidStatus(t *testing.T) {
	d := newTestHandler(t)
	status := "closed"

	d.signedInAs(adminIdentity)
	d.incidents.EXPECT().UpdateIncident(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(d.router, "PATCH", "/api/v1/incidents/r1", jsonBody(t, UpdateIncidentRequest{Status: &status}), apiKey)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "'oneof' tag")
}

func TestUpdateIncident_NotFound(t *testing.T) {
	d := newTestHandler(t)
	severity := "low"

	d.signedInAs(adminIdentity)
	d.incidents.EXPECT().UpdateIncident(gomock.Any(), "ghost", gomock.Any()).
		Return(nil, fmt.Errorf("service: could not update incident: %w", service.ErrIncidentNotFound)).Times(1)

	w := makeRequest(d.router, "PATCH", "/api/v1/incidents/ghost", jsonBody(t, UpdateIncidentRequest{Severity: &severity}), apiKey)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateIncident_ForbiddenForUser(t *testing.T) {
	d := newTestHandler(t)

	d.signedInAs(userIdentity)
	d.incidents.EXPECT().UpdateIncident(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(d.router, "PATCH", "/api/v1/incidents/r1", bytes.NewBufferString(`{}`), apiKey)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "forbidden")
}

func TestResponderTransitions(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		setup      func(m *mocks.MockIncidentService)
		wantStatus int
		wantBody   string
	}{
		{
			name: "accept",
			path: "/api/v1/incidents/r1/accept",
			setup: func(m *mocks.MockIncidentService) {
				m.EXPECT().AcceptIncident(gomock.Any(), "r1").
					Return(&models.Incident{ID: "r1", Status: models.StatusInProgress}, nil).Times(1)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"status":"in-progress"`,
		},
		{
			name: "resolve from reported",
			path: "/api/v1/incidents/r1/resolve",
			setup: func(m *mocks.MockIncidentService) {
				m.EXPECT().ResolveIncident(gomock.Any(), "r1").
					Return(nil, fmt.Errorf("service: %w", service.ErrInvalidTransition)).Times(1)
			},
			wantStatus: http.StatusConflict,
			wantBody:   "invalid status transition",
		},
		{
			name: "reject",
			path: "/api/v1/incidents/r1/reject",
			setup: func(m *mocks.MockIncidentService) {
				m.EXPECT().RejectIncident(gomock.Any(), "r1").
					Return(&models.Incident{ID: "r1", Status: models.StatusRejected}, nil).Times(1)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"status":"rejected"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestHandler(t)
			d.signedInAs(responderIdentity)
			tt.setup(d.incidents)

			w := makeRequest(d.router, "POST", tt.path, nil, apiKey)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestAcceptIncident_ForbiddenForUser(t *testing.T) {
	d := newTestHandler(t)

	d.signedInAs(userIdentity)
	d.incidents.EXPECT().AcceptIncident(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(d.router, "POST", "/api/v1/incidents/r1/accept", nil, apiKey)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetStats_Success(t *testing.T) {
	d := newTestHandler(t)
	stats := &models.IncidentStats{
		Total:      3,
		ByStatus:   map[models.Status]int{models.StatusReported: 2, models.StatusResolved: 1},
		BySeverity: map[models.Severity]int{models.SeverityHigh: 3},
	}

	d.signedInAs(adminIdentity)
	d.incidents.EXPECT().GetStats(gomock.Any()).Return(stats, nil).Times(1)

	w := makeRequest(d.router, "GET", "/api/v1/incidents/stats", nil, apiKey)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 2, resp.ByStatus["reported"])
	assert.Equal(t, 3, resp.BySeverity["high"])
}

func TestGetStats_ServiceError(t *testing.T) {
	d := newTestHandler(t)

	d.signedInAs(adminIdentity)
	d.incidents.EXPECT().GetStats(gomock.Any()).Return(nil, fmt.Errorf("service: %w", service.ErrInfrastructure)).Times(1)

	w := makeRequest(d.router, "GET", "/api/v1/incidents/stats", nil, apiKey)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestListUsers(t *testing.T) {
	d := newTestHandler(t)

	d.signedInAs(adminIdentity)
	d.sessions.EXPECT().ListIdentities(gomock.Any()).Return(models.SeedIdentities(), nil).Times(1)
	d.sessions.EXPECT().CountByRole(gomock.Any()).
		Return(map[models.Role]int{models.RoleAdmin: 1, models.RoleResponder: 2, models.RoleUser: 1}, nil).Times(1)

	w := makeRequest(d.router, "GET", "/api/v1/users", nil, apiKey)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp UsersResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Users, 4)
	assert.Equal(t, 2, resp.ByRole["responder"])
}

func TestCatalog(t *testing.T) {
	d := newTestHandler(t)

	w := makeRequest(d.router, "GET", "/api/v1/catalog", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp CatalogResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Types, 6)
	assert.Equal(t, CatalogEntry{Value: "fire-dept", Label: "Fire Department"}, resp.ResponderTypes[0])
	assert.Len(t, resp.Statuses, 4)
}

func TestHealthCheck(t *testing.T) {
	d := newTestHandler(t)

	w := makeRequest(d.router, "GET", "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
