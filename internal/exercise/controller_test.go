package exercise

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"exercise_tracker/internal/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockExerciseService is a mock implementation of ExerciseServiceInterface
type MockExerciseService struct {
	mock.Mock
}

func (m *MockExerciseService) AddExercise(ctx context.Context, userID string, in ExerciseInput) (*ExerciseResponse, error) {
	args := m.Called(userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ExerciseResponse), args.Error(1)
}

func (m *MockExerciseService) GetLogs(ctx context.Context, userID string, q LogQuery) (*LogResponse, error) {
	args := m.Called(userID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*LogResponse), args.Error(1)
}

// setupTestRouter creates a test router with mocked service
func setupTestRouter(service ExerciseServiceInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	controller := NewExerciseController(service)
	router.POST("/api/users/:_id/exercises", controller.AddExercise)
	router.GET("/api/users/:_id/logs", controller.GetLogs)
	return router
}

var sampleResponse = &ExerciseResponse{
	Username:    "fcc_test",
	Description: "test",
	Duration:    60,
	Date:        "Mon Jan 01 1990",
	ID:          "u1",
}

func TestAddExercise_Form(t *testing.T) {
	service := new(MockExerciseService)
	router := setupTestRouter(service)

	service.On("AddExercise", "u1", ExerciseInput{Description: "test", Duration: "60", Date: "1990-01-01"}).Return(sampleResponse, nil)

	form := url.Values{"description": {"test"}, "duration": {"60"}, "date": {"1990-01-01"}}
	req := httptest.NewRequest(http.MethodPost, "/api/users/u1/exercises", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body ExerciseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, *sampleResponse, body)
	service.AssertExpectations(t)
}

func TestAddExercise_JSONNumericDuration(t *testing.T) {
	service := new(MockExerciseService)
	router := setupTestRouter(service)

	service.On("AddExercise", "u1", ExerciseInput{Description: "test", Duration: "60"}).Return(sampleResponse, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/users/u1/exercises", strings.NewReader(`{"description":"test","duration":60}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	service.AssertExpectations(t)
}

func TestAddExercise_EmptyJSONBodyReachesValidation(t *testing.T) {
	service := new(MockExerciseService)
	router := setupTestRouter(service)

	service.On("AddExercise", "u1", ExerciseInput{}).Return(nil, apperror.MissingField("Description and duration are required"))

	req := httptest.NewRequest(http.MethodPost, "/api/users/u1/exercises", nil)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Description and duration are required"}`, w.Body.String())
}

func TestAddExercise_MalformedJSON(t *testing.T) {
	service := new(MockExerciseService)
	router := setupTestRouter(service)

	req := httptest.NewRequest(http.MethodPost, "/api/users/u1/exercises", strings.NewReader(`{"description":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid request body"}`, w.Body.String())
	service.AssertNotCalled(t, "AddExercise", mock.Anything, mock.Anything)
}

func TestAddExercise_NonStringDescriptionRejected(t *testing.T) {
	service := new(MockExerciseService)
	router := setupTestRouter(service)

	req := httptest.NewRequest(http.MethodPost, "/api/users/u1/exercises", strings.NewReader(`{"description":{"x":1},"duration":10}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid request body"}`, w.Body.String())
	service.AssertNotCalled(t, "AddExercise", mock.Anything, mock.Anything)
}

func TestAddExercise_JSONZeroDurationIsMissing(t *testing.T) {
	service := new(MockExerciseService)
	router := setupTestRouter(service)

	service.On("AddExercise", "u1", ExerciseInput{Description: "test"}).Return(nil, apperror.MissingField("Description and duration are required"))

	req := httptest.NewRequest(http.MethodPost, "/api/users/u1/exercises", strings.NewReader(`{"description":"test","duration":0}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Description and duration are required"}`, w.Body.String())
	service.AssertExpectations(t)
}

func TestAddExercise_ServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"user not found", apperror.UserNotFound(), http.StatusBadRequest, `{"error":"User not found"}`},
		{"bad duration", apperror.InvalidNumber("Duration must be a number"), http.StatusBadRequest, `{"error":"Duration must be a number"}`},
		{"bad date", apperror.InvalidDate("Invalid date format"), http.StatusBadRequest, `{"error":"Invalid date format"}`},
		{"store failure", apperror.StoreFailure(assert.AnError), http.StatusInternalServerError, `{"error":"Server Error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockExerciseService)
			router := setupTestRouter(service)
			service.On("AddExercise", "u1", mock.Anything).Return(nil, tt.err)

			form := url.Values{"description": {"x"}, "duration": {"1"}}
			req := httptest.NewRequest(http.MethodPost, "/api/users/u1/exercises", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}

func TestGetLogs_PassesQuery(t *testing.T) {
	service := new(MockExerciseService)
	router := setupTestRouter(service)

	service.On("GetLogs", "u1", LogQuery{From: "1990-01-01", To: "1990-12-31", Limit: "1"}).Return(&LogResponse{
		Username: "fcc_test",
		Count:    1,
		ID:       "u1",
		Log:      []LogEntry{{Description: "test", Duration: 60, Date: "Mon Jan 01 1990"}},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/users/u1/logs?from=1990-01-01&to=1990-12-31&limit=1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"username": "fcc_test",
		"count": 1,
		"_id": "u1",
		"log": [{"description": "test", "duration": 60, "date": "Mon Jan 01 1990"}]
	}`, w.Body.String())
	service.AssertExpectations(t)
}

func TestGetLogs_InvalidLimit(t *testing.T) {
	service := new(MockExerciseService)
	router := setupTestRouter(service)

	service.On("GetLogs", "u1", LogQuery{Limit: "abc"}).Return(nil, apperror.InvalidNumber("Limit must be a positive number"))

	req := httptest.NewRequest(http.MethodGet, "/api/users/u1/logs?limit=abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Limit must be a positive number"}`, w.Body.String())
}
