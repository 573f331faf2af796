package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aircast/aircast/internal/api/models"
	"github.com/aircast/aircast/internal/api/response"
)

func newRequest(t *testing.T) *http.Request {
	t.Helper()
	return httptest.NewRequest(http.MethodGet, "/v1/stations", http.NoBody)
}

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	response.JSON(w, newRequest(t), http.StatusOK, map[string]string{"district": "Ernakulam"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Ernakulam", body["district"])
}

func TestJSONNilBody(t *testing.T) {
	w := httptest.NewRecorder()
	response.JSON(w, newRequest(t), http.StatusOK, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestBadRequest(t *testing.T) {
	w := httptest.NewRecorder()
	response.BadRequest(w, newRequest(t), "hours out of range", []models.FieldError{
		{Field: "hours", Message: "must be between 1 and 168"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	var problem models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, models.ProblemTypeValidation, problem.Type)
	assert.Equal(t, "hours out of range", problem.Detail)
	assert.Equal(t, "/v1/stations", problem.Instance)
	require.Len(t, problem.Errors, 1)
}

func TestNotFound(t *testing.T) {
	w := httptest.NewRecorder()
	response.NotFound(w, newRequest(t), "station not found")

	assert.Equal(t, http.StatusNotFound, w.Code)

	var problem models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, models.ProblemTypeNotFound, problem.Type)
	assert.Equal(t, "station not found", problem.Detail)
}

func TestInternalError(t *testing.T) {
	w := httptest.NewRecorder()
	response.InternalError(w, newRequest(t), "unexpected failure")

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var problem models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, models.ProblemTypeInternal, problem.Type)
}

func TestCreated(t *testing.T) {
	w := httptest.NewRecorder()
	response.Created(w, newRequest(t), "/v1/alerts/subscriptions/sub_123", map[string]string{"id": "sub_123"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/v1/alerts/subscriptions/sub_123", w.Header().Get("Location"))
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	response.NoContent(w, newRequest(t))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}
