package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lunary-backend/internal/retrograde"
)

func setupRetrogradeRouter(table *retrograde.Table) *gin.Engine {
	r := gin.Default()
	handler := NewHandler(nil, nil, nil, table, nil)
	r.GET("/api/retrograde", handler.GetRetrogradeStatus)
	return r
}

func TestGetRetrogradeStatus_Inactive(t *testing.T) {
	table, err := retrograde.NewTable(nil)
	require.NoError(t, err)
	router := setupRetrogradeRouter(table)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/retrograde", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["is_active"])
	assert.Equal(t, false, resp["is_completed"])
	assert.EqualValues(t, 0, resp["survival_days"])
	assert.NotContains(t, resp, "planet")
}

func TestGetUserSnapshot_InvalidUserID(t *testing.T) {
	r := gin.Default()
	handler := NewHandler(nil, nil, nil, nil, nil)
	r.GET("/api/users/:user_id/snapshot", handler.GetUserSnapshot)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/users/not-a-number/snapshot", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid user ID"}`, w.Body.String())
}

func TestPutBirthChart_RejectsEmptyChart(t *testing.T) {
	r := gin.Default()
	handler := NewHandler(nil, nil, nil, nil, nil)
	r.PUT("/api/users/:user_id/birth-chart", handler.PutBirthChart)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/api/users/42/birth-chart", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetGlobalCosmic_RejectsBadDate(t *testing.T) {
	r := gin.Default()
	handler := NewHandler(nil, nil, nil, nil, nil)
	r.GET("/api/cosmic/today", handler.GetGlobalCosmic)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/cosmic/today?date=14-03-2025", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid date. Use YYYY-MM-DD."}`, w.Body.String())
}
