package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthRouter(h *HealthHandler) *gin.Engine {
	r := gin.New()
	r.GET("/", h.Root)
	r.GET("/health", h.HealthCheck)
	r.GET("/live", h.LivenessCheck)
	return r
}

func TestRoot(t *testing.T) {
	w := serve(healthRouter(NewHealthHandler(nil, nil)), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthCheck(t *testing.T) {
	w := serve(healthRouter(NewHealthHandler(newClient(t), nil)), httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `{
		"status": "healthy",
		"database": {"connected": true, "name": "memory", "version": "1", "edition": "embedded"}
	}`, w.Body.String())
}

func TestHealthCheck_StoreDown(t *testing.T) {
	w := serve(healthRouter(NewHealthHandler(brokenOrgChart{}, nil)), httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "unhealthy", response["status"])
	assert.Equal(t, map[string]any{"connected": false}, response["database"])
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestHealthCheck_NilAuditor(t *testing.T) {
	w := serve(healthRouter(NewHealthHandler(nil, nil)), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestLivenessCheck(t *testing.T) {
	w := serve(healthRouter(NewHealthHandler(nil, nil)), httptest.NewRequest(http.MethodGet, "/live", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "alive", response["status"])
	assert.Contains(t, response, "timestamp")
	assert.Contains(t, response, "version")
}
