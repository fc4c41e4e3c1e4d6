package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/orgchart"
	"github.com/soundprediction/orgchart/pkg/server/dto"
	"github.com/soundprediction/orgchart/pkg/types"
)

// Build information - can be set at build time using ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// healthTimeout bounds the store ping of GET /health.
const healthTimeout = 5 * time.Second

// HealthHandler handles health check requests
type HealthHandler struct {
	auditor orgchart.GraphAuditor
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(auditor orgchart.GraphAuditor, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{auditor: auditor, logger: logger}
}

// Root handles GET /
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, dto.StatusResponse{Status: dto.StatusOK})
}

// HealthCheck handles GET /health - pings the graph store
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if h.auditor == nil {
		c.JSON(http.StatusServiceUnavailable, dto.HealthResponse{
			Status: dto.StatusUnhealthy,
			Detail: dto.DetailStoreUnhealthy,
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	info, err := h.auditor.Health(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Health check failed", "error", err, "request_id", types.RequestID(ctx))
		c.JSON(http.StatusServiceUnavailable, dto.HealthResponse{
			Status: dto.StatusUnhealthy,
			Detail: dto.DetailStoreUnhealthy,
		})
		return
	}

	c.JSON(http.StatusOK, dto.HealthResponse{
		Status: dto.StatusHealthy,
		Database: dto.DatabaseStatus{
			Connected: true,
			Name:      info.Name,
			Version:   info.Version,
			Edition:   info.Edition,
		},
	})
}

// LivenessCheck handles GET /live - Kubernetes liveness probe endpoint
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    dto.StatusAlive,
		"service":   "orgchart",
		"version":   Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
