package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/orgchart"
	"github.com/soundprediction/orgchart/pkg/server/dto"
	"github.com/soundprediction/orgchart/pkg/types"
)

// EmployeeHandler serves subtree queries
type EmployeeHandler struct {
	querier orgchart.HierarchyQuerier
	logger  *slog.Logger
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(querier orgchart.HierarchyQuerier, logger *slog.Logger) *EmployeeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmployeeHandler{querier: querier, logger: logger}
}

// Subtree handles GET /employee?name=
func (h *EmployeeHandler) Subtree(c *gin.Context) {
	name, ok := c.GetQuery("name")
	if !ok || strings.TrimSpace(name) == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: dto.DetailNameRequired})
		return
	}

	ctx := c.Request.Context()
	graph, err := h.querier.Employee(ctx, name)
	if err != nil {
		h.logger.ErrorContext(ctx, "Subtree query failed", "name", name, "error", err, "request_id", types.RequestID(ctx))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Detail: dto.DetailInternal})
		return
	}

	c.JSON(http.StatusOK, graph)
}
