package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/orgchart"
	"github.com/soundprediction/orgchart/pkg/auth"
	"github.com/soundprediction/orgchart/pkg/server/dto"
	"github.com/soundprediction/orgchart/pkg/types"
)

// DefaultAdminHeader carries the admin key on upload requests.
const DefaultAdminHeader = "X-Admin-Key"

// UploadHandler handles CSV uploads
type UploadHandler struct {
	importer   orgchart.Importer
	authorizer *auth.Authorizer
	header     string
	maxBytes   int64
	logger     *slog.Logger
}

// NewUploadHandler creates a new upload handler. maxBytes <= 0 leaves the
// body size unbounded.
func NewUploadHandler(importer orgchart.Importer, authorizer *auth.Authorizer, header string, maxBytes int64, logger *slog.Logger) *UploadHandler {
	if header == "" {
		header = DefaultAdminHeader
	}
	if authorizer == nil {
		authorizer = auth.NewAuthorizer("")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadHandler{
		importer:   importer,
		authorizer: authorizer,
		header:     header,
		maxBytes:   maxBytes,
		logger:     logger,
	}
}

// Upload handles POST /upload
func (h *UploadHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()
	requestID := types.RequestID(ctx)

	key := c.GetHeader(h.header)
	if key == "" {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Detail: dto.DetailMissingKey})
		return
	}
	if !h.authorizer.Authorize(key) {
		h.logger.WarnContext(ctx, "Rejected upload with invalid admin key", "request_id", requestID, "client_ip", c.ClientIP())
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Detail: dto.DetailInvalidKey})
		return
	}

	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}

	header, err := c.FormFile(dto.UploadField)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.logger.InfoContext(ctx, "Rejected oversized upload", "limit", tooLarge.Limit, "request_id", requestID)
		c.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{Detail: dto.DetailTooLarge})
		return
	}
	if err != nil || !dto.IsCSVFilename(header.Filename) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: dto.DetailCSVRequired})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: dto.DetailInvalidCSV})
		return
	}
	defer file.Close()

	summary, err := h.importer.ImportCSV(ctx, file)
	switch {
	case err == nil:
	case errors.Is(err, types.ErrInvalidInput):
		h.logger.InfoContext(ctx, "Rejected unreadable CSV", "file", header.Filename, "error", err, "request_id", requestID)
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: dto.DetailInvalidCSV})
		return
	default:
		attrs := []any{"file", header.Filename, "error", err, "request_id", requestID}
		if summary != nil {
			attrs = append(attrs, "imported", summary.Imported)
		}
		h.logger.ErrorContext(ctx, "Upload failed", attrs...)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Detail: dto.DetailInternal})
		return
	}

	h.logger.InfoContext(ctx, "Imported CSV upload",
		"file", header.Filename,
		"imported", summary.Imported,
		"relationships", summary.Relationships,
		"skipped", summary.Skipped,
		"request_id", requestID)

	c.JSON(http.StatusOK, dto.UploadResponse{Status: dto.StatusOK, Imported: summary.Imported})
}
