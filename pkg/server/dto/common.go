// Package dto holds the request and response bodies of the HTTP API.
package dto

import (
	"path/filepath"
	"strings"
)

// Status values reported by the API.
const (
	StatusOK        = "ok"
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusAlive     = "alive"
)

// User-facing error details. Store failures never expose their cause.
const (
	DetailCSVRequired    = "CSV file required"
	DetailInvalidCSV     = "Could not read CSV file"
	DetailTooLarge       = "Upload exceeds the size limit"
	DetailMissingKey     = "Admin key required"
	DetailInvalidKey     = "Invalid admin key"
	DetailNameRequired   = "Query parameter 'name' is required"
	DetailInternal       = "Internal server error"
	DetailStoreUnhealthy = "Graph database is unreachable"
)

// UploadField is the multipart field carrying the CSV file.
const UploadField = "file"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// StatusResponse is the body of simple probes.
type StatusResponse struct {
	Status string `json:"status"`
}

// DatabaseStatus describes the graph store in a health response.
type DatabaseStatus struct {
	Connected bool   `json:"connected"`
	Name      string `json:"name,omitempty"`
	Version   string `json:"version,omitempty"`
	Edition   string `json:"edition,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string         `json:"status"`
	Detail   string         `json:"detail,omitempty"`
	Database DatabaseStatus `json:"database"`
}

// UploadResponse is the body of a successful POST /upload.
type UploadResponse struct {
	Status   string `json:"status"`
	Imported int    `json:"imported"`
}

// IsCSVFilename reports whether name has a .csv extension, in any case.
func IsCSVFilename(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}
