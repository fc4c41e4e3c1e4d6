package types

import (
	"context"
	"errors"
)

var (
	// ErrStore wraps any failure reported by the graph store.
	ErrStore = errors.New("graph store error")
	// ErrInvalidInput marks input rejected before touching the store.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmptyIdentity is returned for rows that resolve to no identity key.
	ErrEmptyIdentity = errors.New("identity key cannot be empty")
)

// ContextKey is the type for values orgchart stores in a context.Context.
type ContextKey string

const (
	// ContextKeyRequestID carries the X-Request-ID of the current request.
	ContextKeyRequestID ContextKey = "request_id"
	// ContextKeyRequestSource records which surface issued the call (server, cli).
	ContextKeyRequestSource ContextKey = "request_source"
)

// RequestID returns the request id stored in ctx values, or "".
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return v
	}
	return ""
}

// ImportSummary reports the outcome of one ingestion run.
type ImportSummary struct {
	// Imported counts processed rows, whether or not a node or manager edge
	// was merged.
	Imported int `json:"imported"`
	// Relationships counts manager merges issued.
	Relationships int `json:"relationships"`
	// Skipped counts rows that resolved to no identity key. They are also
	// counted in Imported.
	Skipped int `json:"skipped"`
}

// GraphStats holds simple counts about the reporting graph.
type GraphStats struct {
	Employees     int64 `json:"employees"`
	Relationships int64 `json:"relationships"`
}

// DuplicateName groups Employee nodes that share one full name.
type DuplicateName struct {
	FullName string   `json:"full_name" yaml:"full_name"`
	Emails   []string `json:"emails" yaml:"emails"`
	Count    int      `json:"count" yaml:"count"`
}

// DatabaseInfo describes the graph store component answering queries.
type DatabaseInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Edition string `json:"edition"`
}
