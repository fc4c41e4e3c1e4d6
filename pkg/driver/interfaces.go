package driver

import (
	"context"

	"github.com/soundprediction/orgchart/pkg/types"
)

// Consumers should depend on the smallest interface that meets their needs.
// GraphDriver is composed from these.

// EmployeeStore writes employees and reporting edges.
type EmployeeStore interface {
	// MergeEmployee upserts the subject of rec keyed by its identity key and,
	// when rec names a manager, merges the manager and the MANAGES edge.
	// The whole record is applied atomically.
	MergeEmployee(ctx context.Context, rec types.EmployeeRecord) error
}

// SubtreeReader provides the reads needed to walk the reporting graph.
type SubtreeReader interface {
	// FindEmployeesByFullName returns every employee whose fullName equals
	// name exactly.
	FindEmployeesByFullName(ctx context.Context, name string) ([]types.Employee, error)

	// OutgoingManages returns the MANAGES edges leaving any of nodeIDs,
	// each paired with its report.
	OutgoingManages(ctx context.Context, nodeIDs []string) ([]types.Report, error)

	// ListFullNames returns up to limit distinct full names.
	ListFullNames(ctx context.Context, limit int) ([]string, error)
}

// DatabaseAdmin provides administrative operations.
type DatabaseAdmin interface {
	// CreateIndices creates constraints and indices used by the merges.
	CreateIndices(ctx context.Context) error

	// Health checks connectivity and reports the answering component.
	Health(ctx context.Context) (*types.DatabaseInfo, error)

	// GetStats counts employees and relationships.
	GetStats(ctx context.Context) (*types.GraphStats, error)

	// DuplicateNames lists full names shared by more than one employee.
	DuplicateNames(ctx context.Context) ([]types.DuplicateName, error)
}

var _ GraphDriver = (*Neo4jDriver)(nil)
var _ GraphDriver = (*MemoryDriver)(nil)
var _ GraphDriver = (*BreakerDriver)(nil)
