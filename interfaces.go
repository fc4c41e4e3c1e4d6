package orgchart

import (
	"context"
	"io"

	"github.com/soundprediction/orgchart/pkg/projection"
	"github.com/soundprediction/orgchart/pkg/types"
)

// Consumers should depend on the smallest interface that meets their needs.

// Importer merges employee rows into the graph.
type Importer interface {
	// Ingest merges already parsed rows in order.
	Ingest(ctx context.Context, rows []types.RawRow) (*types.ImportSummary, error)

	// ImportCSV parses r as CSV and merges its rows.
	ImportCSV(ctx context.Context, r io.Reader) (*types.ImportSummary, error)
}

// HierarchyQuerier resolves reporting subtrees.
type HierarchyQuerier interface {
	// ResolveSubtree returns the raw subtree below every employee named name.
	ResolveSubtree(ctx context.Context, name string) (*types.Subtree, error)

	// Employee returns the projected subtree below every employee named name.
	Employee(ctx context.Context, name string) (*projection.Graph, error)
}

// GraphAuditor reports on the state of the store.
type GraphAuditor interface {
	// Health pings the store and describes it.
	Health(ctx context.Context) (*types.DatabaseInfo, error)

	// Stats counts employees and relationships.
	Stats(ctx context.Context) (*types.GraphStats, error)

	// DuplicateNames lists full names shared by several employees.
	DuplicateNames(ctx context.Context) ([]types.DuplicateName, error)
}

// OrgChart is the full service surface used by the HTTP server and the CLI.
type OrgChart interface {
	Importer
	HierarchyQuerier
	GraphAuditor

	// CreateIndices creates the identity constraint and lookup indices.
	CreateIndices(ctx context.Context) error

	// Close closes the underlying driver.
	Close(ctx context.Context) error
}
