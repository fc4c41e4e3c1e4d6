package orgchart

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/soundprediction/orgchart/pkg/driver"
	"github.com/soundprediction/orgchart/pkg/identity"
	"github.com/soundprediction/orgchart/pkg/ingest"
	"github.com/soundprediction/orgchart/pkg/metrics"
	"github.com/soundprediction/orgchart/pkg/projection"
	"github.com/soundprediction/orgchart/pkg/subtree"
	"github.com/soundprediction/orgchart/pkg/types"
)

// Config holds optional client settings.
type Config struct {
	// FieldRules replaces identity.DefaultRules when non-nil.
	FieldRules []identity.Rule
	// Metrics receives import and query observations. May be nil.
	Metrics *metrics.Metrics
}

// Client is the main implementation of the OrgChart interface.
type Client struct {
	driver    driver.GraphDriver
	merger    *ingest.Merger
	resolver  *subtree.Resolver
	projector *projection.Projector
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

var _ OrgChart = (*Client)(nil)

// NewClient creates a client over graph. The client owns graph and closes
// it in Close.
func NewClient(graph driver.GraphDriver, config *Config, logger *slog.Logger) *Client {
	if config == nil {
		config = &Config{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		driver:    graph,
		merger:    ingest.NewMerger(graph, identity.NewResolver(config.FieldRules), logger),
		resolver:  subtree.NewResolver(graph, logger),
		projector: projection.NewProjector(logger),
		metrics:   config.Metrics,
		logger:    logger,
	}
}

// Driver returns the underlying graph driver.
func (c *Client) Driver() driver.GraphDriver {
	return c.driver
}

// Ingest merges rows and records the outcome.
func (c *Client) Ingest(ctx context.Context, rows []types.RawRow) (*types.ImportSummary, error) {
	summary, err := c.merger.Ingest(ctx, rows)
	if summary != nil {
		c.metrics.ObserveImport(summary.Imported, summary.Skipped)
	}
	if err != nil {
		c.metrics.StoreFailure("merge")
		return summary, err
	}
	return summary, nil
}

// ImportCSV parses r and merges its rows.
func (c *Client) ImportCSV(ctx context.Context, r io.Reader) (*types.ImportSummary, error) {
	rows, err := identity.ReadRows(r)
	if err != nil {
		return nil, err
	}
	return c.Ingest(ctx, rows)
}

// ResolveSubtree resolves the subtree below every employee named name.
func (c *Client) ResolveSubtree(ctx context.Context, name string) (*types.Subtree, error) {
	tree, err := c.resolver.Resolve(ctx, name)
	if err != nil {
		c.metrics.StoreFailure("subtree")
		return nil, err
	}
	c.metrics.ObserveSubtree(len(tree.Nodes))
	return tree, nil
}

// Employee resolves and projects the subtree below name.
func (c *Client) Employee(ctx context.Context, name string) (*projection.Graph, error) {
	tree, err := c.ResolveSubtree(ctx, name)
	if err != nil {
		return nil, err
	}
	return c.projector.Project(tree), nil
}

// Health pings the store.
func (c *Client) Health(ctx context.Context) (*types.DatabaseInfo, error) {
	info, err := c.driver.Health(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: health: %w", types.ErrStore, err)
	}
	return info, nil
}

// Stats counts employees and relationships.
func (c *Client) Stats(ctx context.Context) (*types.GraphStats, error) {
	stats, err := c.driver.GetStats(ctx)
	if err != nil {
		c.metrics.StoreFailure("stats")
		return nil, fmt.Errorf("%w: stats: %w", types.ErrStore, err)
	}
	return stats, nil
}

// DuplicateNames lists full names shared by several employees.
func (c *Client) DuplicateNames(ctx context.Context) ([]types.DuplicateName, error) {
	dups, err := c.driver.DuplicateNames(ctx)
	if err != nil {
		c.metrics.StoreFailure("duplicates")
		return nil, fmt.Errorf("%w: duplicate names: %w", types.ErrStore, err)
	}
	return dups, nil
}

// CreateIndices creates database indices and constraints.
func (c *Client) CreateIndices(ctx context.Context) error {
	if err := c.driver.CreateIndices(ctx); err != nil {
		return fmt.Errorf("%w: create indices: %w", types.ErrStore, err)
	}
	return nil
}

// Close closes the driver.
func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}
