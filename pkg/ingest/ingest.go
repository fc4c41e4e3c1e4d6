// Package ingest merges resolved CSV rows into the reporting graph.
//
// Every row is one write transaction against the store: the subject is
// upserted by identity key and, when the row names a manager, the manager
// is upserted and linked with a MANAGES edge. Replaying the same rows
// leaves the graph unchanged.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/soundprediction/orgchart/pkg/driver"
	"github.com/soundprediction/orgchart/pkg/identity"
	"github.com/soundprediction/orgchart/pkg/types"
)

// Error reports an aborted ingestion together with the rows committed
// before the failure.
type Error struct {
	Summary types.ImportSummary
	// Row is the zero-based index of the failing row.
	Row int
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ingest aborted at row %d after %d imported: %v", e.Row, e.Summary.Imported, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Merger upserts rows into an EmployeeStore.
type Merger struct {
	store    driver.EmployeeStore
	resolver *identity.Resolver
	logger   *slog.Logger
}

// NewMerger creates a merger. A nil resolver uses the default field rules.
func NewMerger(store driver.EmployeeStore, resolver *identity.Resolver, logger *slog.Logger) *Merger {
	if resolver == nil {
		resolver = identity.NewResolver(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{store: store, resolver: resolver, logger: logger}
}

// Ingest merges rows in order. Every processed row counts as imported,
// including rows skipped for lacking an identity. A store error or context cancellation stops
// the batch; rows merged before it stay committed and are reported in the
// returned summary. Store failures match types.ErrStore.
func (m *Merger) Ingest(ctx context.Context, rows []types.RawRow) (*types.ImportSummary, error) {
	summary := &types.ImportSummary{}
	requestID := types.RequestID(ctx)

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return summary, &Error{Summary: *summary, Row: i, Err: err}
		}

		rec := m.resolver.Resolve(row)
		if rec.Identity.Key() == "" {
			summary.Imported++
			summary.Skipped++
			m.logger.Debug("Skipping row without identity", "row", i, "request_id", requestID)
			continue
		}

		if err := m.store.MergeEmployee(ctx, rec); err != nil {
			if errors.Is(err, types.ErrEmptyIdentity) {
				summary.Imported++
				summary.Skipped++
				continue
			}
			if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
				err = fmt.Errorf("%w: %w", types.ErrStore, err)
			}
			m.logger.Error("Failed to merge employee",
				"row", i,
				"identity_key", rec.Identity.Key(),
				"imported", summary.Imported,
				"request_id", requestID,
				"error", err)
			return summary, &Error{Summary: *summary, Row: i, Err: err}
		}

		summary.Imported++
		if rec.Manager != nil {
			summary.Relationships++
		}
	}

	m.logger.Info("Ingestion complete",
		"rows", len(rows),
		"imported", summary.Imported,
		"relationships", summary.Relationships,
		"skipped", summary.Skipped,
		"request_id", requestID)
	return summary, nil
}
