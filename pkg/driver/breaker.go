package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
	"github.com/soundprediction/orgchart/pkg/alert"
	"github.com/soundprediction/orgchart/pkg/config"
	"github.com/soundprediction/orgchart/pkg/types"
)

// BreakerDriver wraps a GraphDriver with circuit breaking logic. Once the
// breaker opens, calls fail fast with gobreaker.ErrOpenState until the
// timeout elapses.
type BreakerDriver struct {
	next    GraphDriver
	cb      *gobreaker.CircuitBreaker
	alerter alert.Alerter
	logger  *slog.Logger
}

// NewBreakerDriver wraps next. Cancelled or expired request contexts and
// identity rejections do not count as store failures.
func NewBreakerDriver(next GraphDriver, cfg config.CircuitBreakerConfig, alerter alert.Alerter, logger *slog.Logger) *BreakerDriver {
	if alerter == nil {
		alerter = &alert.NoOpAlerter{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	ratio := cfg.ReadyToTripRatio
	if ratio <= 0 {
		ratio = 0.6
	}
	name := fmt.Sprintf("graph-store-%s", next.Provider())

	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    time.Duration(cfg.Interval) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= ratio
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, context.DeadlineExceeded) ||
				errors.Is(err, types.ErrEmptyIdentity)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			if to == gobreaker.StateOpen {
				msg := fmt.Sprintf("Circuit breaker '%s' changed status from %s to %s. Too many graph store failures detected.", name, from, to)
				if err := alerter.Alert(fmt.Sprintf("URGENT: Circuit Breaker Tripped - %s", name), msg); err != nil {
					logger.Error("Failed to send breaker alert", "error", err)
				}
			}
		},
	}

	return &BreakerDriver{
		next:    next,
		cb:      gobreaker.NewCircuitBreaker(st),
		alerter: alerter,
		logger:  logger,
	}
}

// State returns the current breaker state.
func (b *BreakerDriver) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerDriver) MergeEmployee(ctx context.Context, rec types.EmployeeRecord) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.MergeEmployee(ctx, rec)
	})
	return err
}

func (b *BreakerDriver) FindEmployeesByFullName(ctx context.Context, name string) ([]types.Employee, error) {
	resp, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.FindEmployeesByFullName(ctx, name)
	})
	if err != nil {
		return nil, err
	}
	return resp.([]types.Employee), nil
}

func (b *BreakerDriver) OutgoingManages(ctx context.Context, nodeIDs []string) ([]types.Report, error) {
	resp, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.OutgoingManages(ctx, nodeIDs)
	})
	if err != nil {
		return nil, err
	}
	return resp.([]types.Report), nil
}

func (b *BreakerDriver) ListFullNames(ctx context.Context, limit int) ([]string, error) {
	resp, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.ListFullNames(ctx, limit)
	})
	if err != nil {
		return nil, err
	}
	return resp.([]string), nil
}

func (b *BreakerDriver) CreateIndices(ctx context.Context) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.CreateIndices(ctx)
	})
	return err
}

// Health bypasses the breaker so probes always reach the store.
func (b *BreakerDriver) Health(ctx context.Context) (*types.DatabaseInfo, error) {
	return b.next.Health(ctx)
}

func (b *BreakerDriver) GetStats(ctx context.Context) (*types.GraphStats, error) {
	resp, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.GetStats(ctx)
	})
	if err != nil {
		return nil, err
	}
	return resp.(*types.GraphStats), nil
}

func (b *BreakerDriver) DuplicateNames(ctx context.Context) ([]types.DuplicateName, error) {
	resp, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.DuplicateNames(ctx)
	})
	if err != nil {
		return nil, err
	}
	return resp.([]types.DuplicateName), nil
}

// Provider returns the wrapped driver's provider.
func (b *BreakerDriver) Provider() GraphProvider {
	return b.next.Provider()
}

// Close closes the wrapped driver.
func (b *BreakerDriver) Close(ctx context.Context) error {
	return b.next.Close(ctx)
}
