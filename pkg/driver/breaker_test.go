package driver

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/soundprediction/orgchart/pkg/config"
	"github.com/soundprediction/orgchart/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingDriver fails every read with err.
type failingDriver struct {
	*MemoryDriver
	err   error
	calls atomic.Int32
}

func (f *failingDriver) FindEmployeesByFullName(ctx context.Context, name string) ([]types.Employee, error) {
	f.calls.Add(1)
	return nil, f.err
}

type recordingAlerter struct {
	subjects []string
}

func (r *recordingAlerter) Alert(subject, message string) error {
	r.subjects = append(r.subjects, subject)
	return nil
}

func breakerConfig() config.CircuitBreakerConfig {
	return config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         60,
		Timeout:          60,
		ReadyToTripRatio: 0.5,
	}
}

func TestBreakerDriver_TripsAndAlerts(t *testing.T) {
	inner := &failingDriver{MemoryDriver: NewMemoryDriver(), err: errors.New("connection refused")}
	alerter := &recordingAlerter{}
	b := NewBreakerDriver(inner, breakerConfig(), alerter, nil)

	for i := 0; i < 3; i++ {
		_, err := b.FindEmployeesByFullName(context.Background(), "x")
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())
	require.Len(t, alerter.subjects, 1)
	assert.Contains(t, alerter.subjects[0], "graph-store-memory")

	_, err := b.FindEmployeesByFullName(context.Background(), "x")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(3), inner.calls.Load(), "open breaker does not reach the store")

	// Health bypasses the breaker.
	_, err = b.Health(context.Background())
	assert.NoError(t, err)
}

func TestBreakerDriver_IgnoresCancellation(t *testing.T) {
	inner := &failingDriver{MemoryDriver: NewMemoryDriver(), err: context.Canceled}
	b := NewBreakerDriver(inner, breakerConfig(), nil, nil)

	for i := 0; i < 5; i++ {
		_, _ = b.FindEmployeesByFullName(context.Background(), "x")
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreakerDriver_PassesThrough(t *testing.T) {
	ctx := context.Background()
	b := NewBreakerDriver(NewMemoryDriver(), breakerConfig(), nil, nil)

	require.NoError(t, b.MergeEmployee(ctx, types.EmployeeRecord{Identity: types.Identity{FullName: "Ann Ray"}}))
	found, err := b.FindEmployeesByFullName(ctx, "Ann Ray")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	reports, err := b.OutgoingManages(ctx, []string{found[0].NodeID})
	require.NoError(t, err)
	assert.Empty(t, reports)

	stats, err := b.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Employees)

	names, err := b.ListFullNames(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ann Ray"}, names)

	dups, err := b.DuplicateNames(ctx)
	require.NoError(t, err)
	assert.Empty(t, dups)

	assert.NoError(t, b.CreateIndices(ctx))
	assert.Equal(t, GraphProviderMemory, b.Provider())
	assert.NoError(t, b.Close(ctx))
}
