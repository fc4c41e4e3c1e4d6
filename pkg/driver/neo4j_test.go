package driver_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/soundprediction/orgchart/pkg/driver"
	"github.com/soundprediction/orgchart/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// skipIfNeo4jUnavailable skips the test unless NEO4J_TEST_URI points at a
// reachable database. The database should be disposable.
func skipIfNeo4jUnavailable(t *testing.T) *driver.Neo4jDriver {
	t.Helper()

	uri := os.Getenv("NEO4J_TEST_URI")
	if uri == "" {
		t.Skip("NEO4J_TEST_URI not set")
	}

	d, err := driver.NewNeo4jDriver(uri, os.Getenv("NEO4J_TEST_USER"), os.Getenv("NEO4J_TEST_PASSWORD"), "")
	if err != nil {
		t.Skipf("Neo4j not available at %s: %v", uri, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.VerifyConnectivity(ctx); err != nil {
		_ = d.Close(ctx)
		t.Skipf("Neo4j connection failed: %v", err)
	}
	if err := d.CreateIndices(ctx); err != nil {
		_ = d.Close(ctx)
		t.Skipf("Neo4j index creation failed: %v", err)
	}

	t.Cleanup(func() { _ = d.Close(context.Background()) })
	return d
}

func TestNeo4jDriver_MergeAndTraverse(t *testing.T) {
	d := skipIfNeo4jUnavailable(t)
	ctx := context.Background()

	suffix := time.Now().Format("20060102150405.000000")
	boss := fmt.Sprintf("Boss %s", suffix)
	john := fmt.Sprintf("john-%s@x.com", suffix)

	rec := types.EmployeeRecord{
		Identity: types.Identity{FirstName: "John", LastName: suffix, FullName: "John " + suffix, Email: john},
		Manager:  &types.ManagerRef{Key: boss, MatchOn: types.MatchFullName},
	}
	require.NoError(t, d.MergeEmployee(ctx, rec))
	require.NoError(t, d.MergeEmployee(ctx, rec))

	bosses, err := d.FindEmployeesByFullName(ctx, boss)
	require.NoError(t, err)
	require.Len(t, bosses, 1)

	reports, err := d.OutgoingManages(ctx, []string{bosses[0].NodeID})
	require.NoError(t, err)
	require.Len(t, reports, 1, "repeated merges must not duplicate the edge")
	assert.Equal(t, types.ManagesType, reports[0].Edge.Type)
	assert.Equal(t, john, reports[0].Report.IdentityKey)

	info, err := d.Health(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, info.Name)
}

func TestNeo4jDriverInterface(t *testing.T) {
	var _ driver.GraphDriver = (*driver.Neo4jDriver)(nil)
}
