package driver

import (
	"context"
	"testing"

	"github.com/soundprediction/orgchart/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(first, last, email, manager string, matchOn types.MatchField) types.EmployeeRecord {
	rec := types.EmployeeRecord{Identity: types.Identity{
		FirstName: first,
		LastName:  last,
		FullName:  first + " " + last,
		Email:     email,
	}}
	if manager != "" {
		rec.Manager = &types.ManagerRef{Key: manager, MatchOn: matchOn}
	}
	return rec
}

func TestMemoryDriver_MergeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryDriver()

	rows := []types.EmployeeRecord{
		record("John", "Doe", "john@x.com", "Boss Person", types.MatchFullName),
		record("Jane", "Smith", "jane@x.com", "John Doe", types.MatchFullName),
	}

	for i := 0; i < 2; i++ {
		for _, rec := range rows {
			require.NoError(t, d.MergeEmployee(ctx, rec))
		}
	}

	stats, err := d.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Employees)
	assert.Equal(t, int64(2), stats.Relationships)
}

func TestMemoryDriver_StubManager(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryDriver()

	require.NoError(t, d.MergeEmployee(ctx, record("John", "Doe", "john@x.com", "boss@x.com", types.MatchEmail)))

	stats, err := d.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Employees)

	john, err := d.FindEmployeesByFullName(ctx, "John Doe")
	require.NoError(t, err)
	require.Len(t, john, 1)

	// The stub has an identity but no name.
	boss := d.byID["mem:2"].employee()
	assert.Equal(t, "boss@x.com", boss.IdentityKey)
	assert.Nil(t, boss.FullName)
	require.NotNil(t, boss.Email)

	reports, err := d.OutgoingManages(ctx, []string{boss.NodeID})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, john[0].NodeID, reports[0].Report.NodeID)
}

func TestMemoryDriver_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryDriver()

	first := record("John", "Doe", "john@x.com", "", "")
	first.Identity.Phone = "123"
	require.NoError(t, d.MergeEmployee(ctx, first))

	second := record("Johnny", "Doe", "john@x.com", "", "")
	require.NoError(t, d.MergeEmployee(ctx, second))

	found, err := d.FindEmployeesByFullName(ctx, "Johnny Doe")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Nil(t, found[0].Phone, "blank phone overwrites the earlier value")

	old, err := d.FindEmployeesByFullName(ctx, "John Doe")
	require.NoError(t, err)
	assert.Empty(t, old)
}

func TestMemoryDriver_NameManagerMatchesEmailKeyedNode(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryDriver()

	require.NoError(t, d.MergeEmployee(ctx, record("John", "Doe", "john@x.com", "", "")))
	require.NoError(t, d.MergeEmployee(ctx, record("Jane", "Smith", "jane@x.com", "John Doe", types.MatchFullName)))

	stats, err := d.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Employees, "no stub when the manager name already exists")
	assert.Equal(t, int64(1), stats.Relationships)
}

func TestMemoryDriver_RejectsEmptyIdentity(t *testing.T) {
	d := NewMemoryDriver()
	err := d.MergeEmployee(context.Background(), types.EmployeeRecord{})
	assert.ErrorIs(t, err, types.ErrEmptyIdentity)
}

func TestMemoryDriver_RejectsUnknownMatchField(t *testing.T) {
	d := NewMemoryDriver()
	rec := record("A", "B", "", "x", types.MatchField("phone"))
	assert.Error(t, d.MergeEmployee(context.Background(), rec))

	stats, err := d.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Employees, "rejected records leave no trace")
}

func TestMemoryDriver_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewMemoryDriver()
	assert.ErrorIs(t, d.MergeEmployee(ctx, record("A", "B", "", "", "")), context.Canceled)
	_, err := d.FindEmployeesByFullName(ctx, "A B")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryDriver_DuplicateNamesAndListing(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryDriver()

	require.NoError(t, d.MergeEmployee(ctx, record("Sam", "Lee", "sam1@x.com", "", "")))
	require.NoError(t, d.MergeEmployee(ctx, record("Sam", "Lee", "sam2@x.com", "", "")))
	require.NoError(t, d.MergeEmployee(ctx, record("Ann", "Ray", "", "", "")))

	dups, err := d.DuplicateNames(ctx)
	require.NoError(t, err)
	require.Len(t, dups, 1)
	assert.Equal(t, "Sam Lee", dups[0].FullName)
	assert.Equal(t, 2, dups[0].Count)
	assert.ElementsMatch(t, []string{"sam1@x.com", "sam2@x.com"}, dups[0].Emails)

	names, err := d.ListFullNames(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sam Lee", "Ann Ray"}, names)

	names, err = d.ListFullNames(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, names, 1)

	info, err := d.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "memory", info.Name)
	assert.Equal(t, GraphProviderMemory, d.Provider())
}

func TestMemoryDriver_NameStubKeyConflict(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryDriver()

	// The email stub owns identity key "lead" but has no full name.
	require.NoError(t, d.MergeEmployee(ctx, record("Alice", "Ray", "", "lead", types.MatchEmail)))

	err := d.MergeEmployee(ctx, record("Bob", "Fox", "", "lead", types.MatchFullName))
	assert.ErrorIs(t, err, ErrIdentityKeyConflict)

	found, err := d.FindEmployeesByFullName(ctx, "Bob Fox")
	require.NoError(t, err)
	assert.Empty(t, found, "a new subject is rolled back with the failed merge")

	update := record("Alice", "Ray", "", "lead", types.MatchFullName)
	update.Identity.Phone = "555"
	assert.ErrorIs(t, d.MergeEmployee(ctx, update), ErrIdentityKeyConflict)

	found, err = d.FindEmployeesByFullName(ctx, "Alice Ray")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Nil(t, found[0].Phone, "an existing subject keeps its previous properties")

	stats, err := d.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Employees)
	assert.Equal(t, int64(1), stats.Relationships)
}
