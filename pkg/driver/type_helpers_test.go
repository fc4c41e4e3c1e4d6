package driver

import (
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeConversionError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *TypeConversionError
		expected string
	}{
		{
			name:     "with field",
			err:      NewTypeConversionError("string", "int64", "name"),
			expected: `type conversion error for field "name": expected string, got int64`,
		},
		{
			name:     "without field",
			err:      NewTypeConversionError("dbtype.Node", "nil", ""),
			expected: "type conversion error: expected dbtype.Node, got nil",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAsHelpers(t *testing.T) {
	t.Parallel()

	s, ok := AsString("hello")
	assert.True(t, ok)
	assert.Equal(t, "hello", s)

	_, ok = AsString(42)
	assert.False(t, ok)
	_, ok = AsString(nil)
	assert.False(t, ok)

	i, ok := AsInt64(int64(7))
	assert.True(t, ok)
	assert.Equal(t, int64(7), i)
	_, ok = AsInt64(7)
	assert.False(t, ok)

	_, ok = AsDBNode(nil)
	assert.False(t, ok)
	_, ok = AsDBRelationship("x")
	assert.False(t, ok)

	sl, ok := AsAnySlice([]any{"a"})
	assert.True(t, ok)
	assert.Len(t, sl, 1)
}

func TestEmployeeFromDBNode(t *testing.T) {
	t.Parallel()

	node := dbtype.Node{
		ElementId: "4:abc:1",
		Labels:    []string{"Employee"},
		Props: map[string]any{
			"identityKey": "john@x.com",
			"fullName":    "John Doe",
			"firstName":   "John",
			"email":       "john@x.com",
			"phone":       "",
			"address":     int64(3),
		},
	}

	e := EmployeeFromDBNode(node)
	assert.Equal(t, "4:abc:1", e.NodeID)
	assert.Equal(t, "john@x.com", e.IdentityKey)
	require.NotNil(t, e.FullName)
	assert.Equal(t, "John Doe", *e.FullName)
	assert.Nil(t, e.LastName)
	assert.Nil(t, e.Phone, "blank strings render as null")
	assert.Nil(t, e.Address, "non-string values render as null")
}

func TestEdgeFromDBRelationship(t *testing.T) {
	t.Parallel()

	e := EdgeFromDBRelationship(dbtype.Relationship{StartElementId: "a", EndElementId: "b", Type: "MANAGES"})
	assert.Equal(t, "a", e.FromID)
	assert.Equal(t, "b", e.ToID)
	assert.Equal(t, "MANAGES", e.Type)
}

func TestRecordHelpers(t *testing.T) {
	t.Parallel()

	record := &db.Record{
		Keys:   []string{"n", "name", "count", "rel"},
		Values: []any{dbtype.Node{ElementId: "1"}, "Jane", int64(2), "not-a-rel"},
	}

	node, err := MustDBNode(record, "n")
	require.NoError(t, err)
	assert.Equal(t, "1", node.ElementId)

	name, err := MustString(record, "name")
	require.NoError(t, err)
	assert.Equal(t, "Jane", name)

	count, err := MustInt64(record, "count")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, err = MustDBRelationship(record, "rel")
	var convErr *TypeConversionError
	assert.ErrorAs(t, err, &convErr)

	_, err = MustString(record, "missing")
	assert.Error(t, err)
}

func TestStringsFromAny(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"a", "b"}, stringsFromAny([]any{"a", nil, "", int64(1), "b"}))
}
