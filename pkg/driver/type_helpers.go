// Package driver provides safe type conversion helpers for Neo4j record values.
package driver

import (
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"github.com/soundprediction/orgchart/pkg/types"
)

// TypeConversionError represents an error during type conversion from database types.
type TypeConversionError struct {
	Expected string
	Actual   string
	Field    string
}

func (e *TypeConversionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("type conversion error for field %q: expected %s, got %s", e.Field, e.Expected, e.Actual)
	}
	return fmt.Sprintf("type conversion error: expected %s, got %s", e.Expected, e.Actual)
}

// NewTypeConversionError creates a new TypeConversionError.
func NewTypeConversionError(expected, actual, field string) *TypeConversionError {
	return &TypeConversionError{
		Expected: expected,
		Actual:   actual,
		Field:    field,
	}
}

// AsDBNode safely converts v to dbtype.Node.
func AsDBNode(v any) (dbtype.Node, bool) {
	if v == nil {
		return dbtype.Node{}, false
	}
	node, ok := v.(dbtype.Node)
	return node, ok
}

// AsDBRelationship safely converts v to dbtype.Relationship.
func AsDBRelationship(v any) (dbtype.Relationship, bool) {
	if v == nil {
		return dbtype.Relationship{}, false
	}
	rel, ok := v.(dbtype.Relationship)
	return rel, ok
}

// AsString safely converts v to string.
func AsString(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// AsInt64 safely converts v to int64.
func AsInt64(v any) (int64, bool) {
	if v == nil {
		return 0, false
	}
	i, ok := v.(int64)
	return i, ok
}

// AsAnySlice safely converts v to []any.
func AsAnySlice(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	s, ok := v.([]any)
	return s, ok
}

// recordValue fetches key from record, failing when it is absent.
func recordValue(record *db.Record, key string) (any, error) {
	v, found := record.Get(key)
	if !found {
		return nil, fmt.Errorf("record has no field %q", key)
	}
	return v, nil
}

// MustDBNode reads a node value from record or returns an error.
func MustDBNode(record *db.Record, key string) (dbtype.Node, error) {
	v, err := recordValue(record, key)
	if err != nil {
		return dbtype.Node{}, err
	}
	node, ok := AsDBNode(v)
	if !ok {
		return dbtype.Node{}, NewTypeConversionError("dbtype.Node", fmt.Sprintf("%T", v), key)
	}
	return node, nil
}

// MustDBRelationship reads a relationship value from record or returns an error.
func MustDBRelationship(record *db.Record, key string) (dbtype.Relationship, error) {
	v, err := recordValue(record, key)
	if err != nil {
		return dbtype.Relationship{}, err
	}
	rel, ok := AsDBRelationship(v)
	if !ok {
		return dbtype.Relationship{}, NewTypeConversionError("dbtype.Relationship", fmt.Sprintf("%T", v), key)
	}
	return rel, nil
}

// MustString reads a string value from record or returns an error.
func MustString(record *db.Record, key string) (string, error) {
	v, err := recordValue(record, key)
	if err != nil {
		return "", err
	}
	s, ok := AsString(v)
	if !ok {
		return "", NewTypeConversionError("string", fmt.Sprintf("%T", v), key)
	}
	return s, nil
}

// MustInt64 reads an integer value from record or returns an error.
func MustInt64(record *db.Record, key string) (int64, error) {
	v, err := recordValue(record, key)
	if err != nil {
		return 0, err
	}
	i, ok := AsInt64(v)
	if !ok {
		return 0, NewTypeConversionError("int64", fmt.Sprintf("%T", v), key)
	}
	return i, nil
}

// EmployeeFromDBNode converts a bolt node into an Employee. Properties
// that are missing, not strings, or blank map to nil.
func EmployeeFromDBNode(node dbtype.Node) types.Employee {
	prop := func(key string) *string {
		s, _ := AsString(node.Props[key])
		return types.StringPtr(s)
	}

	key, _ := AsString(node.Props["identityKey"])
	return types.Employee{
		NodeID:      node.ElementId,
		IdentityKey: key,
		FullName:    prop("fullName"),
		FirstName:   prop("firstName"),
		LastName:    prop("lastName"),
		Email:       prop("email"),
		Phone:       prop("phone"),
		Address:     prop("address"),
	}
}

// EdgeFromDBRelationship converts a bolt relationship into a ManagesEdge.
func EdgeFromDBRelationship(rel dbtype.Relationship) types.ManagesEdge {
	return types.ManagesEdge{
		FromID: rel.StartElementId,
		ToID:   rel.EndElementId,
		Type:   rel.Type,
	}
}

// stringsFromAny keeps the string entries of values, skipping nulls.
func stringsFromAny(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := AsString(v); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
