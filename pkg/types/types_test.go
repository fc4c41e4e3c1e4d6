package types

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityKey(t *testing.T) {
	tests := []struct {
		name string
		id   Identity
		want string
	}{
		{"email wins", Identity{Email: "john@x.com", FullName: "John Doe"}, "john@x.com"},
		{"full name fallback", Identity{FullName: "John Doe"}, "John Doe"},
		{"blank email ignored", Identity{Email: "  ", FullName: "John Doe"}, "John Doe"},
		{"nothing", Identity{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.id.Key())
		})
	}
}

func TestStringPtr(t *testing.T) {
	assert.Nil(t, StringPtr(""))
	assert.Nil(t, StringPtr("   "))
	if p := StringPtr("x"); assert.NotNil(t, p) {
		assert.Equal(t, "x", *p)
	}
}

func TestEmployeeName(t *testing.T) {
	var nilEmployee *Employee
	assert.Equal(t, "", nilEmployee.Name())
	assert.Equal(t, "", (&Employee{}).Name())
	assert.Equal(t, "Jane", (&Employee{FullName: StringPtr("Jane")}).Name())
}

func TestRequestID(t *testing.T) {
	assert.Equal(t, "", RequestID(context.Background()))
	ctx := context.WithValue(context.Background(), ContextKeyRequestID, "abc")
	assert.Equal(t, "abc", RequestID(ctx))
}

func TestEdgeKey(t *testing.T) {
	a := ManagesEdge{FromID: "1", ToID: "2", Type: ManagesType}
	b := ManagesEdge{FromID: "2", ToID: "1", Type: ManagesType}
	assert.Equal(t, EdgeKey{From: "1", To: "2", Type: ManagesType}, a.Key())
	assert.NotEqual(t, a.Key(), b.Key())
}
