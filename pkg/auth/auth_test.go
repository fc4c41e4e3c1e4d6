package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name      string
		expected  string
		presented string
		want      bool
	}{
		{"match", "s3cret", "s3cret", true},
		{"mismatch", "s3cret", "s3cres", false},
		{"prefix", "s3cret", "s3c", false},
		{"empty presented", "s3cret", "", false},
		{"no key configured", "", "", false},
		{"no key configured with input", "", "anything", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewAuthorizer(tt.expected).Authorize(tt.presented))
		})
	}
}

func TestRotate(t *testing.T) {
	a := NewAuthorizer("")
	assert.False(t, a.Enabled())

	a.Rotate("new")
	assert.True(t, a.Enabled())
	assert.True(t, a.Authorize("new"))
	assert.False(t, a.Authorize("old"))
}
