package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch(t *testing.T) {
	tests := []struct {
		name  string
		items []int
		size  int
		want  [][]int
	}{
		{"empty", nil, 3, nil},
		{"exact", []int{1, 2, 3, 4}, 2, [][]int{{1, 2}, {3, 4}}},
		{"remainder", []int{1, 2, 3}, 2, [][]int{{1, 2}, {3}}},
		{"default size", []int{1, 2}, 0, [][]int{{1, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Batch(tt.items, tt.size))
		})
	}
}

func TestRecoverAsError(t *testing.T) {
	fn := func() (err error) {
		defer RecoverAsError(&err)
		panic("boom")
	}

	err := fn()
	var panicErr *PanicError
	require.ErrorAs(t, err, &panicErr)
	assert.Equal(t, "boom", panicErr.Value)
	assert.NotEmpty(t, panicErr.StackTrace)
}

func TestGo(t *testing.T) {
	assert.NoError(t, <-Go(func() error { return nil }))

	sentinel := errors.New("failed")
	assert.ErrorIs(t, <-Go(func() error { return sentinel }), sentinel)

	err := <-Go(func() error { panic("boom") })
	var panicErr *PanicError
	assert.ErrorAs(t, err, &panicErr)
}
