package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		size  int
		pages int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{5, 1, 5},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.pages, TotalPages(tc.total, tc.size), "total=%d size=%d", tc.total, tc.size)
	}
}
