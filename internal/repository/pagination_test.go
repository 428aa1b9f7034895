package repository

import (
	"math"
	"testing"
)

func TestPaginationOffset(t *testing.T) {
	cases := []struct {
		page, size, want int
	}{
		{1, 20, 0},
		{3, 20, 40},
		{0, 20, 0},
		{-2, 20, 0},
		{2, 0, 0},
		{math.MaxInt, 50, math.MaxInt},
	}
	for _, tc := range cases {
		if got := paginationOffset(tc.page, tc.size); got != tc.want {
			t.Fatalf("paginationOffset(%d, %d) want %d got %d", tc.page, tc.size, tc.want, got)
		}
	}
}
