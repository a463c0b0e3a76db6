package models

import (
	"math"
	"testing"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		total, limit int
		want         int
	}{
		{0, 10, 0},
		{10, 10, 1},
		{11, 10, 2},
		{7, math.MaxInt, 1},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := NewPagination(1, tt.limit, tt.total).TotalPages; got != tt.want {
			t.Errorf("NewPagination(total=%d, limit=%d).TotalPages = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}
