package app

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPageOffset(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
		want     int
	}{
		{"first page", 1, 50, 0},
		{"second page", 2, 10, 10},
		{"zero page", 0, 10, 0},
		{"zero size", 5, 0, 0},
		{"overflowing product", 288230376151711745, 64, math.MaxInt},
		{"max page", math.MaxInt, 100, math.MaxInt},
		{"largest exact", math.MaxInt/100 + 1, 100, (math.MaxInt / 100) * 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetPageOffset(tt.page, tt.pageSize))
		})
	}
}

func TestNormalizePageSize(t *testing.T) {
	cfg := PaginationConfig{DefaultPageSize: 50, MaxPageSize: 100}
	assert.Equal(t, 50, NormalizePageSize("", cfg))
	assert.Equal(t, 50, NormalizePageSize("abc", cfg))
	assert.Equal(t, 20, NormalizePageSize(" 20 ", cfg))
	assert.Equal(t, 100, NormalizePageSize("1000", cfg))
	assert.Equal(t, 1, NormalizePage("-3"))
	assert.Equal(t, math.MaxInt, NormalizePage(strconv.Itoa(math.MaxInt)))
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 25)
	assert.Equal(t, Pagination{Page: 2, Limit: 10, Total: 25, Pages: 3}, p)
	assert.Zero(t, NewPagination(1, 0, 5).Pages)
}
