package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		totalCount int
		want       Pagination
	}{
		{
			name: "empty result has zero pages",
			page: 1, limit: 12, totalCount: 0,
			want: Pagination{Page: 1, Limit: 12, TotalCount: 0, TotalPages: 0, HasNextPage: false, HasPreviousPage: false},
		},
		{
			name: "single partial page",
			page: 1, limit: 12, totalCount: 5,
			want: Pagination{Page: 1, Limit: 12, TotalCount: 5, TotalPages: 1, HasNextPage: false, HasPreviousPage: false},
		},
		{
			name: "exact multiple of page size",
			page: 1, limit: 12, totalCount: 24,
			want: Pagination{Page: 1, Limit: 12, TotalCount: 24, TotalPages: 2, HasNextPage: true, HasPreviousPage: false},
		},
		{
			name: "last page of 25 records at limit 12",
			page: 3, limit: 12, totalCount: 25,
			want: Pagination{Page: 3, Limit: 12, TotalCount: 25, TotalPages: 3, HasNextPage: false, HasPreviousPage: true},
		},
		{
			name: "middle page",
			page: 2, limit: 10, totalCount: 45,
			want: Pagination{Page: 2, Limit: 10, TotalCount: 45, TotalPages: 5, HasNextPage: true, HasPreviousPage: true},
		},
		{
			name: "page past the end keeps true totals",
			page: 9, limit: 12, totalCount: 25,
			want: Pagination{Page: 9, Limit: 12, TotalCount: 25, TotalPages: 3, HasNextPage: false, HasPreviousPage: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPagination(tt.page, tt.limit, tt.totalCount))
		})
	}
}

func TestNewPagination_TotalPagesRoundsUp(t *testing.T) {
	// totalPages == ceil(totalCount/limit) across a spread of shapes.
	for _, limit := range []int{1, 5, 10, 12} {
		for totalCount := 0; totalCount <= 40; totalCount++ {
			got := NewPagination(1, limit, totalCount).TotalPages
			want := (totalCount + limit - 1) / limit
			assert.Equal(t, want, got, "limit=%d totalCount=%d", limit, totalCount)
		}
	}
}

func TestFilterOffset(t *testing.T) {
	f := &ProductFilter{Page: 3, Limit: 12}
	assert.Equal(t, 24, f.Offset())

	f = &ProductFilter{Page: 1, Limit: 12}
	assert.Equal(t, 0, f.Offset())

	tf := &TradeFilter{Page: 4, Limit: 10}
	assert.Equal(t, 30, tf.Offset())
}
