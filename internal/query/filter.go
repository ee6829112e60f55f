// Package query turns untrusted listing query parameters into typed,
// fully-resolved filter specifications and translates those into SQL
// predicate fragments, ordering and pagination metadata. Every supported
// filter is an explicit struct field here rather than an ad hoc map key.
package query

import "trade-marketplace-service/internal/domain"

// SortKey selects the ordering applied to a product listing query.
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortOldest    SortKey = "oldest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortPopular   SortKey = "popular"
	SortName      SortKey = "name"
)

var sortKeys = []SortKey{SortNewest, SortOldest, SortPriceLow, SortPriceHigh, SortPopular, SortName}

func (k SortKey) valid() bool {
	for _, v := range sortKeys {
		if k == v {
			return true
		}
	}
	return false
}

// Defaults applied when page/limit are absent or unusable.
const (
	DefaultPage         = 1
	DefaultProductLimit = 12
	DefaultTradeLimit   = 10
)

// ProductFilter is the resolved filter specification for the product listing
// path. Optional filters are nil when not applied; present values have
// already been validated. Page and Limit are always >= 1.
type ProductFilter struct {
	Search       *string
	Category     *string
	Country      *string
	MinPrice     *float64
	MaxPrice     *float64
	Condition    *domain.ProductCondition
	Availability *domain.ProductAvailability
	SortBy       SortKey
	Page         int
	Limit        int
}

// Offset is the number of records to skip for the requested page.
func (f *ProductFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// TradeFilter is the resolved filter specification for the trade-suggestion
// listing path. Ordering is fixed (newest first), so it carries no sort key.
type TradeFilter struct {
	Search   *string
	Category *string
	Country  *string
	Type     *domain.TradeType
	Page     int
	Limit    int
}

// Offset is the number of records to skip for the requested page.
func (f *TradeFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}
