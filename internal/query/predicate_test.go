package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-marketplace-service/internal/domain"
)

func ptrTo[T any](v T) *T {
	return &v
}

func TestProductPredicate_BaseOnly(t *testing.T) {
	f := &ProductFilter{SortBy: SortNewest, Page: 1, Limit: 12}

	where, args := ProductPredicate(f)

	assert.Equal(t, "WHERE p.status = $1", where)
	assert.Equal(t, []interface{}{"ACTIVE"}, args)
}

func TestProductPredicate_AllFilters(t *testing.T) {
	f := &ProductFilter{
		Search:       ptrTo("basmati"),
		Category:     ptrTo("Agriculture & Food"),
		Country:      ptrTo("India"),
		MinPrice:     ptrTo(100.0),
		MaxPrice:     ptrTo(1500.0),
		Condition:    ptrTo(domain.ConditionNew),
		Availability: ptrTo(domain.AvailabilityAvailable),
		SortBy:       SortNewest,
		Page:         1,
		Limit:        12,
	}

	where, args := ProductPredicate(f)

	assert.Equal(t,
		"WHERE p.status = $1"+
			" AND (p.title ILIKE $2 OR p.description ILIKE $3 OR p.brand ILIKE $4 OR u.company ILIKE $5)"+
			" AND LOWER(c.name) = LOWER($6)"+
			" AND LOWER(p.country) = LOWER($7)"+
			" AND p.price >= $8"+
			" AND p.price <= $9"+
			" AND p.condition = $10"+
			" AND p.availability = $11",
		where)
	assert.Equal(t, []interface{}{
		"ACTIVE",
		"%basmati%", "%basmati%", "%basmati%", "%basmati%",
		"Agriculture & Food", "India",
		100.0, 1500.0,
		"NEW", "AVAILABLE",
	}, args)
}

func TestProductPredicate_PriceBoundsIndependent(t *testing.T) {
	f := &ProductFilter{MinPrice: ptrTo(50.0), SortBy: SortNewest, Page: 1, Limit: 12}
	where, args := ProductPredicate(f)
	assert.Equal(t, "WHERE p.status = $1 AND p.price >= $2", where)
	assert.Equal(t, []interface{}{"ACTIVE", 50.0}, args)

	f = &ProductFilter{MaxPrice: ptrTo(200.0), SortBy: SortNewest, Page: 1, Limit: 12}
	where, args = ProductPredicate(f)
	assert.Equal(t, "WHERE p.status = $1 AND p.price <= $2", where)
	assert.Equal(t, []interface{}{"ACTIVE", 200.0}, args)
}

func TestSortKey_OrderBy(t *testing.T) {
	tests := []struct {
		key  SortKey
		want string
	}{
		{SortNewest, "ORDER BY p.created_at DESC, p.id ASC"},
		{SortOldest, "ORDER BY p.created_at ASC, p.id ASC"},
		{SortPriceLow, "ORDER BY p.price ASC, p.id ASC"},
		{SortPriceHigh, "ORDER BY p.price DESC, p.id ASC"},
		{SortPopular, "ORDER BY p.views DESC, p.id ASC"},
		{SortName, "ORDER BY p.title ASC, p.id ASC"},
		{SortKey("unknown"), "ORDER BY p.created_at DESC, p.id ASC"},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.OrderBy())
		})
	}
}

func TestSortKey_OrderByAlwaysHasTieBreak(t *testing.T) {
	for _, k := range sortKeys {
		assert.Contains(t, k.OrderBy(), "p.id ASC", "sort key %q must carry the id tie-break", k)
	}
}

func TestTradePredicate_BaseOnly(t *testing.T) {
	f := &TradeFilter{Page: 1, Limit: 10}

	where, args := TradePredicate(f)

	assert.Equal(t, "WHERE t.status = $1", where)
	assert.Equal(t, []interface{}{"ACTIVE"}, args)
}

func TestTradePredicate_AllFilters(t *testing.T) {
	f := &TradeFilter{
		Search:   ptrTo("rice"),
		Category: ptrTo("Agriculture"),
		Country:  ptrTo("Vietnam"),
		Type:     ptrTo(domain.TradeBuying),
		Page:     1,
		Limit:    10,
	}

	where, args := TradePredicate(f)

	assert.Equal(t,
		"WHERE t.status = $1"+
			" AND t.type = $2"+
			" AND t.category = $3"+
			" AND LOWER(t.country) = LOWER($4)"+
			" AND (t.title ILIKE $5 OR t.description ILIKE $6)",
		where)
	assert.Equal(t, []interface{}{
		"ACTIVE", "BUYING", "Agriculture", "Vietnam", "%rice%", "%rice%",
	}, args)
}

func TestTradeOrderByIsNewestFirst(t *testing.T) {
	require.Equal(t, "ORDER BY t.created_at DESC, t.id ASC", TradeOrderBy)
}
