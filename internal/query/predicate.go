package query

import (
	"fmt"
	"strings"

	"trade-marketplace-service/internal/domain"
)

// predicate accumulates conjunctive WHERE conditions with PostgreSQL
// positional arguments. Numbering continues from the arguments already
// collected, so callers can append LIMIT/OFFSET placeholders afterwards.
type predicate struct {
	clauses []string
	args    []interface{}
}

func (p *predicate) add(format string, args ...interface{}) {
	placeholders := make([]interface{}, len(args))
	for i := range args {
		placeholders[i] = fmt.Sprintf("$%d", len(p.args)+i+1)
	}
	p.clauses = append(p.clauses, fmt.Sprintf(format, placeholders...))
	p.args = append(p.args, args...)
}

func (p *predicate) where() string {
	return "WHERE " + strings.Join(p.clauses, " AND ")
}

// ProductPredicate translates a resolved ProductFilter into a WHERE clause
// and its positional arguments. Table aliases: p = products, u = owning
// users, c = categories. The base condition restricts the path to ACTIVE
// listings regardless of any requested filter. A NULL price never satisfies
// a price bound, so unpriced listings drop out whenever a bound is present.
func ProductPredicate(f *ProductFilter) (string, []interface{}) {
	p := &predicate{}
	p.add("p.status = %s", string(domain.StatusActive))

	if f.Search != nil {
		term := "%" + *f.Search + "%"
		p.add("(p.title ILIKE %s OR p.description ILIKE %s OR p.brand ILIKE %s OR u.company ILIKE %s)",
			term, term, term, term)
	}
	if f.Category != nil {
		p.add("LOWER(c.name) = LOWER(%s)", *f.Category)
	}
	if f.Country != nil {
		p.add("LOWER(p.country) = LOWER(%s)", *f.Country)
	}
	if f.MinPrice != nil {
		p.add("p.price >= %s", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		p.add("p.price <= %s", *f.MaxPrice)
	}
	if f.Condition != nil {
		p.add("p.condition = %s", string(*f.Condition))
	}
	if f.Availability != nil {
		p.add("p.availability = %s", string(*f.Availability))
	}

	return p.where(), p.args
}

// OrderBy returns the ORDER BY clause for the sort key. Every ordering
// carries a secondary sort on id so that pagination over equal keys stays
// deterministic across repeated queries.
func (k SortKey) OrderBy() string {
	switch k {
	case SortOldest:
		return "ORDER BY p.created_at ASC, p.id ASC"
	case SortPriceLow:
		return "ORDER BY p.price ASC, p.id ASC"
	case SortPriceHigh:
		return "ORDER BY p.price DESC, p.id ASC"
	case SortPopular:
		return "ORDER BY p.views DESC, p.id ASC"
	case SortName:
		return "ORDER BY p.title ASC, p.id ASC"
	default:
		return "ORDER BY p.created_at DESC, p.id ASC"
	}
}

// TradePredicate translates a resolved TradeFilter into a WHERE clause and
// its positional arguments. Table aliases: t = trade_suggestions, u = owning
// users. Category here matches the free-text tag exactly; the case-folded
// match only applies to the product category tree.
func TradePredicate(f *TradeFilter) (string, []interface{}) {
	p := &predicate{}
	p.add("t.status = %s", string(domain.SuggestionActive))

	if f.Type != nil {
		p.add("t.type = %s", string(*f.Type))
	}
	if f.Category != nil {
		p.add("t.category = %s", *f.Category)
	}
	if f.Country != nil {
		p.add("LOWER(t.country) = LOWER(%s)", *f.Country)
	}
	if f.Search != nil {
		term := "%" + *f.Search + "%"
		p.add("(t.title ILIKE %s OR t.description ILIKE %s)", term, term)
	}

	return p.where(), p.args
}

// TradeOrderBy is the fixed ordering of the trade-suggestion path.
const TradeOrderBy = "ORDER BY t.created_at DESC, t.id ASC"
