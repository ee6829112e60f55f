package query

import (
	"fmt"
	"net/url"
	"strconv"

	"trade-marketplace-service/internal/domain"
)

// allCategoriesSentinel is sent by the category dropdown when no category is
// selected. It means "no filter", not a category named "All Categories".
const allCategoriesSentinel = "All Categories"

// ValidationError reports the first query parameter that failed validation.
// Only the strict enum parameters produce one; free-text and numeric
// parameters degrade to "filter not applied" instead.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ParseProductFilter resolves raw product listing query parameters into a
// ProductFilter. Unknown parameters are ignored. Validation strictness is
// deliberately uneven: condition and availability reject unknown values,
// minPrice/maxPrice silently drop unparsable input, and sortBy silently
// falls back to newest. That asymmetry is part of the observed API contract.
func ParseProductFilter(values url.Values) (*ProductFilter, error) {
	f := &ProductFilter{
		SortBy: SortNewest,
		Page:   DefaultPage,
		Limit:  DefaultProductLimit,
	}

	if s := values.Get("search"); s != "" {
		f.Search = &s
	}
	if c := values.Get("category"); c != "" && c != allCategoriesSentinel {
		f.Category = &c
	}
	if c := values.Get("country"); c != "" {
		f.Country = &c
	}

	f.MinPrice = parseOptionalFloat(values.Get("minPrice"))
	f.MaxPrice = parseOptionalFloat(values.Get("maxPrice"))

	if raw := values.Get("condition"); raw != "" {
		c := domain.ProductCondition(raw)
		if !c.Valid() {
			return nil, &ValidationError{
				Field:   "condition",
				Message: fmt.Sprintf("invalid value %q, allowed values: %v", raw, domain.ProductConditions),
			}
		}
		f.Condition = &c
	}
	if raw := values.Get("availability"); raw != "" {
		a := domain.ProductAvailability(raw)
		if !a.Valid() {
			return nil, &ValidationError{
				Field:   "availability",
				Message: fmt.Sprintf("invalid value %q, allowed values: %v", raw, domain.ProductAvailabilities),
			}
		}
		f.Availability = &a
	}

	if k := SortKey(values.Get("sortBy")); k.valid() {
		f.SortBy = k
	}

	f.Page = parsePositiveInt(values.Get("page"), DefaultPage)
	f.Limit = parsePositiveInt(values.Get("limit"), DefaultProductLimit)

	return f, nil
}

// ParseTradeFilter resolves raw trade-suggestion query parameters into a
// TradeFilter. Same contract as ParseProductFilter; the only strict
// parameter on this route is type.
func ParseTradeFilter(values url.Values) (*TradeFilter, error) {
	f := &TradeFilter{
		Page:  DefaultPage,
		Limit: DefaultTradeLimit,
	}

	if s := values.Get("search"); s != "" {
		f.Search = &s
	}
	if c := values.Get("category"); c != "" && c != allCategoriesSentinel {
		f.Category = &c
	}
	if c := values.Get("country"); c != "" {
		f.Country = &c
	}

	if raw := values.Get("type"); raw != "" {
		t := domain.TradeType(raw)
		if !t.Valid() {
			return nil, &ValidationError{
				Field:   "type",
				Message: fmt.Sprintf("invalid value %q, allowed values: %v", raw, domain.TradeTypes),
			}
		}
		f.Type = &t
	}

	f.Page = parsePositiveInt(values.Get("page"), DefaultPage)
	f.Limit = parsePositiveInt(values.Get("limit"), DefaultTradeLimit)

	return f, nil
}

// parseOptionalFloat soft-fails: absent or unparsable input means the filter
// is not applied, never an error.
func parseOptionalFloat(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parsePositiveInt coerces absent, non-numeric and non-positive input to the
// default instead of erroring.
func parsePositiveInt(raw string, def int) int {
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}
