package store

import (
	"context"

	"trade-marketplace-service/internal/domain"
	"trade-marketplace-service/internal/query"
)

// ProductStorer defines the database operations for product listings.
type ProductStorer interface {
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	// ListProducts returns the page of ACTIVE products matching the filter
	// plus the total matching count. Count and slice are two independent
	// reads against the same predicate, not a shared snapshot.
	ListProducts(ctx context.Context, filter *query.ProductFilter) ([]domain.Product, int, error)
	IncrementProductViews(ctx context.Context, id string) error
}

// TradeSuggestionStorer defines the database operations for trade suggestions.
type TradeSuggestionStorer interface {
	CreateTradeSuggestion(ctx context.Context, suggestion *domain.TradeSuggestion) (*domain.TradeSuggestion, error)
	// ListTradeSuggestions returns the page of ACTIVE suggestions matching
	// the filter plus the total matching count. Ordering is always newest
	// first.
	ListTradeSuggestions(ctx context.Context, filter *query.TradeFilter) ([]domain.TradeSuggestion, int, error)
}

// CategoryStorer defines the database operations for categories.
type CategoryStorer interface {
	// ListCategories returns all active categories ordered by name, each
	// annotated with its count of ACTIVE products.
	ListCategories(ctx context.Context) ([]domain.Category, error)
}
