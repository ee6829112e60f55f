package domain

import (
	"encoding/json"
	"time"
)

// ProductCondition enumerates the physical condition of a listed product.
type ProductCondition string

const (
	ConditionNew         ProductCondition = "NEW"
	ConditionUsed        ProductCondition = "USED"
	ConditionRefurbished ProductCondition = "REFURBISHED"
)

// ProductConditions lists every valid condition value, in declaration order.
// Used when reporting allowed values back to API clients.
var ProductConditions = []ProductCondition{ConditionNew, ConditionUsed, ConditionRefurbished}

// Valid reports whether the value is one of the known conditions.
func (c ProductCondition) Valid() bool {
	for _, v := range ProductConditions {
		if c == v {
			return true
		}
	}
	return false
}

// ProductAvailability enumerates stock availability of a listed product.
type ProductAvailability string

const (
	AvailabilityAvailable  ProductAvailability = "AVAILABLE"
	AvailabilityOutOfStock ProductAvailability = "OUT_OF_STOCK"
	AvailabilityLimited    ProductAvailability = "LIMITED"
	AvailabilityOnDemand   ProductAvailability = "ON_DEMAND"
)

// ProductAvailabilities lists every valid availability value.
var ProductAvailabilities = []ProductAvailability{
	AvailabilityAvailable, AvailabilityOutOfStock, AvailabilityLimited, AvailabilityOnDemand,
}

// Valid reports whether the value is one of the known availabilities.
func (a ProductAvailability) Valid() bool {
	for _, v := range ProductAvailabilities {
		if a == v {
			return true
		}
	}
	return false
}

// ListingStatus is the lifecycle status of a product listing. Only ACTIVE
// listings are ever returned by the public browse/search path.
type ListingStatus string

const (
	StatusActive   ListingStatus = "ACTIVE"
	StatusInactive ListingStatus = "INACTIVE"
	StatusPending  ListingStatus = "PENDING"
	StatusRejected ListingStatus = "REJECTED"
	StatusExpired  ListingStatus = "EXPIRED"
)

// UserSummary is the owner projection embedded in listing responses.
type UserSummary struct {
	ID         string  `json:"id"`
	Name       *string `json:"name,omitempty"`
	Company    *string `json:"company,omitempty"`
	Country    *string `json:"country,omitempty"`
	City       *string `json:"city,omitempty"`
	IsVerified bool    `json:"isVerified"`
}

// CategorySummary is the category projection embedded in product responses.
type CategorySummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Product represents a product listing in the marketplace.
// The json tags correspond to the fields expected in API responses.
type Product struct {
	ID             string              `json:"id"`
	Title          string              `json:"title"`
	Slug           string              `json:"slug"`
	Description    string              `json:"description"`
	ShortDesc      *string             `json:"shortDesc,omitempty"`
	Price          *float64            `json:"price,omitempty"` // Nullable: quote-on-request listings carry no price
	Currency       string              `json:"currency"`
	MinOrder       *string             `json:"minOrder,omitempty"`
	Unit           *string             `json:"unit,omitempty"`
	Images         []string            `json:"images"`
	Specifications *json.RawMessage    `json:"specifications,omitempty"`
	HSCode         *string             `json:"hsCode,omitempty"`
	Origin         *string             `json:"origin,omitempty"`
	Brand          *string             `json:"brand,omitempty"`
	Model          *string             `json:"model,omitempty"`
	Condition      ProductCondition    `json:"condition"`
	Availability   ProductAvailability `json:"availability"`
	Status         ListingStatus       `json:"status"`
	Views          int64               `json:"views"`
	Country        string              `json:"country"`
	State          *string             `json:"state,omitempty"`
	City           *string             `json:"city,omitempty"`
	Keywords       []string            `json:"keywords"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
	UserID         string              `json:"userId"`
	CategoryID     string              `json:"categoryId"`
	User           *UserSummary        `json:"user,omitempty"`
	Category       *CategorySummary    `json:"category,omitempty"`
}
