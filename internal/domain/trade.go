package domain

import (
	"encoding/json"
	"time"
)

// TradeType enumerates the intent of a trade suggestion.
type TradeType string

const (
	TradeBuying      TradeType = "BUYING"
	TradeSelling     TradeType = "SELLING"
	TradePartnership TradeType = "PARTNERSHIP"
	TradeInvestment  TradeType = "INVESTMENT"
)

// TradeTypes lists every valid trade type value.
var TradeTypes = []TradeType{TradeBuying, TradeSelling, TradePartnership, TradeInvestment}

// Valid reports whether the value is one of the known trade types.
func (t TradeType) Valid() bool {
	for _, v := range TradeTypes {
		if t == v {
			return true
		}
	}
	return false
}

// SuggestionStatus is the lifecycle status of a trade suggestion.
type SuggestionStatus string

const (
	SuggestionActive  SuggestionStatus = "ACTIVE"
	SuggestionClosed  SuggestionStatus = "CLOSED"
	SuggestionExpired SuggestionStatus = "EXPIRED"
	SuggestionPending SuggestionStatus = "PENDING"
)

// TradeSuggestion represents a buy/sell/partnership/investment requirement
// posted by a marketplace user. Category is a free-text tag here, not a
// reference into the product category tree.
type TradeSuggestion struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Type           TradeType        `json:"type"`
	Category       string           `json:"category"`
	Country        string           `json:"country"`
	Budget         *string          `json:"budget,omitempty"`
	Quantity       *string          `json:"quantity,omitempty"`
	Timeline       *string          `json:"timeline,omitempty"`
	Specifications *json.RawMessage `json:"specifications,omitempty"`
	ContactInfo    *json.RawMessage `json:"contactInfo,omitempty"`
	Status         SuggestionStatus `json:"status"`
	Priority       int32            `json:"priority"`
	Views          int64            `json:"views"`
	ExpiresAt      *time.Time       `json:"expiresAt,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
	UserID         string           `json:"userId"`
	User           *UserSummary     `json:"user,omitempty"`
}
