package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateKind is the specificity tier of a shipping rate.
type RateKind string

const (
	RateKindExact   RateKind = "exact"
	RateKindPrefix  RateKind = "prefix"
	RateKindDefault RateKind = "default"
)

// ShippingRate is a rule describing the cost to ship to a set of pincodes.
type ShippingRate struct {
	ID                    uint                `gorm:"primaryKey" json:"id"`
	Name                  string              `json:"name" gorm:"size:100"`
	Pincode               *string             `json:"pincode" gorm:"size:10;index"`
	PincodePrefix         *string             `json:"pincode_prefix" gorm:"size:10;index"`
	Zone                  *string             `json:"zone" gorm:"size:50"`
	BaseCost              decimal.Decimal     `json:"base_cost" gorm:"type:decimal(10,2);not null;default:0"`
	Surcharge             decimal.Decimal     `json:"surcharge" gorm:"type:decimal(10,2);not null;default:0"`
	FreeShippingThreshold decimal.NullDecimal `json:"free_shipping_threshold" gorm:"type:decimal(10,2)"`
	EstimatedDeliveryMin  *int                `json:"estimated_delivery_min"`
	EstimatedDeliveryMax  *int                `json:"estimated_delivery_max"`
	IsActive              bool                `json:"is_active" gorm:"not null;index"`
	Notes                 *string             `json:"notes" gorm:"type:text"`
	CreatedAt             time.Time           `json:"created_at"`
	UpdatedAt             time.Time           `json:"updated_at" gorm:"index"`
}

// TableName specifies the table name for ShippingRate
func (ShippingRate) TableName() string {
	return "shipping_rates"
}

// Kind reports which tier the rate belongs to. Pincode wins over prefix when
// both are populated.
func (r *ShippingRate) Kind() RateKind {
	switch {
	case r.Pincode != nil && *r.Pincode != "":
		return RateKindExact
	case r.PincodePrefix != nil && *r.PincodePrefix != "":
		return RateKindPrefix
	default:
		return RateKindDefault
	}
}

// TotalCost is base cost plus surcharge, never negative.
func (r *ShippingRate) TotalCost() decimal.Decimal {
	total := r.BaseCost.Add(r.Surcharge)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// Quote is the result of resolving a shipping rate for a pincode and subtotal.
type Quote struct {
	Rate                 *ShippingRate       `json:"rate"`
	MatchedBy            RateKind            `json:"matched_by"`
	ShippingCost         decimal.Decimal     `json:"shipping_cost"`
	IsFree               bool                `json:"is_free"`
	Subtotal             decimal.Decimal     `json:"subtotal"`
	AmountToFreeShipping decimal.NullDecimal `json:"amount_to_free_shipping"`
}

// StringPtr returns nil for blank strings.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StringValue dereferences s, returning "" for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
