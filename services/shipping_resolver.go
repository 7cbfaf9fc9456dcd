package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Govind-619/ShipSphere/models"
	"github.com/Govind-619/ShipSphere/utils"

	"github.com/shopspring/decimal"
)

// ErrNoShippingRate means no active rule covers the pincode. Callers must
// treat it as "shipping unavailable", never as free shipping.
var ErrNoShippingRate = errors.New("no shipping rate for pincode")

// RateStore is the read side of the rule store used by ShippingResolver.
// Finders return nil, nil when nothing matches.
type RateStore interface {
	FindActiveByPincode(ctx context.Context, pincode string) (*models.ShippingRate, error)
	FindActiveWithPrefix(ctx context.Context) ([]models.ShippingRate, error)
	FindActiveDefault(ctx context.Context) (*models.ShippingRate, error)
}

// ShippingResolver picks the shipping rate for a pincode: exact pincode
// first, then the longest matching prefix, then the default rule.
type ShippingResolver struct {
	store RateStore
}

// NewShippingResolver creates a resolver over store
func NewShippingResolver(store RateStore) *ShippingResolver {
	return &ShippingResolver{store: store}
}

// Resolve returns the quote for shipping an order of subtotal to pincode.
// Each tier is queried only if the previous one missed.
func (s *ShippingResolver) Resolve(ctx context.Context, pincode string, subtotal decimal.Decimal) (*models.Quote, error) {
	pincode = strings.TrimSpace(pincode)
	if pincode == "" {
		return nil, ErrNoShippingRate
	}

	rate, err := s.store.FindActiveByPincode(ctx, pincode)
	if err != nil {
		return nil, fmt.Errorf("exact pincode lookup: %w", err)
	}
	if rate != nil {
		utils.LogDebug("Pincode %s matched exact rate %d", pincode, rate.ID)
		return BuildQuote(rate, models.RateKindExact, subtotal), nil
	}

	prefixed, err := s.store.FindActiveWithPrefix(ctx)
	if err != nil {
		return nil, fmt.Errorf("pincode prefix lookup: %w", err)
	}
	if rate = longestPrefixMatch(pincode, prefixed); rate != nil {
		utils.LogDebug("Pincode %s matched prefix %q of rate %d", pincode, *rate.PincodePrefix, rate.ID)
		return BuildQuote(rate, models.RateKindPrefix, subtotal), nil
	}

	rate, err = s.store.FindActiveDefault(ctx)
	if err != nil {
		return nil, fmt.Errorf("default rate lookup: %w", err)
	}
	if rate != nil {
		utils.LogDebug("Pincode %s fell back to default rate %d", pincode, rate.ID)
		return BuildQuote(rate, models.RateKindDefault, subtotal), nil
	}

	utils.LogInfo("No shipping rate for pincode %s", pincode)
	return nil, ErrNoShippingRate
}

// longestPrefixMatch returns the rate with the longest prefix of pincode.
// On equal length the earlier rate in rates wins.
func longestPrefixMatch(pincode string, rates []models.ShippingRate) *models.ShippingRate {
	var best *models.ShippingRate
	bestLen := 0
	for i := range rates {
		prefix := models.StringValue(rates[i].PincodePrefix)
		if prefix == "" || !strings.HasPrefix(pincode, prefix) {
			continue
		}
		if len(prefix) > bestLen {
			best, bestLen = &rates[i], len(prefix)
		}
	}
	return best
}

// BuildQuote prices rate for subtotal. A threshold equal to the subtotal
// qualifies; a rate without a threshold never ships free.
func BuildQuote(rate *models.ShippingRate, matchedBy models.RateKind, subtotal decimal.Decimal) *models.Quote {
	quote := &models.Quote{
		Rate:      rate,
		MatchedBy: matchedBy,
		Subtotal:  subtotal,
	}

	threshold := rate.FreeShippingThreshold
	quote.IsFree = threshold.Valid && subtotal.GreaterThanOrEqual(threshold.Decimal)

	if quote.IsFree {
		quote.ShippingCost = decimal.Zero
		return quote
	}

	quote.ShippingCost = rate.TotalCost()
	if threshold.Valid {
		quote.AmountToFreeShipping = decimal.NewNullDecimal(threshold.Decimal.Sub(subtotal))
	}
	return quote
}
