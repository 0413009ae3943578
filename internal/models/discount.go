package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType represents how a discount value is interpreted
type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFlat    DiscountType = "flat"
)

// Offer is an automatically-surfaced discount scoped to one or more
// entities. An empty EntityIDs list means the offer applies to every
// entity in its vertical.
type Offer struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	DiscountType  DiscountType `json:"discount_type"`
	DiscountValue float64      `json:"discount_value"`
	AppliesTo     Vertical     `json:"applies_to,omitempty"`
	EntityIDs     []string     `json:"entity_ids,omitempty"`
	ValidUntil    time.Time    `json:"valid_until"`
	IsActive      bool         `json:"is_active"`
}

// Coupon is a code-entered discount. Usage counting and per-user
// restrictions are enforced by the remote service; the fields here are
// for display only.
type Coupon struct {
	Code          string       `json:"code"`
	Category      Vertical     `json:"category"`
	DiscountType  DiscountType `json:"discount_type"`
	DiscountValue float64      `json:"discount_value"`
	ValidFrom     time.Time    `json:"valid_from"`
	ValidUntil    time.Time    `json:"valid_until"`
	MaxUses       int          `json:"max_uses"`
	UsedCount     int          `json:"used_count"`
	IsActive      bool         `json:"is_active"`
}

// ResolvedDiscount is a client-side discount preview. The amount shown
// to the buyer is advisory; the booking response carries the
// authoritative discount and grand total.
type ResolvedDiscount struct {
	Amount   float64 `json:"amount"`
	SourceID string  `json:"source_id"`
}

// IsValidAt reports whether the offer can be presented at the given
// time for the given entity.
func (o *Offer) IsValidAt(now time.Time, entityID string) bool {
	if !o.IsActive {
		return false
	}
	if o.ValidUntil.Before(now) {
		return false
	}
	return o.AppliesToEntity(entityID)
}

// AppliesToEntity reports whether the offer targets the entity. An
// empty target list applies to all entities.
func (o *Offer) AppliesToEntity(entityID string) bool {
	if len(o.EntityIDs) == 0 {
		return true
	}
	for _, id := range o.EntityIDs {
		if id == entityID {
			return true
		}
	}
	return false
}

// ComputeDiscount calculates a discount amount for an order. Percent
// discounts round half-up to the currency's minor unit; the result is
// clamped to the order amount so the grand total can never go
// negative.
func ComputeDiscount(kind DiscountType, value, orderAmount float64) float64 {
	if value <= 0 || orderAmount <= 0 {
		return 0
	}

	var amount decimal.Decimal
	switch kind {
	case DiscountPercent:
		amount = decimal.NewFromFloat(orderAmount).
			Mul(decimal.NewFromFloat(value)).
			Div(decimal.NewFromInt(100)).
			Round(2)
	case DiscountFlat:
		amount = decimal.NewFromFloat(value)
	default:
		return 0
	}

	order := decimal.NewFromFloat(orderAmount)
	if amount.GreaterThan(order) {
		amount = order
	}
	result, _ := amount.Float64()
	return result
}

// DiscountSelection is the buyer's chosen discount source. At most one
// of coupon or offer can be set; the zero value means no discount.
type DiscountSelection struct {
	couponCode string
	offerID    string
}

// NoDiscount returns an empty selection
func NoDiscount() DiscountSelection {
	return DiscountSelection{}
}

// SelectCoupon returns a selection for a coupon code
func SelectCoupon(code string) DiscountSelection {
	return DiscountSelection{couponCode: code}
}

// SelectOffer returns a selection for an offer
func SelectOffer(offerID string) DiscountSelection {
	return DiscountSelection{offerID: offerID}
}

// CouponCode returns the selected coupon code, empty if none
func (s DiscountSelection) CouponCode() string {
	return s.couponCode
}

// OfferID returns the selected offer id, empty if none
func (s DiscountSelection) OfferID() string {
	return s.offerID
}

// IsNone returns true if no discount source was selected
func (s DiscountSelection) IsNone() bool {
	return s.couponCode == "" && s.offerID == ""
}
