package services

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"booking-storefront/internal/models"
)

// DiscountResolver validates coupon codes against the remote service
// and filters offer lists down to the ones a buyer may be shown. It
// never auto-picks an offer; presenting the candidates and choosing is
// the caller's business.
type DiscountResolver struct {
	api BookingAPI

	// seq orders in-flight coupon validations so a stale response is
	// never applied on top of a newer cart state (last request wins).
	seq atomic.Uint64
}

// NewDiscountResolver creates a discount resolver backed by the remote
// booking service
func NewDiscountResolver(api BookingAPI) *DiscountResolver {
	return &DiscountResolver{api: api}
}

// ActiveOffers fetches and filters the offers presentable for an
// entity: active, unexpired, and either global or targeting the
// entity. Order is preserved from the service listing.
func (r *DiscountResolver) ActiveOffers(vertical models.Vertical, entityID string) ([]models.Offer, error) {
	offers, err := r.api.GetOffers(vertical, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch offers: %w", err)
	}
	return FilterOffers(offers, entityID, time.Now()), nil
}

// FilterOffers keeps the offers valid for the entity at the given time
func FilterOffers(offers []models.Offer, entityID string, now time.Time) []models.Offer {
	valid := []models.Offer{}
	for _, offer := range offers {
		if offer.IsValidAt(now, entityID) {
			valid = append(valid, offer)
		}
	}
	return valid
}

// ApplyOffer computes the local discount preview for a chosen offer.
// The preview is advisory; the booking response remains authoritative.
func (r *DiscountResolver) ApplyOffer(offer *models.Offer, orderAmount float64) models.ResolvedDiscount {
	return models.ResolvedDiscount{
		Amount:   models.ComputeDiscount(offer.DiscountType, offer.DiscountValue, orderAmount),
		SourceID: offer.ID,
	}
}

// ValidateCoupon asks the remote service whether the code applies to
// the order. Server-side rules (expiry window, usage counts, per-user
// restriction) are not re-implemented locally. If the buyer issued a
// newer validation before this one returned, the stale result is
// discarded and models.ErrStaleValidation comes back instead.
func (r *DiscountResolver) ValidateCoupon(code, entityID string, orderAmount float64, userID string) (*models.ResolvedDiscount, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, fmt.Errorf("%w: coupon code is required", models.ErrInvalidInput)
	}

	token := r.seq.Add(1)

	result, err := r.api.ValidateCoupon(&CouponValidateRequest{
		Code:        code,
		EventID:     entityID,
		OrderAmount: orderAmount,
		UserID:      userID,
	})

	if token != r.seq.Load() {
		return nil, models.ErrStaleValidation
	}
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, &models.DiscountRejectedError{Reason: "coupon is not valid for this order"}
	}

	amount := result.DiscountAmount
	if amount > orderAmount {
		amount = orderAmount
	}
	if amount < 0 {
		amount = 0
	}

	sourceID := result.Coupon.Code
	if sourceID == "" {
		sourceID = code
	}
	return &models.ResolvedDiscount{
		Amount:   amount,
		SourceID: sourceID,
	}, nil
}
