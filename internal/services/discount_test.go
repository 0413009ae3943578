package services

import (
	"testing"
	"time"

	"booking-storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBookingAPI mocks the remote booking service for service tests
type MockBookingAPI struct {
	mock.Mock
}

func (m *MockBookingAPI) GetEntity(vertical models.Vertical, id string) (*models.Entity, error) {
	args := m.Called(vertical, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Entity), args.Error(1)
}

func (m *MockBookingAPI) GetEventAvailability(eventID string) (*models.AvailabilitySnapshot, error) {
	args := m.Called(eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AvailabilitySnapshot), args.Error(1)
}

func (m *MockBookingAPI) GetOffers(vertical models.Vertical, entityID string) ([]models.Offer, error) {
	args := m.Called(vertical, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Offer), args.Error(1)
}

func (m *MockBookingAPI) GetCoupons(vertical models.Vertical, userID string) ([]models.Coupon, error) {
	args := m.Called(vertical, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Coupon), args.Error(1)
}

func (m *MockBookingAPI) ValidateCoupon(req *CouponValidateRequest) (*CouponValidateResponse, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CouponValidateResponse), args.Error(1)
}

func (m *MockBookingAPI) CreateBooking(vertical models.Vertical, req *BookingRequest) (*models.BookingResult, error) {
	args := m.Called(vertical, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingResult), args.Error(1)
}

func TestFilterOffers(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	offers := []models.Offer{
		{ID: "global", IsActive: true, ValidUntil: future},
		{ID: "targeted", IsActive: true, ValidUntil: future, EntityIDs: []string{"X"}},
		{ID: "other-entity", IsActive: true, ValidUntil: future, EntityIDs: []string{"Y"}},
		{ID: "expired", IsActive: true, ValidUntil: past},
		{ID: "inactive", IsActive: false, ValidUntil: future},
	}

	got := FilterOffers(offers, "X", now)
	require.Len(t, got, 2)
	assert.Equal(t, "global", got[0].ID)
	assert.Equal(t, "targeted", got[1].ID)
}

func TestDiscountResolver_ActiveOffers(t *testing.T) {
	api := new(MockBookingAPI)
	future := time.Now().Add(24 * time.Hour)
	api.On("GetOffers", models.VerticalEvents, "e1").Return([]models.Offer{
		{ID: "o1", IsActive: true, ValidUntil: future},
		{ID: "o2", IsActive: false, ValidUntil: future},
	}, nil)

	resolver := NewDiscountResolver(api)
	offers, err := resolver.ActiveOffers(models.VerticalEvents, "e1")
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "o1", offers[0].ID)
	api.AssertExpectations(t)
}

func TestDiscountResolver_ActiveOffersUnreachable(t *testing.T) {
	api := new(MockBookingAPI)
	api.On("GetOffers", models.VerticalEvents, "e1").Return(nil, models.ErrServiceUnreachable)

	resolver := NewDiscountResolver(api)
	_, err := resolver.ActiveOffers(models.VerticalEvents, "e1")
	assert.ErrorIs(t, err, models.ErrServiceUnreachable)
}

func TestDiscountResolver_ApplyOffer(t *testing.T) {
	resolver := NewDiscountResolver(new(MockBookingAPI))

	percent := &models.Offer{ID: "o1", DiscountType: models.DiscountPercent, DiscountValue: 20}
	resolved := resolver.ApplyOffer(percent, 1000)
	assert.Equal(t, 200.0, resolved.Amount)
	assert.Equal(t, "o1", resolved.SourceID)

	flat := &models.Offer{ID: "o2", DiscountType: models.DiscountFlat, DiscountValue: 500}
	resolved = resolver.ApplyOffer(flat, 150)
	assert.Equal(t, 150.0, resolved.Amount, "flat discount must clamp at subtotal")
}

func TestDiscountResolver_ValidateCoupon(t *testing.T) {
	api := new(MockBookingAPI)
	resp := &CouponValidateResponse{Valid: true, DiscountAmount: 200}
	resp.Coupon.Code = "SAVE20"
	api.On("ValidateCoupon", mock.MatchedBy(func(req *CouponValidateRequest) bool {
		return req.Code == "SAVE20" && req.EventID == "e1" && req.OrderAmount == 1000
	})).Return(resp, nil)

	resolver := NewDiscountResolver(api)
	resolved, err := resolver.ValidateCoupon("  save20 ", "e1", 1000, "")
	require.NoError(t, err)
	assert.Equal(t, 200.0, resolved.Amount)
	assert.Equal(t, "SAVE20", resolved.SourceID)
}

func TestDiscountResolver_ValidateCouponRejection(t *testing.T) {
	api := new(MockBookingAPI)
	api.On("ValidateCoupon", mock.Anything).Return(nil, &models.DiscountRejectedError{Reason: "coupon has expired"})

	resolver := NewDiscountResolver(api)
	_, err := resolver.ValidateCoupon("OLD", "e1", 1000, "")

	var rejected *models.DiscountRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "coupon has expired", rejected.Reason, "server reason must pass through verbatim")
}

func TestDiscountResolver_ValidateCouponClampsServerAmount(t *testing.T) {
	api := new(MockBookingAPI)
	resp := &CouponValidateResponse{Valid: true, DiscountAmount: 9000}
	resp.Coupon.Code = "BIG"
	api.On("ValidateCoupon", mock.Anything).Return(resp, nil)

	resolver := NewDiscountResolver(api)
	resolved, err := resolver.ValidateCoupon("BIG", "e1", 150, "")
	require.NoError(t, err)
	assert.Equal(t, 150.0, resolved.Amount)
}

func TestDiscountResolver_EmptyCode(t *testing.T) {
	resolver := NewDiscountResolver(new(MockBookingAPI))
	_, err := resolver.ValidateCoupon("   ", "e1", 1000, "")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

// A response arriving after a newer validation was issued for the same
// field must be discarded, never applied over the newer cart state.
func TestDiscountResolver_LastRequestWins(t *testing.T) {
	api := new(MockBookingAPI)
	resolver := NewDiscountResolver(api)

	firstResp := &CouponValidateResponse{Valid: true, DiscountAmount: 100}
	firstResp.Coupon.Code = "FIRST"
	api.On("ValidateCoupon", mock.MatchedBy(func(req *CouponValidateRequest) bool {
		return req.Code == "FIRST"
	})).Run(func(args mock.Arguments) {
		// buyer typed a newer code while this lookup was in flight
		resolver.seq.Add(1)
	}).Return(firstResp, nil)

	_, err := resolver.ValidateCoupon("FIRST", "e1", 1000, "")
	assert.ErrorIs(t, err, models.ErrStaleValidation)
}
