package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"booking-storefront/internal/models"

	"github.com/google/uuid"
)

// BookingAPIConfig represents remote booking service configuration
type BookingAPIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// BookingAPI is the remote booking/catalog service contract this core
// relies on. It exists as an interface so services can be tested
// without a network.
type BookingAPI interface {
	GetEntity(vertical models.Vertical, id string) (*models.Entity, error)
	GetEventAvailability(eventID string) (*models.AvailabilitySnapshot, error)
	GetOffers(vertical models.Vertical, entityID string) ([]models.Offer, error)
	GetCoupons(vertical models.Vertical, userID string) ([]models.Coupon, error)
	ValidateCoupon(req *CouponValidateRequest) (*CouponValidateResponse, error)
	CreateBooking(vertical models.Vertical, req *BookingRequest) (*models.BookingResult, error)
}

// BookingAPIClient talks to the remote booking service over JSON/HTTP
type BookingAPIClient struct {
	config BookingAPIConfig
	client *http.Client
}

// NewBookingAPIClient creates a new booking service client
func NewBookingAPIClient(config BookingAPIConfig) *BookingAPIClient {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	return &BookingAPIClient{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// CouponValidateRequest asks the service whether a coupon applies to an
// order. The service is the sole authority on existence, expiry, usage
// counts and per-user restrictions.
type CouponValidateRequest struct {
	Code        string  `json:"code"`
	EventID     string  `json:"event_id"`
	OrderAmount float64 `json:"order_amount"`
	UserID      string  `json:"user_id,omitempty"`
}

// CouponValidateResponse is the service's validation verdict
type CouponValidateResponse struct {
	Valid          bool    `json:"valid"`
	DiscountAmount float64 `json:"discount_amount"`
	Coupon         struct {
		Code          string              `json:"code"`
		DiscountType  models.DiscountType `json:"discount_type"`
		DiscountValue float64             `json:"discount_value"`
	} `json:"coupon"`
}

// BookingTicketItem is one line item in a booking submission
type BookingTicketItem struct {
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// BookingRequest is the single request a booking submission assembles.
// Entity id field names differ per vertical (event_id, dining_id,
// play_id); exactly one is set. CouponCode and OfferID are mutually
// exclusive.
type BookingRequest struct {
	UserEmail string `json:"user_email"`
	UserID    string `json:"user_id,omitempty"`

	EventID   string `json:"event_id,omitempty"`
	EventName string `json:"event_name,omitempty"`
	DiningID  string `json:"dining_id,omitempty"`
	PlayID    string `json:"play_id,omitempty"`
	VenueName string `json:"venue_name,omitempty"`

	Date     string `json:"date,omitempty"`
	TimeSlot string `json:"time_slot,omitempty"`
	Slot     string `json:"slot,omitempty"`
	Guests   int    `json:"guests,omitempty"`

	Tickets     []BookingTicketItem `json:"tickets,omitempty"`
	OrderAmount float64             `json:"order_amount"`
	BookingFee  float64             `json:"booking_fee"`
	CouponCode  string              `json:"coupon_code,omitempty"`
	OfferID     string              `json:"offer_id,omitempty"`
}

// apiError is the service's error body shape
type apiError struct {
	Error string `json:"error"`
}

// GetEntity fetches a bookable entity with its ticket categories
func (c *BookingAPIClient) GetEntity(vertical models.Vertical, id string) (*models.Entity, error) {
	if !vertical.IsValid() {
		return nil, models.ErrInvalidVertical
	}

	var entity models.Entity
	err := c.get(fmt.Sprintf("/%s/%s", vertical, id), &entity)
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// GetEventAvailability fetches the booked-so-far count per category
func (c *BookingAPIClient) GetEventAvailability(eventID string) (*models.AvailabilitySnapshot, error) {
	var snapshot models.AvailabilitySnapshot
	err := c.get(fmt.Sprintf("/events/%s/availability", eventID), &snapshot)
	if err != nil {
		return nil, err
	}
	if snapshot.Booked == nil {
		snapshot.Booked = map[string]int{}
	}
	return &snapshot, nil
}

// GetOffers fetches the offers listed for an entity in a vertical
func (c *BookingAPIClient) GetOffers(vertical models.Vertical, entityID string) ([]models.Offer, error) {
	if !vertical.IsValid() {
		return nil, models.ErrInvalidVertical
	}

	offers := []models.Offer{}
	err := c.get(fmt.Sprintf("/%s/%s/offers", vertical, entityID), &offers)
	if err != nil {
		return nil, err
	}
	return offers, nil
}

// GetCoupons lists the coupons advertised for a vertical. The service
// filters out inactive and exhausted codes; userID further restricts
// the list to codes the user may redeem.
func (c *BookingAPIClient) GetCoupons(vertical models.Vertical, userID string) ([]models.Coupon, error) {
	if !vertical.IsValid() {
		return nil, models.ErrInvalidVertical
	}

	path := fmt.Sprintf("/coupons?category=%s", vertical)
	if userID != "" {
		path += "&user_id=" + url.QueryEscape(userID)
	}

	coupons := []models.Coupon{}
	if err := c.get(path, &coupons); err != nil {
		return nil, err
	}
	return coupons, nil
}

// ValidateCoupon submits a coupon code for server-side validation. A
// rejection comes back as *models.DiscountRejectedError carrying the
// server's reason verbatim; transport failures wrap
// models.ErrServiceUnreachable.
func (c *BookingAPIClient) ValidateCoupon(req *CouponValidateRequest) (*CouponValidateResponse, error) {
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	if req.Code == "" {
		return nil, fmt.Errorf("%w: coupon code is required", models.ErrInvalidInput)
	}

	var result CouponValidateResponse
	err := c.post("/coupons/validate", req, &result, func(status int, reason string) error {
		return &models.DiscountRejectedError{Reason: reason}
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateBooking submits a booking to the vertical's endpoint. A server
// rejection comes back as *models.BookingRejectedError; the caller
// keeps the cart so the buyer can adjust and retry.
func (c *BookingAPIClient) CreateBooking(vertical models.Vertical, req *BookingRequest) (*models.BookingResult, error) {
	if !vertical.IsValid() {
		return nil, models.ErrInvalidVertical
	}

	var result models.BookingResult
	err := c.post(fmt.Sprintf("/bookings/%s", vertical), req, &result, func(status int, reason string) error {
		return &models.BookingRejectedError{Reason: reason}
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Helper methods

func (c *BookingAPIClient) get(path string, out interface{}) error {
	httpReq, err := http.NewRequest(http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrServiceUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return models.ErrEntityNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("booking service error (status %d): %s", resp.StatusCode, errorReason(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// post sends a JSON body and decodes the response. reject converts a
// non-2xx error body into the caller's domain error so the server's
// reason string survives verbatim.
func (c *BookingAPIClient) post(path string, in, out interface{}, reject func(status int, reason string) error) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, c.config.BaseURL+path, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrServiceUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return reject(resp.StatusCode, errorReason(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorReason extracts the {error} body, falling back to the raw body
func errorReason(body []byte) string {
	var e apiError
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}
