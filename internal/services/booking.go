package services

import (
	"fmt"
	"regexp"

	"booking-storefront/internal/models"
	"booking-storefront/internal/repositories"

	"github.com/shopspring/decimal"
)

// DefaultBookingFeeRate is the platform fee charged on the order
// amount, rounded to the whole currency unit.
const DefaultBookingFeeRate = 0.10

var buyerEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// BuyerContext identifies the buyer on a submission
type BuyerContext struct {
	Email  string
	UserID string
}

// BookingSubmitter assembles the final booking request and interprets
// the result. The response's grand total and discount are
// authoritative; any client-side preview is overwritten before the
// confirmation is surfaced.
type BookingSubmitter struct {
	api     BookingAPI
	feeRate float64
}

// NewBookingSubmitter creates a submitter with the given fee rate; a
// non-positive rate falls back to the default.
func NewBookingSubmitter(api BookingAPI, feeRate float64) *BookingSubmitter {
	if feeRate <= 0 {
		feeRate = DefaultBookingFeeRate
	}
	return &BookingSubmitter{api: api, feeRate: feeRate}
}

// BookingFee computes the platform fee for an order amount, rounded
// half-up to the whole unit the way the storefront displays it.
func (s *BookingSubmitter) BookingFee(orderAmount float64) float64 {
	if orderAmount <= 0 {
		return 0
	}
	fee, _ := decimal.NewFromFloat(orderAmount).
		Mul(decimal.NewFromFloat(s.feeRate)).
		Round(0).
		Float64()
	return fee
}

// GrandTotal is the amount the buyer pays: order amount plus booking
// fee minus the discount, never below zero.
func GrandTotal(orderAmount, bookingFee, discount float64) float64 {
	total := orderAmount + bookingFee - discount
	if total < 0 {
		return 0
	}
	return total
}

// Submit sends the cart with the chosen discount source to the
// vertical's booking endpoint. On confirmed success the cart is
// cleared from the store; on any failure it is preserved so the buyer
// can adjust quantities and retry.
func (s *BookingSubmitter) Submit(cart *models.Cart, selection models.DiscountSelection, buyer BuyerContext, store repositories.CartStore) (*models.BookingResult, error) {
	if cart == nil {
		return nil, models.ErrCartNotFound
	}
	if !buyerEmailRegex.MatchString(buyer.Email) {
		return nil, fmt.Errorf("%w: a valid buyer email is required", models.ErrInvalidInput)
	}

	vertical := cart.VerticalOrDefault()
	if vertical == models.VerticalEvents && cart.IsEmpty() {
		return nil, models.ErrCartEmpty
	}

	orderAmount := cart.Subtotal()
	if vertical == models.VerticalDining {
		// dining carts carry the table price in the total, not lines
		orderAmount = cart.TotalPrice
	}

	req := &BookingRequest{
		UserEmail:   buyer.Email,
		UserID:      buyer.UserID,
		OrderAmount: orderAmount,
		BookingFee:  s.BookingFee(orderAmount),
		CouponCode:  selection.CouponCode(),
		OfferID:     selection.OfferID(),
	}

	switch vertical {
	case models.VerticalEvents:
		req.EventID = cart.EventID
		req.EventName = cart.EventName
		req.Tickets = ticketItems(cart.Tickets)
	case models.VerticalDining:
		req.DiningID = cart.EventID
		req.VenueName = cart.EventName
		req.Date = cart.Date
		req.TimeSlot = cart.TimeSlot
		req.Guests = cart.Guests
	case models.VerticalPlay:
		req.PlayID = cart.EventID
		req.VenueName = cart.EventName
		req.Date = cart.Date
		req.Slot = cart.Slot
		req.Tickets = ticketItems(cart.Tickets)
	}

	result, err := s.api.CreateBooking(vertical, req)
	if err != nil {
		return nil, err
	}

	if result.IsConfirmed() && store != nil {
		if err := store.Clear(); err != nil {
			return result, fmt.Errorf("booking confirmed but cart not cleared: %w", err)
		}
	}
	return result, nil
}

func ticketItems(tickets []models.CartTicket) []BookingTicketItem {
	items := make([]BookingTicketItem, 0, len(tickets))
	for _, t := range tickets {
		items = append(items, BookingTicketItem{
			Category: t.Name,
			Price:    t.Price,
			Quantity: t.Quantity,
		})
	}
	return items
}
