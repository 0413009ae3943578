package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"booking-storefront/internal/models"
	"booking-storefront/internal/repositories"
	"booking-storefront/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
)

const sessionName = "session"

// discountKey is the session key for the currently applied discount selection.
const discountKey = "booking_discount"

// appliedDiscount is the session-persisted form of a discount selection,
// kept alongside the cart so the preview survives page loads.
type appliedDiscount struct {
	CouponCode string  `json:"coupon_code,omitempty"`
	OfferID    string  `json:"offer_id,omitempty"`
	Amount     float64 `json:"amount"`
}

// CartHandler handles cart, discount and booking requests
type CartHandler struct {
	api       services.BookingAPI
	resolver  *services.DiscountResolver
	submitter *services.BookingSubmitter
	store     sessions.Store
}

// NewCartHandler creates a new cart handler
func NewCartHandler(
	api services.BookingAPI,
	resolver *services.DiscountResolver,
	submitter *services.BookingSubmitter,
	store sessions.Store,
) *CartHandler {
	return &CartHandler{
		api:       api,
		resolver:  resolver,
		submitter: submitter,
		store:     store,
	}
}

// GetBookingPage returns the category list for an entity with live
// remaining counts so the client can render quantity steppers.
func (h *CartHandler) GetBookingPage(w http.ResponseWriter, r *http.Request) {
	vertical := models.Vertical(chi.URLParam(r, "vertical"))
	if !vertical.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid vertical")
		return
	}
	entityID := chi.URLParam(r, "id")

	entity, err := h.api.GetEntity(vertical, entityID)
	if err != nil {
		h.handleAPIError(w, err)
		return
	}

	categories := models.NormalizeCategories(entity)

	var snapshot *models.AvailabilitySnapshot
	if vertical == models.VerticalEvents {
		snapshot, err = h.api.GetEventAvailability(entityID)
		if err != nil {
			h.handleAPIError(w, err)
			return
		}
	}

	type categoryView struct {
		Name      string  `json:"name"`
		Price     float64 `json:"price"`
		Remaining int     `json:"remaining,omitempty"`
		Unlimited bool    `json:"unlimited,omitempty"`
		SoldOut   bool    `json:"soldOut"`
	}

	views := make([]categoryView, 0, len(categories))
	for i := range categories {
		tc := &categories[i]
		remaining, unlimited := tc.Remaining(snapshot)
		views = append(views, categoryView{
			Name:      tc.Name,
			Price:     tc.Price,
			Remaining: remaining,
			Unlimited: unlimited,
			SoldOut:   tc.IsSoldOut(snapshot),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":         entity.ID,
		"name":       entity.Name,
		"city":       entity.City,
		"categories": views,
	})
}

type checkoutRequest struct {
	Tickets []struct {
		Name     string `json:"name"`
		Quantity int    `json:"quantity"`
	} `json:"tickets"`
	Date     string `json:"date,omitempty"`
	TimeSlot string `json:"timeSlot,omitempty"`
	Slot     string `json:"slot,omitempty"`
	Guests   int    `json:"guests,omitempty"`
	Courts   []struct {
		Name  string `json:"name"`
		Hours int    `json:"hours"`
	} `json:"courts,omitempty"`
}

// Checkout builds a cart from the requested quantities, clamping each
// against fresh availability, and persists it to the session.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	vertical := models.Vertical(chi.URLParam(r, "vertical"))
	if !vertical.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid vertical")
		return
	}
	entityID := chi.URLParam(r, "id")

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entity, err := h.api.GetEntity(vertical, entityID)
	if err != nil {
		h.handleAPIError(w, err)
		return
	}

	cart, err := h.buildCart(vertical, entity, req)
	if err != nil {
		if errors.Is(err, models.ErrCartEmpty) {
			writeError(w, http.StatusBadRequest, "cart is empty")
			return
		}
		h.handleAPIError(w, err)
		return
	}

	session, err := h.store.Get(r, sessionName)
	if err != nil {
		h.handleSessionError(w, r, err)
		return
	}

	cartStore := repositories.NewSessionCartStore(session)
	if err := cartStore.Save(cart); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save cart")
		return
	}
	// A fresh cart invalidates any previously applied discount.
	delete(session.Values, discountKey)
	if err := session.Save(r, w); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save session")
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) buildCart(vertical models.Vertical, entity *models.Entity, req checkoutRequest) (*models.Cart, error) {
	switch vertical {
	case models.VerticalDining:
		return services.BuildDiningCart(entity, req.Date, req.TimeSlot, req.Guests), nil
	case models.VerticalPlay:
		courts := make([]string, 0, len(req.Courts))
		hours := 1
		for _, c := range req.Courts {
			courts = append(courts, c.Name)
			if c.Hours > 0 {
				hours = c.Hours
			}
		}
		return services.BuildPlayCart(entity, req.Date, req.Slot, courts, hours), nil
	}

	snapshot, err := h.api.GetEventAvailability(entity.ID)
	if err != nil {
		return nil, err
	}

	builder := services.NewCartBuilder(vertical, entity, snapshot)
	for _, t := range req.Tickets {
		for i, tc := range builder.Categories() {
			if tc.Name == t.Name {
				builder.SetQuantity(i, t.Quantity)
			}
		}
	}
	if builder.TotalCount() == 0 {
		return nil, models.ErrCartEmpty
	}
	return builder.Cart(), nil
}

// GetCart returns the cart stored in the session along with any
// applied discount and the resulting totals.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.Get(r, sessionName)
	if err != nil {
		h.handleSessionError(w, r, err)
		return
	}

	cart, err := repositories.NewSessionCartStore(session).Load()
	if err != nil {
		if errors.Is(err, models.ErrCartNotFound) {
			writeError(w, http.StatusNotFound, "cart not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}

	discount := getDiscountFromSession(session)
	writeJSON(w, http.StatusOK, h.cartSummary(cart, discount))
}

func (h *CartHandler) cartSummary(cart *models.Cart, discount *appliedDiscount) map[string]any {
	fee := h.submitter.BookingFee(cart.TotalPrice)
	summary := map[string]any{
		"cart":       cart,
		"bookingFee": fee,
		"grandTotal": services.GrandTotal(cart.TotalPrice, fee, 0),
	}
	if discount != nil {
		summary["discount"] = discount
		summary["grandTotal"] = services.GrandTotal(cart.TotalPrice, fee, discount.Amount)
	}
	return summary
}

// GetOffers lists the offers currently applicable to an entity.
func (h *CartHandler) GetOffers(w http.ResponseWriter, r *http.Request) {
	vertical := models.Vertical(chi.URLParam(r, "vertical"))
	if !vertical.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid vertical")
		return
	}

	offers, err := h.resolver.ActiveOffers(vertical, chi.URLParam(r, "id"))
	if err != nil {
		h.handleAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"offers": offers})
}

// GetCoupons lists the coupons advertised for a vertical, for display
// next to the coupon input. Redeemability is still decided by
// validation at apply time.
func (h *CartHandler) GetCoupons(w http.ResponseWriter, r *http.Request) {
	vertical := models.Vertical(chi.URLParam(r, "vertical"))
	if !vertical.IsValid() {
		writeError(w, http.StatusBadRequest, "invalid vertical")
		return
	}

	coupons, err := h.api.GetCoupons(vertical, r.URL.Query().Get("user_id"))
	if err != nil {
		h.handleAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"coupons": coupons})
}

// ApplyCoupon validates a coupon code against the session cart and, if
// accepted, records the discount alongside the cart.
func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code   string `json:"code"`
		UserID string `json:"user_id,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Code) == "" {
		writeError(w, http.StatusBadRequest, "coupon code is required")
		return
	}

	session, err := h.store.Get(r, sessionName)
	if err != nil {
		h.handleSessionError(w, r, err)
		return
	}

	cart, err := repositories.NewSessionCartStore(session).Load()
	if err != nil {
		writeError(w, http.StatusBadRequest, "no cart to apply a coupon to")
		return
	}

	resolved, err := h.resolver.ValidateCoupon(req.Code, cart.EventID, cart.TotalPrice, req.UserID)
	if err != nil {
		var rejected *models.DiscountRejectedError
		switch {
		case errors.As(err, &rejected):
			writeError(w, http.StatusUnprocessableEntity, rejected.Reason)
		case errors.Is(err, models.ErrStaleValidation):
			// A newer validation superseded this one; say nothing.
			w.WriteHeader(http.StatusNoContent)
		default:
			h.handleAPIError(w, err)
		}
		return
	}

	discount := &appliedDiscount{CouponCode: resolved.SourceID, Amount: resolved.Amount}
	if err := saveDiscountToSession(session, discount); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save discount")
		return
	}
	if err := session.Save(r, w); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save session")
		return
	}

	writeJSON(w, http.StatusOK, h.cartSummary(cart, discount))
}

// ApplyOffer applies one of the entity's active offers to the session cart.
func (h *CartHandler) ApplyOffer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OfferID string `json:"offer_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OfferID == "" {
		writeError(w, http.StatusBadRequest, "offer_id is required")
		return
	}

	session, err := h.store.Get(r, sessionName)
	if err != nil {
		h.handleSessionError(w, r, err)
		return
	}

	cart, err := repositories.NewSessionCartStore(session).Load()
	if err != nil {
		writeError(w, http.StatusBadRequest, "no cart to apply an offer to")
		return
	}

	offers, err := h.resolver.ActiveOffers(cart.VerticalOrDefault(), cart.EventID)
	if err != nil {
		h.handleAPIError(w, err)
		return
	}

	var selected *models.Offer
	for i := range offers {
		if offers[i].ID == req.OfferID {
			selected = &offers[i]
			break
		}
	}
	if selected == nil {
		writeError(w, http.StatusUnprocessableEntity, "offer is not applicable")
		return
	}

	resolved := h.resolver.ApplyOffer(selected, cart.TotalPrice)
	discount := &appliedDiscount{OfferID: resolved.SourceID, Amount: resolved.Amount}
	if err := saveDiscountToSession(session, discount); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save discount")
		return
	}
	if err := session.Save(r, w); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save session")
		return
	}

	writeJSON(w, http.StatusOK, h.cartSummary(cart, discount))
}

// RemoveDiscount clears any applied coupon or offer from the session.
func (h *CartHandler) RemoveDiscount(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.Get(r, sessionName)
	if err != nil {
		h.handleSessionError(w, r, err)
		return
	}

	delete(session.Values, discountKey)
	if err := session.Save(r, w); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubmitBooking submits the session cart together with any applied
// discount. The cart is cleared only when the booking confirms.
func (h *CartHandler) SubmitBooking(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email  string `json:"email"`
		UserID string `json:"user_id,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.store.Get(r, sessionName)
	if err != nil {
		h.handleSessionError(w, r, err)
		return
	}

	cartStore := repositories.NewSessionCartStore(session)
	cart, err := cartStore.Load()
	if err != nil {
		writeError(w, http.StatusBadRequest, "no cart to submit")
		return
	}

	selection := models.NoDiscount()
	if d := getDiscountFromSession(session); d != nil {
		if d.CouponCode != "" {
			selection = models.SelectCoupon(d.CouponCode)
		} else if d.OfferID != "" {
			selection = models.SelectOffer(d.OfferID)
		}
	}

	buyer := services.BuyerContext{Email: req.Email, UserID: req.UserID}
	result, err := h.submitter.Submit(cart, selection, buyer, cartStore)
	if err != nil {
		var rejected *models.BookingRejectedError
		switch {
		case errors.As(err, &rejected):
			writeError(w, http.StatusUnprocessableEntity, rejected.Reason)
		case errors.Is(err, models.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.handleAPIError(w, err)
		}
		return
	}

	if result.IsConfirmed() {
		delete(session.Values, discountKey)
	}
	if err := session.Save(r, w); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save session")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *CartHandler) handleAPIError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrEntityNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, models.ErrServiceUnreachable):
		writeError(w, http.StatusBadGateway, "service unavailable, please retry")
	default:
		log.Printf("Cart handler error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *CartHandler) handleSessionError(w http.ResponseWriter, r *http.Request, err error) {
	// A stale or tampered cookie should not lock the user out; retry
	// with a fresh session on the next request.
	log.Printf("Session error: %v", err)
	writeError(w, http.StatusInternalServerError, "session error")
}

func getDiscountFromSession(session *sessions.Session) *appliedDiscount {
	raw, ok := session.Values[discountKey].(string)
	if !ok || raw == "" {
		return nil
	}
	var d appliedDiscount
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil
	}
	return &d
}

func saveDiscountToSession(session *sessions.Session, d *appliedDiscount) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	session.Values[discountKey] = string(raw)
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
