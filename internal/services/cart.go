package services

import (
	"fmt"

	"booking-storefront/internal/models"
	"booking-storefront/internal/repositories"
)

// VisitDetails carries the dining/play slot selection that accompanies
// a cart in those verticals. Unused for events.
type VisitDetails struct {
	Date     string
	TimeSlot string
	Slot     string
	Guests   int
}

// CartBuilder holds the buyer's selected quantity per category and
// enforces the availability ceiling on every increment. Totals are
// always derived from the quantity map, never stored, so the displayed
// and charged amounts cannot diverge.
type CartBuilder struct {
	entity     *models.Entity
	vertical   models.Vertical
	categories []models.TicketCategory
	snapshot   *models.AvailabilitySnapshot
	quantities []int
	visit      VisitDetails
}

// NewCartBuilder creates a builder for an entity view. Categories are
// normalized once; the snapshot is the availability fetched alongside
// the entity and is treated as read-only.
func NewCartBuilder(vertical models.Vertical, entity *models.Entity, snapshot *models.AvailabilitySnapshot) *CartBuilder {
	categories := models.NormalizeCategories(entity)
	return &CartBuilder{
		entity:     entity,
		vertical:   vertical,
		categories: categories,
		snapshot:   snapshot,
		quantities: make([]int, len(categories)),
	}
}

// SetVisit records the dining/play visit selection
func (b *CartBuilder) SetVisit(visit VisitDetails) {
	b.visit = visit
}

// Categories returns the normalized categories in display order
func (b *CartBuilder) Categories() []models.TicketCategory {
	return b.categories
}

// Quantity returns the current selection for a category index
func (b *CartBuilder) Quantity(i int) int {
	if i < 0 || i >= len(b.quantities) {
		return 0
	}
	return b.quantities[i]
}

// Remaining returns the seats still selectable for a category index,
// derived fresh from capacity, the snapshot and the current selection
func (b *CartBuilder) Remaining(i int) (int, bool) {
	if i < 0 || i >= len(b.categories) {
		return 0, false
	}
	return b.categories[i].Remaining(b.snapshot)
}

// IsSoldOut reports whether a category has no seats left to sell
func (b *CartBuilder) IsSoldOut(i int) bool {
	if i < 0 || i >= len(b.categories) {
		return false
	}
	return b.categories[i].IsSoldOut(b.snapshot)
}

// Increment raises the selection for a category by one. Selecting past
// the remaining seats is a silent no-op; the return value reports
// whether the increment applied.
func (b *CartBuilder) Increment(i int) bool {
	if i < 0 || i >= len(b.categories) {
		return false
	}
	remaining, unlimited := b.categories[i].Remaining(b.snapshot)
	if !unlimited && b.quantities[i] >= remaining {
		return false
	}
	b.quantities[i]++
	return true
}

// Decrement lowers the selection for a category by one, stopping at
// zero. Decrementing an empty selection is a no-op.
func (b *CartBuilder) Decrement(i int) bool {
	if i < 0 || i >= len(b.quantities) || b.quantities[i] == 0 {
		return false
	}
	b.quantities[i]--
	return true
}

// SetQuantity sets the selection for a category directly, clamped to
// [0, remaining]. Returns the quantity actually applied.
func (b *CartBuilder) SetQuantity(i, quantity int) int {
	if i < 0 || i >= len(b.categories) {
		return 0
	}
	if quantity < 0 {
		quantity = 0
	}
	remaining, unlimited := b.categories[i].Remaining(b.snapshot)
	if !unlimited && quantity > remaining {
		quantity = remaining
	}
	b.quantities[i] = quantity
	return quantity
}

// TotalCount returns the total selected quantity across categories
func (b *CartBuilder) TotalCount() int {
	total := 0
	for _, q := range b.quantities {
		total += q
	}
	return total
}

// Subtotal returns the order amount for the current selection
func (b *CartBuilder) Subtotal() float64 {
	total := 0.0
	for i, q := range b.quantities {
		if q > 0 {
			total += b.categories[i].Price * float64(q)
		}
	}
	return total
}

// Lines returns the non-zero line items in category display order.
// Zero-quantity categories stay in the builder so the view can still
// render them, but never appear in the emitted items.
func (b *CartBuilder) Lines() []models.CartTicket {
	lines := []models.CartTicket{}
	for i, q := range b.quantities {
		if q > 0 {
			lines = append(lines, models.CartTicket{
				Name:     b.categories[i].Name,
				Price:    b.categories[i].Price,
				Quantity: q,
			})
		}
	}
	return lines
}

// Reset clears the selection
func (b *CartBuilder) Reset() {
	b.quantities = make([]int, len(b.categories))
}

// Cart serializes the current selection into the fixed cart shape the
// review step consumes.
func (b *CartBuilder) Cart() *models.Cart {
	cart := &models.Cart{
		EventID:    b.entity.ID,
		EventName:  b.entity.Name,
		City:       b.entity.City,
		Tickets:    b.Lines(),
		TotalPrice: b.Subtotal(),
	}
	if b.vertical != models.VerticalEvents {
		cart.Type = b.vertical
		cart.Date = b.visit.Date
		cart.TimeSlot = b.visit.TimeSlot
		cart.Slot = b.visit.Slot
		cart.Guests = b.visit.Guests
	}
	return cart
}

// Checkout writes the serialized cart into the store. This is the only
// point the cart is persisted; per-click mutations stay in memory.
func (b *CartBuilder) Checkout(store repositories.CartStore) (*models.Cart, error) {
	if b.TotalCount() == 0 {
		return nil, models.ErrCartEmpty
	}
	cart := b.Cart()
	if err := store.Save(cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return cart, nil
}

// BuildDiningCart assembles a dining reservation cart. Dining carts
// have no ticket lines; the table is held for the guest count at the
// venue's per-table price.
func BuildDiningCart(venue *models.Entity, date, timeSlot string, guests int) *models.Cart {
	price := venue.PriceStartsFrom
	return &models.Cart{
		EventID:    venue.ID,
		EventName:  venue.Name,
		City:       venue.City,
		Type:       models.VerticalDining,
		Date:       date,
		TimeSlot:   timeSlot,
		Guests:     guests,
		Tickets:    []models.CartTicket{},
		TotalPrice: price,
	}
}

// BuildPlayCart assembles a sports-venue cart: one line per selected
// court, priced per court for the chosen duration.
func BuildPlayCart(venue *models.Entity, date, slot string, courtNames []string, durationHours int) *models.Cart {
	if durationHours <= 0 {
		durationHours = 1
	}
	pricePerCourt := venue.PriceStartsFrom * float64(durationHours)

	tickets := make([]models.CartTicket, 0, len(courtNames))
	for _, name := range courtNames {
		tickets = append(tickets, models.CartTicket{
			Name:     fmt.Sprintf("%s (%dhr)", name, durationHours),
			Price:    pricePerCourt,
			Quantity: 1,
		})
	}

	cart := &models.Cart{
		EventID:   venue.ID,
		EventName: venue.Name,
		City:      venue.City,
		Type:      models.VerticalPlay,
		Date:      date,
		Slot:      slot,
		Tickets:   tickets,
	}
	cart.TotalPrice = cart.Subtotal()
	return cart
}
