package services

import (
	"testing"

	"booking-storefront/internal/models"
	"booking-storefront/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntity() *models.Entity {
	return &models.Entity{
		ID:   "e1",
		Name: "Summer Fest",
		City: "Bangalore",
		TicketCategories: []models.TicketCategory{
			{Name: "VIP", Price: 500, Capacity: 2},
			{Name: "Regular", Price: 200, Capacity: 100},
			{Name: "Lawn", Price: 100},
		},
	}
}

func TestCartBuilder_IncrementRespectsAvailability(t *testing.T) {
	snapshot := &models.AvailabilitySnapshot{Booked: map[string]int{"VIP": 1}}
	builder := NewCartBuilder(models.VerticalEvents, testEntity(), snapshot)

	// VIP has capacity 2, booked 1 -> one seat left
	assert.True(t, builder.Increment(0))
	assert.False(t, builder.Increment(0), "second increment past remaining must be a no-op")
	assert.Equal(t, 1, builder.Quantity(0))

	// unlimited category never blocks
	for i := 0; i < 500; i++ {
		assert.True(t, builder.Increment(2))
	}
	assert.Equal(t, 500, builder.Quantity(2))
}

func TestCartBuilder_IncrementThenDecrementIsIdempotent(t *testing.T) {
	snapshot := &models.AvailabilitySnapshot{Booked: map[string]int{}}
	builder := NewCartBuilder(models.VerticalEvents, testEntity(), snapshot)

	for _, start := range []int{0, 1, 5} {
		builder.SetQuantity(1, start)
		before := builder.Quantity(1)
		builder.Increment(1)
		builder.Decrement(1)
		assert.Equal(t, before, builder.Quantity(1), "starting quantity %d", start)
	}
}

func TestCartBuilder_DecrementFloorsAtZero(t *testing.T) {
	builder := NewCartBuilder(models.VerticalEvents, testEntity(), nil)

	assert.False(t, builder.Decrement(0))
	assert.Equal(t, 0, builder.Quantity(0))
}

func TestCartBuilder_SoldOutCategory(t *testing.T) {
	snapshot := &models.AvailabilitySnapshot{Booked: map[string]int{"VIP": 2}}
	builder := NewCartBuilder(models.VerticalEvents, testEntity(), snapshot)

	assert.True(t, builder.IsSoldOut(0))
	assert.False(t, builder.Increment(0), "increment on sold-out category must be a no-op")
	assert.Equal(t, 0, builder.Quantity(0))

	// a stale positive quantity can still be decremented down to zero
	builder.quantities[0] = 1
	assert.True(t, builder.Decrement(0))
	assert.Equal(t, 0, builder.Quantity(0))
}

func TestCartBuilder_TotalsAreDerived(t *testing.T) {
	builder := NewCartBuilder(models.VerticalEvents, testEntity(), nil)

	builder.SetQuantity(0, 2)
	builder.SetQuantity(1, 3)
	assert.Equal(t, 5, builder.TotalCount())
	assert.Equal(t, 1600.0, builder.Subtotal())

	// no recalculate call needed after a mutation
	builder.Decrement(1)
	assert.Equal(t, 4, builder.TotalCount())
	assert.Equal(t, 1400.0, builder.Subtotal())
}

func TestCartBuilder_LinesExcludeZeroQuantities(t *testing.T) {
	builder := NewCartBuilder(models.VerticalEvents, testEntity(), nil)
	builder.SetQuantity(1, 2)

	lines := builder.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "Regular", lines[0].Name)
	assert.Equal(t, 2, lines[0].Quantity)

	// zero-quantity categories stay visible on the builder itself
	assert.Len(t, builder.Categories(), 3)
}

func TestCartBuilder_SetQuantityClampsToRemaining(t *testing.T) {
	snapshot := &models.AvailabilitySnapshot{Booked: map[string]int{"VIP": 1}}
	builder := NewCartBuilder(models.VerticalEvents, testEntity(), snapshot)

	applied := builder.SetQuantity(0, 10)
	assert.Equal(t, 1, applied)
	assert.Equal(t, 1, builder.Quantity(0))

	assert.Equal(t, 0, builder.SetQuantity(0, -4))
}

func TestCartBuilder_CheckoutSerializesOnce(t *testing.T) {
	store := repositories.NewMemoryCartStore()
	builder := NewCartBuilder(models.VerticalEvents, testEntity(), nil)
	builder.SetQuantity(0, 1)

	// mutations alone never touch the store
	_, err := store.Load()
	assert.ErrorIs(t, err, models.ErrCartNotFound)

	cart, err := builder.Checkout(store)
	require.NoError(t, err)
	assert.Equal(t, "e1", cart.EventID)
	assert.Equal(t, "Summer Fest", cart.EventName)
	assert.Equal(t, "Bangalore", cart.City)
	assert.Equal(t, 500.0, cart.TotalPrice)

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, cart.TotalPrice, saved.TotalPrice)
}

func TestCartBuilder_CheckoutEmptyCart(t *testing.T) {
	builder := NewCartBuilder(models.VerticalEvents, testEntity(), nil)
	_, err := builder.Checkout(repositories.NewMemoryCartStore())
	assert.ErrorIs(t, err, models.ErrCartEmpty)
}

func TestCartBuilder_GeneralAdmissionFallback(t *testing.T) {
	entity := &models.Entity{ID: "e2", Name: "Open Mic", City: "Pune", PriceStartsFrom: 150}
	builder := NewCartBuilder(models.VerticalEvents, entity, nil)

	require.Len(t, builder.Categories(), 1)
	assert.Equal(t, models.DefaultCategoryName, builder.Categories()[0].Name)
	assert.True(t, builder.Increment(0))
	assert.Equal(t, 150.0, builder.Subtotal())
}

func TestBuildDiningCart(t *testing.T) {
	venue := &models.Entity{ID: "d1", Name: "Harbour House", City: "Mumbai", PriceStartsFrom: 800}
	cart := BuildDiningCart(venue, "2026-09-05", "1:30 PM", 2)

	assert.Equal(t, models.VerticalDining, cart.Type)
	assert.Equal(t, "1:30 PM", cart.TimeSlot)
	assert.Equal(t, 2, cart.Guests)
	assert.Equal(t, 800.0, cart.TotalPrice)
	assert.Empty(t, cart.Tickets)
}

func TestBuildPlayCart(t *testing.T) {
	venue := &models.Entity{ID: "p1", Name: "Smash Arena", City: "Bangalore", PriceStartsFrom: 500}
	cart := BuildPlayCart(venue, "2026-09-05", "6:00 PM", []string{"Main Court 1", "Pro Court 2"}, 2)

	assert.Equal(t, models.VerticalPlay, cart.Type)
	require.Len(t, cart.Tickets, 2)
	assert.Equal(t, "Main Court 1 (2hr)", cart.Tickets[0].Name)
	assert.Equal(t, 1000.0, cart.Tickets[0].Price)
	assert.Equal(t, 1, cart.Tickets[0].Quantity)
	assert.Equal(t, 2000.0, cart.TotalPrice)
}
