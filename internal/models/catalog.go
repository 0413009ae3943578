package models

import "strings"

// Vertical identifies which booking vertical an entity belongs to
type Vertical string

const (
	VerticalEvents Vertical = "events"
	VerticalDining Vertical = "dining"
	VerticalPlay   Vertical = "play"
)

// DefaultCategoryName is the category synthesized for entities that
// declare no ticket categories of their own.
const DefaultCategoryName = "General Admission"

// TicketCategory represents a sellable unit within an entity: a ticket
// tier, a table type or a court slot. Capacity of zero means unlimited.
type TicketCategory struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Capacity int     `json:"capacity,omitempty"`
}

// Entity is a bookable venue or event as returned by the catalog
// service. Only the fields the booking flow needs are decoded.
type Entity struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	City             string           `json:"city"`
	VenueName        string           `json:"venue_name,omitempty"`
	PriceStartsFrom  float64          `json:"price_starts_from"`
	TicketCategories []TicketCategory `json:"ticket_categories,omitempty"`
}

// IsValid returns true if the vertical is one of the known verticals
func (v Vertical) IsValid() bool {
	switch v {
	case VerticalEvents, VerticalDining, VerticalPlay:
		return true
	default:
		return false
	}
}

// NormalizeCategories returns the entity's sellable categories in
// declaration order. Entities without explicit categories get a single
// default category priced at the entity's starting price. Malformed
// prices and capacities degrade to zero rather than failing.
func NormalizeCategories(e *Entity) []TicketCategory {
	if e == nil {
		return nil
	}

	if len(e.TicketCategories) == 0 {
		return []TicketCategory{
			{
				Name:  DefaultCategoryName,
				Price: nonNegative(e.PriceStartsFrom),
			},
		}
	}

	categories := make([]TicketCategory, 0, len(e.TicketCategories))
	for _, cat := range e.TicketCategories {
		normalized := TicketCategory{
			Name:     strings.TrimSpace(cat.Name),
			Price:    nonNegative(cat.Price),
			Capacity: cat.Capacity,
		}
		if normalized.Capacity < 0 {
			normalized.Capacity = 0
		}
		categories = append(categories, normalized)
	}
	return categories
}

// HasCapacity returns true if the category has a numeric seat limit
func (tc *TicketCategory) HasCapacity() bool {
	return tc.Capacity > 0
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
