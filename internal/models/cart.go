package models

// CartTicket represents one line item in a serialized cart
type CartTicket struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Cart is the serialized in-progress booking selection. The field set
// and JSON keys are fixed: the review step reads this blob verbatim
// from the cart store. Event carts carry exactly eventId, eventName,
// city, tickets and totalPrice; dining and play carts add their visit
// fields via omitempty.
type Cart struct {
	EventID    string       `json:"eventId"`
	EventName  string       `json:"eventName"`
	City       string       `json:"city"`
	Tickets    []CartTicket `json:"tickets"`
	TotalPrice float64      `json:"totalPrice"`

	Type     Vertical `json:"type,omitempty"`
	Date     string   `json:"date,omitempty"`
	TimeSlot string   `json:"timeSlot,omitempty"`
	Slot     string   `json:"slot,omitempty"`
	Guests   int      `json:"guests,omitempty"`
}

// VerticalOrDefault returns the cart's booking vertical, defaulting to
// events for carts serialized before the type field existed.
func (c *Cart) VerticalOrDefault() Vertical {
	if c.Type.IsValid() {
		return c.Type
	}
	return VerticalEvents
}

// TotalTickets returns the total quantity across all line items
func (c *Cart) TotalTickets() int {
	total := 0
	for _, t := range c.Tickets {
		total += t.Quantity
	}
	return total
}

// Subtotal recomputes the order amount from the line items. The stored
// TotalPrice is what the buyer saw; Subtotal is the derivation and the
// two should agree for any cart this module produced.
func (c *Cart) Subtotal() float64 {
	total := 0.0
	for _, t := range c.Tickets {
		total += t.Price * float64(t.Quantity)
	}
	return total
}

// IsEmpty returns true if the cart holds no line items
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Tickets) == 0
}
