package models

// BookingStatus represents the status of a submitted booking
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingFailed    BookingStatus = "failed"
)

// BookingResult is the remote service's answer to a booking
// submission. GrandTotal and DiscountAmount here are authoritative and
// overwrite any client-side estimate before the confirmation is shown.
type BookingResult struct {
	BookingID      string        `json:"booking_id"`
	GrandTotal     float64       `json:"grand_total"`
	DiscountAmount float64       `json:"discount_amount"`
	Status         BookingStatus `json:"status"`
	Message        string        `json:"message"`
}

// IsConfirmed returns true if the booking went through
func (r *BookingResult) IsConfirmed() bool {
	return r.Status == BookingConfirmed
}
