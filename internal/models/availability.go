package models

// AvailabilitySnapshot holds the server-reported booked-so-far count
// per category name. It is fetched once per entity view and never
// mutated; remaining counts are derived from it on every read so the
// view can never drift from the authoritative snapshot.
type AvailabilitySnapshot struct {
	Booked map[string]int `json:"booked"`
}

// BookedFor returns the booked count for a category name, zero if the
// server reported nothing for it.
func (s *AvailabilitySnapshot) BookedFor(name string) int {
	if s == nil || s.Booked == nil {
		return 0
	}
	count := s.Booked[name]
	if count < 0 {
		return 0
	}
	return count
}

// Remaining returns the number of seats still available for the
// category, and whether the category is unlimited. Categories without
// a capacity never run out; with a capacity the result is clamped at
// zero even if the server reports an over-booked count.
func (tc *TicketCategory) Remaining(s *AvailabilitySnapshot) (int, bool) {
	if !tc.HasCapacity() {
		return 0, true
	}
	remaining := tc.Capacity - s.BookedFor(tc.Name)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, false
}

// IsSoldOut returns true if the category has a capacity and no seats
// remain. Unlimited categories are never sold out.
func (tc *TicketCategory) IsSoldOut(s *AvailabilitySnapshot) bool {
	remaining, unlimited := tc.Remaining(s)
	return !unlimited && remaining == 0
}
