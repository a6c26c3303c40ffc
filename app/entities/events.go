package entities

import "time"

const (
	ResourceRooms  = "rooms"
	ResourceGuests = "guests"
)

// RefreshEvent tells admin clients which lists changed after a booking.
type RefreshEvent struct {
	Resources  []string  `json:"resources"`
	BookingID  int       `json:"booking_id"`
	RoomID     int       `json:"room_id"`
	GuestID    int       `json:"guest_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
