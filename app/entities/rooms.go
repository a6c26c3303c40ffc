package entities

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
)

// Room is owned by the hotel API and read-only here.
type Room struct {
	ID            int        `json:"id"`
	RoomNumber    string     `json:"room_number"`
	Type          string     `json:"type"`
	PricePerNight Amount     `json:"price_per_night"`
	Status        RoomStatus `json:"status"`
}
