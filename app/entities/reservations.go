package entities

import (
	"github.com/mohammedgidrah/testing-hotel-sub000/pkg/calendar"
)

const (
	PaymentStatusPaid    = "paid"
	PaymentStatusPending = "pending"
)

// ==========================================
// 1. HOTEL API MODELS
// ==========================================

// Reservation is an existing booking as returned by the hotel API.
type Reservation struct {
	ID            int           `json:"id"`
	RoomID        int           `json:"room_id,omitempty"`
	GuestID       int           `json:"guest_id,omitempty"`
	CheckInDate   calendar.Date `json:"check_in_date"`
	CheckOutDate  calendar.Date `json:"check_out_date"`
	PaymentStatus string        `json:"payment_status,omitempty"`
	TotalAmount   Amount        `json:"total_amount,omitempty"`
}

// route GET /bookings/{roomId}
type RoomBookingsResponse struct {
	Bookings []Reservation `json:"bookings"`
}

// route POST /bookings
type CreateBookingRequest struct {
	GuestID       int     `json:"guest_id"`
	RoomID        int     `json:"room_id"`
	CheckInDate   string  `json:"check_in_date"`
	CheckOutDate  string  `json:"check_out_date"`
	PaymentStatus string  `json:"payment_status"`
	TotalAmount   float64 `json:"total_amount"`
	Services      []int   `json:"services"`
}

// ==========================================
// 2. DERIVED VALUES
// ==========================================

// BlockedRange is the inclusive interval of days a reservation occupies.
type BlockedRange struct {
	Start         calendar.Date `json:"start"`
	End           calendar.Date `json:"end"`
	ReservationID int           `json:"reservation_id"`
}

// Contains compares calendar day, month and year only.
func (r BlockedRange) Contains(d calendar.Date) bool {
	return d.Within(r.Start, r.End)
}

// PricingSnapshot is derived from a selection and never stored.
type PricingSnapshot struct {
	Nights         int     `json:"nights"`
	BaseAmount     float64 `json:"base_amount"`
	ServicesAmount float64 `json:"services_amount"`
	TaxAmount      float64 `json:"tax_amount"`
	TotalAmount    float64 `json:"total_amount"`
}

// ==========================================
// 3. REQUEST MODELS
// ==========================================

type QuoteRequest struct {
	RoomID     int    `json:"room_id" validate:"required,gt=0"`
	CheckIn    string `json:"check_in_date" validate:"required"`
	CheckOut   string `json:"check_out_date" validate:"required"`
	ServiceIDs []int  `json:"service_ids"`
}

type QuoteResponse struct {
	Room    Room            `json:"room"`
	Pricing PricingSnapshot `json:"pricing"`
}
