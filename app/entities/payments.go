package entities

import (
	"database/sql"
	"time"
)

// route POST /payments
type CreatePaymentRequest struct {
	BookingID     int     `json:"booking_id"`
	PaymentMethod string  `json:"payment_method"`
	AmountPaid    float64 `json:"amount_paid"`
	PaymentDate   string  `json:"payment_date"`
}

type Payment struct {
	ID            int    `json:"id"`
	BookingID     int    `json:"booking_id"`
	PaymentMethod string `json:"payment_method"`
	AmountPaid    Amount `json:"amount_paid"`
	PaymentDate   string `json:"payment_date"`
}

const (
	FollowUpOpen     = "open"
	FollowUpRetrying = "retrying"
	FollowUpResolved = "resolved"
)

// PaymentFollowUp records a booking whose dependent payment could not be
// recorded and needs manual attention.
type PaymentFollowUp struct {
	ID            int          `db:"id" json:"id"`
	BookingID     int          `db:"booking_id" json:"booking_id"`
	GuestID       int          `db:"guest_id" json:"guest_id"`
	RoomID        int          `db:"room_id" json:"room_id"`
	Amount        float64      `db:"amount" json:"amount"`
	PaymentMethod string       `db:"payment_method" json:"payment_method"`
	PaymentDate   string       `db:"payment_date" json:"payment_date"`
	Reason        string       `db:"reason" json:"reason"`
	Status        string       `db:"status" json:"status"`
	CreatedBy     string       `db:"created_by" json:"created_by"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
	ResolvedAt    sql.NullTime `db:"resolved_at" json:"-"`
}

type FollowUpListResponse struct {
	Message   string            `json:"message"`
	Data      []PaymentFollowUp `json:"data"`
	TotalData int               `json:"totalData"`
}
