package entities

import (
	"time"

	"github.com/mohammedgidrah/testing-hotel-sub000/pkg/calendar"
)

type SelectionState string

const (
	StateNoDatesSelected SelectionState = "no_dates_selected"
	StateCheckInSelected SelectionState = "check_in_selected"
	StateRangeSelected   SelectionState = "range_selected"
	StateRangeInvalid    SelectionState = "range_invalid"
)

type AvailabilityStatus string

const (
	AvailabilityIdle    AvailabilityStatus = "idle"
	AvailabilityLoading AvailabilityStatus = "loading"
	AvailabilityReady   AvailabilityStatus = "ready"
	AvailabilityFailed  AvailabilityStatus = "failed"
)

// Selection is what the user has picked so far in one booking draft.
type Selection struct {
	CheckInDate   *calendar.Date `json:"check_in_date"`
	CheckOutDate  *calendar.Date `json:"check_out_date"`
	GuestID       *int           `json:"guest_id"`
	Services      []int          `json:"services"`
	PaymentStatus string         `json:"payment_status"`
	PaymentMethod string         `json:"payment_method,omitempty"`
}

// HasService reports whether id is part of the selected services.
func (s Selection) HasService(id int) bool {
	for _, sid := range s.Services {
		if sid == id {
			return true
		}
	}
	return false
}

// Draft is one open booking flow: the room being booked, its blocked dates
// and the user's current selection.
type Draft struct {
	ID                string             `json:"id"`
	Owner             string             `json:"owner"`
	RoomID            int                `json:"room_id"`
	Room              *Room              `json:"room"`
	Generation        int64              `json:"generation"`
	Availability      AvailabilityStatus `json:"availability"`
	AvailabilityError string             `json:"availability_error,omitempty"`
	Blocked           []BlockedRange     `json:"blocked"`
	State             SelectionState     `json:"state"`
	Selection         Selection          `json:"selection"`
	SelectionError    string             `json:"selection_error,omitempty"`
	Guests            []Guest            `json:"guests"`
	Services          []Service          `json:"services"`
	Submitting        bool               `json:"submitting"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// DraftView is a draft together with the pricing derived from it.
type DraftView struct {
	Draft
	Pricing *PricingSnapshot `json:"pricing"`
}

type SubmitResult struct {
	Reservation Reservation     `json:"reservation"`
	Payment     *Payment        `json:"payment,omitempty"`
	Pricing     PricingSnapshot `json:"pricing"`
}

// ==========================================
// REQUEST MODELS
// ==========================================

type OpenDraftRequest struct {
	RoomID int `json:"room_id" validate:"omitempty,gt=0"`
}

type SelectRoomRequest struct {
	RoomID int `json:"room_id" validate:"required,gt=0"`
}

type PickDateRequest struct {
	Date string `json:"date" validate:"required"`
}

type SelectGuestRequest struct {
	GuestID int `json:"guest_id" validate:"required,gt=0"`
}

type SetServicesRequest struct {
	ServiceIDs []int `json:"service_ids" validate:"dive,gt=0"`
}

type SetPaymentRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=paid pending"`
	PaymentMethod string `json:"payment_method" validate:"required_if=PaymentStatus paid"`
}

// Clone returns a copy sharing no slices or pointers with d.
func (d Draft) Clone() Draft {
	out := d
	if d.Room != nil {
		room := *d.Room
		out.Room = &room
	}
	out.Blocked = cloneSlice(d.Blocked)
	out.Guests = cloneSlice(d.Guests)
	out.Services = cloneSlice(d.Services)
	out.Selection = d.Selection.Clone()
	return out
}

func (s Selection) Clone() Selection {
	out := s
	if s.CheckInDate != nil {
		v := *s.CheckInDate
		out.CheckInDate = &v
	}
	if s.CheckOutDate != nil {
		v := *s.CheckOutDate
		out.CheckOutDate = &v
	}
	if s.GuestID != nil {
		v := *s.GuestID
		out.GuestID = &v
	}
	out.Services = cloneSlice(s.Services)
	return out
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}
