package repositories

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mohammedgidrah/testing-hotel-sub000/app/entities"
	"github.com/mohammedgidrah/testing-hotel-sub000/app/session"
	"github.com/mohammedgidrah/testing-hotel-sub000/pkg/calendar"
)

type BookingRepository interface {
	GetByRoom(ctx context.Context, sess *session.Session, roomID int) ([]entities.Reservation, error)
	Create(ctx context.Context, sess *session.Session, req entities.CreateBookingRequest) (entities.Reservation, error)
}

type bookingRepository struct {
	api *HotelAPI
}

func NewBookingRepository(api *HotelAPI) BookingRepository {
	return &bookingRepository{api: api}
}

// GET /bookings/{roomId}
func (r *bookingRepository) GetByRoom(ctx context.Context, sess *session.Session, roomID int) ([]entities.Reservation, error) {
	raw, err := r.api.do(ctx, sess, http.MethodGet, fmt.Sprintf("/bookings/%d", roomID), nil)
	if err != nil {
		return nil, err
	}

	var bookings []entities.Reservation
	if err := decodeList(raw, "bookings", &bookings); err != nil {
		return nil, fmt.Errorf("decode bookings for room %d: %w", roomID, err)
	}
	return bookings, nil
}

// POST /bookings
func (r *bookingRepository) Create(ctx context.Context, sess *session.Session, req entities.CreateBookingRequest) (entities.Reservation, error) {
	var created entities.Reservation

	raw, err := r.api.do(ctx, sess, http.MethodPost, "/bookings", req)
	if err != nil {
		return created, err
	}
	if err := decodeObject(raw, "booking", &created); err != nil {
		return created, fmt.Errorf("decode created booking: %w", err)
	}

	// the API may echo only the id
	if created.RoomID == 0 {
		created.RoomID = req.RoomID
	}
	if created.GuestID == 0 {
		created.GuestID = req.GuestID
	}
	if created.TotalAmount == 0 {
		created.TotalAmount = entities.Amount(req.TotalAmount)
	}
	if created.PaymentStatus == "" {
		created.PaymentStatus = req.PaymentStatus
	}
	if created.CheckInDate.IsZero() {
		created.CheckInDate, _ = calendar.Parse(req.CheckInDate)
	}
	if created.CheckOutDate.IsZero() {
		created.CheckOutDate, _ = calendar.Parse(req.CheckOutDate)
	}
	return created, nil
}
