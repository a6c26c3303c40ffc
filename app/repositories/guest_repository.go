package repositories

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mohammedgidrah/testing-hotel-sub000/app/entities"
	"github.com/mohammedgidrah/testing-hotel-sub000/app/session"
)

type GuestRepository interface {
	GetAll(ctx context.Context, sess *session.Session) ([]entities.Guest, error)
}

type guestRepository struct {
	api *HotelAPI
}

func NewGuestRepository(api *HotelAPI) GuestRepository {
	return &guestRepository{api: api}
}

// GET /guests
func (r *guestRepository) GetAll(ctx context.Context, sess *session.Session) ([]entities.Guest, error) {
	raw, err := r.api.do(ctx, sess, http.MethodGet, "/guests", nil)
	if err != nil {
		return nil, err
	}

	guests := []entities.Guest{}
	if err := decodeList(raw, "guests", &guests); err != nil {
		return nil, fmt.Errorf("decode guests: %w", err)
	}
	return guests, nil
}
