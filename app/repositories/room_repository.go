package repositories

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mohammedgidrah/testing-hotel-sub000/app/entities"
	"github.com/mohammedgidrah/testing-hotel-sub000/app/session"
)

type RoomRepository interface {
	GetByID(ctx context.Context, sess *session.Session, id int) (entities.Room, error)
}

type roomRepository struct {
	api *HotelAPI
}

func NewRoomRepository(api *HotelAPI) RoomRepository {
	return &roomRepository{api: api}
}

// GET /rooms/{id}
func (r *roomRepository) GetByID(ctx context.Context, sess *session.Session, id int) (entities.Room, error) {
	var room entities.Room

	raw, err := r.api.do(ctx, sess, http.MethodGet, fmt.Sprintf("/rooms/%d", id), nil)
	if err != nil {
		return room, err
	}
	if err := decodeObject(raw, "room", &room); err != nil {
		return room, fmt.Errorf("decode room %d: %w", id, err)
	}
	if room.ID == 0 {
		room.ID = id
	}
	return room, nil
}
