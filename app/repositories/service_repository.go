package repositories

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mohammedgidrah/testing-hotel-sub000/app/entities"
	"github.com/mohammedgidrah/testing-hotel-sub000/app/session"
)

type ServiceRepository interface {
	GetAll(ctx context.Context, sess *session.Session) ([]entities.Service, error)
}

type serviceRepository struct {
	api *HotelAPI
}

func NewServiceRepository(api *HotelAPI) ServiceRepository {
	return &serviceRepository{api: api}
}

// GET /services
func (r *serviceRepository) GetAll(ctx context.Context, sess *session.Session) ([]entities.Service, error) {
	raw, err := r.api.do(ctx, sess, http.MethodGet, "/services", nil)
	if err != nil {
		return nil, err
	}

	services := []entities.Service{}
	if err := decodeList(raw, "services", &services); err != nil {
		return nil, fmt.Errorf("decode services: %w", err)
	}
	return services, nil
}
