package repositories

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mohammedgidrah/testing-hotel-sub000/app/entities"
	"github.com/mohammedgidrah/testing-hotel-sub000/app/session"
)

type PaymentRepository interface {
	Create(ctx context.Context, sess *session.Session, req entities.CreatePaymentRequest) (entities.Payment, error)
}

type paymentRepository struct {
	api *HotelAPI
}

func NewPaymentRepository(api *HotelAPI) PaymentRepository {
	return &paymentRepository{api: api}
}

// POST /payments
func (r *paymentRepository) Create(ctx context.Context, sess *session.Session, req entities.CreatePaymentRequest) (entities.Payment, error) {
	payment := entities.Payment{
		BookingID:     req.BookingID,
		PaymentMethod: req.PaymentMethod,
		AmountPaid:    entities.Amount(req.AmountPaid),
		PaymentDate:   req.PaymentDate,
	}

	raw, err := r.api.do(ctx, sess, http.MethodPost, "/payments", req)
	if err != nil {
		return payment, err
	}
	if err := decodeObject(raw, "payment", &payment); err != nil {
		return payment, fmt.Errorf("decode created payment: %w", err)
	}
	return payment, nil
}
