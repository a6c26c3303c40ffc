package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mohammedgidrah/testing-hotel-sub000/app/entities"
	"github.com/mohammedgidrah/testing-hotel-sub000/app/repositories"
	"github.com/mohammedgidrah/testing-hotel-sub000/app/session"
)

// FollowUpNotifier tells the accounting desk that a payment needs manual
// recording.
type FollowUpNotifier interface {
	NotifyPaymentFollowUp(f entities.PaymentFollowUp) error
}

type FollowUpUsecase interface {
	Record(ctx context.Context, f entities.PaymentFollowUp) (entities.PaymentFollowUp, error)
	List(ctx context.Context, status string) (entities.FollowUpListResponse, error)
	Retry(ctx context.Context, sess *session.Session, id int) (entities.Payment, error)
	Resolve(ctx context.Context, id int) error
}

type followUpUsecase struct {
	followUpRepo repositories.FollowUpRepository
	paymentRepo  repositories.PaymentRepository
	notifier     FollowUpNotifier
	log          logrus.FieldLogger
}

// NewFollowUpUsecase accepts a nil notifier when no mail is configured.
func NewFollowUpUsecase(followUpRepo repositories.FollowUpRepository, paymentRepo repositories.PaymentRepository, notifier FollowUpNotifier, log logrus.FieldLogger) FollowUpUsecase {
	return &followUpUsecase{
		followUpRepo: followUpRepo,
		paymentRepo:  paymentRepo,
		notifier:     notifier,
		log:          log,
	}
}

func (u *followUpUsecase) Record(ctx context.Context, f entities.PaymentFollowUp) (entities.PaymentFollowUp, error) {
	stored, err := u.followUpRepo.Create(ctx, f)
	if err != nil {
		return f, err
	}

	if u.notifier != nil {
		if err := u.notifier.NotifyPaymentFollowUp(stored); err != nil {
			u.log.WithError(err).WithField("follow_up_id", stored.ID).Warn("follow-up notification not sent")
		}
	}
	return stored, nil
}

func (u *followUpUsecase) List(ctx context.Context, status string) (entities.FollowUpListResponse, error) {
	switch status {
	case "", entities.FollowUpOpen, entities.FollowUpRetrying, entities.FollowUpResolved:
	default:
		return entities.FollowUpListResponse{}, validationError("status must be open, retrying or resolved")
	}

	data, err := u.followUpRepo.List(ctx, status)
	if err != nil {
		return entities.FollowUpListResponse{}, internalError(err)
	}
	return entities.FollowUpListResponse{
		Message:   "success",
		Data:      data,
		TotalData: len(data),
	}, nil
}

// Retry records the payment again and closes the follow-up when it succeeds.
// The row is claimed as retrying first so overlapping retries post at most
// one payment.
func (u *followUpUsecase) Retry(ctx context.Context, sess *session.Session, id int) (entities.Payment, error) {
	f, err := u.followUpRepo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrFollowUpNotFound) {
		return entities.Payment{}, notFoundError("payment follow-up not found", err)
	}
	if err != nil {
		return entities.Payment{}, internalError(err)
	}
	switch f.Status {
	case entities.FollowUpResolved:
		return entities.Payment{}, validationError("payment follow-up is already resolved")
	case entities.FollowUpRetrying:
		return entities.Payment{}, retryInProgressError()
	}

	claimed, err := u.followUpRepo.SetStatus(ctx, id, entities.FollowUpOpen, entities.FollowUpRetrying)
	if err != nil {
		return entities.Payment{}, internalError(err)
	}
	if claimed == 0 {
		return entities.Payment{}, retryInProgressError()
	}

	payment, err := u.paymentRepo.Create(ctx, sess, entities.CreatePaymentRequest{
		BookingID:     f.BookingID,
		PaymentMethod: f.PaymentMethod,
		AmountPaid:    f.Amount,
		PaymentDate:   f.PaymentDate,
	})

	// The claim must be settled even when the caller has gone away.
	settleCtx := context.WithoutCancel(ctx)
	if err != nil {
		if _, rerr := u.followUpRepo.SetStatus(settleCtx, id, entities.FollowUpRetrying, entities.FollowUpOpen); rerr != nil {
			u.log.WithError(rerr).WithField("follow_up_id", id).Error("payment follow-up claim not released")
		}
		if errors.Is(err, session.ErrSessionCleared) {
			return entities.Payment{}, unauthorizedError(err)
		}
		return entities.Payment{}, networkError(fmt.Sprintf("payment for booking %d could not be recorded", f.BookingID), err)
	}

	if _, err := u.followUpRepo.MarkResolved(settleCtx, id, entities.FollowUpRetrying); err != nil {
		u.log.WithError(err).WithField("follow_up_id", id).Error("payment recorded but follow-up not closed")
	}
	return payment, nil
}

func (u *followUpUsecase) Resolve(ctx context.Context, id int) error {
	n, err := u.followUpRepo.MarkResolved(ctx, id, entities.FollowUpOpen)
	if err != nil {
		return internalError(err)
	}
	if n == 0 {
		return notFoundError("open payment follow-up not found", nil)
	}
	return nil
}
