package usecases

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mohammedgidrah/testing-hotel-sub000/app/entities"
	"github.com/mohammedgidrah/testing-hotel-sub000/app/repositories"
	"github.com/mohammedgidrah/testing-hotel-sub000/app/session"
	"github.com/mohammedgidrah/testing-hotel-sub000/pkg/calendar"
)

// RefreshPublisher announces that room and guest lists changed.
type RefreshPublisher interface {
	PublishRefresh(ctx context.Context, event entities.RefreshEvent) error
}

// SubmitInput is the composed state handed to Submit.
type SubmitInput struct {
	Room      entities.Room
	Selection entities.Selection
	Pricing   *entities.PricingSnapshot
}

type BookingUsecase interface {
	Submit(ctx context.Context, sess *session.Session, in SubmitInput) (entities.SubmitResult, error)
	Quote(ctx context.Context, sess *session.Session, req entities.QuoteRequest) (entities.QuoteResponse, error)
}

type bookingUsecase struct {
	bookingRepo  repositories.BookingRepository
	paymentRepo  repositories.PaymentRepository
	roomRepo     repositories.RoomRepository
	serviceRepo  repositories.ServiceRepository
	availability AvailabilityUsecase
	pricing      *PricingCalculator
	followUps    FollowUpUsecase
	publisher    RefreshPublisher
	now          func() time.Time
	log          logrus.FieldLogger
}

// NewBookingUsecase accepts nil followUps and publisher; partial failures are
// then only logged and no refresh event is sent.
func NewBookingUsecase(
	bookingRepo repositories.BookingRepository,
	paymentRepo repositories.PaymentRepository,
	roomRepo repositories.RoomRepository,
	serviceRepo repositories.ServiceRepository,
	availability AvailabilityUsecase,
	pricing *PricingCalculator,
	followUps FollowUpUsecase,
	publisher RefreshPublisher,
	log logrus.FieldLogger,
) BookingUsecase {
	return &bookingUsecase{
		bookingRepo:  bookingRepo,
		paymentRepo:  paymentRepo,
		roomRepo:     roomRepo,
		serviceRepo:  serviceRepo,
		availability: availability,
		pricing:      pricing,
		followUps:    followUps,
		publisher:    publisher,
		now:          time.Now,
		log:          log,
	}
}

// Submit creates the reservation and, for paid bookings, the payment. The
// payment is issued after the reservation exists; its failure yields a
// PartialFailureError and never undoes the reservation.
func (u *bookingUsecase) Submit(ctx context.Context, sess *session.Session, in SubmitInput) (entities.SubmitResult, error) {
	var result entities.SubmitResult
	sel := in.Selection

	missing := map[string]string{}
	if sel.CheckInDate == nil || sel.CheckInDate.IsZero() {
		missing["check_in_date"] = "check-in date is required"
	}
	if sel.CheckOutDate == nil || sel.CheckOutDate.IsZero() {
		missing["check_out_date"] = "check-out date is required"
	}
	if sel.GuestID == nil || *sel.GuestID <= 0 {
		missing["guest_id"] = "guest is required"
	}
	if in.Room.ID <= 0 {
		missing["room_id"] = "room is required"
	}
	paymentStatus := sel.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = entities.PaymentStatusPending
	}
	if paymentStatus == entities.PaymentStatusPaid && sel.PaymentMethod == "" {
		missing["payment_method"] = "payment method is required for paid bookings"
	}
	if len(missing) > 0 {
		return result, fieldErrors(missing)
	}
	if in.Pricing == nil || in.Pricing.Nights <= 0 {
		return result, validationError("check-out must follow check-in")
	}

	services := sel.Services
	if services == nil {
		services = []int{}
	}

	created, err := u.bookingRepo.Create(ctx, sess, entities.CreateBookingRequest{
		GuestID:       *sel.GuestID,
		RoomID:        in.Room.ID,
		CheckInDate:   sel.CheckInDate.String(),
		CheckOutDate:  sel.CheckOutDate.String(),
		PaymentStatus: paymentStatus,
		TotalAmount:   in.Pricing.TotalAmount,
		Services:      services,
	})
	if err != nil {
		return result, u.classifyCreateError(err)
	}

	logger := u.log.WithFields(logrus.Fields{"booking_id": created.ID, "room_id": in.Room.ID, "user": sess.Username()})
	logger.Info("booking created")

	result.Reservation = created
	result.Pricing = *in.Pricing
	u.publishRefresh(ctx, created, in.Room.ID, *sel.GuestID)

	if paymentStatus != entities.PaymentStatusPaid {
		return result, nil
	}

	payReq := entities.CreatePaymentRequest{
		BookingID:     created.ID,
		PaymentMethod: sel.PaymentMethod,
		AmountPaid:    in.Pricing.TotalAmount,
		PaymentDate:   calendar.Today(u.now()).String(),
	}
	payment, err := u.paymentRepo.Create(ctx, sess, payReq)
	if err != nil {
		logger.WithError(err).Error("booking created but payment recording failed")
		partial := &PartialFailureError{Result: result, Err: err}
		partial.FollowUpID = u.recordFollowUp(ctx, sess, created, in.Room.ID, *sel.GuestID, payReq, err)
		return result, partial
	}

	result.Payment = &payment
	return result, nil
}

func (u *bookingUsecase) classifyCreateError(err error) error {
	switch {
	case errors.Is(err, session.ErrSessionCleared):
		return unauthorizedError(err)
	case repositories.IsStatus(err, http.StatusConflict):
		return conflictError(err)
	default:
		return networkError("booking could not be created, retry", err)
	}
}

func (u *bookingUsecase) recordFollowUp(ctx context.Context, sess *session.Session, created entities.Reservation, roomID, guestID int, payReq entities.CreatePaymentRequest, cause error) int {
	if u.followUps == nil {
		return 0
	}

	f, err := u.followUps.Record(ctx, entities.PaymentFollowUp{
		BookingID:     created.ID,
		GuestID:       guestID,
		RoomID:        roomID,
		Amount:        payReq.AmountPaid,
		PaymentMethod: payReq.PaymentMethod,
		PaymentDate:   payReq.PaymentDate,
		Reason:        cause.Error(),
		CreatedBy:     sess.Username(),
	})
	if err != nil {
		u.log.WithError(err).WithField("booking_id", created.ID).Error("payment follow-up not recorded")
		return 0
	}
	return f.ID
}

func (u *bookingUsecase) publishRefresh(ctx context.Context, created entities.Reservation, roomID, guestID int) {
	if u.publisher == nil {
		return
	}
	event := entities.RefreshEvent{
		Resources:  []string{entities.ResourceRooms, entities.ResourceGuests},
		BookingID:  created.ID,
		RoomID:     roomID,
		GuestID:    guestID,
		OccurredAt: u.now().UTC(),
	}
	if err := u.publisher.PublishRefresh(ctx, event); err != nil {
		u.log.WithError(err).WithField("booking_id", created.ID).Warn("refresh event not published")
	}
}

// Quote prices a date range for a room without opening a draft.
func (u *bookingUsecase) Quote(ctx context.Context, sess *session.Session, req entities.QuoteRequest) (entities.QuoteResponse, error) {
	var res entities.QuoteResponse

	checkIn, err := calendar.Parse(req.CheckIn)
	if err != nil {
		return res, validationError("invalid check-in date, use YYYY-MM-DD")
	}
	checkOut, err := calendar.Parse(req.CheckOut)
	if err != nil {
		return res, validationError("invalid check-out date, use YYYY-MM-DD")
	}
	if !checkOut.After(checkIn) {
		return res, validationError("check-out must follow check-in")
	}

	room, err := u.roomRepo.GetByID(ctx, sess, req.RoomID)
	if err != nil {
		return res, classifyLookupError("room", err)
	}

	ranges, err := u.availability.GetBlockedRanges(ctx, sess, req.RoomID)
	if err != nil {
		return res, err
	}
	if SpanBlocked(ranges, checkIn, checkOut) {
		return res, validationError("the room is not available for the selected dates")
	}

	var selected []entities.Service
	if len(req.ServiceIDs) > 0 {
		all, err := u.serviceRepo.GetAll(ctx, sess)
		if err != nil {
			return res, classifyLookupError("services", err)
		}
		ids := uniqueIDs(req.ServiceIDs)
		selected = SelectedServices(all, ids)
		if len(selected) != len(ids) {
			return res, validationError("unknown service selected")
		}
	}

	snapshot, _ := u.pricing.Calculate(room.PricePerNight.Float64(), &checkIn, &checkOut, selected)
	res.Room = room
	res.Pricing = snapshot
	return res, nil
}

func classifyLookupError(what string, err error) error {
	switch {
	case errors.Is(err, session.ErrSessionCleared):
		return unauthorizedError(err)
	case repositories.IsStatus(err, http.StatusNotFound):
		return notFoundError(what+" not found", err)
	default:
		return networkError(fmt.Sprintf("could not load %s, retry", what), err)
	}
}

func uniqueIDs(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
