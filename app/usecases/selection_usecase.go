package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mohammedgidrah/testing-hotel-sub000/app/entities"
	"github.com/mohammedgidrah/testing-hotel-sub000/app/repositories"
	"github.com/mohammedgidrah/testing-hotel-sub000/app/session"
	"github.com/mohammedgidrah/testing-hotel-sub000/pkg/calendar"
)

const (
	msgCheckOutOrder = "check-out must follow check-in"
	msgDateBlocked   = "the selected date is not available"
	msgRangeBlocked  = "the selected range includes unavailable dates"
	msgDateInPast    = "the selected date is in the past"
	msgInvalidDate   = "invalid date, use YYYY-MM-DD"
	msgSelectRoom    = "select a room first"
	msgStillLoading  = "room availability is still loading"
	msgNoCheckIn     = "pick a check-in date first"
)

// SelectionUsecase drives booking drafts: room choice, the check-in and
// check-out state machine, guest, services, payment and submission.
type SelectionUsecase interface {
	Open(ctx context.Context, sess *session.Session, req entities.OpenDraftRequest) (entities.DraftView, error)
	Get(ctx context.Context, sess *session.Session, id string) (entities.DraftView, error)
	SelectRoom(ctx context.Context, sess *session.Session, id string, roomID int) (entities.DraftView, error)
	RetryAvailability(ctx context.Context, sess *session.Session, id string) (entities.DraftView, error)
	PickCheckIn(ctx context.Context, sess *session.Session, id, date string) (entities.DraftView, error)
	PickCheckOut(ctx context.Context, sess *session.Session, id, date string) (entities.DraftView, error)
	SelectGuest(ctx context.Context, sess *session.Session, id string, guestID int) (entities.DraftView, error)
	SetServices(ctx context.Context, sess *session.Session, id string, serviceIDs []int) (entities.DraftView, error)
	ToggleService(ctx context.Context, sess *session.Session, id string, serviceID int) (entities.DraftView, error)
	SetPayment(ctx context.Context, sess *session.Session, id string, req entities.SetPaymentRequest) (entities.DraftView, error)
	Submit(ctx context.Context, sess *session.Session, id string) (entities.SubmitResult, entities.DraftView, error)
	Cancel(ctx context.Context, sess *session.Session, id string) error
	DropOwner(ctx context.Context, owner string) (int, error)
}

type selectionUsecase struct {
	drafts       repositories.DraftRepository
	roomRepo     repositories.RoomRepository
	guestRepo    repositories.GuestRepository
	serviceRepo  repositories.ServiceRepository
	availability AvailabilityUsecase
	pricing      *PricingCalculator
	booking      BookingUsecase
	locks        *draftLocks
	now          func() time.Time
	log          logrus.FieldLogger
}

func NewSelectionUsecase(
	drafts repositories.DraftRepository,
	roomRepo repositories.RoomRepository,
	guestRepo repositories.GuestRepository,
	serviceRepo repositories.ServiceRepository,
	availability AvailabilityUsecase,
	pricing *PricingCalculator,
	booking BookingUsecase,
	log logrus.FieldLogger,
) SelectionUsecase {
	return &selectionUsecase{
		drafts:       drafts,
		roomRepo:     roomRepo,
		guestRepo:    guestRepo,
		serviceRepo:  serviceRepo,
		availability: availability,
		pricing:      pricing,
		booking:      booking,
		locks:        newDraftLocks(),
		now:          time.Now,
		log:          log,
	}
}

func (u *selectionUsecase) Open(ctx context.Context, sess *session.Session, req entities.OpenDraftRequest) (entities.DraftView, error) {
	guests, err := u.guestRepo.GetAll(ctx, sess)
	if err != nil {
		return entities.DraftView{}, classifyLookupError("guests", err)
	}
	services, err := u.serviceRepo.GetAll(ctx, sess)
	if err != nil {
		return entities.DraftView{}, classifyLookupError("services", err)
	}

	now := u.now()
	d := entities.Draft{
		ID:           uuid.NewString(),
		Owner:        sess.Username(),
		Availability: entities.AvailabilityIdle,
		Blocked:      []entities.BlockedRange{},
		State:        entities.StateNoDatesSelected,
		Selection:    entities.Selection{Services: []int{}, PaymentStatus: entities.PaymentStatusPending},
		Guests:       guests,
		Services:     services,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.drafts.Save(ctx, d); err != nil {
		return entities.DraftView{}, internalError(err)
	}
	u.log.WithFields(logrus.Fields{"draft_id": d.ID, "user": d.Owner}).Info("booking draft opened")

	if req.RoomID > 0 {
		return u.SelectRoom(ctx, sess, d.ID, req.RoomID)
	}
	return u.view(d), nil
}

func (u *selectionUsecase) Get(ctx context.Context, sess *session.Session, id string) (entities.DraftView, error) {
	d, err := u.load(ctx, sess, id)
	if err != nil {
		return entities.DraftView{}, err
	}
	return u.view(d), nil
}

// SelectRoom switches the draft to roomID, clears the dates and reloads
// availability. Only the latest room selection is ever applied.
func (u *selectionUsecase) SelectRoom(ctx context.Context, sess *session.Session, id string, roomID int) (entities.DraftView, error) {
	if roomID <= 0 {
		return entities.DraftView{}, validationError("room_id is required")
	}

	d, err := u.mutate(ctx, sess, id, func(d *entities.Draft) (bool, error) {
		if d.Submitting {
			return false, inProgressError()
		}
		d.Generation++
		d.RoomID = roomID
		d.Room = nil
		d.Blocked = []entities.BlockedRange{}
		d.Availability = entities.AvailabilityLoading
		d.AvailabilityError = ""
		resetDates(d)
		return true, nil
	})
	if err != nil {
		return u.viewOrEmpty(d), err
	}
	return u.loadAvailability(ctx, sess, id, roomID, d.Generation, true)
}

func (u *selectionUsecase) RetryAvailability(ctx context.Context, sess *session.Session, id string) (entities.DraftView, error) {
	var needRoom bool
	d, err := u.mutate(ctx, sess, id, func(d *entities.Draft) (bool, error) {
		if d.RoomID == 0 {
			return false, validationError(msgSelectRoom)
		}
		d.Generation++
		d.Availability = entities.AvailabilityLoading
		d.AvailabilityError = ""
		needRoom = d.Room == nil
		return true, nil
	})
	if err != nil {
		return u.viewOrEmpty(d), err
	}
	return u.loadAvailability(ctx, sess, id, d.RoomID, d.Generation, needRoom)
}

// loadAvailability fetches outside the draft lock and applies the result only
// if no newer room selection happened meanwhile.
func (u *selectionUsecase) loadAvailability(ctx context.Context, sess *session.Session, id string, roomID int, gen int64, withRoom bool) (entities.DraftView, error) {
	var (
		room     *entities.Room
		ranges   []entities.BlockedRange
		fetchErr error
	)
	if withRoom {
		r, err := u.roomRepo.GetByID(ctx, sess, roomID)
		if err != nil {
			fetchErr = classifyLookupError("room", err)
		} else {
			room = &r
		}
	}
	if fetchErr == nil {
		ranges, fetchErr = u.availability.GetBlockedRanges(ctx, sess, roomID)
	}

	applied := false
	d, err := u.mutate(ctx, sess, id, func(d *entities.Draft) (bool, error) {
		if d.Generation != gen || d.RoomID != roomID {
			u.log.WithFields(logrus.Fields{
				"draft_id":   id,
				"room_id":    roomID,
				"generation": gen,
				"current":    d.Generation,
			}).Info("discarding superseded availability result")
			return false, nil
		}
		applied = true
		if fetchErr != nil {
			d.Availability = entities.AvailabilityFailed
			d.AvailabilityError = AsUseCaseError(fetchErr).Message
			d.Blocked = []entities.BlockedRange{}
			return true, nil
		}
		if room != nil {
			d.Room = room
		}
		d.Blocked = ranges
		d.Availability = entities.AvailabilityReady
		d.AvailabilityError = ""
		return true, nil
	})
	if err != nil {
		return u.viewOrEmpty(d), err
	}
	if applied && fetchErr != nil {
		return u.view(d), fetchErr
	}
	return u.view(d), nil
}

func (u *selectionUsecase) PickCheckIn(ctx context.Context, sess *session.Session, id, raw string) (entities.DraftView, error) {
	date, err := calendar.Parse(raw)
	if err != nil {
		return entities.DraftView{}, validationError(msgInvalidDate)
	}

	d, err := u.mutate(ctx, sess, id, func(d *entities.Draft) (bool, error) {
		if err := selectable(d); err != nil {
			return false, err
		}
		if err := u.pickable(d, date); err != nil {
			return false, err
		}

		d.Selection.CheckInDate = &date
		out := d.Selection.CheckOutDate
		switch {
		case out == nil:
			d.State = entities.StateCheckInSelected
			d.SelectionError = ""
		case !out.After(date):
			d.State = entities.StateRangeInvalid
			d.SelectionError = msgCheckOutOrder
			return true, validationError(msgCheckOutOrder)
		case SpanBlocked(d.Blocked, date, *out):
			d.Selection.CheckOutDate = nil
			d.State = entities.StateCheckInSelected
			d.SelectionError = ""
		default:
			d.State = entities.StateRangeSelected
			d.SelectionError = ""
		}
		return true, nil
	})
	return u.viewOrEmpty(d), err
}

func (u *selectionUsecase) PickCheckOut(ctx context.Context, sess *session.Session, id, raw string) (entities.DraftView, error) {
	date, err := calendar.Parse(raw)
	if err != nil {
		return entities.DraftView{}, validationError(msgInvalidDate)
	}

	d, err := u.mutate(ctx, sess, id, func(d *entities.Draft) (bool, error) {
		if err := selectable(d); err != nil {
			return false, err
		}
		if d.Selection.CheckInDate == nil {
			return false, validationError(msgNoCheckIn)
		}

		checkIn := *d.Selection.CheckInDate
		if !date.After(checkIn) {
			d.Selection.CheckOutDate = &date
			d.State = entities.StateRangeInvalid
			d.SelectionError = msgCheckOutOrder
			return true, validationError(msgCheckOutOrder)
		}
		if err := u.pickable(d, date); err != nil {
			return false, err
		}
		if SpanBlocked(d.Blocked, checkIn, date) {
			return false, validationError(msgRangeBlocked)
		}

		d.Selection.CheckOutDate = &date
		d.State = entities.StateRangeSelected
		d.SelectionError = ""
		return true, nil
	})
	return u.viewOrEmpty(d), err
}

func (u *selectionUsecase) SelectGuest(ctx context.Context, sess *session.Session, id string, guestID int) (entities.DraftView, error) {
	d, err := u.mutate(ctx, sess, id, func(d *entities.Draft) (bool, error) {
		if d.Submitting {
			return false, inProgressError()
		}
		if !hasGuest(d.Guests, guestID) {
			return false, validationError("unknown guest")
		}
		d.Selection.GuestID = &guestID
		return true, nil
	})
	return u.viewOrEmpty(d), err
}

func (u *selectionUsecase) SetServices(ctx context.Context, sess *session.Session, id string, serviceIDs []int) (entities.DraftView, error) {
	ids := uniqueIDs(serviceIDs)
	d, err := u.mutate(ctx, sess, id, func(d *entities.Draft) (bool, error) {
		if d.Submitting {
			return false, inProgressError()
		}
		if len(SelectedServices(d.Services, ids)) != len(ids) {
			return false, validationError("unknown service selected")
		}
		d.Selection.Services = ids
		return true, nil
	})
	return u.viewOrEmpty(d), err
}

func (u *selectionUsecase) ToggleService(ctx context.Context, sess *session.Session, id string, serviceID int) (entities.DraftView, error) {
	d, err := u.mutate(ctx, sess, id, func(d *entities.Draft) (bool, error) {
		if d.Submitting {
			return false, inProgressError()
		}
		if d.Selection.HasService(serviceID) {
			kept := make([]int, 0, len(d.Selection.Services))
			for _, sid := range d.Selection.Services {
				if sid != serviceID {
					kept = append(kept, sid)
				}
			}
			d.Selection.Services = kept
			return true, nil
		}
		if len(SelectedServices(d.Services, []int{serviceID})) == 0 {
			return false, validationError("unknown service selected")
		}
		d.Selection.Services = append(d.Selection.Services, serviceID)
		return true, nil
	})
	return u.viewOrEmpty(d), err
}

func (u *selectionUsecase) SetPayment(ctx context.Context, sess *session.Session, id string, req entities.SetPaymentRequest) (entities.DraftView, error) {
	switch req.PaymentStatus {
	case entities.PaymentStatusPaid:
		if req.PaymentMethod == "" {
			return entities.DraftView{}, fieldErrors(map[string]string{"payment_method": "payment method is required for paid bookings"})
		}
	case entities.PaymentStatusPending:
		req.PaymentMethod = ""
	default:
		return entities.DraftView{}, validationError("payment_status must be paid or pending")
	}

	d, err := u.mutate(ctx, sess, id, func(d *entities.Draft) (bool, error) {
		if d.Submitting {
			return false, inProgressError()
		}
		d.Selection.PaymentStatus = req.PaymentStatus
		d.Selection.PaymentMethod = req.PaymentMethod
		return true, nil
	})
	return u.viewOrEmpty(d), err
}

// Submit books the draft. A success or partial failure resets the selection;
// a conflict clears the dates. Both reload availability for the room.
func (u *selectionUsecase) Submit(ctx context.Context, sess *session.Session, id string) (entities.SubmitResult, entities.DraftView, error) {
	var in SubmitInput
	d, err := u.mutate(ctx, sess, id, func(d *entities.Draft) (bool, error) {
		if d.Submitting {
			return false, inProgressError()
		}
		in = SubmitInput{
			Room:      entities.Room{ID: d.RoomID},
			Selection: d.Selection.Clone(),
			Pricing:   u.view(*d).Pricing,
		}
		if d.Room != nil {
			in.Room = *d.Room
		}
		d.Submitting = true
		return true, nil
	})
	if err != nil {
		return entities.SubmitResult{}, u.viewOrEmpty(d), err
	}

	result, subErr := u.booking.Submit(ctx, sess, in)

	// Submitting must be cleared even when the caller has gone away.
	ctx = context.WithoutCancel(ctx)

	var (
		refresh bool
		gen     int64
	)
	d, err = u.mutate(ctx, sess, id, func(d *entities.Draft) (bool, error) {
		d.Submitting = false
		switch {
		case subErr == nil, errors.Is(subErr, ErrPartial):
			resetSelection(d)
			refresh = d.RoomID != 0
		case errors.Is(subErr, ErrConflict):
			resetDates(d)
			refresh = d.RoomID != 0
		}
		if refresh {
			d.Generation++
			d.Availability = entities.AvailabilityLoading
			gen = d.Generation
		}
		return true, nil
	})
	if err != nil {
		u.log.WithError(err).WithField("draft_id", id).Error("booking draft not updated after submission")
		return result, u.viewOrEmpty(d), subErr
	}

	view := u.view(d)
	if refresh {
		view, _ = u.loadAvailability(ctx, sess, id, d.RoomID, gen, false)
	}
	return result, view, subErr
}

func (u *selectionUsecase) Cancel(ctx context.Context, sess *session.Session, id string) error {
	unlock := u.locks.Lock(id)
	defer unlock()

	d, err := u.load(ctx, sess, id)
	if err != nil {
		return err
	}
	if d.Submitting {
		return inProgressError()
	}
	if err := u.drafts.Delete(ctx, id); err != nil {
		return internalError(err)
	}
	u.log.WithFields(logrus.Fields{"draft_id": id, "user": d.Owner}).Info("booking draft cancelled")
	return nil
}

func (u *selectionUsecase) DropOwner(ctx context.Context, owner string) (int, error) {
	n, err := u.drafts.DeleteByOwner(ctx, owner)
	if err != nil {
		return 0, internalError(err)
	}
	return n, nil
}

// mutate loads the draft under its lock and passes it to fn. The draft is
// stored when fn asks for it, even if fn also returns an error.
func (u *selectionUsecase) mutate(ctx context.Context, sess *session.Session, id string, fn func(d *entities.Draft) (bool, error)) (entities.Draft, error) {
	unlock := u.locks.Lock(id)
	defer unlock()

	d, err := u.load(ctx, sess, id)
	if err != nil {
		return entities.Draft{}, err
	}

	save, fnErr := fn(&d)
	if save {
		d.UpdatedAt = u.now()
		if err := u.drafts.Save(ctx, d); err != nil {
			return entities.Draft{}, internalError(err)
		}
	}
	return d, fnErr
}

func (u *selectionUsecase) load(ctx context.Context, sess *session.Session, id string) (entities.Draft, error) {
	d, err := u.drafts.Get(ctx, id)
	if errors.Is(err, repositories.ErrDraftNotFound) {
		return entities.Draft{}, notFoundError("booking draft not found", err)
	}
	if err != nil {
		return entities.Draft{}, internalError(err)
	}
	if d.Owner != sess.Username() {
		return entities.Draft{}, forbiddenError("booking draft belongs to another user")
	}
	return d, nil
}

func (u *selectionUsecase) view(d entities.Draft) entities.DraftView {
	v := entities.DraftView{Draft: d}
	if d.State != entities.StateRangeSelected || d.Room == nil {
		return v
	}
	services := SelectedServices(d.Services, d.Selection.Services)
	if snap, ok := u.pricing.Calculate(d.Room.PricePerNight.Float64(), d.Selection.CheckInDate, d.Selection.CheckOutDate, services); ok {
		v.Pricing = &snap
	}
	return v
}

func (u *selectionUsecase) viewOrEmpty(d entities.Draft) entities.DraftView {
	if d.ID == "" {
		return entities.DraftView{}
	}
	return u.view(d)
}

// pickable rejects days in the past and blocked days.
func (u *selectionUsecase) pickable(d *entities.Draft, date calendar.Date) error {
	if date.Before(calendar.Today(u.now())) {
		return validationError(msgDateInPast)
	}
	if IsBlocked(d.Blocked, date) {
		return validationError(msgDateBlocked)
	}
	return nil
}

func selectable(d *entities.Draft) error {
	switch {
	case d.Submitting:
		return inProgressError()
	case d.RoomID == 0:
		return validationError(msgSelectRoom)
	case d.Availability == entities.AvailabilityFailed:
		return fetchError(errors.New(d.AvailabilityError))
	case d.Availability != entities.AvailabilityReady:
		return validationError(msgStillLoading)
	}
	return nil
}

func resetDates(d *entities.Draft) {
	d.Selection.CheckInDate = nil
	d.Selection.CheckOutDate = nil
	d.State = entities.StateNoDatesSelected
	d.SelectionError = ""
}

func resetSelection(d *entities.Draft) {
	resetDates(d)
	d.Selection.GuestID = nil
	d.Selection.Services = []int{}
	d.Selection.PaymentStatus = entities.PaymentStatusPending
	d.Selection.PaymentMethod = ""
}

func hasGuest(guests []entities.Guest, id int) bool {
	for _, g := range guests {
		if g.ID == id {
			return true
		}
	}
	return false
}
