package usecases

import (
	"context"
	"errors"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/mohammedgidrah/testing-hotel-sub000/app/entities"
	"github.com/mohammedgidrah/testing-hotel-sub000/app/repositories"
	"github.com/mohammedgidrah/testing-hotel-sub000/app/session"
	"github.com/mohammedgidrah/testing-hotel-sub000/pkg/calendar"
)

type AvailabilityUsecase interface {
	GetBlockedRanges(ctx context.Context, sess *session.Session, roomID int) ([]entities.BlockedRange, error)
}

type availabilityUsecase struct {
	bookingRepo repositories.BookingRepository
	log         logrus.FieldLogger
}

func NewAvailabilityUsecase(bookingRepo repositories.BookingRepository, log logrus.FieldLogger) AvailabilityUsecase {
	return &availabilityUsecase{bookingRepo: bookingRepo, log: log}
}

// GetBlockedRanges returns the days occupied by the room's reservations. A
// zero room id is a no-op and issues no request.
func (u *availabilityUsecase) GetBlockedRanges(ctx context.Context, sess *session.Session, roomID int) ([]entities.BlockedRange, error) {
	if roomID == 0 {
		return []entities.BlockedRange{}, nil
	}

	bookings, err := u.bookingRepo.GetByRoom(ctx, sess, roomID)
	if err != nil {
		if errors.Is(err, session.ErrSessionCleared) {
			return nil, unauthorizedError(err)
		}
		u.log.WithError(err).WithField("room_id", roomID).Warn("availability lookup failed")
		return nil, fetchError(err)
	}

	return u.blockedRanges(roomID, bookings), nil
}

func (u *availabilityUsecase) blockedRanges(roomID int, bookings []entities.Reservation) []entities.BlockedRange {
	ranges := make([]entities.BlockedRange, 0, len(bookings))
	for _, b := range bookings {
		if b.CheckInDate.IsZero() || b.CheckOutDate.IsZero() {
			u.log.WithFields(logrus.Fields{"room_id": roomID, "reservation_id": b.ID}).Warn("ignoring reservation without dates")
			continue
		}
		if b.CheckInDate.After(b.CheckOutDate) {
			u.log.WithFields(logrus.Fields{
				"room_id":        roomID,
				"reservation_id": b.ID,
				"check_in":       b.CheckInDate.String(),
				"check_out":      b.CheckOutDate.String(),
			}).Warn("ignoring reservation with check-in after check-out")
			continue
		}
		ranges = append(ranges, entities.BlockedRange{Start: b.CheckInDate, End: b.CheckOutDate, ReservationID: b.ID})
	}

	sort.SliceStable(ranges, func(i, j int) bool { return ranges[i].Start.Before(ranges[j].Start) })
	return ranges
}

// IsBlocked reports whether d falls inside any of ranges, compared by
// calendar day, month and year.
func IsBlocked(ranges []entities.BlockedRange, d calendar.Date) bool {
	for _, r := range ranges {
		if r.Contains(d) {
			return true
		}
	}
	return false
}

// SpanBlocked reports whether any blocked day lies in [start, end].
func SpanBlocked(ranges []entities.BlockedRange, start, end calendar.Date) bool {
	for _, r := range ranges {
		if !r.End.Before(start) && !r.Start.After(end) {
			return true
		}
	}
	return false
}

// BlockedDates expands ranges into the sorted list of distinct blocked days.
func BlockedDates(ranges []entities.BlockedRange) []calendar.Date {
	seen := make(map[calendar.Date]struct{})
	dates := []calendar.Date{}
	for _, r := range ranges {
		for d := r.Start; !d.After(r.End); d = d.AddDays(1) {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
