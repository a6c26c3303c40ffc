package usecases

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mohammedgidrah/testing-hotel-sub000/app/entities"
	"github.com/mohammedgidrah/testing-hotel-sub000/app/repositories"
	"github.com/mohammedgidrah/testing-hotel-sub000/app/session"
	"github.com/mohammedgidrah/testing-hotel-sub000/pkg/calendar"
)

func testLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testSession(username string) *session.Session {
	return session.New("test-token", entities.Claims{ID: 1, Username: username, Role: entities.RoleReceptionist})
}

func fixedClock(s string) func() time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func reservation(id int, in, out string) entities.Reservation {
	return entities.Reservation{ID: id, CheckInDate: calendar.MustParse(in), CheckOutDate: calendar.MustParse(out)}
}

type fakeBookingRepo struct {
	mu        sync.Mutex
	byRoom    map[int][]entities.Reservation
	getErr    error
	createErr error
	getCalls  map[int]int
	created   []entities.CreateBookingRequest
	nextID    int

	// gates holds GetByRoom for a room until the channel is closed; started
	// receives the room id once the call is waiting.
	gates   map[int]chan struct{}
	started chan int
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		byRoom:   map[int][]entities.Reservation{},
		getCalls: map[int]int{},
		gates:    map[int]chan struct{}{},
		nextID:   100,
	}
}

func (r *fakeBookingRepo) GetByRoom(ctx context.Context, sess *session.Session, roomID int) ([]entities.Reservation, error) {
	if !sess.Active() {
		return nil, session.ErrSessionCleared
	}

	r.mu.Lock()
	r.getCalls[roomID]++
	gate := r.gates[roomID]
	r.mu.Unlock()

	if gate != nil {
		if r.started != nil {
			r.started <- roomID
		}
		<-gate
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	return append([]entities.Reservation(nil), r.byRoom[roomID]...), nil
}

func (r *fakeBookingRepo) Create(ctx context.Context, sess *session.Session, req entities.CreateBookingRequest) (entities.Reservation, error) {
	if !sess.Active() {
		return entities.Reservation{}, session.ErrSessionCleared
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, req)
	if r.createErr != nil {
		return entities.Reservation{}, r.createErr
	}
	r.nextID++
	res := entities.Reservation{
		ID:            r.nextID,
		RoomID:        req.RoomID,
		GuestID:       req.GuestID,
		CheckInDate:   calendar.MustParse(req.CheckInDate),
		CheckOutDate:  calendar.MustParse(req.CheckOutDate),
		PaymentStatus: req.PaymentStatus,
		TotalAmount:   entities.Amount(req.TotalAmount),
	}
	r.byRoom[req.RoomID] = append(r.byRoom[req.RoomID], res)
	return res, nil
}

func (r *fakeBookingRepo) calls(roomID int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getCalls[roomID]
}

func (r *fakeBookingRepo) setGetErr(err error) {
	r.mu.Lock()
	r.getErr = err
	r.mu.Unlock()
}

type fakePaymentRepo struct {
	mu   sync.Mutex
	err  error
	reqs []entities.CreatePaymentRequest
}

func (r *fakePaymentRepo) Create(ctx context.Context, sess *session.Session, req entities.CreatePaymentRequest) (entities.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reqs = append(r.reqs, req)
	if r.err != nil {
		return entities.Payment{}, r.err
	}
	return entities.Payment{
		ID:            len(r.reqs),
		BookingID:     req.BookingID,
		PaymentMethod: req.PaymentMethod,
		AmountPaid:    entities.Amount(req.AmountPaid),
		PaymentDate:   req.PaymentDate,
	}, nil
}

type fakeRoomRepo struct {
	rooms map[int]entities.Room
}

func (r *fakeRoomRepo) GetByID(ctx context.Context, sess *session.Session, id int) (entities.Room, error) {
	room, ok := r.rooms[id]
	if !ok {
		return entities.Room{}, &repositories.APIError{Method: "GET", Path: "/rooms", StatusCode: 404, Message: "room not found"}
	}
	return room, nil
}

type fakeGuestRepo struct {
	guests []entities.Guest
	err    error
}

func (r *fakeGuestRepo) GetAll(ctx context.Context, sess *session.Session) ([]entities.Guest, error) {
	return r.guests, r.err
}

type fakeServiceRepo struct {
	services []entities.Service
	err      error
}

func (r *fakeServiceRepo) GetAll(ctx context.Context, sess *session.Session) ([]entities.Service, error) {
	return r.services, r.err
}

type fakeFollowUpRepo struct {
	mu   sync.Mutex
	rows map[int]entities.PaymentFollowUp
	err  error
}

func newFakeFollowUpRepo() *fakeFollowUpRepo {
	return &fakeFollowUpRepo{rows: map[int]entities.PaymentFollowUp{}}
}

func (r *fakeFollowUpRepo) Migrate(ctx context.Context) error { return nil }

func (r *fakeFollowUpRepo) Create(ctx context.Context, f entities.PaymentFollowUp) (entities.PaymentFollowUp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return f, r.err
	}
	f.ID = len(r.rows) + 1
	f.Status = entities.FollowUpOpen
	f.CreatedAt = time.Now()
	r.rows[f.ID] = f
	return f, nil
}

func (r *fakeFollowUpRepo) List(ctx context.Context, status string) ([]entities.PaymentFollowUp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entities.PaymentFollowUp{}
	for _, f := range r.rows {
		if status == "" || f.Status == status {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFollowUpRepo) GetByID(ctx context.Context, id int) (entities.PaymentFollowUp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.rows[id]
	if !ok {
		return f, repositories.ErrFollowUpNotFound
	}
	return f, nil
}

func (r *fakeFollowUpRepo) SetStatus(ctx context.Context, id int, from, to string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.rows[id]
	if !ok || f.Status != from {
		return 0, nil
	}
	f.Status = to
	r.rows[id] = f
	return 1, nil
}

func (r *fakeFollowUpRepo) MarkResolved(ctx context.Context, id int, from string) (int64, error) {
	return r.SetStatus(ctx, id, from, entities.FollowUpResolved)
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []entities.PaymentFollowUp
	err  error
}

func (n *fakeNotifier) NotifyPaymentFollowUp(f entities.PaymentFollowUp) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, f)
	return n.err
}

type fakePublisher struct {
	mu     sync.Mutex
	events []entities.RefreshEvent
	err    error
}

func (p *fakePublisher) PublishRefresh(ctx context.Context, event entities.RefreshEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

var errBackendDown = errors.New("connection refused")

// bookingFixture wires the usecases against fakes with a fixed clock of
// 2024-09-15.
type bookingFixture struct {
	bookings  *fakeBookingRepo
	payments  *fakePaymentRepo
	rooms     *fakeRoomRepo
	guests    *fakeGuestRepo
	services  *fakeServiceRepo
	followUps *fakeFollowUpRepo
	notifier  *fakeNotifier
	publisher *fakePublisher
	drafts    repositories.DraftRepository

	booking   *bookingUsecase
	selection *selectionUsecase
}

func newBookingFixture() *bookingFixture {
	f := &bookingFixture{
		bookings: newFakeBookingRepo(),
		payments: &fakePaymentRepo{},
		rooms: &fakeRoomRepo{rooms: map[int]entities.Room{
			1: {ID: 1, RoomNumber: "101", Type: "single", PricePerNight: 100, Status: entities.RoomAvailable},
			2: {ID: 2, RoomNumber: "202", Type: "double", PricePerNight: 150, Status: entities.RoomAvailable},
		}},
		guests: &fakeGuestRepo{guests: []entities.Guest{{ID: 7, FirstName: "Lina", LastName: "Haddad"}}},
		services: &fakeServiceRepo{services: []entities.Service{
			{ID: 1, Name: "Breakfast", Price: 20},
			{ID: 2, Name: "Parking", Price: 10},
		}},
		followUps: newFakeFollowUpRepo(),
		notifier:  &fakeNotifier{},
		publisher: &fakePublisher{},
		drafts:    repositories.NewMemoryDraftRepository(0),
	}

	log := testLogger()
	clock := fixedClock("2024-09-15T09:00:00Z")
	availability := NewAvailabilityUsecase(f.bookings, log)
	pricing := NewPricingCalculator(DefaultTaxRate)
	followUps := NewFollowUpUsecase(f.followUps, f.payments, f.notifier, log)

	f.booking = NewBookingUsecase(f.bookings, f.payments, f.rooms, f.services, availability, pricing, followUps, f.publisher, log).(*bookingUsecase)
	f.booking.now = clock
	f.selection = NewSelectionUsecase(f.drafts, f.rooms, f.guests, f.services, availability, pricing, f.booking, log).(*selectionUsecase)
	f.selection.now = clock
	return f
}
