package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mohammedgidrah/testing-hotel-sub000/app/entities"
	"github.com/mohammedgidrah/testing-hotel-sub000/app/session"
)

func newTestAPI(t *testing.T, handler http.HandlerFunc) (*HotelAPI, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return NewHotelAPI(srv.URL+"/", 2*time.Second, nil), &calls
}

func testSession() *session.Session {
	return session.New("test-token", entities.Claims{Username: "frontdesk", Role: entities.RoleAdmin})
}

func TestBookingRepositoryGetByRoom(t *testing.T) {
	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/bookings/3" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"bookings":[
			{"id":1,"check_in_date":"2024-10-01","check_out_date":"2024-10-05"},
			{"id":2,"check_in_date":"2024-10-10T00:00:00.000Z","check_out_date":"2024-10-12T22:00:00.000Z"}
		]}`))
	})

	bookings, err := NewBookingRepository(api).GetByRoom(context.Background(), testSession(), 3)
	if err != nil {
		t.Fatalf("GetByRoom: %v", err)
	}
	if len(bookings) != 2 {
		t.Fatalf("got %d bookings", len(bookings))
	}
	if bookings[0].CheckInDate.String() != "2024-10-01" || bookings[1].CheckOutDate.String() != "2024-10-12" {
		t.Fatalf("unexpected dates: %+v", bookings)
	}
}

func TestBookingRepositoryCreate(t *testing.T) {
	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		var req entities.CreateBookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if req.CheckInDate != "2024-10-01" || req.RoomID != 4 || len(req.Services) != 1 {
			t.Errorf("unexpected body: %+v", req)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"created","booking":{"id":55}}`))
	})

	created, err := NewBookingRepository(api).Create(context.Background(), testSession(), entities.CreateBookingRequest{
		GuestID: 9, RoomID: 4, CheckInDate: "2024-10-01", CheckOutDate: "2024-10-03",
		PaymentStatus: entities.PaymentStatusPending, TotalAmount: 242, Services: []int{2},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != 55 || created.RoomID != 4 || created.GuestID != 9 || created.TotalAmount != 242 {
		t.Fatalf("unexpected reservation: %+v", created)
	}
	if created.CheckOutDate.String() != "2024-10-03" {
		t.Fatalf("check-out not filled from request: %s", created.CheckOutDate)
	}
}

func TestBookingRepositoryConflictIsAPIError(t *testing.T) {
	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"room already booked"}`))
	})

	_, err := NewBookingRepository(api).Create(context.Background(), testSession(), entities.CreateBookingRequest{RoomID: 1})
	if !IsStatus(err, http.StatusConflict) {
		t.Fatalf("expected 409 APIError, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "room already booked" {
		t.Fatalf("unexpected error message: %v", err)
	}
}

func TestClearedSessionIssuesNoRequest(t *testing.T) {
	api, calls := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	sess := testSession()
	sess.Clear()

	_, err := NewGuestRepository(api).GetAll(context.Background(), sess)
	if !errors.Is(err, session.ErrSessionCleared) {
		t.Fatalf("expected ErrSessionCleared, got %v", err)
	}
	if atomic.LoadInt32(calls) != 0 {
		t.Fatalf("expected no request, got %d", *calls)
	}
}

func TestReferenceListsAcceptWrappedAndBareArrays(t *testing.T) {
	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/guests":
			w.Write([]byte(`[{"id":1,"first_name":"Ana","last_name":"Diaz"}]`))
		case "/services":
			w.Write([]byte(`{"data":[{"id":1,"name":"Breakfast","price":"20.00"},{"id":2,"name":"Spa","price":"n/a"}]}`))
		case "/rooms/8":
			w.Write([]byte(`{"room":{"id":8,"room_number":"204","type":"double","price_per_night":"100.50","status":"available"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	guests, err := NewGuestRepository(api).GetAll(ctx, testSession())
	if err != nil || len(guests) != 1 || guests[0].FirstName != "Ana" {
		t.Fatalf("guests = %+v, %v", guests, err)
	}

	services, err := NewServiceRepository(api).GetAll(ctx, testSession())
	if err != nil || len(services) != 2 {
		t.Fatalf("services = %+v, %v", services, err)
	}
	if services[0].Price != 20 || services[1].Price != 0 {
		t.Fatalf("unexpected prices: %+v", services)
	}

	room, err := NewRoomRepository(api).GetByID(ctx, testSession(), 8)
	if err != nil {
		t.Fatalf("room: %v", err)
	}
	if room.PricePerNight != 100.5 || room.Status != entities.RoomAvailable {
		t.Fatalf("unexpected room: %+v", room)
	}
}

func TestPaymentRepositoryServerError(t *testing.T) {
	api, _ := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := NewPaymentRepository(api).Create(context.Background(), testSession(), entities.CreatePaymentRequest{BookingID: 1})
	if !IsStatus(err, http.StatusInternalServerError) {
		t.Fatalf("expected 500 APIError, got %v", err)
	}
}
