package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/mohammedgidrah/testing-hotel-sub000/app/entities"
)

func newMockFollowUps(t *testing.T) (FollowUpRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewFollowUpRepository(sqlx.NewDb(db, "postgres")), mock
}

var followUpTestColumns = []string{
	"id", "booking_id", "guest_id", "room_id", "amount", "payment_method",
	"payment_date", "reason", "status", "created_by", "created_at", "resolved_at",
}

func TestFollowUpCreate(t *testing.T) {
	repo, mock := newMockFollowUps(t)
	created := time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO payment_follow_ups`).
		WithArgs(55, 9, 4, 242.0, "cash", "2024-10-01", "payment api returned 500", entities.FollowUpOpen, "frontdesk").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, created))

	f, err := repo.Create(context.Background(), entities.PaymentFollowUp{
		BookingID: 55, GuestID: 9, RoomID: 4, Amount: 242, PaymentMethod: "cash",
		PaymentDate: "2024-10-01", Reason: "payment api returned 500", CreatedBy: "frontdesk",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if f.ID != 1 || !f.CreatedAt.Equal(created) || f.Status != entities.FollowUpOpen {
		t.Fatalf("unexpected follow-up: %+v", f)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestFollowUpListByStatus(t *testing.T) {
	repo, mock := newMockFollowUps(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT (.+) FROM payment_follow_ups WHERE status = \$1 ORDER BY created_at DESC`).
		WithArgs(entities.FollowUpOpen).
		WillReturnRows(sqlmock.NewRows(followUpTestColumns).
			AddRow(1, 55, 9, 4, 242.0, "cash", "2024-10-01", "boom", "open", "frontdesk", now, nil).
			AddRow(2, 56, 9, 5, 100.0, "card", "2024-10-02", "boom", "open", "frontdesk", now, nil))

	list, err := repo.List(context.Background(), entities.FollowUpOpen)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[1].BookingID != 56 || list[1].PaymentMethod != "card" {
		t.Fatalf("unexpected list: %+v", list)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestFollowUpGetByIDNotFound(t *testing.T) {
	repo, mock := newMockFollowUps(t)
	mock.ExpectQuery(`SELECT (.+) FROM payment_follow_ups WHERE id = \$1`).
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), 99); !errors.Is(err, ErrFollowUpNotFound) {
		t.Fatalf("expected ErrFollowUpNotFound, got %v", err)
	}
}

func TestFollowUpMarkResolved(t *testing.T) {
	repo, mock := newMockFollowUps(t)
	mock.ExpectExec(`UPDATE payment_follow_ups SET status = \$1`).
		WithArgs(entities.FollowUpResolved, 3, entities.FollowUpOpen).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.MarkResolved(context.Background(), 3, entities.FollowUpOpen)
	if err != nil || n != 1 {
		t.Fatalf("MarkResolved = %d, %v", n, err)
	}
}

func TestFollowUpSetStatusOnlyFromExpected(t *testing.T) {
	repo, mock := newMockFollowUps(t)
	mock.ExpectExec(`UPDATE payment_follow_ups SET status = \$1 WHERE id = \$2 AND status = \$3`).
		WithArgs(entities.FollowUpRetrying, 3, entities.FollowUpOpen).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE payment_follow_ups SET status = \$1 WHERE id = \$2 AND status = \$3`).
		WithArgs(entities.FollowUpRetrying, 3, entities.FollowUpOpen).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := repo.SetStatus(context.Background(), 3, entities.FollowUpOpen, entities.FollowUpRetrying)
	if err != nil || n != 1 {
		t.Fatalf("first claim = %d, %v", n, err)
	}
	n, err = repo.SetStatus(context.Background(), 3, entities.FollowUpOpen, entities.FollowUpRetrying)
	if err != nil || n != 0 {
		t.Fatalf("second claim = %d, %v", n, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
