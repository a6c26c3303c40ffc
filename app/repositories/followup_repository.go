package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mohammedgidrah/testing-hotel-sub000/app/entities"
)

var ErrFollowUpNotFound = errors.New("payment follow-up not found")

const followUpSchema = `
CREATE TABLE IF NOT EXISTS payment_follow_ups (
	id             SERIAL PRIMARY KEY,
	booking_id     INTEGER NOT NULL,
	guest_id       INTEGER NOT NULL,
	room_id        INTEGER NOT NULL,
	amount         NUMERIC(12,2) NOT NULL,
	payment_method TEXT NOT NULL,
	payment_date   TEXT NOT NULL,
	reason         TEXT NOT NULL,
	status         TEXT NOT NULL DEFAULT 'open',
	created_by     TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	resolved_at    TIMESTAMPTZ
)`

const followUpColumns = `id, booking_id, guest_id, room_id, amount, payment_method, payment_date, reason, status, created_by, created_at, resolved_at`

// FollowUpRepository stores bookings whose payment could not be recorded.
type FollowUpRepository interface {
	Migrate(ctx context.Context) error
	Create(ctx context.Context, f entities.PaymentFollowUp) (entities.PaymentFollowUp, error)
	List(ctx context.Context, status string) ([]entities.PaymentFollowUp, error)
	GetByID(ctx context.Context, id int) (entities.PaymentFollowUp, error)
	// SetStatus moves the row from one status to another and reports how many
	// rows changed, so 0 means the row was not in status from.
	SetStatus(ctx context.Context, id int, from, to string) (int64, error)
	MarkResolved(ctx context.Context, id int, from string) (int64, error)
}

type followUpRepository struct {
	db *sqlx.DB
}

func NewFollowUpRepository(db *sqlx.DB) FollowUpRepository {
	return &followUpRepository{db: db}
}

func (r *followUpRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, followUpSchema)
	return err
}

func (r *followUpRepository) Create(ctx context.Context, f entities.PaymentFollowUp) (entities.PaymentFollowUp, error) {
	if f.Status == "" {
		f.Status = entities.FollowUpOpen
	}

	query := `
		INSERT INTO payment_follow_ups (booking_id, guest_id, room_id, amount, payment_method, payment_date, reason, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		f.BookingID, f.GuestID, f.RoomID, f.Amount, f.PaymentMethod, f.PaymentDate, f.Reason, f.Status, f.CreatedBy,
	).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return f, fmt.Errorf("insert payment follow-up for booking %d: %w", f.BookingID, err)
	}
	return f, nil
}

func (r *followUpRepository) List(ctx context.Context, status string) ([]entities.PaymentFollowUp, error) {
	query := `SELECT ` + followUpColumns + ` FROM payment_follow_ups`
	var args []interface{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	list := []entities.PaymentFollowUp{}
	if err := r.db.SelectContext(ctx, &list, query, args...); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *followUpRepository) GetByID(ctx context.Context, id int) (entities.PaymentFollowUp, error) {
	var f entities.PaymentFollowUp
	err := r.db.GetContext(ctx, &f, `SELECT `+followUpColumns+` FROM payment_follow_ups WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return f, ErrFollowUpNotFound
	}
	return f, err
}

func (r *followUpRepository) SetStatus(ctx context.Context, id int, from, to string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE payment_follow_ups SET status = $1 WHERE id = $2 AND status = $3`,
		to, id, from)
	if err != nil {
		return 0, fmt.Errorf("set payment follow-up %d to %s: %w", id, to, err)
	}
	return res.RowsAffected()
}

func (r *followUpRepository) MarkResolved(ctx context.Context, id int, from string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE payment_follow_ups SET status = $1, resolved_at = NOW() WHERE id = $2 AND status = $3`,
		entities.FollowUpResolved, id, from)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
