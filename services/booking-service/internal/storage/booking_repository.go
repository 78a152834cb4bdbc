package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Tushar656/venue-booking/libs/db"
	"github.com/Tushar656/venue-booking/services/booking-service/internal/model"
	"github.com/Tushar656/venue-booking/services/booking-service/internal/outbox"
)

// ErrOverlap is returned when a requested interval overlaps an active
// booking on the same court. Intervals are half-open: [start, end).
var ErrOverlap = errors.New("time conflict with an existing booking")

// ErrNotOwner is returned when a caller targets a booking they do not own.
var ErrNotOwner = errors.New("booking belongs to another owner")

type BookingRepository struct {
	pool   *db.Pool
	outbox *outbox.Repository
}

func NewBookingRepository(pool *db.Pool, outboxRepo *outbox.Repository) *BookingRepository {
	return &BookingRepository{pool: pool, outbox: outboxRepo}
}

// Admit inserts the booking if and only if no active booking on the same
// court overlaps [StartTime, EndTime). The overlap check runs under row
// locks inside one transaction, and the bookings exclusion constraint
// backstops it, so two concurrent admissions of the same slot can never
// both commit. On success the booking ID and CreatedAt are filled in.
func (r *BookingRepository) Admit(ctx context.Context, b *model.Booking) error {
	return r.pool.WithTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			SELECT id
			FROM bookings
			WHERE court_id = $1
				AND status <> 'Cancelled'
				AND start_time < $3
				AND end_time > $2
			FOR UPDATE
		`, b.CourtID, b.StartTime, b.EndTime)
		if err != nil {
			return err
		}
		conflicting := rows.Next()
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
		if conflicting {
			return ErrOverlap
		}

		b.ID = uuid.NewString()
		err = tx.QueryRow(ctx, `
			INSERT INTO bookings (id, court_id, owner_id, customer_name, start_time, end_time, amount, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING created_at
		`, b.ID, b.CourtID, b.OwnerID, b.CustomerName, b.StartTime, b.EndTime, b.Amount, b.Status).Scan(&b.CreatedAt)
		if err != nil {
			if isExclusionViolation(err) {
				return ErrOverlap
			}
			return err
		}

		payload, err := json.Marshal(map[string]any{
			"booking_id":    b.ID,
			"court_id":      b.CourtID,
			"owner_id":      b.OwnerID,
			"customer_name": b.CustomerName,
			"start_time":    b.StartTime.UTC().Format(time.RFC3339),
			"end_time":      b.EndTime.UTC().Format(time.RFC3339),
			"amount":        b.Amount,
		})
		if err != nil {
			return err
		}
		return r.outbox.Insert(ctx, tx, outbox.Event{
			AggregateType: "booking",
			AggregateID:   b.ID,
			EventType:     "booking.created.v1",
			Payload:       payload,
		})
	})
}

// ListOverlapping returns active bookings on the court whose intervals
// intersect [start, end), ordered by start time. Cancelled bookings do
// not block.
func (r *BookingRepository) ListOverlapping(ctx context.Context, courtID string, start, end time.Time) ([]model.Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, court_id, owner_id, customer_name, start_time, end_time, amount, status, cancelled_at, created_at
		FROM bookings
		WHERE court_id = $1
			AND status <> 'Cancelled'
			AND start_time < $3
			AND end_time > $2
		ORDER BY start_time ASC
	`, courtID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

func (r *BookingRepository) ListByOwner(ctx context.Context, ownerID string, limit int) ([]model.Booking, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT b.id, b.court_id, c.name, b.owner_id, b.customer_name,
			b.start_time, b.end_time, b.amount, b.status, b.cancelled_at, b.created_at
		FROM bookings b
		JOIN courts c ON c.id = b.court_id
		WHERE b.owner_id = $1
		ORDER BY b.created_at DESC
		LIMIT $2
	`, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		var b model.Booking
		var cancelledAt *time.Time
		if err := rows.Scan(&b.ID, &b.CourtID, &b.CourtName, &b.OwnerID, &b.CustomerName,
			&b.StartTime, &b.EndTime, &b.Amount, &b.Status, &cancelledAt, &b.CreatedAt); err != nil {
			return nil, err
		}
		b.CancelledAt = cancelledAt
		bookings = append(bookings, b)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return bookings, nil
}

// Cancel flips the booking to Cancelled under a row lock. Cancelling an
// already cancelled booking is a no-op that returns the stored state.
func (r *BookingRepository) Cancel(ctx context.Context, bookingID, ownerID string) (model.Booking, error) {
	var result model.Booking
	err := r.pool.WithTx(ctx, func(tx pgx.Tx) error {
		var b model.Booking
		var cancelledAt *time.Time
		err := tx.QueryRow(ctx, `
			SELECT id, court_id, owner_id, customer_name, start_time, end_time, amount, status, cancelled_at, created_at
			FROM bookings
			WHERE id = $1
			FOR UPDATE
		`, bookingID).Scan(&b.ID, &b.CourtID, &b.OwnerID, &b.CustomerName,
			&b.StartTime, &b.EndTime, &b.Amount, &b.Status, &cancelledAt, &b.CreatedAt)
		if err != nil {
			return err
		}
		b.CancelledAt = cancelledAt

		if b.OwnerID != ownerID {
			return ErrNotOwner
		}
		if b.Status == model.StatusCancelled && b.CancelledAt != nil {
			result = b
			return nil
		}

		var at time.Time
		err = tx.QueryRow(ctx, `
			UPDATE bookings
			SET status = 'Cancelled',
				cancelled_at = now()
			WHERE id = $1
			RETURNING cancelled_at
		`, bookingID).Scan(&at)
		if err != nil {
			return err
		}
		b.Status = model.StatusCancelled
		b.CancelledAt = &at

		payload, err := json.Marshal(map[string]any{
			"booking_id":   b.ID,
			"court_id":     b.CourtID,
			"owner_id":     b.OwnerID,
			"start_time":   b.StartTime.UTC().Format(time.RFC3339),
			"end_time":     b.EndTime.UTC().Format(time.RFC3339),
			"cancelled_at": at.UTC().Format(time.RFC3339),
		})
		if err != nil {
			return err
		}
		if err := r.outbox.Insert(ctx, tx, outbox.Event{
			AggregateType: "booking",
			AggregateID:   b.ID,
			EventType:     "booking.cancelled.v1",
			Payload:       payload,
		}); err != nil {
			return err
		}
		result = b
		return nil
	})
	if err != nil {
		return model.Booking{}, err
	}
	return result, nil
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrOverlap) || isExclusionViolation(err)
}

func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23P01"
}

func scanBookings(rows pgx.Rows) ([]model.Booking, error) {
	var bookings []model.Booking
	for rows.Next() {
		var b model.Booking
		var cancelledAt *time.Time
		if err := rows.Scan(&b.ID, &b.CourtID, &b.OwnerID, &b.CustomerName,
			&b.StartTime, &b.EndTime, &b.Amount, &b.Status, &cancelledAt, &b.CreatedAt); err != nil {
			return nil, err
		}
		b.CancelledAt = cancelledAt
		bookings = append(bookings, b)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return bookings, nil
}
