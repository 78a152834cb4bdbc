package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Tushar656/venue-booking/libs/db"
	"github.com/Tushar656/venue-booking/services/booking-service/internal/model"
)

type CourtRepository struct {
	pool *db.Pool
}

func NewCourtRepository(pool *db.Pool) *CourtRepository {
	return &CourtRepository{pool: pool}
}

func (r *CourtRepository) Create(ctx context.Context, court model.Court) (time.Time, error) {
	var createdAt time.Time
	err := r.pool.QueryRow(ctx, `
		INSERT INTO courts (id, owner_id, name, sport, surface, price_per_hour)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, court.ID, court.OwnerID, court.Name, court.Sport, court.Surface, court.PricePerHour).Scan(&createdAt)
	return createdAt, err
}

func (r *CourtRepository) GetByID(ctx context.Context, id string) (model.Court, error) {
	var court model.Court
	err := r.pool.QueryRow(ctx, `
		SELECT id, owner_id, name, sport, surface, price_per_hour, created_at
		FROM courts
		WHERE id = $1
	`, id).Scan(&court.ID, &court.OwnerID, &court.Name, &court.Sport, &court.Surface, &court.PricePerHour, &court.CreatedAt)
	if err != nil {
		return model.Court{}, err
	}
	return court, nil
}

func (r *CourtRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Court, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, owner_id, name, sport, surface, price_per_hour, created_at
		FROM courts
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courts []model.Court
	for rows.Next() {
		var court model.Court
		if err := rows.Scan(&court.ID, &court.OwnerID, &court.Name, &court.Sport, &court.Surface, &court.PricePerHour, &court.CreatedAt); err != nil {
			return nil, err
		}
		courts = append(courts, court)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return courts, nil
}

// Update touches only courts owned by ownerID; pgx.ErrNoRows means the
// court does not exist or belongs to someone else.
func (r *CourtRepository) Update(ctx context.Context, court model.Court) error {
	var id string
	return r.pool.QueryRow(ctx, `
		UPDATE courts
		SET name = $3, sport = $4, surface = $5, price_per_hour = $6
		WHERE id = $1 AND owner_id = $2
		RETURNING id
	`, court.ID, court.OwnerID, court.Name, court.Sport, court.Surface, court.PricePerHour).Scan(&id)
}

func (r *CourtRepository) Delete(ctx context.Context, id, ownerID string) error {
	var deleted string
	return r.pool.QueryRow(ctx, `
		DELETE FROM courts
		WHERE id = $1 AND owner_id = $2
		RETURNING id
	`, id, ownerID).Scan(&deleted)
}

func IsDuplicateName(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
