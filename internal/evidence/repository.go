package evidence

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, e *Evidence) error
	GetByID(ctx context.Context, id string) (*Evidence, error)
	ListByReservation(ctx context.Context, reservationID string) ([]*Evidence, error)
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, e *Evidence) error {
	const query = `
		INSERT INTO public.return_evidence (id, reservation_id, user_id, filename, storage_path, thumbnail_path, content_type, size)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query,
		e.ID, e.ReservationID, e.UserID, e.Filename,
		e.StoragePath, e.ThumbnailPath, e.ContentType, e.Size,
	).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("create evidence failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Evidence, error) {
	const query = `
		SELECT id, reservation_id, user_id, filename, storage_path, thumbnail_path, content_type, size, created_at
		FROM public.return_evidence
		WHERE id = $1
	`
	var e Evidence
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.ReservationID, &e.UserID, &e.Filename,
		&e.StoragePath, &e.ThumbnailPath, &e.ContentType, &e.Size, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get evidence failed: %w", err)
	}
	return &e, nil
}

func (r *pgxRepository) ListByReservation(ctx context.Context, reservationID string) ([]*Evidence, error) {
	const query = `
		SELECT id, reservation_id, user_id, filename, storage_path, thumbnail_path, content_type, size, created_at
		FROM public.return_evidence
		WHERE reservation_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, reservationID)
	if err != nil {
		return nil, fmt.Errorf("list evidence failed: %w", err)
	}
	defer rows.Close()

	var items []*Evidence
	for rows.Next() {
		var e Evidence
		if err := rows.Scan(
			&e.ID, &e.ReservationID, &e.UserID, &e.Filename,
			&e.StoragePath, &e.ThumbnailPath, &e.ContentType, &e.Size, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan evidence failed: %w", err)
		}
		items = append(items, &e)
	}

	return items, nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM public.return_evidence WHERE id = $1`
	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete evidence failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
