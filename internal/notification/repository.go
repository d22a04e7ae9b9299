package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	List(ctx context.Context, filter Filter) ([]*Notification, int, error)
	MarkRead(ctx context.Context, id, userID string) error
	ListPending(ctx context.Context, limit int) ([]*Notification, error)
	MarkDispatched(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, n *Notification) error {
	attrs, err := json.Marshal(n.Attributes)
	if err != nil {
		return fmt.Errorf("marshal notification attributes failed: %w", err)
	}

	const query = `
		INSERT INTO notifications (user_id, organization_id, title, message, attributes)
		VALUES ($1, $2, $3, $4, CAST($5 AS jsonb))
		RETURNING id, created_at
	`
	err = r.pool.QueryRow(ctx, query, n.UserID, n.OrganizationID, n.Title, n.Message, attrs).
		Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("create notification failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Notification, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "user_id", "organization_id", "title", "message", "attributes",
		"is_read", "dispatched_at", "created_at", "count(*) OVER() as total_count",
	).
		From("public.notifications").
		Where(squirrel.Eq{"user_id": filter.UserID}).
		OrderBy("created_at DESC")

	if filter.UnreadOnly {
		query = query.Where(squirrel.Eq{"is_read": false})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list notifications query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications failed: %w", err)
	}
	defer rows.Close()

	var notes []*Notification
	var total int

	for rows.Next() {
		var n Notification
		var attrs []byte
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.OrganizationID, &n.Title, &n.Message, &attrs,
			&n.IsRead, &n.DispatchedAt, &n.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan notification failed: %w", err)
		}
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &n.Attributes); err != nil {
				return nil, 0, fmt.Errorf("unmarshal notification attributes failed: %w", err)
			}
		}
		notes = append(notes, &n)
	}

	return notes, total, nil
}

func (r *pgxRepository) MarkRead(ctx context.Context, id, userID string) error {
	const query = `
		UPDATE public.notifications
		SET is_read = true
		WHERE id = $1 AND user_id = $2
	`
	ct, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) ListPending(ctx context.Context, limit int) ([]*Notification, error) {
	if limit < 1 {
		limit = 50
	}

	const query = `
		SELECT id, user_id, organization_id, title, message, attributes, is_read, dispatched_at, created_at
		FROM public.notifications
		WHERE dispatched_at IS NULL
		ORDER BY created_at ASC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending notifications failed: %w", err)
	}
	defer rows.Close()

	var notes []*Notification
	for rows.Next() {
		var n Notification
		var attrs []byte
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.OrganizationID, &n.Title, &n.Message, &attrs,
			&n.IsRead, &n.DispatchedAt, &n.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan pending notification failed: %w", err)
		}
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &n.Attributes); err != nil {
				return nil, fmt.Errorf("unmarshal notification attributes failed: %w", err)
			}
		}
		notes = append(notes, &n)
	}

	return notes, nil
}

func (r *pgxRepository) MarkDispatched(ctx context.Context, id string) error {
	const query = `UPDATE public.notifications SET dispatched_at = now() WHERE id = $1`
	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark notification dispatched failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
