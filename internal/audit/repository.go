package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Insert(ctx context.Context, e *Entry) error
	List(ctx context.Context, filter Filter) ([]*Entry, int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Insert(ctx context.Context, e *Entry) error {
	var detail *string
	if e.Detail != nil {
		b, err := json.Marshal(e.Detail)
		if err != nil {
			return fmt.Errorf("marshal audit detail failed: %w", err)
		}
		s := string(b)
		detail = &s
	}

	const query = `
		INSERT INTO audit_entries (organization_id, actor_id, action, subject_type, subject_id, resource_id, from_status, to_status, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, CAST($9 AS jsonb))
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query,
		e.OrganizationID, e.ActorID, e.Action, e.SubjectType, e.SubjectID,
		e.ResourceID, e.FromStatus, e.ToStatus, detail,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit entry failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Entry, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "organization_id", "actor_id", "action", "subject_type", "subject_id",
		"resource_id", "from_status", "to_status", "detail", "created_at",
		"count(*) OVER() as total_count",
	).
		From("public.audit_entries").
		OrderBy("created_at DESC")

	if filter.OrganizationID != "" {
		query = query.Where(squirrel.Eq{"organization_id": filter.OrganizationID})
	}
	if filter.SubjectType != "" {
		query = query.Where(squirrel.Eq{"subject_type": filter.SubjectType})
	}
	if filter.SubjectID != "" {
		query = query.Where(squirrel.Eq{"subject_id": filter.SubjectID})
	}
	if filter.ActorID != "" {
		query = query.Where(squirrel.Eq{"actor_id": filter.ActorID})
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
		return nil, 0, fmt.Errorf("build list audit entries query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit entries failed: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	var total int

	for rows.Next() {
		var e Entry
		var detail []byte
		if err := rows.Scan(
			&e.ID, &e.OrganizationID, &e.ActorID, &e.Action, &e.SubjectType, &e.SubjectID,
			&e.ResourceID, &e.FromStatus, &e.ToStatus, &detail, &e.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan audit entry failed: %w", err)
		}
		if len(detail) > 0 {
			if err := json.Unmarshal(detail, &e.Detail); err != nil {
				return nil, 0, fmt.Errorf("unmarshal audit detail failed: %w", err)
			}
		}
		entries = append(entries, &e)
	}

	return entries, total, nil
}
