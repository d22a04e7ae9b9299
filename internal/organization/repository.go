package organization

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, org *Organization) error
	GetByID(ctx context.Context, id string) (*Organization, error)
	List(ctx context.Context, filter Filter) ([]*Organization, int, error)
	Update(ctx context.Context, org *Organization) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, org *Organization) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.organizations").
		Columns("name", "is_active", "return_enabled", "return_require_photo", "return_require_verification").
		Values(org.Name, org.IsActive, org.ReturnPolicy.Enabled, org.ReturnPolicy.RequirePhoto, org.ReturnPolicy.RequireVerification).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create organization query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&org.ID, &org.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrNameTaken
		}
		return fmt.Errorf("create organization failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Organization, error) {
	const query = `
		SELECT id, name, is_active, return_enabled, return_require_photo, return_require_verification, created_at
		FROM public.organizations
		WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)

	var org Organization
	if err := row.Scan(
		&org.ID, &org.Name, &org.IsActive,
		&org.ReturnPolicy.Enabled, &org.ReturnPolicy.RequirePhoto, &org.ReturnPolicy.RequireVerification,
		&org.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get organization failed: %w", err)
	}
	return &org, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Organization, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "name", "is_active",
		"return_enabled", "return_require_photo", "return_require_verification",
		"created_at", "count(*) OVER() as total_count",
	).
		From("public.organizations").
		OrderBy("created_at DESC")

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
		return nil, 0, fmt.Errorf("build list organizations query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list organizations failed: %w", err)
	}
	defer rows.Close()

	var orgs []*Organization
	var total int

	for rows.Next() {
		var org Organization
		if err := rows.Scan(
			&org.ID, &org.Name, &org.IsActive,
			&org.ReturnPolicy.Enabled, &org.ReturnPolicy.RequirePhoto, &org.ReturnPolicy.RequireVerification,
			&org.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan organization failed: %w", err)
		}
		orgs = append(orgs, &org)
	}

	return orgs, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, org *Organization) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.organizations").
		Set("name", org.Name).
		Set("is_active", org.IsActive).
		Set("return_enabled", org.ReturnPolicy.Enabled).
		Set("return_require_photo", org.ReturnPolicy.RequirePhoto).
		Set("return_require_verification", org.ReturnPolicy.RequireVerification).
		Where(squirrel.Eq{"id": org.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update organization query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update organization failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM public.organizations WHERE id = $1`
	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete organization failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
