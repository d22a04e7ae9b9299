package policy

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
	Create(ctx context.Context, p *Policy) error
	GetByID(ctx context.Context, id string) (*Policy, error)
	// Find returns the policy row for exactly (org, scope, department),
	// where a nil department matches the organization-wide default row.
	Find(ctx context.Context, orgID, scope string, department *string) (*Policy, error)
	List(ctx context.Context, filter Filter) ([]*Policy, int, error)
	Update(ctx context.Context, p *Policy) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func scanPolicy(row pgx.Row) (*Policy, error) {
	var p Policy
	err := row.Scan(&p.ID, &p.OrganizationID, &p.Scope, &p.Department, &p.RequiredRole, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan policy failed: %w", err)
	}
	return &p, nil
}

func (r *pgxRepository) Create(ctx context.Context, p *Policy) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.approval_policies").
		Columns("organization_id", "scope", "department", "required_role").
		Values(p.OrganizationID, p.Scope, p.Department, p.RequiredRole).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create policy query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("create policy failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Policy, error) {
	const query = `
		SELECT id, organization_id, scope, department, required_role, created_at
		FROM public.approval_policies
		WHERE id = $1
	`
	return scanPolicy(r.pool.QueryRow(ctx, query, id))
}

func (r *pgxRepository) Find(ctx context.Context, orgID, scope string, department *string) (*Policy, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("id", "organization_id", "scope", "department", "required_role", "created_at").
		From("public.approval_policies").
		Where(squirrel.Eq{"organization_id": orgID}).
		Where(squirrel.Eq{"scope": scope})

	if department == nil {
		query = query.Where("department IS NULL")
	} else {
		query = query.Where(squirrel.Eq{"department": *department})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find policy query failed: %w", err)
	}

	return scanPolicy(r.pool.QueryRow(ctx, sql, args...))
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Policy, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("id", "organization_id", "scope", "department", "required_role", "created_at", "count(*) OVER() as total_count").
		From("public.approval_policies").
		OrderBy("scope ASC, department ASC NULLS FIRST")

	if filter.OrganizationID != "" {
		query = query.Where(squirrel.Eq{"organization_id": filter.OrganizationID})
	}
	if filter.Scope != "" {
		query = query.Where(squirrel.Eq{"scope": filter.Scope})
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
		return nil, 0, fmt.Errorf("build list policies query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list policies failed: %w", err)
	}
	defer rows.Close()

	var policies []*Policy
	var total int

	for rows.Next() {
		var p Policy
		if err := rows.Scan(&p.ID, &p.OrganizationID, &p.Scope, &p.Department, &p.RequiredRole, &p.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan policy failed: %w", err)
		}
		policies = append(policies, &p)
	}

	return policies, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, p *Policy) error {
	const query = `
		UPDATE public.approval_policies
		SET required_role = $1
		WHERE id = $2
	`
	ct, err := r.pool.Exec(ctx, query, p.RequiredRole, p.ID)
	if err != nil {
		return fmt.Errorf("update policy failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM public.approval_policies WHERE id = $1`
	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete policy failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
