package resource

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, res *Resource) error
	GetByID(ctx context.Context, id string) (*Resource, error)
	List(ctx context.Context, filter Filter) ([]*Resource, int, error)
	Update(ctx context.Context, res *Resource) error
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status Status, stampLastUsed bool) error
	UpdateOwnership(ctx context.Context, id string, scope OwnerScope, ownerDepartment string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const resourceColumns = `id, organization_id, name, kind, owner_scope, owner_department, status, loanable, usable_until, last_used_at, created_at, updated_at`

func scanResource(row pgx.Row) (*Resource, error) {
	var res Resource
	err := row.Scan(
		&res.ID, &res.OrganizationID, &res.Name, &res.Kind,
		&res.OwnerScope, &res.OwnerDepartment, &res.Status, &res.Loanable,
		&res.UsableUntil, &res.LastUsedAt, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan resource failed: %w", err)
	}
	return &res, nil
}

func (r *pgxRepository) Create(ctx context.Context, res *Resource) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.resources").
		Columns("organization_id", "name", "kind", "owner_scope", "owner_department", "status", "loanable", "usable_until").
		Values(res.OrganizationID, res.Name, res.Kind, res.OwnerScope, res.OwnerDepartment, res.Status, res.Loanable, res.UsableUntil).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create resource query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).
		Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return fmt.Errorf("create resource failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Resource, error) {
	query := fmt.Sprintf(`SELECT %s FROM public.resources WHERE id = $1`, resourceColumns)
	return scanResource(r.pool.QueryRow(ctx, query, id))
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Resource, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "organization_id", "name", "kind", "owner_scope", "owner_department",
		"status", "loanable", "usable_until", "last_used_at", "created_at", "updated_at",
		"count(*) OVER() as total_count",
	).
		From("public.resources").
		OrderBy("created_at DESC")

	if filter.OrganizationID != "" {
		query = query.Where(squirrel.Eq{"organization_id": filter.OrganizationID})
	}
	if filter.Kind != "" {
		query = query.Where(squirrel.Eq{"kind": filter.Kind})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.OwnerDepartment != "" {
		query = query.Where(squirrel.Eq{"owner_department": filter.OwnerDepartment})
	}
	if filter.Loanable != nil {
		query = query.Where(squirrel.Eq{"loanable": *filter.Loanable})
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
		return nil, 0, fmt.Errorf("build list resources query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list resources failed: %w", err)
	}
	defer rows.Close()

	var result []*Resource
	var total int

	for rows.Next() {
		var res Resource
		if err := rows.Scan(
			&res.ID, &res.OrganizationID, &res.Name, &res.Kind,
			&res.OwnerScope, &res.OwnerDepartment, &res.Status, &res.Loanable,
			&res.UsableUntil, &res.LastUsedAt, &res.CreatedAt, &res.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan resource failed: %w", err)
		}
		result = append(result, &res)
	}

	return result, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, res *Resource) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.resources").
		Set("name", res.Name).
		Set("loanable", res.Loanable).
		Set("usable_until", res.UsableUntil).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": res.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update resource query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update resource failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM public.resources WHERE id = $1`
	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete resource failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, status Status, stampLastUsed bool) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	update := psql.Update("public.resources").
		Set("status", status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id})

	if stampLastUsed {
		update = update.Set("last_used_at", squirrel.Expr("now()"))
	}

	query, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("build update resource status query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update resource status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) UpdateOwnership(ctx context.Context, id string, scope OwnerScope, ownerDepartment string) error {
	const query = `
		UPDATE public.resources
		SET owner_scope = $1, owner_department = $2, updated_at = now()
		WHERE id = $3
	`
	ct, err := r.pool.Exec(ctx, query, scope, ownerDepartment, id)
	if err != nil {
		return fmt.Errorf("update resource ownership failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
