package department

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
	Create(ctx context.Context, dept *Department) error
	GetByID(ctx context.Context, id string) (*Department, error)
	GetByName(ctx context.Context, orgID, name string) (*Department, error)
	List(ctx context.Context, filter Filter) ([]*Department, int, error)
	Update(ctx context.Context, dept *Department) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, dept *Department) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.departments").
		Columns("organization_id", "name").
		Values(dept.OrganizationID, dept.Name).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create department query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&dept.ID, &dept.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrNameTaken
		}
		return fmt.Errorf("create department failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Department, error) {
	const query = `
		SELECT id, organization_id, name, created_at
		FROM public.departments
		WHERE id = $1
	`
	var dept Department
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&dept.ID, &dept.OrganizationID, &dept.Name, &dept.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get department failed: %w", err)
	}
	return &dept, nil
}

func (r *pgxRepository) GetByName(ctx context.Context, orgID, name string) (*Department, error) {
	const query = `
		SELECT id, organization_id, name, created_at
		FROM public.departments
		WHERE organization_id = $1 AND name = $2
	`
	var dept Department
	err := r.pool.QueryRow(ctx, query, orgID, name).
		Scan(&dept.ID, &dept.OrganizationID, &dept.Name, &dept.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get department by name failed: %w", err)
	}
	return &dept, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Department, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("id", "organization_id", "name", "created_at", "count(*) OVER() as total_count").
		From("public.departments").
		OrderBy("name ASC")

	if filter.OrganizationID != "" {
		query = query.Where(squirrel.Eq{"organization_id": filter.OrganizationID})
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
		return nil, 0, fmt.Errorf("build list departments query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list departments failed: %w", err)
	}
	defer rows.Close()

	var depts []*Department
	var total int

	for rows.Next() {
		var dept Department
		if err := rows.Scan(&dept.ID, &dept.OrganizationID, &dept.Name, &dept.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan department failed: %w", err)
		}
		depts = append(depts, &dept)
	}

	return depts, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, dept *Department) error {
	const query = `
		UPDATE public.departments
		SET name = $1
		WHERE id = $2
	`
	ct, err := r.pool.Exec(ctx, query, dept.Name, dept.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrNameTaken
		}
		return fmt.Errorf("update department failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM public.departments WHERE id = $1`
	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete department failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
