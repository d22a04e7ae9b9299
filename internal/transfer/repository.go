package transfer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, t *TransferRequest) error
	GetByID(ctx context.Context, id string) (*TransferRequest, error)

	// FindPending returns the requester's pending request for the asset,
	// or ErrNotFound when there is none.
	FindPending(ctx context.Context, assetID, requesterID string) (*TransferRequest, error)

	List(ctx context.Context, filter Filter) ([]*TransferRequest, int, error)

	// UpdateStatus atomically moves the request from the expected status to
	// next. It reports false when the stored status no longer matches.
	UpdateStatus(ctx context.Context, id string, expected, next Status, resolvedBy *string, resolvedAt *time.Time) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const transferColumns = `
	id, asset_id, requester_id, organization_id, from_department, to_department,
	status, note, resolved_by, resolved_at, created_at, updated_at
`

func scanTransfer(row pgx.Row) (*TransferRequest, error) {
	var t TransferRequest
	err := row.Scan(
		&t.ID, &t.AssetID, &t.RequesterID, &t.OrganizationID, &t.FromDepartment, &t.ToDepartment,
		&t.Status, &t.Note, &t.ResolvedBy, &t.ResolvedAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *pgxRepository) Create(ctx context.Context, t *TransferRequest) error {
	const query = `
		INSERT INTO public.transfer_requests
			(asset_id, requester_id, organization_id, from_department, to_department, status, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		t.AssetID, t.RequesterID, t.OrganizationID, t.FromDepartment, t.ToDepartment, t.Status, t.Note,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrDuplicatePending
		}
		return fmt.Errorf("create transfer request failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*TransferRequest, error) {
	query := `SELECT ` + transferColumns + ` FROM public.transfer_requests WHERE id = $1`

	t, err := scanTransfer(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get transfer request failed: %w", err)
	}
	return t, nil
}

func (r *pgxRepository) FindPending(ctx context.Context, assetID, requesterID string) (*TransferRequest, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM public.transfer_requests
		WHERE asset_id = $1 AND requester_id = $2 AND status = 'pending'
	`
	t, err := scanTransfer(r.pool.QueryRow(ctx, query, assetID, requesterID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find pending transfer request failed: %w", err)
	}
	return t, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*TransferRequest, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "asset_id", "requester_id", "organization_id", "from_department", "to_department",
		"status", "note", "resolved_by", "resolved_at", "created_at", "updated_at",
		"count(*) OVER() as total_count",
	).
		From("public.transfer_requests").
		OrderBy("created_at DESC")

	if filter.OrganizationID != "" {
		query = query.Where(squirrel.Eq{"organization_id": filter.OrganizationID})
	}
	if filter.AssetID != "" {
		query = query.Where(squirrel.Eq{"asset_id": filter.AssetID})
	}
	if filter.RequesterID != "" {
		query = query.Where(squirrel.Eq{"requester_id": filter.RequesterID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
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
		return nil, 0, fmt.Errorf("build list transfer requests query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transfer requests failed: %w", err)
	}
	defer rows.Close()

	var requests []*TransferRequest
	var total int

	for rows.Next() {
		var t TransferRequest
		if err := rows.Scan(
			&t.ID, &t.AssetID, &t.RequesterID, &t.OrganizationID, &t.FromDepartment, &t.ToDepartment,
			&t.Status, &t.Note, &t.ResolvedBy, &t.ResolvedAt, &t.CreatedAt, &t.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan transfer request failed: %w", err)
		}
		requests = append(requests, &t)
	}

	return requests, total, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, expected, next Status, resolvedBy *string, resolvedAt *time.Time) (bool, error) {
	const query = `
		UPDATE public.transfer_requests
		SET status = $3, resolved_by = COALESCE($4, resolved_by), resolved_at = COALESCE($5, resolved_at), updated_at = now()
		WHERE id = $1 AND status = $2
	`
	ct, err := r.pool.Exec(ctx, query, id, expected, next, resolvedBy, resolvedAt)
	if err != nil {
		return false, fmt.Errorf("update transfer request status failed: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}
