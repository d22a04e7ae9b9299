package reservation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StateChange carries the optional return artifacts written alongside a
// composite-state update. Nil fields are left untouched.
type StateChange struct {
	ReturnNote        *string
	ReturnCondition   *Condition
	ReturnSubmittedAt *time.Time
	VerifiedBy        *string
	VerifiedAt        *time.Time
}

type Repository interface {
	// CreateBatch inserts all reservations in one transaction. If the
	// store's no-overlap constraint rejects any row, the whole batch rolls
	// back and the returned error is a *ConflictError for that row.
	CreateBatch(ctx context.Context, reservations []*Reservation) error

	// FindOverlap returns the first reservation on the resource whose
	// inclusive day range touches [start, end] and whose status is in
	// statuses, or nil when the range is free.
	FindOverlap(ctx context.Context, resourceID string, start, end time.Time, statuses []Status) (*Reservation, error)

	GetByID(ctx context.Context, id string) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)

	// UpdateState atomically moves the reservation from the expected
	// composite state to the next one. It reports false when the stored
	// state no longer matches expected (or the row is gone), without error.
	UpdateState(ctx context.Context, id string, expected, next State, change StateChange) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const reservationColumns = `
	id, resource_id, borrower_id, organization_id, start_date, end_date,
	status, note, recurrence, parent_id,
	return_status, return_note, return_condition, return_submitted_at,
	verified_by, verified_at, created_at, updated_at
`

func scanReservation(row pgx.Row) (*Reservation, error) {
	var r Reservation
	var recurrence []byte
	err := row.Scan(
		&r.ID, &r.ResourceID, &r.BorrowerID, &r.OrganizationID, &r.StartDate, &r.EndDate,
		&r.Status, &r.Note, &recurrence, &r.ParentID,
		&r.ReturnStatus, &r.ReturnNote, &r.ReturnCondition, &r.ReturnSubmittedAt,
		&r.VerifiedBy, &r.VerifiedAt, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(recurrence) > 0 {
		if err := json.Unmarshal(recurrence, &r.Recurrence); err != nil {
			return nil, fmt.Errorf("unmarshal recurrence rule failed: %w", err)
		}
	}
	return &r, nil
}

func (r *pgxRepository) CreateBatch(ctx context.Context, reservations []*Reservation) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create reservations failed: %w", err)
	}
	defer tx.Rollback(ctx)

	const query = `
		INSERT INTO public.reservations
			(id, resource_id, borrower_id, organization_id, start_date, end_date, status, note, recurrence, parent_id, return_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, CAST($9 AS jsonb), $10, $11)
		RETURNING created_at, updated_at
	`

	for i, res := range reservations {
		var rule []byte
		if res.Recurrence != nil {
			rule, err = json.Marshal(res.Recurrence)
			if err != nil {
				return fmt.Errorf("marshal recurrence rule failed: %w", err)
			}
		}

		err := tx.QueryRow(ctx, query,
			res.ID, res.ResourceID, res.BorrowerID, res.OrganizationID,
			res.StartDate, res.EndDate, res.Status, res.Note, rule, res.ParentID, res.ReturnStatus,
		).Scan(&res.CreatedAt, &res.UpdatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ExclusionViolation {
				// A racing insert claimed the range first. Surface it the
				// same way a checker-detected conflict is surfaced.
				return &ConflictError{
					Index: i,
					Start: res.StartDate,
					End:   res.EndDate,
				}
			}
			return fmt.Errorf("create reservation failed: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create reservations failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) FindOverlap(ctx context.Context, resourceID string, start, end time.Time, statuses []Status) (*Reservation, error) {
	// Overlap is checked at day granularity with inclusive boundaries,
	// matching how the calendar disables whole days. Timestamps are
	// normalized to UTC calendar days so the check agrees with the
	// no-overlap exclusion constraint on any server timezone.
	query := `
		SELECT ` + reservationColumns + `
		FROM public.reservations
		WHERE resource_id = $1
		  AND status = ANY($2)
		  AND (start_date AT TIME ZONE 'UTC')::date <= ($4::timestamptz AT TIME ZONE 'UTC')::date
		  AND (end_date AT TIME ZONE 'UTC')::date >= ($3::timestamptz AT TIME ZONE 'UTC')::date
		ORDER BY start_date ASC
		LIMIT 1
	`
	strs := make([]string, len(statuses))
	for i, s := range statuses {
		strs[i] = string(s)
	}

	res, err := scanReservation(r.pool.QueryRow(ctx, query, resourceID, strs, start, end))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find overlapping reservation failed: %w", err)
	}
	return res, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM public.reservations WHERE id = $1`

	res, err := scanReservation(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get reservation failed: %w", err)
	}
	return res, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "resource_id", "borrower_id", "organization_id", "start_date", "end_date",
		"status", "note", "recurrence", "parent_id",
		"return_status", "return_note", "return_condition", "return_submitted_at",
		"verified_by", "verified_at", "created_at", "updated_at",
		"count(*) OVER() as total_count",
	).
		From("public.reservations").
		OrderBy("start_date DESC")

	if filter.OrganizationID != "" {
		query = query.Where(squirrel.Eq{"organization_id": filter.OrganizationID})
	}
	if filter.ResourceID != "" {
		query = query.Where(squirrel.Eq{"resource_id": filter.ResourceID})
	}
	if filter.BorrowerID != "" {
		query = query.Where(squirrel.Eq{"borrower_id": filter.BorrowerID})
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
		return nil, 0, fmt.Errorf("build list reservations query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations failed: %w", err)
	}
	defer rows.Close()

	var reservations []*Reservation
	var total int

	for rows.Next() {
		var res Reservation
		var recurrence []byte
		if err := rows.Scan(
			&res.ID, &res.ResourceID, &res.BorrowerID, &res.OrganizationID, &res.StartDate, &res.EndDate,
			&res.Status, &res.Note, &recurrence, &res.ParentID,
			&res.ReturnStatus, &res.ReturnNote, &res.ReturnCondition, &res.ReturnSubmittedAt,
			&res.VerifiedBy, &res.VerifiedAt, &res.CreatedAt, &res.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan reservation failed: %w", err)
		}
		if len(recurrence) > 0 {
			if err := json.Unmarshal(recurrence, &res.Recurrence); err != nil {
				return nil, 0, fmt.Errorf("unmarshal recurrence rule failed: %w", err)
			}
		}
		reservations = append(reservations, &res)
	}

	return reservations, total, nil
}

func (r *pgxRepository) UpdateState(ctx context.Context, id string, expected, next State, change StateChange) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Update("public.reservations").
		Set("status", string(next.Status)).
		Set("return_status", string(next.Return)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{
			"id":            id,
			"status":        string(expected.Status),
			"return_status": string(expected.Return),
		})

	if change.ReturnNote != nil {
		query = query.Set("return_note", *change.ReturnNote)
	}
	if change.ReturnCondition != nil {
		query = query.Set("return_condition", string(*change.ReturnCondition))
	}
	if change.ReturnSubmittedAt != nil {
		query = query.Set("return_submitted_at", *change.ReturnSubmittedAt)
	}
	if change.VerifiedBy != nil {
		query = query.Set("verified_by", *change.VerifiedBy)
	}
	if change.VerifiedAt != nil {
		query = query.Set("verified_at", *change.VerifiedAt)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("build update reservation state query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("update reservation state failed: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}
