package worktracking

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("work record not found")
	ErrBilled   = errors.New("work record already billed")
)

type Repository interface {
	Get(ctx context.Context, id int64) (*WorkRecord, error)
	List(ctx context.Context, req ListWorkRecordsRequest) ([]WorkRecord, int, error)
	Create(ctx context.Context, record WorkRecord) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	MarkBilled(ctx context.Context, ids []int64, invoiceID int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const workColumns = `w.id, w.client_id, c.name, w.description, w.hours,
	w.hourly_rate, w.date, w.invoice_id, w.created_at, w.updated_at`

func (r *repository) Get(ctx context.Context, id int64) (*WorkRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM work_records w
		JOIN clients c ON c.id = w.client_id
		WHERE w.id = $1
	`, workColumns)

	var rec WorkRecord
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.ClientID, &rec.ClientName, &rec.Description, &rec.Hours,
		&rec.HourlyRate, &rec.Date, &rec.InvoiceID, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *repository) List(ctx context.Context, req ListWorkRecordsRequest) ([]WorkRecord, int, error) {
	where := "WHERE 1=1"
	var args []any
	if req.ClientID != nil {
		args = append(args, *req.ClientID)
		where += fmt.Sprintf(" AND w.client_id = $%d", len(args))
	}
	if req.Unbilled {
		where += " AND w.invoice_id IS NULL"
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM work_records w " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM work_records w
		JOIN clients c ON c.id = w.client_id
		%s
		ORDER BY w.date DESC, w.id DESC
		LIMIT $%d OFFSET $%d
	`, workColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []WorkRecord
	for rows.Next() {
		var rec WorkRecord
		if err := rows.Scan(
			&rec.ID, &rec.ClientID, &rec.ClientName, &rec.Description, &rec.Hours,
			&rec.HourlyRate, &rec.Date, &rec.InvoiceID, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		list = append(list, rec)
	}
	return list, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, record WorkRecord) (int64, error) {
	const query = `
		INSERT INTO work_records (client_id, description, hours, hourly_rate, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id
	`
	var id int64
	err := r.pool.QueryRow(ctx, query,
		record.ClientID, record.Description, record.Hours, record.HourlyRate, record.Date,
	).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	query := "UPDATE work_records SET updated_at = NOW()"
	var args []any
	argPos := 1

	for _, col := range []string{"description", "hours", "hourly_rate", "date"} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}

	query += fmt.Sprintf(" WHERE id = $%d AND invoice_id IS NULL", argPos)
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.notFoundOrBilled(ctx, id)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM work_records WHERE id = $1 AND invoice_id IS NULL", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.notFoundOrBilled(ctx, id)
	}
	return nil
}

func (r *repository) MarkBilled(ctx context.Context, ids []int64, invoiceID int64) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE work_records SET invoice_id = $1, updated_at = NOW() WHERE id = ANY($2) AND invoice_id IS NULL",
		invoiceID, ids,
	)
	if err != nil {
		return err
	}
	if int(tag.RowsAffected()) != len(ids) {
		return ErrBilled
	}
	return nil
}

// notFoundOrBilled disambiguates a zero-row update: the record either does
// not exist or is locked behind an invoice.
func (r *repository) notFoundOrBilled(ctx context.Context, id int64) error {
	var billed bool
	err := r.pool.QueryRow(ctx,
		"SELECT invoice_id IS NOT NULL FROM work_records WHERE id = $1", id,
	).Scan(&billed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if billed {
		return ErrBilled
	}
	return ErrNotFound
}
