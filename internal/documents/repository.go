package documents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atelier-erp/atelier-erp/internal/platform/db"
)

// Repository provides PostgreSQL backed persistence for documents.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*Document, error)
	GetRef(ctx context.Context, id int64) (*SourceRef, error)
	List(ctx context.Context, req ListDocumentsRequest) ([]DocumentSummary, int, error)
	Create(ctx context.Context, doc Document) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	InsertLine(ctx context.Context, line DocumentLine) (int64, error)
	DeleteLines(ctx context.Context, documentID int64) error
	ReplaceSources(ctx context.Context, documentID int64, sourceIDs []int64) error
	SoftDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
	HardDelete(ctx context.Context, id int64) error
	PurgeTrashedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	GenerateNumber(ctx context.Context, kind DocumentKind, date time.Time) (string, error)
}

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type repository struct {
	q    dbtx
	pool *pgxpool.Pool
}

// NewRepository constructs a repository over a pgx pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{q: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{q: tx, pool: r.pool})
	})
}

const documentColumns = `d.id, d.kind, d.number, d.client_id, d.date,
	d.tax_rate_percent, d.fodec_applicable, d.stamp_amount, d.notes,
	d.total_ht, d.total_fodec, d.total_htva, d.total_tva, d.total_ttc,
	d.created_at, d.updated_at, d.deleted_at`

func (r *repository) Get(ctx context.Context, id int64) (*Document, error) {
	query := fmt.Sprintf(`
		SELECT %s, c.name
		FROM documents d
		JOIN clients c ON c.id = d.client_id
		WHERE d.id = $1
	`, documentColumns)

	var doc Document
	err := r.q.QueryRow(ctx, query, id).Scan(
		&doc.ID, &doc.Kind, &doc.Number, &doc.ClientID, &doc.Date,
		&doc.TaxRatePercent, &doc.FodecApplicable, &doc.StampAmount, &doc.Notes,
		&doc.Totals.TotalHT, &doc.Totals.TotalFodec, &doc.Totals.TotalHTVA,
		&doc.Totals.TotalTVA, &doc.Totals.TotalTTC,
		&doc.CreatedAt, &doc.UpdatedAt, &doc.DeletedAt,
		&doc.ClientName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if doc.Lines, err = r.getLines(ctx, id); err != nil {
		return nil, err
	}
	if doc.SourceIDs, err = r.getSourceIDs(ctx, id); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *repository) getLines(ctx context.Context, documentID int64) ([]DocumentLine, error) {
	const query = `
		SELECT id, document_id, product_id, product_name, quantity,
		       unit_price, discount_percent, source_document_id, line_order
		FROM document_lines
		WHERE document_id = $1
		ORDER BY line_order, id
	`
	rows, err := r.q.Query(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []DocumentLine
	for rows.Next() {
		var l DocumentLine
		if err := rows.Scan(
			&l.ID, &l.DocumentID, &l.ProductID, &l.ProductName, &l.Quantity,
			&l.UnitPrice, &l.DiscountPercent, &l.SourceDocumentID, &l.LineOrder,
		); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *repository) getSourceIDs(ctx context.Context, documentID int64) ([]int64, error) {
	const query = `SELECT source_id FROM document_links WHERE document_id = $1 ORDER BY source_id`
	rows, err := r.q.Query(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *repository) GetRef(ctx context.Context, id int64) (*SourceRef, error) {
	const query = `
		SELECT d.id, d.number, c.name, d.date, d.total_ttc
		FROM documents d
		JOIN clients c ON c.id = d.client_id
		WHERE d.id = $1 AND d.deleted_at IS NULL
	`
	var ref SourceRef
	err := r.q.QueryRow(ctx, query, id).Scan(&ref.ID, &ref.Number, &ref.ClientName, &ref.Date, &ref.TotalTTC)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ref, nil
}

func (r *repository) List(ctx context.Context, req ListDocumentsRequest) ([]DocumentSummary, int, error) {
	var conditions []string
	var args []any
	argPos := 1

	if req.Trashed {
		conditions = append(conditions, "d.deleted_at IS NOT NULL")
	} else {
		conditions = append(conditions, "d.deleted_at IS NULL")
	}
	if req.Kind != nil {
		conditions = append(conditions, fmt.Sprintf("d.kind = $%d", argPos))
		args = append(args, *req.Kind)
		argPos++
	}
	if req.ClientID != nil {
		conditions = append(conditions, fmt.Sprintf("d.client_id = $%d", argPos))
		args = append(args, *req.ClientID)
		argPos++
	}
	if req.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("d.date >= $%d", argPos))
		args = append(args, *req.DateFrom)
		argPos++
	}
	if req.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("d.date <= $%d", argPos))
		args = append(args, *req.DateTo)
		argPos++
	}
	if req.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(d.number ILIKE $%d OR c.name ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+req.Search+"%")
		argPos++
	}

	whereClause := "WHERE " + conditions[0]
	for i := 1; i < len(conditions); i++ {
		whereClause += " AND " + conditions[i]
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM documents d JOIN clients c ON c.id = d.client_id %s", whereClause)
	var total int
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`
		SELECT d.id, d.kind, d.number, d.client_id, c.name, d.date, d.total_ttc, d.deleted_at
		FROM documents d
		JOIN clients c ON c.id = d.client_id
		%s
		ORDER BY d.date DESC, d.id DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)
	args = append(args, limit, req.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var docs []DocumentSummary
	for rows.Next() {
		var s DocumentSummary
		if err := rows.Scan(&s.ID, &s.Kind, &s.Number, &s.ClientID, &s.ClientName, &s.Date, &s.TotalTTC, &s.DeletedAt); err != nil {
			return nil, 0, err
		}
		docs = append(docs, s)
	}
	return docs, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, doc Document) (int64, error) {
	const query = `
		INSERT INTO documents (
			kind, number, client_id, date, tax_rate_percent, fodec_applicable,
			stamp_amount, notes, total_ht, total_fodec, total_htva, total_tva,
			total_ttc, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,NOW(),NOW())
		RETURNING id
	`
	var id int64
	err := r.q.QueryRow(ctx, query,
		doc.Kind, doc.Number, doc.ClientID, doc.Date, doc.TaxRatePercent,
		doc.FodecApplicable, doc.StampAmount, doc.Notes,
		doc.Totals.TotalHT, doc.Totals.TotalFodec, doc.Totals.TotalHTVA,
		doc.Totals.TotalTVA, doc.Totals.TotalTTC,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	query := "UPDATE documents SET updated_at = NOW()"
	var args []any
	argPos := 1

	for _, col := range []string{
		"date", "tax_rate_percent", "fodec_applicable", "stamp_amount", "notes",
		"total_ht", "total_fodec", "total_htva", "total_tva", "total_ttc",
	} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}

	query += fmt.Sprintf(" WHERE id = $%d AND deleted_at IS NULL", argPos)
	args = append(args, id)

	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) InsertLine(ctx context.Context, line DocumentLine) (int64, error) {
	const query = `
		INSERT INTO document_lines (
			document_id, product_id, product_name, quantity, unit_price,
			discount_percent, source_document_id, line_order
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id
	`
	var id int64
	err := r.q.QueryRow(ctx, query,
		line.DocumentID, line.ProductID, line.ProductName, line.Quantity,
		line.UnitPrice, line.DiscountPercent, line.SourceDocumentID, line.LineOrder,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) DeleteLines(ctx context.Context, documentID int64) error {
	_, err := r.q.Exec(ctx, "DELETE FROM document_lines WHERE document_id = $1", documentID)
	return err
}

func (r *repository) ReplaceSources(ctx context.Context, documentID int64, sourceIDs []int64) error {
	if _, err := r.q.Exec(ctx, "DELETE FROM document_links WHERE document_id = $1", documentID); err != nil {
		return err
	}
	for _, sourceID := range sourceIDs {
		if _, err := r.q.Exec(ctx,
			"INSERT INTO document_links (document_id, source_id) VALUES ($1, $2)",
			documentID, sourceID,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx,
		"UPDATE documents SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Restore(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx,
		"UPDATE documents SET deleted_at = NULL, updated_at = NOW() WHERE id = $1 AND deleted_at IS NOT NULL", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) HardDelete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, "DELETE FROM document_lines WHERE document_id = $1", id); err != nil {
		return err
	}
	if _, err := r.q.Exec(ctx, "DELETE FROM document_links WHERE document_id = $1 OR source_id = $1", id); err != nil {
		return err
	}
	tag, err := r.q.Exec(ctx, "DELETE FROM documents WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) PurgeTrashedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `
		WITH doomed AS (
			SELECT id FROM documents WHERE deleted_at IS NOT NULL AND deleted_at < $1
		),
		del_lines AS (
			DELETE FROM document_lines WHERE document_id IN (SELECT id FROM doomed)
		),
		del_links AS (
			DELETE FROM document_links
			WHERE document_id IN (SELECT id FROM doomed) OR source_id IN (SELECT id FROM doomed)
		)
		DELETE FROM documents WHERE id IN (SELECT id FROM doomed)
	`
	tag, err := r.q.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *repository) GenerateNumber(ctx context.Context, kind DocumentKind, date time.Time) (string, error) {
	// {PREFIX}-{YYMM}-{SEQ}, sequence restarts each month per kind
	stem := fmt.Sprintf("%s-%s-", numberPrefixes[kind], date.Format("0601"))
	var count int64
	err := r.q.QueryRow(ctx,
		"SELECT count(*) FROM documents WHERE kind = $1 AND number LIKE $2",
		kind, stem+"%",
	).Scan(&count)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", stem, count+1), nil
}
