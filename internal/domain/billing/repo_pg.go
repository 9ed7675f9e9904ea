package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type invoiceRepoPG struct{ pool *pgxpool.Pool }

func NewInvoiceRepoPG(pool *pgxpool.Pool) InvoiceRepository { return &invoiceRepoPG{pool: pool} }

const invoiceCols = `id, number, patient_id, status, issued_at, due_at, total_amount, currency, notes, created_at, updated_at`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(&inv.ID, &inv.Number, &inv.PatientID, &inv.Status, &inv.IssuedAt,
		&inv.DueAt, &inv.TotalAmount, &inv.Currency, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt)
	return &inv, err
}

func (r *invoiceRepoPG) Create(ctx context.Context, inv *Invoice) error {
	inv.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO invoices (id, number, patient_id, status, issued_at, due_at, total_amount, currency, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at`,
		inv.ID, inv.Number, inv.PatientID, inv.Status, inv.IssuedAt, inv.DueAt,
		inv.TotalAmount, inv.Currency, inv.Notes,
	).Scan(&inv.CreatedAt, &inv.UpdatedAt)
}

func (r *invoiceRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return scanInvoice(r.pool.QueryRow(ctx, `SELECT `+invoiceCols+` FROM invoices WHERE id = $1`, id))
}

func (r *invoiceRepoPG) Update(ctx context.Context, inv *Invoice) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE invoices SET status=$2, issued_at=$3, due_at=$4, total_amount=$5, currency=$6, notes=$7, updated_at=NOW()
		WHERE id = $1`,
		inv.ID, inv.Status, inv.IssuedAt, inv.DueAt, inv.TotalAmount, inv.Currency, inv.Notes)
	return err
}

func (r *invoiceRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	return err
}

func (r *invoiceRepoPG) List(ctx context.Context, status string, limit, offset int) ([]*Invoice, int, error) {
	where := ``
	args := []interface{}{limit, offset}
	countArgs := []interface{}{}
	if status != "" {
		where = ` WHERE status = $3`
		args = append(args, status)
		countArgs = append(countArgs, status)
	}

	countWhere := ``
	if status != "" {
		countWhere = ` WHERE status = $1`
	}
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`+countWhere, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+invoiceCols+` FROM invoices`+where+`
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var invoices []*Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, total, rows.Err()
}

func (r *invoiceRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Invoice, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM invoices WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+invoiceCols+` FROM invoices
		WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var invoices []*Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, total, rows.Err()
}

func (r *invoiceRepoPG) AddLine(ctx context.Context, line *InvoiceLine) error {
	line.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO invoice_lines (id, invoice_id, description, quantity, unit_price)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at`,
		line.ID, line.InvoiceID, line.Description, line.Quantity, line.UnitPrice,
	).Scan(&line.CreatedAt)
}

func (r *invoiceRepoPG) GetLines(ctx context.Context, invoiceID uuid.UUID) ([]*InvoiceLine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, invoice_id, description, quantity, unit_price, created_at
		FROM invoice_lines WHERE invoice_id = $1 ORDER BY created_at`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []*InvoiceLine
	for rows.Next() {
		var line InvoiceLine
		if err := rows.Scan(&line.ID, &line.InvoiceID, &line.Description, &line.Quantity,
			&line.UnitPrice, &line.CreatedAt); err != nil {
			return nil, err
		}
		lines = append(lines, &line)
	}
	return lines, rows.Err()
}
