package billing

import (
	"time"

	"github.com/google/uuid"
)

// Invoice maps to the invoices table.
type Invoice struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Number      string     `db:"number" json:"number"`
	PatientID   uuid.UUID  `db:"patient_id" json:"patient_id"`
	Status      string     `db:"status" json:"status"`
	IssuedAt    *time.Time `db:"issued_at" json:"issued_at,omitempty"`
	DueAt       *time.Time `db:"due_at" json:"due_at,omitempty"`
	TotalAmount float64    `db:"total_amount" json:"total_amount"`
	Currency    string     `db:"currency" json:"currency"`
	Notes       *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// InvoiceLine maps to the invoice_lines table.
type InvoiceLine struct {
	ID          uuid.UUID `db:"id" json:"id"`
	InvoiceID   uuid.UUID `db:"invoice_id" json:"invoice_id"`
	Description string    `db:"description" json:"description"`
	Quantity    int       `db:"quantity" json:"quantity"`
	UnitPrice   float64   `db:"unit_price" json:"unit_price"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
