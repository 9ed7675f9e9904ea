package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	invoices InvoiceRepository
}

func NewService(invoices InvoiceRepository) *Service {
	return &Service{invoices: invoices}
}

var validInvoiceStatuses = map[string]bool{
	"draft": true, "issued": true, "paid": true, "cancelled": true,
}

func (s *Service) CreateInvoice(ctx context.Context, inv *Invoice) error {
	if inv.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if inv.Number == "" {
		return fmt.Errorf("number is required")
	}
	if inv.Status == "" {
		inv.Status = "draft"
	}
	if !validInvoiceStatuses[inv.Status] {
		return fmt.Errorf("invalid invoice status: %s", inv.Status)
	}
	if inv.Currency == "" {
		inv.Currency = "EUR"
	}
	return s.invoices.Create(ctx, inv)
}

func (s *Service) GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.invoices.GetByID(ctx, id)
}

func (s *Service) UpdateInvoice(ctx context.Context, inv *Invoice) error {
	if inv.Status != "" && !validInvoiceStatuses[inv.Status] {
		return fmt.Errorf("invalid invoice status: %s", inv.Status)
	}
	return s.invoices.Update(ctx, inv)
}

func (s *Service) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if inv.Status == "paid" {
		return fmt.Errorf("paid invoices cannot be deleted")
	}
	return s.invoices.Delete(ctx, id)
}

func (s *Service) ListInvoices(ctx context.Context, status string, limit, offset int) ([]*Invoice, int, error) {
	if status != "" && !validInvoiceStatuses[status] {
		return nil, 0, fmt.Errorf("invalid invoice status: %s", status)
	}
	return s.invoices.List(ctx, status, limit, offset)
}

func (s *Service) ListInvoicesByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Invoice, int, error) {
	return s.invoices.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) AddLine(ctx context.Context, line *InvoiceLine) error {
	if line.Description == "" {
		return fmt.Errorf("description is required")
	}
	if line.Quantity <= 0 {
		line.Quantity = 1
	}
	inv, err := s.invoices.GetByID(ctx, line.InvoiceID)
	if err != nil {
		return err
	}
	if inv.Status != "draft" {
		return fmt.Errorf("lines can only be added to draft invoices")
	}
	if err := s.invoices.AddLine(ctx, line); err != nil {
		return err
	}
	inv.TotalAmount += float64(line.Quantity) * line.UnitPrice
	return s.invoices.Update(ctx, inv)
}

func (s *Service) GetLines(ctx context.Context, invoiceID uuid.UUID) ([]*InvoiceLine, error) {
	return s.invoices.GetLines(ctx, invoiceID)
}
