package patient

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	patients PatientRepository
	records  ClinicalRecordRepository
}

func NewService(patients PatientRepository, records ClinicalRecordRepository) *Service {
	return &Service{patients: patients, records: records}
}

// -- Patients --

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if p.FirstName == "" || p.LastName == "" {
		return fmt.Errorf("first_name and last_name are required")
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	if p.FirstName == "" || p.LastName == "" {
		return fmt.Errorf("first_name and last_name are required")
	}
	if _, err := s.patients.GetByID(ctx, p.ID); err != nil {
		return err
	}
	return s.patients.Update(ctx, p)
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, search string, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, search, limit, offset)
}

// -- Clinical records --

var validRecordTypes = map[string]bool{
	"consultation": true, "diagnosis": true, "treatment": true,
	"prescription": true, "note": true,
}

func (s *Service) CreateRecord(ctx context.Context, rec *ClinicalRecord) error {
	if rec.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if rec.Title == "" {
		return fmt.Errorf("title is required")
	}
	if rec.RecordType == "" {
		rec.RecordType = "note"
	}
	if !validRecordTypes[rec.RecordType] {
		return fmt.Errorf("invalid record type: %s", rec.RecordType)
	}
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now().UTC()
	}
	// The patient must exist; a dangling record is never valid.
	if _, err := s.patients.GetByID(ctx, rec.PatientID); err != nil {
		return fmt.Errorf("patient %s: %w", rec.PatientID, err)
	}
	return s.records.Create(ctx, rec)
}

func (s *Service) GetRecord(ctx context.Context, id uuid.UUID) (*ClinicalRecord, error) {
	return s.records.GetByID(ctx, id)
}

func (s *Service) UpdateRecord(ctx context.Context, rec *ClinicalRecord) error {
	if rec.Title == "" {
		return fmt.Errorf("title is required")
	}
	if rec.RecordType != "" && !validRecordTypes[rec.RecordType] {
		return fmt.Errorf("invalid record type: %s", rec.RecordType)
	}
	return s.records.Update(ctx, rec)
}

func (s *Service) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	return s.records.Delete(ctx, id)
}

func (s *Service) ListRecords(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*ClinicalRecord, int, error) {
	return s.records.ListByPatient(ctx, patientID, limit, offset)
}
