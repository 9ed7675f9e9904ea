package patient

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
)

type mockPatientRepo struct {
	patients map[uuid.UUID]*Patient
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockPatientRepo) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, fmt.Errorf("patient not found")
	}
	return p, nil
}

func (m *mockPatientRepo) Update(ctx context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return fmt.Errorf("patient not found")
	}
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.patients, id)
	return nil
}

func (m *mockPatientRepo) List(ctx context.Context, search string, limit, offset int) ([]*Patient, int, error) {
	var out []*Patient
	for _, p := range m.patients {
		if search == "" || strings.Contains(strings.ToLower(p.LastName), strings.ToLower(search)) {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

type mockRecordRepo struct {
	records map[uuid.UUID]*ClinicalRecord
}

func newMockRecordRepo() *mockRecordRepo {
	return &mockRecordRepo{records: make(map[uuid.UUID]*ClinicalRecord)}
}

func (m *mockRecordRepo) Create(ctx context.Context, rec *ClinicalRecord) error {
	rec.ID = uuid.New()
	m.records[rec.ID] = rec
	return nil
}

func (m *mockRecordRepo) GetByID(ctx context.Context, id uuid.UUID) (*ClinicalRecord, error) {
	rec, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("record not found")
	}
	return rec, nil
}

func (m *mockRecordRepo) Update(ctx context.Context, rec *ClinicalRecord) error {
	if _, ok := m.records[rec.ID]; !ok {
		return fmt.Errorf("record not found")
	}
	m.records[rec.ID] = rec
	return nil
}

func (m *mockRecordRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.records, id)
	return nil
}

func (m *mockRecordRepo) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*ClinicalRecord, int, error) {
	var out []*ClinicalRecord
	for _, rec := range m.records {
		if rec.PatientID == patientID {
			out = append(out, rec)
		}
	}
	return out, len(out), nil
}

func newTestService() (*Service, *mockPatientRepo, *mockRecordRepo) {
	patients := newMockPatientRepo()
	records := newMockRecordRepo()
	return NewService(patients, records), patients, records
}

func TestCreatePatientValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if err := svc.CreatePatient(ctx, &Patient{FirstName: "Ada"}); err == nil {
		t.Error("missing last name should fail")
	}
	if err := svc.CreatePatient(ctx, &Patient{LastName: "Lovelace"}); err == nil {
		t.Error("missing first name should fail")
	}
	p := &Patient{FirstName: "Ada", LastName: "Lovelace"}
	if err := svc.CreatePatient(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("id not assigned")
	}
}

func TestCreateRecordDefaults(t *testing.T) {
	svc, patients, _ := newTestService()
	ctx := context.Background()

	p := &Patient{FirstName: "Ada", LastName: "Lovelace"}
	if err := patients.Create(ctx, p); err != nil {
		t.Fatal(err)
	}

	rec := &ClinicalRecord{PatientID: p.ID, Title: "Initial consult"}
	if err := svc.CreateRecord(ctx, rec); err != nil {
		t.Fatalf("create record: %v", err)
	}
	if rec.RecordType != "note" {
		t.Errorf("record type = %q, want default note", rec.RecordType)
	}
	if rec.RecordedAt.IsZero() {
		t.Error("recorded_at not defaulted")
	}
}

func TestCreateRecordValidation(t *testing.T) {
	svc, patients, _ := newTestService()
	ctx := context.Background()

	p := &Patient{FirstName: "Ada", LastName: "Lovelace"}
	if err := patients.Create(ctx, p); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		rec  *ClinicalRecord
	}{
		{"missing patient", &ClinicalRecord{Title: "x"}},
		{"missing title", &ClinicalRecord{PatientID: p.ID}},
		{"bad type", &ClinicalRecord{PatientID: p.ID, Title: "x", RecordType: "gossip"}},
		{"unknown patient", &ClinicalRecord{PatientID: uuid.New(), Title: "x"}},
	}
	for _, tc := range cases {
		if err := svc.CreateRecord(ctx, tc.rec); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestUpdatePatientRequiresExisting(t *testing.T) {
	svc, _, _ := newTestService()
	err := svc.UpdatePatient(context.Background(), &Patient{
		ID: uuid.New(), FirstName: "Ada", LastName: "Lovelace",
	})
	if err == nil {
		t.Error("updating a missing patient should fail")
	}
}

func TestListRecordsByPatient(t *testing.T) {
	svc, patients, records := newTestService()
	ctx := context.Background()

	p := &Patient{FirstName: "Ada", LastName: "Lovelace"}
	if err := patients.Create(ctx, p); err != nil {
		t.Fatal(err)
	}
	other := &Patient{FirstName: "Grace", LastName: "Hopper"}
	if err := patients.Create(ctx, other); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := records.Create(ctx, &ClinicalRecord{PatientID: p.ID, Title: "r", RecordType: "note"}); err != nil {
			t.Fatal(err)
		}
	}
	if err := records.Create(ctx, &ClinicalRecord{PatientID: other.ID, Title: "r", RecordType: "note"}); err != nil {
		t.Fatal(err)
	}

	got, total, err := svc.ListRecords(ctx, p.ID, 20, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 || total != 3 {
		t.Errorf("got %d records (total %d), want 3", len(got), total)
	}
}
