package patient

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository { return &patientRepoPG{pool: pool} }

const patientCols = `id, first_name, last_name, birth_date, gender, email, phone, address, notes, created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.BirthDate, &p.Gender,
		&p.Email, &p.Phone, &p.Address, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO patients (id, first_name, last_name, birth_date, gender, email, phone, address, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at`,
		p.ID, p.FirstName, p.LastName, p.BirthDate, p.Gender, p.Email, p.Phone, p.Address, p.Notes,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx, `SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
}

func (r *patientRepoPG) Update(ctx context.Context, p *Patient) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE patients SET first_name=$2, last_name=$3, birth_date=$4, gender=$5,
			email=$6, phone=$7, address=$8, notes=$9, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.FirstName, p.LastName, p.BirthDate, p.Gender, p.Email, p.Phone, p.Address, p.Notes)
	return err
}

func (r *patientRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	return err
}

func (r *patientRepoPG) List(ctx context.Context, search string, limit, offset int) ([]*Patient, int, error) {
	where := ``
	args := []interface{}{limit, offset}
	if search != "" {
		where = ` WHERE first_name ILIKE '%' || $3 || '%' OR last_name ILIKE '%' || $3 || '%'`
		args = append(args, search)
	}

	var total int
	countArgs := args[2:]
	countWhere := where
	if search != "" {
		countWhere = ` WHERE first_name ILIKE '%' || $1 || '%' OR last_name ILIKE '%' || $1 || '%'`
	}
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patients`+countWhere, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+patientCols+` FROM patients`+where+`
		ORDER BY last_name, first_name LIMIT $1 OFFSET $2`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		patients = append(patients, p)
	}
	return patients, total, rows.Err()
}

type recordRepoPG struct{ pool *pgxpool.Pool }

func NewClinicalRecordRepoPG(pool *pgxpool.Pool) ClinicalRecordRepository {
	return &recordRepoPG{pool: pool}
}

const recordCols = `id, patient_id, record_type, title, content, author_id, recorded_at, created_at, updated_at`

func scanRecord(row pgx.Row) (*ClinicalRecord, error) {
	var rec ClinicalRecord
	err := row.Scan(&rec.ID, &rec.PatientID, &rec.RecordType, &rec.Title, &rec.Content,
		&rec.AuthorID, &rec.RecordedAt, &rec.CreatedAt, &rec.UpdatedAt)
	return &rec, err
}

func (r *recordRepoPG) Create(ctx context.Context, rec *ClinicalRecord) error {
	rec.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO clinical_records (id, patient_id, record_type, title, content, author_id, recorded_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		rec.ID, rec.PatientID, rec.RecordType, rec.Title, rec.Content, rec.AuthorID, rec.RecordedAt,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
}

func (r *recordRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*ClinicalRecord, error) {
	return scanRecord(r.pool.QueryRow(ctx, `SELECT `+recordCols+` FROM clinical_records WHERE id = $1`, id))
}

func (r *recordRepoPG) Update(ctx context.Context, rec *ClinicalRecord) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE clinical_records SET record_type=$2, title=$3, content=$4, recorded_at=$5, updated_at=NOW()
		WHERE id = $1`,
		rec.ID, rec.RecordType, rec.Title, rec.Content, rec.RecordedAt)
	return err
}

func (r *recordRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM clinical_records WHERE id = $1`, id)
	return err
}

func (r *recordRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*ClinicalRecord, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM clinical_records WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+recordCols+` FROM clinical_records
		WHERE patient_id = $1 ORDER BY recorded_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var records []*ClinicalRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}
	return records, total, rows.Err()
}
