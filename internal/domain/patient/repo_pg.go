package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hemotrack/hemotrack/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const patientCols = `id, public_id, name, age, gender, blood_group, diagnosis, treatment_type,
	transfusion_interval_days, proposed_interval_days, last_transfusion_date, risk_level,
	contact_number, address, emergency_contact, notes, medical_history, created_at, updated_at`

func (r *repoPG) scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.PublicID, &p.Name, &p.Age, &p.Gender, &p.BloodGroup, &p.Diagnosis,
		&p.TreatmentType, &p.TransfusionIntervalDays, &p.ProposedIntervalDays,
		&p.LastTransfusionDate, &p.RiskLevel, &p.ContactNumber, &p.Address, &p.EmergencyContact,
		&p.Notes, &p.MedicalHistory, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	if p.PublicID == "" {
		var n int
		if err := r.conn(ctx).QueryRow(ctx, `SELECT nextval('patient_public_seq')`).Scan(&n); err != nil {
			return fmt.Errorf("next patient public id: %w", err)
		}
		p.PublicID = fmt.Sprintf("TH%03d", n)
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient (id, public_id, name, age, gender, blood_group, diagnosis, treatment_type,
			transfusion_interval_days, last_transfusion_date, risk_level, contact_number, address,
			emergency_contact, notes, medical_history)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		p.ID, p.PublicID, p.Name, p.Age, p.Gender, p.BloodGroup, p.Diagnosis, p.TreatmentType,
		p.TransfusionIntervalDays, p.LastTransfusionDate, p.RiskLevel, p.ContactNumber, p.Address,
		p.EmergencyContact, p.Notes, p.MedicalHistory)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return r.scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE id = $1`, id))
}

func (r *repoPG) GetByPublicID(ctx context.Context, publicID string) (*Patient, error) {
	return r.scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE public_id = $1`, publicID))
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient SET transfusion_interval_days=$2, proposed_interval_days=$3,
			last_transfusion_date=$4, risk_level=$5, treatment_type=$6, contact_number=$7,
			address=$8, emergency_contact=$9, notes=$10, medical_history=$11, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.TransfusionIntervalDays, p.ProposedIntervalDays, p.LastTransfusionDate, p.RiskLevel,
		p.TreatmentType, p.ContactNumber, p.Address, p.EmergencyContact, p.Notes, p.MedicalHistory)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPatientNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patient`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+patientCols+` FROM patient ORDER BY public_id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := r.scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *repoPG) AddIntervalChange(ctx context.Context, ch *IntervalChange) error {
	ch.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO interval_change (id, patient_id, from_days, to_days, note)
		VALUES ($1,$2,$3,$4,$5)`,
		ch.ID, ch.PatientID, ch.FromDays, ch.ToDays, ch.Note)
	return err
}

func (r *repoPG) ListIntervalChanges(ctx context.Context, patientID uuid.UUID) ([]*IntervalChange, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, patient_id, from_days, to_days, note, changed_at
		FROM interval_change WHERE patient_id = $1 ORDER BY changed_at`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*IntervalChange
	for rows.Next() {
		var ch IntervalChange
		if err := rows.Scan(&ch.ID, &ch.PatientID, &ch.FromDays, &ch.ToDays, &ch.Note, &ch.ChangedAt); err != nil {
			return nil, err
		}
		items = append(items, &ch)
	}
	return items, rows.Err()
}
