package transfusion

import (
	"context"
	"errors"
	"fmt"
	"time"

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

// =========== Entry Repository ===========

type entryRepoPG struct{ pool *pgxpool.Pool }

func NewEntryRepoPG(pool *pgxpool.Pool) EntryRepository { return &entryRepoPG{pool: pool} }

func (r *entryRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const entryCols = `id, public_id, patient_id, scheduled_date, scheduled_time, status, plan, created_at, updated_at`

func (r *entryRepoPG) scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.PublicID, &e.PatientID, &e.ScheduledDate, &e.ScheduledTime,
		&e.Status, &e.Plan, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *entryRepoPG) Create(ctx context.Context, e *Entry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.PublicID == "" {
		var n int
		if err := r.conn(ctx).QueryRow(ctx, `SELECT nextval('entry_public_seq')`).Scan(&n); err != nil {
			return fmt.Errorf("next entry public id: %w", err)
		}
		e.PublicID = fmt.Sprintf("ST%03d", n)
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO scheduled_entry (id, public_id, patient_id, scheduled_date, scheduled_time, status, plan)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		e.ID, e.PublicID, e.PatientID, e.ScheduledDate, e.ScheduledTime, e.Status, e.Plan)
	return err
}

func (r *entryRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return r.scanEntry(r.conn(ctx).QueryRow(ctx, `SELECT `+entryCols+` FROM scheduled_entry WHERE id = $1`, id))
}

func (r *entryRepoPG) GetByPublicID(ctx context.Context, publicID string) (*Entry, error) {
	return r.scanEntry(r.conn(ctx).QueryRow(ctx, `SELECT `+entryCols+` FROM scheduled_entry WHERE public_id = $1`, publicID))
}

func (r *entryRepoPG) Update(ctx context.Context, e *Entry) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE scheduled_entry SET scheduled_date=$2, scheduled_time=$3, status=$4, plan=$5, updated_at=NOW()
		WHERE id = $1`,
		e.ID, e.ScheduledDate, e.ScheduledTime, e.Status, e.Plan)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (r *entryRepoPG) list(ctx context.Context, query string, args ...interface{}) ([]*Entry, error) {
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Entry
	for rows.Next() {
		e, err := r.scanEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (r *entryRepoPG) ListOpen(ctx context.Context) ([]*Entry, error) {
	return r.list(ctx, `SELECT `+entryCols+` FROM scheduled_entry
		WHERE status NOT IN ('completed','cancelled')
		ORDER BY scheduled_date, scheduled_time`)
}

func (r *entryRepoPG) ListBetween(ctx context.Context, from, to time.Time) ([]*Entry, error) {
	return r.list(ctx, `SELECT `+entryCols+` FROM scheduled_entry
		WHERE scheduled_date BETWEEN $1 AND $2
		ORDER BY scheduled_date, scheduled_time`, from, to)
}

func (r *entryRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Entry, error) {
	return r.list(ctx, `SELECT `+entryCols+` FROM scheduled_entry
		WHERE patient_id = $1 ORDER BY scheduled_date, scheduled_time`, patientID)
}

func (r *entryRepoPG) OpenByPatient(ctx context.Context, patientID uuid.UUID) (*Entry, error) {
	return r.scanEntry(r.conn(ctx).QueryRow(ctx, `SELECT `+entryCols+` FROM scheduled_entry
		WHERE patient_id = $1 AND status NOT IN ('completed','cancelled')
		ORDER BY scheduled_date LIMIT 1`, patientID))
}

// =========== Record Repository ===========

type recordRepoPG struct{ pool *pgxpool.Pool }

func NewRecordRepoPG(pool *pgxpool.Pool) RecordRepository { return &recordRepoPG{pool: pool} }

func (r *recordRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *recordRepoPG) Create(ctx context.Context, rec *Record) error {
	rec.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO transfusion_record (id, patient_id, entry_id, date, blood_type, volume_ml, reactions, notes, doctor_name)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		rec.ID, rec.PatientID, rec.EntryID, rec.Date, rec.BloodType, rec.VolumeML,
		rec.Reactions, rec.Notes, rec.DoctorName)
	return err
}

func (r *recordRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Record, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, patient_id, entry_id, date, blood_type, volume_ml, reactions, notes, doctor_name, created_at
		FROM transfusion_record WHERE patient_id = $1 ORDER BY date`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.PatientID, &rec.EntryID, &rec.Date, &rec.BloodType,
			&rec.VolumeML, &rec.Reactions, &rec.Notes, &rec.DoctorName, &rec.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &rec)
	}
	return items, rows.Err()
}
