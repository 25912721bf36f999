package chelation

import (
	"context"
	"errors"

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

const scheduleCols = `id, patient_id, total_days, daily_time, dose, start_date, status, created_at, updated_at`

func (r *repoPG) scanSchedule(row pgx.Row) (*Schedule, error) {
	var sch Schedule
	err := row.Scan(&sch.ID, &sch.PatientID, &sch.TotalDays, &sch.DailyTime, &sch.Dose,
		&sch.StartDate, &sch.Status, &sch.CreatedAt, &sch.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sch, nil
}

func (r *repoPG) Create(ctx context.Context, sch *Schedule) error {
	sch.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO chelation_schedule (id, patient_id, total_days, daily_time, dose, start_date, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		sch.ID, sch.PatientID, sch.TotalDays, sch.DailyTime, sch.Dose, sch.StartDate, sch.Status)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Schedule, error) {
	return r.scanSchedule(r.conn(ctx).QueryRow(ctx, `SELECT `+scheduleCols+` FROM chelation_schedule WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, sch *Schedule) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE chelation_schedule SET total_days=$2, daily_time=$3, dose=$4, status=$5, updated_at=NOW()
		WHERE id = $1`,
		sch.ID, sch.TotalDays, sch.DailyTime, sch.Dose, sch.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Schedule, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+scheduleCols+` FROM chelation_schedule
		WHERE patient_id = $1 ORDER BY start_date`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Schedule
	for rows.Next() {
		sch, err := r.scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, sch)
	}
	return items, rows.Err()
}
