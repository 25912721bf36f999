package chelation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrScheduleNotFound is returned when no schedule matches the id.
	ErrScheduleNotFound = errors.New("chelation schedule not found")
	// ErrInvalidDuration is returned for durations below one day.
	ErrInvalidDuration = errors.New("chelation duration must be at least 1 day")
	// ErrInvalidDose is returned for an empty dose.
	ErrInvalidDose = errors.New("chelation dose is required")
	// ErrScheduleComplete is returned when cancelling a schedule whose
	// regimen has already run its full course.
	ErrScheduleComplete = errors.New("chelation schedule already completed")
)

// Status is the lifecycle state of a chelation schedule. Cancelled is
// terminal; completed is derived from the elapsed day count at read time.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Schedule maps to the chelation_schedule table. A daily iron-chelation
// regimen, independent of any transfusion cycle; a patient may hold
// several overlapping schedules.
type Schedule struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	TotalDays int       `db:"total_days" json:"total_days"`
	DailyTime string    `db:"daily_time" json:"daily_time"`
	Dose      string    `db:"dose" json:"dose"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	Status    Status    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
