package patient

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrPatientNotFound is returned when no patient matches the given id.
	ErrPatientNotFound = errors.New("patient not found")
	// ErrInvalidInterval is returned for transfusion intervals below one day.
	ErrInvalidInterval = errors.New("transfusion interval must be at least 1 day")
)

// RiskLevel is the clinician-assigned baseline risk for a patient.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Valid reports whether r is one of the known risk levels.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// Patient maps to the patient table. PublicID is the human-facing
// identifier (TH001 and so on); ID is the internal key. Identity fields
// are immutable after creation, treatment parameters are not.
type Patient struct {
	ID                      uuid.UUID `db:"id" json:"id"`
	PublicID                string    `db:"public_id" json:"public_id"`
	Name                    string    `db:"name" json:"name"`
	Age                     int       `db:"age" json:"age"`
	Gender                  *string   `db:"gender" json:"gender,omitempty"`
	BloodGroup              string    `db:"blood_group" json:"blood_group"`
	Diagnosis               string    `db:"diagnosis" json:"diagnosis"`
	TreatmentType           *string   `db:"treatment_type" json:"treatment_type,omitempty"`
	TransfusionIntervalDays int       `db:"transfusion_interval_days" json:"transfusion_interval_days"`
	ProposedIntervalDays    *int      `db:"proposed_interval_days" json:"proposed_interval_days,omitempty"`
	LastTransfusionDate     time.Time `db:"last_transfusion_date" json:"last_transfusion_date"`
	RiskLevel               RiskLevel `db:"risk_level" json:"risk_level"`
	ContactNumber           *string   `db:"contact_number" json:"contact_number,omitempty"`
	Address                 *string   `db:"address" json:"address,omitempty"`
	EmergencyContact        *string   `db:"emergency_contact" json:"emergency_contact,omitempty"`
	Notes                   *string   `db:"notes" json:"notes,omitempty"`
	MedicalHistory          []string  `db:"medical_history" json:"medical_history,omitempty"`
	CreatedAt               time.Time `db:"created_at" json:"created_at"`
	UpdatedAt               time.Time `db:"updated_at" json:"updated_at"`
}

// IntervalChange maps to the interval_change table. One row is appended
// every time a patient's transfusion interval is updated, keeping the
// clinician's note alongside the old and new values.
type IntervalChange struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`
	FromDays  int       `db:"from_days" json:"from_days"`
	ToDays    int       `db:"to_days" json:"to_days"`
	Note      *string   `db:"note" json:"note,omitempty"`
	ChangedAt time.Time `db:"changed_at" json:"changed_at"`
}
