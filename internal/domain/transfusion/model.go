package transfusion

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrEntryNotFound is returned when no scheduled entry matches the id.
	ErrEntryNotFound = errors.New("scheduled entry not found")
	// ErrCycleComplete is returned when advancing a cycle that already
	// finished or was cancelled.
	ErrCycleComplete = errors.New("cycle is already complete")
)

// Status is the lifecycle state of a scheduled entry. Completed and
// Cancelled are terminal; Scheduled and Overdue are recomputed at read
// time and never stored as authoritative facts.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusOverdue   Status = "overdue"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Priority is derived from patient risk and overdue-ness, never set
// directly.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Stage is one step of the clinical transfusion workflow. The sequence is
// fixed and strictly linear; StageDone marks a finished cycle and is not a
// workable stage itself.
type Stage int

const (
	StagePreAssessment Stage = iota
	StageBloodMatching
	StagePreTransfusion
	StageTransfusion
	StagePostTransfusionMonitoring
	StageFollowUpAssessment
	StageDone
)

// StageCount is the number of workable stages in a cycle.
const StageCount = int(StageDone)

// StageInfo carries the display metadata for one stage.
type StageInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
}

var stageInfos = [StageCount]StageInfo{
	{Name: "Pre-Assessment", Description: "Initial health check and blood work", Duration: "1-2 days"},
	{Name: "Blood Matching", Description: "Cross-matching and compatibility testing", Duration: "1 day"},
	{Name: "Pre-Transfusion", Description: "Pre-medication and preparation", Duration: "2-4 hours"},
	{Name: "Transfusion", Description: "Blood transfusion procedure", Duration: "3-4 hours"},
	{Name: "Post-Transfusion Monitoring", Description: "Observation and recovery monitoring", Duration: "2-4 hours"},
	{Name: "Follow-up Assessment", Description: "Post-transfusion health evaluation", Duration: "1-2 days"},
}

// Info returns the display metadata for s. StageDone has none.
func (s Stage) Info() StageInfo {
	if s < 0 || int(s) >= StageCount {
		return StageInfo{Name: "Done"}
	}
	return stageInfos[s]
}

func (s Stage) String() string { return s.Info().Name }

// StageStatus is the per-stage progress marker inside a cycle plan.
type StageStatus string

const (
	StagePending   StageStatus = "pending"
	StageCurrent   StageStatus = "current"
	StageCompleted StageStatus = "completed"
)

// StageResult is one stage's slot in a cycle plan.
type StageResult struct {
	Stage       Stage       `json:"stage"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Duration    string      `json:"duration"`
	Status      StageStatus `json:"status"`
	StartedAt   *time.Time  `json:"started_at,omitempty"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
}

// CyclePlan is the stage ladder attached to one scheduled entry while the
// entry is non-terminal. Exactly one stage is current until the plan is
// done; stages before the current index are completed, stages after it
// pending.
type CyclePlan struct {
	ID      uuid.UUID     `json:"id"`
	EntryID uuid.UUID     `json:"entry_id"`
	Stages  []StageResult `json:"stages"`
	Current int           `json:"current"`
}

// Entry maps to the scheduled_entry table. PublicID is the human-facing
// identifier (ST001 and so on). Status holds only the terminal outcome;
// readers get the effective status from the service, which reclassifies
// non-terminal entries against the clock.
type Entry struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	PublicID      string     `db:"public_id" json:"public_id"`
	PatientID     uuid.UUID  `db:"patient_id" json:"patient_id"`
	ScheduledDate time.Time  `db:"scheduled_date" json:"scheduled_date"`
	ScheduledTime string     `db:"scheduled_time" json:"scheduled_time"`
	Status        Status     `db:"status" json:"status"`
	Priority      Priority   `db:"-" json:"priority"`
	Plan          *CyclePlan `db:"-" json:"plan,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// Record maps to the transfusion_record table. Append-only; one row per
// completed transfusion.
type Record struct {
	ID         uuid.UUID `db:"id" json:"id"`
	PatientID  uuid.UUID `db:"patient_id" json:"patient_id"`
	EntryID    uuid.UUID `db:"entry_id" json:"entry_id"`
	Date       time.Time `db:"date" json:"date"`
	BloodType  string    `db:"blood_type" json:"blood_type"`
	VolumeML   int       `db:"volume_ml" json:"volume_ml"`
	Reactions  *string   `db:"reactions" json:"reactions,omitempty"`
	Notes      *string   `db:"notes" json:"notes,omitempty"`
	DoctorName *string   `db:"doctor_name" json:"doctor_name,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
