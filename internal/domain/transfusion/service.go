package transfusion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hemotrack/hemotrack/internal/domain/patient"
	"github.com/hemotrack/hemotrack/internal/platform/calendar"
	"github.com/hemotrack/hemotrack/internal/platform/locking"
)

// DefaultScheduledTime is the slot assigned to auto-created entries. The
// time is a display field only; it never affects status classification.
const DefaultScheduledTime = "10:00"

// PatientDirectory is the slice of the patient service the scheduler
// needs: risk and interval lookups plus the last-transfusion write-back
// on natural cycle completion.
type PatientDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
	RecordTransfusion(ctx context.Context, patientID uuid.UUID, date time.Time) error
}

// RecordDetails carries the clinician-entered facts of a completed
// transfusion. All fields are optional; blood type defaults to the
// patient's blood group.
type RecordDetails struct {
	BloodType  string  `json:"blood_type"`
	VolumeML   int     `json:"volume_ml"`
	Reactions  *string `json:"reactions,omitempty"`
	Notes      *string `json:"notes,omitempty"`
	DoctorName *string `json:"doctor_name,omitempty"`
}

// Transactor runs fn atomically against the backing store, with the open
// transaction carried on fn's context.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service owns scheduled entries, cycle plans and transfusion records.
// Mutations for one patient are serialized through a per-patient lock;
// different patients proceed concurrently.
type Service struct {
	entries  EntryRepository
	records  RecordRepository
	patients PatientDirectory
	clock    calendar.Clock
	locks    *locking.KeyedMutex
	tx       Transactor
}

func NewService(entries EntryRepository, records RecordRepository, patients PatientDirectory, clock calendar.Clock) *Service {
	return &Service{
		entries:  entries,
		records:  records,
		patients: patients,
		clock:    clock,
		locks:    locking.NewKeyedMutex(),
	}
}

// SetTransactor makes multi-write transitions run inside a database
// transaction. Optional; the in-memory repositories need none.
func (s *Service) SetTransactor(tx Transactor) { s.tx = tx }

// inTx runs fn through the configured transactor, or directly when
// none is set.
func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return s.tx.InTx(ctx, fn)
}

// ScheduleInitial creates the first due entry for a newly registered
// patient, with a fresh cycle plan at Pre-Assessment.
func (s *Service) ScheduleInitial(ctx context.Context, p *patient.Patient) error {
	s.locks.Lock(p.ID.String())
	defer s.locks.Unlock(p.ID.String())
	_, err := s.createEntry(ctx, p.ID, p.LastTransfusionDate, p.TransfusionIntervalDays)
	return err
}

func (s *Service) createEntry(ctx context.Context, patientID uuid.UUID, lastTransfusion time.Time, intervalDays int) (*Entry, error) {
	due, err := NextDueDate(lastTransfusion, intervalDays)
	if err != nil {
		return nil, err
	}
	e := &Entry{
		ID:            uuid.New(),
		PatientID:     patientID,
		ScheduledDate: due,
		ScheduledTime: DefaultScheduledTime,
		Status:        StatusScheduled,
	}
	e.Plan = NewCyclePlan(e.ID, s.clock.Now())
	if err := s.entries.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}
	return e, nil
}

// AdvanceStage moves the entry's cycle one stage forward. Advancing past
// the last stage completes the cycle: the entry becomes Completed, a
// transfusion record is appended, the patient's last transfusion date
// moves to today, and a successor entry is created due one interval later.
// details may be nil; it is only read on the completing advance.
func (s *Service) AdvanceStage(ctx context.Context, entryID uuid.UUID, details *RecordDetails) (*Entry, error) {
	e, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	s.locks.Lock(e.PatientID.String())
	defer s.locks.Unlock(e.PatientID.String())

	var out *Entry
	err = s.inTx(ctx, func(ctx context.Context) error {
		// Reload under the lock; another command may have finished the cycle.
		e, err := s.entries.GetByID(ctx, entryID)
		if err != nil {
			return err
		}
		if e.Status.Terminal() || e.Plan == nil {
			return ErrCycleComplete
		}
		if err := e.Plan.Advance(s.clock.Now()); err != nil {
			return err
		}
		if !e.Plan.Done() {
			if err := s.entries.Update(ctx, e); err != nil {
				return err
			}
			out, err = s.decorate(ctx, e)
			return err
		}
		out, err = s.complete(ctx, e, details)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// complete finalizes a naturally finished cycle.
func (s *Service) complete(ctx context.Context, e *Entry, details *RecordDetails) (*Entry, error) {
	p, err := s.patients.GetByID(ctx, e.PatientID)
	if err != nil {
		return nil, err
	}
	today := calendar.Today(s.clock)

	e.Status = StatusCompleted
	if err := s.entries.Update(ctx, e); err != nil {
		return nil, err
	}

	rec := &Record{
		PatientID: e.PatientID,
		EntryID:   e.ID,
		Date:      today,
		BloodType: p.BloodGroup,
	}
	if details != nil {
		if details.BloodType != "" {
			rec.BloodType = details.BloodType
		}
		rec.VolumeML = details.VolumeML
		rec.Reactions = details.Reactions
		rec.Notes = details.Notes
		rec.DoctorName = details.DoctorName
	}
	if err := s.records.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("append transfusion record: %w", err)
	}
	if err := s.patients.RecordTransfusion(ctx, e.PatientID, today); err != nil {
		return nil, err
	}
	if _, err := s.createEntry(ctx, e.PatientID, today, p.TransfusionIntervalDays); err != nil {
		return nil, fmt.Errorf("schedule successor entry: %w", err)
	}
	e.Priority = DerivePriority(p.RiskLevel, e.Status)
	return e, nil
}

// StopCycle cancels the entry. The plan is discarded and no successor is
// created; scheduling for the patient resumes only through an explicit
// new command.
func (s *Service) StopCycle(ctx context.Context, entryID uuid.UUID) (*Entry, error) {
	e, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	s.locks.Lock(e.PatientID.String())
	defer s.locks.Unlock(e.PatientID.String())

	var out *Entry
	err = s.inTx(ctx, func(ctx context.Context) error {
		e, err := s.entries.GetByID(ctx, entryID)
		if err != nil {
			return err
		}
		if e.Status.Terminal() {
			return ErrCycleComplete
		}
		e.Status = StatusCancelled
		e.Plan = nil
		if err := s.entries.Update(ctx, e); err != nil {
			return err
		}
		out, err = s.decorate(ctx, e)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// decorate recomputes the entry's effective status and priority against
// the clock. Terminal statuses pass through unchanged.
func (s *Service) decorate(ctx context.Context, e *Entry) (*Entry, error) {
	now := s.clock.Now()
	e.Status = ClassifyStatus(e.ScheduledDate, now, e.Status)
	p, err := s.patients.GetByID(ctx, e.PatientID)
	if err != nil {
		if errors.Is(err, patient.ErrPatientNotFound) {
			e.Priority = DerivePriority(patient.RiskMedium, e.Status)
			return e, nil
		}
		return nil, err
	}
	e.Priority = DerivePriority(p.RiskLevel, e.Status)
	return e, nil
}

func (s *Service) decorateAll(ctx context.Context, items []*Entry) ([]*Entry, error) {
	for _, e := range items {
		if _, err := s.decorate(ctx, e); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// Get returns the entry with its effective status.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Entry, error) {
	e, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, e)
}

func (s *Service) GetByPublicID(ctx context.Context, publicID string) (*Entry, error) {
	e, err := s.entries.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, e)
}

// Open returns every non-terminal entry, ascending by scheduled date
// then time.
func (s *Service) Open(ctx context.Context) ([]*Entry, error) {
	items, err := s.entries.ListOpen(ctx)
	if err != nil {
		return nil, err
	}
	return s.decorateAll(ctx, items)
}

// Overdue returns every non-terminal entry whose date has passed,
// ascending by scheduled date.
func (s *Service) Overdue(ctx context.Context) ([]*Entry, error) {
	open, err := s.entries.ListOpen(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	var items []*Entry
	for _, e := range open {
		if ClassifyStatus(e.ScheduledDate, now, e.Status) == StatusOverdue {
			items = append(items, e)
		}
	}
	return s.decorateAll(ctx, items)
}

// Upcoming returns entries scheduled in [ref, ref+windowDays], ascending
// by date then time.
func (s *Service) Upcoming(ctx context.Context, windowDays int, ref time.Time) ([]*Entry, error) {
	items, err := s.entries.ListBetween(ctx, calendar.Normalize(ref), calendar.AddDays(ref, windowDays))
	if err != nil {
		return nil, err
	}
	return s.decorateAll(ctx, items)
}

// EntriesForDay returns entries scheduled on exactly that calendar date.
func (s *Service) EntriesForDay(ctx context.Context, date time.Time) ([]*Entry, error) {
	d := calendar.Normalize(date)
	items, err := s.entries.ListBetween(ctx, d, d)
	if err != nil {
		return nil, err
	}
	return s.decorateAll(ctx, items)
}

// ListByPatient returns the patient's full entry history.
func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Entry, error) {
	items, err := s.entries.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return s.decorateAll(ctx, items)
}

// ActiveCycleFor returns the patient's in-progress cycle plan, or nil
// when the patient has no open entry.
func (s *Service) ActiveCycleFor(ctx context.Context, patientID uuid.UUID) (*CyclePlan, error) {
	e, err := s.entries.OpenByPatient(ctx, patientID)
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return e.Plan, nil
}

// Records returns the patient's append-only transfusion history.
func (s *Service) Records(ctx context.Context, patientID uuid.UUID) ([]*Record, error) {
	return s.records.ListByPatient(ctx, patientID)
}
