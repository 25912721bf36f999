package chelation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hemotrack/hemotrack/internal/platform/calendar"
	"github.com/hemotrack/hemotrack/internal/platform/locking"
)

// Service manages chelation schedules. Completion is never written by a
// timer; it is derived from the elapsed day count on every read.
type Service struct {
	repo  Repository
	clock calendar.Clock
	locks *locking.KeyedMutex
}

func NewService(repo Repository, clock calendar.Clock) *Service {
	return &Service{repo: repo, clock: clock, locks: locking.NewKeyedMutex()}
}

// EvaluateStatus derives a schedule's effective status at now. Cancelled
// is sticky; otherwise the schedule is completed exactly when
// now >= startDate + totalDays.
func EvaluateStatus(sch *Schedule, now time.Time) Status {
	if sch.Status == StatusCancelled {
		return StatusCancelled
	}
	if calendar.DaysBetween(sch.StartDate, now) >= sch.TotalDays {
		return StatusCompleted
	}
	return StatusActive
}

// CreateSchedule starts a new daily regimen beginning today. Overlapping
// active schedules for one patient are allowed.
func (s *Service) CreateSchedule(ctx context.Context, patientID uuid.UUID, totalDays int, dailyTime, dose string) (*Schedule, error) {
	if totalDays <= 0 {
		return nil, ErrInvalidDuration
	}
	if dose == "" {
		return nil, ErrInvalidDose
	}
	s.locks.Lock(patientID.String())
	defer s.locks.Unlock(patientID.String())

	sch := &Schedule{
		PatientID: patientID,
		TotalDays: totalDays,
		DailyTime: dailyTime,
		Dose:      dose,
		StartDate: calendar.Today(s.clock),
		Status:    StatusActive,
	}
	if err := s.repo.Create(ctx, sch); err != nil {
		return nil, err
	}
	return sch, nil
}

// Cancel marks the schedule cancelled. Terminal and distinct from natural
// completion; cancelling an already cancelled schedule is a no-op, and a
// schedule whose regimen has run its full course can no longer be
// cancelled.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Schedule, error) {
	sch, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.locks.Lock(sch.PatientID.String())
	defer s.locks.Unlock(sch.PatientID.String())

	sch, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch EvaluateStatus(sch, s.clock.Now()) {
	case StatusCancelled:
		sch.Status = StatusCancelled
		return sch, nil
	case StatusCompleted:
		return nil, ErrScheduleComplete
	}
	sch.Status = StatusCancelled
	if err := s.repo.Update(ctx, sch); err != nil {
		return nil, err
	}
	return sch, nil
}

// Get returns the schedule with its effective status.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Schedule, error) {
	sch, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sch.Status = EvaluateStatus(sch, s.clock.Now())
	return sch, nil
}

// ListByPatient returns all of the patient's schedules with effective
// statuses.
func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Schedule, error) {
	items, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	for _, sch := range items {
		sch.Status = EvaluateStatus(sch, now)
	}
	return items, nil
}

// ActiveByPatient returns only the schedules still running at now.
func (s *Service) ActiveByPatient(ctx context.Context, patientID uuid.UUID) ([]*Schedule, error) {
	all, err := s.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	var items []*Schedule
	for _, sch := range all {
		if sch.Status == StatusActive {
			items = append(items, sch)
		}
	}
	return items, nil
}
