package patient

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hemotrack/hemotrack/internal/platform/calendar"
)

// Scheduler creates the first scheduled transfusion entry for a newly
// registered patient. Implemented by the transfusion service; injected
// after construction to keep the dependency one-directional.
type Scheduler interface {
	ScheduleInitial(ctx context.Context, p *Patient) error
}

type Service struct {
	repo      Repository
	clock     calendar.Clock
	scheduler Scheduler
}

func NewService(repo Repository, clock calendar.Clock) *Service {
	return &Service{repo: repo, clock: clock}
}

// SetScheduler wires the transfusion scheduler. Must be called before
// Create is used; registration without a scheduler would leave the new
// patient with no due entry.
func (s *Service) SetScheduler(sched Scheduler) { s.scheduler = sched }

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.BloodGroup == "" {
		return fmt.Errorf("blood_group is required")
	}
	if p.TransfusionIntervalDays < 1 {
		return ErrInvalidInterval
	}
	if p.RiskLevel == "" {
		p.RiskLevel = RiskMedium
	}
	if !p.RiskLevel.Valid() {
		return fmt.Errorf("invalid risk level: %s", p.RiskLevel)
	}
	today := calendar.Today(s.clock)
	if p.LastTransfusionDate.IsZero() {
		p.LastTransfusionDate = today
	}
	p.LastTransfusionDate = calendar.Normalize(p.LastTransfusionDate)
	if p.LastTransfusionDate.After(today) {
		return fmt.Errorf("last_transfusion_date cannot be in the future")
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}
	if s.scheduler != nil {
		if err := s.scheduler.ScheduleInitial(ctx, p); err != nil {
			return fmt.Errorf("schedule initial entry: %w", err)
		}
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByPublicID(ctx context.Context, publicID string) (*Patient, error) {
	return s.repo.GetByPublicID(ctx, publicID)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// UpdateInterval changes the patient's transfusion interval and appends an
// audit row carrying the clinician's note. The new interval takes effect at
// the next cycle completion; existing scheduled entries keep their dates.
func (s *Service) UpdateInterval(ctx context.Context, patientID uuid.UUID, days int, note string) (*Patient, error) {
	if days < 1 {
		return nil, ErrInvalidInterval
	}
	p, err := s.repo.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	ch := &IntervalChange{
		PatientID: p.ID,
		FromDays:  p.TransfusionIntervalDays,
		ToDays:    days,
		ChangedAt: s.clock.Now(),
	}
	if note != "" {
		ch.Note = &note
	}
	p.TransfusionIntervalDays = days
	p.ProposedIntervalDays = nil
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	if err := s.repo.AddIntervalChange(ctx, ch); err != nil {
		return nil, err
	}
	return p, nil
}

// ProposeInterval records a suggested interval on the patient without
// applying it. The effective interval changes only when a clinician
// confirms the suggestion through UpdateInterval; proposing again
// replaces the pending suggestion.
func (s *Service) ProposeInterval(ctx context.Context, patientID uuid.UUID, days int) (*Patient, error) {
	if days < 1 {
		return nil, ErrInvalidInterval
	}
	p, err := s.repo.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	p.ProposedIntervalDays = &days
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) IntervalHistory(ctx context.Context, patientID uuid.UUID) ([]*IntervalChange, error) {
	if _, err := s.repo.GetByID(ctx, patientID); err != nil {
		return nil, err
	}
	return s.repo.ListIntervalChanges(ctx, patientID)
}

// RecordTransfusion moves the patient's last transfusion date forward.
// Called by the transfusion service when a cycle completes naturally.
func (s *Service) RecordTransfusion(ctx context.Context, patientID uuid.UUID, date time.Time) error {
	p, err := s.repo.GetByID(ctx, patientID)
	if err != nil {
		return err
	}
	p.LastTransfusionDate = calendar.Normalize(date)
	return s.repo.Update(ctx, p)
}
