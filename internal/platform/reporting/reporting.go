// Package reporting aggregates registry and schedule data into the
// clinic dashboard.
package reporting

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hemotrack/hemotrack/internal/domain/chelation"
	"github.com/hemotrack/hemotrack/internal/domain/patient"
	"github.com/hemotrack/hemotrack/internal/domain/transfusion"
	"github.com/hemotrack/hemotrack/internal/platform/calendar"
)

// UpcomingWindowDays is how far ahead the dashboard looks for
// appointments.
const UpcomingWindowDays = 7

type PatientSource interface {
	List(ctx context.Context, limit, offset int) ([]*patient.Patient, int, error)
}

type ScheduleSource interface {
	Open(ctx context.Context) ([]*transfusion.Entry, error)
	Upcoming(ctx context.Context, windowDays int, ref time.Time) ([]*transfusion.Entry, error)
	EntriesForDay(ctx context.Context, date time.Time) ([]*transfusion.Entry, error)
}

type ChelationSource interface {
	ActiveByPatient(ctx context.Context, patientID uuid.UUID) ([]*chelation.Schedule, error)
}

// Summary is the top row of dashboard counters.
type Summary struct {
	TotalPatients   int `json:"total_patients"`
	Scheduled       int `json:"scheduled"`
	Overdue         int `json:"overdue"`
	HighRisk        int `json:"high_risk"`
	ActiveChelation int `json:"active_chelation"`
}

// DaySchedule is one column of the week view.
type DaySchedule struct {
	Date    string               `json:"date"`
	IsToday bool                 `json:"is_today"`
	Entries []*transfusion.Entry `json:"entries"`
}

type Service struct {
	patients  PatientSource
	schedule  ScheduleSource
	chelation ChelationSource
	clock     calendar.Clock
}

func NewService(patients PatientSource, schedule ScheduleSource, chel ChelationSource, clock calendar.Clock) *Service {
	return &Service{patients: patients, schedule: schedule, chelation: chel, clock: clock}
}

// listAllPatients pages through the registry. Clinic registries are
// small, so the full walk is fine here.
func (s *Service) listAllPatients(ctx context.Context) ([]*patient.Patient, error) {
	const pageSize = 100
	var all []*patient.Patient
	for offset := 0; ; offset += pageSize {
		page, total, err := s.patients.List(ctx, pageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(all) >= total || len(page) == 0 {
			return all, nil
		}
	}
}

// Summarize computes the dashboard counters as of the current clock.
func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	patients, err := s.listAllPatients(ctx)
	if err != nil {
		return nil, err
	}

	open, err := s.schedule.Open(ctx)
	if err != nil {
		return nil, err
	}

	sum := &Summary{TotalPatients: len(patients)}
	for _, e := range open {
		if e.Status == transfusion.StatusOverdue {
			sum.Overdue++
		} else {
			sum.Scheduled++
		}
	}
	for _, p := range patients {
		if p.RiskLevel == patient.RiskHigh {
			sum.HighRisk++
		}
		active, err := s.chelation.ActiveByPatient(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		sum.ActiveChelation += len(active)
	}
	return sum, nil
}

// UpcomingAppointments returns entries due within the next week,
// ascending by date.
func (s *Service) UpcomingAppointments(ctx context.Context) ([]*transfusion.Entry, error) {
	return s.schedule.Upcoming(ctx, UpcomingWindowDays, s.clock.Now())
}

// WeekSchedule returns the current calendar week, Sunday first, with the
// entries falling on each day.
func (s *Service) WeekSchedule(ctx context.Context) ([]*DaySchedule, error) {
	today := calendar.Today(s.clock)
	weekStart := calendar.AddDays(today, -int(today.Weekday()))

	days := make([]*DaySchedule, 0, 7)
	for i := 0; i < 7; i++ {
		d := calendar.AddDays(weekStart, i)
		entries, err := s.schedule.EntriesForDay(ctx, d)
		if err != nil {
			return nil, err
		}
		days = append(days, &DaySchedule{
			Date:    calendar.FormatDate(d),
			IsToday: calendar.SameDay(d, today),
			Entries: entries,
		})
	}
	return days, nil
}
