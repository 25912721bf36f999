package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hemotrack/hemotrack/internal/domain/chelation"
	"github.com/hemotrack/hemotrack/internal/domain/patient"
	"github.com/hemotrack/hemotrack/internal/domain/transfusion"
	"github.com/hemotrack/hemotrack/internal/platform/calendar"
)

type fakePatients struct {
	items []*patient.Patient
}

func (f *fakePatients) List(_ context.Context, limit, offset int) ([]*patient.Patient, int, error) {
	if offset >= len(f.items) {
		return nil, len(f.items), nil
	}
	end := offset + limit
	if end > len(f.items) {
		end = len(f.items)
	}
	return f.items[offset:end], len(f.items), nil
}

type fakeSchedule struct {
	open     []*transfusion.Entry
	upcoming []*transfusion.Entry
	byDay    map[string][]*transfusion.Entry

	upcomingWindow int
	upcomingRef    time.Time
}

func (f *fakeSchedule) Open(context.Context) ([]*transfusion.Entry, error) {
	return f.open, nil
}

func (f *fakeSchedule) Upcoming(_ context.Context, windowDays int, ref time.Time) ([]*transfusion.Entry, error) {
	f.upcomingWindow = windowDays
	f.upcomingRef = ref
	return f.upcoming, nil
}

func (f *fakeSchedule) EntriesForDay(_ context.Context, date time.Time) ([]*transfusion.Entry, error) {
	return f.byDay[calendar.FormatDate(date)], nil
}

type fakeChelation struct {
	active map[uuid.UUID][]*chelation.Schedule
}

func (f *fakeChelation) ActiveByPatient(_ context.Context, patientID uuid.UUID) ([]*chelation.Schedule, error) {
	return f.active[patientID], nil
}

func entryWithStatus(status transfusion.Status) *transfusion.Entry {
	return &transfusion.Entry{ID: uuid.New(), Status: status}
}

func TestSummarize(t *testing.T) {
	highRisk := &patient.Patient{ID: uuid.New(), PublicID: "TH001", RiskLevel: patient.RiskHigh}
	lowRisk := &patient.Patient{ID: uuid.New(), PublicID: "TH002", RiskLevel: patient.RiskLow}

	patients := &fakePatients{items: []*patient.Patient{highRisk, lowRisk}}
	schedule := &fakeSchedule{open: []*transfusion.Entry{
		entryWithStatus(transfusion.StatusScheduled),
		entryWithStatus(transfusion.StatusScheduled),
		entryWithStatus(transfusion.StatusOverdue),
	}}
	chel := &fakeChelation{active: map[uuid.UUID][]*chelation.Schedule{
		highRisk.ID: {{ID: uuid.New()}, {ID: uuid.New()}},
	}}

	svc := NewService(patients, schedule, chel, calendar.FixedClock{T: calendar.Date(2024, 2, 7)})
	sum, err := svc.Summarize(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sum.TotalPatients != 2 {
		t.Errorf("expected 2 patients, got %d", sum.TotalPatients)
	}
	if sum.Scheduled != 2 {
		t.Errorf("expected 2 scheduled, got %d", sum.Scheduled)
	}
	if sum.Overdue != 1 {
		t.Errorf("expected 1 overdue, got %d", sum.Overdue)
	}
	if sum.HighRisk != 1 {
		t.Errorf("expected 1 high risk, got %d", sum.HighRisk)
	}
	if sum.ActiveChelation != 2 {
		t.Errorf("expected 2 active chelation schedules, got %d", sum.ActiveChelation)
	}
}

func TestSummarize_PagesThroughRegistry(t *testing.T) {
	var items []*patient.Patient
	for i := 0; i < 150; i++ {
		items = append(items, &patient.Patient{ID: uuid.New(), RiskLevel: patient.RiskMedium})
	}
	patients := &fakePatients{items: items}
	svc := NewService(patients, &fakeSchedule{}, &fakeChelation{}, calendar.FixedClock{T: calendar.Date(2024, 2, 7)})

	sum, err := svc.Summarize(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.TotalPatients != 150 {
		t.Errorf("expected 150 patients, got %d", sum.TotalPatients)
	}
}

func TestUpcomingAppointments_Window(t *testing.T) {
	schedule := &fakeSchedule{upcoming: []*transfusion.Entry{entryWithStatus(transfusion.StatusScheduled)}}
	now := calendar.Date(2024, 2, 7)
	svc := NewService(&fakePatients{}, schedule, &fakeChelation{}, calendar.FixedClock{T: now})

	items, err := svc.UpcomingAppointments(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(items))
	}
	if schedule.upcomingWindow != UpcomingWindowDays {
		t.Errorf("expected window %d, got %d", UpcomingWindowDays, schedule.upcomingWindow)
	}
	if !schedule.upcomingRef.Equal(now) {
		t.Errorf("expected ref %v, got %v", now, schedule.upcomingRef)
	}
}

func TestWeekSchedule(t *testing.T) {
	// 2024-02-07 is a Wednesday, so the week runs Feb 4 through Feb 10.
	schedule := &fakeSchedule{byDay: map[string][]*transfusion.Entry{
		"2024-02-05": {entryWithStatus(transfusion.StatusScheduled)},
		"2024-02-07": {entryWithStatus(transfusion.StatusScheduled), entryWithStatus(transfusion.StatusOverdue)},
	}}
	svc := NewService(&fakePatients{}, schedule, &fakeChelation{}, calendar.FixedClock{T: calendar.Date(2024, 2, 7)})

	days, err := svc.WeekSchedule(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(days))
	}
	if days[0].Date != "2024-02-04" {
		t.Errorf("expected week to start on Sunday 2024-02-04, got %s", days[0].Date)
	}
	if days[6].Date != "2024-02-10" {
		t.Errorf("expected week to end on 2024-02-10, got %s", days[6].Date)
	}
	for i, d := range days {
		if d.IsToday != (i == 3) {
			t.Errorf("day %s: is_today = %v", d.Date, d.IsToday)
		}
	}
	if len(days[1].Entries) != 1 {
		t.Errorf("expected 1 entry on Monday, got %d", len(days[1].Entries))
	}
	if len(days[3].Entries) != 2 {
		t.Errorf("expected 2 entries on Wednesday, got %d", len(days[3].Entries))
	}
}
