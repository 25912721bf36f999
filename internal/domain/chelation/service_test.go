package chelation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hemotrack/hemotrack/internal/platform/calendar"
)

func clockAt(y int, m time.Month, d int) calendar.Clock {
	return calendar.FixedClock{T: calendar.Date(y, m, d)}
}

func TestCreateSchedule(t *testing.T) {
	svc := NewService(NewMemRepo(), clockAt(2024, time.January, 10))
	patientID := uuid.New()
	sch, err := svc.CreateSchedule(context.Background(), patientID, 30, "08:00", "Deferasirox 500mg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sch.Status != StatusActive {
		t.Fatalf("expected active, got %s", sch.Status)
	}
	if !sch.StartDate.Equal(calendar.Date(2024, time.January, 10)) {
		t.Fatalf("expected start date today, got %s", calendar.FormatDate(sch.StartDate))
	}
}

func TestCreateScheduleValidation(t *testing.T) {
	svc := NewService(NewMemRepo(), clockAt(2024, time.January, 10))
	patientID := uuid.New()
	if _, err := svc.CreateSchedule(context.Background(), patientID, 0, "08:00", "Deferasirox 500mg"); err != ErrInvalidDuration {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
	if _, err := svc.CreateSchedule(context.Background(), patientID, -3, "08:00", "Deferasirox 500mg"); err != ErrInvalidDuration {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
	if _, err := svc.CreateSchedule(context.Background(), patientID, 30, "08:00", ""); err != ErrInvalidDose {
		t.Fatalf("expected ErrInvalidDose, got %v", err)
	}
}

func TestEvaluateStatusWindow(t *testing.T) {
	start := calendar.Date(2024, time.January, 10)
	sch := &Schedule{StartDate: start, TotalDays: 30, Status: StatusActive}

	// Day 29 still active, day 30 completed.
	if got := EvaluateStatus(sch, calendar.AddDays(start, 29)); got != StatusActive {
		t.Fatalf("day 29: expected active, got %s", got)
	}
	if got := EvaluateStatus(sch, calendar.AddDays(start, 30)); got != StatusCompleted {
		t.Fatalf("day 30: expected completed, got %s", got)
	}
	if got := EvaluateStatus(sch, calendar.AddDays(start, 90)); got != StatusCompleted {
		t.Fatalf("day 90: expected completed, got %s", got)
	}
}

func TestEvaluateStatusCancelledSticks(t *testing.T) {
	start := calendar.Date(2024, time.January, 10)
	sch := &Schedule{StartDate: start, TotalDays: 30, Status: StatusCancelled}
	if got := EvaluateStatus(sch, calendar.AddDays(start, 90)); got != StatusCancelled {
		t.Fatalf("expected cancelled to stick, got %s", got)
	}
}

func TestLazyCompletionOnRead(t *testing.T) {
	repo := NewMemRepo()
	svc := NewService(repo, clockAt(2024, time.January, 10))
	patientID := uuid.New()
	sch, err := svc.CreateSchedule(context.Background(), patientID, 30, "08:00", "Deferasirox 500mg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	later := NewService(repo, clockAt(2024, time.February, 9))
	got, err := later.Get(context.Background(), sch.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Fatalf("expected completed after 30 days, got %s", got.Status)
	}
}

func TestCancel(t *testing.T) {
	svc := NewService(NewMemRepo(), clockAt(2024, time.January, 10))
	patientID := uuid.New()
	sch, err := svc.CreateSchedule(context.Background(), patientID, 30, "08:00", "Deferasirox 500mg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cancelled, err := svc.Cancel(context.Background(), sch.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	got, err := svc.Get(context.Background(), sch.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != StatusCancelled {
		t.Fatalf("expected cancelled on read, got %s", got.Status)
	}
}

func TestCancelCompletedScheduleRefused(t *testing.T) {
	repo := NewMemRepo()
	svc := NewService(repo, clockAt(2024, time.January, 10))
	patientID := uuid.New()
	sch, err := svc.CreateSchedule(context.Background(), patientID, 30, "08:00", "Deferasirox 500mg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The regimen ran its full 30 days; completion is terminal.
	later := NewService(repo, clockAt(2024, time.February, 9))
	if _, err := later.Cancel(context.Background(), sch.ID); err != ErrScheduleComplete {
		t.Fatalf("expected ErrScheduleComplete, got %v", err)
	}
	got, err := later.Get(context.Background(), sch.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Fatalf("expected completed to survive cancel attempt, got %s", got.Status)
	}
}

func TestCancelTwice(t *testing.T) {
	svc := NewService(NewMemRepo(), clockAt(2024, time.January, 10))
	patientID := uuid.New()
	sch, err := svc.CreateSchedule(context.Background(), patientID, 30, "08:00", "Deferasirox 500mg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), sch.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	again, err := svc.Cancel(context.Background(), sch.ID)
	if err != nil {
		t.Fatalf("expected second cancel to be a no-op, got %v", err)
	}
	if again.Status != StatusCancelled {
		t.Fatalf("expected cancelled, got %s", again.Status)
	}
}

func TestCancelUnknownSchedule(t *testing.T) {
	svc := NewService(NewMemRepo(), clockAt(2024, time.January, 10))
	if _, err := svc.Cancel(context.Background(), uuid.New()); err != ErrScheduleNotFound {
		t.Fatalf("expected ErrScheduleNotFound, got %v", err)
	}
}

func TestOverlappingSchedulesPermitted(t *testing.T) {
	svc := NewService(NewMemRepo(), clockAt(2024, time.January, 10))
	patientID := uuid.New()
	if _, err := svc.CreateSchedule(context.Background(), patientID, 30, "08:00", "Deferasirox 500mg"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.CreateSchedule(context.Background(), patientID, 14, "20:00", "Deferiprone 250mg"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	active, err := svc.ActiveByPatient(context.Background(), patientID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 concurrent active schedules, got %d", len(active))
	}
}
