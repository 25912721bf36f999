package main

import (
	"context"
	"testing"

	"github.com/hemotrack/hemotrack/internal/domain/patient"
	"github.com/hemotrack/hemotrack/internal/domain/transfusion"
	"github.com/hemotrack/hemotrack/internal/platform/calendar"
)

// Creating a patient through the wired services must leave an open
// entry on the schedule.
func TestServiceWiring_InitialSchedule(t *testing.T) {
	store := memRepos()
	clock := calendar.FixedClock{T: calendar.Date(2024, 1, 15)}

	patientSvc := patient.NewService(store.patients, clock)
	transfusionSvc := transfusion.NewService(store.entries, store.records, patientSvc, clock)
	patientSvc.SetScheduler(transfusionSvc)

	p := &patient.Patient{
		Name:                    "Asha Verma",
		BloodGroup:              "O+",
		TransfusionIntervalDays: 21,
	}
	if err := patientSvc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	plan, err := transfusionSvc.ActiveCycleFor(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan == nil {
		t.Fatal("expected an active cycle after patient creation")
	}

	open, err := transfusionSvc.Open(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("expected 1 open entry, got %d", len(open))
	}
	if got := calendar.FormatDate(open[0].ScheduledDate); got != "2024-02-05" {
		t.Errorf("expected due date 2024-02-05, got %s", got)
	}
}
