package transfusion

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hemotrack/hemotrack/internal/platform/calendar"
)

func TestNewCyclePlanStartsAtPreAssessment(t *testing.T) {
	now := calendar.Date(2024, time.January, 15)
	plan := NewCyclePlan(uuid.New(), now)
	if len(plan.Stages) != StageCount {
		t.Fatalf("expected %d stages, got %d", StageCount, len(plan.Stages))
	}
	if plan.CurrentStage() != StagePreAssessment {
		t.Fatalf("expected Pre-Assessment current, got %s", plan.CurrentStage())
	}
	if plan.Stages[0].Status != StageCurrent {
		t.Fatalf("expected first stage current, got %s", plan.Stages[0].Status)
	}
	if plan.Stages[0].StartedAt == nil {
		t.Fatal("expected first stage start timestamp")
	}
	for i := 1; i < StageCount; i++ {
		if plan.Stages[i].Status != StagePending {
			t.Fatalf("stage %d: expected pending, got %s", i, plan.Stages[i].Status)
		}
	}
}

func TestAdvanceIsStrictlyLinear(t *testing.T) {
	now := calendar.Date(2024, time.January, 15)
	plan := NewCyclePlan(uuid.New(), now)
	order := []Stage{
		StagePreAssessment, StageBloodMatching, StagePreTransfusion,
		StageTransfusion, StagePostTransfusionMonitoring, StageFollowUpAssessment,
	}
	for i, want := range order {
		if plan.CurrentStage() != want {
			t.Fatalf("step %d: expected %s, got %s", i, want, plan.CurrentStage())
		}
		if err := plan.Advance(now); err != nil {
			t.Fatalf("step %d: unexpected error: %v", i, err)
		}
	}
	if !plan.Done() {
		t.Fatal("expected plan done after last stage")
	}
	if plan.CurrentStage() != StageDone {
		t.Fatalf("expected StageDone, got %s", plan.CurrentStage())
	}
	for i, st := range plan.Stages {
		if st.Status != StageCompleted {
			t.Fatalf("stage %d: expected completed, got %s", i, st.Status)
		}
		if st.CompletedAt == nil {
			t.Fatalf("stage %d: missing completion timestamp", i)
		}
	}
}

func TestAdvanceInvariantHoldsMidCycle(t *testing.T) {
	now := calendar.Date(2024, time.January, 15)
	plan := NewCyclePlan(uuid.New(), now)
	for i := 0; i < 3; i++ {
		if err := plan.Advance(now); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	for i, st := range plan.Stages {
		var want StageStatus
		switch {
		case i < plan.Current:
			want = StageCompleted
		case i == plan.Current:
			want = StageCurrent
		default:
			want = StagePending
		}
		if st.Status != want {
			t.Fatalf("stage %d: expected %s, got %s", i, want, st.Status)
		}
	}
}

func TestAdvanceDonePlanFails(t *testing.T) {
	now := calendar.Date(2024, time.January, 15)
	plan := NewCyclePlan(uuid.New(), now)
	for i := 0; i < StageCount; i++ {
		if err := plan.Advance(now); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := plan.Advance(now); err != ErrCycleComplete {
		t.Fatalf("expected ErrCycleComplete, got %v", err)
	}
	if plan.Current != StageCount {
		t.Fatalf("failed advance must leave plan unchanged, current = %d", plan.Current)
	}
}

func TestStageInfoCopy(t *testing.T) {
	info := StageTransfusion.Info()
	if info.Name != "Transfusion" {
		t.Fatalf("expected Transfusion, got %s", info.Name)
	}
	if info.Description != "Blood transfusion procedure" {
		t.Fatalf("unexpected description: %s", info.Description)
	}
	if StageDone.Info().Name != "Done" {
		t.Fatalf("expected Done, got %s", StageDone.Info().Name)
	}
}
