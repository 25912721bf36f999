package transfusion

import (
	"time"

	"github.com/google/uuid"
)

// NewCyclePlan builds a fresh plan for an entry with Pre-Assessment
// current and every later stage pending.
func NewCyclePlan(entryID uuid.UUID, now time.Time) *CyclePlan {
	stages := make([]StageResult, StageCount)
	for i := 0; i < StageCount; i++ {
		info := Stage(i).Info()
		stages[i] = StageResult{
			Stage:       Stage(i),
			Name:        info.Name,
			Description: info.Description,
			Duration:    info.Duration,
			Status:      StagePending,
		}
	}
	started := now
	stages[0].Status = StageCurrent
	stages[0].StartedAt = &started
	return &CyclePlan{
		ID:      uuid.New(),
		EntryID: entryID,
		Stages:  stages,
		Current: 0,
	}
}

// Done reports whether the plan has advanced past its last stage.
func (p *CyclePlan) Done() bool {
	return p.Current >= StageCount
}

// CurrentStage returns the stage currently in progress, or StageDone for a
// finished plan.
func (p *CyclePlan) CurrentStage() Stage {
	if p.Done() {
		return StageDone
	}
	return Stage(p.Current)
}

// Advance completes the current stage and makes the next one current.
// Advancing from the last stage finishes the plan. Advancing a finished
// plan returns ErrCycleComplete and leaves the plan untouched.
func (p *CyclePlan) Advance(now time.Time) error {
	if p.Done() {
		return ErrCycleComplete
	}
	ended := now
	p.Stages[p.Current].Status = StageCompleted
	p.Stages[p.Current].CompletedAt = &ended
	p.Current++
	if !p.Done() {
		started := now
		p.Stages[p.Current].Status = StageCurrent
		p.Stages[p.Current].StartedAt = &started
	}
	return nil
}
