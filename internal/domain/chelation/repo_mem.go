package chelation

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memRepo is the in-memory Repository used when no database is configured.
type memRepo struct {
	mu        sync.RWMutex
	schedules map[uuid.UUID]*Schedule
}

func NewMemRepo() Repository {
	return &memRepo{schedules: make(map[uuid.UUID]*Schedule)}
}

func (r *memRepo) Create(_ context.Context, sch *Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sch.ID = uuid.New()
	now := time.Now()
	sch.CreatedAt = now
	sch.UpdatedAt = now
	cp := *sch
	r.schedules[sch.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id uuid.UUID) (*Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sch, ok := r.schedules[id]
	if !ok {
		return nil, ErrScheduleNotFound
	}
	cp := *sch
	return &cp, nil
}

func (r *memRepo) Update(_ context.Context, sch *Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.schedules[sch.ID]; !ok {
		return ErrScheduleNotFound
	}
	sch.UpdatedAt = time.Now()
	cp := *sch
	r.schedules[sch.ID] = &cp
	return nil
}

func (r *memRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var items []*Schedule
	for _, sch := range r.schedules {
		if sch.PatientID == patientID {
			cp := *sch
			items = append(items, &cp)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].StartDate.Before(items[j].StartDate) })
	return items, nil
}
