package transfusion

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hemotrack/hemotrack/internal/platform/calendar"
)

// memEntryRepo is the in-memory EntryRepository used when no database is
// configured.
type memEntryRepo struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*Entry
	seq     int
}

func NewMemEntryRepo() EntryRepository {
	return &memEntryRepo{entries: make(map[uuid.UUID]*Entry)}
}

func copyEntry(e *Entry) *Entry {
	cp := *e
	if e.Plan != nil {
		plan := *e.Plan
		plan.Stages = append([]StageResult(nil), e.Plan.Stages...)
		cp.Plan = &plan
	}
	return &cp
}

func (r *memEntryRepo) Create(_ context.Context, e *Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.PublicID == "" {
		r.seq++
		e.PublicID = fmt.Sprintf("ST%03d", r.seq)
	}
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	r.entries[e.ID] = copyEntry(e)
	return nil
}

func (r *memEntryRepo) GetByID(_ context.Context, id uuid.UUID) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, ErrEntryNotFound
	}
	return copyEntry(e), nil
}

func (r *memEntryRepo) GetByPublicID(_ context.Context, publicID string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.PublicID == publicID {
			return copyEntry(e), nil
		}
	}
	return nil, ErrEntryNotFound
}

func (r *memEntryRepo) Update(_ context.Context, e *Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[e.ID]; !ok {
		return ErrEntryNotFound
	}
	e.UpdatedAt = time.Now()
	r.entries[e.ID] = copyEntry(e)
	return nil
}

func sortByDate(items []*Entry) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].ScheduledDate.Equal(items[j].ScheduledDate) {
			return items[i].ScheduledDate.Before(items[j].ScheduledDate)
		}
		return items[i].ScheduledTime < items[j].ScheduledTime
	})
}

func (r *memEntryRepo) ListOpen(_ context.Context) ([]*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var items []*Entry
	for _, e := range r.entries {
		if !e.Status.Terminal() {
			items = append(items, copyEntry(e))
		}
	}
	sortByDate(items)
	return items, nil
}

func (r *memEntryRepo) ListBetween(_ context.Context, from, to time.Time) ([]*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var items []*Entry
	for _, e := range r.entries {
		d := calendar.Normalize(e.ScheduledDate)
		if !d.Before(calendar.Normalize(from)) && !d.After(calendar.Normalize(to)) {
			items = append(items, copyEntry(e))
		}
	}
	sortByDate(items)
	return items, nil
}

func (r *memEntryRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var items []*Entry
	for _, e := range r.entries {
		if e.PatientID == patientID {
			items = append(items, copyEntry(e))
		}
	}
	sortByDate(items)
	return items, nil
}

func (r *memEntryRepo) OpenByPatient(_ context.Context, patientID uuid.UUID) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.PatientID == patientID && !e.Status.Terminal() {
			return copyEntry(e), nil
		}
	}
	return nil, ErrEntryNotFound
}

// memRecordRepo is the in-memory RecordRepository.
type memRecordRepo struct {
	mu      sync.RWMutex
	records []*Record
}

func NewMemRecordRepo() RecordRepository {
	return &memRecordRepo{}
}

func (r *memRecordRepo) Create(_ context.Context, rec *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec.ID = uuid.New()
	rec.CreatedAt = time.Now()
	cp := *rec
	r.records = append(r.records, &cp)
	return nil
}

func (r *memRecordRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var items []*Record
	for _, rec := range r.records {
		if rec.PatientID == patientID {
			cp := *rec
			items = append(items, &cp)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Date.Before(items[j].Date) })
	return items, nil
}
