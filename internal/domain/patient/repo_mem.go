package patient

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memRepo is the in-memory Repository used when no database is configured.
type memRepo struct {
	mu       sync.RWMutex
	patients map[uuid.UUID]*Patient
	changes  map[uuid.UUID][]*IntervalChange
	seq      int
}

func NewMemRepo() Repository {
	return &memRepo{
		patients: make(map[uuid.UUID]*Patient),
		changes:  make(map[uuid.UUID][]*IntervalChange),
	}
}

func (r *memRepo) Create(_ context.Context, p *Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = uuid.New()
	if p.PublicID == "" {
		r.seq++
		p.PublicID = fmt.Sprintf("TH%03d", r.seq)
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	r.patients[p.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memRepo) GetByPublicID(_ context.Context, publicID string) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.patients {
		if p.PublicID == publicID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrPatientNotFound
}

func (r *memRepo) Update(_ context.Context, p *Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.patients[p.ID]; !ok {
		return ErrPatientNotFound
	}
	p.UpdatedAt = time.Now()
	cp := *p
	r.patients[p.ID] = &cp
	return nil
}

func (r *memRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*Patient, 0, len(r.patients))
	for _, p := range r.patients {
		cp := *p
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].PublicID < all[j].PublicID })
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (r *memRepo) AddIntervalChange(_ context.Context, ch *IntervalChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch.ID = uuid.New()
	if ch.ChangedAt.IsZero() {
		ch.ChangedAt = time.Now()
	}
	cp := *ch
	r.changes[ch.PatientID] = append(r.changes[ch.PatientID], &cp)
	return nil
}

func (r *memRepo) ListIntervalChanges(_ context.Context, patientID uuid.UUID) ([]*IntervalChange, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]*IntervalChange, 0, len(r.changes[patientID]))
	for _, ch := range r.changes[patientID] {
		cp := *ch
		items = append(items, &cp)
	}
	return items, nil
}
