package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetByPublicID(ctx context.Context, publicID string) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
	AddIntervalChange(ctx context.Context, ch *IntervalChange) error
	ListIntervalChanges(ctx context.Context, patientID uuid.UUID) ([]*IntervalChange, error)
}
