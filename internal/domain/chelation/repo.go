package chelation

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, sch *Schedule) error
	GetByID(ctx context.Context, id uuid.UUID) (*Schedule, error)
	Update(ctx context.Context, sch *Schedule) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Schedule, error)
}
