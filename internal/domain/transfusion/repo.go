package transfusion

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EntryRepository interface {
	Create(ctx context.Context, e *Entry) error
	GetByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	GetByPublicID(ctx context.Context, publicID string) (*Entry, error)
	Update(ctx context.Context, e *Entry) error
	// ListOpen returns every non-terminal entry, ascending by scheduled date.
	ListOpen(ctx context.Context) ([]*Entry, error)
	// ListBetween returns entries scheduled in [from, to] inclusive,
	// ascending by scheduled date.
	ListBetween(ctx context.Context, from, to time.Time) ([]*Entry, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Entry, error)
	// OpenByPatient returns the patient's single non-terminal entry, or
	// ErrEntryNotFound when the patient has none.
	OpenByPatient(ctx context.Context, patientID uuid.UUID) (*Entry, error)
}

type RecordRepository interface {
	Create(ctx context.Context, rec *Record) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Record, error)
}
