package emergency

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("alert not found")
	ErrPatientNotFound  = errors.New("patient not found")
	ErrMissingPatientID = errors.New("subjectId is required")
)

// Repository stores alerts. List results come back newest first.
type Repository interface {
	Create(ctx context.Context, a *Alert) error
	GetByID(ctx context.Context, id uuid.UUID) (*Alert, error)
	Update(ctx context.Context, a *Alert) error
	List(ctx context.Context, limit, offset int) ([]*Alert, int, error)
	ListCritical(ctx context.Context) ([]*Alert, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Alert, error)
	// MarkAttended flips the attended flag. The bool reports whether
	// this call performed the transition, so callers can emit the
	// resolved event exactly once.
	MarkAttended(ctx context.Context, id uuid.UUID) (*Alert, bool, error)
}

// PatientDirectory answers whether a patient exists before an alert is
// raised against them.
type PatientDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
