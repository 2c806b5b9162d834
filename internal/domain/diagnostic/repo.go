package diagnostic

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("diagnostic not found")
	ErrPatientNotFound  = errors.New("patient not found")
	ErrMissingPatientID = errors.New("subjectId is required")
)

// Repository stores diagnostic records. List results come back newest
// first.
type Repository interface {
	Create(ctx context.Context, d *Diagnostic) error
	List(ctx context.Context, limit, offset int) ([]*Diagnostic, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Diagnostic, error)
	LatestByPatient(ctx context.Context, patientID uuid.UUID) (*Diagnostic, error)
}

// PatientDirectory answers whether a patient exists before a diagnostic
// is recorded against them.
type PatientDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
