package prescription

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("prescription not found")
	ErrPatientNotFound  = errors.New("patient not found")
	ErrAlreadyValidated = errors.New("prescription already validated")
)

// Repository stores prescriptions. List results come back newest first.
type Repository interface {
	Create(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error)
	List(ctx context.Context, limit, offset int) ([]*Prescription, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Prescription, error)
	// Validate signs the prescription. Returns ErrAlreadyValidated if
	// it has been signed before.
	Validate(ctx context.Context, id uuid.UUID, signature string, at time.Time) (*Prescription, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PatientDirectory answers whether a patient exists before a
// prescription is issued to them.
type PatientDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
