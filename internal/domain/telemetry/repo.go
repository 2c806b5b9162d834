package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrRecordNotFound is returned when a telemetry record id does not
	// resolve.
	ErrRecordNotFound = errors.New("telemetry record not found")

	// ErrPatientNotFound is returned when the referenced subject does not
	// resolve in the patient registry.
	ErrPatientNotFound = errors.New("patient not found")

	// ErrMissingPatientID is returned when an ingest request omits the
	// subject id.
	ErrMissingPatientID = errors.New("subjectId is required")
)

type Repository interface {
	Create(ctx context.Context, rec *Record) error
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	// UpdateVitals replaces the vitals and capture time of an existing
	// record, leaving its identity untouched.
	UpdateVitals(ctx context.Context, id uuid.UUID, v Vitals, capturedAt time.Time) error
	// ListByMission returns a mission's records newest first.
	ListByMission(ctx context.Context, missionID string) ([]*Record, error)
	// ListAll returns every tracked record; used by the resimulator.
	ListAll(ctx context.Context) ([]*Record, error)
}

// PatientDirectory resolves subject ids. Satisfied by the patient
// service.
type PatientDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
