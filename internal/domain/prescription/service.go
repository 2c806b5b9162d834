package prescription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidPrescription marks a request whose fields fail validation.
var ErrInvalidPrescription = errors.New("invalid prescription")

type Service struct {
	prescriptions Repository
	directory     PatientDirectory
}

func NewService(prescriptions Repository, directory PatientDirectory) *Service {
	return &Service{prescriptions: prescriptions, directory: directory}
}

// Create issues a new prescription. It starts unvalidated; a medic
// signs it later through Validate.
func (s *Service) Create(ctx context.Context, p *Prescription) error {
	if p.PatientID == uuid.Nil {
		return fmt.Errorf("%w: patient_id is required", ErrInvalidPrescription)
	}
	if p.PrescriberName == "" {
		return fmt.Errorf("%w: prescriber_name is required", ErrInvalidPrescription)
	}
	if len(p.Medications) == 0 {
		return fmt.Errorf("%w: at least one medication is required", ErrInvalidPrescription)
	}
	for i, m := range p.Medications {
		if m.Name == "" {
			return fmt.Errorf("%w: medications[%d].name is required", ErrInvalidPrescription, i)
		}
		if m.Dose == "" {
			return fmt.Errorf("%w: medications[%d].dose is required", ErrInvalidPrescription, i)
		}
	}

	ok, err := s.directory.Exists(ctx, p.PatientID)
	if err != nil {
		return fmt.Errorf("resolve patient %s: %w", p.PatientID, err)
	}
	if !ok {
		return ErrPatientNotFound
	}

	p.Validated = false
	p.ValidatedAt = nil
	p.DigitalSignature = nil

	return s.prescriptions.Create(ctx, p)
}

// Validate signs the prescription. A prescription can be signed once;
// a second attempt returns ErrAlreadyValidated.
func (s *Service) Validate(ctx context.Context, id uuid.UUID, signature string) (*Prescription, error) {
	if signature == "" {
		return nil, fmt.Errorf("%w: digital_signature is required", ErrInvalidPrescription)
	}
	return s.prescriptions.Validate(ctx, id, signature, time.Now().UTC())
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	return s.prescriptions.GetByID(ctx, id)
}

// List returns prescriptions newest first, with the total count for
// pagination.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*Prescription, int, error) {
	return s.prescriptions.List(ctx, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Prescription, error) {
	return s.prescriptions.ListByPatient(ctx, patientID)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.prescriptions.Delete(ctx, id)
}
