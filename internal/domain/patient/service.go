package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	patients Repository
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

var validStatuses = map[string]bool{
	StatusActive: true, StatusDeceased: true, StatusInactive: true,
}

var validCapacities = map[string]bool{
	CapacityLow: true, CapacityNormal: true, CapacityHigh: true,
}

var validConditions = map[string]bool{
	"stable": true, "urgent": true, "critical": true,
}

func (s *Service) validate(p *Patient) error {
	if p.FirstName == "" {
		return fmt.Errorf("first_name is required")
	}
	if p.LastName == "" {
		return fmt.Errorf("last_name is required")
	}
	if p.BirthDate.IsZero() {
		return fmt.Errorf("birth_date is required")
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	if !validStatuses[p.Status] {
		return fmt.Errorf("invalid status: %s", p.Status)
	}
	if p.ChakraCapacity == "" {
		p.ChakraCapacity = CapacityNormal
	}
	if !validCapacities[p.ChakraCapacity] {
		return fmt.Errorf("invalid chakra_capacity: %s", p.ChakraCapacity)
	}
	if p.CurrentCondition == "" {
		p.CurrentCondition = "stable"
	}
	if !validConditions[p.CurrentCondition] {
		return fmt.Errorf("invalid current_condition: %s", p.CurrentCondition)
	}
	return nil
}

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if err := s.validate(p); err != nil {
		return err
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	if err := s.validate(p); err != nil {
		return err
	}
	return s.patients.Update(ctx, p)
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

// Exists reports whether the patient id resolves. It backs the
// PatientDirectory lookup the telemetry, diagnostic, and emergency
// services depend on.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.patients.Exists(ctx, id)
}
