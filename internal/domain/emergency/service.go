package emergency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/paulaquitian5/Konoha-Medical-Corps/internal/platform/ws"
)

// ErrInvalidAlert marks a request whose fields fail validation.
var ErrInvalidAlert = errors.New("invalid alert")

// RaiseRequest is the body of POST /api/v1/alerts.
type RaiseRequest struct {
	MissionID   string    `json:"missionId"`
	PatientID   uuid.UUID `json:"subjectId"`
	AlertType   string    `json:"alertType"`
	Severity    string    `json:"severity"`
	Description string    `json:"description"`
}

// UpdateRequest is the body of PUT /api/v1/alerts/:id. Empty fields are
// left unchanged.
type UpdateRequest struct {
	MissionID   string `json:"missionId"`
	AlertType   string `json:"alertType"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

type Service struct {
	alerts    Repository
	directory PatientDirectory
	publisher ws.Publisher
}

func NewService(alerts Repository, directory PatientDirectory, publisher ws.Publisher) *Service {
	return &Service{alerts: alerts, directory: directory, publisher: publisher}
}

// Raise records a new alert and pushes an alert_raised event to every
// connected dashboard. Alerts cut across missions, so the event goes to
// all clients rather than one mission channel.
func (s *Service) Raise(ctx context.Context, req RaiseRequest) (*Alert, error) {
	if req.PatientID == uuid.Nil {
		return nil, ErrMissingPatientID
	}
	if req.Description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidAlert)
	}

	alertType := req.AlertType
	if alertType == "" {
		alertType = TypeOther
	}
	if !validAlertType(alertType) {
		return nil, fmt.Errorf("%w: unknown alert type %q", ErrInvalidAlert, req.AlertType)
	}
	if !validSeverity(req.Severity) {
		return nil, fmt.Errorf("%w: unknown severity %q", ErrInvalidAlert, req.Severity)
	}

	ok, err := s.directory.Exists(ctx, req.PatientID)
	if err != nil {
		return nil, fmt.Errorf("resolve patient %s: %w", req.PatientID, err)
	}
	if !ok {
		return nil, ErrPatientNotFound
	}

	missionID := req.MissionID
	if missionID == "" {
		missionID = DefaultMissionID
	}

	a := &Alert{
		MissionID:   missionID,
		PatientID:   req.PatientID,
		AlertType:   alertType,
		Severity:    req.Severity,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.alerts.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("persist alert: %w", err)
	}

	s.publisher.BroadcastAll(ws.NewEvent(ws.EventAlertRaised, a.MissionID, a))

	return a, nil
}

// Attend marks the alert attended. Calling it again on an attended
// alert succeeds without effect; the alert_resolved event is pushed
// only on the first transition.
func (s *Service) Attend(ctx context.Context, id uuid.UUID) (*Alert, error) {
	a, changed, err := s.alerts.MarkAttended(ctx, id)
	if err != nil {
		return nil, err
	}
	if changed {
		s.publisher.BroadcastAll(ws.NewEvent(ws.EventAlertResolved, a.MissionID, a))
	}
	return a, nil
}

// Update edits an alert's descriptive fields. The attended flag is only
// reachable through Attend.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Alert, error) {
	a, err := s.alerts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.MissionID != "" {
		a.MissionID = req.MissionID
	}
	if req.AlertType != "" {
		if !validAlertType(req.AlertType) {
			return nil, fmt.Errorf("%w: unknown alert type %q", ErrInvalidAlert, req.AlertType)
		}
		a.AlertType = req.AlertType
	}
	if req.Severity != "" {
		if !validSeverity(req.Severity) {
			return nil, fmt.Errorf("%w: unknown severity %q", ErrInvalidAlert, req.Severity)
		}
		a.Severity = req.Severity
	}
	if req.Description != "" {
		a.Description = req.Description
	}

	if err := s.alerts.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Alert, error) {
	return s.alerts.GetByID(ctx, id)
}

// List returns alerts newest first, with the total count for
// pagination.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*Alert, int, error) {
	return s.alerts.List(ctx, limit, offset)
}

// ListCritical returns every critical alert, attended or not.
func (s *Service) ListCritical(ctx context.Context) ([]*Alert, error) {
	return s.alerts.ListCritical(ctx)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Alert, error) {
	return s.alerts.ListByPatient(ctx, patientID)
}
