package diagnostic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidOverride marks a manual diagnostic request whose override
// fields are missing or out of range.
var ErrInvalidOverride = errors.New("invalid manual override")

// DiagnoseRequest is the body of POST /api/v1/diagnostics. For an auto
// diagnostic the heuristic decides the outcome and the override fields
// are ignored. For a manual one the caller supplies the outcome in full.
type DiagnoseRequest struct {
	PatientID   uuid.UUID    `json:"subjectId"`
	Chakra      *ChakraInput `json:"chakraInput,omitempty"`
	Origin      string       `json:"origin,omitempty"`
	Result      string       `json:"result,omitempty"`
	Confidence  *float64     `json:"confidence,omitempty"`
	Explanation string       `json:"explanation,omitempty"`
}

type Service struct {
	diagnostics Repository
	directory   PatientDirectory
}

func NewService(diagnostics Repository, directory PatientDirectory) *Service {
	return &Service{diagnostics: diagnostics, directory: directory}
}

// Diagnose records a new diagnostic for the patient. Auto diagnostics
// run the heuristic over the supplied chakra reading; manual ones store
// the caller's assessment verbatim after validation.
func (s *Service) Diagnose(ctx context.Context, req DiagnoseRequest) (*Diagnostic, error) {
	if req.PatientID == uuid.Nil {
		return nil, ErrMissingPatientID
	}

	ok, err := s.directory.Exists(ctx, req.PatientID)
	if err != nil {
		return nil, fmt.Errorf("resolve patient %s: %w", req.PatientID, err)
	}
	if !ok {
		return nil, ErrPatientNotFound
	}

	origin := req.Origin
	if origin == "" {
		origin = OriginAuto
	}

	var assessment Assessment
	switch origin {
	case OriginAuto:
		assessment = Diagnose(req.Chakra)
	case OriginManual:
		assessment, err = manualAssessment(req)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown origin %q", ErrInvalidOverride, req.Origin)
	}

	d := &Diagnostic{
		PatientID:   req.PatientID,
		Chakra:      req.Chakra,
		Result:      assessment.Result,
		Confidence:  assessment.Confidence,
		Explanation: assessment.Explanation,
		Origin:      origin,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.diagnostics.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("persist diagnostic: %w", err)
	}
	return d, nil
}

func manualAssessment(req DiagnoseRequest) (Assessment, error) {
	switch req.Result {
	case ResultNormal, ResultPossibleBlockage, ResultCriticalRisk, ResultIndeterminate:
	case "":
		return Assessment{}, fmt.Errorf("%w: result is required", ErrInvalidOverride)
	default:
		return Assessment{}, fmt.Errorf("%w: unknown result %q", ErrInvalidOverride, req.Result)
	}
	if req.Confidence == nil {
		return Assessment{}, fmt.Errorf("%w: confidence is required", ErrInvalidOverride)
	}
	if *req.Confidence < 0 || *req.Confidence > 1 {
		return Assessment{}, fmt.Errorf("%w: confidence must be between 0 and 1", ErrInvalidOverride)
	}
	if req.Explanation == "" {
		return Assessment{}, fmt.Errorf("%w: explanation is required", ErrInvalidOverride)
	}
	return Assessment{
		Result:      req.Result,
		Confidence:  *req.Confidence,
		Explanation: req.Explanation,
	}, nil
}

// List returns diagnostics newest first, with the total count for
// pagination.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*Diagnostic, int, error) {
	return s.diagnostics.List(ctx, limit, offset)
}

// ListByPatient returns a patient's diagnostic history newest first.
func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Diagnostic, error) {
	return s.diagnostics.ListByPatient(ctx, patientID)
}

// LatestByPatient returns the patient's most recent diagnostic.
func (s *Service) LatestByPatient(ctx context.Context, patientID uuid.UUID) (*Diagnostic, error) {
	return s.diagnostics.LatestByPatient(ctx, patientID)
}
