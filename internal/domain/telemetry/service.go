package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/paulaquitian5/Konoha-Medical-Corps/internal/platform/ws"
)

// IngestRequest is the body of POST /api/v1/telemetry. Vitals are
// generated server-side from the condition category.
type IngestRequest struct {
	MissionID string    `json:"missionId"`
	PatientID uuid.UUID `json:"subjectId"`
	Category  string    `json:"conditionCategory"`
	Location  *Location `json:"location,omitempty"`
}

type Service struct {
	records   Repository
	directory PatientDirectory
	gen       *Generator
	publisher ws.Publisher
}

func NewService(records Repository, directory PatientDirectory, gen *Generator, publisher ws.Publisher) *Service {
	return &Service{records: records, directory: directory, gen: gen, publisher: publisher}
}

// Ingest generates a vitals sample for the requested category, persists
// it as a new tracked record, and pushes a telemetry_update to the
// record's mission channel.
func (s *Service) Ingest(ctx context.Context, req IngestRequest) (*Record, error) {
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

	missionID := req.MissionID
	if missionID == "" {
		missionID = DefaultMissionID
	}

	rec := &Record{
		MissionID:  missionID,
		PatientID:  req.PatientID,
		Vitals:     s.gen.Generate(ParseCategory(req.Category)),
		Location:   req.Location,
		CapturedAt: time.Now().UTC(),
	}
	if err := s.records.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("persist telemetry record: %w", err)
	}

	s.publisher.Broadcast(missionID, ws.NewEvent(ws.EventTelemetryUpdate, missionID, rec))

	return rec, nil
}

// ListByMission returns a mission's records newest first.
func (s *Service) ListByMission(ctx context.Context, missionID string) ([]*Record, error) {
	return s.records.ListByMission(ctx, missionID)
}
