// Package telemetry implements the vitals telemetry pipeline: bounded
// random vital-sign generation per condition category, persistence keyed
// by subject and mission, mission-scoped real-time fan-out, and the
// periodic resimulation of every tracked record.
package telemetry

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// General state of a monitored subject, carried inside the vitals block.
const (
	StateStable   = "Stable"
	StateFatigued = "Fatigued"
	StateCritical = "Critical"
)

// DefaultMissionID is assigned when an ingest request carries no mission.
const DefaultMissionID = "M-TEST"

// Vitals is one vital-sign sample.
type Vitals struct {
	PulseRate        int     `json:"pulseRate"`
	BloodPressure    string  `json:"bloodPressure"`
	ChakraLevel      int     `json:"chakraLevel"`
	OxygenSaturation int     `json:"oxygenSaturation"`
	TemperatureC     float64 `json:"temperatureC"`
	GeneralState     string  `json:"generalState"`
}

// Validate enforces the sample invariants: positive pulse, chakra and
// oxygen saturation within [0,100].
func (v Vitals) Validate() error {
	if v.PulseRate <= 0 {
		return fmt.Errorf("pulse rate must be positive, got %d", v.PulseRate)
	}
	if v.ChakraLevel < 0 || v.ChakraLevel > 100 {
		return fmt.Errorf("chakra level out of range [0,100]: %d", v.ChakraLevel)
	}
	if v.OxygenSaturation < 0 || v.OxygenSaturation > 100 {
		return fmt.Errorf("oxygen saturation out of range [0,100]: %d", v.OxygenSaturation)
	}
	return nil
}

// Category derives the condition category the resimulator feeds back into
// the generator from the stored general state.
func (v Vitals) Category() Category {
	switch v.GeneralState {
	case StateCritical:
		return CategoryCritical
	case StateFatigued:
		return CategoryUrgent
	default:
		return CategoryStable
	}
}

// Location is an optional field position attached to a record.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Record is a tracked telemetry record. Its identity (id, mission,
// subject) is fixed at ingestion; the resimulator replaces only the vitals
// and capture time on each tick. Records are never deleted by this
// package.
type Record struct {
	ID         uuid.UUID `json:"id"`
	MissionID  string    `json:"missionId"`
	PatientID  uuid.UUID `json:"subjectId"`
	Vitals     Vitals    `json:"vitals"`
	Location   *Location `json:"location,omitempty"`
	CapturedAt time.Time `json:"capturedAt"`
}
