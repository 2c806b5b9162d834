// Package emergency manages field alerts: raising them, listing them
// for the dashboard, and marking them attended.
package emergency

import (
	"time"

	"github.com/google/uuid"
)

// DefaultMissionID is used for alerts raised outside any mission.
const DefaultMissionID = "N/A"

// Alert types.
const (
	TypeChakra      = "chakra"
	TypeVitals      = "vitals"
	TypeTemperature = "temperature"
	TypePressure    = "pressure"
	TypeOther       = "other"
)

// Severity levels, in increasing order of urgency.
const (
	SeverityModerate = "moderate"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Alert is one emergency raised for a patient. Attended is a one-way
// flag: once set it never clears.
type Alert struct {
	ID          uuid.UUID  `json:"id"`
	MissionID   string     `json:"missionId"`
	PatientID   uuid.UUID  `json:"subjectId"`
	AlertType   string     `json:"alertType"`
	Severity    string     `json:"severity"`
	Description string     `json:"description"`
	Attended    bool       `json:"attended"`
	CreatedAt   time.Time  `json:"createdAt"`
	AttendedAt  *time.Time `json:"attendedAt,omitempty"`
}

func validAlertType(t string) bool {
	switch t {
	case TypeChakra, TypeVitals, TypeTemperature, TypePressure, TypeOther:
		return true
	}
	return false
}

func validSeverity(s string) bool {
	switch s {
	case SeverityModerate, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}
