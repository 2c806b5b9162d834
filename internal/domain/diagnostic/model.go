// Package diagnostic runs the chakra diagnostic heuristic and keeps the
// append-only history of diagnostic records.
package diagnostic

import (
	"time"

	"github.com/google/uuid"
)

// Diagnostic results, in increasing order of concern.
const (
	ResultNormal           = "normal"
	ResultPossibleBlockage = "possible_blockage"
	ResultCriticalRisk     = "critical_risk"
	ResultIndeterminate    = "indeterminate"
)

// Record origins.
const (
	OriginAuto   = "auto"
	OriginManual = "manual"
)

// Chakra capacity levels.
const (
	CapacityLow    = "low"
	CapacityNormal = "normal"
	CapacityHigh   = "high"
)

// ChakraMetrics are the measured chakra parameters. Each field is
// optional; the heuristic only evaluates the ones that are present.
type ChakraMetrics struct {
	Power       *float64 `json:"power,omitempty"`
	Variability *float64 `json:"variability,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// ChakraInput is the telemetry fed to the diagnostic heuristic.
type ChakraInput struct {
	Type     string         `json:"type,omitempty"`
	Capacity string         `json:"capacity,omitempty"`
	Metrics  *ChakraMetrics `json:"metrics,omitempty"`
}

// Diagnostic is one stored diagnostic record. Records are immutable once
// created; a new request always appends a new record.
type Diagnostic struct {
	ID          uuid.UUID    `json:"id"`
	PatientID   uuid.UUID    `json:"subjectId"`
	Chakra      *ChakraInput `json:"chakraInput,omitempty"`
	Result      string       `json:"result"`
	Confidence  float64      `json:"confidence"`
	Explanation string       `json:"explanation"`
	Origin      string       `json:"origin"`
	CreatedAt   time.Time    `json:"createdAt"`
}
