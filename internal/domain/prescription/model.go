// Package prescription manages medical prescriptions issued to
// patients, including their validation by a signing medic.
package prescription

import (
	"time"

	"github.com/google/uuid"
)

// Medication is one line item on a prescription.
type Medication struct {
	Name      string `json:"name"`
	Dose      string `json:"dose"`
	Frequency string `json:"frequency,omitempty"`
	Duration  string `json:"duration,omitempty"`
}

// Prescription maps to the prescription table. Medications are stored
// as a JSON document alongside the row.
type Prescription struct {
	ID               uuid.UUID    `db:"id" json:"id"`
	PatientID        uuid.UUID    `db:"patient_id" json:"patient_id"`
	PrescriberName   string       `db:"prescriber_name" json:"prescriber_name"`
	Medications      []Medication `db:"medications" json:"medications"`
	Notes            *string      `db:"notes" json:"notes,omitempty"`
	DigitalSignature *string      `db:"digital_signature" json:"digital_signature,omitempty"`
	Validated        bool         `db:"validated" json:"validated"`
	ValidatedAt      *time.Time   `db:"validated_at" json:"validated_at,omitempty"`
	CreatedAt        time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time    `db:"updated_at" json:"updated_at"`
}
