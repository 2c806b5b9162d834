// Package patient is the registry of monitored subjects. The telemetry,
// diagnostic, and emergency services resolve patient ids against it before
// accepting a record.
package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient status values.
const (
	StatusActive   = "active"
	StatusDeceased = "deceased"
	StatusInactive = "inactive"
)

// Chakra capacity values, shared with the diagnostic engine input.
const (
	CapacityLow    = "low"
	CapacityNormal = "normal"
	CapacityHigh   = "high"
)

// Patient maps to the patient table.
type Patient struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	FirstName        string     `db:"first_name" json:"first_name"`
	LastName         string     `db:"last_name" json:"last_name"`
	Village          *string    `db:"village" json:"village,omitempty"`
	Clan             *string    `db:"clan" json:"clan,omitempty"`
	Rank             *string    `db:"rank" json:"rank,omitempty"`
	BirthDate        time.Time  `db:"birth_date" json:"birth_date"`
	Sex              *string    `db:"sex" json:"sex,omitempty"`
	Status           string     `db:"status" json:"status"`
	BloodType        *string    `db:"blood_type" json:"blood_type,omitempty"`
	ChakraType       *string    `db:"chakra_type" json:"chakra_type,omitempty"`
	ChakraCapacity   string     `db:"chakra_capacity" json:"chakra_capacity"`
	CurrentCondition string     `db:"current_condition" json:"current_condition"`
	Phone            *string    `db:"phone" json:"phone,omitempty"`
	Email            *string    `db:"email" json:"email,omitempty"`
	MedicalHistory   *string    `db:"medical_history" json:"medical_history,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// Age computes the patient's age in whole years at the given instant.
func (p *Patient) Age(now time.Time) int {
	years := now.Year() - p.BirthDate.Year()
	anniversary := p.BirthDate.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}

// Summary is the condensed view shown on dashboard patient cards.
type Summary struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Age              int       `json:"age"`
	Village          string    `json:"village,omitempty"`
	Clan             string    `json:"clan,omitempty"`
	Rank             string    `json:"rank,omitempty"`
	Status           string    `json:"status"`
	ChakraType       string    `json:"chakra_type,omitempty"`
	BloodType        string    `json:"blood_type,omitempty"`
	CurrentCondition string    `json:"current_condition"`
	CreatedAt        time.Time `json:"created_at"`
}

func (p *Patient) Summary() Summary {
	return Summary{
		ID:               p.ID,
		Name:             p.FirstName + " " + p.LastName,
		Age:              p.Age(time.Now()),
		Village:          deref(p.Village),
		Clan:             deref(p.Clan),
		Rank:             deref(p.Rank),
		Status:           p.Status,
		ChakraType:       deref(p.ChakraType),
		BloodType:        deref(p.BloodType),
		CurrentCondition: p.CurrentCondition,
		CreatedAt:        p.CreatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
