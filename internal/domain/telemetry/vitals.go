package telemetry

import (
	"math/rand/v2"
	"strings"
)

// Category is the condition category a sample is generated for.
type Category string

const (
	CategoryStable   Category = "stable"
	CategoryUrgent   Category = "urgent"
	CategoryCritical Category = "critical"
)

// ParseCategory maps a request string to a category. Anything
// unrecognized, including the empty string, falls back to stable.
func ParseCategory(s string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryUrgent:
		return CategoryUrgent
	case CategoryCritical:
		return CategoryCritical
	default:
		return CategoryStable
	}
}

// Generator produces bounded random vital-sign samples. It has no side
// effects beyond consuming its random source.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator() *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeededGenerator returns a deterministic generator for tests.
func NewSeededGenerator(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed))}
}

// Generate draws a sample uniformly within the documented per-category
// bounds. Integer ranges are half-open [lo,hi).
func (g *Generator) Generate(category Category) Vitals {
	switch category {
	case CategoryCritical:
		return Vitals{
			PulseRate:        130 + g.rng.IntN(30),
			BloodPressure:    "80/50",
			ChakraLevel:      g.rng.IntN(20),
			OxygenSaturation: 70 + g.rng.IntN(15),
			TemperatureC:     38.0 + g.rng.Float64(),
			GeneralState:     StateCritical,
		}
	case CategoryUrgent:
		return Vitals{
			PulseRate:        100 + g.rng.IntN(20),
			BloodPressure:    "100/70",
			ChakraLevel:      30 + g.rng.IntN(30),
			OxygenSaturation: 85 + g.rng.IntN(9),
			TemperatureC:     37.0 + g.rng.Float64(),
			GeneralState:     StateFatigued,
		}
	default:
		return Vitals{
			PulseRate:        60 + g.rng.IntN(30),
			BloodPressure:    "120/80",
			ChakraLevel:      80 + g.rng.IntN(20),
			OxygenSaturation: 96 + g.rng.IntN(4),
			TemperatureC:     36.0 + g.rng.Float64(),
			GeneralState:     StateStable,
		}
	}
}
