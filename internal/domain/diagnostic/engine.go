package diagnostic

import "strings"

// Assessment is the outcome of running the heuristic over one chakra
// reading.
type Assessment struct {
	Result      string  `json:"result"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
}

// Safe body-temperature envelope for chakra tissue, in Celsius. Readings
// strictly outside the envelope count as a critical signal.
const (
	tempSafeMin = 30.0
	tempSafeMax = 45.0
)

type rule struct {
	name    string
	matches func(*ChakraInput) bool
	outcome Assessment
}

// rules is evaluated top to bottom and the first match wins, so order
// carries meaning: more alarming outcomes shadow the benign ones.
var rules = []rule{
	{
		name:    "missing_input",
		matches: func(c *ChakraInput) bool { return c == nil },
		outcome: Assessment{
			Result:      ResultIndeterminate,
			Confidence:  0.20,
			Explanation: "no chakra telemetry supplied, unable to evaluate",
		},
	},
	{
		name: "critical_risk",
		matches: func(c *ChakraInput) bool {
			m := c.Metrics
			if m == nil {
				return false
			}
			if m.Variability != nil && *m.Variability >= 85 {
				return true
			}
			return m.Temperature != nil && (*m.Temperature < tempSafeMin || *m.Temperature > tempSafeMax)
		},
		outcome: Assessment{
			Result:      ResultCriticalRisk,
			Confidence:  0.92,
			Explanation: "chakra variability or temperature outside the safe envelope",
		},
	},
	{
		name: "possible_blockage",
		matches: func(c *ChakraInput) bool {
			if capacityOf(c) == CapacityLow {
				return true
			}
			m := c.Metrics
			return m != nil && m.Variability != nil && *m.Variability >= 50
		},
		outcome: Assessment{
			Result:      ResultPossibleBlockage,
			Confidence:  0.75,
			Explanation: "low capacity or elevated variability suggests a chakra flow blockage",
		},
	},
	{
		name: "normal",
		matches: func(c *ChakraInput) bool {
			cap := capacityOf(c)
			if cap != CapacityNormal && cap != CapacityHigh {
				return false
			}
			m := c.Metrics
			if m == nil || m.Power == nil || m.Variability == nil {
				return false
			}
			return *m.Power >= 60 && *m.Variability < 50
		},
		outcome: Assessment{
			Result:      ResultNormal,
			Confidence:  0.88,
			Explanation: "chakra pattern within expected ranges",
		},
	},
}

var fallback = Assessment{
	Result:      ResultIndeterminate,
	Confidence:  0.45,
	Explanation: "inconclusive pattern, further telemetry or medical review required",
}

// Diagnose evaluates one chakra reading. It is total: any input,
// including a nil one, yields an assessment.
func Diagnose(chakra *ChakraInput) Assessment {
	for _, r := range rules {
		if r.matches(chakra) {
			return r.outcome
		}
	}
	return fallback
}

func capacityOf(c *ChakraInput) string {
	return strings.ToLower(strings.TrimSpace(c.Capacity))
}
