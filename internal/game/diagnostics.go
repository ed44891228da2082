package game

import "math/rand/v2"

// Diagnostics holds the seven bounded random-walk readouts shown on the
// dashboard. Values move on UPDATE_DIAGNOSTICS and nowhere else.
type Diagnostics struct {
	CPULoad         float64 `json:"cpuLoad"`
	MemoryUsage     float64 `json:"memoryUsage"`
	NetworkLatency  float64 `json:"networkLatency"`
	AIResponseTime  float64 `json:"aiResponseTime"`
	ActiveProcesses float64 `json:"activeProcesses"`
	ErrorRate       float64 `json:"errorRate"`
	SystemIntegrity float64 `json:"systemIntegrity"`
}

// walkBand is the (variance, min, max) triple for one diagnostic field.
type walkBand struct {
	variance float64
	min      float64
	max      float64
}

var diagnosticBands = map[string]walkBand{
	"cpuLoad":         {5, 10, 95},
	"memoryUsage":     {3, 20, 90},
	"networkLatency":  {10, 5, 500},
	"aiResponseTime":  {8, 1, 200},
	"activeProcesses": {4, 50, 300},
	"errorRate":       {0.5, 0, 10},
	"systemIntegrity": {1, 60, 100},
}

// InitialDiagnostics returns the fixed boot-time readouts.
func InitialDiagnostics() Diagnostics {
	return Diagnostics{
		CPULoad:         42,
		MemoryUsage:     61,
		NetworkLatency:  87,
		AIResponseTime:  12,
		ActiveProcesses: 147,
		ErrorRate:       0.3,
		SystemIntegrity: 98,
	}
}

// Step advances every diagnostic by clamp(min, max, prev + uniform(-v, +v)).
//
// The formula is identical on every call; only the uniform draws differ.
// Tests assert the bands, not exact values.
func (d Diagnostics) Step() Diagnostics {
	return Diagnostics{
		CPULoad:         walk(d.CPULoad, diagnosticBands["cpuLoad"]),
		MemoryUsage:     walk(d.MemoryUsage, diagnosticBands["memoryUsage"]),
		NetworkLatency:  walk(d.NetworkLatency, diagnosticBands["networkLatency"]),
		AIResponseTime:  walk(d.AIResponseTime, diagnosticBands["aiResponseTime"]),
		ActiveProcesses: walk(d.ActiveProcesses, diagnosticBands["activeProcesses"]),
		ErrorRate:       walk(d.ErrorRate, diagnosticBands["errorRate"]),
		SystemIntegrity: walk(d.SystemIntegrity, diagnosticBands["systemIntegrity"]),
	}
}

func walk(prev float64, b walkBand) float64 {
	next := prev + (rand.Float64()*2-1)*b.variance
	return clamp(b.min, b.max, next)
}

func clamp(min, max, v float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
