package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitialDiagnostics(t *testing.T) {
	d := InitialDiagnostics()
	assert.Equal(t, 42.0, d.CPULoad)
	assert.Equal(t, 61.0, d.MemoryUsage)
	assert.Equal(t, 87.0, d.NetworkLatency)
	assert.Equal(t, 12.0, d.AIResponseTime)
	assert.Equal(t, 147.0, d.ActiveProcesses)
	assert.Equal(t, 0.3, d.ErrorRate)
	assert.Equal(t, 98.0, d.SystemIntegrity)
}

// TestStepStaysInBand walks 1000 steps and asserts every readout stays
// clamped to its band and never jumps more than its variance.
func TestStepStaysInBand(t *testing.T) {
	d := InitialDiagnostics()
	for i := 0; i < 1000; i++ {
		next := d.Step()

		assertBand(t, next.CPULoad, 10, 95)
		assertBand(t, next.MemoryUsage, 20, 90)
		assertBand(t, next.NetworkLatency, 5, 500)
		assertBand(t, next.AIResponseTime, 1, 200)
		assertBand(t, next.ActiveProcesses, 50, 300)
		assertBand(t, next.ErrorRate, 0, 10)
		assertBand(t, next.SystemIntegrity, 60, 100)

		assert.LessOrEqual(t, abs(next.CPULoad-d.CPULoad), 5.0)
		assert.LessOrEqual(t, abs(next.MemoryUsage-d.MemoryUsage), 3.0)
		assert.LessOrEqual(t, abs(next.NetworkLatency-d.NetworkLatency), 10.0)
		assert.LessOrEqual(t, abs(next.AIResponseTime-d.AIResponseTime), 8.0)
		assert.LessOrEqual(t, abs(next.ActiveProcesses-d.ActiveProcesses), 4.0)
		assert.LessOrEqual(t, abs(next.ErrorRate-d.ErrorRate), 0.5)
		assert.LessOrEqual(t, abs(next.SystemIntegrity-d.SystemIntegrity), 1.0)

		d = next
	}
}

func assertBand(t *testing.T, v, min, max float64) {
	t.Helper()
	assert.GreaterOrEqual(t, v, min)
	assert.LessOrEqual(t, v, max)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
