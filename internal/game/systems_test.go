package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusForIntegrityThresholds(t *testing.T) {
	cases := []struct {
		integrity float64
		want      SystemStatus
	}{
		{100, StatusOnline},
		{90, StatusOnline},
		{89.9, StatusDegraded},
		{70, StatusDegraded},
		{69.9, StatusCritical},
		{40, StatusCritical},
		{39.9, StatusOffline},
		{0, StatusOffline},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusForIntegrity(tc.integrity), "integrity %.1f", tc.integrity)
	}
}

func TestDeriveMetricsCommunicationsUplink(t *testing.T) {
	for _, tc := range []struct {
		status SystemStatus
		uplink string
	}{
		{StatusOnline, "ACTIVE"},
		{StatusDegraded, "ACTIVE"},
		{StatusJammed, "INACTIVE"},
		{StatusOffline, "INACTIVE"},
		{StatusCritical, "INACTIVE"},
	} {
		metrics := DeriveMetrics(SysCommunications, tc.status, 80)
		require.Len(t, metrics, 2)
		assert.Equal(t, "Signal Strength", metrics[0].Label)
		assert.Equal(t, "80%", metrics[0].DisplayValue)
		assert.Equal(t, tc.uplink, metrics[1].DisplayValue, "status %s", tc.status)
	}
}

func TestDeriveMetricsEverySystemHasRows(t *testing.T) {
	for _, name := range SystemNames {
		metrics := DeriveMetrics(name, StatusOnline, 100)
		assert.NotEmpty(t, metrics, "system %s", name)
	}
}

func TestNewSystemStateMetricsTrackInputs(t *testing.T) {
	s := NewSystemState(SysWeapons, StatusOnline, 100)
	require.Len(t, s.Metrics, 2)
	assert.Equal(t, "READY", s.Metrics[1].DisplayValue)

	s = NewSystemState(SysWeapons, StatusCritical, 30)
	assert.Equal(t, "SAFED", s.Metrics[1].DisplayValue)
}
