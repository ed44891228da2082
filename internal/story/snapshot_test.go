package story

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helios-os/helios/internal/game"
	"github.com/helios-os/helios/internal/machine"
)

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := InitialContext()
	ctx = ctx.WithCommanderName("Vega").
		WithCommands(revelationRegistry).
		WithCommandContent(revelationContent).
		IncrementCommandCount("help")
	cfg := machine.Config{RegionShipboard: StateOperations, RegionNarrative: StateRevelation}

	snap := Take(cfg, ctx)

	// Snapshots must survive serialization; that is their whole point.
	payload, err := json.Marshal(snap)
	require.NoError(t, err)
	var decoded Snapshot
	require.NoError(t, json.Unmarshal(payload, &decoded))

	restoredCfg, restoredCtx, err := Restore(decoded)
	require.NoError(t, err)

	assert.Equal(t, cfg, restoredCfg)
	assert.Equal(t, "Vega", restoredCtx.CommanderName)
	assert.Equal(t, 1, restoredCtx.CommandCount("help"))
	assert.Equal(t, "revelation", restoredCtx.AvailableCommands.Name())
	assert.True(t, restoredCtx.AvailableCommands.Has("overwrite"))

	// Function-backed overrides rebind through the content registry.
	assert.Equal(t, "revelation/whoami", restoredCtx.CommandContent["whoami"].FuncName)
}

func TestSnapshotIsInsulatedFromLaterMutation(t *testing.T) {
	ctx := InitialContext().WithCommands(orientationRegistry)
	cfg := machine.Config{RegionShipboard: StateOperations, RegionNarrative: StateOrientation}

	snap := Take(cfg, ctx)
	cfg[RegionNarrative] = StateLockdown

	assert.Equal(t, StateOrientation, snap.State[RegionNarrative])
}

func TestRestoreUnknownRegistryFails(t *testing.T) {
	snap := Snapshot{
		State:   machine.Config{RegionNarrative: StateOrientation},
		Context: game.ContextRecord{AvailableCommands: "no-such-registry"},
	}
	_, _, err := Restore(snap)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-registry")
}
