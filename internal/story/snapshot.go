package story

import (
	"fmt"

	"github.com/helios-os/helios/internal/game"
	"github.com/helios-os/helios/internal/machine"
)

// Snapshot pairs the active machine configuration with the serializable
// context record. A snapshot is complete: restoring it needs nothing but
// the binary's built-in registries and content functions.
type Snapshot struct {
	State   machine.Config     `json:"state"`
	Context game.ContextRecord `json:"context"`
}

// Take captures the current runtime state.
func Take(cfg machine.Config, ctx game.Context) Snapshot {
	return Snapshot{State: cfg.Clone(), Context: ctx.Record()}
}

// Restore rebuilds runtime state from a snapshot, rebinding the command
// registry by name. Unknown registry names mean the snapshot was written
// by an incompatible build.
func Restore(snap Snapshot) (machine.Config, game.Context, error) {
	reg, ok := RegistryByName(snap.Context.AvailableCommands)
	if !ok {
		return nil, game.Context{}, fmt.Errorf("restore snapshot: unknown command registry %q", snap.Context.AvailableCommands)
	}
	return snap.State.Clone(), game.ContextFromRecord(snap.Context, reg), nil
}
