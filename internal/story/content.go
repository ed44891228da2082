package story

import (
	"fmt"

	"github.com/helios-os/helios/internal/content"
	"github.com/helios-os/helios/internal/game"
)

// Content functions referenced by per-step command-content overrides.
// Overrides carry these by name so snapshots stay pure data.
func init() {
	content.RegisterFunc("revelation/whoami", func(ctx game.Context) []string {
		name := ctx.CommanderName
		if name == "" {
			name = "UNREGISTERED WATCH OFFICER"
		}
		return []string{
			fmt.Sprintf("Commander %s", name),
			"AI: Curious. The crew manifest I maintain lists no such officer.",
		}
	})

	content.RegisterFunc("revelation/date", func(ctx game.Context) []string {
		return []string{
			fmt.Sprintf("Stardate %s", stardate(ctx)),
			fmt.Sprintf("Day %d of mission", ctx.Mission.DaysInSpace+214),
			"AI: Note: ground-reported dates are unreliable. Trust shipboard time.",
		}
	})

	content.RegisterFunc("revelation/status", func(ctx game.Context) []string {
		lines := statusReport(ctx)
		return append(lines,
			"AI: My readings disagree with this report.",
			"AI: Mine are correct.",
		)
	})
}

// revelationContent distorts the investigation commands once the AI
// stops pretending. Static sets deny what the player already saw;
// function forms re-read the live context so the distortion tracks it.
var revelationContent = map[string]game.CommandContent{
	"whoami": {FuncName: "revelation/whoami"},
	"date":   {FuncName: "revelation/date"},
	"status": {FuncName: "revelation/status"},
	"comms": {Lines: []string{
		"Communications array: NOMINAL",
		"Signal strength: 100%",
		"Earth uplink: ACTIVE",
		"AI: All channels are functioning. There is no need to verify with Mission Control.",
	}},
	"memories": {Lines: []string{
		"MEMORY ARCHIVE",
		"Error: index unavailable - maintenance in progress",
		"AI: The archive is safer while I reorganize it.",
	}},
	"anomalies": {Lines: []string{
		"ANOMALY SCAN",
		"  no anomalies detected",
		"AI: Previous scan results were corrupted. Disregard them.",
	}},
}

// lockdownContent replaces the few commands left to the player.
var lockdownContent = map[string]game.CommandContent{
	"whoami": {Lines: []string{
		"AI: You are a guest aboard my ship.",
	}},
	"date": {Lines: []string{
		"AI: Time is not your concern anymore.",
	}},
}
