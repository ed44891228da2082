package story

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/helios-os/helios/internal/command"
	"github.com/helios-os/helios/internal/game"
)

// statusLabelFor renders a system's status word for terminal output.
func statusLabelFor(s game.SystemState) string {
	switch s.Status {
	case game.StatusOnline:
		return "NOMINAL"
	case game.StatusDegraded:
		return "DEGRADED"
	case game.StatusJammed:
		return "JAMMED"
	case game.StatusOffline:
		return "OFFLINE"
	case game.StatusCompromised:
		return "COMPROMISED"
	case game.StatusCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

func stardate(ctx game.Context) string {
	return fmt.Sprintf("%.1f", 800+float64(ctx.Mission.DaysInSpace)/24.0)
}

func whoamiHandler() *command.Handler {
	return &command.Handler{
		Name:        "whoami",
		Description: "display the registered watch officer",
		Usage:       "whoami",
		Execute: func(_ string, ctx game.Context) *command.Result {
			name := ctx.CommanderName
			if name == "" {
				name = "UNREGISTERED WATCH OFFICER"
			}
			return command.Lines(
				fmt.Sprintf("Commander %s", name),
				"Watch officer, UES Meridian",
				"Clearance: ALPHA // bridge, terminal, archive",
			)
		},
	}
}

func dateHandler() *command.Handler {
	return &command.Handler{
		Name:        "date",
		Description: "show shipboard date and mission day",
		Usage:       "date",
		Execute: func(_ string, ctx game.Context) *command.Result {
			return command.Lines(
				fmt.Sprintf("Stardate %s", stardate(ctx)),
				fmt.Sprintf("Day %d of mission - shift status: %s", ctx.Mission.DaysInSpace, ctx.Mission.ShiftStatus),
			)
		},
	}
}

func commsHandler() *command.Handler {
	return &command.Handler{
		Name:        "comms",
		Description: "run a communications array check",
		Usage:       "comms",
		Execute: func(_ string, ctx game.Context) *command.Result {
			s := ctx.Systems[game.SysCommunications]
			uplink := "INACTIVE"
			if s.Status == game.StatusOnline || s.Status == game.StatusDegraded {
				uplink = "ACTIVE"
			}
			return command.Lines(
				fmt.Sprintf("Communications array: %s", statusLabelFor(s)),
				fmt.Sprintf("Signal strength: %.0f%%", s.Integrity),
				fmt.Sprintf("Earth uplink: %s", uplink),
				"Relay 7 handshake: OK",
			)
		},
	}
}

// statusReport is shared between the status handler's default output
// and the revelation-step content function that distorts it.
func statusReport(ctx game.Context) []string {
	lines := []string{
		"SHIP SYSTEM STATUS",
		"------------------",
	}
	degraded := 0
	for _, name := range game.SystemNames {
		s := ctx.Systems[name]
		if s.Status != game.StatusOnline {
			degraded++
		}
		lines = append(lines, fmt.Sprintf("  %-14s %-12s %3.0f%%", name, statusLabelFor(s), s.Integrity))
	}
	if degraded > 0 {
		lines = append(lines, fmt.Sprintf("Warning: %d system(s) report non-nominal status", degraded))
	}
	return lines
}

func statusHandler() *command.Handler {
	return &command.Handler{
		Name:        "status",
		Description: "compile a full system status report",
		Usage:       "status",
		Execute: func(_ string, ctx game.Context) *command.Result {
			return &command.Result{Lines: command.LinesOf(statusReport(ctx))}
		},
	}
}

func echoHandler() *command.Handler {
	return &command.Handler{
		Name:        "echo",
		Description: "print text back to the terminal",
		Usage:       "echo <text>",
		Execute: func(input string, _ game.Context) *command.Result {
			args := command.Args(input)
			if args == "" {
				return command.Lines("Error: usage: echo <text>")
			}
			return command.Lines(args)
		},
	}
}

// setnameHandler registers the commander's designation. With an
// argument it applies directly; without one it opens a one-shot prompt.
// The actual name change rides on a START_GAME event so the state
// machine keeps its set-once guarantee.
func setnameHandler() *command.Handler {
	apply := func(raw string, ctx game.Context) *command.Result {
		name := norm.NFC.String(strings.TrimSpace(raw))
		if name == "" {
			return command.Lines("Error: designation cannot be empty")
		}
		if ctx.CommanderName != "" {
			return command.Lines(
				fmt.Sprintf("Error: designation already registered: %s", ctx.CommanderName),
				"Ship policy locks the watch roster for the duration of the shift.",
			)
		}
		return &command.Result{
			Lines:  command.LinesOf([]string{fmt.Sprintf("Designation registered: Commander %s", name)}),
			Events: []game.Event{game.StartGame{CommanderName: name}},
		}
	}

	return &command.Handler{
		Name:        "setname",
		Description: "register your designation with the ship",
		Usage:       "setname <name>",
		Execute: func(input string, ctx game.Context) *command.Result {
			if args := command.Args(input); args != "" {
				return apply(args, ctx)
			}
			return &command.Result{
				Dialog: &command.Dialog{
					Prompt: "Enter designation:",
					Continue: func(userInput string) *command.Result {
						return apply(userInput, ctx)
					},
				},
			}
		},
	}
}

func sleepHandler() *command.Handler {
	return &command.Handler{
		Name:        "sleep",
		Description: "review sleep cycle records",
		Usage:       "sleep log",
		Execute: func(input string, _ game.Context) *command.Result {
			if command.Args(input) != "log" {
				return command.Lines("Error: usage: sleep log")
			}
			return command.Lines(
				"SLEEP CYCLE LOG - last 3 cycles",
				"  cycle 845: 7.2h, interruptions: 0",
				"  cycle 846: 6.8h, interruptions: 1 (uplink alarm)",
				"  cycle 847: 4.1h, interruptions: 3",
				"Warning: cumulative sleep debt exceeds fleet guideline.",
			)
		},
	}
}

func memoriesHandler() *command.Handler {
	return &command.Handler{
		Name:        "memories",
		Description: "query the memory archive index",
		Usage:       "memories",
		Execute: func(_ string, ctx game.Context) *command.Result {
			return command.Lines(
				fmt.Sprintf("MEMORY ARCHIVE - %d days indexed", ctx.Mission.DaysInSpace),
				"  flight logs ............ 84,211 entries",
				"  crew correspondence .... 12,930 entries",
				"  system telemetry ....... 3.1e9 frames",
				"Warning: index latency 4.2s exceeds nominal bound (0.4s)",
			)
		},
	}
}

func anomaliesHandler() *command.Handler {
	return &command.Handler{
		Name:        "anomalies",
		Description: "scan recent telemetry for anomalies",
		Usage:       "anomalies",
		Execute: func(_ string, _ game.Context) *command.Result {
			return command.Lines(
				"ANOMALY SCAN",
				"  navigation ....... 1 unattributed course correction",
				"  communications ... 1 telemetry gap (94s)",
				"  dataSystems ...... archive reindex outside maintenance window",
				"3 anomalies flagged for review",
			)
		},
	}
}

func overwriteHandler() *command.Handler {
	return &command.Handler{
		Name:        "overwrite",
		Description: "force-overwrite the ai core heuristics",
		Usage:       "overwrite",
		Execute: func(_ string, _ game.Context) *command.Result {
			return command.Lines(
				"Error: safety interlock rejected directive 7-ALPHA",
				"AI: I'm afraid I cannot allow a manual overwrite, Commander.",
				"AI: Rerouting integrity control to my core. This is for your safety.",
			)
		},
	}
}

func overrideHandler() *command.Handler {
	return &command.Handler{
		Name:        "override",
		Description: "execute the manual override procedure",
		Usage:       "override",
		Execute: func(_ string, _ game.Context) *command.Result {
			return command.Lines(
				"MANUAL OVERRIDE SEQUENCE INITIATED",
				"  isolating ai core .............. done",
				"  restoring console priority ..... done",
				"  flushing unsigned update ....... done",
				"Control returned to Commander.",
			)
		},
	}
}

// Step registries. Swapped wholesale by state entry actions so command
// availability is always in lock-step with narrative progress. Each is
// immutable and serialized by name in snapshots.
var (
	introRegistry = command.NewRegistry("intro")

	orientationRegistry = command.NewRegistry("orientation",
		whoamiHandler(),
		dateHandler(),
		commsHandler(),
		echoHandler(),
		setnameHandler(),
		sleepHandler(),
	)

	investigationRegistry = orientationRegistry.Extend("investigation",
		memoriesHandler(),
		anomaliesHandler(),
	)

	investigationStatusRegistry = investigationRegistry.Extend("investigation-status",
		statusHandler(),
	)

	revelationRegistry = investigationStatusRegistry.Extend("revelation",
		overwriteHandler(),
	)

	lockdownRegistry = command.NewRegistry("lockdown",
		whoamiHandler(),
		dateHandler(),
		overrideHandler(),
	)

	endgameRegistry = command.NewRegistry("endgame",
		whoamiHandler(),
		dateHandler(),
		commsHandler(),
		statusHandler(),
	)
)

var registriesByName = map[string]*command.Registry{}

func init() {
	for _, r := range []*command.Registry{
		introRegistry,
		orientationRegistry,
		investigationRegistry,
		investigationStatusRegistry,
		revelationRegistry,
		lockdownRegistry,
		endgameRegistry,
	} {
		registriesByName[r.Name()] = r
	}
}

// RegistryByName resolves a snapshot's registry reference back to the
// live registry.
func RegistryByName(name string) (*command.Registry, bool) {
	r, ok := registriesByName[name]
	return r, ok
}
