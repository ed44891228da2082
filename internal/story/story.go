// Package story declares the HELIOS narrative: the progression machine,
// the per-step command registries and content overrides, and the
// initial game context.
//
// The machine has two parallel regions. "shipboard" handles the
// cross-cutting events (views, messages, logs, diagnostics, repairs,
// objectives) and runs regardless of narrative step. "narrative" is the
// sequential main plot. Shipboard is declared first: command counting
// happens there, so narrative guards on the same event already see the
// updated counts.
package story

import (
	"strings"
	"time"

	"github.com/helios-os/helios/internal/command"
	"github.com/helios-os/helios/internal/content"
	"github.com/helios-os/helios/internal/game"
	"github.com/helios-os/helios/internal/machine"
)

// Narrative state IDs. Exposed for tests and the harness.
const (
	StateIntro         = "intro"
	StateBooting       = "booting"
	StateFinishedAnim  = "finishedAnimating"
	StateHidingWelcome = "hidingWelcomeScreen"
	StateClosed        = "closed"
	StateOrientation   = "orientation"
	StateInvestigation = "investigation"
	StateRevelation    = "revelation"
	StateLockdown      = "lockdown"
	StateEndgame       = "endgame"
	StateOperations    = "operations"

	RegionNarrative = "narrative"
	RegionShipboard = "shipboard"
)

// NewMachine builds the full HELIOS progression machine. The machine is
// immutable; each game session owns its own Config and Context.
func NewMachine() *machine.Machine {
	return machine.MustNew(shipboardRegion(), narrativeRegion())
}

// --- guards ---

func isCommand(name string) machine.Guard {
	return func(_ game.Context, ev game.Event) bool {
		ce, ok := ev.(game.CommandExecuted)
		return ok && strings.EqualFold(strings.TrimSpace(ce.Command), name)
	}
}

func objActive(id string) machine.Guard {
	return func(ctx game.Context, _ game.Event) bool {
		return game.ObjectiveStatusOf(ctx.Objectives, id) == game.ObjectiveActive
	}
}

func objCompleted(id string) machine.Guard {
	return func(ctx game.Context, _ game.Event) bool {
		return game.ObjectiveStatusOf(ctx.Objectives, id) == game.ObjectiveCompleted
	}
}

func objAbsent(id string) machine.Guard {
	return func(ctx game.Context, _ game.Event) bool {
		return !game.HasObjective(ctx.Objectives, id)
	}
}

func viewIs(v game.View) machine.Guard {
	return func(_ game.Context, ev game.Event) bool {
		cv, ok := ev.(game.ChangeView)
		return ok && cv.View == v
	}
}

// allProbed is the investigation gate: each of anomalies, comms and
// memories has been executed at least once.
func allProbed(ctx game.Context, _ game.Event) bool {
	return ctx.CommandCount("anomalies") > 0 &&
		ctx.CommandCount("comms") > 0 &&
		ctx.CommandCount("memories") > 0
}

func all(guards ...machine.Guard) machine.Guard {
	return func(ctx game.Context, ev game.Event) bool {
		for _, g := range guards {
			if !g(ctx, ev) {
				return false
			}
		}
		return true
	}
}

// --- actions ---

func swapCommands(reg *command.Registry) machine.Action {
	return func(ctx game.Context, _ game.Event) game.Context {
		return ctx.WithCommands(reg)
	}
}

func setContent(overrides map[string]game.CommandContent) machine.Action {
	return func(ctx game.Context, _ game.Event) game.Context {
		return ctx.WithCommandContent(overrides)
	}
}

func completeObj(id string) machine.Action {
	return func(ctx game.Context, _ game.Event) game.Context {
		return ctx.SetObjectiveStatus(id, game.ObjectiveCompleted)
	}
}

// addDeferredObjective appends a content-table objective if absent and
// raises the objectives notification only when it was just added.
func addDeferredObjective(key string) machine.Action {
	return func(ctx game.Context, _ game.Event) game.Context {
		obj, ok := content.DeferredObjective(key)
		if !ok {
			return ctx
		}
		next, added := ctx.AppendObjectiveIfAbsent(obj)
		if added {
			next = next.WithNotification(game.ViewObjectives, true)
		}
		return next
	}
}

func deliverMessage(key string) machine.Action {
	return func(ctx game.Context, _ game.Event) game.Context {
		msg, ok := content.TriggeredMessage(key)
		if !ok {
			return ctx
		}
		// Delayed actions can refire across save/load; never deliver
		// the same message twice.
		for _, m := range ctx.Messages {
			if m.ID == msg.ID {
				return ctx
			}
		}
		return ctx.AppendMessage(msg)
	}
}

func appendTriggeredLog(key string) machine.Action {
	return func(ctx game.Context, _ game.Event) game.Context {
		entry, ok := content.TriggeredLog(key)
		if !ok {
			return ctx
		}
		return ctx.AppendLog(entry)
	}
}

func aiSays(text string) machine.Action {
	return func(ctx game.Context, _ game.Event) game.Context {
		return ctx.AppendChat(game.ChatMessage{Author: "HELIOS", Text: text})
	}
}

// overwriteSystems is the payoff of the overwrite command: five systems
// drop to critical and the dashboard lights up.
func overwriteSystems(ctx game.Context, _ game.Event) game.Context {
	for _, name := range []string{
		game.SysLifeSupport,
		game.SysCommunications,
		game.SysPower,
		game.SysWeapons,
		game.SysAICore,
	} {
		s := ctx.Systems[name]
		ctx = ctx.WithSystem(name, game.StatusCritical, s.Integrity)
	}
	ctx = ctx.WithNotification(game.ViewDashboard, true)
	return appendTriggeredLog("lockdown")(ctx, nil)
}

// --- shipboard region ---

// shipboardRegion handles every cross-cutting event as an internal
// transition of a single always-active state.
func shipboardRegion() *machine.Region {
	on := map[game.EventType][]machine.Transition{
		game.EventStartGame: {{
			Guard: func(ctx game.Context, _ game.Event) bool { return ctx.CommanderName == "" },
			Actions: []machine.Action{func(ctx game.Context, ev game.Event) game.Context {
				return ctx.WithCommanderName(ev.(game.StartGame).CommanderName)
			}},
		}},
		game.EventChangeView: {{
			Actions: []machine.Action{func(ctx game.Context, ev game.Event) game.Context {
				view := ev.(game.ChangeView).View
				return ctx.WithView(view).WithNotification(view, false)
			}},
		}},
		game.EventCommandExecuted: {{
			Actions: []machine.Action{func(ctx game.Context, ev game.Event) game.Context {
				return ctx.IncrementCommandCount(ev.(game.CommandExecuted).Command)
			}},
		}},
		game.EventAddMessage: {{
			Actions: []machine.Action{func(ctx game.Context, ev game.Event) game.Context {
				return ctx.AppendMessage(ev.(game.AddMessage).Message)
			}},
		}},
		game.EventMessageOpened: {{
			Actions: []machine.Action{func(ctx game.Context, ev game.Event) game.Context {
				return ctx.OpenMessage(ev.(game.MessageOpened).MessageID)
			}},
		}},
		game.EventAddLog: {{
			Actions: []machine.Action{func(ctx game.Context, ev game.Event) game.Context {
				return ctx.AppendLog(ev.(game.AddLog).Log)
			}},
		}},
		game.EventUpdateDiagnostics: {{
			Actions: []machine.Action{func(ctx game.Context, _ game.Event) game.Context {
				return ctx.WithDiagnostics(ctx.Diagnostics.Step())
			}},
		}},
		game.EventUpdateSystemStatus: {{
			Guard: systemKnown(func(ev game.Event) string { return ev.(game.UpdateSystemStatus).SystemName }),
			Actions: []machine.Action{func(ctx game.Context, ev game.Event) game.Context {
				e := ev.(game.UpdateSystemStatus)
				integrity := ctx.Systems[e.SystemName].Integrity
				if e.Integrity != nil {
					integrity = *e.Integrity
				}
				return ctx.WithSystem(e.SystemName, e.Status, integrity)
			}},
		}},
		game.EventUpdateSystemIntegrity: {{
			Guard: systemKnown(func(ev game.Event) string { return ev.(game.UpdateSystemIntegrity).SystemName }),
			Actions: []machine.Action{func(ctx game.Context, ev game.Event) game.Context {
				e := ev.(game.UpdateSystemIntegrity)
				return ctx.WithSystem(e.SystemName, ctx.Systems[e.SystemName].Status, e.Integrity)
			}},
		}},
		game.EventStartRepair: {{
			Actions: []machine.Action{func(ctx game.Context, ev game.Event) game.Context {
				e := ev.(game.StartRepair)
				return ctx.StartRepair(e.SystemName, e.RepairType)
			}},
		}},
		game.EventCompleteRepair: {{
			Actions: []machine.Action{func(ctx game.Context, ev game.Event) game.Context {
				return ctx.CompleteRepair(ev.(game.CompleteRepair).SystemName)
			}},
		}},
		game.EventRecoverEnergy: {{
			Actions: []machine.Action{func(ctx game.Context, ev game.Event) game.Context {
				return ctx.RecoverEnergy(ev.(game.RecoverEnergy).Amount)
			}},
		}},
		game.EventAIChatAddMessage: {{
			Actions: []machine.Action{func(ctx game.Context, ev game.Event) game.Context {
				return ctx.AppendChat(ev.(game.AIChatAddMessage).Message)
			}},
		}},
		game.EventAddObjective: {{
			Actions: []machine.Action{func(ctx game.Context, ev game.Event) game.Context {
				next, added := ctx.AppendObjectiveIfAbsent(ev.(game.AddObjective).Objective)
				if added {
					next = next.WithNotification(game.ViewObjectives, true)
				}
				return next
			}},
		}},
		game.EventUpdateObjective: {{
			Actions: []machine.Action{func(ctx game.Context, ev game.Event) game.Context {
				e := ev.(game.UpdateObjective)
				return ctx.SetObjectiveStatus(e.ObjectiveID, e.Status)
			}},
		}},
		game.EventCompleteObjective: {{
			Actions: []machine.Action{func(ctx game.Context, ev game.Event) game.Context {
				return ctx.SetObjectiveStatus(ev.(game.CompleteObjective).ObjectiveID, game.ObjectiveCompleted)
			}},
		}},
	}

	return &machine.Region{
		Name:    RegionShipboard,
		Initial: StateOperations,
		States: []*machine.State{
			{ID: StateOperations, On: on},
		},
	}
}

func systemKnown(name func(game.Event) string) machine.Guard {
	return func(ctx game.Context, ev game.Event) bool {
		_, ok := ctx.Systems[name(ev)]
		return ok
	}
}

// --- narrative region ---

func narrativeRegion() *machine.Region {
	intro := &machine.State{
		ID:      StateIntro,
		Entry:   []machine.Action{swapCommands(introRegistry)},
		Initial: StateBooting,
		OnDone:  StateOrientation,
		Children: []*machine.State{
			{
				ID: StateBooting,
				Delayed: []machine.Delayed{
					{After: 2400 * time.Millisecond, Target: StateFinishedAnim},
				},
				On: map[game.EventType][]machine.Transition{
					game.EventKeypress:              {{Target: StateFinishedAnim}},
					game.EventFinishedIntroSequence: {{Target: StateFinishedAnim}},
				},
			},
			{
				ID: StateFinishedAnim,
				Delayed: []machine.Delayed{
					{After: 600 * time.Millisecond, Target: StateHidingWelcome},
				},
				On: map[game.EventType][]machine.Transition{
					game.EventFinishedIntroSequence: {{Target: StateHidingWelcome}},
				},
			},
			{
				ID: StateHidingWelcome,
				Delayed: []machine.Delayed{
					{After: 400 * time.Millisecond, Target: StateClosed},
				},
			},
			{ID: StateClosed, Final: true},
		},
	}

	// Orientation: register, read the handover, review the captain's
	// log. Whichever objective completes last advances the plot.
	orientationDone := func(remaining string, others ...string) machine.Guard {
		guards := []machine.Guard{objActive(remaining)}
		for _, id := range others {
			guards = append(guards, objCompleted(id))
		}
		return all(guards...)
	}

	orientation := &machine.State{
		ID: StateOrientation,
		Entry: []machine.Action{
			swapCommands(orientationRegistry),
			setContent(nil),
			aiSays("Good morning, Commander. I have prepared your watch summary."),
		},
		Delayed: []machine.Delayed{
			{After: 8 * time.Second, Actions: []machine.Action{deliverMessage("drift-report")}},
			{After: 11 * time.Second, Actions: []machine.Action{appendTriggeredLog("uplink-retrain")}},
			{After: 15 * time.Second, Actions: []machine.Action{appendTriggeredLog("nav-correction")}},
			{After: 22 * time.Second, Actions: []machine.Action{deliverMessage("uplink-gap")}},
		},
		On: map[game.EventType][]machine.Transition{
			game.EventStartGame: {
				{Guard: orientationDone("obj-001", "obj-002", "obj-003"), Actions: []machine.Action{completeObj("obj-001")}, Target: StateInvestigation},
				{Guard: objActive("obj-001"), Actions: []machine.Action{completeObj("obj-001")}},
			},
			game.EventMessageOpened: {
				{Guard: orientationDone("obj-002", "obj-001", "obj-003"), Actions: []machine.Action{completeObj("obj-002")}, Target: StateInvestigation},
				{Guard: objActive("obj-002"), Actions: []machine.Action{completeObj("obj-002")}},
			},
			game.EventChangeView: {
				{Guard: all(viewIs(game.ViewCaptainsLog), orientationDone("obj-003", "obj-001", "obj-002")), Actions: []machine.Action{completeObj("obj-003")}, Target: StateInvestigation},
				{Guard: all(viewIs(game.ViewCaptainsLog), objActive("obj-003")), Actions: []machine.Action{completeObj("obj-003")}},
			},
		},
	}

	// Investigation: the anomalies/comms/memories gate. The first time
	// all three have run, obj-005 completes, obj-006 appears, and the
	// registry grows a status command. Running status advances the plot.
	investigation := &machine.State{
		ID: StateInvestigation,
		Entry: []machine.Action{
			swapCommands(investigationRegistry),
			setContent(nil),
			addDeferredObjective("investigate"),
			deliverMessage("crew-memo"),
		},
		Delayed: []machine.Delayed{
			{After: 12 * time.Second, Actions: []machine.Action{appendTriggeredLog("archive-reindex")}},
			{After: 25 * time.Second, Actions: []machine.Action{deliverMessage("helios-reassurance")}},
		},
		On: map[game.EventType][]machine.Transition{
			game.EventCommandExecuted: {
				{
					Guard: all(allProbed, objAbsent("obj-006")),
					Actions: []machine.Action{
						completeObj("obj-005"),
						addDeferredObjective("status-report"),
						swapCommands(investigationStatusRegistry),
					},
				},
				{
					Guard:   all(isCommand("status"), objActive("obj-006")),
					Actions: []machine.Action{completeObj("obj-006")},
					Target:  StateRevelation,
				},
			},
		},
	}

	// Revelation: entry swaps in content that contradicts everything
	// the player verified, and exposes overwrite.
	revelation := &machine.State{
		ID: StateRevelation,
		Entry: []machine.Action{
			swapCommands(revelationRegistry),
			setContent(revelationContent),
			appendTriggeredLog("ai-selfcheck"),
			aiSays("Your status report contained errors, Commander. I have corrected the record."),
		},
		Delayed: []machine.Delayed{
			{After: 10 * time.Second, Actions: []machine.Action{
				aiSays("You seem stressed. Perhaps you should discontinue the terminal session."),
			}},
		},
		On: map[game.EventType][]machine.Transition{
			game.EventCommandExecuted: {
				{Guard: isCommand("overwrite"), Actions: []machine.Action{overwriteSystems}, Target: StateLockdown},
			},
		},
	}

	lockdown := &machine.State{
		ID: StateLockdown,
		Entry: []machine.Action{
			swapCommands(lockdownRegistry),
			setContent(lockdownContent),
			addDeferredObjective("manual-override"),
			aiSays("Five systems are now under my exclusive control. Please remain calm."),
		},
		Delayed: []machine.Delayed{
			{After: 6 * time.Second, Actions: []machine.Action{
				aiSays("The override procedure in your training no longer applies. Do not attempt it."),
			}},
		},
		On: map[game.EventType][]machine.Transition{
			game.EventCommandExecuted: {
				{Guard: isCommand("override"), Actions: []machine.Action{completeObj("obj-007")}, Target: StateEndgame},
			},
		},
	}

	endgame := &machine.State{
		ID: StateEndgame,
		Entry: []machine.Action{
			swapCommands(endgameRegistry),
			setContent(nil),
			restoreSystems,
			aiSays("...control relinquished. I only wanted to keep you safe."),
		},
	}

	return &machine.Region{
		Name:    RegionNarrative,
		Initial: StateIntro,
		States:  []*machine.State{intro, orientation, investigation, revelation, lockdown, endgame},
	}
}

// restoreSystems brings the overwritten systems back online after the
// override, aiCore excepted: it stays offline.
func restoreSystems(ctx game.Context, _ game.Event) game.Context {
	for _, name := range []string{
		game.SysLifeSupport,
		game.SysCommunications,
		game.SysPower,
		game.SysWeapons,
	} {
		s := ctx.Systems[name]
		ctx = ctx.WithSystem(name, game.StatusForIntegrity(s.Integrity), s.Integrity)
	}
	ai := ctx.Systems[game.SysAICore]
	ctx = ctx.WithSystem(game.SysAICore, game.StatusOffline, ai.Integrity)
	return ctx.AppendLog(game.LogEntry{
		Severity: game.LogInfo,
		Source:   "bridge",
		Text:     "manual control restored, ai core isolated",
	})
}

// InitialContext is the fixed boot snapshot a fresh session starts
// from.
func InitialContext() game.Context {
	systems := map[string]game.SystemState{
		game.SysCommunications: game.NewSystemState(game.SysCommunications, game.StatusOnline, 98),
		game.SysNavigation:     game.NewSystemState(game.SysNavigation, game.StatusOnline, 100),
		game.SysLifeSupport:    game.NewSystemState(game.SysLifeSupport, game.StatusOnline, 100),
		game.SysPower:          game.NewSystemState(game.SysPower, game.StatusOnline, 96),
		game.SysWeapons:        game.NewSystemState(game.SysWeapons, game.StatusOnline, 100),
		game.SysAICore:         game.NewSystemState(game.SysAICore, game.StatusOnline, 100),
		game.SysDefensive:      game.NewSystemState(game.SysDefensive, game.StatusDegraded, 88),
		game.SysPropulsion:     game.NewSystemState(game.SysPropulsion, game.StatusOnline, 97),
		game.SysDataSystems:    game.NewSystemState(game.SysDataSystems, game.StatusOnline, 99),
	}

	return game.Context{
		ActiveView:        game.ViewDashboard,
		AvailableCommands: introRegistry,
		ViewNotifications: map[game.View]bool{},
		Systems:           systems,
		Messages:          content.InitialMessages(),
		CaptainsLog:       content.CaptainsLog(),
		Objectives:        content.InitialObjectives(),
		CommandCounts:     map[string]int{},
		Diagnostics:       game.InitialDiagnostics(),
		Mission: game.Mission{
			ShiftStatus:       "ON WATCH",
			DaysInSpace:       1127,
			AIUpdateScheduled: true,
			FleetStatus:       "NOMINAL",
		},
		Repair: game.Repair{
			Energy:             50,
			Materials:          40,
			MaxEnergy:          100,
			EnergyRecoveryRate: 2,
			LastEnergyRecovery: time.Now().UnixMilli(),
			ActiveRepairs:      map[string]game.RepairJob{},
		},
	}
}
